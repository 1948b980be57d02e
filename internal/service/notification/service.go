package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/materna-health/care-api/pkg/circuitbreaker"
	"github.com/materna-health/care-api/pkg/messaging"
	"github.com/materna-health/care-api/pkg/metrics"
)

// Event names pushed to per-user channels. The mobile client subscribes to
// its own channel after login.
const (
	EventNewAppointment     = "new-appointment"
	EventAppointmentUpdated = "appointment-updated"
)

// Service emits real-time events on the recipient's channel. Delivery is
// best-effort: callers log failures and carry on.
type Service interface {
	Notify(ctx context.Context, recipientID uuid.UUID, event string, payload interface{}) error
}

type service struct {
	broker  messaging.Broker
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewService(broker messaging.Broker, m *metrics.Metrics, logger zerolog.Logger) Service {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "notification-broker",
		MaxFailures: 5,
		Timeout:     10 * time.Second,
	})
	return &service{
		broker:  broker,
		cb:      cb,
		metrics: m,
		logger:  logger,
	}
}

func (s *service) Notify(ctx context.Context, recipientID uuid.UUID, event string, payload interface{}) error {
	channel := channelFor(recipientID)
	msg := messaging.Message{
		Type:    event,
		Payload: payload,
	}

	err := s.cb.Execute(func() error {
		return s.broker.Publish(ctx, channel, msg)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.NotificationsFailed.WithLabelValues(event).Inc()
		}
		return fmt.Errorf("failed to publish %s to %s: %w", event, channel, err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsPublished.WithLabelValues(event).Inc()
	}
	s.logger.Debug().Str("channel", channel).Str("event", event).Msg("notification published")
	return nil
}

func channelFor(recipientID uuid.UUID) string {
	return "user:" + recipientID.String()
}
