package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/materna-health/care-api/internal/config"
	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/pkg/metrics"
)

type Service interface {
	SendAppointmentConfirmation(ctx context.Context, to, name string, apt *model.Appointment) error
}

// NewService returns a gomail-backed sender, or a no-op when SMTP is not
// configured.
func NewService(cfg config.SMTPConfig, m *metrics.Metrics) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		metrics: m,
	}
}

type smtpService struct {
	dialer  *gomail.Dialer
	from    string
	metrics *metrics.Metrics
}

func (s *smtpService) SendAppointmentConfirmation(_ context.Context, to, name string, apt *model.Appointment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your appointment has been scheduled")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nA %s appointment has been scheduled for you on %s at %s.\n\nMaterna Care",
		name, apt.Type, apt.AppointmentDate.Format("2006-01-02"), apt.AppointmentTime,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		if s.metrics != nil {
			s.metrics.EmailsFailed.Inc()
		}
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	if s.metrics != nil {
		s.metrics.EmailsSent.Inc()
	}
	return nil
}

type noopService struct{}

func (n *noopService) SendAppointmentConfirmation(context.Context, string, string, *model.Appointment) error {
	return nil
}
