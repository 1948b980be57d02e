package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/materna-health/care-api/internal/email"
	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
	"github.com/materna-health/care-api/internal/service/notification"
	apperrors "github.com/materna-health/care-api/pkg/errors"
)

type Service struct {
	repo     repository.AppointmentRepository
	users    repository.UserRepository
	notifier notification.Service
	mailer   email.Service
	logger   zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	users repository.UserRepository,
	notifier notification.Service,
	mailer email.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		mailer:   mailer,
		logger:   logger,
	}
}

// Create books an appointment for the calling personnel. The status is
// always scheduled; whatever the caller supplied in the request is ignored.
func (s *Service) Create(ctx context.Context, personnelID uuid.UUID, req *model.CreateAppointmentRequest) (*model.AppointmentWithPatient, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date format, expected YYYY-MM-DD", err)
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, apperrors.BadRequest("invalid time format, expected HH:MM", err)
	}

	apt := &model.Appointment{
		MotherID:           req.MotherID,
		MedicalPersonnelID: personnelID,
		AppointmentDate:    date,
		AppointmentTime:    req.Time,
		Type:               req.Type,
		Status:             model.AppointmentStatusScheduled,
		Notes:              req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	enriched, err := s.repo.GetWithPatient(ctx, apt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created appointment: %w", err)
	}

	s.notify(ctx, apt.MotherID, notification.EventNewAppointment, enriched)
	s.sendConfirmation(apt)

	return enriched, nil
}

// Update applies the provided fields to an appointment owned by the calling
// personnel. Empty strings are ignored, so callers cannot clear notes or the
// meeting link through this endpoint.
func (s *Service) Update(ctx context.Context, personnelID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.AppointmentWithPatient, error) {
	apt, err := s.repo.GetForPersonnel(ctx, id, personnelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if req.Status != nil && *req.Status != "" {
		if !apt.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.BadRequest(
				fmt.Sprintf("cannot change status from %s to %s", apt.Status, *req.Status), nil)
		}
		apt.Status = *req.Status
	}
	if req.Notes != nil && *req.Notes != "" {
		apt.Notes = *req.Notes
	}
	if req.MeetingLink != nil && *req.MeetingLink != "" {
		apt.MeetingLink = *req.MeetingLink
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	enriched, err := s.repo.GetWithPatient(ctx, apt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated appointment: %w", err)
	}

	s.notify(ctx, apt.MotherID, notification.EventAppointmentUpdated, enriched)

	return enriched, nil
}

// List returns the calling personnel's appointments, optionally narrowed by
// status and calendar day.
func (s *Service) List(ctx context.Context, personnelID uuid.UUID, status, date string) ([]*model.AppointmentWithPatient, error) {
	filters := &model.AppointmentFilters{PersonnelID: personnelID}

	if status != "" {
		st := model.AppointmentStatus(status)
		if !st.Valid() {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown status %q", status), nil)
		}
		filters.Status = st
	}

	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, apperrors.BadRequest("invalid date format, expected YYYY-MM-DD", err)
		}
		filters.Day = &day
	}

	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if appointments == nil {
		appointments = []*model.AppointmentWithPatient{}
	}
	return appointments, nil
}

// notify is best-effort: a failed publish never fails the request.
func (s *Service) notify(ctx context.Context, recipientID uuid.UUID, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, recipientID, event, payload); err != nil {
		s.logger.Warn().Err(err).
			Str("event", event).
			Str("recipient_id", recipientID.String()).
			Msg("notification delivery failed")
	}
}

func (s *Service) sendConfirmation(apt *model.Appointment) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		mother, err := s.users.Get(ctx, apt.MotherID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("skipping confirmation email, mother lookup failed")
			return
		}
		if err := s.mailer.SendAppointmentConfirmation(ctx, mother.Email, mother.Name, apt); err != nil {
			s.logger.Warn().Err(err).Msg("confirmation email failed")
		}
	}()
}
