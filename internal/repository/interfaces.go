package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/materna-health/care-api/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist. Services
// translate it into the user-facing taxonomy.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	}

	AppointmentRepository interface {
		// Create validates the mother reference and inserts in a single
		// transaction; ErrNotFound means the mother does not exist or is
		// not a mother-role user.
		Create(ctx context.Context, appointment *model.Appointment) error
		GetForPersonnel(ctx context.Context, id, personnelID uuid.UUID) (*model.Appointment, error)
		GetWithPatient(ctx context.Context, id uuid.UUID) (*model.AppointmentWithPatient, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithPatient, error)
		ListForDay(ctx context.Context, personnelID uuid.UUID, day time.Time) ([]*model.AppointmentWithPatient, error)
		ListUpcoming(ctx context.Context, personnelID uuid.UUID, from time.Time, limit int) ([]*model.AppointmentWithPatient, error)
		ListPatientRows(ctx context.Context, personnelID uuid.UUID) ([]*model.PatientAppointmentRow, error)
		ListBetween(ctx context.Context, personnelID, motherID uuid.UUID) ([]*model.Appointment, error)
		ExistsLink(ctx context.Context, personnelID, motherID uuid.UUID) (bool, error)
		CountDistinctPatients(ctx context.Context, personnelID uuid.UUID) (int, error)
		GetStats(ctx context.Context, personnelID uuid.UUID, now time.Time) (*model.AppointmentStats, error)
		MonthlyCounts(ctx context.Context, personnelID uuid.UUID, from time.Time) ([]model.MonthlyCount, error)
	}

	PregnancyRecordRepository interface {
		GetByMother(ctx context.Context, motherID uuid.UUID) (*model.PregnancyRecord, error)
		AppendNote(ctx context.Context, motherID uuid.UUID, note model.Note) (*model.PregnancyRecord, error)
		AppendMedication(ctx context.Context, motherID uuid.UUID, med model.Medication) (*model.PregnancyRecord, error)
	}
)
