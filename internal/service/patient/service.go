package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
	apperrors "github.com/materna-health/care-api/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	records      repository.PregnancyRecordRepository
	logger       zerolog.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	records repository.PregnancyRecordRepository,
	logger zerolog.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		users:        users,
		records:      records,
		logger:       logger,
	}
}

// List returns the distinct patients of the calling personnel. The underlying
// rows come back one per appointment, newest first; the first row seen for a
// mother decides which profile snapshot survives deduplication.
func (s *Service) List(ctx context.Context, personnelID uuid.UUID) ([]*model.PatientProfile, error) {
	rows, err := s.appointments.ListPatientRows(ctx, personnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(rows))
	patients := make([]*model.PatientProfile, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Patient.ID]; ok {
			continue
		}
		seen[row.Patient.ID] = struct{}{}
		profile := row.Patient
		patients = append(patients, &profile)
	}
	return patients, nil
}

// Detail returns the patient page payload. Personnel may only see patients
// they share at least one appointment with.
func (s *Service) Detail(ctx context.Context, personnelID, patientID uuid.UUID) (*model.PatientDetail, error) {
	linked, err := s.appointments.ExistsLink(ctx, personnelID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check care link: %w", err)
	}
	if !linked {
		return nil, apperrors.Forbidden("no appointment links you to this patient")
	}

	patient, err := s.users.GetByRole(ctx, patientID, model.RoleMother)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// An appointment exists but the profile is gone. Surface it
			// rather than returning a half-empty payload.
			s.logger.Error().
				Str("patient_id", patientID.String()).
				Str("personnel_id", personnelID.String()).
				Msg("appointment references a missing patient profile")
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	record, err := s.records.GetByMother(ctx, patientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get pregnancy record: %w", err)
	}
	if record != nil {
		if err := s.enrichPrescribers(ctx, record); err != nil {
			return nil, err
		}
	}

	appointments, err := s.appointments.ListBetween(ctx, personnelID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}

	return &model.PatientDetail{
		Patient:         patient,
		PregnancyRecord: record,
		Appointments:    appointments,
	}, nil
}

// AddNote appends a clinical note to the patient's pregnancy record, stamped
// with the calling personnel and the current time.
//
// TODO: decide with product whether note/medication writes should require an
// appointment link like Detail does; today any authenticated personnel can
// write to any record.
func (s *Service) AddNote(ctx context.Context, personnelID, patientID uuid.UUID, req *model.AddNoteRequest) (*model.PregnancyRecord, error) {
	note := model.Note{
		Content:   req.Content,
		CreatedBy: personnelID,
		CreatedAt: time.Now(),
	}

	record, err := s.records.AppendNote(ctx, patientID, note)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("pregnancy record", err)
		}
		return nil, fmt.Errorf("failed to append note: %w", err)
	}
	return record, nil
}

// AddMedication appends a medication prescribed by the calling personnel and
// returns the record with the full medication list prescriber-enriched.
func (s *Service) AddMedication(ctx context.Context, personnelID, patientID uuid.UUID, req *model.AddMedicationRequest) (*model.PregnancyRecord, error) {
	med := model.Medication{
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		PrescribedBy: personnelID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}

	record, err := s.records.AppendMedication(ctx, patientID, med)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("pregnancy record", err)
		}
		return nil, fmt.Errorf("failed to append medication: %w", err)
	}

	if err := s.enrichPrescribers(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// enrichPrescribers attaches prescriber name and specialization to every
// medication entry in one batched user lookup.
func (s *Service) enrichPrescribers(ctx context.Context, record *model.PregnancyRecord) error {
	if len(record.Medications) == 0 {
		return nil
	}

	idSet := make(map[uuid.UUID]struct{})
	for _, med := range record.Medications {
		if med.PrescribedBy != uuid.Nil {
			idSet[med.PrescribedBy] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	prescribers, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load prescribers: %w", err)
	}

	byID := make(map[uuid.UUID]*model.User, len(prescribers))
	for _, u := range prescribers {
		byID[u.ID] = u
	}

	for i := range record.Medications {
		if u, ok := byID[record.Medications[i].PrescribedBy]; ok {
			record.Medications[i].Prescriber = &model.Prescriber{
				Name:           u.Name,
				Specialization: u.Specialization,
			}
		}
	}
	return nil
}
