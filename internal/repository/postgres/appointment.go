package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
)

const appointmentColumns = `a.id, a.mother_id, a.medical_personnel_id, a.appointment_date,
	a.appointment_time, a.type, a.status, a.notes, a.meeting_link, a.created_at, a.updated_at`

const patientSummaryColumns = `u.id AS "patient.id", u.name AS "patient.name",
	u.phone AS "patient.phone", u.profile_image AS "patient.profile_image"`

// dayBounds returns the inclusive bounds of the calendar day containing t,
// in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The mother check and the insert share one transaction so a concurrent
	// account deletion cannot slip between them.
	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2)`,
		apt.MotherID, model.RoleMother)
	if err != nil {
		return fmt.Errorf("failed to check mother: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}

	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	query := `
		INSERT INTO appointments (
			id, mother_id, medical_personnel_id, appointment_date,
			appointment_time, type, status, notes, meeting_link,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		apt.ID,
		apt.MotherID,
		apt.MedicalPersonnelID,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.Type,
		apt.Status,
		apt.Notes,
		apt.MeetingLink,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit appointment: %w", err)
	}
	return nil
}

// GetForPersonnel scopes the lookup to the owning personnel, so a foreign
// appointment is indistinguishable from a missing one.
func (r *appointmentRepository) GetForPersonnel(ctx context.Context, id, personnelID uuid.UUID) (*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments a
		WHERE a.id = $1 AND a.medical_personnel_id = $2
	`, appointmentColumns)

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id, personnelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) GetWithPatient(ctx context.Context, id uuid.UUID) (*model.AppointmentWithPatient, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM appointments a
		JOIN users u ON u.id = a.mother_id
		WHERE a.id = $1
	`, appointmentColumns, patientSummaryColumns)

	var apt model.AppointmentWithPatient
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment with patient: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	apt.UpdatedAt = time.Now()

	query := `
		UPDATE appointments
		SET status = $1, notes = $2, meeting_link = $3, updated_at = $4
		WHERE id = $5 AND medical_personnel_id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		apt.Status,
		apt.Notes,
		apt.MeetingLink,
		apt.UpdatedAt,
		apt.ID,
		apt.MedicalPersonnelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithPatient, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM appointments a
		JOIN users u ON u.id = a.mother_id
		WHERE a.medical_personnel_id = $1
	`, appointmentColumns, patientSummaryColumns)

	args := []interface{}{filters.PersonnelID}
	argCount := 2

	if filters.Status != "" {
		query += fmt.Sprintf(" AND a.status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.Day != nil {
		start, end := dayBounds(*filters.Day)
		query += fmt.Sprintf(" AND a.appointment_date >= $%d AND a.appointment_date <= $%d", argCount, argCount+1)
		args = append(args, start, end)
	}

	query += " ORDER BY a.appointment_date ASC, a.appointment_time ASC"

	var appointments []*model.AppointmentWithPatient
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDay(ctx context.Context, personnelID uuid.UUID, day time.Time) ([]*model.AppointmentWithPatient, error) {
	start, end := dayBounds(day)

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM appointments a
		JOIN users u ON u.id = a.mother_id
		WHERE a.medical_personnel_id = $1
		AND a.appointment_date >= $2 AND a.appointment_date <= $3
		ORDER BY a.appointment_date ASC, a.appointment_time ASC
	`, appointmentColumns, patientSummaryColumns)

	var appointments []*model.AppointmentWithPatient
	if err := r.db.SelectContext(ctx, &appointments, query, personnelID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list appointments for day: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcoming(ctx context.Context, personnelID uuid.UUID, from time.Time, limit int) ([]*model.AppointmentWithPatient, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM appointments a
		JOIN users u ON u.id = a.mother_id
		WHERE a.medical_personnel_id = $1
		AND a.appointment_date >= $2
		AND a.status IN ($3, $4)
		ORDER BY a.appointment_date ASC, a.appointment_time ASC
		LIMIT $5
	`, appointmentColumns, patientSummaryColumns)

	var appointments []*model.AppointmentWithPatient
	err := r.db.SelectContext(ctx, &appointments, query,
		personnelID, from,
		model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListPatientRows(ctx context.Context, personnelID uuid.UUID) ([]*model.PatientAppointmentRow, error) {
	query := `
		SELECT a.id AS appointment_id, a.created_at AS appointment_created_at,
			u.id AS "patient.id", u.name AS "patient.name", u.email AS "patient.email",
			u.phone AS "patient.phone", u.profile_image AS "patient.profile_image",
			u.due_date AS "patient.due_date", u.pregnancy_stage AS "patient.pregnancy_stage"
		FROM appointments a
		JOIN users u ON u.id = a.mother_id
		WHERE a.medical_personnel_id = $1
		ORDER BY a.created_at DESC
	`

	var rows []*model.PatientAppointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, personnelID); err != nil {
		return nil, fmt.Errorf("failed to list patient rows: %w", err)
	}
	return rows, nil
}

func (r *appointmentRepository) ListBetween(ctx context.Context, personnelID, motherID uuid.UUID) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments a
		WHERE a.medical_personnel_id = $1 AND a.mother_id = $2
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
	`, appointmentColumns)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, personnelID, motherID); err != nil {
		return nil, fmt.Errorf("failed to list appointments between personnel and patient: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ExistsLink(ctx context.Context, personnelID, motherID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE medical_personnel_id = $1 AND mother_id = $2
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, personnelID, motherID); err != nil {
		return false, fmt.Errorf("failed to check care link: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) CountDistinctPatients(ctx context.Context, personnelID uuid.UUID) (int, error) {
	query := `SELECT COUNT(DISTINCT mother_id) FROM appointments WHERE medical_personnel_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, personnelID); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) GetStats(ctx context.Context, personnelID uuid.UUID, now time.Time) (*model.AppointmentStats, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = $2) AS completed,
			COUNT(*) FILTER (WHERE status IN ($3, $4) AND appointment_date >= $5) AS upcoming,
			COUNT(DISTINCT mother_id) AS patients
		FROM appointments
		WHERE medical_personnel_id = $1
	`
	var stats model.AppointmentStats
	err := r.db.GetContext(ctx, &stats, query,
		personnelID,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment stats: %w", err)
	}
	return &stats, nil
}

func (r *appointmentRepository) MonthlyCounts(ctx context.Context, personnelID uuid.UUID, from time.Time) ([]model.MonthlyCount, error) {
	query := `
		SELECT EXTRACT(YEAR FROM appointment_date)::int AS year,
			EXTRACT(MONTH FROM appointment_date)::int AS month,
			COUNT(*)::int AS count
		FROM appointments
		WHERE medical_personnel_id = $1 AND appointment_date >= $2
		GROUP BY 1, 2
		ORDER BY 1, 2
	`
	var counts []model.MonthlyCount
	if err := r.db.SelectContext(ctx, &counts, query, personnelID, from); err != nil {
		return nil, fmt.Errorf("failed to get monthly counts: %w", err)
	}
	return counts, nil
}
