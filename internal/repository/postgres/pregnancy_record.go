package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
)

const recordColumns = `id, mother_id, notes, medications, created_at, updated_at`

func (r *pregnancyRecordRepository) GetByMother(ctx context.Context, motherID uuid.UUID) (*model.PregnancyRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM pregnancy_records WHERE mother_id = $1`, recordColumns)

	var record model.PregnancyRecord
	err := r.db.GetContext(ctx, &record, query, motherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pregnancy record: %w", err)
	}
	return &record, nil
}

// AppendNote pushes a note onto the JSONB list in a single statement, so
// concurrent appends cannot lose entries.
func (r *pregnancyRecordRepository) AppendNote(ctx context.Context, motherID uuid.UUID, note model.Note) (*model.PregnancyRecord, error) {
	payload, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE pregnancy_records
		SET notes = notes || $1::jsonb, updated_at = $2
		WHERE mother_id = $3
		RETURNING %s
	`, recordColumns)

	var record model.PregnancyRecord
	err = r.db.GetContext(ctx, &record, query, payload, time.Now(), motherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append note: %w", err)
	}
	return &record, nil
}

func (r *pregnancyRecordRepository) AppendMedication(ctx context.Context, motherID uuid.UUID, med model.Medication) (*model.PregnancyRecord, error) {
	payload, err := json.Marshal(med)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal medication: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE pregnancy_records
		SET medications = medications || $1::jsonb, updated_at = $2
		WHERE mother_id = $3
		RETURNING %s
	`, recordColumns)

	var record model.PregnancyRecord
	err = r.db.GetContext(ctx, &record, query, payload, time.Now(), motherID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append medication: %w", err)
	}
	return &record, nil
}
