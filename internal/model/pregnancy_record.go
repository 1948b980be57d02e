package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Note is a clinical note appended to a pregnancy record.
type Note struct {
	Content   string    `json:"content"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Prescriber is the personnel subset attached to medications at read time.
type Prescriber struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

type Medication struct {
	Name         string      `json:"name"`
	Dosage       string      `json:"dosage"`
	Frequency    string      `json:"frequency"`
	PrescribedBy uuid.UUID   `json:"prescribed_by"`
	StartDate    *time.Time  `json:"start_date,omitempty"`
	EndDate      *time.Time  `json:"end_date,omitempty"`
	Prescriber   *Prescriber `json:"prescriber,omitempty"`
}

// NoteList and MedicationList are stored as JSONB columns. Appends happen
// in SQL so single-statement atomicity comes from the store.
type NoteList []Note

func (l NoteList) Value() (driver.Value, error) {
	if l == nil {
		l = NoteList{}
	}
	return json.Marshal(l)
}

func (l *NoteList) Scan(src interface{}) error {
	return scanJSONList(src, l)
}

type MedicationList []Medication

func (l MedicationList) Value() (driver.Value, error) {
	if l == nil {
		l = MedicationList{}
	}
	return json.Marshal(l)
}

func (l *MedicationList) Scan(src interface{}) error {
	return scanJSONList(src, l)
}

func scanJSONList(src, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// PregnancyRecord holds the per-mother clinical history. One record per
// mother, created by the enrollment flow outside this service. Both lists
// are append-only through this surface.
type PregnancyRecord struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	MotherID    uuid.UUID      `db:"mother_id" json:"mother_id"`
	Notes       NoteList       `db:"notes" json:"notes"`
	Medications MedicationList `db:"medications" json:"medications"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

type AddNoteRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type AddMedicationRequest struct {
	Name      string     `json:"name" binding:"required,max=200"`
	Dosage    string     `json:"dosage" binding:"required,max=200"`
	Frequency string     `json:"frequency" binding:"required,max=200"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}
