package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMother           Role = "mother"
	RoleMedicalPersonnel Role = "medical_personnel"
)

// User covers both mothers and medical personnel. Accounts are created by the
// registration flow outside this service; this surface only reads them.
type User struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	Phone          string     `db:"phone" json:"phone,omitempty"`
	Role           Role       `db:"role" json:"role"`
	ProfileImage   string     `db:"profile_image" json:"profile_image,omitempty"`
	Specialization string     `db:"specialization" json:"specialization,omitempty"`
	DueDate        *time.Time `db:"due_date" json:"due_date,omitempty"`
	PregnancyStage string     `db:"pregnancy_stage" json:"pregnancy_stage,omitempty"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// PatientSummary is the patient subset attached to appointment results.
type PatientSummary struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	ProfileImage string    `db:"profile_image" json:"profile_image,omitempty"`
}

// PatientProfile extends the summary with pregnancy metadata for the
// patient list.
type PatientProfile struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	Phone          string     `db:"phone" json:"phone,omitempty"`
	ProfileImage   string     `db:"profile_image" json:"profile_image,omitempty"`
	DueDate        *time.Time `db:"due_date" json:"due_date,omitempty"`
	PregnancyStage string     `db:"pregnancy_stage" json:"pregnancy_stage,omitempty"`
}
