package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// statusTransitions is the allowed-transition table. Completed and cancelled
// are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Appointment links one mother to one medical personnel. The date carries the
// calendar day; the time of day is stored separately as "HH:MM" so results
// sort by date then time the same way the booking UI presents them.
type Appointment struct {
	ID                 uuid.UUID         `db:"id" json:"id"`
	MotherID           uuid.UUID         `db:"mother_id" json:"mother_id"`
	MedicalPersonnelID uuid.UUID         `db:"medical_personnel_id" json:"medical_personnel_id"`
	AppointmentDate    time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime    string            `db:"appointment_time" json:"appointment_time"`
	Type               string            `db:"type" json:"type"`
	Status             AppointmentStatus `db:"status" json:"status"`
	Notes              string            `db:"notes" json:"notes,omitempty"`
	MeetingLink        string            `db:"meeting_link" json:"meeting_link,omitempty"`
	CreatedAt          time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentWithPatient is an appointment enriched with its patient's
// profile subset, read-time joined in the repository.
type AppointmentWithPatient struct {
	Appointment
	Patient PatientSummary `db:"patient" json:"patient"`
}

// PatientAppointmentRow carries the extended patient profile used by the
// patient list, one row per appointment ordered by appointment creation.
type PatientAppointmentRow struct {
	AppointmentID        uuid.UUID      `db:"appointment_id" json:"-"`
	AppointmentCreatedAt time.Time      `db:"appointment_created_at" json:"-"`
	Patient              PatientProfile `db:"patient" json:"patient"`
}

type CreateAppointmentRequest struct {
	MotherID uuid.UUID `json:"mother_id" binding:"required"`
	Date     string    `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string    `json:"time" binding:"required"`
	Type     string    `json:"type" binding:"required,max=100"`
	Notes    string    `json:"notes" binding:"max=1000"`
	// Status is accepted for wire compatibility but always overridden to
	// scheduled on creation.
	Status string `json:"status"`
}

type UpdateAppointmentRequest struct {
	Status      *AppointmentStatus `json:"status" binding:"omitempty,appointmentstatus"`
	Notes       *string            `json:"notes"`
	MeetingLink *string            `json:"meeting_link"`
}

// AppointmentFilters narrows the appointment list. PersonnelID is always set
// by the caller's identity; the rest are optional.
type AppointmentFilters struct {
	PersonnelID uuid.UUID
	Status      AppointmentStatus
	Day         *time.Time
}
