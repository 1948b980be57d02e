package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/materna-health/care-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type pregnancyRecordRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewPregnancyRecordRepository(db *sqlx.DB) repository.PregnancyRecordRepository {
	return &pregnancyRecordRepository{db: db}
}
