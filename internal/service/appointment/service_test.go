package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
	"github.com/materna-health/care-api/internal/service/notification"
	apperrors "github.com/materna-health/care-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	repository.AppointmentRepository

	motherExists bool
	appointments map[uuid.UUID]*model.Appointment
	updateCalls  int
}

func newFakeAppointmentRepo(motherExists bool) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		motherExists: motherExists,
		appointments: make(map[uuid.UUID]*model.Appointment),
	}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	if !f.motherExists {
		return repository.ErrNotFound
	}
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	stored := *apt
	f.appointments[apt.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) GetForPersonnel(_ context.Context, id, personnelID uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok || apt.MedicalPersonnelID != personnelID {
		return nil, repository.ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetWithPatient(_ context.Context, id uuid.UUID) (*model.AppointmentWithPatient, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.AppointmentWithPatient{
		Appointment: *apt,
		Patient:     model.PatientSummary{ID: apt.MotherID, Name: "Asha Devi"},
	}, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	existing, ok := f.appointments[apt.ID]
	if !ok || existing.MedicalPersonnelID != apt.MedicalPersonnelID {
		return repository.ErrNotFound
	}
	f.updateCalls++
	copied := *apt
	f.appointments[apt.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithPatient, error) {
	var out []*model.AppointmentWithPatient
	for _, apt := range f.appointments {
		if apt.MedicalPersonnelID != filters.PersonnelID {
			continue
		}
		if filters.Status != "" && apt.Status != filters.Status {
			continue
		}
		out = append(out, &model.AppointmentWithPatient{Appointment: *apt})
	}
	return out, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type recordedEvent struct {
	recipientID uuid.UUID
	event       string
}

type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) Notify(_ context.Context, recipientID uuid.UUID, event string, _ interface{}) error {
	f.events = append(f.events, recordedEvent{recipientID: recipientID, event: event})
	return nil
}

func newTestService(repo *fakeAppointmentRepo, notifier *fakeNotifier) *Service {
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	return NewService(repo, users, notifier, nil, zerolog.Nop())
}

func TestCreateForcesScheduledStatus(t *testing.T) {
	repo := newFakeAppointmentRepo(true)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	personnelID := uuid.New()
	motherID := uuid.New()

	created, err := svc.Create(context.Background(), personnelID, &model.CreateAppointmentRequest{
		MotherID: motherID,
		Date:     "2026-09-15",
		Time:     "10:30",
		Type:     "checkup",
		Status:   "completed", // must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, created.Status)
	assert.Equal(t, personnelID, created.MedicalPersonnelID)
	assert.Equal(t, motherID, created.MotherID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notification.EventNewAppointment, notifier.events[0].event)
	assert.Equal(t, motherID, notifier.events[0].recipientID)
}

func TestCreateUnknownMother(t *testing.T) {
	repo := newFakeAppointmentRepo(false)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		MotherID: uuid.New(),
		Date:     "2026-09-15",
		Time:     "10:30",
		Type:     "checkup",
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Empty(t, repo.appointments)
	assert.Empty(t, notifier.events)
}

func TestCreateInvalidDate(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(true), &fakeNotifier{})

	_, err := svc.Create(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		MotherID: uuid.New(),
		Date:     "15/09/2026",
		Time:     "10:30",
		Type:     "checkup",
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func seedAppointment(repo *fakeAppointmentRepo, personnelID uuid.UUID, status model.AppointmentStatus) *model.Appointment {
	apt := &model.Appointment{
		ID:                 uuid.New(),
		MotherID:           uuid.New(),
		MedicalPersonnelID: personnelID,
		AppointmentDate:    time.Now().AddDate(0, 0, 7),
		AppointmentTime:    "09:00",
		Type:               "checkup",
		Status:             status,
		Notes:              "bring previous scans",
	}
	repo.appointments[apt.ID] = apt
	return apt
}

func TestUpdateForeignAppointment(t *testing.T) {
	repo := newFakeAppointmentRepo(true)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	owner := uuid.New()
	apt := seedAppointment(repo, owner, model.AppointmentStatusScheduled)

	status := model.AppointmentStatusConfirmed
	_, err := svc.Update(context.Background(), uuid.New(), apt.ID, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code, "foreign appointments look missing, not forbidden")
	assert.Equal(t, 0, repo.updateCalls)
	assert.Equal(t, model.AppointmentStatusScheduled, repo.appointments[apt.ID].Status)
}

func TestUpdateEmptyNotesIgnored(t *testing.T) {
	repo := newFakeAppointmentRepo(true)
	svc := newTestService(repo, &fakeNotifier{})

	personnelID := uuid.New()
	apt := seedAppointment(repo, personnelID, model.AppointmentStatusScheduled)

	empty := ""
	updated, err := svc.Update(context.Background(), personnelID, apt.ID, &model.UpdateAppointmentRequest{
		Notes: &empty,
	})
	require.NoError(t, err)

	assert.Equal(t, "bring previous scans", updated.Notes)
	assert.Equal(t, "bring previous scans", repo.appointments[apt.ID].Notes)
}

func TestUpdateInvalidTransition(t *testing.T) {
	repo := newFakeAppointmentRepo(true)
	svc := newTestService(repo, &fakeNotifier{})

	personnelID := uuid.New()
	apt := seedAppointment(repo, personnelID, model.AppointmentStatusCompleted)

	status := model.AppointmentStatusScheduled
	_, err := svc.Update(context.Background(), personnelID, apt.ID, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
	assert.Equal(t, model.AppointmentStatusCompleted, repo.appointments[apt.ID].Status)
}

func TestUpdateAppliesProvidedFields(t *testing.T) {
	repo := newFakeAppointmentRepo(true)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	personnelID := uuid.New()
	apt := seedAppointment(repo, personnelID, model.AppointmentStatusScheduled)

	status := model.AppointmentStatusConfirmed
	link := "https://meet.example.com/abc"
	updated, err := svc.Update(context.Background(), personnelID, apt.ID, &model.UpdateAppointmentRequest{
		Status:      &status,
		MeetingLink: &link,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)
	assert.Equal(t, link, updated.MeetingLink)
	assert.Equal(t, "bring previous scans", updated.Notes)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, notification.EventAppointmentUpdated, notifier.events[0].event)
	assert.Equal(t, apt.MotherID, notifier.events[0].recipientID)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(true), &fakeNotifier{})

	_, err := svc.List(context.Background(), uuid.New(), "pending", "")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestListReturnsEmptySliceNotNil(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(true), &fakeNotifier{})

	appointments, err := svc.List(context.Background(), uuid.New(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, appointments)
	assert.Empty(t, appointments)
}
