package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-health/care-api/internal/handler"
	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/repository"
	appointmentService "github.com/materna-health/care-api/internal/service/appointment"
	"github.com/materna-health/care-api/pkg/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterCustom(); err != nil {
		panic(err)
	}
	m.Run()
}

type fakeAppointmentRepo struct {
	repository.AppointmentRepository

	motherExists bool
	appointments map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	if !f.motherExists {
		return repository.ErrNotFound
	}
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
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
	return &model.AppointmentWithPatient{Appointment: *apt}, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	copied := *apt
	f.appointments[apt.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithPatient, error) {
	out := []*model.AppointmentWithPatient{}
	for _, apt := range f.appointments {
		if apt.MedicalPersonnelID == filters.PersonnelID {
			out = append(out, &model.AppointmentWithPatient{Appointment: *apt})
		}
	}
	return out, nil
}

type fakeNotifier struct{}

func (fakeNotifier) Notify(context.Context, uuid.UUID, string, interface{}) error { return nil }

func setupRouter(repo *fakeAppointmentRepo, personnelID uuid.UUID) *gin.Engine {
	svc := appointmentService.NewService(repo, nil, fakeNotifier{}, nil, zerolog.Nop())
	h := NewHandler(svc)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(handler.PersonnelIDKey, personnelID.String())
	})
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateAppointmentReturns201(t *testing.T) {
	repo := &fakeAppointmentRepo{motherExists: true, appointments: make(map[uuid.UUID]*model.Appointment)}
	engine := setupRouter(repo, uuid.New())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/appointments", gin.H{
		"mother_id": uuid.New().String(),
		"date":      "2026-09-15",
		"time":      "10:30",
		"type":      "checkup",
		"status":    "completed",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.AppointmentStatusScheduled, resp.Data.Status)
}

func TestCreateAppointmentUnknownMotherReturns404(t *testing.T) {
	repo := &fakeAppointmentRepo{motherExists: false, appointments: make(map[uuid.UUID]*model.Appointment)}
	engine := setupRouter(repo, uuid.New())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/appointments", gin.H{
		"mother_id": uuid.New().String(),
		"date":      "2026-09-15",
		"time":      "10:30",
		"type":      "checkup",
	})

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "patient not found", resp.Message)
	assert.Empty(t, repo.appointments)
}

func TestCreateAppointmentMissingFieldsReturns400(t *testing.T) {
	repo := &fakeAppointmentRepo{motherExists: true, appointments: make(map[uuid.UUID]*model.Appointment)}
	engine := setupRouter(repo, uuid.New())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/appointments", gin.H{
		"mother_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateForeignAppointmentReturns404(t *testing.T) {
	repo := &fakeAppointmentRepo{motherExists: true, appointments: make(map[uuid.UUID]*model.Appointment)}

	foreign := &model.Appointment{
		ID:                 uuid.New(),
		MotherID:           uuid.New(),
		MedicalPersonnelID: uuid.New(),
		Status:             model.AppointmentStatusScheduled,
	}
	repo.appointments[foreign.ID] = foreign

	engine := setupRouter(repo, uuid.New())

	w := doRequest(t, engine, http.MethodPatch, "/api/v1/appointments/"+foreign.ID.String(), gin.H{
		"status": "confirmed",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, model.AppointmentStatusScheduled, repo.appointments[foreign.ID].Status)
}

func TestUpdateAppointmentInvalidStatusReturns400(t *testing.T) {
	repo := &fakeAppointmentRepo{motherExists: true, appointments: make(map[uuid.UUID]*model.Appointment)}
	engine := setupRouter(repo, uuid.New())

	w := doRequest(t, engine, http.MethodPatch, "/api/v1/appointments/"+uuid.New().String(), gin.H{
		"status": "rescheduled",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAppointmentInvalidIDReturns400(t *testing.T) {
	repo := &fakeAppointmentRepo{motherExists: true, appointments: make(map[uuid.UUID]*model.Appointment)}
	engine := setupRouter(repo, uuid.New())

	w := doRequest(t, engine, http.MethodPatch, "/api/v1/appointments/not-a-uuid", gin.H{
		"status": "confirmed",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAppointmentsEnvelope(t *testing.T) {
	personnelID := uuid.New()
	repo := &fakeAppointmentRepo{motherExists: true, appointments: make(map[uuid.UUID]*model.Appointment)}
	engine := setupRouter(repo, personnelID)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/appointments", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}
