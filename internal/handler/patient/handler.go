package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/materna-health/care-api/internal/handler"
	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/service/patient"
	apperrors "github.com/materna-health/care-api/pkg/errors"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListPatients(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	patients, err := h.service.List(c.Request.Context(), personnelID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid patient ID", err))
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), personnelID, patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, detail)
}

func (h *Handler) AddNote(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid patient ID", err))
		return
	}

	var req model.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	record, err := h.service.AddNote(c.Request.Context(), personnelID, patientID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, record)
}

func (h *Handler) AddMedication(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid patient ID", err))
		return
	}

	var req model.AddMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	record, err := h.service.AddMedication(c.Request.Context(), personnelID, patientID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, record)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/:patientId", h.GetPatient)
		patients.POST("/:patientId/notes", h.AddNote)
		patients.POST("/:patientId/medications", h.AddMedication)
	}
}
