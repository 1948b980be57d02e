package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/materna-health/care-api/internal/handler"
	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/internal/service/appointment"
	apperrors "github.com/materna-health/care-api/pkg/errors"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), personnelID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusCreated, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	appointments, err := h.service.List(c.Request.Context(), personnelID, c.Query("status"), c.Query("date"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.Update(c.Request.Context(), personnelID, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, apt)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.PATCH("/:id", h.UpdateAppointment)
	}
}
