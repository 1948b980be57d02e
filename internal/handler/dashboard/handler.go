package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/materna-health/care-api/internal/handler"
	"github.com/materna-health/care-api/internal/service/dashboard"
	apperrors "github.com/materna-health/care-api/pkg/errors"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetDashboard(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	data, err := h.service.Dashboard(c.Request.Context(), personnelID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, data)
}

func (h *Handler) GetAnalytics(c *gin.Context) {
	personnelID, err := handler.PersonnelID(c)
	if err != nil {
		handler.RespondError(c, apperrors.Unauthorized(err))
		return
	}

	data, err := h.service.Analytics(c.Request.Context(), personnelID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondSuccess(c, http.StatusOK, data)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.GetDashboard)
	r.GET("/analytics", h.GetAnalytics)
}
