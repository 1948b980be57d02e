package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/materna-health/care-api/pkg/errors"
)

// Response is the success envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse carries a short message and nothing else; internal detail
// stays in the logs.
type ErrorResponse struct {
	Message string `json:"message"`
}

func RespondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondError maps an AppError to its status and message; anything else is
// logged and surfaced as a generic 500.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		if appErr.Code == apperrors.ErrInternal {
			log.Error().Err(appErr).Str("path", c.Request.URL.Path).Msg("request failed")
		}
		c.JSON(appErr.StatusCode(), ErrorResponse{Message: appErr.Message})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
}
