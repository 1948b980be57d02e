package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("appointment", nil), http.StatusNotFound},
		{"bad request", BadRequest("invalid date", nil), http.StatusBadRequest},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"forbidden", Forbidden("no access"), http.StatusForbidden},
		{"internal", Internal(nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("patient", nil)
	assert.Equal(t, "patient not found", err.Message)
	assert.Equal(t, "patient not found", err.Error())
}

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("sql: no rows in result set")
	err := NotFound("appointment", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "sql: no rows")
}
