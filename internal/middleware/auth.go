package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/materna-health/care-api/internal/handler"
	"github.com/materna-health/care-api/internal/model"
	"github.com/materna-health/care-api/pkg/auth"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and requires the medical_personnel
// role. The personnel identity lands in the request context for handlers.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ErrorResponse{Message: "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ErrorResponse{Message: "invalid authorization format"})
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.ErrorResponse{Message: "invalid token"})
			return
		}

		if claims.Role != string(model.RoleMedicalPersonnel) {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.ErrorResponse{Message: "medical personnel access required"})
			return
		}

		c.Set(handler.PersonnelIDKey, claims.UserID.String())
		c.Next()
	}
}
