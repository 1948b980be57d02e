package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PersonnelIDKey is set by the auth middleware once the caller is verified
// to be a medical_personnel user.
const PersonnelIDKey = "personnelID"

// PersonnelID extracts the authenticated personnel identity from the request
// context.
func PersonnelID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(PersonnelIDKey)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no authenticated personnel in context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid personnel ID in context: %w", err)
	}
	return id, nil
}
