package services

import (
	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	ID   uuid.UUID
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}
