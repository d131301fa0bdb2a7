package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role values accepted for users. Route gates compare against these.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User is an account able to authenticate against the API.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the authenticated principal injected per request. Downstream
// components trust it and never re-verify the credential.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
}

// ValidRole reports whether role is one of the known role strings.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}
