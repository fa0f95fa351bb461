package domain

import (
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleUser           Role = "USER"
	RoleProjectManager Role = "PROJECT_MANAGER"
)

// ParseRole maps a wire role name to a Role. Unknown names are rejected.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleProjectManager:
		return Role(s), true
	}
	return "", false
}

// HasRole reports whether roles contains the given role.
func HasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents a user entity
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize password
	Email        string    `json:"email"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
