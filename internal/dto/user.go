package dto

import (
	"time"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

// UserRequest represents user create/update request
type UserRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Password string   `json:"password" binding:"required,min=4,max=72"`
	Email    string   `json:"email" binding:"required,email"`
	Roles    []string `json:"roles" binding:"required,min=1"`
}

// ParseRoles maps the request role names onto the role enumeration.
// Unknown names are rejected with the offending value.
func (r *UserRequest) ParseRoles() ([]domain.Role, string) {
	roles := make([]domain.Role, 0, len(r.Roles))
	for _, name := range r.Roles {
		role, ok := domain.ParseRole(name)
		if !ok {
			return nil, name
		}
		roles = append(roles, role)
	}
	return roles, ""
}

// UserResponse represents user data in response. The password hash is
// never exposed.
type UserResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// NewUserResponse converts a User to a UserResponse
func NewUserResponse(user *domain.User) UserResponse {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, string(role))
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     roles,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}
