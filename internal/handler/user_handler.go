package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiarashjv/task-management-system/internal/dto"
	"github.com/kiarashjv/task-management-system/internal/response"
	"github.com/kiarashjv/task-management-system/internal/service"
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles user creation
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	roles, unknown := req.ParseRoles()
	if unknown != "" {
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role: "+unknown, "")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req.Username, req.Password, req.Email, roles)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Error(c, http.StatusBadRequest, "USER_EXISTS", "User with this username already exists", "")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, dto.NewUserResponse(user))
}

// Get handles user retrieval
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// Update handles user update
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	roles, unknown := req.ParseRoles()
	if unknown != "" {
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role: "+unknown, "")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req.Username, req.Password, req.Email, roles)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewUserResponse(user))
}

// Delete handles user deletion
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.NoContent(c)
}

// List handles user listing
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	result := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, dto.NewUserResponse(user))
	}

	response.Success(c, result)
}
