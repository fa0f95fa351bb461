package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kiarashjv/task-management-system/internal/domain"
	"github.com/kiarashjv/task-management-system/internal/dto"
	"github.com/kiarashjv/task-management-system/internal/middleware"
	"github.com/kiarashjv/task-management-system/internal/response"
	"github.com/kiarashjv/task-management-system/internal/service"
)

// TaskHandler handles task management HTTP requests
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func taskFromRequest(req *dto.TaskRequest) *domain.Task {
	return &domain.Task{
		Title:          req.Title,
		Description:    req.Description,
		Status:         domain.TaskStatus(req.Status),
		Priority:       domain.TaskPriority(req.Priority),
		DueDate:        req.DueDate,
		AssignedUserID: req.AssignedUserID,
	}
}

// Create handles task creation
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task := taskFromRequest(&req)
	if principal, ok := middleware.GetPrincipal(c); ok {
		task.CreatedBy = principal.Username
	}

	created, err := h.taskService.Create(c.Request.Context(), task)
	if err != nil {
		if errors.Is(err, service.ErrAssignedUserNotFound) {
			response.NotFound(c, "Assigned user not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, dto.NewTaskResponse(created))
}

// Get handles task retrieval
// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, "Task not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewTaskResponse(task))
}

// Update handles task update
// PUT /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid task ID")
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), id, taskFromRequest(&req))
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, "Task not found")
			return
		}
		if errors.Is(err, service.ErrAssignedUserNotFound) {
			response.NotFound(c, "Assigned user not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, dto.NewTaskResponse(task))
}

// Delete handles task deletion
// DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			response.NotFound(c, "Task not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.NoContent(c)
}

// List handles task listing
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.taskService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, dto.NewTaskResponse(task))
	}

	response.Success(c, result)
}
