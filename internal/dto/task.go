package dto

import (
	"time"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

// TaskRequest represents task create/update request
type TaskRequest struct {
	Title          string     `json:"title" binding:"required,min=1,max=200"`
	Description    string     `json:"description" binding:"max=2000"`
	Status         string     `json:"status" binding:"required,oneof=TODO IN_PROGRESS DONE"`
	Priority       string     `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	AssignedUserID *string    `json:"assigned_user_id,omitempty"`
}

// TaskResponse represents task data in response
type TaskResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	AssignedUserID *string    `json:"assigned_user_id,omitempty"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// NewTaskResponse converts a Task to a TaskResponse
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		DueDate:        task.DueDate,
		AssignedUserID: task.AssignedUserID,
		CreatedBy:      task.CreatedBy,
		CreatedAt:      task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      task.UpdatedAt.Format(time.RFC3339),
	}
}
