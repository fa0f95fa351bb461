package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiarashjv/task-management-system/internal/domain"
	"github.com/kiarashjv/task-management-system/internal/repository"
	"github.com/kiarashjv/task-management-system/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrAssignedUserNotFound = errors.New("assigned user not found")
)

// TaskService manages tasks and answers the task ownership question for
// authorization.
type TaskService interface {
	// Create creates a new task; the assigned user must exist
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// GetByID retrieves a task by ID
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// Update updates a task; the assigned user must exist
	Update(ctx context.Context, id string, update *domain.Task) (*domain.Task, error)
	// Delete deletes a task
	Delete(ctx context.Context, id string) error
	// List retrieves all tasks
	List(ctx context.Context) ([]*domain.Task, error)
	// IsAssignedTo reports whether the task is assigned to the username.
	// Returns (false, nil) when the task or its assignee does not exist;
	// an error only means the lookup itself failed.
	IsAssignedTo(ctx context.Context, username, taskID string) (bool, error)
}

// taskService implements TaskService
type taskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) TaskService {
	return &taskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

func (s *taskService) checkAssignedUser(ctx context.Context, assignedUserID *string) error {
	if assignedUserID == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, *assignedUserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAssignedUserNotFound
	}
	return nil
}

// Create creates a new task; the assigned user must exist
func (s *taskService) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.create")
	defer span.End()

	if err := s.checkAssignedUser(ctx, task.AssignedUserID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	task.ID = uuid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.taskRepo.Create(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("task_id", task.ID))
	span.SetStatus(codes.Ok, "")
	return task, nil
}

// GetByID retrieves a task by ID
func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// Update updates a task; the assigned user must exist
func (s *taskService) Update(ctx context.Context, id string, update *domain.Task) (*domain.Task, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.update")
	defer span.End()

	span.SetAttributes(attribute.String("task_id", id))

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if task == nil {
		span.SetStatus(codes.Error, "task not found")
		return nil, ErrTaskNotFound
	}

	if err := s.checkAssignedUser(ctx, update.AssignedUserID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	task.Title = update.Title
	task.Description = update.Description
	task.Status = update.Status
	task.Priority = update.Priority
	task.DueDate = update.DueDate
	task.AssignedUserID = update.AssignedUserID

	if err := s.taskRepo.Update(ctx, task); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return task, nil
}

// Delete deletes a task
func (s *taskService) Delete(ctx context.Context, id string) error {
	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// List retrieves all tasks
func (s *taskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.taskRepo.List(ctx)
}

// IsAssignedTo reports whether the task is assigned to the username
func (s *taskService) IsAssignedTo(ctx context.Context, username, taskID string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.task.is_assigned_to")
	defer span.End()

	span.SetAttributes(
		attribute.String("task_id", taskID),
		attribute.String("username", username),
	)

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if task == nil || task.AssignedUserID == nil {
		span.SetStatus(codes.Ok, "")
		return false, nil
	}

	user, err := s.userRepo.GetByID(ctx, *task.AssignedUserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	if user == nil {
		span.SetStatus(codes.Ok, "")
		return false, nil
	}

	span.SetStatus(codes.Ok, "")
	return user.Username == username, nil
}
