package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiarashjv/task-management-system/internal/domain"
	"github.com/kiarashjv/task-management-system/internal/logger"
	"github.com/kiarashjv/task-management-system/internal/repository"
	"github.com/kiarashjv/task-management-system/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// UserService manages users
type UserService interface {
	// Create creates a new user with a hashed password
	Create(ctx context.Context, username, password, email string, roles []domain.Role) (*domain.User, error)
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Update updates a user; an empty password keeps the current hash
	Update(ctx context.Context, id, username, password, email string, roles []domain.Role) (*domain.User, error)
	// Delete deletes a user
	Delete(ctx context.Context, id string) error
	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)
	// IsSelf reports whether the given user id belongs to the username.
	// Returns (false, nil) when the user does not exist.
	IsSelf(ctx context.Context, username, userID string) (bool, error)
	// EnsureDefaultAdmin seeds an admin user when the store is empty
	EnsureDefaultAdmin(ctx context.Context) error
}

// UserServiceConfig holds configuration for UserService
type UserServiceConfig struct {
	BcryptCost int
}

// userService implements UserService
type userService struct {
	userRepo repository.UserRepository
	config   *UserServiceConfig
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, config *UserServiceConfig) UserService {
	if config == nil {
		config = &UserServiceConfig{}
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		userRepo: userRepo,
		config:   config,
	}
}

// Create creates a new user with a hashed password
func (s *userService) Create(ctx context.Context, username, password, email string, roles []domain.Role) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.create")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "user already exists")
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		Email:        email,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// GetByID retrieves a user by ID
func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update updates a user; an empty password keeps the current hash
func (s *userService) Update(ctx context.Context, id, username, password, email string, roles []domain.Role) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	user.Username = username
	user.Email = email
	user.Roles = roles
	if password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// Delete deletes a user
func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(ctx, id)
}

// List retrieves all users
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// IsSelf reports whether the given user id belongs to the username
func (s *userService) IsSelf(ctx context.Context, username, userID string) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.Username == username, nil
}

// EnsureDefaultAdmin seeds an admin user when the store is empty
func (s *userService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := s.Create(ctx, "admin", "admin", "admin@example.com", []domain.Role{domain.RoleAdmin}); err != nil {
		return err
	}

	logger.Get().Info("default admin user created")
	return nil
}
