package di

import (
	"github.com/kiarashjv/task-management-system/internal/database"
	"github.com/kiarashjv/task-management-system/internal/handler"
	"github.com/kiarashjv/task-management-system/internal/redis"
	"github.com/kiarashjv/task-management-system/internal/repository"
	"github.com/kiarashjv/task-management-system/internal/security"
	"github.com/kiarashjv/task-management-system/internal/service"
)

// Container holds all dependencies for the service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client
	Codec *security.TokenCodec

	// Repositories
	UserRepo repository.UserRepository
	TaskRepo repository.TaskRepository

	// Services
	AuthService service.AuthService
	UserService service.UserService
	TaskService service.TaskService

	// Handlers
	HealthHandler *handler.HealthHandler
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	TaskHandler   *handler.TaskHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB                *database.PostgresDB
	Redis             *redis.Client
	Codec             *security.TokenCodec
	UserServiceConfig *service.UserServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
		Codec: cfg.Codec,
	}

	// Initialize repositories
	c.UserRepo = repository.NewPostgresUserRepository(c.DB.Pool())
	c.TaskRepo = repository.NewPostgresTaskRepository(c.DB.Pool())

	// Initialize services
	c.AuthService = service.NewAuthService(c.UserRepo, c.Codec)
	c.UserService = service.NewUserService(c.UserRepo, cfg.UserServiceConfig)
	c.TaskService = service.NewTaskService(c.TaskRepo, c.UserRepo)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.UserHandler = handler.NewUserHandler(c.UserService)
	c.TaskHandler = handler.NewTaskHandler(c.TaskService)

	return c
}
