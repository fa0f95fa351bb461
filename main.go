package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiarashjv/task-management-system/internal/config"
	"github.com/kiarashjv/task-management-system/internal/database"
	"github.com/kiarashjv/task-management-system/internal/di"
	"github.com/kiarashjv/task-management-system/internal/domain"
	"github.com/kiarashjv/task-management-system/internal/logger"
	"github.com/kiarashjv/task-management-system/internal/middleware"
	"github.com/kiarashjv/task-management-system/internal/redis"
	"github.com/kiarashjv/task-management-system/internal/security"
	"github.com/kiarashjv/task-management-system/internal/service"
	"github.com/kiarashjv/task-management-system/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting User Service...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Redis is only needed for distributed rate limiting
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		}
		redisClient, err = redis.NewClient(ctx, redisCfg)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		defer redisClient.Close()
		appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
	}

	// Load the RSA key pair. The service cannot issue or verify tokens
	// without it, so any failure aborts startup.
	keys, err := security.LoadKeyPairFromFiles(cfg.JWT.PublicKeyPath, cfg.JWT.PrivateKeyPath)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to load RSA key pair: %v", err))
	}
	codec := security.NewTokenCodec(keys, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:                db,
		Redis:             redisClient,
		Codec:             codec,
		UserServiceConfig: &service.UserServiceConfig{},
	})

	// Seed the default admin account on an empty database
	if cfg.App.InitDB {
		if err := container.UserService.EnsureDefaultAdmin(ctx); err != nil {
			appLog.Fatal(fmt.Sprintf("Failed to seed default admin: %v", err))
		}
	}

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSWithConfig(corsConfig(cfg)))

	// Add OpenTelemetry tracing middleware if enabled
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	requireAuth := middleware.RequireAuth(container.AuthService)
	adminOnly := middleware.Authorize(security.RequireAnyRole(domain.RoleAdmin))

	isSelf := func(c *gin.Context) security.OwnershipFunc {
		return func(ctx context.Context, username string) (bool, error) {
			return container.UserService.IsSelf(ctx, username, c.Param("id"))
		}
	}
	isAssigned := func(c *gin.Context) security.OwnershipFunc {
		return func(ctx context.Context, username string) (bool, error) {
			return container.TaskService.IsAssignedTo(ctx, username, c.Param("id"))
		}
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			login := auth.Group("")
			if cfg.RateLimit.Enabled {
				login.Use(middleware.RateLimiter(middleware.RateLimitConfig{
					RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
					BurstSize:         cfg.RateLimit.BurstSize,
					UseRedis:          cfg.RateLimit.UseRedis,
					RedisClient:       redisClient,
					KeyPrefix:         "ratelimit:login:",
					CleanupInterval:   time.Minute,
					EntryTTL:          time.Minute,
				}))
			}
			login.POST("/login", container.AuthHandler.Login)
		}

		users := v1.Group("/users")
		users.Use(requireAuth)
		{
			users.POST("", adminOnly, container.UserHandler.Create)
			users.GET("", middleware.Authorize(
				security.RequireAnyRole(domain.RoleAdmin, domain.RoleProjectManager),
			), container.UserHandler.List)
			users.GET("/:id", middleware.AuthorizeWith(func(c *gin.Context) security.Rule {
				return security.AdminOrSelf(isSelf(c))
			}), container.UserHandler.Get)
			users.PUT("/:id", middleware.AuthorizeWith(func(c *gin.Context) security.Rule {
				return security.AdminOrOwner(isSelf(c))
			}), container.UserHandler.Update)
			users.DELETE("/:id", adminOnly, container.UserHandler.Delete)
		}

		tasks := v1.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", adminOnly, container.TaskHandler.Create)
			tasks.GET("", adminOnly, container.TaskHandler.List)
			tasks.GET("/:id", middleware.AuthorizeWith(func(c *gin.Context) security.Rule {
				return security.AdminOrOwner(isAssigned(c))
			}), container.TaskHandler.Get)
			tasks.PUT("/:id", middleware.AuthorizeWith(func(c *gin.Context) security.Rule {
				return security.AdminOrOwner(isAssigned(c))
			}), container.TaskHandler.Update)
			tasks.DELETE("/:id", adminOnly, container.TaskHandler.Delete)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("User Service listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	return corsCfg
}
