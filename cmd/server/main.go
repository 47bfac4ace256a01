package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mkrajewski/task-manager-api/internal/config"
	"github.com/mkrajewski/task-manager-api/internal/database"
	"github.com/mkrajewski/task-manager-api/internal/handlers"
	"github.com/mkrajewski/task-manager-api/internal/mail"
	"github.com/mkrajewski/task-manager-api/internal/middleware"
	"github.com/mkrajewski/task-manager-api/internal/reminder"
	"github.com/mkrajewski/task-manager-api/internal/repository"
	"github.com/mkrajewski/task-manager-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Build logger
	var logger *zap.Logger
	var err error
	if cfg.GinMode == gin.ReleaseMode {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// The signing secret must be explicit in production; a known default is
	// tolerated only in development.
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.GinMode == gin.ReleaseMode {
			log.Fatal("JWT_SECRET must be set in release mode")
		}
		secret = config.DefaultJWTSecret
		logger.Warn("JWT_SECRET not set, using development default")
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB(), logger); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())
	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(secret, cfg.JWTTTL)
	taskService := services.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	// Public routes
	r.POST("/users/register", authHandler.Register)
	r.POST("/users/login", authHandler.Login)

	// Protected routes
	requireAuth := middleware.RequireAuth(authService, tokenService, logger)

	users := r.Group("/users")
	users.Use(requireAuth)
	{
		users.POST("/logout", authHandler.Logout)
		users.GET("/me", authHandler.Me)
	}

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PATCH("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	// Start deadline reminders when SMTP is configured
	if cfg.SMTPHost != "" {
		mailer := mail.NewSMTPMailer(cfg)
		runner := reminder.NewRunner(cfg.ReminderInterval, cfg.ReminderWindow, taskRepo, mailer, logger)
		runner.Start(context.Background())
		defer runner.Stop()
	} else {
		logger.Info("SMTP not configured, deadline reminders disabled")
	}

	// Start server
	logger.Info("Server starting", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
