package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prideatlas/prideatlas-backend/config"
	"github.com/prideatlas/prideatlas-backend/internal/app/controller"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/internal/app/service"
	"github.com/prideatlas/prideatlas-backend/internal/db"
	"github.com/prideatlas/prideatlas-backend/internal/middleware"
	"github.com/prideatlas/prideatlas-backend/internal/realtime"
	"github.com/prideatlas/prideatlas-backend/internal/router"
	"github.com/prideatlas/prideatlas-backend/internal/scheduler"
	"github.com/prideatlas/prideatlas-backend/internal/storage"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/prideatlas/prideatlas-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting PrideAtlas Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"demo_mode":   cfg.Server.DemoMode,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed demo accounts in demo mode
	if cfg.Server.DemoMode {
		if err := db.Seed(); err != nil {
			logger.Warn("Failed to seed database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Redis backs the token blacklist; the server degrades gracefully
	// without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	savedPlaceRepo := repository.NewSavedPlaceRepository(db.GetDB())

	// Realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	businessService := service.NewBusinessService(businessRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, businessRepo, hub)
	savedPlaceService := service.NewSavedPlaceService(savedPlaceRepo)

	// S3 storage for image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.RefreshTokenExpiry)
	businessController := controller.NewBusinessController(businessService, savedPlaceService)
	reviewController := controller.NewReviewController(reviewService)
	savedPlaceController := controller.NewSavedPlaceController(savedPlaceService)
	uploadController := controller.NewUploadController(s3Storage)
	realtimeController := controller.NewRealtimeController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Rating reconciler repairs aggregate drift on a schedule
	reconciler := scheduler.NewRatingReconciler(cfg.Reconcile.Schedule, reviewRepo, businessRepo)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start rating reconciler", err)
	}
	defer reconciler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		businessController,
		reviewController,
		savedPlaceController,
		uploadController,
		realtimeController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
