package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ohsj/linkple-backend/config"
	"github.com/ohsj/linkple-backend/internal/app/controller"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/internal/app/service"
	"github.com/ohsj/linkple-backend/internal/db"
	"github.com/ohsj/linkple-backend/internal/middleware"
	"github.com/ohsj/linkple-backend/internal/router"
	"github.com/ohsj/linkple-backend/internal/scheduler"
	"github.com/ohsj/linkple-backend/internal/storage"
	"github.com/ohsj/linkple-backend/internal/websocket"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"github.com/ohsj/linkple-backend/pkg/redis"
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

	logger.Info("Starting LINKPLE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
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

	// Initialize Redis (토큰 블랙리스트, 타이핑 표시에 사용)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable - token blacklist and typing indicators disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	campaignRepo := repository.NewCampaignRepository(db.GetDB())
	applicationRepo := repository.NewApplicationRepository(db.GetDB())
	chatRepo := repository.NewChatRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())
	profileRepo := repository.NewProfileRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	campaignService := service.NewCampaignService(campaignRepo)
	applicationService := service.NewApplicationService(applicationRepo, campaignRepo, notificationRepo, db.GetDB())
	chatService := service.NewChatService(db.GetDB(), chatRepo, campaignRepo, notificationRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, userRepo, db.GetDB())
	favoriteService := service.NewFavoriteService(favoriteRepo, campaignRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	profileService := service.NewProfileService(profileRepo, userRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	campaignController := controller.NewCampaignController(campaignService)
	applicationController := controller.NewApplicationController(applicationService)
	chatController := controller.NewChatController(chatService, hub, cfg.CORS.AllowedOrigins)
	reviewController := controller.NewReviewController(reviewService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	notificationController := controller.NewNotificationController(notificationService)
	profileController := controller.NewProfileController(profileService)
	uploadController := controller.NewUploadController(s3Storage)
	adminController := controller.NewAdminController(authService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	// Start campaign close scheduler
	campaignScheduler := scheduler.NewCampaignScheduler(campaignService)
	if err := campaignScheduler.Start(); err != nil {
		logger.Fatal("Failed to start campaign scheduler", err)
	}
	defer campaignScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		campaignController,
		applicationController,
		chatController,
		reviewController,
		favoriteController,
		notificationController,
		profileController,
		uploadController,
		adminController,
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
