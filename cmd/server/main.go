package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryanwills/accounts-backend/config"
	"github.com/ryanwills/accounts-backend/internal/app/controller"
	"github.com/ryanwills/accounts-backend/internal/app/repository"
	"github.com/ryanwills/accounts-backend/internal/app/service"
	"github.com/ryanwills/accounts-backend/internal/db"
	"github.com/ryanwills/accounts-backend/internal/middleware"
	"github.com/ryanwills/accounts-backend/internal/router"
	"github.com/ryanwills/accounts-backend/internal/scheduler"
	"github.com/ryanwills/accounts-backend/pkg/logger"
	"github.com/ryanwills/accounts-backend/pkg/mailer"
)

func main() {
	// Load configuration; refuses to start without a signing secret
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting accounts backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Store connection loss at startup is the sole fatal condition
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		Password: cfg.SMTP.Password,
	})

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	passwordResetService := service.NewPasswordResetService(userRepo, smtpMailer)

	authController := controller.NewAuthController(authService, passwordResetService)
	userController := controller.NewUserController(authService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	resetScheduler := scheduler.NewResetCodeScheduler(userRepo)
	if err := resetScheduler.Start(); err != nil {
		logger.Warn("Reset code cleanup scheduler not running", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer resetScheduler.Stop()

	r := router.NewRouter(authController, userController, authMiddleware, cfg)
	engine := r.Setup()

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
