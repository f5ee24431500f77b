package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"eventplanner/config"
	"eventplanner/internal/adapters/auth"
	"eventplanner/internal/adapters/email"
	"eventplanner/internal/adapters/push"
	"eventplanner/internal/delivery/http/controllers"
	delivery "eventplanner/internal/delivery/http"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"
)

const serviceTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger()
	logger.Info("starting eventplanner server", slog.String("environment", cfg.Environment))

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to reach database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := auth.NewJWTCodec(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipTLS,
		},
	})
	if err != nil {
		logger.Error("failed to initialize mailer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	hub := push.NewHub(logger, tokens, userRepo, cfg.AllowedOrigins)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, eventRepo, userRepo, emailService, serviceTimeout)
	eventService := services.NewEventService(eventRepo, subscriptionService, serviceTimeout)
	userService := services.NewUserService(userRepo, hasher, tokens, cfg.TokenExpiry, emailService)
	reminderService := services.NewReminderService(eventRepo, subscriptionRepo, hub, logger, serviceTimeout)

	// Controllers and routes
	router := delivery.NewRouter(delivery.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		JobToken:       cfg.JobToken,
		AllowedOrigins: cfg.AllowedOrigins,
		Users:          controllers.NewUserController(logger, userService),
		Events:         controllers.NewEventController(logger, eventService),
		Subscriptions:  controllers.NewSubscriptionController(logger, subscriptionService),
		Jobs:           controllers.NewJobController(logger, reminderService, hub),
		PushHandler:    hub,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.JobToken == "" {
		logger.Warn("JOB_TOKEN is not set, /jobs endpoints are disabled")
	}
	logger.Info("server starting", slog.String("port", cfg.Port))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
