package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eventify/config"
	_ "eventify/docs"
	authadapter "eventify/internal/adapters/auth"
	emailadapter "eventify/internal/adapters/email"
	delivery "eventify/internal/delivery/http"
	"eventify/internal/delivery/http/controllers"
	"eventify/internal/delivery/http/middleware"
	"eventify/internal/repository/postgres"
	"eventify/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Eventify API
// @version 1.0
// @description Event management backend: events, registrations, users, locations, and categories.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := postgres.Connect(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer, tokenVerifier := authadapter.NewJWTCodec(cfg.JWTSecret)

	if cfg.SeedOnStart {
		if err := postgres.Seed(context.Background(), db, hasher, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
			logger.Error("failed to seed database", "err", err)
			os.Exit(1)
		}
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, emailService, logger, cfg.JWTExpiry, serviceTimeout)
	userService := services.NewUserService(userRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, regRepo, locationRepo, categoryRepo, userRepo, serviceTimeout)
	regService := services.NewRegistrationService(regRepo, eventRepo, userRepo, locationRepo, emailService, logger, serviceTimeout)
	locationService := services.NewLocationService(locationRepo, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, serviceTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		Event:        controllers.NewEventController(logger, eventService),
		Registration: controllers.NewRegistrationController(logger, regService),
		User:         controllers.NewUserController(logger, userService),
		Location:     controllers.NewLocationController(logger, locationService),
		Category:     controllers.NewCategoryController(logger, categoryService),
	}, tokenVerifier)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
