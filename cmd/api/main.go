// Command api serves the events and bookings HTTP API.
//
// @title DevEvents API
// @version 1.0
// @description Developer event listings and bookings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an admin JWT.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"devevents/config"
	_ "devevents/docs"
	"devevents/internal/adapters/auth"
	"devevents/internal/adapters/calendar"
	"devevents/internal/adapters/email"
	httpdelivery "devevents/internal/delivery/http"
	"devevents/internal/delivery/http/controllers"
	"devevents/internal/delivery/http/middleware"
	"devevents/internal/repository/postgres"
	"devevents/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("connected to postgres")

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mailer.AWSRegion,
			AccessKeyID:        cfg.Mailer.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mailer.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mailer.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	eventSvc := services.NewEventService(eventRepo, logger, cfg.ContextTimeout)
	bookingSvc := services.NewBookingService(eventRepo, bookingRepo, emailSvc, logger, cfg.PublicBaseURL, cfg.ContextTimeout)

	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET is empty; admin routes will reject every request")
	}
	router := httpdelivery.NewRouter(
		controllers.NewEventController(logger, eventSvc, calendar.NewICSExporter(), cfg.PublicBaseURL),
		controllers.NewBookingController(logger, bookingSvc),
		controllers.NewHealthController(logger, db),
		middleware.RequireAdmin(auth.NewJWTVerifier(cfg.AdminJWTSecret), logger),
	)

	var handler http.Handler = router
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.Recover(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
