// Command studiod runs the studio scheduler HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/config"
	httptransport "github.com/example/studio-scheduler/internal/http"
	"github.com/example/studio-scheduler/internal/logging"
	"github.com/example/studio-scheduler/internal/notify"
	"github.com/example/studio-scheduler/internal/persistence/sqlite"
)

func main() {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	logger := logging.New(os.Getenv("STUDIO_LOG_LEVEL"), os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := store.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	notifier := buildNotifier(cfg, logger)

	userService := application.NewUserService(store, nil, nil, logger)
	availabilityService := application.NewAvailabilityService(store, nil, logger)
	meetingService := application.NewMeetingService(store, store, store, userService, notifier, application.MeetingServiceOptions{
		ConflictCacheTTL: cfg.ConflictCacheTTL,
		Logger:           logger,
	})
	calendarService := application.NewCalendarService(store, store, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Users:        httptransport.NewUserHandler(userService, logger),
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Meetings:     httptransport.NewMeetingHandler(meetingService, logger),
		Calendar:     httptransport.NewCalendarHandler(calendarService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	handler := handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(router)
	if len(cfg.CORSOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(handler)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("studio scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func buildNotifier(cfg config.Config, logger *slog.Logger) notify.Notifier {
	channels := notify.Multi{}
	if cfg.EmailSimulation {
		channels = append(channels, notify.NewEmailSimulator(logger, nil))
	}
	if cfg.WebhookURL != "" {
		channels = append(channels, notify.NewWebhook(cfg.WebhookURL, nil))
	}
	if len(channels) == 0 {
		return nil
	}
	return channels
}
