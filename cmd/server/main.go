package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Luckyraj9295/Bharat-Yatra/internal/auth"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/booking"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/catalog"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/config"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/database"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/events"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/handlers"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/logging"
	"github.com/Luckyraj9295/Bharat-Yatra/internal/review"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("database unavailable", zap.Error(err))
		return err
	}

	rdb, err := database.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable, idempotency and rate limiting disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			logger.Warn("broker unavailable, domain events disabled", zap.Error(err))
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db, logger)
	h := handlers.Handlers{
		Auth:         authHandler,
		Bookings:     handlers.NewBookingHandler(booking.NewEngine(db, publisher, logger), authHandler, logger),
		Reviews:      handlers.NewReviewHandler(review.NewService(db, publisher, logger), authHandler, logger),
		Destinations: handlers.NewDestinationHandler(catalog.NewService(db, logger), authHandler, logger),
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, h, rdb, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := serve(ctx, srv, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

// serve runs srv until ctx is cancelled, then shuts it down. A listener failure is
// returned instead of exiting so deferred cleanup still runs.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
