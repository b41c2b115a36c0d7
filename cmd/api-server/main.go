package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petpractice/vet-scheduler/internal/api"
	"github.com/petpractice/vet-scheduler/internal/booking"
	"github.com/petpractice/vet-scheduler/internal/config"
	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/logging"
	"github.com/petpractice/vet-scheduler/internal/schedule"
	"github.com/petpractice/vet-scheduler/internal/storage"
	"github.com/petpractice/vet-scheduler/internal/store"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("api-server starting up", "env", cfg.Env, "http_port", cfg.HTTPPort, "backend", cfg.StorageBackend)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backendCtx, cancelBackend := context.WithTimeout(rootCtx, 10*time.Second)
	backend, err := storage.OpenBackend(backendCtx, cfg)
	cancelBackend()
	if err != nil {
		logger.Error("storage backend error", "error", err)
		os.Exit(1)
	}
	defer backend.Close()
	logger.Info("storage backend ready")

	st := store.Open(rootCtx, backend.Snapshots, logger)
	defer st.Close()

	ids := identity.NewGenerator()
	schedules := schedule.NewService(st, ids, logger, cfg.HorizonDays)
	bookings := booking.NewService(st, ids, logger)

	// The roller shares this process's store so every roll sees every
	// booking; the snapshot document has a single writer.
	go schedules.RunHorizonRoller(rootCtx, cfg.WorkerInterval)

	router := api.NewRouter(api.RouterConfig{
		Store:     st,
		Booking:   bookings,
		Schedules: schedules,
		Ids:       ids,
		Logger:    logger,
		PgPool:    backend.PgPool,
		Redis:     backend.Redis,
		Env:       cfg.Env,
		Version:   version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http server error", "error", err)
		os.Exit(1)
	case <-rootCtx.Done():
	}

	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", "error", err)
	}
}
