package main

import (
	"context"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/petpractice/vet-scheduler/internal/config"
	"github.com/petpractice/vet-scheduler/internal/identity"
	"github.com/petpractice/vet-scheduler/internal/logging"
	"github.com/petpractice/vet-scheduler/internal/schedule"
	"github.com/petpractice/vet-scheduler/internal/seed"
	"github.com/petpractice/vet-scheduler/internal/storage"
	"github.com/petpractice/vet-scheduler/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("config load error", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("seed starting", "backend", cfg.StorageBackend)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := storage.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Error("storage backend error", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	st := store.Open(ctx, backend.Snapshots, logger)

	gofakeit.Seed(time.Now().UnixNano())

	ids := identity.NewGenerator()
	schedules := schedule.NewService(st, ids, logger, cfg.HorizonDays)
	seeder := seed.New(st, schedules, ids, logger)

	if err := seeder.Apply(ctx, 4); err != nil {
		logger.Error("seed failed", "error", err)
		st.Close()
		os.Exit(1)
	}

	// Close waits for the persist writer to flush the final snapshot.
	st.Close()

	logger.Info("seed complete")
}
