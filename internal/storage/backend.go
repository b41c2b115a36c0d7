package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/petpractice/vet-scheduler/internal/config"
	"github.com/petpractice/vet-scheduler/internal/db"
	"github.com/petpractice/vet-scheduler/internal/store"
)

// Backend bundles the configured snapshot store with its underlying client,
// which health checks ping directly.
type Backend struct {
	Snapshots store.Snapshotter
	Redis     *redis.Client
	PgPool    *pgxpool.Pool
}

// OpenBackend connects the snapshot backend selected by configuration.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rdb, err := NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Backend{Snapshots: NewRedisSnapshots(rdb), Redis: rdb}, nil

	case config.BackendPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		snapshots := NewPostgresSnapshots(pool)
		if err := snapshots.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{Snapshots: snapshots, PgPool: pool}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (b *Backend) Close() {
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
	if b.PgPool != nil {
		b.PgPool.Close()
	}
}
