package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petpractice/vet-scheduler/internal/store"
)

// PostgresSnapshots keeps the state document as a single upserted row.
type PostgresSnapshots struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgresSnapshots(pool *pgxpool.Pool) *PostgresSnapshots {
	return &PostgresSnapshots{pool: pool, key: StateKey}
}

// EnsureSchema creates the snapshot table when missing.
func (p *PostgresSnapshots) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_snapshots (
			key        text PRIMARY KEY,
			document   jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

func (p *PostgresSnapshots) Load(ctx context.Context) (*store.AppState, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `
		SELECT document FROM app_snapshots WHERE key = $1
	`, p.key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot row: %w", err)
	}
	return decodeState(data)
}

func (p *PostgresSnapshots) Save(ctx context.Context, state store.AppState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO app_snapshots (key, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET document = EXCLUDED.document, updated_at = now()
	`, p.key, data)
	if err != nil {
		return fmt.Errorf("write snapshot row: %w", err)
	}
	return nil
}
