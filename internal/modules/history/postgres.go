package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresBackend keeps each slot as one row of a key-value table.
type PostgresBackend struct {
	db   *sql.DB
	slot string
}

func NewPostgresBackend(db *sql.DB, slot string) *PostgresBackend {
	if slot == "" {
		slot = Slot
	}
	return &PostgresBackend{db: db, slot: slot}
}

// EnsureSchema creates the kv_store table if it does not exist.
func (r *PostgresBackend) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
		  slot       TEXT PRIMARY KEY,
		  payload    TEXT NOT NULL,
		  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (r *PostgresBackend) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM kv_store WHERE slot=$1`, r.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (r *PostgresBackend) Save(ctx context.Context, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_store (slot, payload, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (slot) DO UPDATE SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at`,
		r.slot, string(data), time.Now())
	return err
}
