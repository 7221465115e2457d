package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hubpal/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSnapshotRepository is the PostgreSQL-backed SnapshotRepository. Values
// live in a single kv table mirroring the key/value layout the store expects.
type PgSnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewPgSnapshotRepository returns a PostgreSQL-backed SnapshotRepository.
func NewPgSnapshotRepository(pool *pgxpool.Pool) *PgSnapshotRepository {
	return &PgSnapshotRepository{pool: pool}
}

func (r *PgSnapshotRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PgSnapshotRepository) LoadProjects(ctx context.Context) ([]model.Project, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv WHERE key = $1`, SnapshotKey,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var projects []model.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	return projects, nil
}

func (r *PgSnapshotRepository) SaveProjects(ctx context.Context, projects []model.Project) error {
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return r.upsert(ctx, SnapshotKey, raw)
}

func (r *PgSnapshotRepository) Flag(ctx context.Context, key string) (bool, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM kv WHERE key = $1`, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, fmt.Errorf("corrupt flag %q: %w", key, err)
	}
	return value, nil
}

func (r *PgSnapshotRepository) SetFlag(ctx context.Context, key string, value bool) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.upsert(ctx, key, raw)
}

func (r *PgSnapshotRepository) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM kv WHERE key = ANY($1)`,
		[]string{SnapshotKey, SeedFlagKey, BooksFlagKey},
	)
	return err
}

func (r *PgSnapshotRepository) upsert(ctx context.Context, key string, raw []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, raw,
	)
	return err
}
