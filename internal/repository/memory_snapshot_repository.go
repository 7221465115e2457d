package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hubpal/backend/internal/model"
)

// MemorySnapshotRepository keeps snapshots in process memory. It backs tests
// and the degraded mode the server falls back to when the database is
// unreachable (the durable store is an advisory cache, never a hard
// dependency). Values are stored serialized so load/save round-trips behave
// exactly like the PostgreSQL implementation.
type MemorySnapshotRepository struct {
	mu sync.Mutex
	kv map[string][]byte
}

// NewMemorySnapshotRepository returns an empty in-memory SnapshotRepository.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{kv: make(map[string][]byte)}
}

func (r *MemorySnapshotRepository) Ping(_ context.Context) error { return nil }

func (r *MemorySnapshotRepository) LoadProjects(_ context.Context) ([]model.Project, error) {
	r.mu.Lock()
	raw, ok := r.kv[SnapshotKey]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var projects []model.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	return projects, nil
}

func (r *MemorySnapshotRepository) SaveProjects(_ context.Context, projects []model.Project) error {
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	r.mu.Lock()
	r.kv[SnapshotKey] = raw
	r.mu.Unlock()
	return nil
}

func (r *MemorySnapshotRepository) Flag(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	raw, ok := r.kv[key]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}

	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, fmt.Errorf("corrupt flag %q: %w", key, err)
	}
	return value, nil
}

func (r *MemorySnapshotRepository) SetFlag(_ context.Context, key string, value bool) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.kv[key] = raw
	r.mu.Unlock()
	return nil
}

func (r *MemorySnapshotRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	delete(r.kv, SnapshotKey)
	delete(r.kv, SeedFlagKey)
	delete(r.kv, BooksFlagKey)
	r.mu.Unlock()
	return nil
}

// Corrupt overwrites the stored snapshot with bytes that do not deserialize.
// Test helper for the discard-and-start-empty recovery path.
func (r *MemorySnapshotRepository) Corrupt() {
	r.mu.Lock()
	r.kv[SnapshotKey] = []byte("{not json")
	r.mu.Unlock()
}
