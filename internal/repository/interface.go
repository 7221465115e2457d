package repository

import (
	"context"

	"github.com/hubpal/backend/internal/model"
)

// Storage keys. The whole collection is persisted as one snapshot under a
// single fixed key; seeding state lives under its own keys.
const (
	SnapshotKey  = "hubpal_v2"
	SeedFlagKey  = "hubpal_v2_seeded"
	BooksFlagKey = "hubpal_v2_books_seeded"
)

// DB is the health-check surface of the durable medium.
type DB interface {
	Ping(ctx context.Context) error
}

// SnapshotRepository persists the full project collection as one serialized
// snapshot plus a few named boolean flags. There is no incremental format;
// every save rewrites the snapshot.
type SnapshotRepository interface {
	DB

	// LoadProjects returns the persisted collection. ErrNotFound means no
	// snapshot has been written yet; any other error means the snapshot
	// could not be read back (callers treat both as an empty collection).
	LoadProjects(ctx context.Context) ([]model.Project, error)
	// SaveProjects overwrites the snapshot with the given collection.
	SaveProjects(ctx context.Context, projects []model.Project) error

	// Flag returns the value of a named boolean flag, false when absent.
	Flag(ctx context.Context, key string) (bool, error)
	// SetFlag writes a named boolean flag.
	SetFlag(ctx context.Context, key string, value bool) error

	// Clear removes the snapshot and all flags, returning the medium to a
	// pristine state.
	Clear(ctx context.Context) error
}
