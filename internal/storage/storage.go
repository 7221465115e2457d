package storage

import (
	"context"
	"io"
)

// Storage abstracts where milestone artifacts are mirrored. The local
// filesystem implementation stands in for a decentralized blob network; an
// object-store implementation can replace it without touching callers.
type Storage interface {
	// Save stores the artifact under key (a unique path such as
	// "projects/<id>/<milestone>/<file>") and returns its public reference.
	Save(ctx context.Context, key string, data io.Reader, contentType string) (ref string, err error)

	// Delete removes the artifact stored under key.
	Delete(ctx context.Context, key string) error
}
