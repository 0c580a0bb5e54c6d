package storage

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved.
var ErrNoSnapshot = errors.New("storage: no snapshot")

// SnapshotStore persists a single opaque identity snapshot under one
// well-known key. Exactly one snapshot exists at a time; Save replaces it,
// Clear removes it.
type SnapshotStore interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
	Clear(ctx context.Context) error
}
