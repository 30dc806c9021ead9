// Package memorystorage provides a purely in-memory storage backend.
// It reuses the jsondb cache without a backing file and is the default
// storage when neither a database DSN nor a storage file is configured.
package memorystorage

import (
	"context"

	"github.com/brainly-app/brainly/internal/db/jsondb"
)

// MemoryStorage keeps all data in process memory. Close discards nothing
// and persists nothing.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns an empty in-memory storage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.NewCache(),
		},
	}, nil
}

// Close is a no-op for the in-memory backend.
func (theStorage *MemoryStorage) Close() error {
	return nil
}

// Ping always succeeds for the in-memory backend.
func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
