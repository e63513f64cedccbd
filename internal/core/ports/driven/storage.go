package driven

import (
	"context"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// BlobStore persists serialised list payloads.
type BlobStore interface {
	// Put writes or replaces the blob.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads the blob. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Exists reports whether the blob exists.
	Exists(ctx context.Context, name string) (bool, error)
}

// PayloadCache keeps recently read blobs.
type PayloadCache interface {
	// Get returns a cached payload. Returns ErrNotFound on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload with the cache's TTL.
	Set(ctx context.Context, key string, data []byte) error

	// Delete evicts keys.
	Delete(ctx context.Context, keys ...string) error
}

// VersionStore holds historical snapshots of list items.
type VersionStore interface {
	// Query returns the snapshots matching q, oldest first.
	Query(ctx context.Context, q domain.VersionQuery) ([]*domain.Object, error)

	// Save upserts snapshots and returns how many were written.
	Save(ctx context.Context, versions []*domain.Object) (int, error)
}

// RecordIndexer makes cleaned records searchable.
type RecordIndexer interface {
	IndexRecords(ctx context.Context, list string, records []*domain.Object) error
}
