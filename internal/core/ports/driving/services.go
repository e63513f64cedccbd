package driving

import (
	"context"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// ListService moves SharePoint lists into blob storage and serves them back.
type ListService interface {
	// Upload fetches, cleans and stores a list, merging compatible pairs.
	// Returns ErrUnknownSchema if the name does not resolve.
	Upload(ctx context.Context, name string) (*domain.UploadResult, error)

	// Get returns the stored payload, preferring the merged dataset.
	// Returns ErrNotFound if nothing was stored yet.
	Get(ctx context.Context, name string) ([]domain.Value, error)

	// SyncAll uploads every configured list.
	SyncAll(ctx context.Context) ([]domain.UploadResult, error)

	// CleanLocal cleans an in-memory payload without touching storage.
	CleanLocal(items []domain.Value, name string) ([]*domain.Object, error)

	// MergeLocal cleans and merges an in-memory pair without touching storage.
	MergeLocal(primary, secondary []domain.Value) ([]*domain.Object, error)
}

// HistoryService compares stored item versions.
type HistoryService interface {
	// Compare diffs the versions selected by q.
	Compare(ctx context.Context, q domain.VersionQuery) (*domain.HistoryResult, error)

	// Import stores version snapshots.
	Import(ctx context.Context, versions []domain.Value) (int, error)
}

// QueryService turns questions into document store queries.
type QueryService interface {
	Translate(ctx context.Context, input, model string) (*domain.QueryTranslation, error)
}

// PresentationService extracts tables from presentations on SharePoint.
type PresentationService interface {
	Extract(ctx context.Context, path string) ([]domain.Slide, error)
}
