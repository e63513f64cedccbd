package driven

import (
	"context"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// ListSource reads SharePoint list items.
type ListSource interface {
	// FetchItems returns every item of the list, following pagination.
	FetchItems(ctx context.Context, listName string) ([]domain.Value, error)
}

// FileSource reads files from the site document library.
type FileSource interface {
	// DownloadFile returns the file content.
	// Returns ErrNotFound if the path does not exist.
	DownloadFile(ctx context.Context, path string) ([]byte, error)
}

// PresentationParser extracts slide tables from a presentation file.
type PresentationParser interface {
	ExtractTables(data []byte) ([]domain.Slide, error)
}
