package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/core/ports/driving"
)

// Ensure PresentationService implements the interface.
var _ driving.PresentationService = (*PresentationService)(nil)

// PresentationService reads slide tables from presentations on SharePoint.
type PresentationService struct {
	files  driven.FileSource
	parser driven.PresentationParser
}

// NewPresentationService creates a presentation service. A nil file source
// disables it.
func NewPresentationService(files driven.FileSource, parser driven.PresentationParser) *PresentationService {
	return &PresentationService{files: files, parser: parser}
}

// Extract downloads the file at path and returns its slide tables.
func (s *PresentationService) Extract(ctx context.Context, path string) ([]domain.Slide, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: missing 'file_path' parameter", domain.ErrInvalidInput)
	}
	if s.files == nil {
		return nil, fmt.Errorf("%w: sharepoint files", domain.ErrNotConfigured)
	}

	data, err := s.files.DownloadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	slides, err := s.parser.ExtractTables(data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return slides, nil
}
