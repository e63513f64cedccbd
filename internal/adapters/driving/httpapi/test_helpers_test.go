package httpapi

import (
	"context"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// mockListService implements driving.ListService for testing.
type mockListService struct {
	items    map[string][]domain.Value
	err      error
	uploaded []string
	synced   int
}

func (m *mockListService) Upload(_ context.Context, name string) (*domain.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploaded = append(m.uploaded, name)
	return &domain.UploadResult{RunID: "run-1", Lists: []string{name}}, nil
}

func (m *mockListService) Get(_ context.Context, name string) ([]domain.Value, error) {
	if m.err != nil {
		return nil, m.err
	}
	items, ok := m.items[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return items, nil
}

func (m *mockListService) SyncAll(_ context.Context) ([]domain.UploadResult, error) {
	m.synced++
	if m.err != nil {
		return nil, m.err
	}
	return []domain.UploadResult{{RunID: "run-1", Lists: []string{"Risk Register", "Risk Mitigations"}}}, nil
}

func (m *mockListService) CleanLocal(_ []domain.Value, _ string) ([]*domain.Object, error) {
	return nil, nil
}

func (m *mockListService) MergeLocal(_, _ []domain.Value) ([]*domain.Object, error) {
	return nil, nil
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	result *domain.HistoryResult
	err    error
	got    domain.VersionQuery
}

func (m *mockHistoryService) Compare(_ context.Context, q domain.VersionQuery) (*domain.HistoryResult, error) {
	m.got = q
	return m.result, m.err
}

func (m *mockHistoryService) Import(_ context.Context, versions []domain.Value) (int, error) {
	return len(versions), m.err
}

// mockQueryService implements driving.QueryService for testing.
type mockQueryService struct {
	err error
}

func (m *mockQueryService) Translate(_ context.Context, input, model string) (*domain.QueryTranslation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.QueryTranslation{Model: model, Response: "SELECT * FROM c"}, nil
}

// mockPresentationService implements driving.PresentationService for testing.
type mockPresentationService struct {
	slides []domain.Slide
	err    error
}

func (m *mockPresentationService) Extract(_ context.Context, _ string) ([]domain.Slide, error) {
	return m.slides, m.err
}
