package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// mockListService implements driving.ListService for testing.
type mockListService struct {
	uploaded []string
	err      error
}

func (m *mockListService) Upload(_ context.Context, name string) (*domain.UploadResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploaded = append(m.uploaded, name)
	return &domain.UploadResult{
		RunID:        "run-1",
		Lists:        []string{name},
		Blobs:        []string{"cleaned_lists/" + name + ".json"},
		RecordCounts: map[string]int{name: 3},
	}, nil
}

func (m *mockListService) Get(_ context.Context, name string) ([]domain.Value, error) {
	if name == "missing" {
		return nil, domain.ErrNotFound
	}
	return []domain.Value{domain.StringValue(name)}, nil
}

func (m *mockListService) SyncAll(_ context.Context) ([]domain.UploadResult, error) {
	return []domain.UploadResult{{RunID: "run-all", Lists: []string{"Follow up"}, RecordCounts: map[string]int{"Follow up": 1}}}, m.err
}

func (m *mockListService) CleanLocal(items []domain.Value, name string) ([]*domain.Object, error) {
	if name != "followup" {
		return nil, domain.ErrUnknownSchema
	}
	obj := domain.NewObject()
	obj.Set("count", domain.IntValue(int64(len(items))))
	return []*domain.Object{obj}, nil
}

func (m *mockListService) MergeLocal(primary, secondary []domain.Value) ([]*domain.Object, error) {
	obj := domain.NewObject()
	obj.Set("risks", domain.IntValue(int64(len(primary))))
	obj.Set("mitigations", domain.IntValue(int64(len(secondary))))
	return []*domain.Object{obj}, nil
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	result *domain.HistoryResult
	got    domain.VersionQuery
}

func (m *mockHistoryService) Compare(_ context.Context, q domain.VersionQuery) (*domain.HistoryResult, error) {
	m.got = q
	return m.result, nil
}

func (m *mockHistoryService) Import(_ context.Context, versions []domain.Value) (int, error) {
	return len(versions), nil
}

// mockQueryService implements driving.QueryService for testing.
type mockQueryService struct {
	model string
}

func (m *mockQueryService) Translate(_ context.Context, input, model string) (*domain.QueryTranslation, error) {
	m.model = model
	return &domain.QueryTranslation{Model: model, Response: "SELECT * FROM c -- " + input}, nil
}

// mockPresentationService implements driving.PresentationService for testing.
type mockPresentationService struct{}

func (m *mockPresentationService) Extract(_ context.Context, path string) ([]domain.Slide, error) {
	return []domain.Slide{{Title: &path, Content: domain.SlideContent{Tables: []domain.Table{}}}}, nil
}

// withServices installs services for one test and restores the previous set.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	old := Services{
		List:         listService,
		History:      historyService,
		Query:        queryService,
		Presentation: presentationService,
		Scheduler:    syncScheduler,
	}
	listService, historyService, queryService, presentationService, syncScheduler = nil, nil, nil, nil, nil
	SetServices(s)
	t.Cleanup(func() { SetServices(&old) })
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetHelpFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// resetHelpFlags clears --help, which cobra leaves set between executions.
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range cmd.Commands() {
		resetHelpFlags(sub)
	}
}
