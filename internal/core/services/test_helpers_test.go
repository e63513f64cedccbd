package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
)

// mockListSource implements driven.ListSource for testing.
type mockListSource struct {
	items map[string][]domain.Value
	errs  map[string]error
	calls []string
}

func (m *mockListSource) FetchItems(_ context.Context, listName string) ([]domain.Value, error) {
	m.calls = append(m.calls, listName)
	if err := m.errs[listName]; err != nil {
		return nil, err
	}
	return m.items[listName], nil
}

// memBlobStore implements driven.BlobStore in memory.
type memBlobStore struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{data: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, name string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *memBlobStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[name]
	return ok, nil
}

// mockCache implements driven.PayloadCache in memory.
type mockCache struct {
	data    map[string][]byte
	hits    int
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m.hits++
	return data, nil
}

func (m *mockCache) Set(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

// mockIndexer implements driven.RecordIndexer for testing.
type mockIndexer struct {
	indexed map[string]int
}

func (m *mockIndexer) IndexRecords(_ context.Context, list string, records []*domain.Object) error {
	if m.indexed == nil {
		m.indexed = make(map[string]int)
	}
	m.indexed[list] = len(records)
	return nil
}

// mockEmbedder returns a one-element vector holding the text length.
type mockEmbedder struct {
	texts []string
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.texts = append(m.texts, texts...)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

// mockVersionStore implements driven.VersionStore for testing.
type mockVersionStore struct {
	versions  []*domain.Object
	lastQuery domain.VersionQuery
	saved     []*domain.Object
	err       error
}

func (m *mockVersionStore) Query(_ context.Context, q domain.VersionQuery) ([]*domain.Object, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.versions, nil
}

func (m *mockVersionStore) Save(_ context.Context, versions []*domain.Object) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.saved = append(m.saved, versions...)
	return len(versions), nil
}

// mockLanguageModel implements driven.LanguageModel for testing.
type mockLanguageModel struct {
	response string
	err      error
	requests []driven.ChatRequest
}

func (m *mockLanguageModel) Chat(_ context.Context, req driven.ChatRequest) (string, error) {
	m.requests = append(m.requests, req)
	return m.response, m.err
}

// mockFileSource implements driven.FileSource for testing.
type mockFileSource struct {
	files map[string][]byte
}

func (m *mockFileSource) DownloadFile(_ context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

// mockParser implements driven.PresentationParser for testing.
type mockParser struct {
	slides []domain.Slide
	err    error
	got    []byte
}

func (m *mockParser) ExtractTables(data []byte) ([]domain.Slide, error) {
	m.got = data
	return m.slides, m.err
}

// mockSyncer implements driving.ListService for scheduler tests.
type mockSyncer struct {
	mu    sync.Mutex
	runs  int
	calls chan struct{}
}

func (m *mockSyncer) Upload(_ context.Context, _ string) (*domain.UploadResult, error) {
	return nil, nil
}

func (m *mockSyncer) Get(_ context.Context, _ string) ([]domain.Value, error) {
	return nil, nil
}

func (m *mockSyncer) SyncAll(_ context.Context) ([]domain.UploadResult, error) {
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()
	if m.calls != nil {
		select {
		case m.calls <- struct{}{}:
		default:
		}
	}
	return []domain.UploadResult{{RunID: "run-1", Lists: []string{"Follow up"}}}, nil
}

func (m *mockSyncer) CleanLocal(_ []domain.Value, _ string) ([]*domain.Object, error) {
	return nil, nil
}

func (m *mockSyncer) MergeLocal(_, _ []domain.Value) ([]*domain.Object, error) {
	return nil, nil
}

func (m *mockSyncer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}
