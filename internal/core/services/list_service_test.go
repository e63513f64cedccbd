package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/normalisers"
)

const (
	risksPayload = `[
		{"id": "1", "createdDateTime": "2025-01-05T09:00:00Z",
		 "fields": {"Title": " Fire ", "Status": "Open", "Likelihood": "High", "ContentType": "Item"}},
		{"id": "2", "createdDateTime": "2025-01-06T09:00:00Z",
		 "fields": {"Title": "Flood", "Status": "Closed"}}
	]`
	mitigationsPayload = `[
		{"id": "10", "fields": {"RiskId": "1", "ResponsePlan": "Extinguishers"}},
		{"id": "11", "fields": {"RiskId": 1, "ResponsePlan": "Drills"}}
	]`
	followUpPayload = `[{"id": "5", "fields": {"Title": "Check sprinklers", "Archive": "No"}}]`
)

func parse(t *testing.T, raw string) []domain.Value {
	t.Helper()
	items, err := domain.ParseArray([]byte(raw))
	require.NoError(t, err)
	return items
}

func newTestSource(t *testing.T) *mockListSource {
	t.Helper()
	return &mockListSource{items: map[string][]domain.Value{
		domain.ListRiskRegister:    parse(t, risksPayload),
		domain.ListRiskMitigations: parse(t, mitigationsPayload),
		domain.ListFollowUp:        parse(t, followUpPayload),
	}}
}

func mitigationCount(t *testing.T, rec domain.Value) int {
	t.Helper()
	obj, ok := rec.Object()
	require.True(t, ok)
	m, ok := obj.Get("Mitigations")
	require.True(t, ok, "Mitigations key must be present")
	arr, ok := m.Array()
	require.True(t, ok)
	return len(arr)
}

func TestBlobPaths(t *testing.T) {
	assert.Equal(t, "uncleaned_lists/Risk_Register.json", RawPath(domain.ListRiskRegister))
	assert.Equal(t, "cleaned_lists/Follow_up.json", CleanedPath(domain.ListFollowUp))
	assert.Equal(t, "cleaned_lists/Risk_Register_Risk_Mitigations_merged.json", MergedPath())
}

func TestListService_Upload_CompatiblePair(t *testing.T) {
	// Given a source holding risks and their mitigations
	source := newTestSource(t)
	blobs := newMemBlobStore()
	indexer := &mockIndexer{}
	svc := NewListService(source, normalisers.NewRegistry(), blobs)
	svc.SetIndexer(indexer)

	// When the risk register is uploaded
	result, err := svc.Upload(context.Background(), "riskregister")

	// Then both lists are stored, cleaned and merged
	require.NoError(t, err)
	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
	assert.Equal(t, []string{domain.ListRiskRegister, domain.ListRiskMitigations}, source.calls)
	assert.Equal(t, []string{domain.ListRiskRegister, domain.ListRiskMitigations}, result.Lists)
	assert.ElementsMatch(t, []string{
		"uncleaned_lists/Risk_Register.json",
		"cleaned_lists/Risk_Register.json",
		"uncleaned_lists/Risk_Mitigations.json",
		"cleaned_lists/Risk_Mitigations.json",
		"cleaned_lists/Risk_Register_Risk_Mitigations_merged.json",
	}, result.Blobs)
	assert.Equal(t, map[string]int{domain.ListRiskRegister: 2, domain.ListRiskMitigations: 2}, result.RecordCounts)
	assert.Empty(t, result.MergeWarning)
	assert.Equal(t, map[string]int{domain.ListRiskRegister: 2, domain.ListRiskMitigations: 2}, indexer.indexed)

	merged, err := domain.ParseArray(blobs.data[MergedPath()])
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, 2, mitigationCount(t, merged[0]))
	assert.Equal(t, 0, mitigationCount(t, merged[1]))

	title, ok := merged[0].Object()
	require.True(t, ok)
	v, _ := title.Get("Title")
	assert.Equal(t, domain.StringValue("Fire"), v)
}

func TestListService_Upload_MergeAbandoned(t *testing.T) {
	source := newTestSource(t)
	source.items[domain.ListRiskMitigations] = parse(t, `[{"id": "10", "fields": {"RiskId": "one"}}]`)
	blobs := newMemBlobStore()
	svc := NewListService(source, normalisers.NewRegistry(), blobs)

	result, err := svc.Upload(context.Background(), domain.ListRiskMitigations)

	require.NoError(t, err)
	assert.NotEmpty(t, result.MergeWarning)
	merged, err := domain.ParseArray(blobs.data[MergedPath()])
	require.NoError(t, err)
	require.Len(t, merged, 2)
	obj, _ := merged[0].Object()
	assert.False(t, obj.Has("Mitigations"))
}

func TestListService_Upload_SingleList(t *testing.T) {
	source := newTestSource(t)
	blobs := newMemBlobStore()
	cache := newMockCache()
	svc := NewListService(source, normalisers.NewRegistry(), blobs)
	svc.SetCache(cache)

	result, err := svc.Upload(context.Background(), " Follow Up ")

	require.NoError(t, err)
	assert.Equal(t, []string{domain.ListFollowUp}, source.calls)
	assert.Equal(t, []string{"uncleaned_lists/Follow_up.json", "cleaned_lists/Follow_up.json"}, result.Blobs)
	assert.Equal(t, result.Blobs, cache.deleted)
	assert.NotContains(t, blobs.data, MergedPath())
}

func TestListService_Upload_Errors(t *testing.T) {
	fetchErr := errors.New("graph down")
	tests := []struct {
		name    string
		source  *mockListSource
		list    string
		wantErr error
	}{
		{"unknown list", &mockListSource{}, "Budget", domain.ErrUnknownSchema},
		{"no source", nil, "Follow up", domain.ErrNotConfigured},
		{"fetch failure", &mockListSource{errs: map[string]error{domain.ListFollowUp: fetchErr}}, "Follow up", fetchErr},
		{"non-object item", &mockListSource{items: map[string][]domain.Value{
			domain.ListFollowUp: {domain.StringValue("x")},
		}}, "Follow up", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc *ListService
			if tt.source == nil {
				svc = NewListService(nil, normalisers.NewRegistry(), newMemBlobStore())
			} else {
				svc = NewListService(tt.source, normalisers.NewRegistry(), newMemBlobStore())
			}
			_, err := svc.Upload(context.Background(), tt.list)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListService_Upload_Embeddings(t *testing.T) {
	blobs := newMemBlobStore()
	embedder := &mockEmbedder{}
	svc := NewListService(newTestSource(t), normalisers.NewRegistry(), blobs)
	svc.SetEmbedder(embedder)

	_, err := svc.Upload(context.Background(), domain.ListRiskRegister)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fire", "Open", "High", "Flood", "Closed"}, embedder.texts)
	merged, err := domain.ParseArray(blobs.data[MergedPath()])
	require.NoError(t, err)

	first, _ := merged[0].Object()
	vec, ok := first.Lookup("Embeddings", "Title")
	require.True(t, ok)
	assert.Equal(t, domain.ArrayValue([]domain.Value{domain.NumberValue(4)}), vec)

	second, _ := merged[1].Object()
	_, ok = second.Lookup("Embeddings", "Likelihood")
	assert.False(t, ok)

	cleaned, err := domain.ParseArray(blobs.data[CleanedPath(domain.ListRiskRegister)])
	require.NoError(t, err)
	plain, _ := cleaned[0].Object()
	assert.False(t, plain.Has("Embeddings"))
}

func TestListService_Upload_EmbeddingFailureKeepsRecords(t *testing.T) {
	blobs := newMemBlobStore()
	svc := NewListService(newTestSource(t), normalisers.NewRegistry(), blobs)
	svc.SetEmbedder(&mockEmbedder{err: errors.New("quota")})

	_, err := svc.Upload(context.Background(), domain.ListRiskRegister)
	require.NoError(t, err)

	merged, err := domain.ParseArray(blobs.data[MergedPath()])
	require.NoError(t, err)
	first, _ := merged[0].Object()
	assert.False(t, first.Has("Embeddings"))
}

func TestListService_Get(t *testing.T) {
	ctx := context.Background()
	blobs := newMemBlobStore()
	cache := newMockCache()
	svc := NewListService(newTestSource(t), normalisers.NewRegistry(), blobs)
	svc.SetCache(cache)

	// Nothing stored yet
	_, err := svc.Get(ctx, "followup")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Upload(ctx, domain.ListRiskRegister)
	require.NoError(t, err)

	// Mitigations resolve to the merged dataset
	items, err := svc.Get(ctx, "risk mitigations")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, mitigationCount(t, items[0]))
	assert.Equal(t, 0, cache.hits)

	// Second read is served from the cache
	_, err = svc.Get(ctx, domain.ListRiskRegister)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.Get(ctx, "Budget")
	assert.ErrorIs(t, err, domain.ErrUnknownSchema)
}

func TestListService_Get_FallsBackToCleaned(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.data[CleanedPath(domain.ListRiskMitigations)] = []byte(`[{"id": 10}]`)
	svc := NewListService(nil, normalisers.NewRegistry(), blobs)

	items, err := svc.Get(context.Background(), domain.ListRiskMitigations)

	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListService_SyncAll(t *testing.T) {
	source := newTestSource(t)
	source.errs = map[string]error{domain.ListFollowUp: errors.New("throttled")}
	svc := NewListService(source, normalisers.NewRegistry(), newMemBlobStore())

	results, err := svc.SyncAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	require.Len(t, results, 1)
	assert.Equal(t, []string{domain.ListRiskRegister, domain.ListRiskMitigations}, results[0].Lists)
	assert.Equal(t, []string{domain.ListRiskRegister, domain.ListRiskMitigations, domain.ListFollowUp}, source.calls)
}

func TestListService_SyncAll_ConfiguredLists(t *testing.T) {
	source := newTestSource(t)
	svc := NewListService(source, normalisers.NewRegistry(), newMemBlobStore())
	svc.SetSyncLists([]string{"Follow Up", "Unknown"})

	results, err := svc.SyncAll(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnknownSchema)
	require.Len(t, results, 1)
	assert.Equal(t, []string{domain.ListFollowUp}, source.calls)
}

func TestListService_CleanLocal(t *testing.T) {
	svc := NewListService(nil, normalisers.NewRegistry(), newMemBlobStore())

	cleaned, err := svc.CleanLocal(parse(t, followUpPayload), "followup")

	require.NoError(t, err)
	require.Len(t, cleaned, 1)
	id, _ := cleaned[0].Get("id")
	assert.Equal(t, domain.IntValue(5), id)

	_, err = svc.CleanLocal(nil, "budget")
	assert.ErrorIs(t, err, domain.ErrUnknownSchema)
}

func TestListService_MergeLocal(t *testing.T) {
	svc := NewListService(nil, normalisers.NewRegistry(), newMemBlobStore())

	merged, err := svc.MergeLocal(parse(t, risksPayload), parse(t, mitigationsPayload))

	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, 2, mitigationCount(t, domain.ObjectValue(merged[0])))
	assert.Equal(t, 0, mitigationCount(t, domain.ObjectValue(merged[1])))
}
