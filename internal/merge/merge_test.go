package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/normalisers"
	"github.com/custodia-labs/risklists/internal/normalisers/lists"
)

func objects(t *testing.T, raw string) []*domain.Object {
	t.Helper()
	items, err := domain.ParseArray([]byte(raw))
	require.NoError(t, err)
	out := make([]*domain.Object, len(items))
	for i, item := range items {
		obj, ok := item.Object()
		require.True(t, ok)
		out[i] = obj
	}
	return out
}

func mitigations(t *testing.T, rec *domain.Object) []domain.Value {
	t.Helper()
	v, ok := rec.Get("Mitigations")
	require.True(t, ok, "Mitigations is always present")
	items, ok := v.Array()
	require.True(t, ok)
	return items
}

func TestMerge_EndToEndFromRawLists(t *testing.T) {
	// Given raw risk and mitigation payloads
	cleaner := lists.NewCleaner(normalisers.NewRegistry())
	rawRisks, err := domain.ParseArray([]byte(`[
		{"id": 1, "fields": {"Title": "Fire risk"}},
		{"id": 2, "fields": {"Title": "Flood risk"}}
	]`))
	require.NoError(t, err)
	rawMitigations, err := domain.ParseArray([]byte(`[
		{"fields": {"RiskId": 1, "ResponsePlan": "Evacuate"}},
		{"fields": {"RiskId": 1, "ResponsePlan": "Insure"}}
	]`))
	require.NoError(t, err)

	risks, err := cleaner.CleanList(rawRisks, domain.ListRiskRegister)
	require.NoError(t, err)
	mits, err := cleaner.CleanList(rawMitigations, domain.ListRiskMitigations)
	require.NoError(t, err)

	// When
	merged, err := Merge(risks, mits)

	// Then
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Len(t, mitigations(t, merged[0]), 2)
	assert.Empty(t, mitigations(t, merged[1]))

	out, err := json.Marshal(domain.ObjectValues(merged))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id": 1, "Title": "Fire risk", "Mitigations": [
			{"ResponsePlan": "Evacuate", "RiskId": 1},
			{"ResponsePlan": "Insure", "RiskId": 1}
		]},
		{"id": 2, "Title": "Flood risk", "Mitigations": []}
	]`, string(out))
}

func TestMerge_UnsortedAndDuplicatePrimaryIDs(t *testing.T) {
	primary := objects(t, `[{"id": 3}, {"id": 1}, {"id": 3}]`)
	secondary := objects(t, `[
		{"RiskId": 1, "n": "a"},
		{"RiskId": 3, "n": "b"},
		{"RiskId": 1, "n": "c"},
		{"RiskId": 9, "n": "orphan"}
	]`)

	merged, err := Merge(primary, secondary)

	require.NoError(t, err)
	assert.Len(t, mitigations(t, merged[0]), 1)
	assert.Len(t, mitigations(t, merged[2]), 1)

	got := mitigations(t, merged[1])
	require.Len(t, got, 2)
	first, _ := got[0].Object()
	n, _ := first.Get("n")
	assert.Equal(t, domain.StringValue("a"), n, "matches keep secondary order")
}

func TestMerge_Completeness(t *testing.T) {
	primary := objects(t, `[{"id": 1}, {"id": 2}, {"id": 3}]`)
	secondary := objects(t, `[{"RiskId": 2}, {"RiskId": 3}, {"RiskId": 1}, {"RiskId": 2}, {"RiskId": 3}]`)

	merged, err := Merge(primary, secondary)
	require.NoError(t, err)

	for _, rec := range merged {
		id, _ := rec.Get("id")
		want, _ := id.Int()
		for _, m := range mitigations(t, rec) {
			obj, _ := m.Object()
			key, _ := obj.Get("RiskId")
			got, _ := key.Int()
			assert.Equal(t, want, got)
		}
	}
	assert.Len(t, mitigations(t, merged[0]), 1)
	assert.Len(t, mitigations(t, merged[1]), 2)
	assert.Len(t, mitigations(t, merged[2]), 2)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	primary := objects(t, `[{"id": 1}]`)
	secondary := objects(t, `[{"RiskId": 1}]`)

	_, err := Merge(primary, secondary)

	require.NoError(t, err)
	assert.False(t, primary[0].Has("Mitigations"))
}

func TestMerge_StringKeys(t *testing.T) {
	primary := objects(t, `[{"id": "4"}]`)
	secondary := objects(t, `[{"RiskId": "4"}]`)

	merged, err := Merge(primary, secondary)

	require.NoError(t, err)
	assert.Len(t, mitigations(t, merged[0]), 1)
}

func TestMerge_BadSecondaryKeyAbandonsMerge(t *testing.T) {
	tests := []struct {
		name      string
		secondary string
	}{
		{name: "null", secondary: `[{"RiskId": 1}, {"RiskId": null}]`},
		{name: "missing", secondary: `[{"ResponsePlan": "x"}]`},
		{name: "fraction", secondary: `[{"RiskId": 1.5}]`},
		{name: "text", secondary: `[{"RiskId": "R-1"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := objects(t, `[{"id": 1}]`)

			merged, err := Merge(primary, objects(t, tt.secondary))

			require.ErrorIs(t, err, domain.ErrMergeKey)
			assert.Equal(t, primary, merged)
			assert.False(t, merged[0].Has("Mitigations"))
		})
	}
}

func TestMerge_BadPrimaryKeyFailsFast(t *testing.T) {
	merged, err := Merge(objects(t, `[{"id": 1}, {"Title": "no id"}]`), nil)

	assert.Nil(t, merged)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "primary record 1")
}

func TestMergeWith_CustomOptions(t *testing.T) {
	primary := objects(t, `[{"key": 10}]`)
	secondary := objects(t, `[{"parent": 10}]`)

	merged, err := MergeWith(primary, secondary, Options{PrimaryKey: "key", ForeignKey: "parent", Attach: "children"})

	require.NoError(t, err)
	children, ok := merged[0].Get("children")
	require.True(t, ok)
	items, _ := children.Array()
	assert.Len(t, items, 1)
}

func TestMerge_EmptyInputs(t *testing.T) {
	merged, err := Merge(nil, nil)

	require.NoError(t, err)
	assert.Empty(t, merged)
}
