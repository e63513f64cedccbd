// Package merge joins a primary list with a secondary list that references
// it through a foreign key.
package merge

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// Options names the fields taking part in the join.
type Options struct {
	// PrimaryKey is the identity field of primary records.
	PrimaryKey string
	// ForeignKey is the field of secondary records pointing at PrimaryKey.
	ForeignKey string
	// Attach is the field receiving matched secondary records.
	Attach string
}

// DefaultOptions joins risks and mitigations.
func DefaultOptions() Options {
	return Options{
		PrimaryKey: "id",
		ForeignKey: "RiskId",
		Attach:     "Mitigations",
	}
}

// Merge attaches mitigations to risks using DefaultOptions.
func Merge(primary, secondary []*domain.Object) ([]*domain.Object, error) {
	return MergeWith(primary, secondary, DefaultOptions())
}

// MergeWith attaches to every primary record the secondary records whose
// foreign key equals its primary key under integer equality. Every output
// record carries opts.Attach, empty when nothing matched, and matches keep
// their secondary order. Inputs are not modified.
//
// When a secondary key is not an integer the merge is abandoned: the primary
// records are returned as given together with an error wrapping ErrMergeKey.
func MergeWith(primary, secondary []*domain.Object, opts Options) ([]*domain.Object, error) {
	index, err := buildIndex(secondary, opts.ForeignKey)
	if err != nil {
		return primary, err
	}

	merged := make([]*domain.Object, 0, len(primary))
	for i, rec := range primary {
		id, err := integerKey(rec, opts.PrimaryKey)
		if err != nil {
			return nil, fmt.Errorf("%w: primary record %d: %v", domain.ErrInvalidInput, i, err)
		}

		matches := index[id]
		attached := make([]domain.Value, len(matches))
		for j, m := range matches {
			attached[j] = domain.ObjectValue(m)
		}

		out := rec.Clone()
		out.Set(opts.Attach, domain.ArrayValue(attached))
		merged = append(merged, out)
	}
	return merged, nil
}

func buildIndex(secondary []*domain.Object, field string) (map[int64][]*domain.Object, error) {
	index := make(map[int64][]*domain.Object, len(secondary))
	for i, rec := range secondary {
		key, err := integerKey(rec, field)
		if err != nil {
			return nil, fmt.Errorf("%w: secondary record %d: %v", domain.ErrMergeKey, i, err)
		}
		index[key] = append(index[key], rec)
	}
	return index, nil
}

// integerKey reads field as an integer. Numbers must be integral; strings
// must hold a plain base-10 integer, the form ids take before cleaning.
func integerKey(rec *domain.Object, field string) (int64, error) {
	v, ok := rec.Get(field)
	if !ok {
		return 0, fmt.Errorf("missing %s", field)
	}
	switch v.Kind() {
	case domain.KindNumber:
		if n, ok := v.Int(); ok {
			return n, nil
		}
	case domain.KindString:
		s, _ := v.Text()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%s is not an integer", field)
}
