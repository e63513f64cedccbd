// Package history compares stored snapshots of list items and reports
// field-level changes grouped by date, author and item.
package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

const (
	// DisplayLayout renders the modification time of a change group.
	DisplayLayout = "01/02/2006 03:04 PM"
	// NoDate replaces absent or unreadable modification times.
	NoDate = "No date available"
	// UnknownAuthor replaces a missing modified_by.display_name.
	UnknownAuthor = "Unknown"
)

// metadataPrefix marks document store bookkeeping such as _rid and _etag.
const metadataPrefix = "_"

// authorField names the editor of a version. It is part of the group key,
// not a change.
const authorField = "modified_by"

// skippedSubfields never count as changes.
var skippedSubfields = map[string]bool{
	"Created":  true,
	"Modified": true,
	"ID":       true,
}

type version struct {
	obj   *domain.Object
	index int
	raw   string
	at    time.Time
	hasAt bool
}

type identityGroup struct {
	id       domain.Value
	versions []*version
}

type groupKey struct {
	date string
	by   string
	id   string
}

// Diff groups versions by fields.ID, orders each group newest first and
// compares every adjacent pair. Fewer than two versions yield no groups.
//
// Only members that are objects on both sides are compared, one level deep;
// top-level scalars are snapshot bookkeeping (ids, labels, timestamps) that
// differ on every version.
func Diff(versions []*domain.Object) ([]domain.ChangeGroup, error) {
	out := []domain.ChangeGroup{}
	if len(versions) < 2 {
		return out, nil
	}

	groups, err := groupByIdentity(versions)
	if err != nil {
		return nil, err
	}

	positions := make(map[groupKey]int)
	for _, g := range groups {
		sortNewestFirst(g.versions)
		idKey := canonical(g.id)

		for i := 0; i+1 < len(g.versions); i++ {
			newer, older := g.versions[i], g.versions[i+1]
			changes := Compare(newer.obj, older.obj)
			if len(changes) == 0 {
				continue
			}

			key := groupKey{date: displayDate(newer), by: author(newer.obj), id: idKey}
			if pos, ok := positions[key]; ok {
				out[pos].Changes = append(out[pos].Changes, changes...)
				continue
			}
			positions[key] = len(out)
			out = append(out, domain.ChangeGroup{
				ModifiedDate: key.date,
				ModifiedBy:   key.by,
				ID:           g.id,
				Changes:      changes,
			})
		}
	}

	return dropAdministrative(out), nil
}

// Compare returns the sub-field changes between two versions, with old
// values taken from older and new values from newer.
func Compare(newer, older *domain.Object) []domain.FieldChange {
	var changes []domain.FieldChange
	for _, name := range unionKeys(newer, older) {
		if strings.HasPrefix(name, metadataPrefix) || name == authorField {
			continue
		}
		nv, _ := newer.Get(name)
		ov, _ := older.Get(name)
		newObj, newIsObj := nv.Object()
		oldObj, oldIsObj := ov.Object()
		if !newIsObj || !oldIsObj {
			continue
		}

		for _, sub := range unionKeys(newObj, oldObj) {
			if skippedSubfields[sub] {
				continue
			}
			after, _ := newObj.Get(sub)
			before, _ := oldObj.Get(sub)
			if after.Equal(before) {
				continue
			}
			changes = append(changes, domain.FieldChange{
				Field:    name + "." + sub,
				OldValue: before,
				NewValue: after,
			})
		}
	}
	return changes
}

func groupByIdentity(versions []*domain.Object) ([]*identityGroup, error) {
	var groups []*identityGroup
	byID := make(map[string]*identityGroup)

	for i, obj := range versions {
		id, ok := obj.Lookup("fields", "ID")
		if !ok || id.IsNull() {
			return nil, fmt.Errorf("%w: version %d has no fields.ID", domain.ErrInvalidInput, i)
		}

		v := &version{obj: obj, index: i}
		v.raw, v.at, v.hasAt = timestampOf(obj)

		key := canonical(id)
		g, ok := byID[key]
		if !ok {
			g = &identityGroup{id: id}
			byID[key] = g
			groups = append(groups, g)
		}
		g.versions = append(g.versions, v)
	}
	return groups, nil
}

// sortNewestFirst orders by timestamp descending. Versions later in the
// input win ties since the store returns snapshots oldest first.
func sortNewestFirst(versions []*version) {
	sort.Slice(versions, func(i, j int) bool {
		a, b := versions[i], versions[j]
		if !a.at.Equal(b.at) {
			return a.at.After(b.at)
		}
		return a.index > b.index
	})
}

// timestampOf reads fields.Modified, falling back to created.
func timestampOf(obj *domain.Object) (string, time.Time, bool) {
	raw := textAt(obj, "fields", "Modified")
	if raw == "" {
		raw = textAt(obj, "created")
	}
	at, ok := domain.ParseTimestamp(raw)
	return raw, at, ok
}

func displayDate(v *version) string {
	if !v.hasAt {
		return NoDate
	}
	return v.at.Format(DisplayLayout)
}

func author(obj *domain.Object) string {
	if name := textAt(obj, authorField, "display_name"); name != "" {
		return name
	}
	return UnknownAuthor
}

func textAt(obj *domain.Object, path ...string) string {
	v, ok := obj.Lookup(path...)
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

func unionKeys(a, b *domain.Object) []string {
	seen := make(map[string]bool, a.Len()+b.Len())
	var keys []string
	for _, k := range append(a.Keys(), b.Keys()...) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func canonical(v domain.Value) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v.Interface())
	}
	return string(data)
}

func dropAdministrative(groups []domain.ChangeGroup) []domain.ChangeGroup {
	out := groups[:0]
	for _, g := range groups {
		kept := g.Changes[:0]
		for _, c := range g.Changes {
			if c.Field == "fields.Created" || c.Field == "fields.Modified" {
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			continue
		}
		g.Changes = kept
		out = append(out, g)
	}
	return out
}
