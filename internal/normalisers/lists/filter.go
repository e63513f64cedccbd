// Package lists turns raw SharePoint list payloads into flat, typed records.
package lists

import (
	"strings"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// ownersField carries addresses joined with trailing semicolons upstream.
const ownersField = "Owners"

// Filter returns the members of rec named in allowed, in allowed order.
func Filter(rec *domain.Object, allowed []string) *domain.Object {
	out := domain.NewObject()
	for _, field := range allowed {
		v, ok := rec.Get(field)
		if !ok {
			continue
		}
		if field == ownersField {
			if s, ok := v.Text(); ok {
				v = domain.StringValue(strings.ReplaceAll(s, ";", ""))
			}
		}
		out.Set(field, v)
	}
	return out
}

// Flatten lifts the members of the item's "fields" object to the top level,
// where they override top-level members of the same name, and filters the
// result. Items without a "fields" object keep only their allowed top-level
// members.
func Flatten(item *domain.Object, allowed []string) *domain.Object {
	flat := domain.NewObject()
	item.Range(func(key string, v domain.Value) bool {
		flat.Set(key, v)
		return true
	})
	if v, ok := item.Get("fields"); ok {
		if nested, ok := v.Object(); ok {
			nested.Range(func(key string, v domain.Value) bool {
				flat.Set(key, v)
				return true
			})
		}
	}
	return Filter(flat, allowed)
}
