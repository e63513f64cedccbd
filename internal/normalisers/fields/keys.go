package fields

import (
	"regexp"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// keyPattern matches everything that may not appear in a canonical key,
// whitespace included.
var keyPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

// CleanKey strips a field name down to ASCII letters, digits and underscores.
func CleanKey(name string) string {
	return keyPattern.ReplaceAllString(name, "")
}

// CleanKeys rewrites every object key in v, at any depth, with CleanKey.
// When two keys clean to the same name the later one wins.
func CleanKeys(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindObject:
		obj, _ := v.Object()
		out := domain.NewObject()
		obj.Range(func(key string, member domain.Value) bool {
			out.Set(CleanKey(key), CleanKeys(member))
			return true
		})
		return domain.ObjectValue(out)
	case domain.KindArray:
		items, _ := v.Array()
		out := make([]domain.Value, len(items))
		for i, item := range items {
			out[i] = CleanKeys(item)
		}
		return domain.ArrayValue(out)
	default:
		return v
	}
}
