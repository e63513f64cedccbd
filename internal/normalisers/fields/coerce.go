package fields

import (
	"math"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// DateLayout is the rendering of every coerced date.
const DateLayout = "2006-01-02 15:04:05"

// Normalize coerces a scalar value to t. List and nested-object types are
// returned unchanged; NormalizeObject handles their members.
func Normalize(v domain.Value, t domain.FieldType) domain.Value {
	switch t {
	case domain.FieldDate:
		return toDate(v)
	case domain.FieldInteger:
		return toInteger(v)
	case domain.FieldDecimal:
		return toDecimal(v)
	case domain.FieldBoolean:
		return toBoolean(v)
	case domain.FieldText:
		return toText(v)
	default:
		return v
	}
}

// NormalizeObject returns a copy of obj with nested objects normalised first
// and then every member listed in types coerced to its declared type.
// The same type map applies at every depth.
func NormalizeObject(obj *domain.Object, types map[string]domain.FieldType) *domain.Object {
	out := domain.NewObject()
	obj.Range(func(key string, member domain.Value) bool {
		member = descend(member, types)
		if t, ok := types[key]; ok {
			coerced := Normalize(member, t)
			if member.Kind() == domain.KindString && coerced.Kind() != domain.KindString {
				// text holding an encoded list or object
				coerced = descend(coerced, types)
			}
			member = coerced
		}
		out.Set(key, member)
		return true
	})
	return out
}

// descend normalises objects held directly by v or by its array elements.
func descend(v domain.Value, types map[string]domain.FieldType) domain.Value {
	switch v.Kind() {
	case domain.KindObject:
		obj, _ := v.Object()
		return domain.ObjectValue(NormalizeObject(obj, types))
	case domain.KindArray:
		items, _ := v.Array()
		out := make([]domain.Value, len(items))
		for i, item := range items {
			if obj, ok := item.Object(); ok {
				out[i] = domain.ObjectValue(NormalizeObject(obj, types))
				continue
			}
			out[i] = item
		}
		return domain.ArrayValue(out)
	default:
		return v
	}
}

func toDate(v domain.Value) domain.Value {
	s, ok := v.Text()
	if !ok || strings.TrimSpace(s) == "" {
		return domain.Null()
	}
	parsed, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return domain.Null()
	}
	return domain.StringValue(parsed.Format(DateLayout))
}

func toInteger(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindString:
		s, _ := v.Text()
		if strings.EqualFold(s, "no") {
			return domain.IntValue(0)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || strconv.FormatInt(n, 10) != s {
			return domain.Null()
		}
		return domain.IntValue(n)
	case domain.KindNumber:
		if n, ok := v.Int(); ok {
			return domain.IntValue(n)
		}
		return domain.Null()
	default:
		return domain.Null()
	}
}

func toDecimal(v domain.Value) domain.Value {
	var f float64
	switch v.Kind() {
	case domain.KindNumber:
		f, _ = v.Number()
	case domain.KindString:
		s, _ := v.Text()
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return domain.Null()
		}
		f = parsed
	default:
		return domain.Null()
	}
	// NaN and the infinities have no JSON encoding.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Null()
	}
	return domain.NumberValue(f)
}

func toBoolean(v domain.Value) domain.Value {
	switch v.Kind() {
	case domain.KindBool:
		return v
	case domain.KindString:
		s, _ := v.Text()
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "1", "true":
			return domain.BoolValue(true)
		default:
			return domain.BoolValue(false)
		}
	case domain.KindNumber:
		n, _ := v.Number()
		return domain.BoolValue(n == 1)
	default:
		return domain.BoolValue(false)
	}
}

func toText(v domain.Value) domain.Value {
	s, ok := v.Text()
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		if parsed, err := domain.ParseJSON([]byte(trimmed)); err == nil {
			return parsed
		}
	}
	return domain.StringValue(trimmed)
}
