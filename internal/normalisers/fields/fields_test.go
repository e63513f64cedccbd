package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

func mustParse(t *testing.T, raw string) domain.Value {
	t.Helper()
	v, err := domain.ParseJSON([]byte(raw))
	require.NoError(t, err)
	return v
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces", in: "Risk Id", want: "RiskId"},
		{name: "odata annotation", in: "@odata.etag", want: "odataetag"},
		{name: "underscore kept", in: "Calculated_TargetDate", want: "Calculated_TargetDate"},
		{name: "tabs and symbols", in: "\tOwner\n(s)#", want: "Owners"},
		{name: "non ascii dropped", in: "Catégorie", want: "Catgorie"},
		{name: "already clean", in: "Level1LookupId", want: "Level1LookupId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanKey(tt.in))
		})
	}
}

func TestCleanKeys_Recursive(t *testing.T) {
	in := mustParse(t, `[{"my field":{"inner key":[{"deep key!":1},"x"]}}]`)

	got := CleanKeys(in)

	assert.True(t, mustParse(t, `[{"myfield":{"innerkey":[{"deepkey":1},"x"]}}]`).Equal(got))
}

func TestNormalize_Boolean(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Value
		want bool
	}{
		{name: "Yes", in: domain.StringValue("Yes"), want: true},
		{name: "no", in: domain.StringValue("no"), want: false},
		{name: "padded TRUE", in: domain.StringValue("  TRUE "), want: true},
		{name: "string 1", in: domain.StringValue("1"), want: true},
		{name: "string 0", in: domain.StringValue("0"), want: false},
		{name: "number 1", in: domain.IntValue(1), want: true},
		{name: "number 0", in: domain.IntValue(0), want: false},
		{name: "number 2", in: domain.IntValue(2), want: false},
		{name: "maybe", in: domain.StringValue("maybe"), want: false},
		{name: "native true", in: domain.BoolValue(true), want: true},
		{name: "null", in: domain.Null(), want: false},
		{name: "array", in: domain.ArrayValue(nil), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, domain.FieldBoolean)
			b, ok := got.Bool()
			require.True(t, ok, "boolean coercion never yields null")
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestNormalize_Integer(t *testing.T) {
	tests := []struct {
		name   string
		in     domain.Value
		want   int64
		isNull bool
	}{
		{name: "No sentinel", in: domain.StringValue("No"), want: 0},
		{name: "no sentinel lowercase", in: domain.StringValue("no"), want: 0},
		{name: "digits", in: domain.StringValue("42"), want: 42},
		{name: "negative", in: domain.StringValue("-7"), want: -7},
		{name: "leading zero", in: domain.StringValue("007"), isNull: true},
		{name: "decimal string", in: domain.StringValue("1.0"), isNull: true},
		{name: "padded", in: domain.StringValue(" 5"), isNull: true},
		{name: "text", in: domain.StringValue("abc"), isNull: true},
		{name: "integral number", in: domain.NumberValue(12), want: 12},
		{name: "fractional number", in: domain.NumberValue(12.5), isNull: true},
		{name: "bool", in: domain.BoolValue(true), isNull: true},
		{name: "null", in: domain.Null(), isNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, domain.FieldInteger)
			if tt.isNull {
				assert.True(t, got.IsNull())
				return
			}
			n, ok := got.Int()
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestNormalize_Decimal(t *testing.T) {
	got := Normalize(domain.StringValue("1500.75"), domain.FieldDecimal)
	f, ok := got.Number()
	require.True(t, ok)
	assert.InDelta(t, 1500.75, f, 1e-9)

	assert.Equal(t, domain.NumberValue(3), Normalize(domain.NumberValue(3), domain.FieldDecimal))
	assert.True(t, Normalize(domain.StringValue("n/a"), domain.FieldDecimal).IsNull())
	assert.True(t, Normalize(domain.BoolValue(true), domain.FieldDecimal).IsNull())

	for _, in := range []string{"NaN", "Inf", "-Inf", "Infinity"} {
		t.Run(in, func(t *testing.T) {
			assert.True(t, Normalize(domain.StringValue(in), domain.FieldDecimal).IsNull())
		})
	}
}

func TestNormalize_Date(t *testing.T) {
	tests := []struct {
		name   string
		in     domain.Value
		want   string
		isNull bool
	}{
		{name: "iso with zone", in: domain.StringValue("2025-03-17T10:41:16Z"), want: "2025-03-17 10:41:16"},
		{name: "already formatted", in: domain.StringValue("2025-03-17 10:41:16"), want: "2025-03-17 10:41:16"},
		{name: "date only", in: domain.StringValue("2025-03-17"), want: "2025-03-17 00:00:00"},
		{name: "garbage", in: domain.StringValue("not a date"), isNull: true},
		{name: "empty", in: domain.StringValue(""), isNull: true},
		{name: "null", in: domain.Null(), isNull: true},
		{name: "number", in: domain.IntValue(5), isNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, domain.FieldDate)
			if tt.isNull {
				assert.True(t, got.IsNull())
				return
			}
			s, ok := got.Text()
			require.True(t, ok)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestNormalize_Text(t *testing.T) {
	assert.Equal(t, domain.StringValue("Open"), Normalize(domain.StringValue("  Open \n"), domain.FieldText))
	assert.Equal(t, domain.IntValue(3), Normalize(domain.IntValue(3), domain.FieldText))
	assert.True(t, Normalize(domain.Null(), domain.FieldText).IsNull())

	list := Normalize(domain.StringValue(" [1, 2] "), domain.FieldText)
	assert.True(t, mustParse(t, `[1,2]`).Equal(list))

	obj := Normalize(domain.StringValue(`{"a": "b"}`), domain.FieldText)
	assert.True(t, mustParse(t, `{"a":"b"}`).Equal(obj))

	broken := Normalize(domain.StringValue("[not json"), domain.FieldText)
	assert.Equal(t, domain.StringValue("[not json"), broken)

	// Single-quoted literals are not JSON and stay text.
	quoted := Normalize(domain.StringValue("['UK', 'FR']"), domain.FieldText)
	assert.Equal(t, domain.StringValue("['UK', 'FR']"), quoted)
}

func TestNormalize_PassThrough(t *testing.T) {
	v := mustParse(t, `[{"LookupId":1}]`)
	assert.True(t, v.Equal(Normalize(v, domain.FieldList)))
	assert.True(t, v.Equal(Normalize(v, domain.FieldType("unknown"))))
}

func TestNormalizeObject_NestedReuseOfTypes(t *testing.T) {
	types := map[string]domain.FieldType{
		"id":       domain.FieldInteger,
		"Archive":  domain.FieldBoolean,
		"LookupId": domain.FieldInteger,
		"Owner":    domain.FieldList,
	}
	obj, ok := mustParse(t, `{
		"id": "3",
		"Archive": "Yes",
		"Owner": [{"LookupId": "12", "Email": "a@b.c"}, "plain"],
		"Untyped": " keep "
	}`).Object()
	require.True(t, ok)

	got := NormalizeObject(obj, types)

	want := mustParse(t, `{
		"id": 3,
		"Archive": true,
		"Owner": [{"LookupId": 12, "Email": "a@b.c"}, "plain"],
		"Untyped": " keep "
	}`)
	assert.True(t, want.Equal(domain.ObjectValue(got)), "got %s", mustMarshal(t, got))

	// input untouched
	id, _ := obj.Get("id")
	assert.Equal(t, domain.StringValue("3"), id)
}

func TestNormalizeObject_Idempotent(t *testing.T) {
	types := map[string]domain.FieldType{
		"id":        domain.FieldInteger,
		"Created":   domain.FieldDate,
		"Archive":   domain.FieldBoolean,
		"Title":     domain.FieldText,
		"Countries": domain.FieldList,
		"Owners":    domain.FieldText,
	}
	obj, ok := mustParse(t, `{
		"id": "9", "Created": "2024-01-02T03:04:05Z", "Archive": "nope",
		"Title": " Fire ", "Countries": ["UK"], "Owners": "[{\"LookupId\": \"4\"}]"
	}`).Object()
	require.True(t, ok)

	once := NormalizeObject(obj, types)
	twice := NormalizeObject(once, types)

	assert.True(t, once.Equal(twice))
}

func mustMarshal(t *testing.T, o *domain.Object) string {
	t.Helper()
	data, err := o.MarshalJSON()
	require.NoError(t, err)
	return string(data)
}
