package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_KeepsMemberOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"b":1,"a":{"z":true,"y":null},"c":[1,"x"]}`))
	require.NoError(t, err)

	obj, ok := v.Object()
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1,"a":{"z":true,"y":null},"c":[1,"x"]}`, string(out))
	assert.Equal(t, `{"b":1,"a":{"z":true,"y":null},"c":[1,"x"]}`, string(out))
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ``},
		{name: "truncated object", input: `{"a":`},
		{name: "trailing data", input: `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseArray(t *testing.T) {
	items, err := ParseArray([]byte(`[{"id":"1"},{"id":"2"}]`))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = ParseArray([]byte(`{"id":"1"}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValue_Int(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  int64
		ok    bool
	}{
		{name: "integral", value: NumberValue(42), want: 42, ok: true},
		{name: "negative", value: IntValue(-3), want: -3, ok: true},
		{name: "fraction", value: NumberValue(1.5), ok: false},
		{name: "string", value: StringValue("42"), ok: false},
		{name: "null", value: Null(), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Int()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_Equal(t *testing.T) {
	a, err := ParseJSON([]byte(`{"x":1,"y":[true,"s",{"k":null}]}`))
	require.NoError(t, err)
	b, err := ParseJSON([]byte(`{"y":[true,"s",{"k":null}],"x":1}`))
	require.NoError(t, err)
	c, err := ParseJSON([]byte(`{"y":[true,"s",{"k":0}],"x":1}`))
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "key order is ignored")
	assert.False(t, a.Equal(c))
	assert.False(t, IntValue(1).Equal(StringValue("1")))
	assert.True(t, Null().Equal(Value{}))
}

func TestObject_SetDeleteLookup(t *testing.T) {
	inner := NewObject()
	inner.Set("Status", StringValue("Open"))

	obj := NewObject()
	obj.Set("id", IntValue(1))
	obj.Set("fields", ObjectValue(inner))
	obj.Set("id", IntValue(2))

	assert.Equal(t, []string{"id", "fields"}, obj.Keys())

	got, ok := obj.Lookup("fields", "Status")
	require.True(t, ok)
	s, _ := got.Text()
	assert.Equal(t, "Open", s)

	_, ok = obj.Lookup("id", "nested")
	assert.False(t, ok)

	obj.Delete("id")
	assert.Equal(t, []string{"fields"}, obj.Keys())
	assert.False(t, obj.Has("id"))
}

func TestObject_CloneIsShallow(t *testing.T) {
	obj := NewObject()
	obj.Set("a", IntValue(1))

	clone := obj.Clone()
	clone.Set("b", IntValue(2))

	assert.Equal(t, 1, obj.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestNilObject(t *testing.T) {
	var obj *Object
	assert.Equal(t, 0, obj.Len())
	assert.Nil(t, obj.Keys())
	_, ok := obj.Get("a")
	assert.False(t, ok)
	assert.True(t, ObjectValue(nil).IsNull())
}

func TestValue_Interface(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a":[1,"b",false,null]}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": []any{float64(1), "b", false, nil}}, v.Interface())
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range FieldTypes {
		got, err := ParseFieldType(string(ft))
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	_, err := ParseFieldType("dict")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFamilyOf(t *testing.T) {
	f, err := FamilyOf("gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, ModelFamilyChat, f)

	f, err = FamilyOf("o1")
	require.NoError(t, err)
	assert.Equal(t, ModelFamilyReasoning, f)

	_, err = FamilyOf("gpt-2")
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestListSchema_Validate(t *testing.T) {
	valid := &ListSchema{
		Name:          "Demo",
		AllowedFields: []string{"id"},
		FieldTypes:    map[string]FieldType{"id": FieldInteger},
	}
	assert.NoError(t, valid.Validate())
	assert.True(t, valid.Allows("id"))
	assert.False(t, valid.Allows("Title"))

	bad := &ListSchema{
		Name:          "Demo",
		AllowedFields: []string{"id"},
		FieldTypes:    map[string]FieldType{"id": "int"},
	}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidInput)
}
