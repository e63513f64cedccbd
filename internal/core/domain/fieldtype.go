package domain

import "fmt"

// FieldType is the semantic type a list schema declares for a field.
type FieldType string

const (
	// FieldInteger holds whole numbers; "No" reads as 0.
	FieldInteger FieldType = "integer"
	// FieldDecimal holds floating point numbers.
	FieldDecimal FieldType = "decimal"
	// FieldText holds trimmed strings or JSON-encoded literals.
	FieldText FieldType = "text"
	// FieldBoolean holds booleans; unknown input reads as false.
	FieldBoolean FieldType = "boolean"
	// FieldDate holds timestamps rendered as "2006-01-02 15:04:05".
	FieldDate FieldType = "date"
	// FieldList holds arrays whose elements are normalised recursively.
	FieldList FieldType = "list"
	// FieldNestedObject holds objects whose members are normalised recursively.
	FieldNestedObject FieldType = "nested-object"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldInteger, FieldDecimal, FieldText, FieldBoolean, FieldDate, FieldList, FieldNestedObject,
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseFieldType converts a name into a FieldType.
func ParseFieldType(name string) (FieldType, error) {
	t := FieldType(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown field type %q", ErrInvalidInput, name)
	}
	return t, nil
}
