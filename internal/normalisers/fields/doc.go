// Package fields cleans field names and coerces field values to the semantic
// types declared by a list schema.
//
// Coercion never fails: values that cannot be read as their declared type
// become null, except booleans which default to false.
package fields
