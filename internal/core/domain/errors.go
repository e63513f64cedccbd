package domain

import "errors"

// Sentinel errors shared by the core and its adapters.
var (
	// ErrUnknownSchema indicates the list has no registered schema.
	ErrUnknownSchema = errors.New("list name is invalid or out of processing scope")

	// ErrMergeKey indicates a secondary record's foreign key is not an integer.
	// The merge is abandoned and the primary list is kept as is.
	ErrMergeKey = errors.New("merge key is not an integer")

	// ErrInvalidInput indicates malformed input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a missing blob, record or file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidModel indicates an unsupported language model deployment.
	ErrInvalidModel = errors.New("invalid model name")

	// ErrNotConfigured indicates an optional adapter was not set up.
	ErrNotConfigured = errors.New("not configured")
)
