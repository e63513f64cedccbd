package driven

import "github.com/custodia-labs/risklists/internal/core/domain"

// SchemaRegistry looks up list schemas.
type SchemaRegistry interface {
	// Get returns the schema for an exact canonical name.
	// Returns ErrUnknownSchema if no schema is registered.
	Get(name string) (*domain.ListSchema, error)

	// Resolve maps free-form user input to a canonical list name.
	Resolve(input string) (string, error)

	// Names returns all canonical names.
	Names() []string
}
