package lists

import (
	"fmt"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/normalisers/fields"
)

// Cleaner cleans list payloads using schemas from a registry.
type Cleaner struct {
	schemas driven.SchemaRegistry
}

// NewCleaner creates a cleaner backed by the given schemas.
func NewCleaner(schemas driven.SchemaRegistry) *Cleaner {
	return &Cleaner{schemas: schemas}
}

// CleanList cleans items with the schema registered for listType.
// Returns ErrUnknownSchema if listType has no schema.
func (c *Cleaner) CleanList(items []domain.Value, listType string) ([]*domain.Object, error) {
	schema, err := c.schemas.Get(listType)
	if err != nil {
		return nil, err
	}
	return Clean(items, schema)
}

// Clean cleans keys, flattens, filters and coerces every item.
// Items that are not objects fail the whole list.
func Clean(items []domain.Value, schema *domain.ListSchema) ([]*domain.Object, error) {
	out := make([]*domain.Object, 0, len(items))
	for i, item := range items {
		cleaned := fields.CleanKeys(item)
		obj, ok := cleaned.Object()
		if !ok {
			return nil, fmt.Errorf("%w: list %q item %d is %s, not an object",
				domain.ErrInvalidInput, schema.Name, i, cleaned.Kind())
		}
		flat := Flatten(obj, schema.AllowedFields)
		out = append(out, fields.NormalizeObject(flat, schema.FieldTypes))
	}
	return out, nil
}
