package normalisers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/normalisers/followup"
	"github.com/custodia-labs/risklists/internal/normalisers/riskmitigations"
	"github.com/custodia-labs/risklists/internal/normalisers/riskregister"
)

// Ensure Registry implements the interface.
var _ driven.SchemaRegistry = (*Registry)(nil)

// Registry manages list schema registrations.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	byName  map[string]*domain.ListSchema
	byAlias map[string]string
}

// NewRegistry creates a registry holding the built-in list schemas.
func NewRegistry() *Registry {
	r := &Registry{
		byName:  make(map[string]*domain.ListSchema),
		byAlias: make(map[string]string),
	}
	// Built-in schemas are valid by construction.
	_ = r.Register(riskregister.Schema())
	_ = r.Register(riskmitigations.Schema())
	_ = r.Register(followup.Schema())
	return r
}

// Register adds a schema, replacing any schema with the same name.
func (r *Registry) Register(schema *domain.ListSchema) error {
	if schema == nil {
		return fmt.Errorf("%w: nil schema", domain.ErrInvalidInput)
	}
	if err := schema.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[schema.Name]; !exists {
		r.order = append(r.order, schema.Name)
	}
	r.byName[schema.Name] = schema
	r.byAlias[alias(schema.Name)] = schema.Name
	return nil
}

// Get returns the schema registered under the exact canonical name.
func (r *Registry) Get(name string) (*domain.ListSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSchema, name)
	}
	return schema, nil
}

// Resolve maps user input such as "riskregister" or " Risk register " to a
// canonical list name, ignoring case and whitespace.
func (r *Registry) Resolve(input string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byAlias[alias(input)]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownSchema, input)
	}
	return name, nil
}

// Names returns canonical list names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func alias(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
