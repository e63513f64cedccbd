package domain

import (
	"fmt"
	"strings"
)

// Canonical SharePoint list names handled by the cleaning pipeline.
const (
	ListRiskRegister    = "Risk Register"
	ListRiskMitigations = "Risk Mitigations"
	ListFollowUp        = "Follow up"
)

// CompatibleLists is the primary/secondary pair that is merged after cleaning.
var CompatibleLists = [2]string{ListRiskRegister, ListRiskMitigations}

// IsCompatible reports whether the list takes part in the merged dataset.
func IsCompatible(list string) bool {
	return list == CompatibleLists[0] || list == CompatibleLists[1]
}

// ListSchema declares which fields of a list are kept and how they are typed.
type ListSchema struct {
	// Name is the canonical list name.
	Name string
	// AllowedFields is the projection applied to every record, in output order.
	AllowedFields []string
	// FieldTypes maps a field to its semantic type.
	FieldTypes map[string]FieldType
}

// Allows reports whether the field survives filtering.
func (s *ListSchema) Allows(field string) bool {
	for _, f := range s.AllowedFields {
		if f == field {
			return true
		}
	}
	return false
}

// TypeOf returns the declared type of a field.
func (s *ListSchema) TypeOf(field string) (FieldType, bool) {
	t, ok := s.FieldTypes[field]
	return t, ok
}

// Validate checks the schema is usable.
func (s *ListSchema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: schema name is empty", ErrInvalidInput)
	}
	if len(s.AllowedFields) == 0 {
		return fmt.Errorf("%w: schema %q allows no fields", ErrInvalidInput, s.Name)
	}
	for field, t := range s.FieldTypes {
		if !t.Valid() {
			return fmt.Errorf("%w: schema %q field %q has type %q", ErrInvalidInput, s.Name, field, t)
		}
	}
	return nil
}
