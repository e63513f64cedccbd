// Package riskmitigations declares the schema of the "Risk Mitigations" list.
// Each mitigation points at its risk through RiskId.
package riskmitigations

import "github.com/custodia-labs/risklists/internal/core/domain"

// Schema returns a fresh copy of the Risk Mitigations schema.
func Schema() *domain.ListSchema {
	return &domain.ListSchema{
		Name: domain.ListRiskMitigations,
		AllowedFields: []string{
			"id",
			"createdDateTime",
			"lastModifiedDateTime",
			"ResponsePlan",
			"ResponseOwner",
			"RiskId",
			"RevisedResponseDate",
			"ResponseDate",
			"ResponseOwnerEmail",
			"AuthorLookupId",
			"EditorLookupId",
		},
		FieldTypes: map[string]domain.FieldType{
			"id":                   domain.FieldInteger,
			"createdDateTime":      domain.FieldDate,
			"lastModifiedDateTime": domain.FieldDate,
			"ResponsePlan":         domain.FieldText,
			"ResponseOwner":        domain.FieldList,
			"RiskId":               domain.FieldInteger,
			"RevisedResponseDate":  domain.FieldDate,
			"ResponseDate":         domain.FieldDate,
			"ResponseOwnerEmail":   domain.FieldText,
			"AuthorLookupId":       domain.FieldInteger,
			"EditorLookupId":       domain.FieldInteger,
		},
	}
}
