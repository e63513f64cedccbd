// Package riskregister declares the schema of the "Risk Register" list.
package riskregister

import "github.com/custodia-labs/risklists/internal/core/domain"

// Schema returns a fresh copy of the Risk Register schema.
func Schema() *domain.ListSchema {
	return &domain.ListSchema{
		Name: domain.ListRiskRegister,
		AllowedFields: []string{
			"id",
			"createdDateTime",
			"lastModifiedDateTime",
			"Title",
			"LinkTitleNoMenu",
			"LinkTitle",
			"EventType",
			"FinancialImpact",
			"Impact",
			"Likelihood",
			"RiskIssueRaisedByLookupId",
			"Status",
			"RiskId",
			"RiskIssueOwner",
			"ImpactScore",
			"LikelihoodScore",
			"Calculated_TargetDate",
			"RiskScore",
			"Level1LookupId",
			"Level2LookupId",
			"Level3LookupId",
			"ProgramRiskLookupId",
			"IsEsclated",
			"TargetDate",
			"Countries",
			"CategoryLookupId",
			"AreaLookupId",
			"GisoPhasesLookupId",
			"GISOMustHave",
			"GeographicalImpactLookupId",
			"Archive",
			"Owners",
			"RaisedByEmail",
			"Attachments",
			"Edit",
			"ItemChildCount",
			"FolderChildCount",
		},
		FieldTypes: map[string]domain.FieldType{
			"id":                         domain.FieldInteger,
			"createdDateTime":            domain.FieldDate,
			"lastModifiedDateTime":       domain.FieldDate,
			"Title":                      domain.FieldText,
			"LinkTitleNoMenu":            domain.FieldText,
			"LinkTitle":                  domain.FieldText,
			"EventType":                  domain.FieldText,
			"FinancialImpact":            domain.FieldDecimal,
			"Impact":                     domain.FieldText,
			"Likelihood":                 domain.FieldText,
			"RiskIssueRaisedByLookupId":  domain.FieldInteger,
			"Status":                     domain.FieldText,
			"RiskId":                     domain.FieldText,
			"RiskIssueOwner":             domain.FieldList,
			"ImpactScore":                domain.FieldInteger,
			"LikelihoodScore":            domain.FieldInteger,
			"Calculated_TargetDate":      domain.FieldDate,
			"RiskScore":                  domain.FieldInteger,
			"Level1LookupId":             domain.FieldInteger,
			"Level2LookupId":             domain.FieldInteger,
			"Level3LookupId":             domain.FieldInteger,
			"ProgramRiskLookupId":        domain.FieldInteger,
			"IsEsclated":                 domain.FieldBoolean,
			"TargetDate":                 domain.FieldText,
			"Countries":                  domain.FieldList,
			"CategoryLookupId":           domain.FieldInteger,
			"AreaLookupId":               domain.FieldInteger,
			"GisoPhasesLookupId":         domain.FieldInteger,
			"GISOMustHave":               domain.FieldBoolean,
			"GeographicalImpactLookupId": domain.FieldInteger,
			"Archive":                    domain.FieldBoolean,
			"Owners":                     domain.FieldText,
			"RaisedByEmail":              domain.FieldText,
			"Attachments":                domain.FieldBoolean,
			"Edit":                       domain.FieldText,
			"ItemChildCount":             domain.FieldInteger,
			"FolderChildCount":           domain.FieldInteger,
		},
	}
}
