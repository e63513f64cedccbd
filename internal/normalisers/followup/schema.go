// Package followup declares the schema of the "Follow up" list.
package followup

import "github.com/custodia-labs/risklists/internal/core/domain"

// Schema returns a fresh copy of the Follow up schema.
func Schema() *domain.ListSchema {
	return &domain.ListSchema{
		Name: domain.ListFollowUp,
		AllowedFields: []string{
			"id",
			"createdDateTime",
			"lastModifiedDateTime",
			"Title",
			"Level1LookupId",
			"Level2",
			"Owner",
			"DueDate",
			"Comments",
			"SourceEvent",
			"Status",
			"Level3LookupId",
			"Archive",
			"ReasonforArchive",
			"Modified",
			"Created",
			"AuthorLookupId",
			"EditorLookupId",
			"Attachments",
			"Edit",
			"LinkTitleNoMenu",
			"LinkTitle",
			"ItemChildCount",
			"FolderChildCount",
		},
		FieldTypes: map[string]domain.FieldType{
			"id":                   domain.FieldInteger,
			"createdDateTime":      domain.FieldDate,
			"lastModifiedDateTime": domain.FieldDate,
			"Title":                domain.FieldText,
			"Level1LookupId":       domain.FieldInteger,
			// lookup entries: [{LookupId, LookupValue}]
			"Level2": domain.FieldList,
			// person entries: [{LookupId, LookupValue, Email}]
			"Owner":            domain.FieldList,
			"DueDate":          domain.FieldDate,
			"Comments":         domain.FieldText,
			"SourceEvent":      domain.FieldText,
			"Status":           domain.FieldText,
			"Level3LookupId":   domain.FieldInteger,
			"Archive":          domain.FieldBoolean,
			"ReasonforArchive": domain.FieldText,
			"Modified":         domain.FieldDate,
			"Created":          domain.FieldDate,
			"AuthorLookupId":   domain.FieldInteger,
			"EditorLookupId":   domain.FieldInteger,
			"Attachments":      domain.FieldBoolean,
			"Edit":             domain.FieldText,
			"LinkTitleNoMenu":  domain.FieldText,
			"LinkTitle":        domain.FieldText,
			"ItemChildCount":   domain.FieldInteger,
			"FolderChildCount": domain.FieldInteger,
		},
	}
}
