package domain

// VersionQuery selects stored snapshots of one list item.
type VersionQuery struct {
	// ID is the item identity (fields.ID).
	ID string `json:"ID"`
	// VersionCategory is the list the snapshots belong to.
	VersionCategory string `json:"VersionCategory"`
	// StartDate filters on created, inclusive.
	StartDate string `json:"startdate,omitempty"`
	// EndDate filters on fields.Modified, inclusive.
	EndDate string `json:"enddate,omitempty"`
}

// FieldChange is a single field delta between two versions.
type FieldChange struct {
	Field    string `json:"Field"`
	OldValue Value  `json:"Old_value"`
	NewValue Value  `json:"New_value"`
}

// ChangeGroup collects changes made at one time, by one author, to one item.
type ChangeGroup struct {
	ModifiedDate string        `json:"ModifiedDate"`
	ModifiedBy   string        `json:"ModifiedBy"`
	ID           Value         `json:"ID"`
	Changes      []FieldChange `json:"Changes"`
}

// HistoryResult is the outcome of comparing stored versions.
type HistoryResult struct {
	Groups  []ChangeGroup `json:"changes,omitempty"`
	Message string        `json:"message,omitempty"`
	Summary string        `json:"summary,omitempty"`
}
