package domain

// UploadResult reports what a list upload wrote.
type UploadResult struct {
	RunID        string         `json:"run_id"`
	Lists        []string       `json:"lists"`
	Blobs        []string       `json:"blobs"`
	RecordCounts map[string]int `json:"record_counts"`
	// MergeWarning is set when the merge was abandoned.
	MergeWarning string `json:"merge_warning,omitempty"`
}
