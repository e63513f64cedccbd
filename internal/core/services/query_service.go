package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/core/ports/driving"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultQueryModel is used when no deployment is named.
const DefaultQueryModel = "gpt-4o"

const (
	queryTemperature = 0.7
	queryMaxTokens   = 800
)

// versionHistoryPrompt describes the snapshot container to the model.
const versionHistoryPrompt = `You translate questions about SharePoint list history into a single SQL query
for a document database container named VersionHistory. Each document has this shape:

{
  "id": string,                    // unique snapshot id
  "list_title": string,            // SharePoint list title
  "item_id": string,               // list item id
  "version_label": string,         // e.g. "3.0"
  "created": string,               // ISO-8601 time the version was created
  "modified_by": {"id": string, "display_name": string, "email": string},
  "fields": { ... },               // list item columns, e.g. Title, Status, Modified, ID
  "is_current_version": boolean,
  "timestamp": number,
  "partition_key": string,
  "VersionCategory": string        // list the snapshot belongs to, e.g. "Risk Register"
}

Use the alias c, as in SELECT * FROM c WHERE c.VersionCategory = 'Risk Register'.
Return only the SQL statement. Do not add explanations, prose or code fences.`

// QueryService turns natural language questions into store queries.
type QueryService struct {
	model driven.LanguageModel
}

// NewQueryService creates a query service. A nil model disables it.
func NewQueryService(model driven.LanguageModel) *QueryService {
	return &QueryService{model: model}
}

// Translate asks the named deployment for a query answering input.
func (s *QueryService) Translate(ctx context.Context, input, model string) (*domain.QueryTranslation, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: missing 'user_input' parameter", domain.ErrInvalidInput)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultQueryModel
	}
	family, err := domain.FamilyOf(model)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, model)
	}
	if s.model == nil {
		return nil, fmt.Errorf("%w: language model", domain.ErrNotConfigured)
	}

	req := driven.ChatRequest{
		Model:     model,
		Family:    family,
		System:    versionHistoryPrompt,
		User:      input,
		MaxTokens: queryMaxTokens,
	}
	if family == domain.ModelFamilyChat {
		req.Temperature = queryTemperature
	}

	response, err := s.model.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("translate query: %w", err)
	}
	return &domain.QueryTranslation{Model: model, Response: stripFences(response)}, nil
}

// stripFences removes a markdown code fence around the statement.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
