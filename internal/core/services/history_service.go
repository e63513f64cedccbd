package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
	"github.com/custodia-labs/risklists/internal/core/ports/driving"
	"github.com/custodia-labs/risklists/internal/history"
	"github.com/custodia-labs/risklists/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// Messages returned to callers of Compare.
const (
	MsgMissingSelector = "Missing 'ID' or 'startdate'/'enddate' parameters"
	MsgNoDetails       = "No details found for provided parameters."
	MsgNoChanges       = "No fields have been modified."
)

// Summary completion settings.
const (
	DefaultSummaryDeployment = "gpt-4o"
	summaryMaxTokens         = 500
	summaryTemperature       = 0.7
)

const summarySystemPrompt = "You are an assistant that summarizes data changes in a SharePoint list item."

// HistoryService compares stored snapshots of list items.
type HistoryService struct {
	store driven.VersionStore

	model      driven.LanguageModel
	deployment string
}

// NewHistoryService creates a history service. A nil store disables it.
func NewHistoryService(store driven.VersionStore) *HistoryService {
	return &HistoryService{store: store}
}

// SetLanguageModel enables change summaries using the given deployment.
func (s *HistoryService) SetLanguageModel(model driven.LanguageModel, deployment string) {
	if deployment == "" {
		deployment = DefaultSummaryDeployment
	}
	s.model = model
	s.deployment = deployment
}

// Compare diffs the snapshots selected by q. ID may be left empty when both
// dates are given, which compares every item of the category in the window.
func (s *HistoryService) Compare(ctx context.Context, q domain.VersionQuery) (*domain.HistoryResult, error) {
	q, err := normaliseQuery(q)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: version store", domain.ErrNotConfigured)
	}

	versions, err := s.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, MsgNoDetails)
	}

	groups, err := history.Diff(versions)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return &domain.HistoryResult{Message: MsgNoChanges}, nil
	}

	result := &domain.HistoryResult{Groups: groups}
	if s.model != nil {
		summary, err := s.summarise(ctx, groups)
		if err != nil {
			logger.Warn("change summary failed: %v", err)
		} else {
			result.Summary = summary
		}
	}
	return result, nil
}

func normaliseQuery(q domain.VersionQuery) (domain.VersionQuery, error) {
	q.ID = strings.TrimSpace(q.ID)
	q.VersionCategory = strings.TrimSpace(q.VersionCategory)
	q.StartDate = withZone(q.StartDate)
	q.EndDate = withZone(q.EndDate)

	if q.VersionCategory == "" {
		return q, fmt.Errorf("%w: missing 'VersionCategory' parameter", domain.ErrInvalidInput)
	}
	if q.ID == "" && (q.StartDate == "" || q.EndDate == "") {
		return q, fmt.Errorf("%w: %s", domain.ErrInvalidInput, MsgMissingSelector)
	}
	return q, nil
}

// withZone marks a zoneless date-time as UTC. Plain dates are left alone.
func withZone(raw string) string {
	raw = strings.TrimSpace(raw)
	t := strings.IndexByte(raw, 'T')
	if t < 0 {
		return raw
	}
	clock := raw[t+1:]
	if strings.HasSuffix(clock, "Z") || strings.ContainsAny(clock, "+-") {
		return raw
	}
	return raw + "Z"
}

func (s *HistoryService) summarise(ctx context.Context, groups []domain.ChangeGroup) (string, error) {
	type change struct {
		Field         string       `json:"field"`
		PreviousValue domain.Value `json:"previous_value"`
		NewValue      domain.Value `json:"new_value"`
	}
	var changes []change
	for _, g := range groups {
		for _, c := range g.Changes {
			changes = append(changes, change{Field: c.Field, PreviousValue: c.OldValue, NewValue: c.NewValue})
		}
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return "", err
	}

	return s.model.Chat(ctx, driven.ChatRequest{
		Model:  s.deployment,
		Family: domain.ModelFamilyChat,
		System: summarySystemPrompt,
		User: "Summarize the following changes in plain language. Each entry lists the field, " +
			"its previous value and its new value:\n" + string(data),
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
}

// Import stores snapshots. Snapshots without an id are given one.
func (s *HistoryService) Import(ctx context.Context, versions []domain.Value) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("%w: version store", domain.ErrNotConfigured)
	}

	objs := make([]*domain.Object, 0, len(versions))
	for i, v := range versions {
		obj, ok := v.Object()
		if !ok {
			return 0, fmt.Errorf("%w: snapshot %d is %s, not an object", domain.ErrInvalidInput, i, v.Kind())
		}
		id, _ := obj.Get("id")
		if n, ok := id.Int(); ok {
			obj = obj.Clone()
			obj.Set("id", domain.StringValue(strconv.FormatInt(n, 10)))
		} else if text, _ := id.Text(); strings.TrimSpace(text) == "" {
			obj = obj.Clone()
			obj.Set("id", domain.StringValue(uuid.NewString()))
		}
		objs = append(objs, obj)
	}
	if len(objs) == 0 {
		return 0, nil
	}
	return s.store.Save(ctx, objs)
}
