package domain

// ModelFamily groups deployments that share a request shape.
type ModelFamily string

const (
	// ModelFamilyChat takes a system prompt and sampling temperature.
	ModelFamilyChat ModelFamily = "chat"
	// ModelFamilyReasoning takes no system role and no temperature.
	ModelFamilyReasoning ModelFamily = "reasoning"
)

// Known deployments per family.
var (
	ChatModels      = []string{"gpt-4o"}
	ReasoningModels = []string{"o1"}
)

// FamilyOf returns the family of a deployment name.
func FamilyOf(model string) (ModelFamily, error) {
	for _, m := range ChatModels {
		if m == model {
			return ModelFamilyChat, nil
		}
	}
	for _, m := range ReasoningModels {
		if m == model {
			return ModelFamilyReasoning, nil
		}
	}
	return "", ErrInvalidModel
}

// QueryTranslation is a natural language question turned into a store query.
type QueryTranslation struct {
	Model    string `json:"model"`
	Response string `json:"model response"`
}
