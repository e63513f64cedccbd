package driven

import (
	"context"

	"github.com/custodia-labs/risklists/internal/core/domain"
)

// ChatRequest is a single-turn completion request.
type ChatRequest struct {
	// Model is the deployment name.
	Model  string
	Family domain.ModelFamily
	System string
	User   string
	// MaxTokens caps the completion; zero leaves the service default.
	MaxTokens   int
	Temperature float32
}

// LanguageModel runs completions against a hosted model.
type LanguageModel interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// Embedder turns texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
