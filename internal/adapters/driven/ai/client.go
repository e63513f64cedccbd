// Package ai talks to Azure OpenAI deployments for query translation,
// change summaries and embeddings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.LanguageModel = (*Client)(nil)
	_ driven.Embedder      = (*Client)(nil)
)

// ErrEmptyCompletion indicates the model returned no choices.
var ErrEmptyCompletion = errors.New("ai: empty completion")

// Config points at an Azure OpenAI resource.
type Config struct {
	Endpoint            string
	APIKey              string
	ChatAPIVersion      string
	ReasoningAPIVersion string
	// EmbeddingDeployment enables Embed when set.
	EmbeddingDeployment string
}

// Client holds one SDK client per API version.
type Client struct {
	chat      *openai.Client
	reasoning *openai.Client
	embedding string
}

// New creates a client for the resource.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: ai endpoint and api key are required", domain.ErrNotConfigured)
	}
	return &Client{
		chat:      newSDKClient(cfg, cfg.ChatAPIVersion),
		reasoning: newSDKClient(cfg, cfg.ReasoningAPIVersion),
		embedding: cfg.EmbeddingDeployment,
	}, nil
}

func newSDKClient(cfg Config, apiVersion string) *openai.Client {
	c := openai.DefaultAzureConfig(cfg.APIKey, strings.TrimRight(cfg.Endpoint, "/"))
	if apiVersion != "" {
		c.APIVersion = apiVersion
	}
	// Deployment names are used verbatim.
	c.AzureModelMapperFunc = func(model string) string { return model }
	return openai.NewClientWithConfig(c)
}

// Chat runs a single-turn completion. Reasoning deployments take no system
// role or temperature, so the system prompt is folded into the user turn.
func (c *Client) Chat(ctx context.Context, req driven.ChatRequest) (string, error) {
	var (
		sdk     = c.chat
		request = openai.ChatCompletionRequest{Model: req.Model}
	)

	switch req.Family {
	case domain.ModelFamilyReasoning:
		sdk = c.reasoning
		request.Messages = []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: joinPrompt(req.System, req.User)},
		}
		request.MaxCompletionTokens = req.MaxTokens
	default:
		if req.System != "" {
			request.Messages = append(request.Messages, openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleSystem, Content: req.System,
			})
		}
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser, Content: req.User,
		})
		request.MaxTokens = req.MaxTokens
		request.Temperature = req.Temperature
	}

	resp, err := sdk.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion %s: %w", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.embedding == "" {
		return nil, fmt.Errorf("%w: no embedding deployment", domain.ErrNotConfigured)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.chat.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embedding),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embeddings: index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("embeddings: missing vector %d", i)
		}
	}
	return out, nil
}

func joinPrompt(system, user string) string {
	if system == "" {
		return user
	}
	return system + "\n\n" + user
}
