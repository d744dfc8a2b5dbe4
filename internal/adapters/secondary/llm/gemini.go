package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// contentGenerator is the part of genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiModel completes prompts through the Gemini API
type GeminiModel struct {
	models      contentGenerator
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiModel creates a genai client for the request credential
func NewGeminiModel(ctx context.Context, cfg entities.LLMConfig, credential entities.Credential) (ports.CompletionModel, error) {
	if credential.IsEmpty() {
		return nil, errors.New("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential.Reveal(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiModel{
		models:      client.Models,
		model:       cfg.GetGeminiModel(),
		temperature: cfg.GetTemperature(),
		maxTokens:   int32(cfg.GetMaxTokens()),
	}, nil
}

// Complete sends prompt as a single user turn
func (m *GeminiModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.temperature),
		MaxOutputTokens: m.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("gemini: empty reply")
	}
	return resp.Text(), nil
}

// Name returns provider/model
func (m *GeminiModel) Name() string {
	return entities.ProviderGemini + "/" + m.model
}
