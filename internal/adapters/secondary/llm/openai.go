package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// messageGenerator is the part of an eino chat model used here
type messageGenerator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// OpenAIModel completes prompts through an OpenAI-compatible chat endpoint
type OpenAIModel struct {
	chat  messageGenerator
	model string
}

// NewOpenAIModel creates an eino chat model for the request credential
func NewOpenAIModel(ctx context.Context, cfg entities.LLMConfig, credential entities.Credential) (ports.CompletionModel, error) {
	if credential.IsEmpty() {
		return nil, errors.New("openai: api key is required")
	}

	maxTokens := cfg.GetMaxTokens()
	temperature := cfg.GetTemperature()

	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      credential.Reveal(),
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.GetOpenAIModel(),
		Timeout:     cfg.GetTimeout(),
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("creating openai chat model: %w", err)
	}

	return &OpenAIModel{chat: chat, model: cfg.GetOpenAIModel()}, nil
}

// Complete sends prompt as a single user message
func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	reply, err := m.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if reply == nil {
		return "", errors.New("openai: empty reply")
	}
	return reply.Content, nil
}

// Name returns provider/model
func (m *OpenAIModel) Name() string {
	return entities.ProviderOpenAI + "/" + m.model
}
