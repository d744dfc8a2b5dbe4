package ports

import (
	"context"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// CompletionModel sends a single-turn prompt to a language model
type CompletionModel interface {
	// Complete returns the raw text of the model's reply
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider and model, e.g. "openai/gpt-3.5-turbo"
	Name() string
}

// ModelFactory builds a completion model for a provider.
// Unknown provider names resolve to the configured default provider.
type ModelFactory interface {
	New(ctx context.Context, provider string, credential entities.Credential) (CompletionModel, error)
}
