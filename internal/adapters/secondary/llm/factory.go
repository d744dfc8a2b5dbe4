package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// Builder creates a completion model for one provider
type Builder func(ctx context.Context, cfg entities.LLMConfig, credential entities.Credential) (ports.CompletionModel, error)

// Factory resolves provider names to completion models
type Factory struct {
	cfg      entities.LLMConfig
	logger   ports.Logger
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewFactory creates a factory with the openai and gemini providers registered
func NewFactory(cfg entities.LLMConfig, logger ports.Logger) *Factory {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Factory{
		cfg:    cfg,
		logger: logger,
		builders: map[string]Builder{
			entities.ProviderOpenAI: NewOpenAIModel,
			entities.ProviderGemini: NewGeminiModel,
		},
	}
}

// Register adds or replaces a provider
func (f *Factory) Register(name string, builder Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[strings.ToLower(name)] = builder
}

// Providers returns the registered provider names
func (f *Factory) Providers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.builders))
	for name := range f.builders {
		names = append(names, name)
	}
	return names
}

// Resolve maps a requested provider to a registered one.
// Empty or unknown names resolve to the configured default.
func (f *Factory) Resolve(provider string) string {
	name := strings.ToLower(strings.TrimSpace(provider))

	f.mu.RLock()
	_, ok := f.builders[name]
	f.mu.RUnlock()

	if ok {
		return name
	}
	if name != "" {
		f.logger.Debug("unknown provider %q, using %s", provider, f.cfg.GetDefaultProvider())
	}
	return f.cfg.GetDefaultProvider()
}

// New builds a completion model for provider
func (f *Factory) New(ctx context.Context, provider string, credential entities.Credential) (ports.CompletionModel, error) {
	name := f.Resolve(provider)

	f.mu.RLock()
	builder, ok := f.builders[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no builder registered for provider %s", name)
	}

	model, err := builder(ctx, f.cfg, credential)
	if err != nil {
		return nil, entities.NewModelError("building "+name+" client", fmt.Errorf("%s", credential.Scrub(err.Error())))
	}
	return model, nil
}

var _ ports.ModelFactory = (*Factory)(nil)
