package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

const outlinePromptTemplate = `Convert the following text into a PowerPoint presentation structure.

Guidance: %s

Text: %s

Generate a JSON array of slides. Each slide should have:
- title: slide title
- content: array of bullet points or content

Example format:
[
    {
        "title": "Introduction",
        "content": ["Welcome", "Agenda", "Key Objectives"]
    },
    {
        "title": "Main Content",
        "content": ["Point 1", "Point 2", "Point 3"]
    }
]

Create 3-8 slides based on the content. Make titles concise and content clear.
Return only valid JSON, no other text.`

var (
	errNoCredential = errors.New("no model credential supplied")
	errEmptyOutline = errors.New("model returned no usable slides")
)

// outlineResult is the outcome of the model strategy before fallback is applied
type outlineResult struct {
	outline entities.Outline
	model   string
	err     error
}

// OutlineService generates slide outlines, preferring the language model
// and falling back to word chunking whenever the model path fails.
type OutlineService struct {
	factory         ports.ModelFactory
	normalizer      *Normalizer
	logger          ports.Logger
	timeout         time.Duration
	defaultGuidance string
}

// NewOutlineService creates a new outline service
func NewOutlineService(factory ports.ModelFactory, llm entities.LLMConfig, gen entities.GenerationConfig, logger ports.Logger) *OutlineService {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &OutlineService{
		factory:         factory,
		normalizer:      NewNormalizer(),
		logger:          logger,
		timeout:         llm.GetTimeout(),
		defaultGuidance: gen.GetDefaultGuidance(),
	}
}

// Generate always returns an outline. Model failures of any kind are logged
// without the credential and replaced by FallbackOutline.
func (s *OutlineService) Generate(ctx context.Context, req entities.OutlineRequest) (entities.Outline, entities.OutlineSource) {
	if strings.TrimSpace(req.Text) == "" {
		return entities.Outline{}, entities.SourceFallback
	}

	result := s.fromModel(ctx, req)
	if result.err != nil {
		s.logger.Warn("model outline unavailable, using fallback: %s", req.Credential.Scrub(result.err.Error()))
		return FallbackOutline(req.Text), entities.SourceFallback
	}

	s.logger.Debug("model %s proposed %d slides", result.model, len(result.outline))
	return result.outline, entities.SourceModel
}

func (s *OutlineService) fromModel(ctx context.Context, req entities.OutlineRequest) outlineResult {
	if req.Credential.IsEmpty() {
		return outlineResult{err: errNoCredential}
	}

	model, err := s.factory.New(ctx, req.Provider, req.Credential)
	if err != nil {
		return outlineResult{err: fmt.Errorf("creating model client: %w", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := model.Complete(callCtx, BuildOutlinePrompt(req.Text, s.guidance(req.Guidance)))
	if err != nil {
		return outlineResult{model: model.Name(), err: fmt.Errorf("calling %s: %w", model.Name(), err)}
	}

	outline, err := ParseOutline(raw)
	if err != nil {
		return outlineResult{model: model.Name(), err: err}
	}

	outline = s.normalizer.Outline(outline)
	if len(outline) == 0 {
		return outlineResult{model: model.Name(), err: errEmptyOutline}
	}

	return outlineResult{outline: outline, model: model.Name()}
}

func (s *OutlineService) guidance(requested string) string {
	if g := strings.TrimSpace(requested); g != "" {
		return g
	}
	return s.defaultGuidance
}

// BuildOutlinePrompt embeds text and guidance in the outline instruction
func BuildOutlinePrompt(text, guidance string) string {
	return fmt.Sprintf(outlinePromptTemplate, guidance, text)
}

// ParseOutline decodes a model reply, tolerating a surrounding markdown code fence
func ParseOutline(raw string) (entities.Outline, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return nil, errors.New("empty model reply")
	}

	var outline entities.Outline
	if err := json.Unmarshal([]byte(body), &outline); err != nil {
		return nil, fmt.Errorf("decoding model reply: %w", err)
	}
	return outline, nil
}

// StripCodeFence removes a leading ```json (or bare ```) line and a trailing ```
func StripCodeFence(raw string) string {
	content := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(content, "```json"):
		content = content[len("```json"):]
	case strings.HasPrefix(content, "```"):
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

var _ ports.OutlineGenerator = (*OutlineService)(nil)
