package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

const testKey = "sk-test-0123456789"

func newTestOutlineService(factory *MockModelFactory, logger *recordingLogger) *OutlineService {
	return NewOutlineService(factory, entities.LLMConfig{}, entities.GenerationConfig{}, logger)
}

func outlineRequest(text string) entities.OutlineRequest {
	return entities.OutlineRequest{
		Text:       text,
		Provider:   "openai",
		Credential: entities.NewCredential(testKey),
	}
}

func hasDeadline(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
}

func TestOutlineService_Generate(t *testing.T) {
	t.Run("uses model reply wrapped in a json fence", func(t *testing.T) {
		model := &MockCompletionModel{}
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, "openai", entities.NewCredential(testKey)).Return(model, nil)
		model.On("Complete", mock.MatchedBy(hasDeadline), mock.Anything).Return(
			"```json\n[{\"title\":\"Intro\",\"content\":[\"A\",\"if a<b\"]},{\"title\":\"Summary\",\"content\":[]}]\n```", nil)

		service := newTestOutlineService(factory, &recordingLogger{})
		outline, source := service.Generate(context.Background(), outlineRequest("Some text about things"))

		assert.Equal(t, entities.SourceModel, source)
		require.Len(t, outline, 2)
		assert.Equal(t, entities.SlideRecord{Title: "Intro", Content: []string{"A", "if a<b"}}, outline[0])
		assert.Equal(t, "Summary", outline[1].Title)
		assert.False(t, outline[1].HasContent())
		factory.AssertExpectations(t)
		model.AssertExpectations(t)
	})

	t.Run("model failure on 200 words falls back to four slides", func(t *testing.T) {
		model := &MockCompletionModel{}
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, mock.Anything, mock.Anything).Return(model, nil)
		model.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("401 Unauthorized: invalid key %s", testKey))

		logger := &recordingLogger{}
		service := newTestOutlineService(factory, logger)
		outline, source := service.Generate(context.Background(), outlineRequest(wordsText(200)))

		assert.Equal(t, entities.SourceFallback, source)
		assert.Len(t, outline, 4)

		require.NotEmpty(t, logger.lines)
		for _, line := range logger.lines {
			assert.NotContains(t, line, testKey)
		}
		assert.Contains(t, strings.Join(logger.lines, "\n"), "[REDACTED]")
	})

	t.Run("unparsable reply falls back", func(t *testing.T) {
		model := &MockCompletionModel{}
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, mock.Anything, mock.Anything).Return(model, nil)
		model.On("Complete", mock.Anything, mock.Anything).Return("Sure! Here are your slides: Intro, Body", nil)

		service := newTestOutlineService(factory, &recordingLogger{})
		text := wordsText(60)
		outline, source := service.Generate(context.Background(), outlineRequest(text))

		assert.Equal(t, entities.SourceFallback, source)
		assert.Equal(t, FallbackOutline(text), outline)
	})

	t.Run("empty array falls back", func(t *testing.T) {
		model := &MockCompletionModel{}
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, mock.Anything, mock.Anything).Return(model, nil)
		model.On("Complete", mock.Anything, mock.Anything).Return(`[{"title":"  ","content":["x"]}]`, nil)

		service := newTestOutlineService(factory, &recordingLogger{})
		_, source := service.Generate(context.Background(), outlineRequest("a b c"))

		assert.Equal(t, entities.SourceFallback, source)
	})

	t.Run("factory error falls back", func(t *testing.T) {
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("no client"))

		service := newTestOutlineService(factory, &recordingLogger{})
		outline, source := service.Generate(context.Background(), outlineRequest("one two three"))

		assert.Equal(t, entities.SourceFallback, source)
		require.Len(t, outline, 1)
	})

	t.Run("missing credential skips the model", func(t *testing.T) {
		factory := &MockModelFactory{}

		service := newTestOutlineService(factory, &recordingLogger{})
		req := outlineRequest("one two three")
		req.Credential = entities.NewCredential("")
		_, source := service.Generate(context.Background(), req)

		assert.Equal(t, entities.SourceFallback, source)
		factory.AssertNotCalled(t, "New", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank text gives empty outline", func(t *testing.T) {
		factory := &MockModelFactory{}

		service := newTestOutlineService(factory, &recordingLogger{})
		outline, _ := service.Generate(context.Background(), outlineRequest("   "))

		assert.Empty(t, outline)
		factory.AssertNotCalled(t, "New", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("model path caps at eight slides", func(t *testing.T) {
		records := make([]string, 10)
		for i := range records {
			records[i] = fmt.Sprintf(`{"title":"S%d","content":"only"}`, i+1)
		}
		model := &MockCompletionModel{}
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, mock.Anything, mock.Anything).Return(model, nil)
		model.On("Complete", mock.Anything, mock.Anything).Return("["+strings.Join(records, ",")+"]", nil)

		service := newTestOutlineService(factory, &recordingLogger{})
		outline, source := service.Generate(context.Background(), outlineRequest("text"))

		assert.Equal(t, entities.SourceModel, source)
		require.Len(t, outline, entities.MaxModelSlides)
		assert.Equal(t, []string{"only"}, outline[0].Content)
	})

	t.Run("prompt carries text and default guidance", func(t *testing.T) {
		model := &MockCompletionModel{}
		factory := &MockModelFactory{}
		factory.On("New", mock.Anything, mock.Anything, mock.Anything).Return(model, nil)
		model.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "Guidance: create a professional, well-structured presentation") &&
				strings.Contains(prompt, "Text: the quarterly numbers") &&
				!strings.Contains(prompt, testKey)
		})).Return(`[{"title":"Q1","content":["up"]}]`, nil)

		service := newTestOutlineService(factory, &recordingLogger{})
		_, source := service.Generate(context.Background(), outlineRequest("the quarterly numbers"))

		assert.Equal(t, entities.SourceModel, source)
		model.AssertExpectations(t)
	})
}

func TestBuildOutlinePrompt(t *testing.T) {
	prompt := BuildOutlinePrompt("body text", "make it a sales pitch")

	assert.Contains(t, prompt, "Guidance: make it a sales pitch")
	assert.Contains(t, prompt, "Text: body text")
	assert.Contains(t, prompt, "Create 3-8 slides")
	assert.Contains(t, prompt, "Return only valid JSON")
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"[]":                "[]",
		"```json\n[1]\n```": "[1]",
		"```\n[2]\n```":     "[2]",
		"  ```json[3]```  ": "[3]",
		"[4]\n```":          "[4]",
		"```json\n[5]":      "[5]",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFence(in), "input %q", in)
	}
}

func TestParseOutline(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		outline, err := ParseOutline(`[{"title":"A","content":["x","y"]}]`)
		require.NoError(t, err)
		assert.Equal(t, entities.Outline{{Title: "A", Content: []string{"x", "y"}}}, outline)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseOutline("```json\n```")
		assert.Error(t, err)
	})

	t.Run("object instead of array", func(t *testing.T) {
		_, err := ParseOutline(`{"title":"A"}`)
		assert.Error(t, err)
	})
}
