package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxModelSlides bounds the number of records accepted from a model reply
	MaxModelSlides = 8

	// MaxFallbackSlides bounds the number of records the heuristic generator emits
	MaxFallbackSlides = 6
)

// SlideRecord is a single outline entry: a title and its ordered bullet points
type SlideRecord struct {
	// Title is the slide heading, never empty after trimming
	Title string `json:"title" yaml:"title"`

	// Content holds one entry per bullet; empty renders a title-only slide
	Content []string `json:"content" yaml:"content"`
}

// Validate ensures the record can be placed on a slide
func (r SlideRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("slide title cannot be empty")
	}
	return nil
}

// HasContent returns true if the record carries at least one bullet
func (r SlideRecord) HasContent() bool {
	return len(r.Content) > 0
}

// UnmarshalJSON accepts "content" as either an array of strings or a single string.
// Models regularly collapse one-bullet slides into a bare string.
func (r *SlideRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title   string          `json:"title"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Title = raw.Title
	r.Content = nil

	trimmed := strings.TrimSpace(string(raw.Content))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var single string
		if err := json.Unmarshal(raw.Content, &single); err != nil {
			return fmt.Errorf("decoding content string: %w", err)
		}
		if single != "" {
			r.Content = []string{single}
		}
		return nil
	}

	var items []string
	if err := json.Unmarshal(raw.Content, &items); err != nil {
		return fmt.Errorf("decoding content list: %w", err)
	}
	r.Content = items
	return nil
}

// Outline is the ordered list of slide records produced for one request
type Outline []SlideRecord

// Validate checks every record in the outline
func (o Outline) Validate() error {
	for i, record := range o {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

// Titles returns the slide titles in order
func (o Outline) Titles() []string {
	titles := make([]string, len(o))
	for i, record := range o {
		titles[i] = record.Title
	}
	return titles
}

// OutlineSource identifies which strategy produced an outline
type OutlineSource string

const (
	SourceModel    OutlineSource = "model"
	SourceFallback OutlineSource = "fallback"
	SourceFile     OutlineSource = "file"
)

// OutlineRequest carries the inputs of one outline generation
type OutlineRequest struct {
	Text       string
	Guidance   string
	Provider   string
	Credential Credential
}
