package builders

import (
	"fmt"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// OutlineBuilder helps build outlines for testing
type OutlineBuilder struct {
	outline entities.Outline
}

// NewOutlineBuilder creates an empty outline builder
func NewOutlineBuilder() *OutlineBuilder {
	return &OutlineBuilder{outline: entities.Outline{}}
}

// WithSlide appends a record
func (b *OutlineBuilder) WithSlide(title string, content ...string) *OutlineBuilder {
	b.outline = append(b.outline, entities.SlideRecord{Title: title, Content: content})
	return b
}

// WithSlideCount appends count records titled "Slide N" with one bullet each
func (b *OutlineBuilder) WithSlideCount(count int) *OutlineBuilder {
	start := len(b.outline)
	for i := 1; i <= count; i++ {
		n := start + i
		b.outline = append(b.outline, entities.SlideRecord{
			Title:   fmt.Sprintf("Slide %d", n),
			Content: []string{fmt.Sprintf("Point %d", n)},
		})
	}
	return b
}

// Build returns the outline
func (b *OutlineBuilder) Build() entities.Outline {
	return b.outline
}

// RoundTripOutline is the Intro/Summary outline used across assembler tests
func RoundTripOutline() entities.Outline {
	return NewOutlineBuilder().
		WithSlide("Intro", "A", "B").
		WithSlide("Summary").
		Build()
}
