package services

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// Normalizer tidies model-produced records without interpreting their text.
// Slide text is XML-escaped at render time, so characters like < and & are kept as written.
type Normalizer struct{}

// NewNormalizer creates a normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Text trims surrounding whitespace and normalizes to NFC
func (n *Normalizer) Text(in string) string {
	return strings.TrimSpace(norm.NFC.String(in))
}

// Outline normalizes every record, drops records without a title and blank bullets,
// and bounds the result to MaxModelSlides.
func (n *Normalizer) Outline(in entities.Outline) entities.Outline {
	out := make(entities.Outline, 0, len(in))
	for _, record := range in {
		title := n.Text(record.Title)
		if title == "" {
			continue
		}

		var content []string
		for _, entry := range record.Content {
			if clean := n.Text(entry); clean != "" {
				content = append(content, clean)
			}
		}

		out = append(out, entities.SlideRecord{Title: title, Content: content})
		if len(out) == entities.MaxModelSlides {
			break
		}
	}
	return out
}
