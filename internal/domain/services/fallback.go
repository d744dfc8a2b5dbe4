package services

import (
	"strings"
	"unicode/utf8"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

const (
	fallbackMinChunkWords = 50
	fallbackTitleWords    = 5
	fallbackTitleMaxRunes = 50
	ellipsis              = "..."
)

// FallbackOutline splits text into word chunks without calling a model.
// It is a pure function of text: chunk size is max(50, words/4), each chunk
// becomes one slide, and at most MaxFallbackSlides slides are returned.
// Blank text yields an empty outline.
func FallbackOutline(text string) entities.Outline {
	words := strings.Fields(text)
	if len(words) == 0 {
		return entities.Outline{}
	}

	chunkSize := len(words) / 4
	if chunkSize < fallbackMinChunkWords {
		chunkSize = fallbackMinChunkWords
	}

	outline := make(entities.Outline, 0, entities.MaxFallbackSlides)
	for start := 0; start < len(words) && len(outline) < entities.MaxFallbackSlides; start += chunkSize {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := words[start:end]

		outline = append(outline, entities.SlideRecord{
			Title:   fallbackTitle(chunk),
			Content: []string{strings.Join(chunk, " ")},
		})
	}

	return outline
}

// fallbackTitle joins the first words of a chunk with an ellipsis, bounded to 50 runes
func fallbackTitle(chunk []string) string {
	n := fallbackTitleWords
	if len(chunk) < n {
		n = len(chunk)
	}

	title := strings.Join(chunk[:n], " ") + ellipsis
	if utf8.RuneCountInString(title) <= fallbackTitleMaxRunes {
		return title
	}

	runes := []rune(title)
	return string(runes[:fallbackTitleMaxRunes-len(ellipsis)]) + ellipsis
}
