package services

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

func wordsText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i+1)
	}
	return strings.Join(words, " ")
}

func TestFallbackOutline(t *testing.T) {
	t.Run("200 words gives four slides of fifty", func(t *testing.T) {
		outline := FallbackOutline(wordsText(200))

		require.Len(t, outline, 4)
		for _, record := range outline {
			require.Len(t, record.Content, 1)
			assert.Len(t, strings.Fields(record.Content[0]), 50)
		}
		assert.Equal(t, "word1 word2 word3 word4 word5...", outline[0].Title)
		assert.Equal(t, "word151 word152 word153 word154 word155...", outline[3].Title)
	})

	t.Run("short text gives one slide with all words", func(t *testing.T) {
		outline := FallbackOutline("alpha beta\tgamma\n\ndelta")

		require.Len(t, outline, 1)
		assert.Equal(t, "alpha beta gamma delta...", outline[0].Title)
		assert.Equal(t, []string{"alpha beta gamma delta"}, outline[0].Content)
	})

	t.Run("blank text gives empty outline", func(t *testing.T) {
		assert.Empty(t, FallbackOutline(""))
		assert.Empty(t, FallbackOutline(" \n\t "))
	})

	t.Run("chunk size law", func(t *testing.T) {
		for _, w := range []int{1, 49, 50, 51, 199, 200, 201, 203, 299, 1000, 4001} {
			chunk := w / 4
			if chunk < 50 {
				chunk = 50
			}
			want := (w + chunk - 1) / chunk
			if want > entities.MaxFallbackSlides {
				want = entities.MaxFallbackSlides
			}

			outline := FallbackOutline(wordsText(w))
			assert.Len(t, outline, want, "words=%d", w)
			assert.Len(t, strings.Fields(outline[0].Content[0]), min(chunk, w), "words=%d", w)
		}
	})

	t.Run("long titles are truncated to fifty runes", func(t *testing.T) {
		text := strings.Repeat("extraordinarily ", 5) + "tail"
		outline := FallbackOutline(text)

		require.Len(t, outline, 1)
		title := outline[0].Title
		assert.Equal(t, 50, utf8.RuneCountInString(title))
		assert.True(t, strings.HasSuffix(title, "..."))
		assert.Equal(t, "extraordinarily extraordinarily extraordinarily...", title)
	})

	t.Run("truncation counts runes not bytes", func(t *testing.T) {
		text := strings.Repeat("ééééééééééé ", 5)
		title := FallbackOutline(text)[0].Title

		assert.True(t, utf8.ValidString(title))
		assert.LessOrEqual(t, utf8.RuneCountInString(title), 50)
		assert.True(t, strings.HasSuffix(title, "..."))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := wordsText(777)
		assert.Equal(t, FallbackOutline(text), FallbackOutline(text))
	})

	t.Run("every record is valid", func(t *testing.T) {
		assert.NoError(t, FallbackOutline(wordsText(321)).Validate())
	})
}
