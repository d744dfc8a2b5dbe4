package pptx

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/test/builders"
)

func assembleDeck(t *testing.T, tb *builders.TemplateBuilder, outline entities.Outline) (*entities.DeckSummary, *builders.Deck) {
	t.Helper()
	dir := t.TempDir()
	templatePath := tb.WriteFile(t, dir, "template.pptx")
	outputPath := filepath.Join(dir, "output.pptx")

	summary, err := NewAssembler("Generated Presentation", nil).Assemble(context.Background(), outline, templatePath, outputPath)
	require.NoError(t, err)

	deck, err := builders.ReadDeckFile(outputPath)
	require.NoError(t, err)
	return summary, deck
}

func fileHash(t *testing.T, path string) [32]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return sha256.Sum256(data)
}

func TestAssembler_Assemble(t *testing.T) {
	t.Run("round trip keeps cover and appends outline", func(t *testing.T) {
		summary, deck := assembleDeck(t, builders.NewTemplateBuilder(), builders.RoundTripOutline())

		require.Len(t, deck.Slides, 3)
		assert.Equal(t, "Cover", deck.Slides[0].Title)

		assert.Equal(t, "Intro", deck.Slides[1].Title)
		assert.Equal(t, []string{"A", "B"}, deck.Slides[1].Body)
		assert.Equal(t, "ppt/slideLayouts/slideLayout2.xml", deck.Slides[1].Layout)

		assert.Equal(t, "Summary", deck.Slides[2].Title)
		assert.Empty(t, deck.Slides[2].Body)

		assert.Equal(t, 3, summary.SlideCount)
		assert.True(t, summary.RetainedCover)
		assert.Equal(t, "1:Title and Content", summary.ContentLayout)
		assert.Zero(t, summary.DroppedContents)
	})

	t.Run("angle brackets and ampersands survive as slide text", func(t *testing.T) {
		_, deck := assembleDeck(t, builders.NewTemplateBuilder(), entities.Outline{
			{Title: "<Intro>", Content: []string{"if a<b then swap", "Use List<T> & Map<K,V>"}},
		})

		require.Len(t, deck.Slides, 2)
		assert.Equal(t, "<Intro>", deck.Slides[1].Title)
		assert.Equal(t, []string{"if a<b then swap", "Use List<T> & Map<K,V>"}, deck.Slides[1].Body)
	})

	t.Run("template bytes are never modified", func(t *testing.T) {
		dir := t.TempDir()
		templatePath := builders.NewTemplateBuilder().WithSlides(3).WriteFile(t, dir, "template.pptx")
		before := fileHash(t, templatePath)

		assembler := NewAssembler("Generated Presentation", nil)
		for i := 0; i < 2; i++ {
			_, err := assembler.Assemble(context.Background(), builders.RoundTripOutline(), templatePath, filepath.Join(dir, "out.pptx"))
			require.NoError(t, err)
		}

		assert.Equal(t, before, fileHash(t, templatePath))
	})

	t.Run("extra template slides and their parts are dropped", func(t *testing.T) {
		tb := builders.NewTemplateBuilder().WithSlides(3).WithNotes().WithMediaOnSlide(2)
		outline := builders.NewOutlineBuilder().WithSlideCount(2).Build()

		summary, deck := assembleDeck(t, tb, outline)

		require.Len(t, deck.Slides, 3)
		assert.Equal(t, 3, summary.SlideCount)
		assert.Equal(t, "Cover", deck.Slides[0].Title)
		assert.Equal(t, "Slide 1", deck.Slides[1].Title)
		assert.Equal(t, []string{"Point 2"}, deck.Slides[2].Body)

		assert.True(t, deck.HasPart("ppt/slides/slide1.xml"))
		assert.True(t, deck.HasPart("ppt/notesSlides/notesSlide1.xml"))
		assert.False(t, deck.HasPart("ppt/slides/slide2.xml"))
		assert.False(t, deck.HasPart("ppt/slides/slide3.xml"))
		assert.False(t, deck.HasPart("ppt/notesSlides/notesSlide2.xml"))
		assert.False(t, deck.HasPart("ppt/media/image1.png"))
		assert.True(t, deck.HasPart("ppt/slides/slide4.xml"))
		assert.Equal(t, "[Content_Types].xml", deck.Parts[0])
	})

	t.Run("zero slide template gets a synthesized cover", func(t *testing.T) {
		summary, deck := assembleDeck(t, builders.NewTemplateBuilder().WithSlides(0), builders.RoundTripOutline())

		require.Len(t, deck.Slides, 3)
		assert.Equal(t, "Generated Presentation", deck.Slides[0].Title)
		assert.Equal(t, "ppt/slideLayouts/slideLayout1.xml", deck.Slides[0].Layout)
		assert.Equal(t, "Intro", deck.Slides[1].Title)
		assert.False(t, summary.RetainedCover)
		assert.Equal(t, 3, summary.SlideCount)
	})

	t.Run("empty outline leaves only the cover", func(t *testing.T) {
		_, deck := assembleDeck(t, builders.NewTemplateBuilder().WithSlides(4), entities.Outline{})
		require.Len(t, deck.Slides, 1)
		assert.Equal(t, "Cover", deck.Slides[0].Title)

		_, deck = assembleDeck(t, builders.NewTemplateBuilder().WithSlides(0), nil)
		require.Len(t, deck.Slides, 1)
	})

	t.Run("single layout template uses it for content", func(t *testing.T) {
		tb := builders.NewTemplateBuilder().WithLayouts(builders.TitleAndContentLayout())
		summary, deck := assembleDeck(t, tb, builders.RoundTripOutline())

		require.Len(t, deck.Slides, 3)
		assert.Equal(t, "ppt/slideLayouts/slideLayout1.xml", deck.Slides[1].Layout)
		assert.Equal(t, []string{"A", "B"}, deck.Slides[1].Body)
		assert.Equal(t, "0:Title and Content", summary.ContentLayout)
	})

	t.Run("layout without body drops content silently", func(t *testing.T) {
		tb := builders.NewTemplateBuilder().WithLayouts(builders.TitleSlideLayout(), builders.TitleOnlyLayout())
		summary, deck := assembleDeck(t, tb, builders.RoundTripOutline())

		require.Len(t, deck.Slides, 3)
		assert.Equal(t, "Intro", deck.Slides[1].Title)
		assert.Empty(t, deck.Slides[1].Body)
		assert.Equal(t, 1, summary.DroppedContents)
	})

	t.Run("layout without placeholders still creates slides", func(t *testing.T) {
		tb := builders.NewTemplateBuilder().WithSlides(0).WithLayouts(builders.BlankLayout())
		summary, deck := assembleDeck(t, tb, builders.RoundTripOutline())

		require.Len(t, deck.Slides, 3)
		for _, slide := range deck.Slides {
			assert.Empty(t, slide.Title)
			assert.Empty(t, slide.Body)
		}
		assert.Equal(t, 1, summary.DroppedContents)
	})

	t.Run("potx main part becomes a presentation", func(t *testing.T) {
		_, deck := assembleDeck(t, builders.NewTemplateBuilder().AsTemplate(), builders.RoundTripOutline())
		assert.Equal(t, ctPresentationMain, deck.MainContentType)
	})

	t.Run("sections are removed and slide ids are unique", func(t *testing.T) {
		_, deck := assembleDeck(t, builders.NewTemplateBuilder().WithSlides(2).WithSections(), builders.RoundTripOutline())

		assert.NotContains(t, deck.Presentation, "sectionLst")
		assert.Contains(t, deck.Presentation, `<p:sldId id="256" r:id="rId3"/>`)
		assert.Contains(t, deck.Presentation, `<p:sldId id="258"`)
		assert.Contains(t, deck.Presentation, `<p:sldId id="259"`)
		assert.NotContains(t, deck.Presentation, `<p:sldId id="257"`)
		assert.Equal(t, 1, strings.Count(deck.Presentation, "<p:sldIdLst>"))
	})

	t.Run("text is escaped", func(t *testing.T) {
		outline := builders.NewOutlineBuilder().WithSlide(`R&D <2024> "plan"`, "a < b & c").Build()
		_, deck := assembleDeck(t, builders.NewTemplateBuilder(), outline)

		require.Len(t, deck.Slides, 2)
		assert.Equal(t, `R&D <2024> "plan"`, deck.Slides[1].Title)
		assert.Equal(t, []string{"a < b & c"}, deck.Slides[1].Body)
	})

	t.Run("corrupt template is an assembly error and writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		templatePath := filepath.Join(dir, "broken.pptx")
		require.NoError(t, os.WriteFile(templatePath, []byte("not a zip"), 0o600))
		outputPath := filepath.Join(dir, "output.pptx")

		_, err := NewAssembler("x", nil).Assemble(context.Background(), builders.RoundTripOutline(), templatePath, outputPath)

		require.Error(t, err)
		assert.Equal(t, entities.ErrorTypeAssembly, entities.ErrorTypeOf(err))
		assert.NoFileExists(t, outputPath)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("template without layouts is an assembly error", func(t *testing.T) {
		dir := t.TempDir()
		templatePath := builders.NewTemplateBuilder().WithLayouts().WriteFile(t, dir, "nolayouts.pptx")

		_, err := NewAssembler("x", nil).Assemble(context.Background(), nil, templatePath, filepath.Join(dir, "out.pptx"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no slide layouts")
	})

	t.Run("cancelled context stops before work", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewAssembler("x", nil).Assemble(ctx, nil, "unused.pptx", "out.pptx")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAssembler_Inspect(t *testing.T) {
	dir := t.TempDir()
	templatePath := builders.NewTemplateBuilder().WithSlides(2).WriteFile(t, dir, "template.pptx")

	info, err := NewAssembler("x", nil).Inspect(context.Background(), templatePath)
	require.NoError(t, err)

	assert.Equal(t, 2, info.SlideCount)
	assert.Equal(t, 1, info.ContentLayout)
	require.Len(t, info.Layouts, 2)
	assert.Equal(t, "Title Slide", info.Layouts[0].Name)

	title, ok := info.Layouts[1].TitlePlaceholder()
	require.True(t, ok)
	assert.Equal(t, "title", title.Type)

	body, ok := info.Layouts[1].BodyPlaceholder()
	require.True(t, ok)
	assert.Equal(t, "Content Placeholder 2", body.Name)
	assert.Equal(t, "1", body.Index)

	_, ok = info.Layouts[0].BodyPlaceholder()
	assert.False(t, ok, "subtitle is not a body placeholder")
}
