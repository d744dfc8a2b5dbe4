package outlinefile

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// HTMLCodec renders an outline as an HTML preview fragment. It is output-only.
type HTMLCodec struct {
	markdown *MarkdownCodec
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewHTMLCodec creates the preview renderer
func NewHTMLCodec() *HTMLCodec {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
	return &HTMLCodec{
		markdown: NewMarkdownCodec(),
		md:       md,
		policy:   previewPolicy(),
	}
}

// previewPolicy allows only the elements an outline preview produces
func previewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "p", "ul", "li", "br")
	p.AllowElements("strong", "em", "del", "code")
	return p
}

// Encode renders one heading and bullet list per slide and sanitizes the result
func (c *HTMLCodec) Encode(outline entities.Outline) ([]byte, error) {
	source, err := c.markdown.Encode(outline)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("rendering outline preview: %w", err)
	}
	return c.policy.SanitizeBytes(buf.Bytes()), nil
}

// Decode is not supported; previews cannot be read back
func (c *HTMLCodec) Decode([]byte) (entities.Outline, error) {
	return nil, errors.New("html outlines are output-only")
}
