package outlinefile

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// MarkdownCodec maps headings to slide titles and list items or paragraphs to bullets.
//
//	# Intro
//	- A
//	- B
//
//	# Summary
type MarkdownCodec struct {
	md goldmark.Markdown
}

// NewMarkdownCodec creates a goldmark backed codec
func NewMarkdownCodec() *MarkdownCodec {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.TaskList,
		),
	)
	return &MarkdownCodec{md: md}
}

// Decode parses markdown. Content before the first heading is ignored, as is YAML frontmatter.
func (c *MarkdownCodec) Decode(data []byte) (entities.Outline, error) {
	source := stripFrontmatter(data)
	doc := c.md.Parser().Parse(text.NewReader(source))

	outline := entities.Outline{}
	var current *entities.SlideRecord

	flush := func() {
		if current != nil {
			outline = append(outline, *current)
		}
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			flush()
			current = &entities.SlideRecord{Title: plainText(n, source)}
		case *ast.List:
			if current != nil {
				current.Content = append(current.Content, listItems(n, source)...)
			}
		case *ast.Paragraph:
			if current != nil {
				if line := plainText(n, source); line != "" {
					current.Content = append(current.Content, line)
				}
			}
		}
	}
	flush()

	return outline, nil
}

// Encode renders one level-1 heading per slide followed by a bullet list.
// Markdown syntax in titles and bullets is backslash-escaped so Decode returns the same text;
// runs of whitespace collapse to one space.
func (c *MarkdownCodec) Encode(outline entities.Outline) ([]byte, error) {
	var buf bytes.Buffer
	for i, record := range outline {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("# ")
		buf.WriteString(escapeMarkdown(record.Title))
		buf.WriteByte('\n')
		if record.HasContent() {
			buf.WriteByte('\n')
		}
		for _, item := range record.Content {
			buf.WriteString("- ")
			buf.WriteString(escapeMarkdown(item))
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// listItems flattens nested lists into one bullet per item
func listItems(list *ast.List, source []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var nested []string
		var parts []string
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if sub, ok := child.(*ast.List); ok {
				nested = append(nested, listItems(sub, source)...)
				continue
			}
			if t := plainText(child, source); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			items = append(items, strings.Join(parts, " "))
		}
		items = append(items, nested...)
	}
	return items
}

// plainText collects the inline text below n without markup
func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.CodeSpan:
			for child := t.FirstChild(); child != nil; child = child.NextSibling() {
				if seg, ok := child.(*ast.Text); ok {
					buf.Write(seg.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(util.UnescapePunctuations(t.Segment.Value(source)))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.URL(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var (
	inlineEscaper      = strings.NewReplacer(`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`, "~", `\~`, "|", `\|`, "&", `\&`)
	orderedItemPattern = regexp.MustCompile(`^(\d{1,9})([.)])`)
)

// escapeMarkdown makes s read back as literal text when used as a heading or list item
func escapeMarkdown(s string) string {
	out := inlineEscaper.Replace(singleLine(s))
	if strings.HasPrefix(out, "-") || strings.HasPrefix(out, "+") || strings.HasPrefix(out, "=") {
		out = `\` + out
	}
	return orderedItemPattern.ReplaceAllString(out, `$1\$2`)
}

// stripFrontmatter removes a leading --- delimited YAML block
func stripFrontmatter(content []byte) []byte {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return content
	}

	lines := bytes.Split(content, []byte("\n"))
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			return bytes.Join(lines[i+1:], []byte("\n"))
		}
	}
	return content
}
