package outlinefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// Format names an outline file format
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat resolves a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported outline format: %s (must be json, yaml, markdown or html)", name)
	}
}

// FormatForPath picks the format from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("cannot infer outline format from %q", filepath.Base(path))
	}
}

// NewCodec returns the codec for format
func NewCodec(format Format) (ports.OutlineCodec, error) {
	switch format {
	case FormatJSON:
		return JSONCodec{}, nil
	case FormatYAML:
		return YAMLCodec{}, nil
	case FormatMarkdown:
		return NewMarkdownCodec(), nil
	case FormatHTML:
		return NewHTMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported outline format: %s", format)
	}
}

// Load reads and validates an outline file, choosing the codec by extension
func Load(path string) (entities.Outline, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	codec, err := NewCodec(format)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading outline file: %w", err)
	}

	outline, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s outline: %w", format, err)
	}
	if err := outline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid outline: %w", err)
	}
	return outline, nil
}

// JSONCodec reads and writes the model reply format: [{"title": ..., "content": [...]}]
type JSONCodec struct{}

func (JSONCodec) Decode(data []byte) (entities.Outline, error) {
	var outline entities.Outline
	if err := json.Unmarshal(data, &outline); err != nil {
		return nil, err
	}
	return outline, nil
}

func (JSONCodec) Encode(outline entities.Outline) ([]byte, error) {
	if outline == nil {
		outline = entities.Outline{}
	}
	data, err := json.MarshalIndent(outline, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
