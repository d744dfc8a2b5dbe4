package outlinefile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// YAMLCodec reads and writes outlines as a YAML sequence of title/content mappings
type YAMLCodec struct{}

type yamlRecord struct {
	Title   string    `yaml:"title"`
	Content yaml.Node `yaml:"content"`
}

// Decode accepts content as a sequence or a single scalar, like the JSON form
func (YAMLCodec) Decode(data []byte) (entities.Outline, error) {
	var records []yamlRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	outline := make(entities.Outline, 0, len(records))
	for i, rec := range records {
		content, err := decodeContent(&rec.Content)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		outline = append(outline, entities.SlideRecord{Title: rec.Title, Content: content})
	}
	return outline, nil
}

func decodeContent(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("decoding content list: %w", err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("content must be a list of strings (line %d)", node.Line)
	}
}

func (YAMLCodec) Encode(outline entities.Outline) ([]byte, error) {
	if outline == nil {
		outline = entities.Outline{}
	}
	return yaml.Marshal(outline)
}
