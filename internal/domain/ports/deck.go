package ports

import (
	"context"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// OutlineGenerator turns free text into slide records. It never fails outward.
type OutlineGenerator interface {
	Generate(ctx context.Context, req entities.OutlineRequest) (entities.Outline, entities.OutlineSource)
}

// DeckAssembler populates a presentation template with an outline
type DeckAssembler interface {
	// Assemble writes a new document to outputPath; templatePath is only read
	Assemble(ctx context.Context, outline entities.Outline, templatePath, outputPath string) (*entities.DeckSummary, error)
}

// TemplateInspector lists the layouts of a presentation template
type TemplateInspector interface {
	Inspect(ctx context.Context, templatePath string) (*TemplateInfo, error)
}

// TemplateInfo describes a template without modifying it
type TemplateInfo struct {
	SlideCount    int                `json:"slide_count"`
	Layouts       []*entities.Layout `json:"layouts"`
	ContentLayout int                `json:"content_layout"`
}

// OutlineCodec reads and writes outlines in a file format
type OutlineCodec interface {
	Decode(data []byte) (entities.Outline, error)
	Encode(outline entities.Outline) ([]byte, error)
}
