package entities

import "fmt"

// PlaceholderKind is the capability of a placeholder region
type PlaceholderKind int

const (
	PlaceholderOther PlaceholderKind = iota
	PlaceholderTitle
	PlaceholderBody
)

// String implements fmt.Stringer
func (k PlaceholderKind) String() string {
	switch k {
	case PlaceholderTitle:
		return "title"
	case PlaceholderBody:
		return "body"
	default:
		return "other"
	}
}

// Placeholder describes a placeholder shape declared by a layout
type Placeholder struct {
	// ShapeID is the cNvPr id inside the layout
	ShapeID int `json:"shape_id"`

	// Name is the shape name, e.g. "Title 1"
	Name string `json:"name"`

	// Type is the raw OOXML ph type ("" when the attribute is absent)
	Type string `json:"type"`

	// Index is the raw ph idx attribute
	Index string `json:"idx,omitempty"`

	// Orient and Size are copied verbatim onto slide placeholders
	Orient string `json:"orient,omitempty"`
	Size   string `json:"size,omitempty"`

	Kind PlaceholderKind `json:"kind"`
}

// ClassifyPlaceholder maps an OOXML ph type to its capability.
// A missing type means "obj", the generic content placeholder.
func ClassifyPlaceholder(phType string) PlaceholderKind {
	switch phType {
	case "title", "ctrTitle":
		return PlaceholderTitle
	case "", "obj", "body":
		return PlaceholderBody
	default:
		return PlaceholderOther
	}
}

// IsFurniture reports placeholders that are not copied onto new slides
func (p Placeholder) IsFurniture() bool {
	switch p.Type {
	case "dt", "ftr", "sldNum":
		return true
	}
	return false
}

// Layout is a slide layout of the template with its placeholders resolved
type Layout struct {
	// Index is the position within the first slide master
	Index int `json:"index"`

	// Name is the cSld name of the layout
	Name string `json:"name"`

	// PartName is the zip path of the layout part
	PartName string `json:"part_name"`

	Placeholders []Placeholder `json:"placeholders"`

	title int
	body  int
}

// NewLayout builds a layout and resolves its title and body placeholders once
func NewLayout(index int, name, partName string, placeholders []Placeholder) *Layout {
	l := &Layout{
		Index:        index,
		Name:         name,
		PartName:     partName,
		Placeholders: placeholders,
		title:        -1,
		body:         -1,
	}
	for i, ph := range placeholders {
		switch ph.Kind {
		case PlaceholderTitle:
			if l.title < 0 {
				l.title = i
			}
		case PlaceholderBody:
			if l.body < 0 {
				l.body = i
			}
		}
	}
	return l
}

// TitlePlaceholder returns the layout's title placeholder, if any
func (l *Layout) TitlePlaceholder() (Placeholder, bool) {
	if l.title < 0 {
		return Placeholder{}, false
	}
	return l.Placeholders[l.title], true
}

// BodyPlaceholder returns the first general body/content placeholder, if any
func (l *Layout) BodyPlaceholder() (Placeholder, bool) {
	if l.body < 0 {
		return Placeholder{}, false
	}
	return l.Placeholders[l.body], true
}

// String implements fmt.Stringer
func (l *Layout) String() string {
	return fmt.Sprintf("%d:%s", l.Index, l.Name)
}

// DeckSummary reports what the assembler produced
type DeckSummary struct {
	OutputPath      string `json:"output_path"`
	SlideCount      int    `json:"slide_count"`
	RetainedCover   bool   `json:"retained_cover"`
	ContentLayout   string `json:"content_layout"`
	DroppedContents int    `json:"dropped_contents"`
}
