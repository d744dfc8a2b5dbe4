package pptx

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

const minSlideID = 256

var slidePartPattern = regexp.MustCompile(`^(.*/)?slides/slide(\d+)\.xml$`)

// Assembler populates .pptx/.potx templates with outlines
type Assembler struct {
	defaultTitle string
	logger       ports.Logger
}

// NewAssembler creates an assembler. defaultTitle labels the cover slide
// synthesized for templates that have no slides.
func NewAssembler(defaultTitle string, logger ports.Logger) *Assembler {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Assembler{defaultTitle: defaultTitle, logger: logger}
}

// Assemble keeps the template's first slide, drops the others and appends one slide
// per record using the second layout (or the only one). The template is read into
// memory and never written; the result goes to outputPath.
func (a *Assembler) Assemble(ctx context.Context, outline entities.Outline, templatePath, outputPath string) (*entities.DeckSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkg, err := OpenPackage(templatePath)
	if err != nil {
		return nil, entities.NewAssemblyError("template cannot be opened", err)
	}

	summary, err := a.assemble(pkg, outline)
	if err != nil {
		return nil, entities.NewAssemblyError("template cannot be assembled", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := pkg.Save(outputPath); err != nil {
		return nil, entities.NewStorageError("writing presentation", err)
	}

	summary.OutputPath = outputPath
	a.logger.Debug("assembled %d slides into %s", summary.SlideCount, outputPath)
	return summary, nil
}

func (a *Assembler) assemble(pkg *Package, outline entities.Outline) (*entities.DeckSummary, error) {
	pres, err := loadPresentation(pkg)
	if err != nil {
		return nil, err
	}
	layouts, err := loadLayouts(pkg, pres)
	if err != nil {
		return nil, err
	}
	contentLayout := ContentLayout(layouts)

	ct, err := readContentTypes(pkg)
	if err != nil {
		return nil, err
	}

	nextID := uint32(minSlideID)
	for _, s := range pres.slides {
		if s.ID >= nextID {
			nextID = s.ID + 1
		}
	}
	nextPart := nextSlideNumber(pkg)
	slidesDir := path.Join(path.Dir(pres.partName), "slides")

	addSlide := func(layout *entities.Layout, content slideContent) (bool, error) {
		partName := fmt.Sprintf("%s/slide%d.xml", slidesDir, nextPart)
		nextPart++

		data, dropped := renderSlide(layout, content)
		pkg.Write(partName, data)

		slideRels := &Relationships{}
		slideRels.Add(relSlideLayout, relativeTarget(partName, layout.PartName))
		if err := writeRels(pkg, partName, slideRels); err != nil {
			return false, err
		}

		relID := pres.rels.Add(relSlide, relativeTarget(pres.partName, partName))
		ct.SetOverride(partName, ctSlide)

		pres.slides = append(pres.slides, slideRef{ID: nextID, RelID: relID, Part: partName})
		nextID++
		return dropped, nil
	}

	summary := &entities.DeckSummary{ContentLayout: contentLayout.String()}

	if len(pres.slides) > 0 {
		for _, dropped := range pres.slides[1:] {
			pres.rels.Remove(dropped.RelID)
		}
		pres.slides = pres.slides[:1]
		summary.RetainedCover = true
	} else {
		cover := layouts[0]
		if _, err := addSlide(cover, slideContent{Title: a.defaultTitle}); err != nil {
			return nil, err
		}
	}

	for _, record := range outline {
		dropped, err := addSlide(contentLayout, slideContent{Title: record.Title, Body: record.Content})
		if err != nil {
			return nil, err
		}
		if dropped {
			summary.DroppedContents++
			a.logger.Warn("layout %s has no body placeholder, content of %q dropped", contentLayout, record.Title)
		}
	}

	raw, err := rewriteSlideList(pres.raw, pres.slides)
	if err != nil {
		return nil, err
	}
	pkg.Write(pres.partName, raw)
	if err := writeRels(pkg, pres.partName, pres.rels); err != nil {
		return nil, err
	}

	if contentType, ok := ct.Override(pres.partName); ok && contentType == ctTemplateMain {
		ct.SetOverride(pres.partName, ctPresentationMain)
	}

	removed, err := pruneUnreachable(pkg)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		a.logger.Debug("pruned %d unreferenced parts", len(removed))
	}

	ct.Retain(pkg)
	if err := writeContentTypes(pkg, ct); err != nil {
		return nil, err
	}

	summary.SlideCount = len(pres.slides)
	return summary, nil
}

// Inspect lists the layouts of a template without modifying it
func (a *Assembler) Inspect(ctx context.Context, templatePath string) (*ports.TemplateInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkg, err := OpenPackage(templatePath)
	if err != nil {
		return nil, entities.NewAssemblyError("template cannot be opened", err)
	}
	pres, err := loadPresentation(pkg)
	if err != nil {
		return nil, entities.NewAssemblyError("template cannot be read", err)
	}
	layouts, err := loadLayouts(pkg, pres)
	if err != nil {
		return nil, entities.NewAssemblyError("template cannot be read", err)
	}

	return &ports.TemplateInfo{
		SlideCount:    len(pres.slides),
		Layouts:       layouts,
		ContentLayout: ContentLayout(layouts).Index,
	}, nil
}

// ContentLayout picks the second layout, or the first when only one exists
func ContentLayout(layouts []*entities.Layout) *entities.Layout {
	if len(layouts) > 1 {
		return layouts[1]
	}
	return layouts[0]
}

func nextSlideNumber(pkg *Package) int {
	highest := 0
	for _, name := range pkg.Names() {
		m := slidePartPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

var (
	_ ports.DeckAssembler     = (*Assembler)(nil)
	_ ports.TemplateInspector = (*Assembler)(nil)
)
