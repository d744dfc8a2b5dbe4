package pptx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// slideRef is one sldId entry of the presentation part
type slideRef struct {
	ID    uint32
	RelID string
	Part  string
}

// presentation is the parsed main part of a package
type presentation struct {
	partName string
	raw      []byte
	rels     *Relationships
	slides   []slideRef
	masters  []string
}

// mainPartName finds the presentation part through the package root relationships
func mainPartName(pkg *Package) (string, error) {
	rels, err := readRels(pkg, "")
	if err != nil {
		return "", err
	}
	for _, rel := range rels.ByType(relOfficeDocument) {
		name := resolveTarget("", rel.Target)
		if pkg.Has(name) {
			return name, nil
		}
	}
	return "", errors.New("package has no presentation part")
}

func loadPresentation(pkg *Package) (*presentation, error) {
	partName, err := mainPartName(pkg)
	if err != nil {
		return nil, err
	}
	raw, _ := pkg.Read(partName)

	rels, err := readRels(pkg, partName)
	if err != nil {
		return nil, err
	}

	p := &presentation{partName: partName, raw: raw, rels: rels}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", partName, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != nsPresentation {
			continue
		}

		switch start.Name.Local {
		case "sldId":
			id, relID := idAttrs(start)
			n, err := strconv.ParseUint(id, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("bad slide id %q: %w", id, err)
			}
			ref := slideRef{ID: uint32(n), RelID: relID}
			if rel, ok := rels.ByID(relID); ok {
				ref.Part = resolveTarget(partName, rel.Target)
			}
			p.slides = append(p.slides, ref)
		case "sldMasterId":
			_, relID := idAttrs(start)
			if rel, ok := rels.ByID(relID); ok {
				p.masters = append(p.masters, resolveTarget(partName, rel.Target))
			}
		}
	}

	return p, nil
}

// idAttrs returns the plain id and the relationship r:id of an element
func idAttrs(start xml.StartElement) (id, relID string) {
	for _, a := range start.Attr {
		if a.Name.Local != "id" {
			continue
		}
		switch a.Name.Space {
		case "":
			id = a.Value
		case nsOfficeRels:
			relID = a.Value
		}
	}
	return id, relID
}

// loadLayouts returns the layouts of the first slide master in master order
func loadLayouts(pkg *Package, pres *presentation) ([]*entities.Layout, error) {
	if len(pres.masters) == 0 {
		return nil, errors.New("template has no slide master")
	}
	master := pres.masters[0]

	raw, ok := pkg.Read(master)
	if !ok {
		return nil, fmt.Errorf("slide master %s is missing", master)
	}
	rels, err := readRels(pkg, master)
	if err != nil {
		return nil, err
	}

	var layoutParts []string
	dec := xml.NewDecoder(bytes.NewReader(raw))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", master, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sldLayoutId" {
			continue
		}
		_, relID := idAttrs(start)
		if rel, ok := rels.ByID(relID); ok {
			layoutParts = append(layoutParts, resolveTarget(master, rel.Target))
		}
	}

	if len(layoutParts) == 0 {
		for _, rel := range rels.ByType(relSlideLayout) {
			layoutParts = append(layoutParts, resolveTarget(master, rel.Target))
		}
	}

	layouts := make([]*entities.Layout, 0, len(layoutParts))
	for _, partName := range layoutParts {
		data, ok := pkg.Read(partName)
		if !ok {
			continue
		}
		name, placeholders, err := parseLayout(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", partName, err)
		}
		layouts = append(layouts, entities.NewLayout(len(layouts), name, partName, placeholders))
	}

	if len(layouts) == 0 {
		return nil, errors.New("template has no slide layouts")
	}
	return layouts, nil
}

// parseLayout reads the layout name and its placeholder shapes
func parseLayout(data []byte) (string, []entities.Placeholder, error) {
	type shape struct {
		ph      *entities.Placeholder
		shapeID int
		name    string
	}

	var (
		name         string
		placeholders []entities.Placeholder
		stack        []*shape
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cSld":
				name = attr(t, "name")
			case "sp":
				stack = append(stack, &shape{})
			case "cNvPr":
				if len(stack) > 0 {
					top := stack[len(stack)-1]
					top.shapeID, _ = strconv.Atoi(attr(t, "id"))
					top.name = attr(t, "name")
				}
			case "ph":
				if len(stack) > 0 {
					phType := attr(t, "type")
					stack[len(stack)-1].ph = &entities.Placeholder{
						Type:   phType,
						Index:  attr(t, "idx"),
						Orient: attr(t, "orient"),
						Size:   attr(t, "sz"),
						Kind:   entities.ClassifyPlaceholder(phType),
					}
				}
			}
		case xml.EndElement:
			if t.Name.Local == "sp" && len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.ph != nil {
					top.ph.ShapeID = top.shapeID
					top.ph.Name = top.name
					placeholders = append(placeholders, *top.ph)
				}
			}
		}
	}

	return name, placeholders, nil
}

func attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

var (
	sectionExtPattern  = regexp.MustCompile(`(?s)<(?:[A-Za-z_][\w.-]*:)?ext uri="\{521415D9-36F7-43E2-AB2F-B90AF26B5E84\}">.*?</(?:[A-Za-z_][\w.-]*:)?ext>`)
	custShowLstPattern = regexp.MustCompile(`(?s)<(?:[A-Za-z_][\w.-]*:)?custShowLst\s*/>|<(?:[A-Za-z_][\w.-]*:)?custShowLst>.*?</(?:[A-Za-z_][\w.-]*:)?custShowLst>`)
	nsDeclPattern      = regexp.MustCompile(`xmlns(?::([A-Za-z_][\w.-]*))?="([^"]*)"`)
)

// namespacePrefix returns the prefix bound to ns in raw ("" for a default namespace)
func namespacePrefix(raw []byte, ns string) (string, bool) {
	for _, m := range nsDeclPattern.FindAllSubmatch(raw, -1) {
		if string(m[2]) == ns {
			return string(m[1]), true
		}
	}
	return "", false
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// rewriteSlideList replaces the sldIdLst of the presentation part with slides.
// Sections and custom shows refer to slide ids that may no longer exist, so they are removed.
func rewriteSlideList(raw []byte, slides []slideRef) ([]byte, error) {
	p, ok := namespacePrefix(raw, nsPresentation)
	if !ok {
		p = "p"
	}
	r, hasRel := namespacePrefix(raw, nsOfficeRels)
	relDecl := ""
	if !hasRel || r == "" {
		r = "r"
		relDecl = ` xmlns:r="` + nsOfficeRels + `"`
	}

	var b strings.Builder
	b.WriteString("<" + qualify(p, "sldIdLst") + relDecl + ">")
	for _, s := range slides {
		fmt.Fprintf(&b, `<%s id="%d" %s:id="%s"/>`, qualify(p, "sldId"), s.ID, r, s.RelID)
	}
	b.WriteString("</" + qualify(p, "sldIdLst") + ">")
	list := []byte(b.String())

	out := sectionExtPattern.ReplaceAll(raw, nil)
	out = custShowLstPattern.ReplaceAll(out, nil)

	tag := regexp.QuoteMeta(qualify(p, "sldIdLst"))
	existing := regexp.MustCompile(`(?s)<` + tag + `\s*/>|<` + tag + `>.*?</` + tag + `>`)

	if loc := existing.FindIndex(out); loc != nil {
		return concat(out[:loc[0]], list, out[loc[1]:]), nil
	}

	for _, anchor := range []string{"sldSz", "notesSz"} {
		if i := bytes.Index(out, []byte("<"+qualify(p, anchor))); i >= 0 {
			return concat(out[:i], list, out[i:]), nil
		}
	}
	return nil, errors.New("presentation part has no slide size to anchor the slide list")
}

func concat(chunks ...[]byte) []byte {
	var n int
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
