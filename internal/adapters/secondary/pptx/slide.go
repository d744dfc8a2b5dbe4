package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
)

// slideContent is the text placed on one generated slide
type slideContent struct {
	Title string
	Body  []string
}

// renderSlide builds a slide part for layout. Every non-furniture placeholder of the
// layout is cloned; the title placeholder gets content.Title and the first body
// placeholder gets one top-level paragraph per entry of content.Body.
// It reports whether body text had to be dropped because the layout has no body placeholder.
func renderSlide(layout *entities.Layout, content slideContent) ([]byte, bool) {
	title, hasTitle := layout.TitlePlaceholder()
	body, hasBody := layout.BodyPlaceholder()

	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawing, nsOfficeRels, nsPresentation)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	for _, ph := range layout.Placeholders {
		if ph.IsFurniture() {
			continue
		}

		var paragraphs []string
		switch {
		case hasTitle && ph == title:
			paragraphs = []string{content.Title}
		case hasBody && ph == body:
			paragraphs = content.Body
		}

		writePlaceholder(&b, shapeID, ph, paragraphs)
		shapeID++
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)

	return b.Bytes(), !hasBody && len(content.Body) > 0
}

func writePlaceholder(b *bytes.Buffer, shapeID int, ph entities.Placeholder, paragraphs []string) {
	b.WriteString(`<p:sp><p:nvSpPr>`)
	fmt.Fprintf(b, `<p:cNvPr id="%d" name="`, shapeID)
	escape(b, placeholderName(ph, shapeID))
	b.WriteString(`"/>`)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
	b.WriteString(`<p:nvPr><p:ph`)
	writeAttr(b, "type", ph.Type)
	writeAttr(b, "orient", ph.Orient)
	writeAttr(b, "sz", ph.Size)
	writeAttr(b, "idx", ph.Index)
	b.WriteString(`/></p:nvPr></p:nvSpPr>`)
	b.WriteString(`<p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)

	if len(paragraphs) == 0 {
		b.WriteString(`<a:p/>`)
	}
	for _, text := range paragraphs {
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>`)
		escape(b, text)
		b.WriteString(`</a:t></a:r></a:p>`)
	}

	b.WriteString(`</p:txBody></p:sp>`)
}

func placeholderName(ph entities.Placeholder, shapeID int) string {
	if ph.Name != "" {
		return ph.Name
	}
	return fmt.Sprintf("%s %d", ph.Kind, shapeID-1)
}

func writeAttr(b *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	b.WriteString(" " + name + `="`)
	escape(b, value)
	b.WriteString(`"`)
}

// escape writes s as XML character data; characters XML cannot carry become U+FFFD
func escape(b *bytes.Buffer, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
