package builders

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkg = "http://schemas.openxmlformats.org/package/2006/relationships"

	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	ctBase  = "application/vnd.openxmlformats-officedocument."
)

// PlaceholderSpec describes a placeholder shape on a layout
type PlaceholderSpec struct {
	Type string
	Idx  string
	Name string
}

// LayoutSpec describes a slide layout
type LayoutSpec struct {
	Name         string
	Placeholders []PlaceholderSpec
}

// TitleSlideLayout is the usual first layout
func TitleSlideLayout() LayoutSpec {
	return LayoutSpec{Name: "Title Slide", Placeholders: []PlaceholderSpec{
		{Type: "ctrTitle", Name: "Title 1"},
		{Type: "subTitle", Idx: "1", Name: "Subtitle 2"},
		{Type: "dt", Idx: "10", Name: "Date Placeholder 3"},
		{Type: "ftr", Idx: "11", Name: "Footer Placeholder 4"},
		{Type: "sldNum", Idx: "12", Name: "Slide Number Placeholder 5"},
	}}
}

// TitleAndContentLayout is the usual second layout
func TitleAndContentLayout() LayoutSpec {
	return LayoutSpec{Name: "Title and Content", Placeholders: []PlaceholderSpec{
		{Type: "title", Name: "Title 1"},
		{Idx: "1", Name: "Content Placeholder 2"},
		{Type: "dt", Idx: "10", Name: "Date Placeholder 3"},
		{Type: "ftr", Idx: "11", Name: "Footer Placeholder 4"},
		{Type: "sldNum", Idx: "12", Name: "Slide Number Placeholder 5"},
	}}
}

// TitleOnlyLayout has no body placeholder
func TitleOnlyLayout() LayoutSpec {
	return LayoutSpec{Name: "Title Only", Placeholders: []PlaceholderSpec{
		{Type: "title", Name: "Title 1"},
		{Type: "sldNum", Idx: "12", Name: "Slide Number Placeholder 2"},
	}}
}

// BlankLayout has no placeholders at all
func BlankLayout() LayoutSpec {
	return LayoutSpec{Name: "Blank"}
}

// TemplateBuilder builds minimal but well-formed .pptx/.potx packages in memory
type TemplateBuilder struct {
	slides     int
	layouts    []LayoutSpec
	template   bool
	sections   bool
	notes      bool
	mediaSlide int
}

// NewTemplateBuilder creates a builder for a one-slide, two-layout presentation
func NewTemplateBuilder() *TemplateBuilder {
	return &TemplateBuilder{
		slides:  1,
		layouts: []LayoutSpec{TitleSlideLayout(), TitleAndContentLayout()},
	}
}

// WithSlides sets the number of existing slides
func (b *TemplateBuilder) WithSlides(n int) *TemplateBuilder {
	b.slides = n
	return b
}

// WithLayouts replaces the layouts of the slide master
func (b *TemplateBuilder) WithLayouts(layouts ...LayoutSpec) *TemplateBuilder {
	b.layouts = layouts
	return b
}

// AsTemplate marks the main part with the .potx content type
func (b *TemplateBuilder) AsTemplate() *TemplateBuilder {
	b.template = true
	return b
}

// WithSections adds a PowerPoint 2010 section list covering every slide
func (b *TemplateBuilder) WithSections() *TemplateBuilder {
	b.sections = true
	return b
}

// WithNotes adds a notes slide to every existing slide
func (b *TemplateBuilder) WithNotes() *TemplateBuilder {
	b.notes = true
	return b
}

// WithMediaOnSlide attaches an image part to slide n (1-based)
func (b *TemplateBuilder) WithMediaOnSlide(n int) *TemplateBuilder {
	b.mediaSlide = n
	return b
}

// Build returns the package bytes
func (b *TemplateBuilder) Build() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	mainType := ctBase + "presentationml.presentation.main+xml"
	if b.template {
		mainType = ctBase + "presentationml.template.main+xml"
	}

	var ct strings.Builder
	ct.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	ct.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	ct.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	ct.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	ct.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	fmt.Fprintf(&ct, `<Override PartName="/ppt/presentation.xml" ContentType="%s"/>`, mainType)
	fmt.Fprintf(&ct, `<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="%spresentationml.slideMaster+xml"/>`, ctBase)
	fmt.Fprintf(&ct, `<Override PartName="/ppt/theme/theme1.xml" ContentType="%stheme+xml"/>`, ctBase)
	for i := range b.layouts {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slideLayouts/slideLayout%d.xml" ContentType="%spresentationml.slideLayout+xml"/>`, i+1, ctBase)
	}
	for i := 1; i <= b.slides; i++ {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%spresentationml.slide+xml"/>`, i, ctBase)
		if b.notes {
			fmt.Fprintf(&ct, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="%spresentationml.notesSlide+xml"/>`, i, ctBase)
		}
	}
	ct.WriteString(`</Types>`)
	add("[Content_Types].xml", ct.String())

	add("_rels/.rels", rels(
		rel("rId1", "officeDocument", "ppt/presentation.xml"),
	))

	// presentation
	var presRels []string
	presRels = append(presRels, rel("rId1", "slideMaster", "slideMasters/slideMaster1.xml"))
	presRels = append(presRels, rel("rId2", "theme", "theme/theme1.xml"))
	var pres strings.Builder
	fmt.Fprintf(&pres, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	pres.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if b.slides > 0 {
		pres.WriteString(`<p:sldIdLst>`)
		for i := 1; i <= b.slides; i++ {
			relID := fmt.Sprintf("rId%d", i+2)
			fmt.Fprintf(&pres, `<p:sldId id="%d" r:id="%s"/>`, 255+i, relID)
			presRels = append(presRels, rel(relID, "slide", fmt.Sprintf("slides/slide%d.xml", i)))
		}
		pres.WriteString(`</p:sldIdLst>`)
	}
	pres.WriteString(`<p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>`)
	if b.sections {
		pres.WriteString(`<p:extLst><p:ext uri="{521415D9-36F7-43E2-AB2F-B90AF26B5E84}">`)
		pres.WriteString(`<p14:sectionLst xmlns:p14="http://schemas.microsoft.com/office/powerpoint/2010/main">`)
		pres.WriteString(`<p14:section name="Default Section" id="{5C2B1A4E-0000-4000-8000-000000000001}"><p14:sldIdLst>`)
		for i := 1; i <= b.slides; i++ {
			fmt.Fprintf(&pres, `<p14:sldId id="%d"/>`, 255+i)
		}
		pres.WriteString(`</p14:sldIdLst></p14:section></p14:sectionLst></p:ext></p:extLst>`)
	}
	pres.WriteString(`</p:presentation>`)
	add("ppt/presentation.xml", pres.String())
	add("ppt/_rels/presentation.xml.rels", rels(presRels...))

	// master
	var master strings.Builder
	fmt.Fprintf(&master, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	master.WriteString(`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>`)
	master.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	master.WriteString(`<p:sldLayoutIdLst>`)
	masterRels := []string{}
	for i := range b.layouts {
		relID := fmt.Sprintf("rId%d", i+1)
		fmt.Fprintf(&master, `<p:sldLayoutId id="%d" r:id="%s"/>`, 2147483649+i, relID)
		masterRels = append(masterRels, rel(relID, "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)))
	}
	master.WriteString(`</p:sldLayoutIdLst></p:sldMaster>`)
	masterRels = append(masterRels, rel(fmt.Sprintf("rId%d", len(b.layouts)+1), "theme", "../theme/theme1.xml"))
	add("ppt/slideMasters/slideMaster1.xml", master.String())
	add("ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(masterRels...))

	add("ppt/theme/theme1.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><a:theme xmlns:a="%s" name="Office Theme"><a:themeElements/></a:theme>`, nsA))

	for i, layout := range b.layouts {
		name := fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1)
		add(name, layoutXML(layout))
		add(fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1), rels(
			rel("rId1", "slideMaster", "../slideMasters/slideMaster1.xml"),
		))
	}

	for i := 1; i <= b.slides; i++ {
		layout := TitleSlideLayout()
		layoutIndex := 1
		if i > 1 && len(b.layouts) > 1 {
			layout, layoutIndex = b.layouts[1], 2
		} else if len(b.layouts) > 0 {
			layout = b.layouts[0]
		}

		text := "Cover"
		if i > 1 {
			text = fmt.Sprintf("Example %d", i)
		}
		add(fmt.Sprintf("ppt/slides/slide%d.xml", i), slideXML(layout, text))

		slideRels := []string{rel("rId1", "slideLayout", fmt.Sprintf("../slideLayouts/slideLayout%d.xml", layoutIndex))}
		if b.notes {
			slideRels = append(slideRels, rel("rId2", "notesSlide", fmt.Sprintf("../notesSlides/notesSlide%d.xml", i)))
			add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", i), fmt.Sprintf(
				`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:notes xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree/></p:cSld></p:notes>`, nsA, nsR, nsP))
			add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", i), rels(
				rel("rId1", "slide", fmt.Sprintf("../slides/slide%d.xml", i)),
			))
		}
		if b.mediaSlide == i {
			slideRels = append(slideRels, rel("rId3", "image", "../media/image1.png"))
			add("ppt/media/image1.png", "\x89PNG\r\n\x1a\n")
		}
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i), rels(slideRels...))
	}

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteFile writes the package into dir and returns its path
func (b *TemplateBuilder) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b.Build(), 0o600))
	return path
}

func rel(id, relType, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s%s" Target="%s"/>`, id, relBase, relType, target)
}

func rels(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="` + nsPkg + `">` +
		strings.Join(items, "") + `</Relationships>`
}

func layoutXML(layout LayoutSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	fmt.Fprintf(&b, `<p:cSld name="%s"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`, layout.Name)
	for i, ph := range layout.Placeholders {
		writeShape(&b, i+2, ph, "Click to edit")
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`)
	return b.String()
}

func slideXML(layout LayoutSpec, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	b.WriteString(`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for i, ph := range layout.Placeholders {
		if ph.Type == "title" || ph.Type == "ctrTitle" {
			writeShape(&b, i+2, ph, title)
		}
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func writeShape(b *strings.Builder, id int, ph PlaceholderSpec, text string) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph`, id, ph.Name)
	if ph.Type != "" {
		fmt.Fprintf(b, ` type="%s"`, ph.Type)
	}
	if ph.Idx != "" {
		fmt.Fprintf(b, ` idx="%s"`, ph.Idx)
	}
	fmt.Fprintf(b, `/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, text)
}
