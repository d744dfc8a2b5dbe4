package builders

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// DeckSlide is the visible text of one slide of a generated deck
type DeckSlide struct {
	Part   string
	Layout string
	Title  string
	Body   []string
}

// Deck is a read-only view of a .pptx used to assert on assembler output
type Deck struct {
	Parts           []string
	MainContentType string
	Presentation    string
	Slides          []DeckSlide
}

// HasPart reports whether the package contains name
func (d *Deck) HasPart(name string) bool {
	for _, p := range d.Parts {
		if p == name {
			return true
		}
	}
	return false
}

// ReadDeckFile reads a deck from disk
func ReadDeckFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path) // #nosec G304 - test helper
	if err != nil {
		return nil, err
	}
	return ReadDeck(data)
}

// ReadDeck parses the slides of a package in presentation order
func ReadDeck(data []byte) (*Deck, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := map[string][]byte{}
	deck := &Deck{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		files[f.Name] = content
		deck.Parts = append(deck.Parts, f.Name)
	}

	rootRels, err := parseRels(files["_rels/.rels"])
	if err != nil {
		return nil, err
	}
	mainPart := ""
	for _, r := range rootRels {
		if strings.HasSuffix(r.Type, "/officeDocument") {
			mainPart = strings.TrimPrefix(r.Target, "/")
		}
	}
	if mainPart == "" {
		return nil, errors.New("no officeDocument relationship")
	}
	deck.Presentation = string(files[mainPart])
	deck.MainContentType = overrideFor(files["[Content_Types].xml"], mainPart)

	presRels, err := parseRels(files[path.Join(path.Dir(mainPart), "_rels", path.Base(mainPart)+".rels")])
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(files[mainPart]))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "sldId" || start.Name.Space != nsP {
			continue
		}
		var relID string
		for _, a := range start.Attr {
			if a.Name.Space == nsR && a.Name.Local == "id" {
				relID = a.Value
			}
		}
		r, ok := presRels[relID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %s missing", relID)
		}
		partName := path.Join(path.Dir(mainPart), r.Target)
		slide, err := readSlide(files, partName)
		if err != nil {
			return nil, err
		}
		deck.Slides = append(deck.Slides, slide)
	}

	return deck, nil
}

type relEntry struct {
	Type   string
	Target string
}

func parseRels(data []byte) (map[string]relEntry, error) {
	var doc struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Type   string `xml:"Type,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if len(data) == 0 {
		return map[string]relEntry{}, nil
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]relEntry, len(doc.Items))
	for _, item := range doc.Items {
		out[item.ID] = relEntry{Type: item.Type, Target: item.Target}
	}
	return out, nil
}

func overrideFor(contentTypes []byte, partName string) string {
	var doc struct {
		Overrides []struct {
			PartName    string `xml:"PartName,attr"`
			ContentType string `xml:"ContentType,attr"`
		} `xml:"Override"`
	}
	if err := xml.Unmarshal(contentTypes, &doc); err != nil {
		return ""
	}
	for _, o := range doc.Overrides {
		if o.PartName == "/"+partName {
			return o.ContentType
		}
	}
	return ""
}

func readSlide(files map[string][]byte, partName string) (DeckSlide, error) {
	data, ok := files[partName]
	if !ok {
		return DeckSlide{}, fmt.Errorf("slide part %s missing", partName)
	}
	slide := DeckSlide{Part: partName}

	slideRels, err := parseRels(files[path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")])
	if err != nil {
		return DeckSlide{}, err
	}
	for _, r := range slideRels {
		if strings.HasSuffix(r.Type, "/slideLayout") {
			slide.Layout = path.Join(path.Dir(partName), r.Target)
		}
	}

	var (
		inShape   bool
		phType    string
		isPh      bool
		paragraph *strings.Builder
		paras     []string
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return DeckSlide{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "sp":
				inShape, isPh, phType, paras = true, false, "", nil
			case t.Name.Local == "ph" && inShape:
				isPh = true
				for _, a := range t.Attr {
					if a.Name.Local == "type" {
						phType = a.Value
					}
				}
			case t.Name.Local == "p" && t.Name.Space == nsA:
				paragraph = &strings.Builder{}
			case t.Name.Local == "t" && t.Name.Space == nsA && paragraph != nil:
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return DeckSlide{}, err
				}
				paragraph.WriteString(text)
			}
		case xml.EndElement:
			switch {
			case t.Name.Local == "p" && t.Name.Space == nsA && paragraph != nil:
				if paragraph.Len() > 0 {
					paras = append(paras, paragraph.String())
				}
				paragraph = nil
			case t.Name.Local == "sp":
				if isPh {
					switch phType {
					case "title", "ctrTitle":
						slide.Title = strings.Join(paras, "\n")
					case "", "obj", "body":
						if slide.Body == nil {
							slide.Body = paras
						}
					}
				}
				inShape = false
			}
		}
	}
	return slide, nil
}
