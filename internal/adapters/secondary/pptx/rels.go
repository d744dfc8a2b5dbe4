package pptx

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsOfficeRels   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"

	relOfficeDocument = nsOfficeRels + "/officeDocument"
	relSlide          = nsOfficeRels + "/slide"
	relSlideLayout    = nsOfficeRels + "/slideLayout"
	relSlideMaster    = nsOfficeRels + "/slideMaster"

	ctSlide            = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctPresentationMain = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctTemplateMain     = "application/vnd.openxmlformats-officedocument.presentationml.template.main+xml"
)

// Relationships is a .rels part
type Relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Items   []Relationship `xml:"Relationship"`
}

// Relationship is one entry of a .rels part
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// IsExternal reports targets outside the package
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// ByID returns the relationship with id
func (r *Relationships) ByID(id string) (Relationship, bool) {
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ByType returns relationships of a type in document order
func (r *Relationships) ByType(relType string) []Relationship {
	var out []Relationship
	for _, rel := range r.Items {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

// Remove deletes the relationship with id
func (r *Relationships) Remove(id string) {
	kept := r.Items[:0]
	for _, rel := range r.Items {
		if rel.ID != id {
			kept = append(kept, rel)
		}
	}
	r.Items = kept
}

// Add appends a relationship under the next free rIdN and returns its id
func (r *Relationships) Add(relType, target string) string {
	id := r.nextID()
	r.Items = append(r.Items, Relationship{ID: id, Type: relType, Target: target})
	return id
}

func (r *Relationships) nextID() string {
	used := make(map[string]bool, len(r.Items))
	highest := 0
	for _, rel := range r.Items {
		used[rel.ID] = true
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	for n := highest + 1; ; n++ {
		id := "rId" + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

// relsPathFor returns the .rels part name that belongs to partName ("" is the package root)
func relsPathFor(partName string) string {
	if partName == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget turns a relationship target into a part name
func resolveTarget(source, target string) string {
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Clean(path.Join(path.Dir(source), target)), "/")
}

// relativeTarget expresses part name to as a target relative to source
func relativeTarget(source, to string) string {
	fromParts := splitDir(path.Dir(source))
	toParts := strings.Split(to, "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}

	var b strings.Builder
	for i := common; i < len(fromParts); i++ {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(toParts[common:], "/"))
	return b.String()
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

// readRels parses the .rels part of source; a missing part yields an empty set
func readRels(pkg *Package, source string) (*Relationships, error) {
	data, ok := pkg.Read(relsPathFor(source))
	if !ok {
		return &Relationships{}, nil
	}
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relsPathFor(source), err)
	}
	return &rels, nil
}

func writeRels(pkg *Package, source string, rels *Relationships) error {
	data, err := xml.Marshal(rels)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", relsPathFor(source), err)
	}
	pkg.Write(relsPathFor(source), append([]byte(xml.Header), data...))
	return nil
}

// ContentTypes is the [Content_Types].xml part
type ContentTypes struct {
	XMLName   xml.Name   `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []Default  `xml:"Default"`
	Overrides []Override `xml:"Override"`
}

// Default maps an extension to a content type
type Default struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Override maps a part name to a content type
type Override struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func readContentTypes(pkg *Package) (*ContentTypes, error) {
	data, _ := pkg.Read(contentTypesPart)
	var ct ContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("parsing content types: %w", err)
	}
	return &ct, nil
}

func writeContentTypes(pkg *Package, ct *ContentTypes) error {
	data, err := xml.Marshal(ct)
	if err != nil {
		return fmt.Errorf("encoding content types: %w", err)
	}
	pkg.Write(contentTypesPart, append([]byte(xml.Header), data...))
	return nil
}

// SetOverride sets the content type of a part
func (ct *ContentTypes) SetOverride(partName, contentType string) {
	name := "/" + strings.TrimPrefix(partName, "/")
	for i := range ct.Overrides {
		if strings.EqualFold(ct.Overrides[i].PartName, name) {
			ct.Overrides[i].ContentType = contentType
			return
		}
	}
	ct.Overrides = append(ct.Overrides, Override{PartName: name, ContentType: contentType})
}

// Override returns the content type override of a part, if any
func (ct *ContentTypes) Override(partName string) (string, bool) {
	name := "/" + strings.TrimPrefix(partName, "/")
	for _, o := range ct.Overrides {
		if strings.EqualFold(o.PartName, name) {
			return o.ContentType, true
		}
	}
	return "", false
}

// Retain drops overrides for parts not in the package
func (ct *ContentTypes) Retain(pkg *Package) {
	kept := ct.Overrides[:0]
	for _, o := range ct.Overrides {
		if pkg.Has(strings.TrimPrefix(o.PartName, "/")) {
			kept = append(kept, o)
		}
	}
	ct.Overrides = kept
}

// reachableParts walks relationships from the package root and returns every internal part reached
func reachableParts(pkg *Package) (map[string]bool, error) {
	seen := map[string]bool{}
	queue := []string{""}

	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]

		rels, err := readRels(pkg, source)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels.Items {
			if rel.IsExternal() {
				continue
			}
			target := resolveTarget(source, rel.Target)
			if seen[target] || !pkg.Has(target) {
				continue
			}
			seen[target] = true
			queue = append(queue, target)
		}
	}
	return seen, nil
}

// pruneUnreachable removes parts (and their .rels) that no relationship chain reaches.
// It returns the removed part names in sorted order.
func pruneUnreachable(pkg *Package) ([]string, error) {
	reachable, err := reachableParts(pkg)
	if err != nil {
		return nil, err
	}

	keep := map[string]bool{contentTypesPart: true, relsPathFor(""): true}
	for name := range reachable {
		keep[name] = true
		keep[relsPathFor(name)] = true
	}

	var removed []string
	for _, name := range pkg.Names() {
		if !keep[name] {
			removed = append(removed, name)
		}
	}
	for _, name := range removed {
		pkg.Delete(name)
	}
	sort.Strings(removed)
	return removed, nil
}
