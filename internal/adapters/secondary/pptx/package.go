package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const contentTypesPart = "[Content_Types].xml"

// part is one zip entry of an OPC package
type part struct {
	name     string
	data     []byte
	modified time.Time
}

// Package is an in-memory OPC package (a .pptx/.potx zip) that keeps entry order
type Package struct {
	parts []*part
	index map[string]int
}

// OpenPackage reads the whole package at path into memory. The file is never written.
func OpenPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the request workspace or CLI
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return ReadPackage(data)
}

// ReadPackage parses a package from bytes
func ReadPackage(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}

	pkg := &Package{index: make(map[string]int, len(zr.File))}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		pkg.put(&part{name: f.Name, data: content, modified: f.Modified})
	}

	if !pkg.Has(contentTypesPart) {
		return nil, errors.New("missing [Content_Types].xml")
	}
	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func (p *Package) put(pt *part) {
	if i, ok := p.index[pt.name]; ok {
		p.parts[i] = pt
		return
	}
	p.index[pt.name] = len(p.parts)
	p.parts = append(p.parts, pt)
}

// Has reports whether the package contains name
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Read returns the content of a part
func (p *Package) Read(name string) ([]byte, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.parts[i].data, true
}

// Write replaces or appends a part
func (p *Package) Write(name string, data []byte) {
	modified := time.Now()
	if i, ok := p.index[name]; ok {
		modified = p.parts[i].modified
	}
	p.put(&part{name: name, data: data, modified: modified})
}

// Delete removes a part if present
func (p *Package) Delete(name string) {
	i, ok := p.index[name]
	if !ok {
		return
	}
	p.parts = append(p.parts[:i], p.parts[i+1:]...)
	delete(p.index, name)
	for j := i; j < len(p.parts); j++ {
		p.index[p.parts[j].name] = j
	}
}

// Names returns the part names in package order
func (p *Package) Names() []string {
	names := make([]string, len(p.parts))
	for i, pt := range p.parts {
		names[i] = pt.name
	}
	return names
}

// WriteTo writes the package as a zip with [Content_Types].xml first
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	counter := &countingWriter{w: w}
	zw := zip.NewWriter(counter)

	ordered := make([]*part, 0, len(p.parts))
	if i, ok := p.index[contentTypesPart]; ok {
		ordered = append(ordered, p.parts[i])
	}
	for _, pt := range p.parts {
		if pt.name != contentTypesPart {
			ordered = append(ordered, pt)
		}
	}

	for _, pt := range ordered {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pt.name,
			Method:   zip.Deflate,
			Modified: pt.modified,
		})
		if err != nil {
			return counter.n, fmt.Errorf("adding %s: %w", pt.name, err)
		}
		if _, err := fw.Write(pt.data); err != nil {
			return counter.n, fmt.Errorf("writing %s: %w", pt.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return counter.n, fmt.Errorf("closing zip: %w", err)
	}
	return counter.n, nil
}

// Save writes the package to path through a temporary file in the same directory,
// so a failed write never leaves a partial document behind.
func (p *Package) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".deckforge-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := p.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
