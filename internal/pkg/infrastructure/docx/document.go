package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	nsWordML        string = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships string = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  string = "http://schemas.openxmlformats.org/package/2006/content-types"

	relOfficeDocument string = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relHeader         string = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter         string = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relImage          string = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	contentTypesName    string = "[Content_Types].xml"
	defaultDocumentName string = "word/document.xml"
)

type zipEntry struct {
	header zip.FileHeader
	data   []byte
}

// Document is a word processing document held in memory. Parts that are never
// touched are written back byte for byte.
type Document struct {
	entries []*zipEntry
	byName  map[string]*zipEntry
	parsed  map[string]*node

	body    *Part
	headers []*Part
	footers []*Part

	lastDrawingID int
}

func Open(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return Read(bytes.NewReader(b), int64(len(b)))
}

func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open document archive: %w", err)
	}

	d := &Document{
		byName: map[string]*zipEntry{},
		parsed: map[string]*node{},
	}

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}

		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}

		e := &zipEntry{header: f.FileHeader, data: data}
		d.entries = append(d.entries, e)
		d.byName[f.Name] = e
	}

	if err := d.loadParts(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Document) Body() *Part {
	return d.body
}

func (d *Document) Headers() []*Part {
	return d.headers
}

func (d *Document) Footers() []*Part {
	return d.footers
}

// Parts returns the body followed by every header and footer
func (d *Document) Parts() []*Part {
	parts := []*Part{d.body}
	parts = append(parts, d.headers...)
	return append(parts, d.footers...)
}

func (d *Document) Save(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		return err
	}

	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move document in place: %w", err)
	}

	return nil
}

func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, e := range d.entries {
		// extra fields are rebuilt by the zip writer
		header := &zip.FileHeader{
			Name:     e.header.Name,
			Method:   zip.Deflate,
			Modified: e.header.Modified,
		}
		data := e.data

		if n, ok := d.parsed[header.Name]; ok {
			data = n.bytes()
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			return cw.n, fmt.Errorf("failed to add %s to document: %w", header.Name, err)
		}

		if _, err = fw.Write(data); err != nil {
			return cw.n, fmt.Errorf("failed to write %s: %w", header.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finish document: %w", err)
	}

	return cw.n, nil
}

func (d *Document) loadParts() error {
	if _, ok := d.byName[contentTypesName]; !ok {
		return fmt.Errorf("not a word document: missing %s", contentTypesName)
	}

	mainName := defaultDocumentName
	if rels, err := d.relationships("_rels/.rels"); err == nil {
		if targets := rels.targets(relOfficeDocument); len(targets) > 0 {
			mainName = targets[0]
		}
	}

	body, err := d.part(mainName, "body")
	if err != nil {
		return err
	}
	d.body = body

	rels, err := d.relationships(relsName(mainName))
	if err != nil {
		return nil
	}

	headerNames := rels.targets(relHeader)
	sort.Strings(headerNames)
	for _, name := range headerNames {
		p, err := d.part(name, "hdr")
		if err != nil {
			return err
		}
		d.headers = append(d.headers, p)
	}

	footerNames := rels.targets(relFooter)
	sort.Strings(footerNames)
	for _, name := range footerNames {
		p, err := d.part(name, "ftr")
		if err != nil {
			return err
		}
		d.footers = append(d.footers, p)
	}

	return nil
}

func (d *Document) xmlPart(name string) (*node, error) {
	if n, ok := d.parsed[name]; ok {
		return n, nil
	}

	e, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("document has no part named %s", name)
	}

	n, err := parseXML(e.data)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", name, err)
	}

	d.parsed[name] = n
	return n, nil
}

// part loads a WordprocessingML part whose root element, or body element for the
// main document, holds the paragraphs and tables
func (d *Document) part(name, container string) (*Part, error) {
	doc, err := d.xmlPart(name)
	if err != nil {
		return nil, err
	}

	root := doc.root()
	if root == nil {
		return nil, fmt.Errorf("part %s has no root element", name)
	}

	w, ok := root.prefixFor(nsWordML)
	if !ok {
		w = "w"
	}

	content := root
	if container == "body" {
		content = root.first(w, "body")
		if content == nil {
			return nil, fmt.Errorf("part %s has no body", name)
		}
	}

	return &Part{name: name, doc: d, w: w, content: content}, nil
}

func (d *Document) addEntry(name string, data []byte) {
	e := &zipEntry{
		header: zip.FileHeader{Name: name, Method: zip.Deflate},
		data:   data,
	}
	d.entries = append(d.entries, e)
	d.byName[name] = e
}

func (d *Document) hasEntry(name string) bool {
	_, ok := d.byName[name]
	return ok
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// relsName returns the name of the relationships part that belongs to a part
func relsName(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget turns a relationship target into a part name
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(sourcePart), target)
}
