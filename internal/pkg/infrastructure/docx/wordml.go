package docx

import (
	"encoding/xml"
	"strings"
)

// Part is a story of the document, i.e. the main body, a header or a footer
type Part struct {
	name    string
	doc     *Document
	w       string
	content *node
}

func (p *Part) Name() string {
	return p.name
}

func (p *Part) Paragraphs() []*Paragraph {
	return paragraphsOf(p, p.content)
}

func (p *Part) Tables() []*Table {
	return tablesOf(p, p.content)
}

// AllParagraphs returns the paragraphs of the part including those nested in tables,
// in document order
func (p *Part) AllParagraphs() []*Paragraph {
	return allParagraphsOf(p, p.content)
}

type Table struct {
	part *Part
	n    *node
}

func (t *Table) Rows() []*Row {
	rows := []*Row{}
	for _, tr := range t.n.elements(t.part.w, "tr") {
		rows = append(rows, &Row{part: t.part, n: tr})
	}
	return rows
}

type Row struct {
	part *Part
	n    *node
}

func (r *Row) Cells() []*Cell {
	cells := []*Cell{}
	for _, tc := range r.n.elements(r.part.w, "tc") {
		cells = append(cells, &Cell{part: r.part, n: tc})
	}
	return cells
}

type Cell struct {
	part *Part
	n    *node
}

func (c *Cell) Paragraphs() []*Paragraph {
	return paragraphsOf(c.part, c.n)
}

func (c *Cell) Tables() []*Table {
	return tablesOf(c.part, c.n)
}

type Paragraph struct {
	part *Part
	n    *node
}

// Runs returns the text runs of the paragraph, including runs wrapped in hyperlinks,
// tracked insertions and smart tags
func (p *Paragraph) Runs() []*Run {
	runs := []*Run{}
	collectRuns(p.part, p.n, &runs)
	return runs
}

func (p *Paragraph) Text() string {
	sb := strings.Builder{}
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// SetText replaces the text of the paragraph with s. The first run keeps its
// formatting and all other runs are removed.
func (p *Paragraph) SetText(s string) {
	runs := p.Runs()
	if len(runs) == 0 {
		r := &Run{part: p.part, n: newElement(p.part.w, "r")}
		p.n.append(r.n)
		r.SetText(s)
		return
	}

	runs[0].SetText(s)
	for _, r := range runs[1:] {
		r.n.parent.remove(r.n)
	}
}

// RemoveText removes every occurrence of s from the paragraph text, also when an
// occurrence is split over several runs. The formatting of the first run touched by
// an occurrence is kept for the text that remains.
func (p *Paragraph) RemoveText(s string) bool {
	if s == "" {
		return false
	}

	removed := false

	for {
		texts := p.textNodes()

		full := strings.Builder{}
		for _, t := range texts {
			full.WriteString(t.text())
		}

		start := strings.Index(full.String(), s)
		if start < 0 {
			return removed
		}

		end := start + len(s)
		offset := 0

		for _, t := range texts {
			content := t.text()
			tStart, tEnd := offset, offset+len(content)
			offset = tEnd

			if tEnd <= start || tStart >= end {
				continue
			}

			from := max(start, tStart) - tStart
			to := min(end, tEnd) - tStart

			setRunText(t, content[:from]+content[to:])
		}

		removed = true
	}
}

func (p *Paragraph) textNodes() []*node {
	texts := []*node{}
	for _, r := range p.Runs() {
		texts = append(texts, r.n.elements(p.part.w, "t")...)
	}
	return texts
}

type Run struct {
	part *Part
	n    *node
}

// Text returns the concatenated content of the text elements of the run
func (r *Run) Text() string {
	sb := strings.Builder{}
	for _, t := range r.n.elements(r.part.w, "t") {
		sb.WriteString(t.text())
	}
	return sb.String()
}

// SetText puts s into the first text element of the run and empties the others
func (r *Run) SetText(s string) {
	texts := r.n.elements(r.part.w, "t")
	if len(texts) == 0 {
		t := newElement(r.part.w, "t")
		r.n.append(t)
		texts = []*node{t}
	}

	setRunText(texts[0], s)
	for _, t := range texts[1:] {
		setRunText(t, "")
	}
}

// Replace replaces every occurrence of old with new in the run. Occurrences inside a
// single text element are replaced in place, otherwise the text of the run is moved
// into its first text element.
func (r *Run) Replace(old, new string) bool {
	if old == "" {
		return false
	}

	texts := r.n.elements(r.part.w, "t")
	replaced := false

	for _, t := range texts {
		if content := t.text(); strings.Contains(content, old) {
			setRunText(t, strings.ReplaceAll(content, old, new))
			replaced = true
		}
	}

	if replaced || len(texts) < 2 {
		return replaced
	}

	full := r.Text()
	if !strings.Contains(full, old) {
		return false
	}

	r.SetText(strings.ReplaceAll(full, old, new))
	return true
}

func setRunText(t *node, s string) {
	t.setText(s)
	t.setAttr("xml", "space", "preserve")
}

func paragraphsOf(p *Part, parent *node) []*Paragraph {
	paragraphs := []*Paragraph{}
	for _, c := range parent.children {
		if c.is(p.w, "p") {
			paragraphs = append(paragraphs, &Paragraph{part: p, n: c})
		} else if c.is(p.w, "sdt") {
			if content := c.first(p.w, "sdtContent"); content != nil {
				paragraphs = append(paragraphs, paragraphsOf(p, content)...)
			}
		}
	}
	return paragraphs
}

func tablesOf(p *Part, parent *node) []*Table {
	tables := []*Table{}
	for _, c := range parent.elements(p.w, "tbl") {
		tables = append(tables, &Table{part: p, n: c})
	}
	return tables
}

func allParagraphsOf(p *Part, parent *node) []*Paragraph {
	paragraphs := []*Paragraph{}
	for _, c := range parent.children {
		switch {
		case c.is(p.w, "p"):
			paragraphs = append(paragraphs, &Paragraph{part: p, n: c})
		case c.is(p.w, "tbl"), c.is(p.w, "tr"), c.is(p.w, "tc"), c.is(p.w, "sdt"), c.is(p.w, "sdtContent"):
			paragraphs = append(paragraphs, allParagraphsOf(p, c)...)
		}
	}
	return paragraphs
}

var runContainers = []string{"hyperlink", "ins", "smartTag", "fldSimple"}

func collectRuns(p *Part, parent *node, runs *[]*Run) {
	for _, c := range parent.children {
		if c.kind != elementNode || c.name.Space != p.w {
			continue
		}

		if c.name.Local == "r" {
			*runs = append(*runs, &Run{part: p, n: c})
			continue
		}

		for _, container := range runContainers {
			if c.name.Local == container {
				collectRuns(p, c, runs)
				break
			}
		}
	}
}

func newElement(prefix, local string) *node {
	return &node{kind: elementNode, name: xml.Name{Space: prefix, Local: local}}
}
