package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

type relationships struct {
	source string
	part   string
	root   *node
}

// relationships loads the relationship part with the given name. The source part is
// derived from the name so that relative targets can be resolved.
func (d *Document) relationships(name string) (*relationships, error) {
	doc, err := d.xmlPart(name)
	if err != nil {
		return nil, err
	}

	root := doc.root()
	if root == nil || root.name.Local != "Relationships" {
		return nil, fmt.Errorf("part %s is not a relationships part", name)
	}

	return &relationships{source: sourceOf(name), part: name, root: root}, nil
}

// relationshipsFor returns the relationships of a part, creating an empty
// relationships part if the part has none
func (d *Document) relationshipsFor(partName string) (*relationships, error) {
	name := relsName(partName)

	if !d.hasEntry(name) {
		d.addEntry(name, []byte(xml.Header+`<Relationships xmlns="`+nsRelationships+`"></Relationships>`))
	}

	return d.relationships(name)
}

func (r *relationships) targets(relType string) []string {
	seen := map[string]bool{}
	found := []string{}

	for _, rel := range r.root.children {
		if rel.kind != elementNode || rel.name.Local != "Relationship" {
			continue
		}

		t, _ := rel.attrValue("", "Type")
		if t != relType {
			continue
		}

		if mode, ok := rel.attrValue("", "TargetMode"); ok && strings.EqualFold(mode, "External") {
			continue
		}

		target, _ := rel.attrValue("", "Target")
		name := resolveTarget(r.source, target)
		if !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}

	return found
}

// add appends a relationship and returns its id. Ids are of the form rIdN with N one
// above the highest numbered id already in use.
func (r *relationships) add(relType, target string) string {
	highest := 0
	prefix := r.root.name.Space

	for _, rel := range r.root.children {
		if rel.kind != elementNode || rel.name.Local != "Relationship" {
			continue
		}

		id, _ := rel.attrValue("", "Id")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > highest {
			highest = n
		}
	}

	id := "rId" + strconv.Itoa(highest+1)

	r.root.append(&node{
		kind: elementNode,
		name: xml.Name{Space: prefix, Local: "Relationship"},
		attr: []xml.Attr{
			{Name: xml.Name{Local: "Id"}, Value: id},
			{Name: xml.Name{Local: "Type"}, Value: relType},
			{Name: xml.Name{Local: "Target"}, Value: target},
		},
	})

	return id
}

// ensureContentType registers a default content type for a file extension unless the
// extension already has one
func (d *Document) ensureContentType(extension, contentType string) error {
	doc, err := d.xmlPart(contentTypesName)
	if err != nil {
		return err
	}

	root := doc.root()
	if root == nil {
		return fmt.Errorf("part %s has no root element", contentTypesName)
	}

	for _, c := range root.children {
		if c.kind != elementNode || c.name.Local != "Default" {
			continue
		}
		if ext, _ := c.attrValue("", "Extension"); strings.EqualFold(ext, extension) {
			return nil
		}
	}

	root.append(&node{
		kind: elementNode,
		name: xml.Name{Space: root.name.Space, Local: "Default"},
		attr: []xml.Attr{
			{Name: xml.Name{Local: "Extension"}, Value: extension},
			{Name: xml.Name{Local: "ContentType"}, Value: contentType},
		},
	})

	return nil
}

// sourceOf returns the part that a relationships part belongs to, e.g.
// word/_rels/document.xml.rels belongs to word/document.xml
func sourceOf(relsPart string) string {
	dir, file := splitLast(relsPart)
	dir = strings.TrimSuffix(dir, "_rels/")
	return dir + strings.TrimSuffix(file, ".rels")
}

func splitLast(name string) (string, string) {
	idx := strings.LastIndex(name, "/")
	return name[:idx+1], name[idx+1:]
}
