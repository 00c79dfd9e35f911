package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type nodeKind int

const (
	documentNode nodeKind = iota
	elementNode
	textNode
	commentNode
	procInstNode
	directiveNode
)

// node is a generic xml tree. Names keep the prefix exactly as written in the source
// (Name.Space holds the prefix, not the namespace url) so that a part can be written
// back without the namespace rewriting done by encoding/xml's encoder.
type node struct {
	kind     nodeKind
	name     xml.Name
	attr     []xml.Attr
	data     string
	target   string
	parent   *node
	children []*node
}

func parseXML(data []byte) (*node, error) {
	root := &node{kind: documentNode}
	current := root

	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{kind: elementNode, name: t.Name, attr: append([]xml.Attr{}, t.Attr...)}
			current.append(n)
			current = n
		case xml.EndElement:
			if current.kind != elementNode || current.name != t.Name {
				return nil, fmt.Errorf("failed to parse xml: unexpected end element %s", qualified(t.Name))
			}
			current = current.parent
		case xml.CharData:
			current.append(&node{kind: textNode, data: string(t)})
		case xml.Comment:
			current.append(&node{kind: commentNode, data: string(t)})
		case xml.ProcInst:
			current.append(&node{kind: procInstNode, target: t.Target, data: string(t.Inst)})
		case xml.Directive:
			current.append(&node{kind: directiveNode, data: string(t)})
		}
	}

	if current != root {
		return nil, fmt.Errorf("failed to parse xml: unclosed element %s", qualified(current.name))
	}

	return root, nil
}

func (n *node) append(child *node) {
	child.parent = n
	n.children = append(n.children, child)
}

func (n *node) remove(child *node) {
	for idx, c := range n.children {
		if c == child {
			n.children = append(n.children[:idx], n.children[idx+1:]...)
			child.parent = nil
			return
		}
	}
}

// root returns the document element
func (n *node) root() *node {
	for _, c := range n.children {
		if c.kind == elementNode {
			return c
		}
	}
	return nil
}

func (n *node) is(prefix, local string) bool {
	return n.kind == elementNode && n.name.Space == prefix && n.name.Local == local
}

func (n *node) elements(prefix, local string) []*node {
	found := []*node{}
	for _, c := range n.children {
		if c.is(prefix, local) {
			found = append(found, c)
		}
	}
	return found
}

func (n *node) first(prefix, local string) *node {
	for _, c := range n.children {
		if c.is(prefix, local) {
			return c
		}
	}
	return nil
}

func (n *node) attrValue(prefix, local string) (string, bool) {
	for _, a := range n.attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) setAttr(prefix, local, value string) {
	for idx, a := range n.attr {
		if a.Name.Space == prefix && a.Name.Local == local {
			n.attr[idx].Value = value
			return
		}
	}
	n.attr = append(n.attr, xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value})
}

// prefixFor returns the prefix bound to a namespace url on this element
func (n *node) prefixFor(namespace string) (string, bool) {
	for _, a := range n.attr {
		if a.Value != namespace {
			continue
		}
		if a.Name.Space == "xmlns" {
			return a.Name.Local, true
		}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return "", true
		}
	}
	return "", false
}

// text returns the concatenated character data of the node and its descendants
func (n *node) text() string {
	if n.kind == textNode {
		return n.data
	}

	sb := strings.Builder{}
	for _, c := range n.children {
		sb.WriteString(c.text())
	}
	return sb.String()
}

func (n *node) setText(s string) {
	n.children = nil
	n.append(&node{kind: textNode, data: s})
}

func (n *node) bytes() []byte {
	buf := &bytes.Buffer{}
	n.write(buf)
	return buf.Bytes()
}

func (n *node) write(buf *bytes.Buffer) {
	switch n.kind {
	case documentNode:
		for _, c := range n.children {
			c.write(buf)
		}
	case elementNode:
		buf.WriteByte('<')
		buf.WriteString(qualified(n.name))
		for _, a := range n.attr {
			buf.WriteByte(' ')
			buf.WriteString(qualified(a.Name))
			buf.WriteString(`="`)
			buf.WriteString(escapeAttr(a.Value))
			buf.WriteByte('"')
		}
		if len(n.children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.children {
			c.write(buf)
		}
		buf.WriteString("</")
		buf.WriteString(qualified(n.name))
		buf.WriteByte('>')
	case textNode:
		buf.WriteString(escapeText(n.data))
	case commentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.data)
		buf.WriteString("-->")
	case procInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.target)
		if n.data != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.data)
		}
		buf.WriteString("?>")
	case directiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.data)
		buf.WriteByte('>')
	}
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
	"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
