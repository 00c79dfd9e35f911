package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strconv"
	"strings"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

var imageFormats = map[string]struct {
	extension   string
	contentType string
}{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
}

const drawingTemplate string = `<{{w}}:r><{{w}}:drawing>` +
	`<wp:inline distT="0" distB="0" distL="0" distR="0" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
	`<wp:extent cx="{{cx}}" cy="{{cy}}"/>` +
	`<wp:docPr id="{{id}}" name="Picture {{id}}"/>` +
	`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" noChangeAspect="1"/></wp:cNvGraphicFramePr>` +
	`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
	`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:nvPicPr><pic:cNvPr id="0" name="{{name}}"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="{{rid}}" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="{{cx}}" cy="{{cy}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline></{{w}}:drawing></{{w}}:r>`

// AppendImage adds the image as a new run at the end of the paragraph. The image is
// scaled to the given width with its aspect ratio kept.
func (p *Paragraph) AppendImage(data []byte, width EMU) error {
	if width <= 0 {
		return fmt.Errorf("image width must be positive")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}

	f, ok := imageFormats[format]
	if !ok || cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}

	height := EMU(int64(width) * int64(cfg.Height) / int64(cfg.Width))

	d := p.part.doc
	mediaName := d.newMediaName(f.extension)

	rels, err := d.relationshipsFor(p.part.name)
	if err != nil {
		return err
	}

	if err := d.ensureContentType(f.extension, f.contentType); err != nil {
		return err
	}

	d.addEntry(mediaName, data)
	rid := rels.add(relImage, relativeTarget(p.part.name, mediaName))

	w := p.part.w
	if w == "" {
		w = "w"
	}

	snippet := strings.NewReplacer(
		"{{w}}", w,
		"{{cx}}", strconv.FormatInt(int64(width), 10),
		"{{cy}}", strconv.FormatInt(int64(height), 10),
		"{{id}}", strconv.Itoa(d.newDrawingID()),
		"{{name}}", path.Base(mediaName),
		"{{rid}}", rid,
	).Replace(drawingTemplate)

	frag, err := parseXML([]byte(snippet))
	if err != nil {
		return fmt.Errorf("failed to build drawing: %w", err)
	}

	run := frag.root()
	if p.part.w == "" {
		// the part uses a default namespace so the run elements must not be prefixed
		unprefix(run, "w")
	}

	p.n.append(run)
	return nil
}

// newMediaName returns an unused part name for an image, next to the main document
func (d *Document) newMediaName(extension string) string {
	dir := path.Join(path.Dir(d.body.name), "media")

	for n := 1; ; n++ {
		name := path.Join(dir, "image"+strconv.Itoa(n)+"."+extension)
		if !d.hasEntry(name) {
			return name
		}
	}
}

// newDrawingID returns a drawing object id that is not used by any part of the document
func (d *Document) newDrawingID() int {
	if d.lastDrawingID == 0 {
		for _, part := range d.Parts() {
			if n := highestDocPrID(part.content); n > d.lastDrawingID {
				d.lastDrawingID = n
			}
		}
	}

	d.lastDrawingID++
	return d.lastDrawingID
}

func highestDocPrID(n *node) int {
	highest := 0

	if n.kind == elementNode && n.name.Local == "docPr" {
		if id, ok := n.attrValue("", "id"); ok {
			if v, err := strconv.Atoi(id); err == nil {
				highest = v
			}
		}
	}

	for _, c := range n.children {
		highest = max(highest, highestDocPrID(c))
	}

	return highest
}

func relativeTarget(sourcePart, target string) string {
	dir := path.Dir(sourcePart) + "/"
	if dir != "./" && strings.HasPrefix(target, dir) {
		return strings.TrimPrefix(target, dir)
	}
	if dir == "./" {
		return target
	}
	return "/" + target
}

func unprefix(n *node, prefix string) {
	if n.kind == elementNode && n.name.Space == prefix {
		n.name.Space = ""
	}
	for _, c := range n.children {
		unprefix(c, prefix)
	}
}
