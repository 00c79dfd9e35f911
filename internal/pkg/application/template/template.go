package template

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/diwise/assets-exporter/internal/pkg/infrastructure/docx"
)

const DefaultImageWidth docx.EMU = 2 * docx.Inch

type options struct {
	imageWidth docx.EMU
	readFile   func(string) ([]byte, error)
}

type Option func(*options)

// ImageWidth sets the width of inserted images. The height follows from the aspect
// ratio of each image.
func ImageWidth(width docx.EMU) Option {
	return func(o *options) {
		if width > 0 {
			o.imageWidth = width
		}
	}
}

// ImageReader replaces the function used to read image files
func ImageReader(readFile func(string) ([]byte, error)) Option {
	return func(o *options) {
		o.readFile = readFile
	}
}

// Substitute fills in the placeholders of a document in place. Body paragraphs, tables
// at any depth, headers and footers are all visited.
//
// A text placeholder is only replaced when it lies within a single run, so template
// authors must keep each placeholder in one uniform formatting. When a paragraph
// contains an image placeholder the placeholder text is removed and the image, read
// from the given path, is added at the end of the paragraph. Placeholders without a
// value or that do not occur in the document are left alone.
//
// The first failing image insertion stops the substitution. Changes made before the
// failure are kept in the document.
func Substitute(doc *docx.Document, text map[string]string, images map[string]string, opts ...Option) error {
	o := &options{
		imageWidth: DefaultImageWidth,
		readFile:   os.ReadFile,
	}
	for _, opt := range opts {
		opt(o)
	}

	textKeys := sortedKeys(text)
	imageKeys := sortedKeys(images)
	cache := map[string][]byte{}

	for _, part := range doc.Parts() {
		for _, p := range part.AllParagraphs() {
			replaceText(p, textKeys, text)

			if err := insertImages(p, imageKeys, images, cache, o); err != nil {
				return fmt.Errorf("%s: %w", part.Name(), err)
			}
		}
	}

	return nil
}

func replaceText(p *docx.Paragraph, placeholders []string, text map[string]string) {
	for _, placeholder := range placeholders {
		if !strings.Contains(p.Text(), placeholder) {
			continue
		}

		for _, r := range p.Runs() {
			r.Replace(placeholder, text[placeholder])
		}
	}
}

func insertImages(p *docx.Paragraph, placeholders []string, images map[string]string, cache map[string][]byte, o *options) error {
	for _, placeholder := range placeholders {
		if !strings.Contains(p.Text(), placeholder) {
			continue
		}

		path := images[placeholder]

		data, ok := cache[path]
		if !ok {
			var err error
			data, err = o.readFile(path)
			if err != nil {
				return fmt.Errorf("failed to read image for %s: %w", placeholder, err)
			}
			cache[path] = data
		}

		p.RemoveText(placeholder)

		if err := p.AppendImage(data, o.imageWidth); err != nil {
			return fmt.Errorf("failed to insert image for %s: %w", placeholder, err)
		}
	}

	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
