package docgen

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/diwise/assets-exporter/internal/pkg/infrastructure/docx"
	assetserrors "github.com/diwise/assets-exporter/pkg/assets/errors"
	"github.com/diwise/assets-exporter/pkg/assets/test"
	"github.com/diwise/assets-exporter/pkg/assets/types"
	"github.com/matryer/is"
)

func TestGenerateFillsInTemplate(t *testing.T) {
	is := is.New(t)

	assets := newAssetsMock()
	job := testJob(is, t.TempDir())

	result, err := New(assets).Generate(context.Background(), job)
	is.NoErr(err)

	is.Equal(result.ObjectID, "2")
	is.Equal(result.ObjectName, "PiB 138")
	is.Equal(result.Output, job.Output)
	is.Equal(result.Replaced, []string{"<CLIENT_NAME>", "<LOC>", "<MODEL>", "<PIB_NUMBER>", "<WIFI_SSID>"})
	is.Equal(result.Unresolved, []string{"<AREA>", "<WIFI_PASSWORD>"})

	doc, err := docx.Open(job.Output)
	is.NoErr(err)

	text := []string{}
	for _, p := range doc.Body().AllParagraphs() {
		text = append(text, p.Text())
	}

	is.Equal(text, []string{
		"PiB 138 for Alex at Hall 4",
		"Area <AREA>",
		"Router RUT240 on pib-138 with <WIFI_PASSWORD>",
		"",
	})

	// the reference is fetched explicitly
	calls := assets.RetrieveObjectAttributesCalls()
	is.Equal(calls[len(calls)-1].ObjectID, "2001")
}

func TestGenerateStopsAtFirstMatch(t *testing.T) {
	is := is.New(t)

	assets := newAssetsMock()
	job := testJob(is, t.TempDir())
	job.Number = "8"

	result, err := New(assets).Generate(context.Background(), job)
	is.NoErr(err)

	is.Equal(result.ObjectID, "2")
	is.Equal(len(assets.RetrieveObjectCalls()), 1)
}

func TestGenerateWithoutMatchingObject(t *testing.T) {
	is := is.New(t)

	job := testJob(is, t.TempDir())
	job.Number = "999"

	_, err := New(newAssetsMock()).Generate(context.Background(), job)

	is.True(errors.Is(err, assetserrors.ErrNotFound))

	_, err = os.Stat(job.Output)
	is.True(os.IsNotExist(err))
}

func TestGenerateFailsOnUnresolvableReference(t *testing.T) {
	is := is.New(t)

	assets := newAssetsMock()
	attributes := assets.RetrieveObjectAttributesFunc
	assets.RetrieveObjectAttributesFunc = func(ctx context.Context, objectID string) ([]types.AttributeRecord, error) {
		if objectID == "2001" {
			return nil, assetserrors.NewForbiddenError("no access")
		}
		return attributes(ctx, objectID)
	}

	job := testJob(is, t.TempDir())

	_, err := New(assets).Generate(context.Background(), job)

	is.True(errors.Is(err, assetserrors.ErrForbidden))
}

func TestGenerateValidatesJob(t *testing.T) {
	is := is.New(t)

	_, err := New(newAssetsMock()).Generate(context.Background(), Job{Name: "empty"})
	is.True(errors.Is(err, ErrInvalidJob))

	job := testJob(is, t.TempDir())
	job.Text = map[string]Source{"<X>": {Reference: "Teltonika"}}

	_, err = New(newAssetsMock()).Generate(context.Background(), job)
	is.True(errors.Is(err, ErrInvalidJob))
}

func newAssetsMock() *test.AssetsClientMock {
	objects := []types.Object{{ID: "1", Label: "PiB 137"}, {ID: "2", Label: "PiB 138"}, {ID: "3", Label: "PiB 1138"}}

	attributes := map[string][]types.AttributeRecord{
		"1": {types.NewAttributeRecord("PiB", types.NewTextValue("PIB-137"))},
		"2": {
			types.NewAttributeRecord("PiB", types.NewTextValue("PIB-138")),
			types.NewAttributeRecord("Vendor", types.NewTextValue("Alex")),
			types.NewAttributeRecord("Location", types.NewTextValue("Hall 4")),
			types.NewAttributeRecord("Area"),
			types.NewAttributeRecord("Teltonika", types.NewReferenceValue("2001", "TEL-1", "RUT240 #1")),
		},
		"3":    {types.NewAttributeRecord("PiB", types.NewTextValue("PIB-1138"))},
		"2001": {types.NewAttributeRecord("Model", types.NewTextValue("RUT240")), types.NewAttributeRecord("WiFi SSID", types.NewTextValue("pib-138"))},
	}

	return &test.AssetsClientMock{
		ResolveWorkspaceFunc: func(ctx context.Context) (string, error) {
			return "ws-1", nil
		},
		ObjectsFunc: func(ctx context.Context, aql string, pageSize int) iter.Seq2[types.Object, error] {
			return func(yield func(types.Object, error) bool) {
				for _, o := range objects {
					if !yield(o, nil) {
						return
					}
				}
			}
		},
		RetrieveObjectFunc: func(ctx context.Context, objectID string) (*types.Object, error) {
			for _, o := range objects {
				if o.ID == objectID {
					return &o, nil
				}
			}
			return nil, assetserrors.NewNotFoundError(objectID)
		},
		RetrieveObjectAttributesFunc: func(ctx context.Context, objectID string) ([]types.AttributeRecord, error) {
			return attributes[objectID], nil
		},
	}
}

func testJob(is *is.I, dir string) Job {
	templatePath := filepath.Join(dir, "template.docx")
	is.NoErr(os.WriteFile(templatePath, templateDocx(is), 0644))

	imagePath := filepath.Join(dir, "teltonika_old.png")
	img := &bytes.Buffer{}
	is.NoErr(png.Encode(img, image.NewGray(image.Rect(0, 0, 20, 10))))
	is.NoErr(os.WriteFile(imagePath, img.Bytes(), 0644))

	return Job{
		Name:     "vendor-guide",
		Query:    "objectTypeId = 40",
		Match:    "PiB",
		Number:   "138",
		Template: templatePath,
		Output:   filepath.Join(dir, "output.docx"),
		Text: map[string]Source{
			"<PIB_NUMBER>":    {Input: true},
			"<CLIENT_NAME>":   {Value: "Alex"},
			"<LOC>":           {Attribute: "Location"},
			"<AREA>":          {Attribute: "Area"},
			"<MODEL>":         {Reference: "Teltonika", Attribute: "Model"},
			"<WIFI_SSID>":     {Reference: "Teltonika", Attribute: "WiFi SSID"},
			"<WIFI_PASSWORD>": {Reference: "Teltonika", Attribute: "WiFi Password"},
		},
		Images: map[string]string{"{TELTONIKA_OLD}": imagePath},
	}
}

func templateDocx(is *is.I) []byte {
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			`<w:p><w:r><w:t>PiB &lt;PIB_NUMBER&gt; for &lt;CLIENT_NAME&gt; at &lt;LOC&gt;</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>Area &lt;AREA&gt;</w:t></w:r></w:p>` +
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Router &lt;MODEL&gt; on &lt;WIFI_SSID&gt; with &lt;WIFI_PASSWORD&gt;</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
			`<w:p><w:r><w:t>{TELTONIKA_OLD}</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for name, content := range files {
		w, err := zw.Create(name)
		is.NoErr(err)
		_, err = w.Write([]byte(content))
		is.NoErr(err)
	}
	is.NoErr(zw.Close())

	return buf.Bytes()
}
