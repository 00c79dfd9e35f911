package config

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/diwise/assets-exporter/internal/pkg/application/export"
	"github.com/diwise/assets-exporter/internal/pkg/application/flatten"
	"github.com/diwise/assets-exporter/internal/pkg/infrastructure/docx"
	"github.com/matryer/is"
)

func TestLoadConfig(t *testing.T) {
	is, config := setupConfigTest(t)

	is.Equal(len(config.Exports), 2)   // should have two export jobs
	is.Equal(len(config.Documents), 1) // should have a single document job
}

func TestLoadExport(t *testing.T) {
	is, config := setupConfigTest(t)

	e, err := config.Export("vms")
	is.NoErr(err)

	is.Equal(e.Query, `objectType = "Virtual Machine"`)
	is.Equal(e.Columns, []string{"object_id", "Name", "Host"})
	is.Equal(e.Workers, 4)

	job, err := e.Job()
	is.NoErr(err)

	is.Equal(job.FailurePolicy, export.ContinueOnError)
	is.Equal(job.Duplicates, flatten.FirstWriteWins)
	is.Equal(job.PageSize, 250)
}

func TestFirstExportIsTheDefault(t *testing.T) {
	is, config := setupConfigTest(t)

	e, err := config.Export("")
	is.NoErr(err)
	is.Equal(e.Name, "pib")

	job, err := e.Job()
	is.NoErr(err)
	is.Equal(job.FailurePolicy, export.AbortOnError)
	is.Equal(job.Duplicates, flatten.LastWriteWins)
}

func TestUnknownJob(t *testing.T) {
	is, config := setupConfigTest(t)

	_, err := config.Export("nope")
	is.True(errors.Is(err, ErrJobNotFound))

	_, err = config.Document("nope")
	is.True(errors.Is(err, ErrJobNotFound))
}

func TestLoadDocument(t *testing.T) {
	is, config := setupConfigTest(t)

	d, err := config.Document("vendor-guide")
	is.NoErr(err)

	is.Equal(d.Match, "PiB")
	is.Equal(len(d.Text), 4)
	is.Equal(d.Text["<MODEL>"].Reference, "Teltonika")
	is.Equal(d.Images["{TELTONIKA_OLD}"], "images/old.jpg")

	job, err := d.Job("138")
	is.NoErr(err)

	is.Equal(job.Number, "138")
	is.Equal(job.ImageWidth, docx.Centimeters(5))
	is.True(job.Text["<PIB_NUMBER>"].Input)
	is.Equal(job.Text["<CLIENT_NAME>"].Value, "Alex")
}

func TestInvalidSettings(t *testing.T) {
	is := is.New(t)

	_, err := ExportConfig{Name: "x", Duplicates: "sometimes"}.Job()
	is.True(err != nil)

	_, err = DocumentConfig{Name: "x", ImageWidth: "wide"}.Job("1")
	is.True(err != nil)
}

func TestDefaultConfig(t *testing.T) {
	is := is.New(t)

	cfg := Default()

	e, err := cfg.Export("")
	is.NoErr(err)
	is.Equal(e.ObjectTypeID, "40")

	d, err := cfg.Document("")
	is.NoErr(err)
	is.True(d.Text["<PIB_NUMBER>"].Input)
}

func TestCredentials(t *testing.T) {
	is := is.New(t)

	t.Setenv("ATLANTSIA_DOMAIN", "example.atlassian.net")
	t.Setenv("ATLANTSIA_EMAIL", "ops@example.com")
	t.Setenv("ATLANTSIA_API_TOKEN", "s3cr3t")

	cfg, err := Credentials(context.Background())
	is.NoErr(err)
	is.Equal(cfg.Domain, "example.atlassian.net")
	is.Equal(cfg.Email, "ops@example.com")

	t.Setenv("ATLANTSIA_API_TOKEN", "")

	_, err = Credentials(context.Background())
	is.True(errors.Is(err, ErrMissingCredentials))
}

func setupConfigTest(t *testing.T) (*is.I, *Config) {
	is := is.New(t)
	cfgData := bytes.NewBuffer([]byte(configFile))
	config, err := LoadConfiguration(cfgData)
	is.NoErr(err)

	return is, config
}

var configFile string = `
exports:
  - name: pib
    query: objectTypeId = 40
    objectTypeId: "40"
    output: PiB_project_cleanup_LMS.csv
  - name: vms
    query: objectType = "Virtual Machine"
    columns: [object_id, Name, Host]
    output: vms.csv
    pageSize: 250
    workers: 4
    continueOnError: true
    duplicates: first
documents:
  - name: vendor-guide
    query: objectTypeId = 40
    match: PiB
    template: templates/vendor-guide.docx
    output: out/vendor-guide.docx
    imageWidth: 5cm
    text:
      "<PIB_NUMBER>": {input: true}
      "<CLIENT_NAME>": {value: Alex}
      "<LOC>": {attribute: Location}
      "<MODEL>": {reference: Teltonika, attribute: Model}
    images:
      "{TELTONIKA_OLD}": images/old.jpg
`
