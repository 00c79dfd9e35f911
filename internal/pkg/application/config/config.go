package config

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/diwise/assets-exporter/internal/pkg/application/docgen"
	"github.com/diwise/assets-exporter/internal/pkg/application/export"
	"github.com/diwise/assets-exporter/internal/pkg/application/flatten"
	"github.com/diwise/assets-exporter/internal/pkg/infrastructure/docx"
	"github.com/diwise/assets-exporter/pkg/assets/client"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	yaml "gopkg.in/yaml.v2"
)

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrMissingCredentials = errors.New("missing credentials")
)

type Source struct {
	Input     bool   `yaml:"input"`
	Attribute string `yaml:"attribute"`
	Reference string `yaml:"reference"`
	Value     string `yaml:"value"`
}

type ExportConfig struct {
	Name            string   `yaml:"name"`
	Query           string   `yaml:"query"`
	ObjectTypeID    string   `yaml:"objectTypeId"`
	Columns         []string `yaml:"columns"`
	Output          string   `yaml:"output"`
	PageSize        int      `yaml:"pageSize"`
	Workers         int      `yaml:"workers"`
	ContinueOnError bool     `yaml:"continueOnError"`
	Duplicates      string   `yaml:"duplicates"`
}

type DocumentConfig struct {
	Name       string            `yaml:"name"`
	Query      string            `yaml:"query"`
	Match      string            `yaml:"match"`
	Template   string            `yaml:"template"`
	Output     string            `yaml:"output"`
	PageSize   int               `yaml:"pageSize"`
	ImageWidth string            `yaml:"imageWidth"`
	Text       map[string]Source `yaml:"text"`
	Images     map[string]string `yaml:"images"`
}

type Config struct {
	Exports   []ExportConfig   `yaml:"exports"`
	Documents []DocumentConfig `yaml:"documents"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

// Default returns the jobs used when no job file is given
func Default() *Config {
	return &Config{
		Exports:   []ExportConfig{DefaultExport},
		Documents: []DocumentConfig{DefaultDocument},
	}
}

var DefaultExport = ExportConfig{
	Name:         "pib",
	Query:        "objectTypeId = 40",
	ObjectTypeID: "40",
	Output:       "PiB_project_cleanup_LMS.csv",
}

var DefaultDocument = DocumentConfig{
	Name:     "vendor-guide",
	Query:    "objectTypeId = 40",
	Match:    "PiB",
	Template: "PiB Vendor guide T560 - ALEX_template.docx",
	Output:   "output.docx",
	Text: map[string]Source{
		"<PIB_NUMBER>":    {Input: true},
		"<CLIENT_NAME>":   {Attribute: "Vendor"},
		"<LOC>":           {Attribute: "Location"},
		"<AREA>":          {Attribute: "Area"},
		"<TELTONIKA>":     {Attribute: "Teltonika"},
		"<MODEL>":         {Reference: "Teltonika", Attribute: "Model"},
		"<WIFI_SSID>":     {Reference: "Teltonika", Attribute: "WiFi SSID"},
		"<WIFI_PASSWORD>": {Reference: "Teltonika", Attribute: "WiFi Password"},
	},
	Images: map[string]string{
		"{TELTONIKA_OLD}": "Images/teltonika_old.jpg",
		"{TELTONIKA_NEW}": "Images/teltonika_new.jpg",
	},
}

// Export returns the export job with the given name, or the first export job when
// name is empty
func (c *Config) Export(name string) (*ExportConfig, error) {
	for idx := range c.Exports {
		if name == "" || c.Exports[idx].Name == name {
			return &c.Exports[idx], nil
		}
	}
	return nil, fmt.Errorf("export %q: %w", name, ErrJobNotFound)
}

// Document returns the document job with the given name, or the first document job
// when name is empty
func (c *Config) Document(name string) (*DocumentConfig, error) {
	for idx := range c.Documents {
		if name == "" || c.Documents[idx].Name == name {
			return &c.Documents[idx], nil
		}
	}
	return nil, fmt.Errorf("document %q: %w", name, ErrJobNotFound)
}

func (e ExportConfig) Job() (export.Job, error) {
	duplicates, err := flatten.ParseDuplicatePolicy(e.Duplicates)
	if err != nil {
		return export.Job{}, fmt.Errorf("export %q: %w", e.Name, err)
	}

	policy := export.AbortOnError
	if e.ContinueOnError {
		policy = export.ContinueOnError
	}

	return export.Job{
		Name:          e.Name,
		Query:         e.Query,
		ObjectTypeID:  e.ObjectTypeID,
		Columns:       e.Columns,
		Output:        e.Output,
		PageSize:      e.PageSize,
		Workers:       e.Workers,
		FailurePolicy: policy,
		Duplicates:    duplicates,
	}, nil
}

func (d DocumentConfig) Job(number string) (docgen.Job, error) {
	var width docx.EMU

	if d.ImageWidth != "" {
		var err error
		width, err = docx.ParseLength(d.ImageWidth)
		if err != nil {
			return docgen.Job{}, fmt.Errorf("document %q: %w", d.Name, err)
		}
	}

	text := make(map[string]docgen.Source, len(d.Text))
	for placeholder, s := range d.Text {
		text[placeholder] = docgen.Source{
			Input:     s.Input,
			Attribute: s.Attribute,
			Reference: s.Reference,
			Value:     s.Value,
		}
	}

	return docgen.Job{
		Name:       d.Name,
		Query:      d.Query,
		Match:      d.Match,
		Number:     number,
		Template:   d.Template,
		Output:     d.Output,
		PageSize:   d.PageSize,
		ImageWidth: width,
		Text:       text,
		Images:     d.Images,
	}, nil
}

// Credentials reads the site and credentials of the Assets API from the environment
func Credentials(ctx context.Context) (client.Config, error) {
	cfg := client.Config{
		Domain:   env.GetVariableOrDefault(ctx, "ATLANTSIA_DOMAIN", ""),
		Email:    env.GetVariableOrDefault(ctx, "ATLANTSIA_EMAIL", ""),
		APIToken: env.GetVariableOrDefault(ctx, "ATLANTSIA_API_TOKEN", ""),
	}

	if cfg.Domain == "" || cfg.Email == "" || cfg.APIToken == "" {
		return cfg, fmt.Errorf("%w: ATLANTSIA_DOMAIN, ATLANTSIA_EMAIL and ATLANTSIA_API_TOKEN must all be set", ErrMissingCredentials)
	}

	return cfg, nil
}
