package docgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/diwise/assets-exporter/internal/pkg/application/flatten"
	"github.com/diwise/assets-exporter/internal/pkg/application/template"
	"github.com/diwise/assets-exporter/internal/pkg/infrastructure/docx"
	"github.com/diwise/assets-exporter/pkg/assets/client"
	assetserrors "github.com/diwise/assets-exporter/pkg/assets/errors"
	"github.com/diwise/assets-exporter/pkg/assets/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
)

var ErrInvalidJob = errors.New("invalid document job")

// Source tells where the value of a text placeholder comes from. Exactly one of
// Input, Attribute or Value is used. With Reference set the attribute is read from
// the object referenced by that attribute of the matched object.
type Source struct {
	Input     bool
	Attribute string
	Reference string
	Value     string
}

type Job struct {
	Name  string
	Query string
	// Match is the attribute whose value must end with Number
	Match      string
	Number     string
	Template   string
	Output     string
	PageSize   int
	ImageWidth docx.EMU
	Text       map[string]Source
	Images     map[string]string
}

type Result struct {
	RunID      string
	ObjectID   string
	ObjectName string
	Output     string
	// Replaced holds the placeholders that were given a value
	Replaced []string
	// Unresolved holds the placeholders left as is because their value is missing
	Unresolved []string
}

type Generator interface {
	Generate(ctx context.Context, job Job) (*Result, error)
}

func New(assets client.AssetsClient) Generator {
	return &generator{assets: assets}
}

type generator struct {
	assets client.AssetsClient
}

func (g *generator) Generate(ctx context.Context, job Job) (*Result, error) {
	if err := validate(job); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Replaced: []string{}, Unresolved: []string{}}

	logger := logging.GetFromContext(ctx).With(slog.String("run_id", result.RunID), slog.String("job", job.Name))
	ctx = logging.NewContextWithLogger(ctx, logger)

	if _, err := g.assets.ResolveWorkspace(ctx); err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	objectID, attributes, err := g.findObject(ctx, job)
	if err != nil {
		return nil, err
	}

	object, err := g.assets.RetrieveObject(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve object %s: %w", objectID, err)
	}

	result.ObjectID = object.ID
	result.ObjectName = object.Name()

	logger = logger.With(slog.String("object_id", object.ID))
	logger.Info("found object", "name", object.Name(), "match", job.Match, "number", job.Number)

	references, err := g.resolveReferences(ctx, job, attributes)
	if err != nil {
		return nil, err
	}

	text := map[string]string{}
	rec := flatten.Flatten(attributes)

	for _, placeholder := range sortedPlaceholders(job.Text) {
		source := job.Text[placeholder]

		var v flatten.Value
		switch {
		case source.Input:
			v = flatten.Of(job.Number)
		case source.Reference != "":
			v = references[source.Reference].Get(source.Attribute)
		case source.Attribute != "":
			v = rec.Get(source.Attribute)
		default:
			v = flatten.Of(source.Value)
		}

		if s, ok := v.Get(); ok {
			text[placeholder] = s
			result.Replaced = append(result.Replaced, placeholder)
		} else {
			result.Unresolved = append(result.Unresolved, placeholder)
		}
	}

	if len(result.Unresolved) > 0 {
		logger.Warn("placeholders without value are left as is", "placeholders", strings.Join(result.Unresolved, ","))
	}

	doc, err := docx.Open(job.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", job.Template, err)
	}

	opts := []template.Option{}
	if job.ImageWidth > 0 {
		opts = append(opts, template.ImageWidth(job.ImageWidth))
	}

	if err = template.Substitute(doc, text, job.Images, opts...); err != nil {
		return nil, fmt.Errorf("failed to fill in template: %w", err)
	}

	if err = doc.Save(job.Output); err != nil {
		return nil, err
	}

	result.Output = job.Output

	logger.Info("document saved", "output", job.Output, "replaced", len(result.Replaced))

	return result, nil
}

// findObject returns the first object, in query order, whose match attribute ends
// with the requested number
func (g *generator) findObject(ctx context.Context, job Job) (string, []types.AttributeRecord, error) {
	for o, err := range g.assets.Objects(ctx, job.Query, job.PageSize) {
		if err != nil {
			return "", nil, fmt.Errorf("failed to query objects: %w", err)
		}

		attributes, err := g.assets.RetrieveObjectAttributes(ctx, o.ID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to retrieve attributes of %s: %w", o.ID, err)
		}

		if v, ok := flatten.Flatten(attributes).Get(job.Match).Get(); ok && strings.HasSuffix(v, job.Number) {
			return o.ID, attributes, nil
		}
	}

	return "", nil, fmt.Errorf("no object where %s ends with %s (%w)", job.Match, job.Number, assetserrors.ErrNotFound)
}

// resolveReferences fetches the attributes of the objects referenced by the matched
// object, one fetch per reference attribute named by the text sources. A reference
// attribute without a referenced object gives an empty record.
func (g *generator) resolveReferences(ctx context.Context, job Job, attributes []types.AttributeRecord) (map[string]flatten.Record, error) {
	references := map[string]flatten.Record{}

	for _, placeholder := range sortedPlaceholders(job.Text) {
		name := job.Text[placeholder].Reference
		if name == "" {
			continue
		}

		if _, done := references[name]; done {
			continue
		}

		refs := types.ReferencesOf(attributes, name)
		if len(refs) == 0 {
			references[name] = flatten.NewRecord(nil)
			continue
		}

		referenced, err := g.assets.RetrieveObjectAttributes(ctx, refs[0].ObjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %s to %s: %w", name, refs[0].ObjectID, err)
		}

		logging.GetFromContext(ctx).Debug("resolved reference", "attribute", name, "referenced_id", refs[0].ObjectID)

		references[name] = flatten.Flatten(referenced)
	}

	return references, nil
}

func validate(job Job) error {
	missing := []string{}
	for field, value := range map[string]string{
		"query": job.Query, "match": job.Match, "number": job.Number,
		"template": job.Template, "output": job.Output,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %q is missing %s", ErrInvalidJob, job.Name, strings.Join(missing, ", "))
	}

	for placeholder, source := range job.Text {
		if source.Reference != "" && source.Attribute == "" {
			return fmt.Errorf("%w: %s names a reference but no attribute", ErrInvalidJob, placeholder)
		}
		if source.Input && (source.Attribute != "" || source.Value != "") {
			return fmt.Errorf("%w: %s has more than one source", ErrInvalidJob, placeholder)
		}
		if source.Attribute != "" && source.Value != "" {
			return fmt.Errorf("%w: %s has more than one source", ErrInvalidJob, placeholder)
		}
	}

	return nil
}

func sortedPlaceholders(m map[string]Source) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
