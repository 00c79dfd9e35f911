package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diwise/assets-exporter/internal/pkg/application/flatten"
	"github.com/diwise/assets-exporter/internal/pkg/application/projection"
	"github.com/diwise/assets-exporter/internal/pkg/application/schema"
	"github.com/diwise/assets-exporter/pkg/assets/client"
	"github.com/diwise/assets-exporter/pkg/assets/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidJob = errors.New("invalid export job")

type FailurePolicy int

const (
	// AbortOnError stops the run at the first object that can not be exported
	AbortOnError FailurePolicy = iota
	// ContinueOnError records failed objects in the report and exports the rest
	ContinueOnError
)

// DefaultColumns is the header of a PiB export. The first column holds the object id
// and the rest are filled from the object type schema, in schema order.
var DefaultColumns = []string{
	"object_id", "Key", "Created", "Updated", "PiB", "Model", "Location",
	"Area", "Machine", "Vendor", "Teltonika", "Virtual Machines", "Software",
	"Licenses", "Status", "Service Tag", "Express Service Code", "MAC Address",
	"Requestor Initials", "Project", "Standard Support Expiry",
	"Extended Support Expiry", "Last SSH Login", "Last VM Login",
	"Last WebUI Login", "Vendor Guide", "ThinManager Product Key",
	"Serial Number",
}

type Job struct {
	Name  string
	Query string
	// ObjectTypeID selects the schema used for every row. When empty the schema of
	// each object's own type is used.
	ObjectTypeID  string
	Columns       []string
	Output        string
	PageSize      int
	Workers       int
	FailurePolicy FailurePolicy
	Duplicates    flatten.DuplicatePolicy
}

type Failure struct {
	ObjectID string
	Err      error
}

type Report struct {
	RunID    string
	Job      string
	Objects  int
	Rows     int
	Skipped  int
	Failures []Failure
	Output   string
}

type Exporter interface {
	// Export runs the job and returns the resulting table without writing it anywhere
	Export(ctx context.Context, job Job) (*projection.Table, *Report, error)
	// Run exports and writes the table to the output of the job. Nothing is written
	// when the export fails.
	Run(ctx context.Context, job Job) (*Report, error)
}

func New(assets client.AssetsClient) Exporter {
	return &exporter{assets: assets}
}

type exporter struct {
	assets client.AssetsClient
}

type outcome struct {
	objectID string
	row      projection.Row
	skipped  int
	err      error
}

func (e *exporter) Run(ctx context.Context, job Job) (*Report, error) {
	if job.Output == "" {
		return nil, fmt.Errorf("%w: no output file for %q", ErrInvalidJob, job.Name)
	}

	table, report, err := e.Export(ctx, job)
	if err != nil {
		return report, err
	}

	if err = table.SaveCSV(job.Output); err != nil {
		return report, err
	}

	report.Output = job.Output

	logging.GetFromContext(ctx).Info("export written",
		"job", job.Name, "output", job.Output, "rows", report.Rows, "failures", len(report.Failures),
	)

	return report, nil
}

func (e *exporter) Export(ctx context.Context, job Job) (*projection.Table, *Report, error) {
	job, err := withDefaults(job)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{RunID: uuid.NewString(), Job: job.Name, Failures: []Failure{}}

	logger := logging.GetFromContext(ctx).With(slog.String("run_id", report.RunID), slog.String("job", job.Name))
	ctx = logging.NewContextWithLogger(ctx, logger)

	logger.Info("starting export", "query", job.Query, "workers", job.Workers)

	workspaceID, err := e.assets.ResolveWorkspace(ctx)
	if err != nil {
		logger.Error("failed to resolve workspace", "err", err.Error())
		return nil, report, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	logger.Debug("using workspace", "workspace", workspaceID)

	flattener := flatten.New(flatten.WithDuplicatePolicy(job.Duplicates))
	registry := schema.NewRegistry(e.assets)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(job.Workers)

	outcomes := []*outcome{}
	var queryErr error

	for o, err := range e.assets.Objects(gctx, job.Query, job.PageSize) {
		if gctx.Err() != nil {
			break
		}

		if err != nil {
			queryErr = err
			break
		}

		result := &outcome{objectID: o.ID}
		outcomes = append(outcomes, result)

		g.Go(func() error {
			err := e.exportObject(gctx, job, flattener, registry, result)
			if err == nil {
				return nil
			}

			var fatal fatalError
			if errors.As(err, &fatal) || job.FailurePolicy == AbortOnError {
				return err
			}

			result.err = err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("export failed", "err", err.Error())
		return nil, report, err
	}

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	if queryErr != nil {
		logger.Error("failed to query objects", "err", queryErr.Error())
		return nil, report, fmt.Errorf("failed to query objects: %w", queryErr)
	}

	table := projection.NewTable(job.Columns)

	for _, result := range outcomes {
		report.Objects++
		report.Skipped += result.skipped

		if result.err != nil {
			report.Failures = append(report.Failures, Failure{ObjectID: result.objectID, Err: result.err})
			logger.Warn("object not exported", slog.String("object_id", result.objectID), "err", result.err.Error())
			continue
		}

		table.Append(result.row)
	}

	report.Rows = table.Len()

	logger.Info("export done", "objects", report.Objects, "rows", report.Rows, "failures", len(report.Failures))

	return table, report, nil
}

// exportObject fetches, flattens and projects a single object into the outcome
func (e *exporter) exportObject(ctx context.Context, job Job, flattener flatten.Flattener, registry *schema.Registry, result *outcome) error {
	logger := logging.GetFromContext(ctx).With(slog.String("object_id", result.objectID))
	logger.Debug("processing object")

	object, err := e.assets.RetrieveObject(ctx, result.objectID)
	if err != nil {
		return fmt.Errorf("object %s: %w", result.objectID, err)
	}

	attributes, err := e.assets.RetrieveObjectAttributes(ctx, result.objectID)
	if err != nil {
		return fmt.Errorf("object %s: %w", result.objectID, err)
	}

	rec, err := flattener.Flatten(attributes)
	if err != nil {
		return fmt.Errorf("object %s: %w", result.objectID, err)
	}

	if rec.Skipped() > 0 {
		logger.Debug("skipped malformed attributes", "count", rec.Skipped())
	}

	s, err := registry.Get(ctx, objectTypeOf(job, object))
	if err != nil {
		return fatalError{err: err}
	}

	result.row = projection.Prepend(projection.ProjectRow(rec, s), flatten.Of(result.objectID))
	result.skipped = rec.Skipped()

	return nil
}

func objectTypeOf(job Job, object *types.Object) string {
	if job.ObjectTypeID != "" {
		return job.ObjectTypeID
	}
	return object.ObjectType.ID
}

func withDefaults(job Job) (Job, error) {
	if job.Query == "" {
		return job, fmt.Errorf("%w: no query for %q", ErrInvalidJob, job.Name)
	}

	if len(job.Columns) == 0 {
		job.Columns = DefaultColumns
	}

	if job.PageSize <= 0 {
		job.PageSize = client.DefaultPageSize
	}

	if job.Workers < 1 {
		job.Workers = 1
	}

	return job, nil
}

// fatalError marks failures that stop the run regardless of the failure policy
type fatalError struct {
	err error
}

func (f fatalError) Error() string {
	return f.err.Error()
}

func (f fatalError) Unwrap() error {
	return f.err
}
