package main

import (
	"fmt"

	"github.com/diwise/assets-exporter/internal/pkg/application/export"
	"github.com/spf13/cobra"
)

func newExportCmd(root *rootFlags) *cobra.Command {
	var flags struct {
		job     string
		output  string
		workers int
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the objects of a query to a csv file",
		Long: `Export runs an AQL query and writes one csv row per object.

Each row starts with the object id followed by the object's attributes in the
order of its object type schema, fitted to the configured column header.

Examples:
  # export all PiB objects
  assets-exporter export

  # run the vms job with eight concurrent workers
  assets-exporter export --config jobs.yaml --job vms --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.cleanup()

			cfg, err := s.jobs.Export(flags.job)
			if err != nil {
				return err
			}

			job, err := cfg.Job()
			if err != nil {
				return err
			}

			if flags.output != "" {
				job.Output = flags.output
			}
			if flags.workers > 0 {
				job.Workers = flags.workers
			}

			report, err := export.New(s.assets).Run(s.ctx, job)
			if err != nil {
				s.logger.Error("export failed", "job", job.Name, "err", err.Error())
				return err
			}

			for _, f := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to export object %s: %s\n", f.ObjectID, f.Err.Error())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d of %d objects to %s\n", report.Rows, report.Objects, report.Output)

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.job, "job", "", "name of the export job, defaults to the first one")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, overrides the job")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "number of objects to fetch concurrently, overrides the job")

	return cmd
}
