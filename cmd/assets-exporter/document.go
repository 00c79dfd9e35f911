package main

import (
	"fmt"

	"github.com/diwise/assets-exporter/internal/pkg/application/docgen"
	"github.com/spf13/cobra"
)

func newDocumentCmd(root *rootFlags) *cobra.Command {
	var flags struct {
		job      string
		number   string
		template string
		output   string
	}

	cmd := &cobra.Command{
		Use:   "document",
		Short: "Fill in a word document template for one object",
		Long: `Document finds the first object whose match attribute ends with the given
number and fills in the placeholders of a word document template with its
attributes, attributes of the objects it references and inserted images.

Examples:
  # vendor guide for PiB 138
  assets-exporter document --number 138

  # a named job with a different template
  assets-exporter document --config jobs.yaml --job vendor-guide --number 138 --template guide.docx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.cleanup()

			cfg, err := s.jobs.Document(flags.job)
			if err != nil {
				return err
			}

			job, err := cfg.Job(flags.number)
			if err != nil {
				return err
			}

			if flags.template != "" {
				job.Template = flags.template
			}
			if flags.output != "" {
				job.Output = flags.output
			}

			result, err := docgen.New(s.assets).Generate(s.ctx, job)
			if err != nil {
				s.logger.Error("document generation failed", "job", job.Name, "err", err.Error())
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "object %s (%s) saved to %s\n", result.ObjectID, result.ObjectName, result.Output)

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.job, "job", "", "name of the document job, defaults to the first one")
	cmd.Flags().StringVarP(&flags.number, "number", "n", "", "number the match attribute must end with")
	cmd.Flags().StringVar(&flags.template, "template", "", "template file, overrides the job")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, overrides the job")

	cmd.MarkFlagRequired("number")

	return cmd
}
