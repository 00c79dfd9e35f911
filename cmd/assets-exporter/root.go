package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/diwise/assets-exporter/internal/pkg/application/config"
	"github.com/diwise/assets-exporter/pkg/assets/client"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	debug      bool
	rateLimit  float64
	workspace  string
	siteURL    string
	apiGateway string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Export Atlassian Assets objects to csv files and word documents",
		Long: `assets-exporter reads asset objects from an Atlassian Assets workspace.

Objects are selected with an AQL query. Their attributes are flattened to a single
display value per attribute and then either written as rows of a csv file or used
to fill in the placeholders of a word document template.

Jobs are read from a yaml job file given with --config. Without a job file the
built in PiB export and vendor guide jobs are used.`,
		Version:       buildinfo.SourceVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "job file path")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "dump failed requests and responses")
	cmd.PersistentFlags().Float64Var(&flags.rateLimit, "rate-limit", 0, "max requests per second against the Assets API (0 is unlimited)")
	cmd.PersistentFlags().StringVar(&flags.workspace, "workspace", "", "workspace id, skips workspace discovery")
	cmd.PersistentFlags().StringVar(&flags.siteURL, "site-url", "", "site url, defaults to https://$ATLANTSIA_DOMAIN")
	cmd.PersistentFlags().StringVar(&flags.apiGateway, "api-gateway", client.DefaultAPIGateway, "Assets API gateway url")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "json", "log format: json or text")

	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newDocumentCmd(flags))

	return cmd
}

type session struct {
	ctx     context.Context
	logger  *slog.Logger
	assets  client.AssetsClient
	jobs    *config.Config
	cleanup func()
}

// newSession sets up logging and tracing, loads the jobs and creates an Assets API
// client from the credentials in the environment
func newSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	ctx, logger, cleanup := o11y.Init(cmd.Context(), appName, buildinfo.SourceVersion(), flags.logFormat)

	jobs, err := loadJobs(flags.configPath)
	if err != nil {
		cleanup()
		return nil, err
	}

	credentials, err := config.Credentials(ctx)
	if err != nil {
		cleanup()
		return nil, err
	}

	assets := client.NewAssetsClient(credentials, clientOptions(flags)...)

	return &session{ctx: ctx, logger: logger, assets: assets, jobs: jobs, cleanup: cleanup}, nil
}

func loadJobs(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open job file: %w", err)
	}
	defer f.Close()

	jobs, err := config.LoadConfiguration(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load job file %s: %w", path, err)
	}

	return jobs, nil
}

func clientOptions(flags *rootFlags) []client.Option {
	options := []client.Option{
		client.APIGateway(flags.apiGateway),
		client.RateLimit(flags.rateLimit, 1),
	}

	if flags.debug {
		options = append(options, client.Debug("true"))
	}

	if flags.siteURL != "" {
		options = append(options, client.SiteURL(flags.siteURL))
	}

	if flags.workspace != "" {
		options = append(options, client.Workspace(flags.workspace))
	}

	return options
}
