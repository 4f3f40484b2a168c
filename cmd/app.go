package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/naka-gawa/github-insights/internal/config"
	"github.com/naka-gawa/github-insights/internal/gateway"
	"github.com/naka-gawa/github-insights/internal/lib/sl"
	"github.com/naka-gawa/github-insights/internal/usecase"
	"github.com/spf13/cobra"
)

// app bundles the dependencies shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	aggregator *usecase.Aggregator
}

// newApp loads the configuration and wires the gateway and use cases.
// When quiet is set, logs are discarded unless --verbose was given.
func newApp(cmd *cobra.Command, quiet bool) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if quiet && !verbose {
		out = io.Discard
	}
	logger := sl.New(out, cfg.LogFormat, verbose)

	fetcher, err := gateway.NewGitHubGateway(cfg.GitHub.Token, gateway.Options{
		APIURL:            cfg.GitHub.APIURL,
		GraphQLURL:        cfg.GitHub.GraphQLURL,
		Timeout:           cfg.GitHub.Timeout,
		MaxRateLimitSleep: cfg.GitHub.RateLimitMaxSleep,
		PerPage:           cfg.GitHub.ReposPerPage,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		aggregator: usecase.NewAggregator(fetcher, logger, cfg.GitHub.LanguageConcurrency),
	}, nil
}
