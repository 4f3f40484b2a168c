package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/naka-gawa/github-insights/internal/usecase"
	"github.com/spf13/cobra"
)

// queryFunc runs one use case for a username and returns a JSON-encodable result.
type queryFunc func(ctx context.Context, a *usecase.Aggregator, username string) (any, error)

// newQueryCmd builds a command that runs a single query and prints the result as JSON.
func newQueryCmd(use, short string, run queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, true)
			if err != nil {
				return err
			}

			result, err := run(cmd.Context(), a.aggregator, args[0])
			if err != nil {
				return fmt.Errorf("failed to run %s query: %w", use, err)
			}

			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(
		newQueryCmd("profile", "Prints a user's profile summary", func(ctx context.Context, a *usecase.Aggregator, username string) (any, error) {
			return a.Profile(ctx, username)
		}),
		newQueryCmd("repos", "Prints a user's repositories ranked by stars", func(ctx context.Context, a *usecase.Aggregator, username string) (any, error) {
			return a.Repositories(ctx, username)
		}),
		newQueryCmd("languages", "Prints the bytes of code per language across a user's repositories", func(ctx context.Context, a *usecase.Aggregator, username string) (any, error) {
			return a.Languages(ctx, username)
		}),
		newQueryCmd("recommendations", "Prints suggestions for improving a user's profile", func(ctx context.Context, a *usecase.Aggregator, username string) (any, error) {
			return a.Recommendations(ctx, username)
		}),
		newQueryCmd("pinned", "Prints a user's pinned repositories", func(ctx context.Context, a *usecase.Aggregator, username string) (any, error) {
			return a.PinnedRepositories(ctx, username)
		}),
		newQueryCmd("stats", "Prints star and fork statistics over a user's repositories", func(ctx context.Context, a *usecase.Aggregator, username string) (any, error) {
			return a.RepositoryStats(ctx, username)
		}),
	)
}
