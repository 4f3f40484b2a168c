// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-insights",
	Short: "An HTTP gateway and CLI for GitHub profile insights.",
	Long: `github-insights serves reshaped GitHub profile data over HTTP:
profile summaries, repositories ranked by stars, aggregated language usage,
pinned repositories, star statistics and profile recommendations.
The same queries can be run once from the command line.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to an optional .env file")
}
