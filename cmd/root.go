// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/weekly-changelog/internal/config"
	"github.com/naka-gawa/weekly-changelog/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weekly-changelog",
	Short: "A CLI tool to summarize a GitHub organization's weekly activity.",
	Long: `weekly-changelog collects a week of issues, pull requests, commits,
new contributors and changelog entries across the public repositories of a
GitHub organization, renders summaries for email, Slack and pull requests,
and opens a pull request carrying the generated files.`,
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
}

// setup loads the configuration and builds the logger shared by a command.
// --verbose wins over LOG_LEVEL.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger) {
	cfg, err := config.LoadConfig()
	if err != nil {
		exitWithError("Failed to load configuration", err)
	}
	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger := logging.New(os.Stderr, level)
	logger.Debug("configuration loaded",
		"org", cfg.Org,
		"token", logging.MaskSensitive(cfg.GitHub.Token),
		"data_dir", cfg.Output.DataDir,
		"summary_dir", cfg.Output.SummaryDir,
	)
	return cfg, logger
}

func exitWithError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
