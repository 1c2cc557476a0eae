package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Runs collect and summarize in one go",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, baseLogger := setup(cmd)
		logger := baseLogger.With("run", uuid.NewString())

		started := time.Now().UTC()
		logger.Info("weekly changelog generation started", "at", started.Format(time.RFC3339))

		org, _ := cmd.Flags().GetString("org")
		if org == "" {
			org = cfg.Org
		}
		start, err := windowStart("", cfg.Window.Days, started)
		if err != nil {
			exitWithError("Invalid arguments", err)
		}

		dataFile, err := collect(ctx, cfg, logger, org, start)
		if err != nil {
			exitWithError("Failed to collect activity", err)
		}
		paths, err := summarize(ctx, cfg, logger, dataFile)
		if err != nil {
			exitWithError("Failed to generate summary", err)
		}
		logger.Info("weekly changelog generation finished", "took", time.Since(started).Round(time.Second))

		fmt.Println("Generated files:")
		fmt.Printf("  %s\n", dataFile)
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("  1. Review the files in %s\n", cfg.Output.SummaryDir)
		fmt.Println("  2. Preview the pull request body with: weekly-changelog preview")
		fmt.Println("  3. Open the pull request with: weekly-changelog publish")
	},
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
	weeklyCmd.Flags().StringP("org", "o", "", "GitHub organization (defaults to CHANGELOG_ORG)")
}
