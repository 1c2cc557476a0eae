package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collects a week of organization activity into a JSON snapshot",
	Long: `Collects issues, pull requests, commits, new contributors and recent changelog
entries for every public repository of the organization and saves them as
weekly_changelog_<start>_to_<end>.json in the data directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, logger := setup(cmd)

		org, _ := cmd.Flags().GetString("org")
		if org == "" {
			org = cfg.Org
		}
		since, _ := cmd.Flags().GetString("since")
		start, err := windowStart(since, cfg.Window.Days, time.Now().UTC())
		if err != nil {
			exitWithError("Invalid arguments", err)
		}

		path, err := collect(ctx, cfg, logger, org, start)
		if err != nil {
			exitWithError("Failed to collect activity", err)
		}
		fmt.Println(path)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("org", "o", "", "GitHub organization (defaults to CHANGELOG_ORG)")
	collectCmd.Flags().String("since", "", "Start of the window (YYYY-MM-DD, defaults to CHANGELOG_WINDOW_DAYS ago)")
}
