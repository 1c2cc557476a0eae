package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Renders summaries from the latest snapshot",
	Long: `Aggregates a snapshot and writes the summary JSON, mailto link, Slack message
and pull request title/body, in both the plain and the condensed variants.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, logger := setup(cmd)

		dataFile, _ := cmd.Flags().GetString("data-file")
		paths, err := summarize(ctx, cfg, logger, dataFile)
		if err != nil {
			exitWithError("Failed to generate summary", err)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringP("data-file", "f", "", "Snapshot to summarize (defaults to the latest in the data directory)")
}
