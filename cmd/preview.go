package cmd

import (
	"fmt"
	"os"

	"github.com/naka-gawa/weekly-changelog/internal/render"
	"github.com/naka-gawa/weekly-changelog/internal/storage"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Shows the latest pull request body rendered for the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := setup(cmd)

		condensed, _ := cmd.Flags().GetBool("condensed")
		style, _ := cmd.Flags().GetString("style")
		width, _ := cmd.Flags().GetInt("width")

		store := storage.NewStore(cfg.Output.DataDir, cfg.Output.SummaryDir)
		titleFile, bodyFile, err := store.LatestPRFiles(condensed)
		if err != nil {
			exitWithError("Failed to find PR content", err)
		}
		title, err := storage.ReadTrimmed(titleFile)
		if err != nil {
			exitWithError("Failed to read PR title", err)
		}
		body, err := storage.ReadTrimmed(bodyFile)
		if err != nil {
			exitWithError("Failed to read PR body", err)
		}

		out, err := render.Terminal(body, style, width)
		if err != nil {
			exitWithError("Failed to render preview", err)
		}
		fmt.Fprintln(os.Stdout, title)
		fmt.Fprint(os.Stdout, out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Bool("condensed", false, "Preview the condensed variant")
	previewCmd.Flags().String("style", "", "glamour style name or JSON style path (auto-detected when empty)")
	previewCmd.Flags().Int("width", render.DefaultWidth, "Word wrap width")
}
