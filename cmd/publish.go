package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/naka-gawa/weekly-changelog/internal/config"
	"github.com/naka-gawa/weekly-changelog/internal/gateway"
	"github.com/naka-gawa/weekly-changelog/internal/publish"
	"github.com/naka-gawa/weekly-changelog/internal/storage"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commits the generated files and opens a pull request",
	Long: `Commits the changelog data on a weekly-changelog-<date> branch, pushes it and
opens a pull request with the latest rendered title and body. The gh CLI is
used when installed; otherwise the GitHub REST API is called directly.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, logger := setup(cmd)

		if err := config.ValidatePublishConfig(cfg); err != nil {
			exitWithError("Invalid configuration", err)
		}
		owner, repo, _ := config.SplitRepository(cfg.GitHub.Repository)

		condensed, _ := cmd.Flags().GetBool("condensed")
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
		logger.Info("publishing", "title", title)

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger)
		if err != nil {
			exitWithError("Failed to create GitHub gateway", err)
		}
		publisher := publish.NewPublisher(publish.ExecRunner{}, githubGateway, publish.Options{
			Owner: owner,
			Repo:  repo,
			Base:  cfg.GitHub.BaseBranch,
		}, logger)

		url, err := publisher.Publish(ctx, title, body)
		if err != nil {
			exitWithError("Failed to create pull request", err)
		}

		name := storage.ArtifactName("pr_url", storage.Stamp(time.Now()), "txt")
		if _, err := store.WriteArtifacts(ctx, []storage.Artifact{storage.TextArtifact(name, url)}); err != nil {
			exitWithError("Failed to save PR URL", err)
		}
		fmt.Println(url)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().Bool("condensed", false, "Use the condensed PR title and body")
}
