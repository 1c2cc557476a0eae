package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/weekly-changelog/internal/config"
	"github.com/naka-gawa/weekly-changelog/internal/gateway"
	"github.com/naka-gawa/weekly-changelog/internal/render"
	"github.com/naka-gawa/weekly-changelog/internal/storage"
	"github.com/naka-gawa/weekly-changelog/internal/usecase"
)

const sinceLayout = "2006-01-02"

// windowStart resolves --since, defaulting to the configured number of days ago.
func windowStart(since string, days int, now time.Time) (time.Time, error) {
	if since == "" {
		return now.AddDate(0, 0, -days), nil
	}
	t, err := time.Parse(sinceLayout, since)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since date %q, use YYYY-MM-DD: %w", since, err)
	}
	return t, nil
}

// collect fetches the organization's activity and saves the snapshot,
// returning the snapshot path.
func collect(ctx context.Context, cfg *config.Config, logger *log.Logger, org string, start time.Time) (string, error) {
	if err := config.ValidateGitHubConfig(cfg); err != nil {
		return "", err
	}
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub.Token, logger)
	if err != nil {
		return "", fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	collector := usecase.NewCollector(githubGateway, logger)
	snapshot, err := collector.Collect(ctx, org, &start)
	if err != nil {
		return "", err
	}

	store := storage.NewStore(cfg.Output.DataDir, cfg.Output.SummaryDir)
	path, err := store.SaveSnapshot(snapshot)
	if err != nil {
		return "", err
	}
	logger.Info("snapshot saved", "path", path, "repos", len(snapshot.Repos))
	return path, nil
}

// summarize aggregates a snapshot and writes every summary artifact. An empty
// dataFile selects the latest snapshot.
func summarize(ctx context.Context, cfg *config.Config, logger *log.Logger, dataFile string) ([]string, error) {
	store := storage.NewStore(cfg.Output.DataDir, cfg.Output.SummaryDir)
	if dataFile == "" {
		latest, err := store.LatestSnapshotPath()
		if err != nil {
			return nil, err
		}
		dataFile = latest
	}
	logger.Info("generating summaries", "from", dataFile)

	snapshot, err := storage.LoadSnapshot(dataFile)
	if err != nil {
		return nil, err
	}

	aggregator := usecase.NewAggregator(logger)
	summary := aggregator.Aggregate(snapshot)
	condensed := aggregator.Condense(snapshot)
	logger.Info("summary stats", "active", summary.ActiveRepos, "total", summary.TotalRepos, "changes", condensed.ChangeCounts)

	stamp := storage.Stamp(time.Now())
	summaryJSON, err := storage.JSONArtifact(storage.ArtifactName("summary", stamp, "json"), summary)
	if err != nil {
		return nil, err
	}
	condensedJSON, err := storage.JSONArtifact(storage.ArtifactName("summary_condensed", stamp, "json"), condensed)
	if err != nil {
		return nil, err
	}
	prTitle, prBody := render.PRContent(summary)
	condensedTitle, condensedBody := render.CondensedPRContent(condensed)

	return store.WriteArtifacts(ctx, []storage.Artifact{
		summaryJSON,
		storage.TextArtifact(storage.ArtifactName("mailto", stamp, "txt"), render.MailtoLink(summary)),
		storage.TextArtifact(storage.ArtifactName("slack", stamp, "txt"), render.SlackMessage(summary)),
		storage.TextArtifact(storage.ArtifactName("pr_title", stamp, "txt"), prTitle),
		storage.TextArtifact(storage.ArtifactName("pr_body", stamp, "md"), prBody),
		condensedJSON,
		storage.TextArtifact(storage.ArtifactName("pr_title_condensed", stamp, "txt"), condensedTitle),
		storage.TextArtifact(storage.ArtifactName("pr_body_condensed", stamp, "md"), condensedBody),
	})
}
