package render

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

const (
	slackMaxKeyChanges = 8
	slackMaxRepos      = 5
)

// SlackMessage renders the summary with Slack mrkdwn emphasis.
func SlackMessage(summary *domain.Summary) string {
	lines := []string{
		fmt.Sprintf("*Weekly Changelog Summary* (%s to %s)", summary.Period.Start, summary.Period.End),
		"",
		fmt.Sprintf("• %d of %d repos with activity", summary.ActiveRepos, summary.TotalRepos),
		fmt.Sprintf("• %d commits | %d PRs | %d issues", summary.TotalCommits, summary.TotalPulls, summary.TotalIssues),
		"",
	}

	if len(summary.KeyChanges) > 0 {
		lines = append(lines, "*Key Changes:*")
		for _, change := range firstN(summary.KeyChanges, slackMaxKeyChanges) {
			lines = append(lines, "• "+change)
		}
		lines = append(lines, "")
	}

	if len(summary.ReposWithActivity) > 0 {
		lines = append(lines, "*Most Active Repos:*")
		for _, repo := range firstRepos(byActivity(summary.ReposWithActivity), slackMaxRepos) {
			lines = append(lines, fmt.Sprintf("• *%s*: %d commits, %d PRs", repo.Name, repo.Commits, repo.Pulls))
		}
	}

	return strings.Join(lines, "\n")
}
