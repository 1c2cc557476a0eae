package render

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

const (
	mailtoMaxKeyChanges = 10
	mailtoMaxRepos      = 5
	mailtoKeyChangeRoom = 1500
	mailtoRepoRoom      = 1800
)

// MailtoLink renders a mailto URI whose body stays short enough for mail clients.
// Key changes stop once the body nears 1500 characters and the repository list
// once it nears 1800.
func MailtoLink(summary *domain.Summary) string {
	start, end := summary.Period.Start, summary.Period.End
	subject := fmt.Sprintf("Weekly Changelog Summary (%s to %s)", start, end)

	lines := []string{
		fmt.Sprintf("Weekly Development Summary: %s to %s", start, end),
		"",
		"Overview:",
		fmt.Sprintf("• %d of %d repos with activity", summary.ActiveRepos, summary.TotalRepos),
		fmt.Sprintf("• %d commits, %d PRs, %d issues", summary.TotalCommits, summary.TotalPulls, summary.TotalIssues),
		"",
	}

	if len(summary.KeyChanges) > 0 {
		lines = append(lines, "Key Changes:")
		for _, change := range firstN(summary.KeyChanges, mailtoMaxKeyChanges) {
			line := "• " + change
			if joinedLen(lines)+utf8.RuneCountInString(line) >= mailtoKeyChangeRoom {
				lines = append(lines, "• ... and more")
				break
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}

	if len(summary.ReposWithActivity) > 0 {
		lines = append(lines, "Most Active Repos:")
		for _, repo := range firstRepos(byActivity(summary.ReposWithActivity), mailtoMaxRepos) {
			if joinedLen(lines)+utf8.RuneCountInString("• "+repo.Name) >= mailtoRepoRoom {
				break
			}
			lines = append(lines, fmt.Sprintf("• %s: %d commits, %d PRs", repo.Name, repo.Commits, repo.Pulls))
		}
	}

	body := strings.Join(lines, "\n")
	return fmt.Sprintf("mailto:?subject=%s&body=%s", encode(subject), encode(body))
}

// encode percent-encodes s, spaces included.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// joinedLen is the length in characters of the lines joined by single spaces.
func joinedLen(lines []string) int {
	n := 0
	for _, l := range lines {
		n += utf8.RuneCountInString(l)
	}
	if len(lines) > 1 {
		n += len(lines) - 1
	}
	return n
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func firstRepos(repos []domain.RepoSummary, n int) []domain.RepoSummary {
	if len(repos) < n {
		return repos
	}
	return repos[:n]
}
