package render

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

// PRContent renders the title and markdown body of the weekly pull request.
func PRContent(summary *domain.Summary) (string, string) {
	start, end := summary.Period.Start, summary.Period.End
	title := fmt.Sprintf("Weekly Changelog Summary: %s to %s", start, end)

	var b strings.Builder
	writeLines(&b,
		"# Weekly Development Summary",
		fmt.Sprintf("**Period**: %s to %s", start, end),
		"",
		"## Overview",
		fmt.Sprintf("- **Active Repositories**: %d of %d total repos", summary.ActiveRepos, summary.TotalRepos),
		fmt.Sprintf("- **Commits**: %d", summary.TotalCommits),
		fmt.Sprintf("- **Pull Requests**: %d", summary.TotalPulls),
		fmt.Sprintf("- **Issues**: %d", summary.TotalIssues),
		fmt.Sprintf("- **Changelog Entries**: %d", summary.TotalChangelogEntries),
		"",
	)

	if len(summary.KeyChanges) > 0 {
		writeLines(&b, "## Key Changes", "")
		repos, changes := groupKeyChanges(summary.KeyChanges)
		for _, repo := range repos {
			writeLines(&b, "### "+repo)
			for _, change := range changes[repo] {
				writeLines(&b, "- "+change)
			}
			writeLines(&b, "")
		}
	}

	if len(summary.ReposWithActivity) > 0 {
		writeLines(&b, "## Repository Activity Details", "")
		for _, repo := range byActivity(summary.ReposWithActivity) {
			writeLines(&b,
				fmt.Sprintf("### [%s](%s)", repo.Name, repo.URL),
				fmt.Sprintf("- **Commits**: %d", repo.Commits),
				fmt.Sprintf("- **Pull Requests**: %d", repo.Pulls),
				fmt.Sprintf("- **Issues**: %d", repo.Issues),
				fmt.Sprintf("- **Changelog Entries**: %d", repo.ChangelogEntries),
			)
			if repo.LatestVersion != "" {
				writeLines(&b, fmt.Sprintf("- **Latest Version**: %s", repo.LatestVersion))
			}
			if len(repo.Highlights) > 0 {
				writeLines(&b, "- **Highlights**:")
				for _, h := range repo.Highlights {
					writeLines(&b, "  - "+h)
				}
			}
			writeLines(&b, "")
		}
	}

	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("*Generated automatically on %s*", generatedAt(summary.GeneratedAt)))
	return title, b.String()
}

// groupKeyChanges splits "repo: change" strings by repository, keeping the
// order in which repositories first appear.
func groupKeyChanges(keyChanges []string) ([]string, map[string][]string) {
	var order []string
	grouped := map[string][]string{}
	for _, change := range keyChanges {
		repo, text, _ := strings.Cut(change, ":")
		if _, seen := grouped[repo]; !seen {
			order = append(order, repo)
		}
		grouped[repo] = append(grouped[repo], strings.TrimSpace(text))
	}
	return order, grouped
}

func writeLines(b *strings.Builder, lines ...string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}
