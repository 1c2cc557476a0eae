package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/naka-gawa/weekly-changelog/internal/classify"
	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

const (
	condensedItemsPerRepo = 5
	condensedMaxRepos     = 10
)

type section struct {
	bucket      domain.Bucket
	title       string
	description string
}

// sections lists the rendered buckets in order. Uncategorized changes are
// kept in the JSON artifact only.
var sections = []section{
	{domain.BucketAdded, "Added", "New features and additions"},
	{domain.BucketFixed, "Fixed", "Bug fixes and corrections"},
	{domain.BucketChanged, "Changed", "Updates and modifications"},
	{domain.BucketDeprecated, "Deprecated", "Deprecation notices"},
	{domain.BucketRemoved, "Removed", "Deprecations and removals"},
	{domain.BucketSecurity, "Security", "Security improvements"},
	{domain.BucketPerformance, "Performance", "Performance optimizations"},
	{domain.BucketDocumentation, "Documentation", "Documentation updates"},
}

// CondensedPRContent renders the emoji-decorated pull request title and body.
func CondensedPRContent(summary *domain.CondensedSummary) (string, string) {
	start, end := summary.Period.Start, summary.Period.End
	title := fmt.Sprintf("📋 Changelog Summary: %s to %s", start, end)

	var b strings.Builder
	writeLines(&b,
		"# 📋 Weekly Changelog",
		fmt.Sprintf("**Period**: %s to %s", start, end),
		"",
		"## 📊 Quick Stats",
		fmt.Sprintf("- **Active Repositories**: %d/%d", summary.ActiveRepos, summary.TotalRepos),
		fmt.Sprintf("- **Commits**: %d | **Pull Requests**: %d | **Issues**: %d",
			summary.TotalCommits, summary.TotalPulls, summary.TotalIssues),
		"",
	)

	hasChanges := false
	for _, s := range sections {
		changes := summary.CategorizedChanges[s.bucket]
		if len(changes) == 0 {
			continue
		}
		hasChanges = true
		writeLines(&b,
			fmt.Sprintf("## %s %s", classify.Emoji(s.bucket), s.title),
			"*"+s.description+"*",
			"",
		)
		writeBucket(&b, changes)
	}
	if !hasChanges {
		writeLines(&b,
			"## 📝 Changes",
			"*No categorized changes found in changelogs this week*",
			"",
		)
	}

	writeLines(&b, "## 🚀 Active Repositories", "")
	active := make([]domain.ActiveRepo, len(summary.ActiveReposList))
	copy(active, summary.ActiveReposList)
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Commits+active[i].Pulls > active[j].Commits+active[j].Pulls
	})
	for i, repo := range active {
		if i == condensedMaxRepos {
			writeLines(&b, fmt.Sprintf("- *...and %d more repositories*", len(active)-condensedMaxRepos))
			break
		}
		writeLines(&b, fmt.Sprintf("- **[%s](%s)**: %s", repo.Name, repo.URL, activityParts(repo)))
	}

	writeLines(&b, "", "---")
	b.WriteString(fmt.Sprintf("*🤖 Generated automatically on %s*", generatedAt(summary.GeneratedAt)))
	return title, b.String()
}

// writeBucket writes the changes of one bucket grouped by repository name.
func writeBucket(b *strings.Builder, changes []domain.CategorizedChange) {
	byRepo := map[string][]domain.CategorizedChange{}
	for _, c := range changes {
		byRepo[c.Repo] = append(byRepo[c.Repo], c)
	}
	repos := make([]string, 0, len(byRepo))
	for repo := range byRepo {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	for _, repo := range repos {
		repoChanges := byRepo[repo]
		writeLines(b, "### "+repo)
		for i, c := range repoChanges {
			if i == condensedItemsPerRepo {
				writeLines(b, fmt.Sprintf("- *...and %d more*", len(repoChanges)-condensedItemsPerRepo))
				break
			}
			if c.Type == domain.ChangeTypePR && c.URL != "" {
				writeLines(b, fmt.Sprintf("- [%s](%s)", c.Text, c.URL))
			} else {
				writeLines(b, "- "+c.Text)
			}
		}
		writeLines(b, "")
	}
}

// activityParts lists the non-zero counters of a repository.
func activityParts(repo domain.ActiveRepo) string {
	var parts []string
	if repo.Commits > 0 {
		parts = append(parts, fmt.Sprintf("%d commits", repo.Commits))
	}
	if repo.Pulls > 0 {
		parts = append(parts, fmt.Sprintf("%d pulls", repo.Pulls))
	}
	if repo.Issues > 0 {
		parts = append(parts, fmt.Sprintf("%d issues", repo.Issues))
	}
	return strings.Join(parts, ", ")
}
