// Package render turns summaries into the text artifacts shared with people:
// a mailto link, a chat message and pull request titles and bodies.
package render

import (
	"sort"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

const unknownTimestamp = "Unknown"

// byActivity returns the repositories ordered by commits plus pull requests,
// most active first. Ties keep their input order.
func byActivity(repos []domain.RepoSummary) []domain.RepoSummary {
	sorted := make([]domain.RepoSummary, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Activity() > sorted[j].Activity()
	})
	return sorted
}

func generatedAt(ts string) string {
	if ts == "" {
		return unknownTimestamp
	}
	return ts
}
