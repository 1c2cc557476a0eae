// Package usecase contains the business logic of the application.
package usecase

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/weekly-changelog/internal/classify"
	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

// mergedPRsPerRepo is how many merged pull requests of a repository are
// classified in the condensed summary.
const mergedPRsPerRepo = 3

// Aggregator is the use case for summarizing a collected snapshot.
// Both summaries are pure functions of the snapshot.
type Aggregator struct {
	logger *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(logger *log.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// Aggregate builds the plain summary: totals, per-repository highlights and
// the ordered list of key changes.
func (a *Aggregator) Aggregate(snapshot *domain.OrgSnapshot) *domain.Summary {
	summary := &domain.Summary{
		Period:            snapshot.Period,
		GeneratedAt:       snapshot.GeneratedAt,
		TotalRepos:        snapshot.RepoCount(),
		ReposWithActivity: []domain.RepoSummary{},
		KeyChanges:        []string{},
	}

	for _, repo := range snapshot.Repos {
		summary.TotalIssues += len(repo.Issues)
		summary.TotalPulls += len(repo.Pulls)
		summary.TotalCommits += len(repo.Commits)
		summary.TotalChangelogEntries += len(repo.ChangelogEntries)
		if repo.HasActivity() {
			summary.ActiveRepos++
		}

		repoSummary := domain.RepoSummary{
			Name:             repo.Name,
			URL:              repo.URL,
			Issues:           len(repo.Issues),
			Pulls:            len(repo.Pulls),
			Commits:          len(repo.Commits),
			ChangelogEntries: len(repo.ChangelogEntries),
			LatestVersion:    latestVersion(repo.ChangelogEntries),
			Highlights:       []string{},
		}

		for _, entry := range repo.ChangelogEntries {
			for _, group := range entry.Changes {
				verb, ok := classify.SummaryVerb(group.Category)
				if !ok {
					continue
				}
				for _, item := range firstN(group.Items, verb.Limit) {
					repoSummary.Highlights = append(repoSummary.Highlights, fmt.Sprintf("%s: %s", verb.Name, item))
					summary.KeyChanges = append(summary.KeyChanges, fmt.Sprintf("%s: %s %s", repo.Name, verb.Name, item))
				}
			}
		}

		if merged := countMerged(repo.Pulls); merged > 0 {
			repoSummary.Highlights = append(repoSummary.Highlights, fmt.Sprintf("%d PR(s) merged", merged))
		}
		if newIssues := countNewIssues(repo.Issues); newIssues > 0 {
			repoSummary.Highlights = append(repoSummary.Highlights, fmt.Sprintf("%d new issue(s)", newIssues))
		}

		summary.ReposWithActivity = append(summary.ReposWithActivity, repoSummary)
	}

	a.logger.Debug("summary aggregated", "repos", len(summary.ReposWithActivity), "key_changes", len(summary.KeyChanges))
	return summary
}

// Condense builds the categorized summary. Every changelog item is routed by
// its group's heading; the first merged pull requests of each repository are
// routed by title.
func (a *Aggregator) Condense(snapshot *domain.OrgSnapshot) *domain.CondensedSummary {
	summary := &domain.CondensedSummary{
		Period:             snapshot.Period,
		GeneratedAt:        snapshot.GeneratedAt,
		TotalRepos:         snapshot.RepoCount(),
		CategorizedChanges: make(map[domain.Bucket][]domain.CategorizedChange, len(domain.Buckets)),
		ChangeCounts:       map[domain.Bucket]int{},
		ActiveReposList:    []domain.ActiveRepo{},
	}
	for _, b := range domain.Buckets {
		summary.CategorizedChanges[b] = []domain.CategorizedChange{}
	}

	var commitCounts stats.Float64Data
	for _, repo := range snapshot.Repos {
		summary.TotalCommits += len(repo.Commits)
		summary.TotalPulls += len(repo.Pulls)
		summary.TotalIssues += len(repo.Issues)
		summary.TotalChangelogEntries += len(repo.ChangelogEntries)

		for _, entry := range repo.ChangelogEntries {
			for _, group := range entry.Changes {
				emoji, bucket := classify.Classify(group.Category)
				for _, item := range group.Items {
					summary.CategorizedChanges[bucket] = append(summary.CategorizedChanges[bucket], domain.CategorizedChange{
						Repo:     repo.Name,
						Text:     item,
						Category: group.Category,
						Emoji:    emoji,
					})
				}
			}
		}

		classified := 0
		for _, pr := range repo.Pulls {
			if !pr.Merged {
				continue
			}
			if classified == mergedPRsPerRepo {
				break
			}
			classified++
			emoji, bucket := classify.Classify(pr.Title)
			summary.CategorizedChanges[bucket] = append(summary.CategorizedChanges[bucket], domain.CategorizedChange{
				Repo:  repo.Name,
				Text:  pr.Title,
				Emoji: emoji,
				URL:   pr.URL,
				Type:  domain.ChangeTypePR,
			})
		}

		if !repo.HasActivity() {
			continue
		}
		summary.ActiveRepos++
		summary.ActiveReposList = append(summary.ActiveReposList, domain.ActiveRepo{
			Name:    repo.Name,
			URL:     repo.URL,
			Commits: len(repo.Commits),
			Pulls:   len(repo.Pulls),
			Issues:  len(repo.Issues),
		})
		commitCounts = append(commitCounts, float64(len(repo.Commits)))
	}

	for bucket, changes := range summary.CategorizedChanges {
		if len(changes) > 0 {
			summary.ChangeCounts[bucket] = len(changes)
		}
	}
	summary.CommitStats = commitStats(commitCounts)

	a.logger.Debug("condensed summary built", "buckets", len(summary.ChangeCounts), "active", summary.ActiveRepos)
	return summary
}

// commitStats describes the commit counts of active repositories. An empty
// input yields zeros.
func commitStats(counts stats.Float64Data) domain.CommitStats {
	if counts.Len() == 0 {
		return domain.CommitStats{}
	}
	mean, _ := counts.Mean()
	median, _ := counts.Median()
	maxCount, _ := counts.Max()
	return domain.CommitStats{
		Mean:   mean,
		Median: median,
		Max:    maxCount,
	}
}

// latestVersion returns the highest semantic version among the entries, or ""
// when none parses.
func latestVersion(entries []domain.ReleaseEntry) string {
	var latest *semver.Version
	var raw string
	for _, entry := range entries {
		v, err := semver.NewVersion(entry.Version)
		if err != nil {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest, raw = v, entry.Version
		}
	}
	return raw
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func countMerged(pulls []domain.PullRequest) int {
	n := 0
	for _, pr := range pulls {
		if pr.Merged {
			n++
		}
	}
	return n
}

func countNewIssues(issues []domain.Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.IsNew {
			n++
		}
	}
	return n
}
