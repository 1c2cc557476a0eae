package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/weekly-changelog/internal/changelog"
	"github.com/naka-gawa/weekly-changelog/internal/domain"
	"github.com/naka-gawa/weekly-changelog/internal/gateway"
)

// ChangelogFiles are the changelog file names tried, in order, for every repository.
var ChangelogFiles = []string{
	"CHANGELOG.md",
	"Changelog.md",
	"changelog.md",
	"CHANGELOG",
	"Changelog",
	"changelog",
}

const (
	dateLayout = "2006-01-02"

	// recentWindow bounds dated changelog entries regardless of the collection window.
	recentWindow = 7 * 24 * time.Hour

	maxUndatedEntries = 2
	maxUndatedIndex   = 3
)

// Collector is the use case for gathering an organization's weekly activity.
// Repositories are processed one at a time.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithClock replaces the wall clock used for the period end and changelog recency.
func WithClock(now func() time.Time) CollectorOption {
	return func(c *Collector) {
		c.now = now
	}
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger, opts ...CollectorOption) *Collector {
	c := &Collector{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect builds a snapshot of the organization's public repositories.
// Only a failure to list the repositories is returned; failures inside a
// repository are logged and leave the affected category empty.
// A nil windowStart disables commit and contributor collection.
func (c *Collector) Collect(ctx context.Context, org string, windowStart *time.Time) (*domain.OrgSnapshot, error) {
	now := c.now().UTC()

	repos, err := c.fetcher.ListPublicRepos(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to list public repositories: %w", err)
	}
	c.logger.Info("collecting activity", "org", org, "repos", len(repos))

	snapshot := &domain.OrgSnapshot{
		Repos:          []domain.RepoActivity{},
		Period:         domain.Period{End: now.Format(dateLayout)},
		GeneratedAt:    now.Format(time.RFC3339),
		TotalRepoCount: len(repos),
	}
	if windowStart != nil {
		snapshot.Period.Start = windowStart.UTC().Format(dateLayout)
	}

	for _, repo := range repos {
		activity := c.collectRepo(ctx, repo, windowStart, now)
		if !activity.HasActivity() {
			c.logger.Debug("no activity", "repo", repo.Name)
			continue
		}
		snapshot.Repos = append(snapshot.Repos, activity)
	}

	c.logger.Info("collection complete", "org", org, "active", len(snapshot.Repos))
	return snapshot, nil
}

func (c *Collector) collectRepo(ctx context.Context, repo gateway.Repository, windowStart *time.Time, now time.Time) domain.RepoActivity {
	c.logger.Debug("processing repository", "repo", repo.Name)
	activity := domain.NewRepoActivity(repo.Name, repo.URL, repo.Description)

	var start time.Time
	if windowStart != nil {
		start = *windowStart
	}

	issues, pulls, err := c.collectIssues(ctx, repo, start)
	if err != nil {
		c.logger.Warn("failed to collect issues and pull requests", "repo", repo.Name, "err", err)
	} else {
		activity.Issues, activity.Pulls = issues, pulls
	}

	if windowStart != nil {
		contributors, err := c.collectContributors(ctx, repo, start)
		if err != nil {
			c.logger.Warn("failed to collect contributors", "repo", repo.Name, "err", err)
		} else {
			activity.Contributors = contributors
		}

		commits, err := c.collectCommits(ctx, repo, start)
		if err != nil {
			c.logger.Warn("failed to collect commits", "repo", repo.Name, "err", err)
		} else {
			activity.Commits = commits
		}
	}

	activity.ChangelogEntries = c.collectChangelog(ctx, repo, now)
	return activity
}

func (c *Collector) collectIssues(ctx context.Context, repo gateway.Repository, start time.Time) ([]domain.Issue, []domain.PullRequest, error) {
	records, err := c.fetcher.ListIssues(ctx, repo.Owner, repo.Name, start)
	if err != nil {
		return nil, nil, err
	}

	issues := []domain.Issue{}
	pulls := []domain.PullRequest{}
	for _, r := range records {
		if r.CreatedAt.Before(start) && r.UpdatedAt.Before(start) {
			continue
		}
		if !r.IsPullRequest {
			issues = append(issues, domain.Issue{
				Title:     r.Title,
				URL:       r.URL,
				CreatedAt: r.CreatedAt.Format(time.RFC3339),
				State:     r.State,
				IsNew:     !r.CreatedAt.Before(start),
			})
			continue
		}

		pr, err := c.fetcher.GetPullRequest(ctx, repo.Owner, repo.Name, r.Number)
		if err != nil {
			c.logger.Warn("skipping pull request", "repo", repo.Name, "number", r.Number, "err", err)
			continue
		}
		pulls = append(pulls, domain.PullRequest{
			Title:     pr.Title,
			URL:       pr.URL,
			CreatedAt: pr.CreatedAt.Format(time.RFC3339),
			UpdatedAt: pr.UpdatedAt.Format(time.RFC3339),
			State:     pr.State,
			Merged:    pr.Merged,
			IsNew:     !pr.CreatedAt.Before(start),
		})
	}
	c.logger.Debug("issues collected", "repo", repo.Name, "issues", len(issues), "pulls", len(pulls))
	return issues, pulls, nil
}

// collectContributors returns the contributors whose first push to the
// repository happened inside the window.
func (c *Collector) collectContributors(ctx context.Context, repo gateway.Repository, start time.Time) ([]domain.Contributor, error) {
	logins, err := c.fetcher.ListContributors(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, err
	}

	fullName := repo.Owner + "/" + repo.Name
	contributors := []domain.Contributor{}
	for _, login := range logins {
		events, err := c.fetcher.ListUserEvents(ctx, login)
		if err != nil {
			c.logger.Warn("skipping contributor", "repo", repo.Name, "login", login, "err", err)
			continue
		}

		var pushes []time.Time
		for _, e := range events {
			if e.Type == gateway.PushEventType && e.RepoName == fullName {
				pushes = append(pushes, e.CreatedAt)
			}
		}
		if len(pushes) == 0 {
			continue
		}
		sort.Slice(pushes, func(i, j int) bool { return pushes[i].Before(pushes[j]) })
		if pushes[0].Before(start) {
			continue
		}

		user, err := c.fetcher.GetUser(ctx, login)
		if err != nil {
			c.logger.Warn("skipping contributor", "repo", repo.Name, "login", login, "err", err)
			continue
		}
		contributors = append(contributors, domain.Contributor{
			Login:     user.Login,
			Name:      user.Name,
			Company:   user.Company,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
			Email:     user.Email,
		})
	}
	return contributors, nil
}

func (c *Collector) collectCommits(ctx context.Context, repo gateway.Repository, start time.Time) ([]domain.Commit, error) {
	records, err := c.fetcher.ListCommits(ctx, repo.Owner, repo.Name, start)
	if err != nil {
		return nil, err
	}
	commits := make([]domain.Commit, 0, len(records))
	for _, r := range records {
		commits = append(commits, domain.Commit{
			Message:   r.Message,
			URL:       r.URL,
			Author:    r.Author,
			CreatedAt: r.Date.Format(time.RFC3339),
		})
	}
	return commits, nil
}

// collectChangelog reads the first changelog file that exists and keeps its
// recent entries. Later candidates are not tried once one file was read.
func (c *Collector) collectChangelog(ctx context.Context, repo gateway.Repository, now time.Time) []domain.ReleaseEntry {
	for _, name := range ChangelogFiles {
		content, err := c.fetcher.GetFileContent(ctx, repo.Owner, repo.Name, name)
		if err != nil {
			c.logger.Debug("changelog candidate unavailable", "repo", repo.Name, "file", name)
			continue
		}
		entries := RecentEntries(changelog.Parse(content), now)
		c.logger.Debug("changelog parsed", "repo", repo.Name, "file", name, "recent", len(entries))
		return entries
	}
	return []domain.ReleaseEntry{}
}

// RecentEntries keeps dated entries from the last seven days, counted in whole
// days so an entry dated exactly seven days ago is kept. Entries without a
// usable date are kept only among the first three entries of the document and
// at most two of them.
func RecentEntries(entries []domain.ReleaseEntry, now time.Time) []domain.ReleaseEntry {
	today := now.UTC()
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).Add(-recentWindow)
	recent := []domain.ReleaseEntry{}
	undated := 0
	for i, entry := range entries {
		if entry.Date != nil {
			if d, err := time.Parse(dateLayout, *entry.Date); err == nil {
				if !d.Before(cutoff) {
					recent = append(recent, entry)
				}
				continue
			}
		}
		if undated < maxUndatedEntries && i < maxUndatedIndex {
			recent = append(recent, entry)
			undated++
		}
	}
	return recent
}
