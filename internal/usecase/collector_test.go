package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
	"github.com/naka-gawa/weekly-changelog/internal/gateway"
	"github.com/naka-gawa/weekly-changelog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testNow   = time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

const alphaChangelog = `# Changelog
## [1.2.0] - 2025-01-06
### Added
- Search
## [1.1.0] - 2024-06-01
### Fixed
- Old bug
`

func TestCollector_Collect(t *testing.T) {
	ctx := context.Background()
	fetcher := new(mockFetcher)

	alpha := gateway.Repository{Owner: "org", Name: "alpha", URL: "https://github.com/org/alpha", Description: "Alpha"}
	beta := gateway.Repository{Owner: "org", Name: "beta", URL: "https://github.com/org/beta"}
	fetcher.On("ListPublicRepos", mock.Anything, "org").Return([]gateway.Repository{alpha, beta}, nil)

	// alpha
	fetcher.On("ListIssues", mock.Anything, "org", "alpha", testStart).Return([]gateway.IssueRecord{
		{Number: 1, Title: "New bug", URL: "u1", State: "open", CreatedAt: day(2025, 1, 2), UpdatedAt: day(2025, 1, 2)},
		{Number: 2, Title: "Old but touched", URL: "u2", State: "closed", CreatedAt: day(2024, 12, 1), UpdatedAt: day(2025, 1, 3)},
		{Number: 3, Title: "Stale", URL: "u3", State: "open", CreatedAt: day(2024, 11, 1), UpdatedAt: day(2024, 11, 5)},
		{Number: 4, Title: "Add search", URL: "u4", CreatedAt: day(2025, 1, 2), UpdatedAt: day(2025, 1, 4), IsPullRequest: true},
		{Number: 5, Title: "Broken", URL: "u5", CreatedAt: day(2025, 1, 2), UpdatedAt: day(2025, 1, 4), IsPullRequest: true},
	}, nil)
	fetcher.On("GetPullRequest", mock.Anything, "org", "alpha", 4).Return(&gateway.PullRequestRecord{
		Number: 4, Title: "Add search", URL: "https://github.com/org/alpha/pull/4", State: "closed",
		CreatedAt: day(2025, 1, 2), UpdatedAt: day(2025, 1, 4), Merged: true,
	}, nil)
	fetcher.On("GetPullRequest", mock.Anything, "org", "alpha", 5).Return(nil, errors.New("boom"))

	fetcher.On("ListContributors", mock.Anything, "org", "alpha").Return([]string{"alice", "bob", "carol"}, nil)
	fetcher.On("ListUserEvents", mock.Anything, "alice").Return([]gateway.EventRecord{
		{Type: gateway.PushEventType, RepoName: "org/alpha", CreatedAt: day(2025, 1, 5)},
		{Type: gateway.PushEventType, RepoName: "org/alpha", CreatedAt: day(2025, 1, 3)},
		{Type: gateway.PushEventType, RepoName: "org/other", CreatedAt: day(2024, 1, 1)},
		{Type: "WatchEvent", RepoName: "org/alpha", CreatedAt: day(2024, 1, 1)},
	}, nil)
	fetcher.On("GetUser", mock.Anything, "alice").Return(&gateway.UserRecord{
		Login: "alice", Name: "Alice", Company: "ACME", Email: "alice@example.com", CreatedAt: day(2020, 5, 1),
	}, nil)
	fetcher.On("ListUserEvents", mock.Anything, "bob").Return([]gateway.EventRecord{
		{Type: gateway.PushEventType, RepoName: "org/alpha", CreatedAt: day(2025, 1, 4)},
		{Type: gateway.PushEventType, RepoName: "org/alpha", CreatedAt: day(2024, 6, 1)},
	}, nil)
	fetcher.On("ListUserEvents", mock.Anything, "carol").Return(nil, errors.New("rate limited"))

	fetcher.On("ListCommits", mock.Anything, "org", "alpha", testStart).Return([]gateway.CommitRecord{
		{Message: "Add search", URL: "c1", Author: "Alice", Date: day(2025, 1, 3)},
	}, nil)

	fetcher.On("GetFileContent", mock.Anything, "org", "alpha", "CHANGELOG.md").Return("", errors.New("404"))
	fetcher.On("GetFileContent", mock.Anything, "org", "alpha", "Changelog.md").Return(alphaChangelog, nil)

	// beta has nothing to report
	fetcher.On("ListIssues", mock.Anything, "org", "beta", testStart).Return([]gateway.IssueRecord{}, nil)
	fetcher.On("ListContributors", mock.Anything, "org", "beta").Return(nil, errors.New("forbidden"))
	fetcher.On("ListCommits", mock.Anything, "org", "beta", testStart).Return([]gateway.CommitRecord{}, nil)
	fetcher.On("GetFileContent", mock.Anything, "org", "beta", mock.Anything).Return("", errors.New("404"))

	collector := NewCollector(fetcher, logging.Discard(), WithClock(func() time.Time { return testNow }))
	start := testStart
	snapshot, err := collector.Collect(ctx, "org", &start)
	require.NoError(t, err)

	assert.Equal(t, domain.Period{Start: "2025-01-01", End: "2025-01-08"}, snapshot.Period)
	assert.Equal(t, "2025-01-08T12:00:00Z", snapshot.GeneratedAt)
	assert.Equal(t, 2, snapshot.TotalRepoCount)
	require.Len(t, snapshot.Repos, 1)

	repo := snapshot.Repos[0]
	assert.Equal(t, "alpha", repo.Name)
	assert.Equal(t, "Alpha", repo.Description)
	assert.Equal(t, []domain.Issue{
		{Title: "New bug", URL: "u1", CreatedAt: "2025-01-02T10:00:00Z", State: "open", IsNew: true},
		{Title: "Old but touched", URL: "u2", CreatedAt: "2024-12-01T10:00:00Z", State: "closed", IsNew: false},
	}, repo.Issues)
	assert.Equal(t, []domain.PullRequest{{
		Title: "Add search", URL: "https://github.com/org/alpha/pull/4",
		CreatedAt: "2025-01-02T10:00:00Z", UpdatedAt: "2025-01-04T10:00:00Z",
		State: "closed", Merged: true, IsNew: true,
	}}, repo.Pulls)
	assert.Equal(t, []domain.Contributor{{
		Login: "alice", Name: "Alice", Company: "ACME", CreatedAt: "2020-05-01T10:00:00Z", Email: "alice@example.com",
	}}, repo.Contributors)
	assert.Equal(t, []domain.Commit{{Message: "Add search", URL: "c1", Author: "Alice", CreatedAt: "2025-01-03T10:00:00Z"}}, repo.Commits)
	assert.Equal(t, []domain.ReleaseEntry{{
		Version: "1.2.0",
		Date:    strPtr("2025-01-06"),
		Changes: []domain.ChangeGroup{{Category: "Added", Items: []string{"Search"}}},
	}}, repo.ChangelogEntries)

	fetcher.AssertNotCalled(t, "GetFileContent", mock.Anything, "org", "alpha", "changelog.md")
	fetcher.AssertNotCalled(t, "GetUser", mock.Anything, "bob")
	fetcher.AssertNotCalled(t, "GetUser", mock.Anything, "carol")
	fetcher.AssertExpectations(t)
}

func TestCollector_Collect_ListReposFails(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("ListPublicRepos", mock.Anything, "org").Return(nil, errors.New("bad credentials"))

	collector := NewCollector(fetcher, logging.Discard())
	snapshot, err := collector.Collect(context.Background(), "org", nil)

	assert.Nil(t, snapshot)
	assert.ErrorContains(t, err, "bad credentials")
}

func TestCollector_Collect_WithoutWindowStart(t *testing.T) {
	fetcher := new(mockFetcher)
	repo := gateway.Repository{Owner: "org", Name: "gamma", URL: "https://github.com/org/gamma"}
	fetcher.On("ListPublicRepos", mock.Anything, "org").Return([]gateway.Repository{repo}, nil)
	fetcher.On("ListIssues", mock.Anything, "org", "gamma", time.Time{}).Return([]gateway.IssueRecord{
		{Number: 9, Title: "Ancient", URL: "u9", State: "open", CreatedAt: day(2019, 1, 1), UpdatedAt: day(2019, 1, 1)},
	}, nil)
	fetcher.On("GetFileContent", mock.Anything, "org", "gamma", mock.Anything).Return("", errors.New("404"))

	collector := NewCollector(fetcher, logging.Discard(), WithClock(func() time.Time { return testNow }))
	snapshot, err := collector.Collect(context.Background(), "org", nil)
	require.NoError(t, err)

	assert.Equal(t, "", snapshot.Period.Start)
	require.Len(t, snapshot.Repos, 1)
	assert.Len(t, snapshot.Repos[0].Issues, 1)
	assert.Empty(t, snapshot.Repos[0].Commits)
	assert.NotNil(t, snapshot.Repos[0].Commits)
	fetcher.AssertNotCalled(t, "ListCommits", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	fetcher.AssertNotCalled(t, "ListContributors", mock.Anything, mock.Anything, mock.Anything)
}

func TestCollector_Collect_CategoryFailuresAreIsolated(t *testing.T) {
	fetcher := new(mockFetcher)
	repo := gateway.Repository{Owner: "org", Name: "delta", URL: "https://github.com/org/delta"}
	fetcher.On("ListPublicRepos", mock.Anything, "org").Return([]gateway.Repository{repo}, nil)
	fetcher.On("ListIssues", mock.Anything, "org", "delta", testStart).Return(nil, errors.New("issues disabled"))
	fetcher.On("ListContributors", mock.Anything, "org", "delta").Return(nil, errors.New("forbidden"))
	fetcher.On("ListCommits", mock.Anything, "org", "delta", testStart).Return([]gateway.CommitRecord{
		{Message: "Fix", URL: "c", Author: "Bob", Date: day(2025, 1, 2)},
	}, nil)
	fetcher.On("GetFileContent", mock.Anything, "org", "delta", "CHANGELOG.md").Return("no headings here", nil)

	collector := NewCollector(fetcher, logging.Discard(), WithClock(func() time.Time { return testNow }))
	start := testStart
	snapshot, err := collector.Collect(context.Background(), "org", &start)
	require.NoError(t, err)

	require.Len(t, snapshot.Repos, 1)
	got := snapshot.Repos[0]
	assert.Empty(t, got.Issues)
	assert.Empty(t, got.Pulls)
	assert.Empty(t, got.Contributors)
	assert.Len(t, got.Commits, 1)
	assert.Empty(t, got.ChangelogEntries)
	// an empty but readable changelog still stops the search
	fetcher.AssertNumberOfCalls(t, "GetFileContent", 1)
}

func TestRecentEntries(t *testing.T) {
	entry := func(version string, date *string) domain.ReleaseEntry {
		return domain.ReleaseEntry{Version: version, Date: date}
	}

	testCases := []struct {
		name     string
		entries  []domain.ReleaseEntry
		expected []string
	}{
		{
			name:     "dated entries inside and outside the last week",
			entries:  []domain.ReleaseEntry{entry("3", strPtr("2025-01-07")), entry("2", strPtr("2025-01-01")), entry("1", strPtr("2024-12-01"))},
			expected: []string{"3", "2"},
		},
		{
			name:     "undated entries limited to two",
			entries:  []domain.ReleaseEntry{entry("a", nil), entry("b", nil), entry("c", nil)},
			expected: []string{"a", "b"},
		},
		{
			name:     "undated entry beyond the third position is dropped",
			entries:  []domain.ReleaseEntry{entry("1", strPtr("2020-01-01")), entry("2", strPtr("2020-01-01")), entry("3", strPtr("2020-01-01")), entry("x", nil)},
			expected: []string{},
		},
		{
			name:     "kept dated entries do not count toward the undated limit",
			entries:  []domain.ReleaseEntry{entry("1", strPtr("2025-01-07")), entry("2", strPtr("2025-01-06")), entry("x", nil)},
			expected: []string{"1", "2", "x"},
		},
		{
			name:     "entry dated exactly seven days ago is kept",
			entries:  []domain.ReleaseEntry{entry("edge", strPtr("2025-01-01"))},
			expected: []string{"edge"},
		},
		{
			name:     "entry dated eight days ago is dropped",
			entries:  []domain.ReleaseEntry{entry("old", strPtr("2024-12-31"))},
			expected: []string{},
		},
		{
			name:     "undated limit counts only undated entries",
			entries:  []domain.ReleaseEntry{entry("x", nil), entry("1", strPtr("2025-01-07")), entry("y", nil), entry("z", nil)},
			expected: []string{"x", "1", "y"},
		},
		{
			name:     "unparseable date treated as undated",
			entries:  []domain.ReleaseEntry{entry("x", strPtr("2025-13-45"))},
			expected: []string{"x"},
		},
		{
			name:     "empty input",
			entries:  nil,
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := RecentEntries(tc.entries, testNow)
			versions := []string{}
			for _, e := range got {
				versions = append(versions, e.Version)
			}
			assert.Equal(t, tc.expected, versions)
		})
	}
}
