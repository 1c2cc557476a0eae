package usecase

import (
	"context"
	"time"

	"github.com/naka-gawa/weekly-changelog/internal/gateway"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListPublicRepos(ctx context.Context, org string) ([]gateway.Repository, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Repository), args.Error(1)
}

func (m *mockFetcher) ListIssues(ctx context.Context, owner, repo string, since time.Time) ([]gateway.IssueRecord, error) {
	args := m.Called(ctx, owner, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.IssueRecord), args.Error(1)
}

func (m *mockFetcher) GetPullRequest(ctx context.Context, owner, repo string, number int) (*gateway.PullRequestRecord, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PullRequestRecord), args.Error(1)
}

func (m *mockFetcher) ListCommits(ctx context.Context, owner, repo string, since time.Time) ([]gateway.CommitRecord, error) {
	args := m.Called(ctx, owner, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.CommitRecord), args.Error(1)
}

func (m *mockFetcher) ListContributors(ctx context.Context, owner, repo string) ([]string, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) ListUserEvents(ctx context.Context, login string) ([]gateway.EventRecord, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.EventRecord), args.Error(1)
}

func (m *mockFetcher) GetUser(ctx context.Context, login string) (*gateway.UserRecord, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.UserRecord), args.Error(1)
}

func (m *mockFetcher) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	args := m.Called(ctx, owner, repo, path)
	return args.String(0), args.Error(1)
}
