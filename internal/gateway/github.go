// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// Repository identifies a repository of the organization being reported on.
type Repository struct {
	Owner       string
	Name        string
	URL         string
	Description string
}

// IssueRecord is an entry of the issues listing. The listing mixes issues and
// pull requests; IsPullRequest tells them apart.
type IssueRecord struct {
	Number        int
	Title         string
	URL           string
	State         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	IsPullRequest bool
}

// PullRequestRecord is the detail view of a pull request.
type PullRequestRecord struct {
	Number    int
	Title     string
	URL       string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Merged    bool
}

// CommitRecord is a commit on the default branch.
type CommitRecord struct {
	Message string
	URL     string
	Author  string
	Date    time.Time
}

// EventRecord is a public event performed by a user.
type EventRecord struct {
	Type      string
	RepoName  string // owner/name
	CreatedAt time.Time
}

// UserRecord holds the public profile of a user.
type UserRecord struct {
	Login     string
	Name      string
	Company   string
	Email     string
	CreatedAt time.Time
}

// PushEventType is the event type of a push to a repository.
const PushEventType = "PushEvent"

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListPublicRepos(ctx context.Context, org string) ([]Repository, error)
	ListIssues(ctx context.Context, owner, repo string, since time.Time) ([]IssueRecord, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestRecord, error)
	ListCommits(ctx context.Context, owner, repo string, since time.Time) ([]CommitRecord, error)
	ListContributors(ctx context.Context, owner, repo string) ([]string, error)
	ListUserEvents(ctx context.Context, login string) ([]EventRecord, error)
	GetUser(ctx context.Context, login string) (*UserRecord, error)
	// GetFileContent returns the decoded content of a file on the default branch.
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
}

// PullRequestCreator opens pull requests through the REST API.
type PullRequestCreator interface {
	CreatePullRequest(ctx context.Context, owner, repo string, pr NewPullRequest) (*CreatedPullRequest, error)
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}

// CreatedPullRequest is the result of opening a pull request.
type CreatedPullRequest struct {
	Number int
	URL    string
}

// GitHubGateway is the concrete implementation of the Fetcher and PullRequestCreator interfaces.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// orgReposQuery lists the public repositories of an organization.
type orgReposQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name        string
				URL         string `graphql:"url"`
				Description string
			}
		} `graphql:"repositories(first: 100, after: $cursor, privacy: PUBLIC, orderBy: {field: NAME, direction: ASC})"`
	} `graphql:"organization(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// ListPublicRepos pages through the organization's public repositories with GraphQL.
func (g *GitHubGateway) ListPublicRepos(ctx context.Context, org string) ([]Repository, error) {
	variables := map[string]interface{}{
		"login":  githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	var repos []Repository
	for {
		var q orgReposQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to list repositories of %s: %w", org, err)
		}
		for _, node := range q.Organization.Repositories.Nodes {
			repos = append(repos, Repository{
				Owner:       org,
				Name:        node.Name,
				URL:         node.URL,
				Description: node.Description,
			})
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Debug("fetching next page of repositories", "org", org)
	}
	g.logger.Debug("listed public repositories", "org", org, "count", len(repos))
	return repos, nil
}

// ListIssues lists issues and pull requests in every state updated since the given time.
// A zero since lists everything.
func (g *GitHubGateway) ListIssues(ctx context.Context, owner, repo string, since time.Time) ([]IssueRecord, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var records []IssueRecord
	for {
		issues, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s/%s: %w", owner, repo, err)
		}
		for _, issue := range issues {
			records = append(records, IssueRecord{
				Number:        issue.GetNumber(),
				Title:         issue.GetTitle(),
				URL:           issue.GetHTMLURL(),
				State:         issue.GetState(),
				CreatedAt:     issue.GetCreatedAt().Time,
				UpdatedAt:     issue.GetUpdatedAt().Time,
				IsPullRequest: issue.IsPullRequest(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return records, nil
}

func (g *GitHubGateway) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestRecord, error) {
	pr, _, err := g.restClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, repo, number, err)
	}
	return &PullRequestRecord{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		State:     pr.GetState(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
		Merged:    pr.GetMerged(),
	}, nil
}

func (g *GitHubGateway) ListCommits(ctx context.Context, owner, repo string, since time.Time) ([]CommitRecord, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var records []CommitRecord
	for {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, err)
		}
		for _, c := range commits {
			author := c.GetCommit().GetAuthor()
			records = append(records, CommitRecord{
				Message: c.GetCommit().GetMessage(),
				URL:     c.GetHTMLURL(),
				Author:  author.GetName(),
				Date:    author.GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return records, nil
}

// ListContributors returns the logins of the repository's contributors.
func (g *GitHubGateway) ListContributors(ctx context.Context, owner, repo string) ([]string, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var logins []string
	for {
		contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributors for %s/%s: %w", owner, repo, err)
		}
		for _, c := range contributors {
			if login := c.GetLogin(); login != "" {
				logins = append(logins, login)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return logins, nil
}

// ListUserEvents lists the public events performed by a user. GitHub only
// keeps the most recent events, so old first pushes may be missing.
func (g *GitHubGateway) ListUserEvents(ctx context.Context, login string) ([]EventRecord, error) {
	opts := &github.ListOptions{PerPage: 100}
	var records []EventRecord
	for {
		events, resp, err := g.restClient.Activity.ListEventsPerformedByUser(ctx, login, true, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list events for %s: %w", login, err)
		}
		for _, e := range events {
			records = append(records, EventRecord{
				Type:      e.GetType(),
				RepoName:  e.GetRepo().GetName(),
				CreatedAt: e.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return records, nil
}

func (g *GitHubGateway) GetUser(ctx context.Context, login string) (*UserRecord, error) {
	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", login, err)
	}
	return &UserRecord{
		Login:     user.GetLogin(),
		Name:      user.GetName(),
		Company:   user.GetCompany(),
		Email:     user.GetEmail(),
		CreatedAt: user.GetCreatedAt().Time,
	}, nil
}

func (g *GitHubGateway) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	file, _, _, err := g.restClient.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get %s from %s/%s: %w", path, owner, repo, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s in %s/%s is not a file", path, owner, repo)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s from %s/%s: %w", path, owner, repo, err)
	}
	return content, nil
}

func (g *GitHubGateway) CreatePullRequest(ctx context.Context, owner, repo string, pr NewPullRequest) (*CreatedPullRequest, error) {
	created, _, err := g.restClient.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(pr.Title),
		Body:  github.String(pr.Body),
		Head:  github.String(pr.Head),
		Base:  github.String(pr.Base),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request on %s/%s: %w", owner, repo, err)
	}
	g.logger.Info("pull request created", "url", created.GetHTMLURL())
	return &CreatedPullRequest{Number: created.GetNumber(), URL: created.GetHTMLURL()}, nil
}

func (g *GitHubGateway) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	if _, _, err := g.restClient.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels); err != nil {
		return fmt.Errorf("failed to add labels to %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}
