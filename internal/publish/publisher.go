package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/weekly-changelog/internal/gateway"
)

const (
	botEmail = "action@github.com"
	botName  = "GitHub Action"

	branchPrefix = "weekly-changelog-"
	dateLayout   = "2006-01-02"
)

// Labels are attached to every weekly pull request.
var Labels = []string{"changelog", "automated"}

// Options describes where the pull request goes.
type Options struct {
	Owner string
	Repo  string
	// Base is the branch the pull request targets.
	Base string
	// Path is committed to the new branch.
	Path string
}

// Publisher pushes the artifacts and opens the pull request, preferring the
// gh CLI and falling back to the REST API when gh is not installed.
type Publisher struct {
	runner  Runner
	creator gateway.PullRequestCreator
	opts    Options
	logger  *log.Logger
	now     func() time.Time
}

// NewPublisher creates a new Publisher instance.
func NewPublisher(runner Runner, creator gateway.PullRequestCreator, opts Options, logger *log.Logger) *Publisher {
	if opts.Base == "" {
		opts.Base = "main"
	}
	if opts.Path == "" {
		opts.Path = "changelog_data/"
	}
	return &Publisher{
		runner:  runner,
		creator: creator,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// BranchName returns the branch used for a run on the given day.
func BranchName(t time.Time) string {
	return branchPrefix + t.UTC().Format(dateLayout)
}

// Publish commits the artifacts on a dated branch, pushes it and opens a pull
// request. It returns the URL of the pull request.
func (p *Publisher) Publish(ctx context.Context, title, body string) (string, error) {
	today := p.now().UTC()
	branch := BranchName(today)

	if err := p.commitAndPush(ctx, branch, today); err != nil {
		return "", err
	}
	p.logger.Info("branch pushed", "branch", branch)

	url, err := p.createWithCLI(ctx, title, body, branch)
	if err == nil {
		p.logger.Info("pull request created", "url", url, "via", "gh")
		return url, nil
	}
	if !errors.Is(err, exec.ErrNotFound) {
		return "", err
	}

	p.logger.Warn("gh CLI not found, falling back to the REST API")
	return p.createWithAPI(ctx, title, body, branch)
}

func (p *Publisher) commitAndPush(ctx context.Context, branch string, today time.Time) error {
	steps := [][]string{
		{"config", "--local", "user.email", botEmail},
		{"config", "--local", "user.name", botName},
		{"checkout", "-b", branch},
		{"add", p.opts.Path},
		{"commit", "-sm", fmt.Sprintf("Add weekly changelog summary for %s", today.Format(dateLayout))},
		{"push", "origin", branch},
	}
	for _, args := range steps {
		p.logger.Debug("running git", "args", strings.Join(args, " "))
		if _, err := p.runner.Run(ctx, "git", args...); err != nil {
			return fmt.Errorf("git operation failed: %w", err)
		}
	}
	return nil
}

func (p *Publisher) createWithCLI(ctx context.Context, title, body, branch string) (string, error) {
	f, err := os.CreateTemp("", "pr-body-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create body file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write body file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write body file: %w", err)
	}

	args := []string{
		"pr", "create",
		"--title", title,
		"--body-file", f.Name(),
		"--base", p.opts.Base,
		"--head", branch,
	}
	for _, label := range Labels {
		args = append(args, "--label", label)
	}
	out, err := p.runner.Run(ctx, "gh", args...)
	if err != nil {
		return "", fmt.Errorf("GitHub CLI failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (p *Publisher) createWithAPI(ctx context.Context, title, body, branch string) (string, error) {
	if p.creator == nil {
		return "", errors.New("no GitHub API client configured for pull request creation")
	}
	created, err := p.creator.CreatePullRequest(ctx, p.opts.Owner, p.opts.Repo, gateway.NewPullRequest{
		Title: title,
		Body:  body,
		Head:  branch,
		Base:  p.opts.Base,
	})
	if err != nil {
		return "", err
	}
	if err := p.creator.AddLabels(ctx, p.opts.Owner, p.opts.Repo, created.Number, Labels); err != nil {
		p.logger.Warn("could not add labels", "err", err)
	}
	p.logger.Info("pull request created", "url", created.URL, "via", "api")
	return created.URL, nil
}
