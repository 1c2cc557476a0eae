// Package domain contains the core data structures and domain logic for the application.
package domain

// UnknownVersion is the version of a release block seen before any version header.
const UnknownVersion = "unknown"

// ReleaseEntry is one release block of a changelog document.
type ReleaseEntry struct {
	Version string        `json:"version"`
	Date    *string       `json:"date"`
	Changes []ChangeGroup `json:"changes"`
}

// ChangeGroup is one categorized subsection of a release, e.g. "### Added".
// Category holds the heading text exactly as it appeared in the document.
type ChangeGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Period is the reporting window, both ends formatted as YYYY-MM-DD.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Issue is an issue touched inside the reporting window.
type Issue struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	State     string `json:"state"`
	IsNew     bool   `json:"is_new"`
}

// PullRequest is a pull request touched inside the reporting window.
type PullRequest struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	State     string `json:"state"`
	Merged    bool   `json:"merged"`
	IsNew     bool   `json:"is_new"`
}

// Commit is a commit authored inside the reporting window.
type Commit struct {
	Message   string `json:"message"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// Contributor is a contributor whose first push to the repository falls inside the window.
type Contributor struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	CreatedAt string `json:"created_at"`
	Email     string `json:"email"`
}

// RepoActivity holds everything collected for one repository.
type RepoActivity struct {
	Name             string         `json:"name"`
	URL              string         `json:"url"`
	Description      string         `json:"description"`
	Issues           []Issue        `json:"issues"`
	Pulls            []PullRequest  `json:"pulls"`
	Commits          []Commit       `json:"commits"`
	Contributors     []Contributor  `json:"contributors"`
	ChangelogEntries []ReleaseEntry `json:"changelog_entries"`
}

// NewRepoActivity returns a RepoActivity whose lists are empty rather than nil,
// so they serialize as [] instead of null.
func NewRepoActivity(name, url, description string) RepoActivity {
	return RepoActivity{
		Name:             name,
		URL:              url,
		Description:      description,
		Issues:           []Issue{},
		Pulls:            []PullRequest{},
		Commits:          []Commit{},
		Contributors:     []Contributor{},
		ChangelogEntries: []ReleaseEntry{},
	}
}

// HasActivity reports whether the repository had any issue, pull request,
// commit or changelog entry in the window. Contributors alone do not count.
func (r RepoActivity) HasActivity() bool {
	return len(r.Issues) > 0 || len(r.Pulls) > 0 || len(r.Commits) > 0 || len(r.ChangelogEntries) > 0
}

// OrgSnapshot is the result of one collection run over an organization.
type OrgSnapshot struct {
	Repos          []RepoActivity `json:"repos"`
	Period         Period         `json:"period"`
	GeneratedAt    string         `json:"generated_at"`
	TotalRepoCount int            `json:"total_repo_count"`
}

// RepoCount returns the number of repositories scanned, falling back to the
// number of retained repositories for snapshots written without a total.
func (s OrgSnapshot) RepoCount() int {
	if s.TotalRepoCount > 0 {
		return s.TotalRepoCount
	}
	return len(s.Repos)
}
