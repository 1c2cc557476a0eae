package domain

// Summary is the plain-text aggregate of an OrgSnapshot.
type Summary struct {
	Period                Period        `json:"period"`
	GeneratedAt           string        `json:"generated_at"`
	TotalRepos            int           `json:"total_repos"`
	ActiveRepos           int           `json:"active_repos"`
	TotalIssues           int           `json:"total_issues"`
	TotalPulls            int           `json:"total_pulls"`
	TotalCommits          int           `json:"total_commits"`
	TotalChangelogEntries int           `json:"total_changelog_entries"`
	ReposWithActivity     []RepoSummary `json:"repos_with_activity"`
	KeyChanges            []string      `json:"key_changes"`
}

// RepoSummary holds the activity counts and highlights of a single repository.
type RepoSummary struct {
	Name             string   `json:"name"`
	URL              string   `json:"url"`
	Issues           int      `json:"issues"`
	Pulls            int      `json:"pulls"`
	Commits          int      `json:"commits"`
	ChangelogEntries int      `json:"changelog_entries"`
	LatestVersion    string   `json:"latest_version,omitempty"`
	Highlights       []string `json:"highlights"`
}

// Activity is the ranking key used by every renderer: commits plus pull requests.
func (r RepoSummary) Activity() int {
	return r.Commits + r.Pulls
}

// Bucket is a semantic change category.
type Bucket string

const (
	BucketAdded         Bucket = "added"
	BucketFixed         Bucket = "fixed"
	BucketChanged       Bucket = "changed"
	BucketDeprecated    Bucket = "deprecated"
	BucketRemoved       Bucket = "removed"
	BucketSecurity      Bucket = "security"
	BucketPerformance   Bucket = "performance"
	BucketDocumentation Bucket = "documentation"
	BucketOther         Bucket = "other"
)

// Buckets lists every bucket in display order, "other" last.
var Buckets = []Bucket{
	BucketAdded,
	BucketFixed,
	BucketChanged,
	BucketDeprecated,
	BucketRemoved,
	BucketSecurity,
	BucketPerformance,
	BucketDocumentation,
	BucketOther,
}

// ChangeTypePR marks a categorized change that came from a merged pull request.
const ChangeTypePR = "pr"

// CategorizedChange is a single change item routed into a Bucket.
type CategorizedChange struct {
	Repo     string `json:"repo"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
	Emoji    string `json:"emoji"`
	URL      string `json:"url,omitempty"`
	Type     string `json:"type,omitempty"`
}

// ActiveRepo is one row of the condensed activity ranking.
type ActiveRepo struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Commits int    `json:"commits"`
	Pulls   int    `json:"pulls"`
	Issues  int    `json:"issues"`
}

// CondensedSummary is the emoji-decorated aggregate of an OrgSnapshot.
type CondensedSummary struct {
	Period                Period                         `json:"period"`
	GeneratedAt           string                         `json:"generated_at"`
	TotalRepos            int                            `json:"total_repos"`
	ActiveRepos           int                            `json:"active_repos"`
	TotalCommits          int                            `json:"total_commits"`
	TotalPulls            int                            `json:"total_pulls"`
	TotalIssues           int                            `json:"total_issues"`
	TotalChangelogEntries int                            `json:"total_changelog_entries"`
	CategorizedChanges    map[Bucket][]CategorizedChange `json:"categorized_changes"`
	ChangeCounts          map[Bucket]int                 `json:"change_counts"`
	ActiveReposList       []ActiveRepo                   `json:"active_repos_list"`
	CommitStats           CommitStats                    `json:"commit_stats"`
}
