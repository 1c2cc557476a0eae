package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	return NewStore(filepath.Join(root, "data"), filepath.Join(root, "summaries"))
}

func touch(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := domain.NewRepoActivity("alpha", "https://github.com/org/alpha", "")
	repo.Commits = []domain.Commit{{Message: "init", URL: "c", Author: "A", CreatedAt: "2025-01-02T00:00:00Z"}}
	snapshot := &domain.OrgSnapshot{
		Repos:          []domain.RepoActivity{repo},
		Period:         domain.Period{Start: "2025-01-01", End: "2025-01-08"},
		GeneratedAt:    "2025-01-08T00:00:00Z",
		TotalRepoCount: 5,
	}

	path, err := store.SaveSnapshot(snapshot)
	require.NoError(t, err)
	assert.Equal(t, "weekly_changelog_2025-01-01_to_2025-01-08.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"issues": []`)
	assert.Contains(t, string(raw), `"total_repo_count": 5`)

	latest, err := store.LatestSnapshotPath()
	require.NoError(t, err)
	assert.Equal(t, path, latest)

	loaded, err := LoadSnapshot(latest)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loaded)
}

func TestStore_LatestSnapshotPath(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LatestSnapshotPath()
	assert.ErrorIs(t, err, ErrNotFound)

	touch(t, store.dataDir, "notes.txt", "")
	_, err = store.LatestSnapshotPath()
	assert.ErrorIs(t, err, ErrNotFound)

	touch(t, store.dataDir, "weekly_changelog_2025-01-01_to_2025-01-08.json", "{}")
	touch(t, store.dataDir, "weekly_changelog_2025-01-08_to_2025-01-15.json", "{}")
	latest, err := store.LatestSnapshotPath()
	require.NoError(t, err)
	assert.Equal(t, "weekly_changelog_2025-01-08_to_2025-01-15.json", filepath.Base(latest))
}

func TestLoadSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name     string
		content  *string
		expected error
	}{
		{name: "missing file", expected: ErrNotFound},
		{name: "malformed JSON", content: ptr(`{"repos": [`), expected: ErrInvalidSnapshot},
		{name: "missing repos key", content: ptr(`{"period": {"start": "2025-01-01"}}`), expected: ErrInvalidSnapshot},
		{name: "not an object", content: ptr(`[]`), expected: ErrInvalidSnapshot},
	}
	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".json")
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0o644))
			}
			_, err := LoadSnapshot(path)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func ptr(s string) *string {
	return &s
}

func TestStore_WriteArtifacts(t *testing.T) {
	store := newTestStore(t)
	summaryArtifact, err := JSONArtifact("summary_25-01-08.json", map[string]int{"total_repos": 3})
	require.NoError(t, err)

	paths, err := store.WriteArtifacts(context.Background(), []Artifact{
		summaryArtifact,
		TextArtifact("slack_25-01-08.txt", "hello"),
		TextArtifact("pr_title_25-01-08.txt", "Weekly"),
	})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, "slack_25-01-08.txt", filepath.Base(paths[1]))
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_repos": 3}`, string(data))
}

func TestStore_WriteArtifacts_Canceled(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.WriteArtifacts(ctx, []Artifact{TextArtifact("a.txt", "a")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_LatestPRFiles(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.LatestPRFiles(false)
	assert.ErrorIs(t, err, ErrNotFound)

	touch(t, store.summaryDir, "pr_title_25-01-01.txt", "old")
	touch(t, store.summaryDir, "pr_body_25-01-01.md", "old")
	touch(t, store.summaryDir, "pr_title_25-01-08.txt", "new")
	touch(t, store.summaryDir, "pr_body_25-01-08.md", "new")
	touch(t, store.summaryDir, "pr_title_condensed_25-01-08.txt", "condensed")
	touch(t, store.summaryDir, "pr_body_condensed_25-01-08.md", "condensed")

	testCases := []struct {
		name      string
		condensed bool
		title     string
		body      string
	}{
		{name: "plain files skip the condensed variant", title: "pr_title_25-01-08.txt", body: "pr_body_25-01-08.md"},
		{name: "condensed files", condensed: true, title: "pr_title_condensed_25-01-08.txt", body: "pr_body_condensed_25-01-08.md"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			title, body, err := store.LatestPRFiles(tc.condensed)
			require.NoError(t, err)
			assert.Equal(t, tc.title, filepath.Base(title))
			assert.Equal(t, tc.body, filepath.Base(body))
		})
	}
}

func TestStore_LatestPRFiles_MissingBody(t *testing.T) {
	store := newTestStore(t)
	touch(t, store.summaryDir, "pr_title_25-01-08.txt", "title")

	_, _, err := store.LatestPRFiles(false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadTrimmed(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "title.txt", "  Weekly Changelog Summary\n\n")

	got, err := ReadTrimmed(filepath.Join(dir, "title.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Weekly Changelog Summary", got)
}

func TestNames(t *testing.T) {
	day := time.Date(2025, 1, 8, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "25-01-08", Stamp(day))
	assert.Equal(t, "mailto_25-01-08.txt", ArtifactName("mailto", Stamp(day), "txt"))
	assert.Equal(t, "weekly_changelog_2025-01-01_to_2025-01-08.json",
		SnapshotName(domain.Period{Start: "2025-01-01", End: "2025-01-08"}))
}
