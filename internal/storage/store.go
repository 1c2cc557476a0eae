// Package storage persists snapshots, summaries and rendered artifacts on disk.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned when an expected directory or file is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSnapshot is returned for malformed snapshot documents.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

const (
	snapshotPrefix = "weekly_changelog_"
	titlePrefix    = "pr_title_"
	bodyPrefix     = "pr_body_"
	condensedTag   = "condensed_"

	// FileDateLayout is the date stamp used in artifact file names.
	FileDateLayout = "06-01-02"
)

// Store reads and writes artifacts under a data directory (snapshots) and a
// summary directory (summaries and rendered text).
type Store struct {
	dataDir    string
	summaryDir string
}

// NewStore creates a new Store instance.
func NewStore(dataDir, summaryDir string) *Store {
	return &Store{dataDir: dataDir, summaryDir: summaryDir}
}

// SummaryDir returns the directory holding summaries and rendered artifacts.
func (s *Store) SummaryDir() string {
	return s.summaryDir
}

// Artifact is a named file to write into the summary directory.
type Artifact struct {
	Name    string
	Content []byte
}

// SnapshotName returns the file name of the snapshot covering the period.
func SnapshotName(period domain.Period) string {
	return fmt.Sprintf("%s%s_to_%s.json", snapshotPrefix, period.Start, period.End)
}

// SaveSnapshot writes the snapshot as indented JSON and returns its path.
func (s *Store) SaveSnapshot(snapshot *domain.OrgSnapshot) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(s.dataDir, SnapshotName(snapshot.Period))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

// LatestSnapshotPath returns the lexically last snapshot file in the data directory.
func (s *Store) LatestSnapshotPath() (string, error) {
	names, err := listWithPrefix(s.dataDir, snapshotPrefix, "")
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no weekly changelog files in %s: %w", s.dataDir, ErrNotFound)
	}
	return filepath.Join(s.dataDir, names[len(names)-1]), nil
}

// LoadSnapshot reads a snapshot document. A document without a "repos" key
// is rejected.
func LoadSnapshot(path string) (*domain.OrgSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("data file %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}
	if _, ok := keys["repos"]; !ok {
		return nil, fmt.Errorf("%w: missing 'repos' key in %s", ErrInvalidSnapshot, path)
	}

	var snapshot domain.OrgSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, path, err)
	}
	return &snapshot, nil
}

// JSONArtifact marshals v as indented JSON.
func JSONArtifact(name string, v any) (Artifact, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return Artifact{Name: name, Content: data}, nil
}

// TextArtifact wraps plain text.
func TextArtifact(name, text string) Artifact {
	return Artifact{Name: name, Content: []byte(text)}
}

// WriteArtifacts writes the artifacts into the summary directory concurrently
// and returns their paths in input order.
func (s *Store) WriteArtifacts(ctx context.Context, artifacts []Artifact) ([]string, error) {
	if err := os.MkdirAll(s.summaryDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create summary directory: %w", err)
	}

	paths := make([]string, len(artifacts))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, artifact := range artifacts {
		i, artifact := i, artifact
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			path := filepath.Join(s.summaryDir, artifact.Name)
			if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", artifact.Name, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// LatestPRFiles returns the newest PR title and body files. The condensed
// variant is selected with condensed=true; otherwise condensed files are ignored.
func (s *Store) LatestPRFiles(condensed bool) (string, string, error) {
	if _, err := os.Stat(s.summaryDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("summaries directory %s: %w", s.summaryDir, ErrNotFound)
		}
		return "", "", err
	}

	titlePattern, bodyPattern := titlePrefix, bodyPrefix
	exclude := titlePrefix + condensedTag
	excludeBody := bodyPrefix + condensedTag
	if condensed {
		titlePattern, bodyPattern = titlePrefix+condensedTag, bodyPrefix+condensedTag
		exclude, excludeBody = "", ""
	}

	titles, err := listWithPrefix(s.summaryDir, titlePattern, exclude)
	if err != nil {
		return "", "", err
	}
	bodies, err := listWithPrefix(s.summaryDir, bodyPattern, excludeBody)
	if err != nil {
		return "", "", err
	}
	if len(titles) == 0 || len(bodies) == 0 {
		return "", "", fmt.Errorf("PR title or body files: %w", ErrNotFound)
	}
	return filepath.Join(s.summaryDir, titles[len(titles)-1]), filepath.Join(s.summaryDir, bodies[len(bodies)-1]), nil
}

// ReadTrimmed reads a text artifact without surrounding whitespace.
func ReadTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Stamp formats t for use in artifact file names.
func Stamp(t time.Time) string {
	return t.UTC().Format(FileDateLayout)
}

func listWithPrefix(dir, prefix, exclude string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("directory %s: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if exclude != "" && strings.HasPrefix(name, exclude) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ArtifactName builds a summary-directory file name such as "slack_25-01-08.txt".
func ArtifactName(kind, stamp, ext string) string {
	return fmt.Sprintf("%s_%s.%s", kind, stamp, ext)
}
