// Package changelog parses free-form markdown changelog files into release
// blocks of categorized change items.
package changelog

import (
	"regexp"
	"strings"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

// versionPatterns recognize a release header. They are tried one by one and
// the first match wins; the first capture group becomes the version.
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#+\s*(?:v|\[)?(\d+\.\d+\.\d+)(?:\])?.*?$`),
	regexp.MustCompile(`^#+\s*(\d{4}-\d{2}-\d{2}).*?$`),
	regexp.MustCompile(`^#+\s*[Rr]elease\s+(?:v|\[)?(\d+\.\d+\.\d+)(?:\])?.*?$`),
	regexp.MustCompile(`^#+\s*[Vv]ersion\s+(?:v|\[)?(\d+\.\d+\.\d+)(?:\])?.*?$`),
}

var datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// categoryKeywords are the heading words that open a ChangeGroup.
var categoryKeywords = []string{
	`add(?:ed|s|ing)?`,
	`chang(?:ed|e|es|ing)?`,
	`deprecat(?:ed|e|es|ing)?`,
	`remov(?:ed|e|es|ing)?`,
	`fix(?:ed|es|ing)?`,
	`secur(?:ity|ed|e|ing)?`,
}

// categoryPattern anchors a keyword at a markdown heading, a bold list item
// or an indented list dash, followed only by colons or whitespace.
var categoryPattern = regexp.MustCompile(
	`(?i)(?:^#+\s*|^\s*-\s*\*\*|\s+-\s+)(` + strings.Join(categoryKeywords, "|") + `)[:\s]*$`,
)

// excludedItemPrefixes guard against sub-headers mis-read as bullet items.
// "depreciated" is the historical spelling and is kept as is.
var excludedItemPrefixes = []string{"added", "changed", "depreciated", "removed", "fixed", "security"}

// Parse splits a changelog document into release entries in document order.
// Releases without any change group are dropped.
func Parse(text string) []domain.ReleaseEntry {
	state := newParseState()
	for _, line := range strings.Split(text, "\n") {
		state = state.feed(strings.TrimSuffix(line, "\r"))
	}
	return state.finish()
}

// parseState is the accumulator threaded through the fold over lines.
type parseState struct {
	current  domain.ReleaseEntry
	releases []domain.ReleaseEntry
}

func newParseState() parseState {
	return parseState{
		current:  newRelease(domain.UnknownVersion, nil),
		releases: []domain.ReleaseEntry{},
	}
}

func newRelease(version string, date *string) domain.ReleaseEntry {
	return domain.ReleaseEntry{Version: version, Date: date, Changes: []domain.ChangeGroup{}}
}

func (s parseState) feed(line string) parseState {
	if version, ok := matchVersion(line); ok {
		s = s.flush()
		s.current = newRelease(version, matchDate(line))
	}

	if category, ok := matchCategory(line); ok {
		s.current.Changes = append(s.current.Changes, domain.ChangeGroup{Category: category, Items: []string{}})
		return s
	}

	if item, ok := matchItem(line); ok && len(s.current.Changes) > 0 {
		last := len(s.current.Changes) - 1
		s.current.Changes[last].Items = append(s.current.Changes[last].Items, item)
	}
	return s
}

// flush moves the current release to the output when it has content.
func (s parseState) flush() parseState {
	if len(s.current.Changes) > 0 {
		s.releases = append(s.releases, s.current)
	}
	return s
}

func (s parseState) finish() []domain.ReleaseEntry {
	return s.flush().releases
}

func matchVersion(line string) (string, bool) {
	for _, p := range versionPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func matchDate(line string) *string {
	m := datePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	date := m[1]
	return &date
}

// matchCategory tests the raw line first so an indented "  - Added" is seen,
// then the stripped line so an indented "  ### Added" is seen too.
func matchCategory(line string) (string, bool) {
	for _, candidate := range []string{line, strings.TrimSpace(line)} {
		if m := categoryPattern.FindStringSubmatch(candidate); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func matchItem(line string) (string, bool) {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(stripped, "-") && !strings.HasPrefix(stripped, "*") {
		return "", false
	}
	item := strings.TrimSpace(stripped[1:])
	if item == "" {
		return "", false
	}
	lower := strings.ToLower(item)
	for _, prefix := range excludedItemPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", false
		}
	}
	return item, true
}
