// Package classify maps free-text change labels to change categories.
//
// Two strategies live here and are intentionally separate: Classify is the
// eight-bucket pattern matcher used by the condensed summary, SummaryVerb is
// the three-verb prefix rule used by the plain summary.
package classify

import (
	"regexp"
	"strings"

	"github.com/naka-gawa/weekly-changelog/internal/domain"
)

// FallbackEmoji is returned for labels that match no bucket.
const FallbackEmoji = "❓"

type rule struct {
	bucket   domain.Bucket
	emoji    string
	patterns []*regexp.Regexp
	keywords []string
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

// rules are scanned in order; the first bucket with a hit wins.
var rules = []rule{
	{
		bucket:   domain.BucketAdded,
		emoji:    "✅",
		patterns: patterns(`add(?:ed|s|ing)?`, `new`),
		keywords: []string{"add", "added", "adds", "adding", "new"},
	},
	{
		bucket:   domain.BucketFixed,
		emoji:    "🪲",
		patterns: patterns(`fix(?:ed|es|ing)?`, `bug`),
		keywords: []string{"fix", "fixed", "fixes", "fixing", "bug", "bugfix"},
	},
	{
		bucket: domain.BucketChanged,
		emoji:  "🔧",
		patterns: patterns(
			`chang(?:ed|e|es|ing)?`,
			`modif(?:y|ied|ies|ying)?`,
			`updat(?:ed|e|es|ing)?`,
			`improv(?:ed|e|es|ing|ement)?`,
		),
		keywords: []string{
			"change", "changed", "changes", "changing",
			"modify", "modified", "modifies", "modifying",
			"update", "updated", "updates", "updating",
			"improve", "improved", "improvement",
		},
	},
	{
		bucket:   domain.BucketDeprecated,
		emoji:    "⚠️",
		patterns: patterns(`deprecat(?:ed|e|es|ing)?`),
		keywords: []string{"deprecate", "deprecated", "deprecates", "deprecating"},
	},
	{
		bucket:   domain.BucketRemoved,
		emoji:    "🗑️",
		patterns: patterns(`remov(?:ed|e|es|ing)?`, `delet(?:ed|e|es|ing)?`),
		keywords: []string{"remove", "removed", "removes", "removing", "delete", "deleted", "deletes", "deleting"},
	},
	{
		bucket:   domain.BucketSecurity,
		emoji:    "🔒",
		patterns: patterns(`secur(?:ity|ed|e|ing)?`),
		keywords: []string{"security", "secure", "secured", "securing"},
	},
	{
		bucket:   domain.BucketPerformance,
		emoji:    "⚡️",
		patterns: patterns(`performan(?:ce|t)?`, `optimi(?:ze|zed|zes|zing|zation)?`),
		keywords: []string{"performance", "performant", "optimize", "optimized", "optimizes", "optimizing", "optimization"},
	},
	{
		bucket:   domain.BucketDocumentation,
		emoji:    "📚",
		patterns: patterns(`document(?:ation)?`, `docs?`),
		keywords: []string{"documentation", "document", "docs", "doc"},
	},
}

// Classify returns the emoji and bucket for a section heading or PR title.
// Matching is a case-insensitive substring search, so "prefix" lands in fixed.
func Classify(label string) (string, domain.Bucket) {
	lower := strings.ToLower(label)
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(label) {
				return r.emoji, r.bucket
			}
		}
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.emoji, r.bucket
			}
		}
	}
	return FallbackEmoji, domain.BucketOther
}

// Emoji returns the glyph shown for a bucket.
func Emoji(b domain.Bucket) string {
	for _, r := range rules {
		if r.bucket == b {
			return r.emoji
		}
	}
	return FallbackEmoji
}
