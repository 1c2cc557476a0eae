package classify

import "strings"

// Verb is a plain-summary change verb.
type Verb struct {
	Name  string
	Limit int
}

var (
	VerbAdded   = Verb{Name: "Added", Limit: 2}
	VerbFixed   = Verb{Name: "Fixed", Limit: 2}
	VerbChanged = Verb{Name: "Changed", Limit: 1}
)

// SummaryVerb applies the prefix rule of the plain summary to a changelog
// category. Limit is the number of leading items worth highlighting.
func SummaryVerb(category string) (Verb, bool) {
	lower := strings.ToLower(category)
	switch {
	case strings.HasPrefix(lower, "add"), strings.HasPrefix(lower, "new"):
		return VerbAdded, true
	case strings.HasPrefix(lower, "fix"), strings.HasPrefix(lower, "bug"):
		return VerbFixed, true
	case strings.HasPrefix(lower, "chang"):
		return VerbChanged, true
	}
	return Verb{}, false
}
