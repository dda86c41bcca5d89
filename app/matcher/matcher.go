package matcher

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Decision is the outcome of running a mention text against the keyword list.
// Confidence is a 0-100 score; exact substring hits always score 100.
type Decision struct {
	Matched    bool
	Keyword    string
	Confidence int
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Run decides if a mention warrants a reply. It first looks for a keyword
// appearing literally in the normalized text (first one in list order wins),
// then falls back to a partial-ratio fuzzy pass against every keyword.
// Ties in the fuzzy pass resolve to the earliest keyword in list order.
func (m *Matcher) Run(text string, terms []string, threshold int) Decision {
	normalized := Normalize(text)
	if normalized == "" || len(terms) == 0 {
		return Decision{}
	}

	for _, term := range terms {
		if strings.Contains(normalized, strings.ToLower(term)) {
			return Decision{Matched: true, Keyword: term, Confidence: 100}
		}
	}

	bestTerm := ""
	bestScore := 0
	for _, term := range terms {
		score := fuzzy.PartialRatio(normalized, strings.ToLower(term))
		if score > bestScore {
			bestScore = score
			bestTerm = term
		}
	}

	if bestScore >= threshold {
		return Decision{Matched: true, Keyword: bestTerm, Confidence: bestScore}
	}

	return Decision{}
}

// Normalize lowercases the text, strips URLs and collapses runs of whitespace.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = urlPattern.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}
