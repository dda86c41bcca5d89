package twitter

import (
	"fmt"
	"strings"
)

// BuildSearchQuery assembles a recent-search query from the keyword list:
// multi-word keywords are quoted as phrases, single words stay bare, all
// joined with OR, with retweets excluded and results restricted to lang.
func BuildSearchQuery(terms []string, lang string) string {
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		t := strings.TrimSpace(term)
		if t == "" {
			continue
		}
		if strings.Contains(t, " ") {
			parts = append(parts, fmt.Sprintf("%q", t))
		} else {
			parts = append(parts, t)
		}
	}

	return fmt.Sprintf("(%s) -is:retweet lang:%s", strings.Join(parts, " OR "), lang)
}
