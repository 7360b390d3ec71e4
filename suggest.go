package worksheet

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggest returns the id in ids closest to name by edit distance, or "" when none is
// within a third of the name's length. Ties go to the earlier id.
func suggest(name string, ids []string) string {
	if name == "" {
		return ""
	}
	limit := max(1, len(name)/3)
	best, bestDist := "", limit+1
	for _, id := range ids {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(id))
		if d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// didYouMean formats a hint for an unknown id, or "" when nothing is close.
func didYouMean(name string, ids []string) string {
	if s := suggest(name, ids); s != "" {
		return fmt.Sprintf("did you mean %q?", s)
	}
	return ""
}
