package species

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultSearchLimit caps starter search results.
const DefaultSearchLimit = 50

// Search filters names by query for the starter picker. Substring hits come
// first in their original order; when there are none, names within a typo
// distance of the query are returned closest first. An empty query returns
// the first limit names.
func Search(names []string, query string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var out []string
	for _, n := range names {
		if q == "" || strings.Contains(strings.ToLower(n), q) {
			out = append(out, n)
			if len(out) == limit {
				return out
			}
		}
	}
	if len(out) > 0 || len(q) < 3 {
		return out
	}

	type match struct {
		name string
		dist int
	}
	var fuzzy []match
	maxDist := typoLimit(len(q))
	for _, n := range names {
		if d := levenshtein.ComputeDistance(q, strings.ToLower(n)); d <= maxDist {
			fuzzy = append(fuzzy, match{name: n, dist: d})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool {
		return fuzzy[i].dist < fuzzy[j].dist
	})
	for _, m := range fuzzy {
		out = append(out, m.name)
		if len(out) == limit {
			break
		}
	}
	return out
}

func typoLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
