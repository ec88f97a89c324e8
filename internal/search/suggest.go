// Package search ranks history keywords and filters loaded gallery lists
// locally.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the history keywords that fuzzily match query, best match
// first. Ties keep history order, so recent keywords win. An empty query
// returns history unchanged.
func Suggest(query string, history []string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]string(nil), history...)
	}

	type ranked struct {
		keyword string
		score   int
		order   int
	}

	var results []ranked
	for _, m := range fuzzy.RankFindFold(query, history) {
		results = append(results, ranked{
			keyword: m.Target,
			score:   matchScore(strings.ToLower(m.Target), query, m.Distance),
			order:   m.OriginalIndex,
		})
	}

	// Sort by score (lower is better)
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score < results[j].score
		}
		return results[i].order < results[j].order
	})

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.keyword
	}
	return out
}

// matchScore calculates a match score for ranking
// Lower score = better match
func matchScore(keyword, query string, distance int) int {
	// Exact match is best
	if keyword == query {
		return 0
	}

	// Prefix match is very good
	if strings.HasPrefix(keyword, query) {
		return 10
	}

	// Contains match is good
	if strings.Contains(keyword, query) {
		return 50
	}

	return 100 + distance
}
