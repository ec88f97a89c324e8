package search

import (
	"strings"

	"github.com/mmcdole/panda/internal/domain"
	"github.com/sahilm/fuzzy"
)

// FilterResult is a gallery matched by Filter
type FilterResult struct {
	Gallery        domain.Gallery
	Index          int   // position in the filtered slice
	MatchedIndexes []int // byte offsets of matched title characters, for highlighting
	Score          int   // higher is better
}

// titleIndex implements sahilm/fuzzy.Source over gallery titles
type titleIndex struct {
	galleries   []domain.Gallery
	lowerTitles []string // Pre-computed lowercase titles
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *titleIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of galleries (implements fuzzy.Source)
func (idx *titleIndex) Len() int { return len(idx.galleries) }

// Filter matches query against the titles of galleries, best match first.
// An empty query matches everything in order.
func Filter(query string, galleries []domain.Gallery) []FilterResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]FilterResult, len(galleries))
		for i, g := range galleries {
			out[i] = FilterResult{Gallery: g, Index: i}
		}
		return out
	}

	idx := &titleIndex{
		galleries:   galleries,
		lowerTitles: make([]string, len(galleries)),
	}
	for i, g := range galleries {
		idx.lowerTitles[i] = strings.ToLower(g.Title)
	}

	matches := fuzzy.FindFrom(query, idx)
	out := make([]FilterResult, len(matches))
	for i, m := range matches {
		out[i] = FilterResult{
			Gallery:        galleries[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}
