package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mmcdole/panda/internal/domain"
)

func TestSuggest(t *testing.T) {
	history := []string{"touhou", "artist:alice", "female:glasses", "Touhou Project"}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns history", "", history},
		{"exact before prefix", "touhou", []string{"touhou", "Touhou Project"}},
		{"fuzzy subsequence", "fglss", []string{"female:glasses"}},
		{"no match", "zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.query, history)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Suggest(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSuggest_DoesNotAliasHistory(t *testing.T) {
	history := []string{"a", "b"}
	got := Suggest("", history)
	got[0] = "changed"
	if history[0] != "a" {
		t.Fatal("Suggest returned the history slice itself")
	}
}

func TestFilter(t *testing.T) {
	galleries := []domain.Gallery{
		{ID: "1", Title: "Summer Vacation"},
		{ID: "2", Title: "Winter Story"},
		{ID: "3", Title: "summer story"},
	}

	got := Filter("summer", galleries)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.Gallery.ID)
	}
	if diff := cmp.Diff([]string{"1", "3"}, ids, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	for _, r := range got {
		if len(r.MatchedIndexes) != len("summer") {
			t.Errorf("gallery %s matched %v", r.Gallery.ID, r.MatchedIndexes)
		}
	}

	if all := Filter("  ", galleries); len(all) != 3 || all[2].Index != 2 {
		t.Errorf("empty filter = %+v", all)
	}
	if none := Filter("xyz", galleries); len(none) != 0 {
		t.Errorf("Filter(xyz) = %+v", none)
	}
}
