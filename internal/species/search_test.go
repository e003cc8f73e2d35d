package species

import (
	"slices"
	"testing"
)

func TestSearch(t *testing.T) {
	names := []string{"bulbasaur", "ivysaur", "venusaur", "charmeleon", "charmander", "pikachu", "raichu", "eevee"}

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"empty query", "", 3, []string{"bulbasaur", "ivysaur", "venusaur"}},
		{"substring keeps order", "saur", 0, []string{"bulbasaur", "ivysaur", "venusaur"}},
		{"case and spaces", "  CHAR ", 0, []string{"charmeleon", "charmander"}},
		{"limit", "chu", 1, []string{"pikachu"}},
		{"typo", "pikachoo", 0, []string{"pikachu"}},
		{"closest first", "charmelder", 0, []string{"charmander", "charmeleon"}},
		{"short queries skip fuzzy", "zz", 0, nil},
		{"too far", "mewtwo", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(names, tt.query, tt.limit)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTypoLimit(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{3, 1},
		{4, 1},
		{5, 2},
		{8, 2},
		{9, 3},
	}
	for _, tt := range tests {
		if got := typoLimit(tt.length); got != tt.want {
			t.Errorf("typoLimit(%d): expected %d, got %d", tt.length, tt.want, got)
		}
	}
}
