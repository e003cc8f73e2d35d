package game

import (
	"testing"
	"time"
)

func TestSortParty(t *testing.T) {
	party := func() []PartyEntry {
		return []PartyEntry{
			{Identity: "rattata", Name: "Rattata", Count: 5},
			{Identity: "mewtwo", Name: "Mewtwo", Count: 1},
			{Identity: "pikachu", Name: "Pikachu", Count: 2},
			{Identity: "bulbasaur", Name: "Bulbasaur", Count: 2},
			{Identity: "dragonite", Name: "Dragonite", Count: 1},
		}
	}

	tests := []struct {
		name  string
		order PartyOrder
		want  []string
	}{
		{"by name", SortByName, []string{"Bulbasaur", "Dragonite", "Mewtwo", "Pikachu", "Rattata"}},
		{"by rarity", SortByRarity, []string{"Mewtwo", "Dragonite", "Pikachu", "Bulbasaur", "Rattata"}},
		{"by quantity", SortByQuantity, []string{"Rattata", "Bulbasaur", "Pikachu", "Dragonite", "Mewtwo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := party()
			SortParty(entries, tt.order)
			for i, e := range entries {
				if e.Name != tt.want[i] {
					t.Fatalf("expected %v, got order starting %q at %d", tt.want, e.Name, i)
				}
			}
		})
	}
}

func TestParsePartyOrder(t *testing.T) {
	tests := map[string]PartyOrder{
		"rarity":   SortByRarity,
		"quantity": SortByQuantity,
		"count":    SortByQuantity,
		"name":     SortByName,
		"":         SortByName,
	}
	for in, want := range tests {
		if got := ParsePartyOrder(in); got != want {
			t.Errorf("ParsePartyOrder(%q): expected %d, got %d", in, want, got)
		}
	}
}

func TestNewSnapshotCooldown(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSave()

	s.StopReadyAt = now.Add(90*time.Second + 500*time.Millisecond)
	if got := newSnapshot(s, now).StopReadyIn; got != 91 {
		t.Errorf("expected partial seconds rounded up to 91, got %d", got)
	}

	s.StopReadyAt = now.Add(-time.Minute)
	if got := newSnapshot(s, now).StopReadyIn; got != 0 {
		t.Errorf("expected a ready stop, got %d", got)
	}
}

func TestNewSnapshotWithoutCompanion(t *testing.T) {
	snap := newSnapshot(NewSave(), time.Now())
	if snap.Companion != "" || snap.NextLevelXP != 0 {
		t.Errorf("expected an empty companion view, got %+v", snap)
	}
	if snap.Inventory[Coins] != StartingCoins || snap.Party == nil {
		t.Errorf("expected default inventory and an empty party, got %+v", snap)
	}
}
