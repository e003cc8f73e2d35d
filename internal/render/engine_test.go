package render

import (
	"strings"
	"testing"

	"wild-companion/internal/game"
)

func testSnapshot() *game.Snapshot {
	return &game.Snapshot{
		Companion:     "pikachu",
		CompanionName: "Pikachu",
		Stats:         game.CreatureStats{Level: 5, HitPoints: 140, Attack: 35},
		NextLevelXP:   125,
		Inventory:     map[game.Resource]int{game.Coins: 100, game.BasicBalls: 5, game.Potions: 2},
		Party: []game.PartyEntry{
			{Identity: "rattata", Name: "Rattata", Count: 3, Tier: "common", Level: 1, SellValue: 8},
			{Identity: "mewtwo", Name: "Mewtwo", Count: 1, Tier: "legendary", Level: 1, SellValue: 1500},
		},
		SoundOn:      true,
		Volume:       0.5,
		NextBattleIn: -1,
		Battle: &game.BattleSnapshot{
			ID:           "b1",
			Phase:        "ongoing",
			Ongoing:      true,
			Companion:    "Pikachu",
			CompanionHP:  90,
			CompanionMax: 140,
			CompanionLvl: 5,
			Wild:         "Rattata",
			WildTier:     "common",
			WildHP:       40,
			WildMaxHP:    140,
			CatchChances: map[string]float64{"basic": 0.4, "great": 0.6, "ultra": 0.8, "master": 1},
			Log:          []string{"A wild Rattata appeared!"},
		},
	}
}

func TestRenderScreens(t *testing.T) {
	screens := []struct {
		name   string
		screen Screen
	}{
		{"home", ScreenHome},
		{"battle", ScreenBattle},
		{"bag", ScreenBag},
		{"shop", ScreenShop},
		{"starter", ScreenStarter},
		{"settings", ScreenSettings},
	}

	for _, tt := range screens {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(80, 24)
			v := View{Screen: tt.screen, Player: "ash", Snapshot: testSnapshot(), Results: []string{"eevee"}}

			first := e.Render(v, 80, 24)
			if !strings.HasPrefix(first, MoveTo(1, 1)) {
				t.Fatalf("expected a full frame from the top-left, got %q", first[:min(len(first), 20)])
			}
			if second := e.Render(v, 80, 24); second != "" {
				t.Errorf("expected an unchanged frame to emit nothing, got %d bytes", len(second))
			}
		})
	}
}

func TestRenderDiff(t *testing.T) {
	e := NewEngine(80, 24)
	snap := testSnapshot()
	v := View{Screen: ScreenBattle, Player: "ash", Snapshot: snap}
	full := e.Render(v, 80, 24)

	snap.Battle.WildHP = 10
	diff := e.Render(v, 80, 24)
	if diff == "" || len(diff) >= len(full) {
		t.Errorf("expected a partial update, got %d of %d bytes", len(diff), len(full))
	}

	v.Screen = ScreenHome
	if again := e.Render(v, 80, 24); len(again) < len(diff) {
		t.Errorf("a screen change should redraw everything")
	}
}

func TestRenderTooSmall(t *testing.T) {
	e := NewEngine(80, 24)
	v := View{Player: "ash", Snapshot: testSnapshot()}
	if out := e.Render(v, 10, 5); out != "" {
		t.Errorf("expected nothing for a tiny terminal, got %d bytes", len(out))
	}
	if out := e.Render(v, 80, 24); out == "" {
		t.Errorf("expected a redraw after growing back")
	}
}

func TestRenderLoading(t *testing.T) {
	e := NewEngine(40, 12)
	if out := e.Render(View{Player: "ash"}, 40, 12); out == "" {
		t.Errorf("expected a loading frame without a snapshot")
	}
}

func TestSortedParty(t *testing.T) {
	snap := testSnapshot()
	byRarity := SortedParty(snap, game.SortByRarity)
	if byRarity[0].Identity != "mewtwo" {
		t.Errorf("expected mewtwo first by rarity, got %v", byRarity)
	}
	if snap.Party[0].Identity != "rattata" {
		t.Errorf("sorting must not reorder the snapshot")
	}
	if SortedParty(nil, game.SortByName) != nil {
		t.Errorf("expected nil for no snapshot")
	}
}

func TestTierColor(t *testing.T) {
	tests := map[string]RGB{
		"common":    TierColors[0],
		"uncommon":  TierColors[1],
		"rare":      TierColors[2],
		"legendary": TierColors[3],
		"":          TierColors[0],
	}
	for tier, want := range tests {
		if got := TierColor(tier); got != want {
			t.Errorf("TierColor(%q): expected %v, got %v", tier, want, got)
		}
	}
}

func TestWriteCellSGR(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"plain", Cell{Ch: 'x', Fg: RGB{1, 2, 3}, Bg: RGB{4, 5, 6}}, "\x1b[0;38;2;1;2;3;48;2;4;5;6mx"},
		{"bold", Cell{Ch: '█', Fg: RGB{R: 255}, Bold: true}, "\x1b[0;1;38;2;255;0;0;48;2;0;0;0m█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			WriteCellSGR(&sb, tt.cell)
			if sb.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, sb.String())
			}
		})
	}
}
