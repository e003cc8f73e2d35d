package game

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		species string
		want    Tier
	}{
		{"mewtwo", TierLegendary},
		{"Mewtwo", TierLegendary},
		{"shiny mega mewtwo", TierLegendary},
		{"dragonite", TierRare},
		{"pikachu", TierUncommon},
		{"alolan raichu", TierCommon},
		{"rattata", TierCommon},
		{"", TierCommon},
	}

	for _, tt := range tests {
		t.Run(tt.species, func(t *testing.T) {
			if got := Classify(tt.species); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSellValue(t *testing.T) {
	tests := []struct {
		tier  Tier
		level int
		want  int
	}{
		{TierCommon, 1, 4},
		{TierUncommon, 1, 10},
		{TierRare, 9, 100},
		{TierLegendary, 5, 120},
	}

	for _, tt := range tests {
		if got := SellValue(tt.tier, tt.level); got != tt.want {
			t.Errorf("SellValue(%s, %d): expected %d, got %d", tt.tier, tt.level, tt.want, got)
		}
	}
}

func TestCatchPenaltyGrowsWithRarity(t *testing.T) {
	tiers := []Tier{TierCommon, TierUncommon, TierRare, TierLegendary}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].CatchPenalty() <= tiers[i-1].CatchPenalty() {
			t.Errorf("%s penalty %.2f should exceed %s penalty %.2f",
				tiers[i], tiers[i].CatchPenalty(), tiers[i-1], tiers[i-1].CatchPenalty())
		}
	}
}
