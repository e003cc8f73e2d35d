package game

// Tier is the closed rarity classification used to scale difficulty and rewards.
type Tier int

const (
	TierCommon Tier = iota
	TierUncommon
	TierRare
	TierLegendary
)

func (t Tier) String() string {
	switch t {
	case TierLegendary:
		return "legendary"
	case TierRare:
		return "rare"
	case TierUncommon:
		return "uncommon"
	default:
		return "common"
	}
}

var (
	legendarySpecies = setOf("mewtwo", "lugia", "ho-oh", "rayquaza", "dialga", "palkia", "giratina",
		"zekrom", "reshiram", "xerneas", "yveltal", "zacian", "zamazenta", "eternatus")
	rareSpecies     = setOf("dragonite", "tyranitar", "salamence", "metagross", "garchomp", "hydreigon", "goodra", "dragapult")
	uncommonSpecies = setOf("pikachu", "eevee", "lucario", "snorlax", "gengar")
)

func setOf(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Classify returns the rarity of a species. Form and shiny qualifiers are
// ignored; only the base species name counts.
func Classify(species string) Tier {
	base := BaseSpecies(species)
	if _, ok := legendarySpecies[base]; ok {
		return TierLegendary
	}
	if _, ok := rareSpecies[base]; ok {
		return TierRare
	}
	if _, ok := uncommonSpecies[base]; ok {
		return TierUncommon
	}
	return TierCommon
}

// CatchPenalty divides the damage share of the catch chance; higher is harder.
func (t Tier) CatchPenalty() float64 {
	switch t {
	case TierLegendary:
		return 2
	case TierRare:
		return 1.5
	case TierUncommon:
		return 1.2
	default:
		return 1
	}
}

// RewardMultiplier scales victory rewards.
type RewardMultiplier struct {
	XP    float64
	Coins float64
}

// Rewards returns the victory multipliers for the tier.
func (t Tier) Rewards() RewardMultiplier {
	switch t {
	case TierLegendary:
		return RewardMultiplier{XP: 2.5, Coins: 3}
	case TierRare:
		return RewardMultiplier{XP: 1.5, Coins: 1.6}
	case TierUncommon:
		return RewardMultiplier{XP: 1.2, Coins: 1.3}
	default:
		return RewardMultiplier{XP: 1, Coins: 1}
	}
}

func (t Tier) baseValue() int {
	switch t {
	case TierLegendary:
		return 20
	case TierRare:
		return 10
	case TierUncommon:
		return 5
	default:
		return 2
	}
}

// SellValue is the coin price of selling one creature of the tier at the level.
func SellValue(t Tier, level int) int {
	return t.baseValue() * (level + 1)
}
