package game

import "math"

// CreatureStats is the persisted progression of one creature identity.
type CreatureStats struct {
	Experience int `json:"xp"`
	Level      int `json:"level"`
	HitPoints  int `json:"hp"`
	Attack     int `json:"atk"`
}

// Per-level gains applied on every level-up.
const (
	LevelUpHitPoints = 10
	LevelUpAttack    = 5
)

// DefaultStats is what an identity starts with the first time it is referenced.
func DefaultStats() CreatureStats {
	return CreatureStats{Experience: 0, Level: 1, HitPoints: 100, Attack: 15}
}

// ExperienceToNextLevel is the experience needed to leave the given level.
func ExperienceToNextLevel(level int) int {
	return 50 + level*25
}

// LevelUp is emitted once per level gained, in order.
type LevelUp struct {
	Level     int
	HitPoints int
	Attack    int
}

// GainExperience adds amount to the stats and settles every level-up it causes.
// Non-positive amounts leave the stats unchanged.
func (s CreatureStats) GainExperience(amount int) (CreatureStats, []LevelUp) {
	if amount <= 0 {
		return s, nil
	}
	if s.Level < 1 {
		s.Level = 1
	}
	s.Experience += amount

	var ups []LevelUp
	for s.Experience >= ExperienceToNextLevel(s.Level) {
		s.Experience -= ExperienceToNextLevel(s.Level)
		s.Level++
		s.HitPoints += LevelUpHitPoints
		s.Attack += LevelUpAttack
		ups = append(ups, LevelUp{Level: s.Level, HitPoints: s.HitPoints, Attack: s.Attack})
	}
	return s, ups
}

// VictoryReward is what beating a wild creature pays out.
type VictoryReward struct {
	Coins      int
	Experience int
}

// VictoryRewards computes the coin and experience payout for defeating a wild
// creature with the given max HP and tier at the companion's level.
func VictoryRewards(wildMaxHP, companionLevel int, tier Tier) VictoryReward {
	mult := tier.Rewards()
	coins := (20 + float64(wildMaxHP)/10) * (1 + float64(companionLevel)*0.03) * mult.Coins
	xp := float64(wildMaxHP) * (1 + float64(companionLevel)*0.05) * mult.XP
	return VictoryReward{
		Coins:      int(math.Floor(coins)),
		Experience: int(math.Floor(xp)),
	}
}
