package game

import (
	"maps"
	"time"
)

// Save is the complete persisted progress of one player. Its methods enforce
// the inventory and party invariants; persistence lives in the store package.
type Save struct {
	Inventory     map[Resource]int
	Party         map[string]int
	Stats         map[string]CreatureStats
	Active        string
	SoundOn       bool
	Volume        float64
	RandomBattles bool
	StopReadyAt   time.Time
}

// Starting stock for a fresh save.
const (
	StartingCoins   = 100
	StartingBalls   = 5
	StartingPotions = 2
	DefaultVolume   = 0.4
)

// NewSave returns a save holding the first-run defaults.
func NewSave() *Save {
	return &Save{
		Inventory: map[Resource]int{
			Coins:       StartingCoins,
			BasicBalls:  StartingBalls,
			GreatBalls:  0,
			UltraBalls:  0,
			MasterBalls: 0,
			Potions:     StartingPotions,
		},
		Party:   map[string]int{},
		Stats:   map[string]CreatureStats{},
		SoundOn: true,
		Volume:  DefaultVolume,
	}
}

// Clone returns a deep copy.
func (s *Save) Clone() *Save {
	c := *s
	c.Inventory = maps.Clone(s.Inventory)
	c.Party = maps.Clone(s.Party)
	c.Stats = maps.Clone(s.Stats)
	if c.Inventory == nil {
		c.Inventory = map[Resource]int{}
	}
	if c.Party == nil {
		c.Party = map[string]int{}
	}
	if c.Stats == nil {
		c.Stats = map[string]CreatureStats{}
	}
	return &c
}

// StatsFor returns the stats of an identity, or the defaults when it has none yet.
func (s *Save) StatsFor(identity string) CreatureStats {
	if st, ok := s.Stats[NormalizeKey(identity)]; ok {
		return st
	}
	return DefaultStats()
}

// SetStats overwrites the stats of an identity.
func (s *Save) SetStats(identity string, stats CreatureStats) {
	if s.Stats == nil {
		s.Stats = map[string]CreatureStats{}
	}
	s.Stats[NormalizeKey(identity)] = stats
}

// Count returns the stock of a resource.
func (s *Save) Count(r Resource) int {
	return s.Inventory[r]
}

// Adjust changes a stock by delta. A result below zero is rejected and the
// stock is left as it was.
func (s *Save) Adjust(r Resource, delta int) error {
	have := s.Inventory[r]
	if have+delta < 0 {
		return &InsufficientResourceError{Resource: r, Have: have, Want: -delta}
	}
	if s.Inventory == nil {
		s.Inventory = map[Resource]int{}
	}
	s.Inventory[r] = have + delta
	return nil
}

// AddToParty adds one creature of the identity to the bag.
func (s *Save) AddToParty(identity string) {
	if s.Party == nil {
		s.Party = map[string]int{}
	}
	s.Party[NormalizeKey(identity)]++
}

// RemoveOneFromParty takes one creature of the identity out of the bag,
// deleting the entry when the count reaches zero.
func (s *Save) RemoveOneFromParty(identity string) error {
	key := NormalizeKey(identity)
	n, ok := s.Party[key]
	if !ok || n <= 0 {
		return ErrNotOwned
	}
	if n == 1 {
		delete(s.Party, key)
		return nil
	}
	s.Party[key] = n - 1
	return nil
}

// ApplyExperience grants experience to an identity and stores the settled stats.
func (s *Save) ApplyExperience(identity string, amount int) []LevelUp {
	stats, ups := s.StatsFor(identity).GainExperience(amount)
	s.SetStats(identity, stats)
	return ups
}
