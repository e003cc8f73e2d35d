package game

import (
	"cmp"
	"slices"
	"time"
)

// PartyEntry is one bag row.
type PartyEntry struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Tier      string `json:"tier"`
	Level     int    `json:"level"`
	SellValue int    `json:"sellValue"`
	Sprite    string `json:"sprite"`
}

// Snapshot is a read-only view of one player's game.
type Snapshot struct {
	Companion       string           `json:"companion,omitempty"`
	CompanionName   string           `json:"companionName,omitempty"`
	CompanionSprite string           `json:"companionSprite,omitempty"`
	Stats           CreatureStats    `json:"stats"`
	NextLevelXP     int              `json:"nextLevelXp"`
	Inventory       map[Resource]int `json:"inventory"`
	Party           []PartyEntry     `json:"party"`
	Battle          *BattleSnapshot  `json:"battle,omitempty"`
	Spawning        bool             `json:"spawning"`
	SoundOn         bool             `json:"soundOn"`
	Volume          float64          `json:"volume"`
	RandomBattles   bool             `json:"randomBattles"`
	StopReadyIn     int              `json:"stopReadyIn"`  // seconds
	NextBattleIn    int              `json:"nextBattleIn"` // seconds, -1 when not scheduled
}

func newSnapshot(s *Save, now time.Time) *Snapshot {
	snap := &Snapshot{
		Inventory:     s.Clone().Inventory,
		SoundOn:       s.SoundOn,
		Volume:        s.Volume,
		RandomBattles: s.RandomBattles,
		NextBattleIn:  -1,
	}
	if s.Active != "" {
		id := ParseIdentity(s.Active)
		snap.Companion = s.Active
		snap.CompanionName = id.DisplayName()
		snap.CompanionSprite = SpriteFor(id)
		snap.Stats = s.StatsFor(s.Active)
		snap.NextLevelXP = ExperienceToNextLevel(snap.Stats.Level)
	}
	if wait := s.StopReadyAt.Sub(now); wait > 0 {
		snap.StopReadyIn = int((wait + time.Second - 1) / time.Second)
	}

	snap.Party = make([]PartyEntry, 0, len(s.Party))
	for key, n := range s.Party {
		id := ParseIdentity(key)
		tier := Classify(id.Species)
		level := s.StatsFor(key).Level
		snap.Party = append(snap.Party, PartyEntry{
			Identity:  key,
			Name:      id.DisplayName(),
			Count:     n,
			Tier:      tier.String(),
			Level:     level,
			SellValue: SellValue(tier, level),
			Sprite:    SpriteFor(id),
		})
	}
	SortParty(snap.Party, SortByName)
	return snap
}

// PartyOrder selects how the bag is listed.
type PartyOrder int

const (
	SortByName PartyOrder = iota
	SortByRarity
	SortByQuantity
)

// ParsePartyOrder maps a surface name onto an order, defaulting to name.
func ParsePartyOrder(s string) PartyOrder {
	switch s {
	case "rarity":
		return SortByRarity
	case "quantity", "count":
		return SortByQuantity
	default:
		return SortByName
	}
}

// SortParty orders bag rows in place. Rarity and quantity sort descending;
// ties fall back to the name.
func SortParty(entries []PartyEntry, order PartyOrder) {
	slices.SortStableFunc(entries, func(a, b PartyEntry) int {
		var c int
		switch order {
		case SortByRarity:
			c = cmp.Compare(entryTier(b), entryTier(a))
		case SortByQuantity:
			c = cmp.Compare(b.Count, a.Count)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

func entryTier(e PartyEntry) Tier {
	return Classify(ParseIdentity(e.Identity).Species)
}
