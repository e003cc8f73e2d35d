package game

import "slices"

// CombatPhase tracks where a battle is in its lifecycle.
type CombatPhase int

const (
	PhaseSpawning CombatPhase = iota // wild creature being fetched
	PhaseActive                      // waiting for a player intent
	PhaseVictory                     // wild creature knocked out
	PhaseDefeat                      // companion knocked out
	PhaseCaptured                    // wild creature caught
	PhaseFled                        // player ran away
)

func (p CombatPhase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseActive:
		return "active"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	case PhaseCaptured:
		return "captured"
	case PhaseFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends the battle.
func (p CombatPhase) Terminal() bool {
	switch p {
	case PhaseVictory, PhaseDefeat, PhaseCaptured, PhaseFled:
		return true
	default:
		return false
	}
}

// Battle is one encounter between the active companion and a wild creature.
// The companion fights with a working copy of its HP; its persisted max HP
// only caps healing.
type Battle struct {
	ID        string
	Companion string
	Stats     CreatureStats // companion stats captured at battle start
	HP        int           // companion working HP
	Wild      *WildEncounter
	Phase     CombatPhase
	Turn      int
	Log       []string // battle log messages (most recent last)
}

const maxLogLines = 6

// NewBattle starts an active battle against wild.
func NewBattle(id, companion string, stats CreatureStats, wild *WildEncounter) *Battle {
	return &Battle{
		ID:        id,
		Companion: NormalizeKey(companion),
		Stats:     stats,
		HP:        stats.HitPoints,
		Wild:      wild,
		Phase:     PhaseActive,
	}
}

// Ongoing reports whether the battle still accepts intents.
func (b *Battle) Ongoing() bool {
	return b != nil && b.Phase == PhaseActive
}

// AddLog appends a message to the battle log, keeping it trimmed.
func (b *Battle) AddLog(msg string) {
	b.Log = append(b.Log, msg)
	if len(b.Log) > maxLogLines {
		b.Log = b.Log[len(b.Log)-maxLogLines:]
	}
}

// Clone returns a deep copy so a turn can be resolved without touching the
// live battle until its side effects are committed.
func (b *Battle) Clone() *Battle {
	c := *b
	if b.Wild != nil {
		w := *b.Wild
		c.Wild = &w
	}
	c.Log = slices.Clone(b.Log)
	return &c
}

// CompanionName is the display name of the fighting companion.
func (b *Battle) CompanionName() string {
	return ParseIdentity(b.Companion).DisplayName()
}

// BattleSnapshot is a read-only view of a battle for rendering.
type BattleSnapshot struct {
	ID           string             `json:"id"`
	Phase        string             `json:"phase"`
	Ongoing      bool               `json:"ongoing"`
	Turn         int                `json:"turn"`
	Companion    string             `json:"companion"`
	CompanionHP  int                `json:"companionHp"`
	CompanionMax int                `json:"companionMaxHp"`
	CompanionLvl int                `json:"companionLevel"`
	Wild         string             `json:"wild"`
	WildSprite   string             `json:"wildSprite"`
	WildForm     string             `json:"wildForm,omitempty"`
	WildShiny    bool               `json:"wildShiny"`
	WildTier     string             `json:"wildTier"`
	WildHP       int                `json:"wildHp"`
	WildMaxHP    int                `json:"wildMaxHp"`
	WildAsleep   bool               `json:"wildAsleep"`
	CatchChances map[string]float64 `json:"catchChances"` // keyed by device name
	Log          []string           `json:"log"`
}

// Snapshot builds a read-only view of the battle.
func (b *Battle) Snapshot() *BattleSnapshot {
	snap := &BattleSnapshot{
		ID:           b.ID,
		Phase:        b.Phase.String(),
		Ongoing:      b.Ongoing(),
		Turn:         b.Turn,
		Companion:    b.CompanionName(),
		CompanionHP:  b.HP,
		CompanionMax: b.Stats.HitPoints,
		CompanionLvl: b.Stats.Level,
		Log:          slices.Clone(b.Log),
	}
	if w := b.Wild; w != nil {
		snap.Wild = w.DisplayName
		snap.WildSprite = w.Sprite
		snap.WildForm = w.Identity.Form
		snap.WildShiny = w.Identity.Shiny
		snap.WildTier = w.Tier.String()
		snap.WildHP = w.HP
		snap.WildMaxHP = w.MaxHP
		snap.WildAsleep = w.Asleep()
		snap.CatchChances = make(map[string]float64, len(Devices))
		for _, d := range Devices {
			c := 1.0
			if !d.Guaranteed() {
				c = CatchChance(w.MaxHP, w.HP, w.Tier, b.Stats.Level, d, w.Asleep())
			}
			snap.CatchChances[d.String()] = c
		}
	}
	return snap
}
