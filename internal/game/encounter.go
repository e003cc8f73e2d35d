package game

import (
	"context"
	"errors"
	"math"
)

// Spawn odds for the rare variants. The two draws are independent.
const (
	ShinyChance = 0.05
	FormChance  = 0.12
)

// Wild stat scaling against the companion's level.
const (
	wildHPPerLevel     = 8
	wildAttackPerLevel = 1.0
	defaultBaseAttack  = 10
)

// WildEncounter is the opposing creature of one battle. It is never persisted.
type WildEncounter struct {
	Identity    Identity
	DisplayName string
	FormName    string // data/sprite name of the alternate form, empty for normal
	Sprite      string
	Tier        Tier
	MaxHP       int
	HP          int
	Attack      int
	AsleepTurns int
}

// Alive reports whether the wild creature still has HP.
func (w *WildEncounter) Alive() bool {
	return w.HP > 0
}

// Asleep reports whether the wild creature will skip its next turn.
func (w *WildEncounter) Asleep() bool {
	return w.AsleepTurns > 0
}

// Key is the party identity a capture is stored under, qualifiers included.
func (w *WildEncounter) Key() string {
	return w.Identity.Key()
}

// Generator spawns wild creatures from the species provider.
type Generator struct {
	provider SpeciesProvider
	rng      Rand
}

// NewGenerator creates a generator drawing species from provider.
func NewGenerator(provider SpeciesProvider, rng Rand) *Generator {
	return &Generator{provider: provider, rng: rng}
}

// Spawn draws a wild creature scaled to the companion's stats. A provider
// failure is returned as a *DataProviderError and nothing is spawned.
func (g *Generator) Spawn(ctx context.Context, companion CreatureStats) (*WildEncounter, error) {
	if g.provider == nil {
		return nil, &DataProviderError{Op: "spawn", Err: errors.New("no species provider configured")}
	}
	names, err := g.provider.SpeciesList(ctx)
	if err != nil {
		return nil, asProviderError("list species", err)
	}
	if len(names) == 0 {
		return nil, &DataProviderError{Op: "list species", Err: errors.New("species list is empty")}
	}
	name := names[g.rng.IntN(len(names))]

	detail, err := g.provider.Species(ctx, name)
	if err != nil {
		return nil, asProviderError("species "+name, err)
	}
	if detail.BaseHP <= 0 {
		return nil, &DataProviderError{Op: "species " + name, Err: errors.New("missing base hp")}
	}

	return g.build(detail, companion), nil
}

func (g *Generator) build(detail SpeciesDetail, companion CreatureStats) *WildEncounter {
	species := NormalizeKey(detail.Name)
	id := Identity{Species: species}
	id.Shiny = chance(g.rng, ShinyChance)

	var formName string
	if forms := FormsFor(species); len(forms) > 0 && chance(g.rng, FormChance) {
		form := forms[g.rng.IntN(len(forms))]
		id.Form = form.Kind
		formName = form.Name
	}

	baseAttack := detail.BaseAttack
	if baseAttack <= 0 {
		baseAttack = defaultBaseAttack
	}
	level := max(companion.Level, 1)
	spriteName := species
	if formName != "" {
		spriteName = formName
	}

	return &WildEncounter{
		Identity:    id,
		DisplayName: id.DisplayName(),
		FormName:    formName,
		Sprite:      SpriteURL(spriteName, id.Shiny),
		Tier:        Classify(species),
		MaxHP:       int(math.Floor(float64(detail.BaseHP) + float64(level)*wildHPPerLevel)),
		HP:          companion.HitPoints,
		Attack:      int(math.Floor(float64(baseAttack) + float64(level)*wildAttackPerLevel)),
	}
}

func asProviderError(op string, err error) error {
	var pe *DataProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &DataProviderError{Op: op, Err: err}
}
