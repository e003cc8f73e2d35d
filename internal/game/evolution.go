package game

import (
	"context"
	"fmt"
)

// Evolution records a companion changing species.
type Evolution struct {
	From  string
	To    string
	Level int
}

// NextEvolution returns the species the given species evolves into at level,
// following the first branch of the chain. It reports false for final stages,
// non level-up triggers and stages without a minimum level.
func NextEvolution(chain *EvolutionNode, species string, level int) (string, bool) {
	node := chain.Find(species)
	if node == nil || len(node.Next) == 0 {
		return "", false
	}
	next := node.Next[0]
	if next.Trigger != TriggerLevelUp || next.MinLevel <= 0 {
		return "", false
	}
	if level < next.MinLevel {
		return "", false
	}
	return next.Species, true
}

// CheckEvolution looks up the companion's evolution chain and evolves it when
// its current level qualifies. Lookup failures leave the save untouched.
func (e *Engine) CheckEvolution(ctx context.Context, companion string) (*Evolution, error) {
	from := ParseIdentity(companion)
	if from.Species == "" {
		return nil, ErrNoCompanion
	}
	if e.provider == nil {
		return nil, &DataProviderError{Op: "evolution", Err: fmt.Errorf("no species provider configured")}
	}

	detail, err := e.provider.Species(ctx, from.Species)
	if err != nil {
		return nil, asProviderError("species "+from.Species, err)
	}
	if detail.EvolutionChain == "" {
		return nil, nil
	}
	chain, err := e.provider.EvolutionChain(ctx, detail.EvolutionChain)
	if err != nil {
		return nil, asProviderError("evolution chain "+from.Species, err)
	}

	var evo *Evolution
	err = e.store.Update(ctx, func(s *Save) error {
		// The companion may have been swapped while the lookup was in flight.
		if s.Active != from.Key() {
			return nil
		}
		stats := s.StatsFor(from.Key())
		nextSpecies, ok := NextEvolution(chain, from.Species, stats.Level)
		if !ok {
			return nil
		}
		to := Identity{Species: nextSpecies, Shiny: from.Shiny}
		s.Active = to.Key()
		s.SetStats(to.Key(), stats)
		evo = &Evolution{From: from.Key(), To: to.Key(), Level: stats.Level}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit evolution: %w", err)
	}
	if evo != nil {
		e.logger.Printf("%s evolved into %s at level %d", evo.From, evo.To, evo.Level)
	}
	return evo, nil
}
