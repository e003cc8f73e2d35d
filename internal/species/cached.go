package species

import (
	"context"
	"slices"
	"sync"

	"wild-companion/internal/game"
)

// Cached memoizes successful lookups of another provider. Failures are not
// cached so the next call retries.
type Cached struct {
	next game.SpeciesProvider

	mu      sync.Mutex
	list    []string
	details map[string]game.SpeciesDetail
	chains  map[string]*game.EvolutionNode
}

// NewCached wraps next.
func NewCached(next game.SpeciesProvider) *Cached {
	return &Cached{
		next:    next,
		details: make(map[string]game.SpeciesDetail),
		chains:  make(map[string]*game.EvolutionNode),
	}
}

func (c *Cached) SpeciesList(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	list := c.list
	c.mu.Unlock()
	if list != nil {
		return slices.Clone(list), nil
	}

	list, err := c.next.SpeciesList(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	return slices.Clone(list), nil
}

func (c *Cached) Species(ctx context.Context, name string) (game.SpeciesDetail, error) {
	key := game.NormalizeKey(name)
	c.mu.Lock()
	d, ok := c.details[key]
	c.mu.Unlock()
	if ok {
		return d, nil
	}

	d, err := c.next.Species(ctx, name)
	if err != nil {
		return game.SpeciesDetail{}, err
	}
	c.mu.Lock()
	c.details[key] = d
	c.mu.Unlock()
	return d, nil
}

func (c *Cached) EvolutionChain(ctx context.Context, ref string) (*game.EvolutionNode, error) {
	c.mu.Lock()
	n, ok := c.chains[ref]
	c.mu.Unlock()
	if ok {
		return n, nil
	}

	n, err := c.next.EvolutionChain(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.chains[ref] = n
	c.mu.Unlock()
	return n, nil
}
