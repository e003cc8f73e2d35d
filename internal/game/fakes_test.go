package game

import (
	"context"
	"errors"
	"sync"
)

// seqRand replays fixed draws. Once a sequence runs dry Float64 returns 0.5
// (a neutral damage roll) and IntN returns 0.
type seqRand struct {
	floats []float64
	ints   []int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *seqRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

// memStore is an in-memory ProgressStore. commitErr makes every Update run
// fn and then fail without committing.
type memStore struct {
	mu        sync.Mutex
	save      *Save
	commitErr error
	updates   int
}

func newMemStore() *memStore {
	return &memStore{save: NewSave()}
}

func (m *memStore) Load(ctx context.Context) (*Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save.Clone(), nil
}

func (m *memStore) Update(ctx context.Context, fn func(*Save) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.save.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	m.save = next
	m.updates++
	return nil
}

func (m *memStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.save = NewSave()
	return nil
}

func (m *memStore) current() *Save {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save.Clone()
}

var errProviderDown = errors.New("provider down")

// fakeProvider serves species from maps. listErr, speciesErr and chainErr
// force the matching lookup to fail.
type fakeProvider struct {
	names      []string
	species    map[string]SpeciesDetail
	chains     map[string]*EvolutionNode
	listErr    error
	speciesErr error
	chainErr   error
}

func (p *fakeProvider) SpeciesList(ctx context.Context) ([]string, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	return p.names, nil
}

func (p *fakeProvider) Species(ctx context.Context, name string) (SpeciesDetail, error) {
	if p.speciesErr != nil {
		return SpeciesDetail{}, p.speciesErr
	}
	d, ok := p.species[name]
	if !ok {
		return SpeciesDetail{}, &DataProviderError{Op: "species " + name, Err: errors.New("not found")}
	}
	return d, nil
}

func (p *fakeProvider) EvolutionChain(ctx context.Context, ref string) (*EvolutionNode, error) {
	if p.chainErr != nil {
		return nil, p.chainErr
	}
	c, ok := p.chains[ref]
	if !ok {
		return nil, &DataProviderError{Op: "chain " + ref, Err: errors.New("not found")}
	}
	return c, nil
}

// charmanderLine is a three stage level-up chain.
func charmanderLine() *EvolutionNode {
	return &EvolutionNode{
		Species: "charmander",
		Next: []*EvolutionNode{{
			Species:  "charmeleon",
			Trigger:  TriggerLevelUp,
			MinLevel: 16,
			Next: []*EvolutionNode{{
				Species:  "charizard",
				Trigger:  TriggerLevelUp,
				MinLevel: 36,
			}},
		}},
	}
}

// gatedProvider blocks species lookups until release is closed. entered
// receives once per lookup.
type gatedProvider struct {
	*fakeProvider
	entered chan struct{}
	release chan struct{}
}

func newGatedProvider(p *fakeProvider) *gatedProvider {
	return &gatedProvider{fakeProvider: p, entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (p *gatedProvider) Species(ctx context.Context, name string) (SpeciesDetail, error) {
	p.entered <- struct{}{}
	<-p.release
	return p.fakeProvider.Species(ctx, name)
}
