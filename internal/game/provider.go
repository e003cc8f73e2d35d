package game

import "context"

// SpeciesProvider is the external species and evolution data source.
// Every failure must come back as an error; no placeholder data.
type SpeciesProvider interface {
	SpeciesList(ctx context.Context) ([]string, error)
	Species(ctx context.Context, name string) (SpeciesDetail, error)
	EvolutionChain(ctx context.Context, ref string) (*EvolutionNode, error)
}

// SpeciesDetail holds the base stats the generator scales from.
type SpeciesDetail struct {
	Name           string `json:"name"`
	BaseHP         int    `json:"base_hp"`
	BaseAttack     int    `json:"base_attack"`
	EvolutionChain string `json:"evolution_chain,omitempty"`
}

// TriggerLevelUp is the only evolution trigger the companion acts on.
const TriggerLevelUp = "level-up"

// EvolutionNode is one stage of an evolution tree. Trigger and MinLevel describe
// how this stage is reached from its parent; MinLevel 0 means unspecified.
type EvolutionNode struct {
	Species  string           `json:"species"`
	Trigger  string           `json:"trigger,omitempty"`
	MinLevel int              `json:"min_level,omitempty"`
	Next     []*EvolutionNode `json:"next,omitempty"`
}

// Find returns the node for species in the tree, or nil.
func (n *EvolutionNode) Find(species string) *EvolutionNode {
	if n == nil {
		return nil
	}
	if n.Species == species {
		return n
	}
	for _, child := range n.Next {
		if found := child.Find(species); found != nil {
			return found
		}
	}
	return nil
}
