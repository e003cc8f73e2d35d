package species

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"wild-companion/internal/game"
)

// Entry is one species in an offline catalog.
type Entry struct {
	Name       string              `json:"name"`
	BaseHP     int                 `json:"base_hp"`
	BaseAttack int                 `json:"base_attack"`
	Forms      []string            `json:"forms,omitempty"`
	Evolution  *game.EvolutionNode `json:"evolution,omitempty"`
}

type catalogFile struct {
	Species []Entry `json:"species"`
}

// Catalog serves species data from memory. Evolution chain refs are the
// name of the species the entry was built from.
type Catalog struct {
	names   []string
	entries map[string]Entry
}

// NewCatalog indexes entries by name. Later duplicates win.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		key := game.NormalizeKey(e.Name)
		if key == "" {
			continue
		}
		if _, dup := c.entries[key]; !dup {
			c.names = append(c.names, key)
		}
		c.entries[key] = e
	}
	return c
}

// LoadCatalog reads a catalog file written by WriteCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var file catalogFile
	if err := json.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if len(file.Species) == 0 {
		return nil, fmt.Errorf("catalog %s has no species", path)
	}
	return NewCatalog(file.Species), nil
}

// WriteCatalog encodes entries, sorted by name, as a catalog file.
func WriteCatalog(w io.Writer, entries []Entry) error {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogFile{Species: sorted})
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.names)
}

func (c *Catalog) SpeciesList(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(c.names), nil
}

func (c *Catalog) Species(ctx context.Context, name string) (game.SpeciesDetail, error) {
	if err := ctx.Err(); err != nil {
		return game.SpeciesDetail{}, err
	}
	key := game.NormalizeKey(name)
	e, ok := c.entries[key]
	if !ok {
		return game.SpeciesDetail{}, &game.DataProviderError{Op: "species " + key, Err: errors.New("not in catalog")}
	}
	detail := game.SpeciesDetail{Name: key, BaseHP: e.BaseHP, BaseAttack: e.BaseAttack}
	if e.Evolution != nil {
		detail.EvolutionChain = key
	}
	return detail, nil
}

func (c *Catalog) EvolutionChain(ctx context.Context, ref string) (*game.EvolutionNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := c.entries[game.NormalizeKey(ref)]
	if !ok || e.Evolution == nil {
		return nil, &game.DataProviderError{Op: "evolution chain " + ref, Err: errors.New("not in catalog")}
	}
	return e.Evolution, nil
}

// Entry fetches everything the catalog stores about one species.
func (c *Client) Entry(ctx context.Context, name string) (Entry, error) {
	detail, err := c.Species(ctx, name)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Name: detail.Name, BaseHP: detail.BaseHP, BaseAttack: detail.BaseAttack}
	for _, f := range game.FormsFor(detail.Name) {
		e.Forms = append(e.Forms, f.Name)
	}
	if detail.EvolutionChain != "" {
		chain, err := c.EvolutionChain(ctx, detail.EvolutionChain)
		if err != nil {
			return Entry{}, err
		}
		e.Evolution = chain
	}
	return e, nil
}
