package species

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"wild-companion/internal/game"
)

func charmanderEntries() []Entry {
	chain := &game.EvolutionNode{
		Species: "charmander",
		Next: []*game.EvolutionNode{{
			Species:  "charmeleon",
			Trigger:  game.TriggerLevelUp,
			MinLevel: 16,
		}},
	}
	return []Entry{
		{Name: "rattata", BaseHP: 30, BaseAttack: 56},
		{Name: "charmander", BaseHP: 39, BaseAttack: 52, Evolution: chain},
		{Name: "charmeleon", BaseHP: 58, BaseAttack: 64, Evolution: chain},
	}
}

func TestCatalogLookups(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(charmanderEntries())

	names, err := c.SpeciesList(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"rattata", "charmander", "charmeleon"}) {
		t.Errorf("unexpected names %v", names)
	}

	d, err := c.Species(ctx, "Charmander")
	if err != nil {
		t.Fatalf("species: %v", err)
	}
	if d.BaseHP != 39 || d.EvolutionChain != "charmander" {
		t.Errorf("unexpected detail %+v", d)
	}
	if d, _ := c.Species(ctx, "rattata"); d.EvolutionChain != "" {
		t.Errorf("a species without a chain should have no ref, got %q", d.EvolutionChain)
	}

	chain, err := c.EvolutionChain(ctx, d.EvolutionChain)
	if err != nil {
		t.Fatalf("evolution chain: %v", err)
	}
	if chain.Find("charmeleon") == nil {
		t.Errorf("expected charmeleon in the chain")
	}
}

func TestCatalogMisses(t *testing.T) {
	ctx := context.Background()
	c := NewCatalog(charmanderEntries())

	var dpe *game.DataProviderError
	if _, err := c.Species(ctx, "mew"); !errors.As(err, &dpe) {
		t.Errorf("expected a DataProviderError, got %v", err)
	}
	if _, err := c.EvolutionChain(ctx, "rattata"); !errors.As(err, &dpe) {
		t.Errorf("expected a DataProviderError, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.SpeciesList(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewCatalogDuplicates(t *testing.T) {
	c := NewCatalog([]Entry{
		{Name: "pikachu", BaseHP: 35},
		{Name: ""},
		{Name: "Pikachu", BaseHP: 40},
	})
	if c.Len() != 1 {
		t.Fatalf("expected one species, got %d", c.Len())
	}
	d, _ := c.Species(context.Background(), "pikachu")
	if d.BaseHP != 40 {
		t.Errorf("expected the later duplicate to win, got %d", d.BaseHP)
	}
}

func TestWriteAndLoadCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, charmanderEntries()); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	out := buf.String()
	if strings.Index(out, `"name": "charmander"`) > strings.Index(out, `"name": "rattata"`) {
		t.Errorf("expected entries sorted by name")
	}

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 species, got %d", c.Len())
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"species":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	garbled := filepath.Join(dir, "garbled.json")
	if err := os.WriteFile(garbled, []byte(`{"species":`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.json")},
		{"empty", empty},
		{"garbled", garbled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCatalog(tt.path); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}
