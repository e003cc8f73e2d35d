package store

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"wild-companion/internal/game"
)

var errWrite = errors.New("write failed")

// failingKV wraps Memory and rejects SetMany while fail is set.
type failingKV struct {
	*Memory
	fail bool
}

func (f *failingKV) SetMany(ctx context.Context, values map[string][]byte) error {
	if f.fail {
		return errWrite
	}
	return f.Memory.SetMany(ctx, values)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func openStore(t *testing.T, kv KV) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv, quietLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestOpenWritesDefaults(t *testing.T) {
	kv := NewMemory()
	s := openStore(t, kv)

	if got := len(kv.Keys()); got != len(keys()) {
		t.Errorf("expected every key written, got %v", kv.Keys())
	}
	tests := []struct {
		resource game.Resource
		want     int
	}{
		{game.Coins, game.StartingCoins},
		{game.BasicBalls, game.StartingBalls},
		{game.GreatBalls, 0},
		{game.MasterBalls, 0},
		{game.Potions, game.StartingPotions},
	}
	for _, tt := range tests {
		if got := s.Inventory(tt.resource); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.resource, tt.want, got)
		}
	}
	if s.Active() != "" {
		t.Errorf("expected no companion, got %q", s.Active())
	}

	save, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !save.SoundOn || save.Volume != game.DefaultVolume || save.RandomBattles {
		t.Errorf("unexpected default settings %+v", save)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := openStore(t, kv)

	readyAt := time.UnixMilli(1714564800000)
	err := s.Update(ctx, func(save *game.Save) error {
		save.Active = "shiny alolan raichu"
		save.SetStats("shiny alolan raichu", game.CreatureStats{Experience: 12, Level: 7, HitPoints: 160, Attack: 45})
		save.AddToParty("pikachu")
		save.AddToParty("pikachu")
		save.Volume = 0.8
		save.RandomBattles = true
		save.StopReadyAt = readyAt
		return save.Adjust(game.UltraBalls, 3)
	})
	if err != nil {
		t.Fatal(err)
	}

	reopened := openStore(t, kv)
	save, err := reopened.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if save.Active != "shiny alolan raichu" || save.StatsFor(save.Active).Level != 7 {
		t.Errorf("companion not restored: %q %+v", save.Active, save.StatsFor(save.Active))
	}
	if save.Party["pikachu"] != 2 || save.Count(game.UltraBalls) != 3 {
		t.Errorf("bag not restored: %v %v", save.Party, save.Inventory)
	}
	if save.Volume != 0.8 || !save.RandomBattles || !save.StopReadyAt.Equal(readyAt) {
		t.Errorf("settings not restored: %+v", save)
	}
}

func TestLegacyPartyMigration(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	kv.SetMany(ctx, map[string][]byte{
		keyParty: []byte(`["Pikachu", "pikachu", "Shiny Eevee", ""]`),
	})

	s := openStore(t, kv)
	party := s.Party()
	if party["pikachu"] != 2 || party["shiny eevee"] != 1 || len(party) != 2 {
		t.Errorf("expected legacy names converted to counts, got %v", party)
	}

	raw, _, _ := kv.Get(ctx, keyParty)
	if string(raw) != `{"pikachu":2,"shiny eevee":1}` {
		t.Errorf("expected the migrated mapping written back, got %s", raw)
	}
}

func TestCorruptValuesFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	kv.SetMany(ctx, map[string][]byte{
		string(game.Coins):   []byte(`"lots"`),
		string(game.Potions): []byte(`-3`),
		keyStats:             []byte(`{not json`),
		keyVolume:            []byte(`0.25`),
	})

	s := openStore(t, kv)
	if got := s.Inventory(game.Coins); got != game.StartingCoins {
		t.Errorf("expected default coins, got %d", got)
	}
	if got := s.Inventory(game.Potions); got != game.StartingPotions {
		t.Errorf("expected default potions, got %d", got)
	}
	save, _ := s.Load(ctx)
	if save.Volume != 0.25 {
		t.Errorf("valid keys should survive, got volume %.2f", save.Volume)
	}

	raw, _, _ := kv.Get(ctx, string(game.Coins))
	if string(raw) != "100" {
		t.Errorf("expected the default rewritten, got %s", raw)
	}
}

func TestUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()

	t.Run("fn error", func(t *testing.T) {
		kv := NewMemory()
		s := openStore(t, kv)
		err := s.Update(ctx, func(save *game.Save) error {
			save.AddToParty("mew")
			return save.Adjust(game.Coins, -1000)
		})
		if !errors.Is(err, game.ErrInsufficientResource) {
			t.Fatalf("expected ErrInsufficientResource, got %v", err)
		}
		if len(s.Party()) != 0 {
			t.Errorf("failed update leaked into memory: %v", s.Party())
		}
		raw, _, _ := kv.Get(ctx, keyParty)
		if string(raw) != "{}" {
			t.Errorf("failed update reached the backend: %s", raw)
		}
	})

	t.Run("backend error", func(t *testing.T) {
		kv := &failingKV{Memory: NewMemory()}
		s := openStore(t, kv)
		kv.fail = true
		err := s.AdjustInventory(ctx, game.Potions, 5)
		if !errors.Is(err, errWrite) {
			t.Fatalf("expected the backend error, got %v", err)
		}
		if got := s.Inventory(game.Potions); got != game.StartingPotions {
			t.Errorf("uncommitted change is visible: %d potions", got)
		}
	})
}

func TestUpdateWritesOnlyChangedKeys(t *testing.T) {
	ctx := context.Background()
	rec := &recordingKV{Memory: NewMemory()}
	s := openStore(t, rec)
	rec.writes = nil

	if err := s.AddToParty(ctx, "eevee"); err != nil {
		t.Fatal(err)
	}
	if len(rec.writes) != 1 || rec.writes[0] != keyParty {
		t.Errorf("expected only %q written, got %v", keyParty, rec.writes)
	}

	rec.writes = nil
	if err := s.Update(ctx, func(*game.Save) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if len(rec.writes) != 0 {
		t.Errorf("a no-op update should not write, got %v", rec.writes)
	}
}

type recordingKV struct {
	*Memory
	writes []string
}

func (r *recordingKV) SetMany(ctx context.Context, values map[string][]byte) error {
	for k := range values {
		r.writes = append(r.writes, k)
	}
	return r.Memory.SetMany(ctx, values)
}

func TestStoreHelpers(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, NewMemory())

	if err := s.AdjustInventory(ctx, game.Potions, -10); !errors.Is(err, game.ErrInsufficientResource) {
		t.Errorf("expected ErrInsufficientResource, got %v", err)
	}
	if err := s.RemoveOneFromParty(ctx, "mew"); !errors.Is(err, game.ErrNotOwned) {
		t.Errorf("expected ErrNotOwned, got %v", err)
	}
	stats := game.CreatureStats{Level: 4, HitPoints: 130, Attack: 30}
	if err := s.SetStats(ctx, "Eevee", stats); err != nil {
		t.Fatal(err)
	}
	if got := s.Stats("eevee"); got != stats {
		t.Errorf("expected %+v, got %+v", stats, got)
	}
	if got := s.Stats("unknown"); got != game.DefaultStats() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := openStore(t, kv)
	if err := s.Update(ctx, func(save *game.Save) error {
		save.Active = "pikachu"
		save.AddToParty("eevee")
		return save.Adjust(game.Coins, 900)
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Active() != "" || len(s.Party()) != 0 || s.Inventory(game.Coins) != game.StartingCoins {
		t.Errorf("expected defaults after reset")
	}
	raw, _, _ := kv.Get(ctx, string(game.Coins))
	if string(raw) != "100" {
		t.Errorf("expected defaults persisted after reset, got %s", raw)
	}
}
