package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"wild-companion/internal/game"
)

// Store is a typed view of one player's progress. Reads are served from
// the last committed save; writes go through Update.
type Store struct {
	kv     KV
	logger *log.Logger

	mu      sync.Mutex
	save    *game.Save
	encoded map[string][]byte // last committed encoding per key
}

// Open loads the save from kv, applying defaults for missing keys and
// migrating legacy shapes. Defaults and migrations are written back once.
func Open(ctx context.Context, kv KV, logger *log.Logger) (*Store, error) {
	if kv == nil {
		return nil, errors.New("kv backend is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{kv: kv, logger: logger}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	save := game.NewSave()
	stored := make(map[string][]byte)
	for _, f := range fields() {
		raw, ok, err := s.kv.Get(ctx, f.key)
		if err != nil {
			return fmt.Errorf("get %s: %w", f.key, err)
		}
		if !ok {
			continue
		}
		migrated, err := f.decode(raw, save)
		if err != nil {
			// Unreadable values fall back to the default and get rewritten.
			s.logger.Printf("store: %s: %v, using default", f.key, err)
			continue
		}
		if migrated {
			s.logger.Printf("store: migrated legacy %s", f.key)
			continue
		}
		stored[f.key] = raw
	}

	encoded, err := encodeSave(save)
	if err != nil {
		return err
	}
	if pending := diff(encoded, stored); len(pending) > 0 {
		if err := s.kv.SetMany(ctx, pending); err != nil {
			return fmt.Errorf("write defaults: %w", err)
		}
	}
	s.save = save
	s.encoded = encoded
	return nil
}

// diff returns the entries of next whose bytes differ from prev.
func diff(next, prev map[string][]byte) map[string][]byte {
	out := make(map[string][]byte)
	for k, v := range next {
		if old, ok := prev[k]; !ok || !bytes.Equal(old, v) {
			out[k] = v
		}
	}
	return out
}

// Load returns a copy of the committed save.
func (s *Store) Load(ctx context.Context) (*game.Save, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.Clone(), nil
}

// Update runs fn on a copy of the save. If fn fails nothing is written;
// otherwise every changed key is written in one batch and the copy becomes
// the committed save.
func (s *Store) Update(ctx context.Context, fn func(*game.Save) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.save.Clone()
	if err := fn(next); err != nil {
		return err
	}
	encoded, err := encodeSave(next)
	if err != nil {
		return err
	}
	if changed := diff(encoded, s.encoded); len(changed) > 0 {
		if err := s.kv.SetMany(ctx, changed); err != nil {
			return fmt.Errorf("commit progress: %w", err)
		}
	}
	s.save = next
	s.encoded = encoded
	return nil
}

// Reset deletes every stored key and reloads the defaults.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, keys()...); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return s.load(ctx)
}

// Stats returns the stats of an identity, defaults if it has none.
func (s *Store) Stats(identity string) game.CreatureStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.StatsFor(identity)
}

// SetStats overwrites the stats of an identity.
func (s *Store) SetStats(ctx context.Context, identity string, stats game.CreatureStats) error {
	return s.Update(ctx, func(save *game.Save) error {
		save.SetStats(identity, stats)
		return nil
	})
}

// Inventory returns the stock of a resource.
func (s *Store) Inventory(r game.Resource) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.Count(r)
}

// AdjustInventory changes a stock by delta, failing with
// game.ErrInsufficientResource when it would go negative.
func (s *Store) AdjustInventory(ctx context.Context, r game.Resource, delta int) error {
	return s.Update(ctx, func(save *game.Save) error {
		return save.Adjust(r, delta)
	})
}

// Party returns a copy of the identity->count bag.
func (s *Store) Party() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.Clone().Party
}

// AddToParty adds one creature to the bag.
func (s *Store) AddToParty(ctx context.Context, identity string) error {
	return s.Update(ctx, func(save *game.Save) error {
		save.AddToParty(identity)
		return nil
	})
}

// RemoveOneFromParty takes one creature out of the bag, failing with
// game.ErrNotOwned when there is none.
func (s *Store) RemoveOneFromParty(ctx context.Context, identity string) error {
	return s.Update(ctx, func(save *game.Save) error {
		return save.RemoveOneFromParty(identity)
	})
}

// Active returns the active companion identity, empty when none is chosen.
func (s *Store) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.Active
}
