package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgressStore persists one player's save. Update must apply fn to a private
// copy and commit every change it made atomically, or none when fn errors.
type ProgressStore interface {
	Load(ctx context.Context) (*Save, error)
	Update(ctx context.Context, fn func(*Save) error) error
	Reset(ctx context.Context) error
}

// Engine owns one player's battle and routes every mutation of their save
// through the store.
type Engine struct {
	store    ProgressStore
	provider SpeciesProvider
	gen      *Generator
	rng      Rand
	logger   *log.Logger
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	battle   *Battle
	spawning bool
	// epoch advances on every reset; a spawn begun under an older epoch
	// is discarded.
	epoch uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithBattleIDs overrides battle id generation.
func WithBattleIDs(next func() string) Option {
	return func(e *Engine) { e.newID = next }
}

// NewEngine creates an engine over store drawing species from provider.
func NewEngine(store ProgressStore, provider SpeciesProvider, rng Rand, opts ...Option) *Engine {
	sr := &syncRand{r: rng}
	e := &Engine{
		store:    store,
		provider: provider,
		gen:      NewGenerator(provider, sr),
		rng:      sr,
		logger:   log.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// syncRand serializes draws; spawns run outside the engine lock.
type syncRand struct {
	mu sync.Mutex
	r  Rand
}

func (s *syncRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *syncRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Battle returns a view of the current battle, or nil when there is none.
func (e *Engine) Battle() *BattleSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.battle == nil {
		return nil
	}
	return e.battle.Snapshot()
}

// InBattle reports whether a battle is running or being spawned.
func (e *Engine) InBattle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spawning || e.battle.Ongoing()
}

// StartBattle spawns a wild creature against the active companion. It returns
// started=false without error when a battle is already running or spawning,
// or when a reset landed while the wild creature was being drawn.
// A provider failure leaves no battle behind.
func (e *Engine) StartBattle(ctx context.Context) (snap *BattleSnapshot, started bool, err error) {
	e.mu.Lock()
	if e.spawning || e.battle.Ongoing() {
		if e.battle != nil {
			snap = e.battle.Snapshot()
		}
		e.mu.Unlock()
		return snap, false, nil
	}
	e.spawning = true
	epoch := e.epoch
	e.mu.Unlock()

	defer func() {
		if err != nil {
			e.mu.Lock()
			if e.epoch == epoch {
				e.spawning = false
			}
			e.mu.Unlock()
		}
	}()

	save, err := e.store.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load save: %w", err)
	}
	if save.Active == "" {
		return nil, false, ErrNoCompanion
	}
	stats := save.StatsFor(save.Active)

	wild, err := e.gen.Spawn(ctx, stats)
	if err != nil {
		e.logger.Printf("spawn failed: %v", err)
		return nil, false, err
	}

	b := NewBattle(e.newID(), save.Active, stats, wild)
	b.AddLog(fmt.Sprintf("A wild %s appeared!", wild.DisplayName))

	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		e.logger.Printf("battle %s discarded: progress was reset while spawning", b.ID)
		return nil, false, nil
	}
	e.spawning = false
	e.battle = b
	snap = b.Snapshot()
	e.mu.Unlock()

	e.logger.Printf("battle %s: %s (lv %d) vs %s [%s]", b.ID, b.Companion, stats.Level, wild.Key(), wild.Tier)
	return snap, true, nil
}

// TurnReport is the outcome of one Act call.
type TurnReport struct {
	TurnResult
	Battle    *BattleSnapshot
	Reward    *VictoryReward
	LevelUps  []LevelUp
	Captured  string
	Evolution *Evolution
	// EvolutionErr is set when the post-victory evolution lookup failed.
	// The rewards are already committed at that point.
	EvolutionErr error
}

// Act resolves one player intent. The turn and its side effects are
// committed together; when the store rejects them the battle is unchanged.
func (e *Engine) Act(ctx context.Context, in Intent) (TurnReport, error) {
	e.mu.Lock()
	if !e.battle.Ongoing() {
		e.mu.Unlock()
		return TurnReport{}, ErrInvalidState
	}

	next := e.battle.Clone()
	var rep TurnReport
	err := e.store.Update(ctx, func(s *Save) error {
		res, err := next.Resolve(in, s, e.rng)
		if err != nil {
			return err
		}
		rep.TurnResult = res

		switch next.Phase {
		case PhaseVictory:
			reward := VictoryRewards(next.Wild.MaxHP, next.Stats.Level, next.Wild.Tier)
			if err := s.Adjust(Coins, reward.Coins); err != nil {
				return err
			}
			rep.Reward = &reward
			rep.LevelUps = s.ApplyExperience(next.Companion, reward.Experience)
			next.AddLog(fmt.Sprintf("Earned %d coins and %d XP.", reward.Coins, reward.Experience))
			for _, up := range rep.LevelUps {
				next.AddLog(fmt.Sprintf("%s grew to level %d!", next.CompanionName(), up.Level))
			}
		case PhaseCaptured:
			s.AddToParty(next.Wild.Key())
			rep.Captured = next.Wild.Key()
		}
		return nil
	})
	if err != nil {
		e.mu.Unlock()
		return TurnReport{}, err
	}
	e.battle = next
	rep.Battle = next.Snapshot()
	companion := next.Companion
	e.mu.Unlock()

	if next.Phase.Terminal() {
		e.logger.Printf("battle %s ended: %s after %d turns", next.ID, next.Phase, next.Turn)
	}
	if len(rep.LevelUps) > 0 {
		rep.Evolution, rep.EvolutionErr = e.CheckEvolution(ctx, companion)
		if rep.EvolutionErr != nil {
			e.logger.Printf("evolution check for %s: %v", companion, rep.EvolutionErr)
		}
	}
	return rep, nil
}

// Dismiss clears a finished battle. Running battles are kept.
func (e *Engine) Dismiss() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.battle == nil || e.battle.Ongoing() {
		return false
	}
	e.battle = nil
	return true
}

// ChooseStarter makes name the active companion after checking the provider
// knows it. The previous companion, if any, is replaced rather than bagged.
func (e *Engine) ChooseStarter(ctx context.Context, name string) (string, error) {
	if e.InBattle() {
		return "", ErrInvalidState
	}
	id := ParseIdentity(name)
	if id.Species == "" {
		return "", fmt.Errorf("%w: empty starter name", ErrUnknownItem)
	}
	if e.provider == nil {
		return "", &DataProviderError{Op: "starter", Err: errors.New("no species provider configured")}
	}
	if _, err := e.provider.Species(ctx, id.Species); err != nil {
		return "", asProviderError("species "+id.Species, err)
	}

	key := id.Key()
	err := e.store.Update(ctx, func(s *Save) error {
		s.Active = key
		if _, ok := s.Stats[key]; !ok {
			s.SetStats(key, DefaultStats())
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	e.logger.Printf("starter chosen: %s", key)
	return key, nil
}

// SetActive swaps a bagged creature in as the companion. The old companion
// goes into the bag.
func (e *Engine) SetActive(ctx context.Context, identity string) error {
	if e.InBattle() {
		return ErrInvalidState
	}
	key := NormalizeKey(identity)
	return e.store.Update(ctx, func(s *Save) error {
		if key == s.Active {
			return nil
		}
		if err := s.RemoveOneFromParty(key); err != nil {
			return err
		}
		if s.Active != "" {
			s.AddToParty(s.Active)
		}
		s.Active = key
		if _, ok := s.Stats[key]; !ok {
			s.SetStats(key, DefaultStats())
		}
		return nil
	})
}

// Buy purchases one unit of a shop item.
func (e *Engine) Buy(ctx context.Context, r Resource) (ShopItem, error) {
	item, ok := ShopItemFor(r)
	if !ok {
		return ShopItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, r)
	}
	err := e.store.Update(ctx, func(s *Save) error {
		if err := s.Adjust(Coins, -item.Price); err != nil {
			return err
		}
		return s.Adjust(item.Resource, 1)
	})
	if err != nil {
		return ShopItem{}, err
	}
	return item, nil
}

// Sell trades one bagged creature for coins based on its tier and level.
func (e *Engine) Sell(ctx context.Context, identity string) (int, error) {
	key := NormalizeKey(identity)
	var coins int
	err := e.store.Update(ctx, func(s *Save) error {
		if err := s.RemoveOneFromParty(key); err != nil {
			return err
		}
		coins = SellValue(Classify(ParseIdentity(key).Species), s.StatsFor(key).Level)
		return s.Adjust(Coins, coins)
	})
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// SetSound toggles sound effects.
func (e *Engine) SetSound(ctx context.Context, on bool) error {
	return e.store.Update(ctx, func(s *Save) error {
		s.SoundOn = on
		return nil
	})
}

// SetVolume stores the volume, clamped to [0, 1].
func (e *Engine) SetVolume(ctx context.Context, v float64) error {
	v = min(1, max(0, v))
	return e.store.Update(ctx, func(s *Save) error {
		s.Volume = v
		return nil
	})
}

// SetRandomBattles toggles scheduled battles.
func (e *Engine) SetRandomBattles(ctx context.Context, on bool) error {
	return e.store.Update(ctx, func(s *Save) error {
		s.RandomBattles = on
		return nil
	})
}

// Reset wipes the save back to first-run defaults and drops any battle.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Reset(ctx); err != nil {
		return err
	}
	e.battle = nil
	e.spawning = false
	e.epoch++
	e.logger.Printf("progress reset")
	return nil
}

// Snapshot builds a read-only view of the whole game for rendering.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	save, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	snap := newSnapshot(save, e.now())
	snap.Battle = e.Battle()
	e.mu.Lock()
	snap.Spawning = e.spawning
	e.mu.Unlock()
	return snap, nil
}
