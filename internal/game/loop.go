package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Frame is what each session receives for rendering. Notice and Error are
// only set on the frame sent to the session whose action produced them.
type Frame struct {
	Snapshot *Snapshot `json:"snapshot"`
	Notice   string    `json:"notice,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// RenderChan is the per-session channel that receives frames.
type RenderChan chan Frame

// LoopConfig holds the loop timings.
type LoopConfig struct {
	Refresh        time.Duration
	MinBattleDelay time.Duration
	MaxBattleDelay time.Duration
	ResultLinger   time.Duration
}

// DefaultLoopConfig returns the standard timings.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Refresh:        RefreshInterval,
		MinBattleDelay: MinBattleDelay,
		MaxBattleDelay: MaxBattleDelay,
		ResultLinger:   ResultLinger,
	}
}

type outcome struct {
	sessionID string
	notice    string
	err       error
}

// Loop drives one player's engine: it serializes session input, runs the
// random battle scheduler and pushes frames to every attached session.
type Loop struct {
	engine *Engine
	sched  *Scheduler
	cfg    LoopConfig
	logger *log.Logger

	inputCh chan InputEvent
	doneCh  chan outcome
	fireCh  chan struct{}

	mu          sync.RWMutex
	renderChans map[string]RenderChan

	finishedAt time.Time // when the current battle reached a terminal phase

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop around engine. rng drives the scheduler only.
func NewLoop(engine *Engine, rng Rand, cfg LoopConfig, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.Default()
	}
	l := &Loop{
		engine:      engine,
		cfg:         cfg,
		logger:      logger,
		inputCh:     make(chan InputEvent, InputChanSize),
		doneCh:      make(chan outcome, InputChanSize),
		fireCh:      make(chan struct{}, 1),
		renderChans: make(map[string]RenderChan),
		stopCh:      make(chan struct{}),
	}
	l.sched = NewScheduler(rng, cfg.MinBattleDelay, cfg.MaxBattleDelay, l.scheduledBattle)
	return l
}

// Engine returns the engine the loop drives.
func (l *Loop) Engine() *Engine {
	return l.engine
}

// InputChan returns the channel sessions send events on.
func (l *Loop) InputChan() chan<- InputEvent {
	return l.inputCh
}

// AddSession registers a session and returns its render channel.
func (l *Loop) AddSession(id string) RenderChan {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(RenderChan, 4)
	l.renderChans[id] = ch
	return ch
}

// RemoveSession unregisters a session and closes its channel.
func (l *Loop) RemoveSession(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ch, ok := l.renderChans[id]; ok {
		close(ch)
		delete(l.renderChans, id)
	}
}

// Sessions returns the number of attached sessions.
func (l *Loop) Sessions() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.renderChans)
}

// Run processes input until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Refresh)
	defer ticker.Stop()
	defer l.sched.Disable()

	if snap, err := l.engine.Snapshot(ctx); err != nil {
		l.logger.Printf("initial snapshot: %v", err)
	} else if snap.RandomBattles {
		l.sched.Enable()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.tick(ctx)
		case ev := <-l.inputCh:
			l.processInput(ctx, ev)
		case <-l.fireCh:
			l.startBattle(ctx, "")
		case out := <-l.doneCh:
			l.finish(ctx, out)
		}
	}
}

// Stop shuts down the loop.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Loop) scheduledBattle() {
	select {
	case l.fireCh <- struct{}{}:
	default:
	}
}

func (l *Loop) tick(ctx context.Context) {
	if b := l.engine.Battle(); b != nil && !b.Ongoing {
		now := time.Now()
		switch {
		case l.finishedAt.IsZero():
			l.finishedAt = now
		case now.Sub(l.finishedAt) >= l.cfg.ResultLinger:
			l.engine.Dismiss()
			l.finishedAt = time.Time{}
		}
	}
	l.broadcast(ctx, outcome{})
}

func (l *Loop) processInput(ctx context.Context, ev InputEvent) {
	if in, ok := ev.Action.Intent(ev.Device); ok {
		l.async(ctx, ev.SessionID, func(ctx context.Context) (string, error) {
			rep, err := l.engine.Act(ctx, in)
			if err != nil {
				return "", err
			}
			return describeTurn(rep), nil
		})
		return
	}

	var out outcome
	out.sessionID = ev.SessionID
	switch ev.Action {
	case ActionBattle:
		l.startBattle(ctx, ev.SessionID)
		return
	case ActionChooseStarter:
		l.async(ctx, ev.SessionID, func(ctx context.Context) (string, error) {
			key, err := l.engine.ChooseStarter(ctx, ev.Identity)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s is your new companion!", ParseIdentity(key).DisplayName()), nil
		})
		return
	case ActionDismiss:
		l.engine.Dismiss()
		l.finishedAt = time.Time{}
	case ActionSetActive:
		if out.err = l.engine.SetActive(ctx, ev.Identity); out.err == nil {
			out.notice = fmt.Sprintf("%s is now your companion.", ParseIdentity(ev.Identity).DisplayName())
		}
	case ActionBuy:
		var item ShopItem
		if item, out.err = l.engine.Buy(ctx, ev.Resource); out.err == nil {
			out.notice = fmt.Sprintf("Bought a %s for %d coins.", item.Name, item.Price)
		}
	case ActionSell:
		var coins int
		if coins, out.err = l.engine.Sell(ctx, ev.Identity); out.err == nil {
			out.notice = fmt.Sprintf("Sold %s for %d coins.", ParseIdentity(ev.Identity).DisplayName(), coins)
		}
	case ActionVisitStop:
		var r StopReward
		if r, out.err = l.engine.VisitStop(ctx); out.err == nil {
			out.notice = describeStop(r)
		}
	case ActionSetSound:
		out.err = l.engine.SetSound(ctx, ev.Flag)
	case ActionSetVolume:
		out.err = l.engine.SetVolume(ctx, ev.Value)
	case ActionSetRandomBattles:
		if out.err = l.engine.SetRandomBattles(ctx, ev.Flag); out.err == nil {
			if ev.Flag {
				l.sched.Enable()
			} else {
				l.sched.Disable()
			}
		}
	case ActionReset:
		if out.err = l.engine.Reset(ctx); out.err == nil {
			l.sched.Disable()
			l.finishedAt = time.Time{}
			out.notice = "Progress reset."
		}
	case ActionRefresh, ActionNone:
	default:
		return
	}
	l.finish(ctx, out)
}

// startBattle spawns off the loop goroutine; sessionID is empty for
// scheduled battles.
func (l *Loop) startBattle(ctx context.Context, sessionID string) {
	if l.engine.InBattle() {
		if sessionID != "" {
			l.finish(ctx, outcome{sessionID: sessionID, err: ErrInvalidState})
		}
		return
	}
	l.async(ctx, sessionID, func(ctx context.Context) (string, error) {
		_, _, err := l.engine.StartBattle(ctx)
		return "", err
	})
	// Push the spawning state right away.
	l.broadcast(ctx, outcome{})
}

func (l *Loop) async(ctx context.Context, sessionID string, fn func(context.Context) (string, error)) {
	go func() {
		notice, err := fn(ctx)
		select {
		case l.doneCh <- outcome{sessionID: sessionID, notice: notice, err: err}:
		case <-l.stopCh:
		case <-ctx.Done():
		}
	}()
}

func (l *Loop) finish(ctx context.Context, out outcome) {
	if out.err != nil && !errors.Is(out.err, ErrInvalidState) {
		l.logger.Printf("session %s: %v", out.sessionID, out.err)
	}
	l.broadcast(ctx, out)
}

func (l *Loop) broadcast(ctx context.Context, out outcome) {
	snap, err := l.engine.Snapshot(ctx)
	if err != nil {
		l.logger.Printf("snapshot: %v", err)
		return
	}
	if next, ok := l.sched.NextAt(); ok {
		snap.NextBattleIn = max(0, int(time.Until(next).Seconds()))
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for id, ch := range l.renderChans {
		f := Frame{Snapshot: snap}
		if id == out.sessionID {
			f.Notice = out.notice
			if out.err != nil {
				f.Error = Describe(out.err)
			}
		}
		select {
		case ch <- f:
		default:
			// Drop frame for slow client
		}
	}
}

// Describe turns an engine error into a player-facing message.
func Describe(err error) string {
	var insufficient *InsufficientResourceError
	var cooldown *CooldownError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &insufficient):
		return fmt.Sprintf("Not enough %s.", insufficient.Resource.Label())
	case errors.As(err, &cooldown):
		return fmt.Sprintf("The supply stop recharges in %s.", cooldown.Remaining.Round(time.Second))
	case IsDataProviderError(err):
		return "Couldn't reach the creature database. Try again."
	case errors.Is(err, ErrNoCompanion):
		return "Choose a starter first."
	case errors.Is(err, ErrNotOwned):
		return "You don't have that creature."
	case errors.Is(err, ErrInvalidState):
		return "You can't do that right now."
	case errors.Is(err, ErrUnknownItem):
		return "Unknown item."
	default:
		return "Something went wrong."
	}
}

func describeTurn(rep TurnReport) string {
	switch {
	case rep.Evolution != nil:
		return fmt.Sprintf("%s evolved into %s!",
			ParseIdentity(rep.Evolution.From).DisplayName(), ParseIdentity(rep.Evolution.To).DisplayName())
	case rep.Captured != "":
		return fmt.Sprintf("%s was added to your bag.", ParseIdentity(rep.Captured).DisplayName())
	case rep.Reward != nil:
		return fmt.Sprintf("+%d coins, +%d XP", rep.Reward.Coins, rep.Reward.Experience)
	default:
		return ""
	}
}

func describeStop(r StopReward) string {
	msg := fmt.Sprintf("Got %d %s ball(s) and %d coins.", r.Devices, r.Device, r.Coins)
	if r.Master {
		msg += " A Master Ball too!"
	}
	return msg
}
