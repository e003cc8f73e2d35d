package game

import (
	"sync"
	"time"
)

// Scheduler fires random battles at uniformly random intervals while enabled.
// Each fire re-arms the next one.
type Scheduler struct {
	rng    Rand
	lo, hi time.Duration
	fire   func()
	now    func() time.Time

	mu    sync.Mutex
	timer *time.Timer
	next  time.Time
	gen   uint64 // bumped on every arm/disable so stale timers are ignored
}

// NewScheduler creates a disabled scheduler that calls fire on each expiry.
func NewScheduler(rng Rand, lo, hi time.Duration, fire func()) *Scheduler {
	return &Scheduler{rng: rng, lo: lo, hi: hi, fire: fire, now: time.Now}
}

// Enable arms the scheduler if it is not already armed.
func (s *Scheduler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		return
	}
	s.armLocked()
}

// Disable cancels any pending fire.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.next = time.Time{}
}

// Enabled reports whether a fire is pending.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// NextAt returns when the next battle fires.
func (s *Scheduler) NextAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return time.Time{}, false
	}
	return s.next, true
}

func (s *Scheduler) armLocked() {
	s.gen++
	gen := s.gen
	d := randomDelay(s.rng, s.lo, s.hi)
	s.next = s.now().Add(d)
	s.timer = time.AfterFunc(d, func() { s.expire(gen) })
}

func (s *Scheduler) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.armLocked()
	s.mu.Unlock()

	s.fire()
}
