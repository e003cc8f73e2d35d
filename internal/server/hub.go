package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode"

	"wild-companion/internal/game"
)

// ErrHubClosed is returned by Acquire after Close.
var ErrHubClosed = errors.New("hub closed")

// LoopFactory builds the loop for a profile.
type LoopFactory func(ctx context.Context, profile string) (*game.Loop, error)

type hubEntry struct {
	loop *game.Loop
	refs int
	done chan struct{}
}

// Hub owns one running loop per profile. Sessions for the same profile share
// a loop; the loop stops when its last session leaves.
type Hub struct {
	ctx     context.Context
	factory LoopFactory
	logger  *log.Logger

	mu      sync.Mutex
	entries map[string]*hubEntry
	closed  bool
}

// NewHub creates a hub whose loops run until ctx is done.
func NewHub(ctx context.Context, factory LoopFactory, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		ctx:     ctx,
		factory: factory,
		logger:  logger,
		entries: make(map[string]*hubEntry),
	}
}

// Acquire returns the loop for profile, starting it if needed. The caller must
// call release when the session ends.
func (h *Hub) Acquire(profile string) (*game.Loop, func(), error) {
	profile = sanitizeProfile(profile)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, nil, ErrHubClosed
	}

	e, ok := h.entries[profile]
	if !ok {
		loop, err := h.factory(h.ctx, profile)
		if err != nil {
			return nil, nil, fmt.Errorf("start profile %q: %w", profile, err)
		}
		e = &hubEntry{loop: loop, done: make(chan struct{})}
		h.entries[profile] = e
		go func() {
			defer close(e.done)
			loop.Run(h.ctx)
		}()
		h.logger.Printf("Profile loaded: %s", profile)
	}
	e.refs++

	var once sync.Once
	release := func() {
		once.Do(func() { h.release(profile, e) })
	}
	return e.loop, release, nil
}

func (h *Hub) release(profile string, e *hubEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e.refs--
	if e.refs > 0 || h.entries[profile] != e {
		return
	}
	delete(h.entries, profile)
	e.loop.Stop()
	h.logger.Printf("Profile unloaded: %s", profile)
}

// Profiles returns the number of running loops.
func (h *Hub) Profiles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Close stops every loop and waits for them to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	entries := h.entries
	h.entries = make(map[string]*hubEntry)
	h.mu.Unlock()

	for _, e := range entries {
		e.loop.Stop()
		<-e.done
	}
}

const maxProfileLen = 32

// sanitizeProfile maps a user-supplied name onto a storage-safe profile key
// of ASCII letters, digits, dashes and underscores.
func sanitizeProfile(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case unicode.IsSpace(r), r == '.':
			sb.WriteRune('_')
		}
		if sb.Len() >= maxProfileLen {
			break
		}
	}
	if sb.Len() == 0 {
		return "anonymous"
	}
	return sb.String()
}
