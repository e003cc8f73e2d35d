package server

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"wild-companion/internal/game"
	"wild-companion/internal/species"
	"wild-companion/internal/store"
)

var errFactory = errors.New("factory failed")

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testCatalog() *species.Catalog {
	return species.NewCatalog([]species.Entry{
		{Name: "pikachu", BaseHP: 35, BaseAttack: 55},
		{Name: "rattata", BaseHP: 30, BaseAttack: 56},
		{Name: "eevee", BaseHP: 55, BaseAttack: 55},
	})
}

// testFactory builds loops over in-memory stores and records the profiles
// it was asked for.
type testFactory struct {
	mu       sync.Mutex
	profiles []string
	fail     bool
}

func (f *testFactory) build(ctx context.Context, profile string) (*game.Loop, error) {
	f.mu.Lock()
	f.profiles = append(f.profiles, profile)
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return nil, errFactory
	}

	st, err := store.Open(ctx, store.NewMemory(), quietLogger())
	if err != nil {
		return nil, err
	}
	engine := game.NewEngine(st, testCatalog(), game.NewRand(1), game.WithLogger(quietLogger()))
	cfg := game.DefaultLoopConfig()
	cfg.Refresh = time.Hour
	return game.NewLoop(engine, game.NewRand(2), cfg, quietLogger()), nil
}

func (f *testFactory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.profiles)
}

func newTestHub(t *testing.T) (*Hub, *testFactory) {
	t.Helper()
	f := &testFactory{}
	h := NewHub(context.Background(), f.build, quietLogger())
	t.Cleanup(h.Close)
	return h, f
}

func TestHubSharesLoopPerProfile(t *testing.T) {
	h, f := newTestHub(t)

	a, releaseA, err := h.Acquire("Ash")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	b, releaseB, err := h.Acquire("ash")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if a != b {
		t.Errorf("expected both sessions on one loop")
	}
	if f.calls() != 1 {
		t.Errorf("expected one loop built, got %d", f.calls())
	}

	c, releaseC, err := h.Acquire("misty")
	if err != nil {
		t.Fatal(err)
	}
	defer releaseC()
	if c == a || h.Profiles() != 2 {
		t.Errorf("expected a separate loop per profile, got %d loops", h.Profiles())
	}

	releaseA()
	releaseA()
	if h.Profiles() != 2 {
		t.Errorf("a double release should count once, got %d loops", h.Profiles())
	}
	releaseB()
	if h.Profiles() != 1 {
		t.Errorf("expected the ash loop stopped, got %d loops", h.Profiles())
	}

	again, releaseAgain, err := h.Acquire("ash")
	if err != nil {
		t.Fatal(err)
	}
	defer releaseAgain()
	if again == a || f.calls() != 3 {
		t.Errorf("expected a fresh loop after the last release")
	}
}

func TestHubFactoryError(t *testing.T) {
	h, f := newTestHub(t)
	f.fail = true

	if _, _, err := h.Acquire("brock"); !errors.Is(err, errFactory) {
		t.Fatalf("expected the factory error, got %v", err)
	}
	if h.Profiles() != 0 {
		t.Errorf("a failed profile should not stay registered")
	}
}

func TestHubClose(t *testing.T) {
	f := &testFactory{}
	h := NewHub(context.Background(), f.build, quietLogger())
	if _, _, err := h.Acquire("ash"); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		h.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not wait for loops to stop")
	}

	if _, _, err := h.Acquire("ash"); !errors.Is(err, ErrHubClosed) {
		t.Errorf("expected ErrHubClosed, got %v", err)
	}
}

func TestSanitizeProfile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ash", "ash"},
		{"  ash ketchum ", "ash_ketchum"},
		{"team.rocket", "team_rocket"},
		{"../../etc/passwd", "____etcpasswd"},
		{"red-2_b", "red-2_b"},
		{"Café", "caf"},
		{"ñandú", "and"},
		{"ash١٢", "ash"},
		{"!!!", "anonymous"},
		{"", "anonymous"},
		{"abcdefghijklmnopqrstuvwxyz0123456789", "abcdefghijklmnopqrstuvwxyz012345"},
	}
	for _, tt := range tests {
		if got := sanitizeProfile(tt.in); got != tt.want {
			t.Errorf("sanitizeProfile(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
