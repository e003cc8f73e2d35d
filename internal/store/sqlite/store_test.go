package sqlite

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"slices"
	"testing"

	"wild-companion/internal/game"
	"wild-companion/internal/store"
)

func openTempDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companion.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close sqlite store: %v", err)
		}
	})
	return db, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestKVGetSetDelete(t *testing.T) {
	ctx := context.Background()
	db, _ := openTempDB(t)
	kv := db.Profile("ash")

	if _, ok, err := kv.Get(ctx, "coins"); err != nil || ok {
		t.Fatalf("expected a missing key, got ok=%v err=%v", ok, err)
	}

	if err := kv.SetMany(ctx, map[string][]byte{
		"coins":   []byte("100"),
		"potions": []byte("2"),
	}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if err := kv.SetMany(ctx, map[string][]byte{"coins": []byte("140")}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := kv.Get(ctx, "coins")
	if err != nil || !ok || string(got) != "140" {
		t.Fatalf("expected 140, got %q ok=%v err=%v", got, ok, err)
	}

	if err := kv.Delete(ctx, "coins", "never-written"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "coins"); ok {
		t.Errorf("expected coins deleted")
	}
	if _, ok, _ := kv.Get(ctx, "potions"); !ok {
		t.Errorf("delete removed an unrelated key")
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db, _ := openTempDB(t)

	if err := db.Profile("misty").SetMany(ctx, map[string][]byte{"coins": []byte("5")}); err != nil {
		t.Fatal(err)
	}
	if err := db.Profile("brock").SetMany(ctx, map[string][]byte{"coins": []byte("7")}); err != nil {
		t.Fatal(err)
	}

	got, _, _ := db.Profile("misty").Get(ctx, "coins")
	if string(got) != "5" {
		t.Errorf("expected misty's coins, got %q", got)
	}

	profiles, err := db.Profiles(ctx)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if !slices.Equal(profiles, []string{"brock", "misty"}) {
		t.Errorf("expected sorted profiles, got %v", profiles)
	}
}

func TestReopenKeepsProgress(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "companion.db")
	logger := log.New(io.Discard, "", 0)

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.Open(ctx, db.Profile("ash"), logger)
	if err != nil {
		t.Fatalf("open progress store: %v", err)
	}
	if err := s.Update(ctx, func(save *game.Save) error {
		save.Active = "pikachu"
		save.AddToParty("rattata")
		return save.Adjust(game.Coins, 25)
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var applied int
	if err := db.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Errorf("expected migrations recorded once, got %d", applied)
	}

	s, err = store.Open(ctx, db.Profile("ash"), logger)
	if err != nil {
		t.Fatal(err)
	}
	if s.Active() != "pikachu" || s.Party()["rattata"] != 1 {
		t.Errorf("progress lost: %q %v", s.Active(), s.Party())
	}
	if got := s.Inventory(game.Coins); got != game.StartingCoins+25 {
		t.Errorf("expected %d coins, got %d", game.StartingCoins+25, got)
	}
}
