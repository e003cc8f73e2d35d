package config

import (
	"slices"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Addr    string        `env:"COMPANION_TEST_ADDR" envDefault:":2222"`
	Delay   time.Duration `env:"COMPANION_TEST_DELAY" envDefault:"1m"`
	Origins []string      `env:"COMPANION_TEST_ORIGINS" envSeparator:","`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != ":2222" || cfg.Delay != time.Minute || len(cfg.Origins) != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("COMPANION_TEST_DELAY", "90s")
	t.Setenv("COMPANION_TEST_ORIGINS", "https://a.example,https://b.example")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Delay != 90*time.Second {
		t.Errorf("expected 90s, got %v", cfg.Delay)
	}
	if !slices.Equal(cfg.Origins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("unexpected origins %v", cfg.Origins)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("COMPANION_TEST_DELAY", "soon")

	var cfg envTestConfig
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
