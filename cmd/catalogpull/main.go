// Command catalogpull snapshots species data from a PokeAPI-compatible server
// into a JSON catalog the game server can load offline.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"wild-companion/internal/platform/config"
	"wild-companion/internal/species"
)

type pullConfig struct {
	BaseURL     string        `env:"COMPANION_SPECIES_URL" envDefault:"https://pokeapi.co/api/v2"`
	Limit       int           `env:"COMPANION_SPECIES_LIMIT" envDefault:"649"`
	Timeout     time.Duration `env:"COMPANION_HTTP_TIMEOUT" envDefault:"10s"`
	Concurrency int           `env:"COMPANION_PULL_CONCURRENCY" envDefault:"5"`
}

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	var cfg pullConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("config: %v", err)
	}
	out := flag.String("out", "catalog.json", "catalog output path")
	flag.IntVar(&cfg.Limit, "limit", cfg.Limit, "number of species to pull")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := species.NewClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, cfg.Limit)
	entries, err := pull(ctx, client, cfg.Concurrency)
	if err != nil {
		config.Exitf("pull: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		config.Exitf("create %s: %v", *out, err)
	}
	if err := species.WriteCatalog(f, entries); err != nil {
		f.Close()
		config.Exitf("write %s: %v", *out, err)
	}
	if err := f.Close(); err != nil {
		config.Exitf("close %s: %v", *out, err)
	}
	log.Printf("Wrote %d species to %s", len(entries), *out)
}

// pull fetches every listed species. A species that fails is logged and
// skipped; only a failed listing or cancellation aborts the run.
func pull(ctx context.Context, client *species.Client, concurrency int) ([]species.Entry, error) {
	names, err := client.SpeciesList(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		entries = make([]species.Entry, 0, len(names))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, name := range names {
		g.Go(func() error {
			entry, err := client.Entry(gctx, name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("skip %s: %v", name, err)
				return nil
			}
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
