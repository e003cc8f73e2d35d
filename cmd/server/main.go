package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"

	"wild-companion/internal/game"
	"wild-companion/internal/platform/config"
	"wild-companion/internal/platform/otel"
	"wild-companion/internal/server"
	"wild-companion/internal/species"
	"wild-companion/internal/store"
	"wild-companion/internal/store/sqlite"
)

const serviceName = "wild-companion"

// Config is read from the environment.
type Config struct {
	SSHAddr        string        `env:"COMPANION_SSH_ADDR" envDefault:":2222"`
	HTTPAddr       string        `env:"COMPANION_HTTP_ADDR" envDefault:":8080"`
	HostKeyPath    string        `env:"COMPANION_HOST_KEY" envDefault:"host_key"`
	DBPath         string        `env:"COMPANION_DB_PATH" envDefault:"data/companion.db"`
	SpeciesURL     string        `env:"COMPANION_SPECIES_URL" envDefault:"https://pokeapi.co/api/v2"`
	CatalogPath    string        `env:"COMPANION_CATALOG"`
	SpeciesLimit   int           `env:"COMPANION_SPECIES_LIMIT" envDefault:"649"`
	HTTPTimeout    time.Duration `env:"COMPANION_HTTP_TIMEOUT" envDefault:"10s"`
	MinBattleDelay time.Duration `env:"COMPANION_MIN_BATTLE_DELAY" envDefault:"1m"`
	MaxBattleDelay time.Duration `env:"COMPANION_MAX_BATTLE_DELAY" envDefault:"10m"`
	ResultLinger   time.Duration `env:"COMPANION_RESULT_LINGER" envDefault:"1500ms"`
	Seed           int64         `env:"COMPANION_SEED"`
	AllowedOrigins []string      `env:"COMPANION_ALLOWED_ORIGINS" envSeparator:","`
}

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("config: %v", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.SSHAddr = ":" + port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(ctx context.Context, cfg Config) error {
	shutdownOtel, err := otel.Setup(ctx, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(sctx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	// Generate host key if it doesn't exist
	if err := ensureHostKey(cfg.HostKeyPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if profiles, err := db.Profiles(ctx); err == nil {
		log.Printf("Save database: %s (%d profiles)", cfg.DBPath, len(profiles))
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = game.NewSeed(); err != nil {
			return err
		}
	}
	// Each profile gets its own streams so one player's rolls never shift another's.
	var profileSeq int64
	loopCfg := game.LoopConfig{
		Refresh:        game.RefreshInterval,
		MinBattleDelay: cfg.MinBattleDelay,
		MaxBattleDelay: cfg.MaxBattleDelay,
		ResultLinger:   cfg.ResultLinger,
	}
	factory := func(ctx context.Context, profile string) (*game.Loop, error) {
		logger := log.New(os.Stderr, "["+profile+"] ", log.Flags())
		st, err := store.Open(ctx, db.Profile(profile), logger)
		if err != nil {
			return nil, err
		}
		profileSeq++
		base := seed + profileSeq*2
		engine := game.NewEngine(st, provider, game.NewRand(base), game.WithLogger(logger))
		return game.NewLoop(engine, game.NewRand(base+1), loopCfg, logger), nil
	}

	hub := server.NewHub(ctx, factory, nil)
	defer hub.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.NewWSHandler(hub, server.WSConfig{AllowedOrigins: cfg.AllowedOrigins}).Handle)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	sshServer := server.NewSSHServer(cfg.SSHAddr, cfg.HostKeyPath, hub, provider, nil)

	errCh := make(chan error, 2)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		_, port, _ := net.SplitHostPort(cfg.SSHAddr)
		log.Printf("Starting Wild Companion, connect with: ssh -p %s YourName@localhost", port)
		if err := sshServer.Start(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errCh:
		return err
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(sctx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := sshServer.Shutdown(sctx); err != nil {
		log.Printf("SSH shutdown: %v", err)
	}
	return nil
}

// newProvider prefers an offline catalog when one is configured.
func newProvider(cfg Config) (game.SpeciesProvider, error) {
	if cfg.CatalogPath != "" {
		catalog, err := species.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Species catalog loaded: %s (%d species)", cfg.CatalogPath, catalog.Len())
		return species.NewCached(catalog), nil
	}
	client := species.NewClient(cfg.SpeciesURL, &http.Client{Timeout: cfg.HTTPTimeout}, cfg.SpeciesLimit)
	return species.NewCached(client), nil
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
