package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"

	"wild-companion/internal/game"
	"wild-companion/internal/render"
)

// SSHServer wraps the SSH listener and the profile hub.
type SSHServer struct {
	hub      *Hub
	provider game.SpeciesProvider
	addr     string
	hostKey  string
	logger   *log.Logger
	server   *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address. provider
// backs the starter search.
func NewSSHServer(addr, hostKey string, hub *Hub, provider game.SpeciesProvider, logger *log.Logger) *SSHServer {
	if logger == nil {
		logger = log.Default()
	}
	return &SSHServer{
		hub:      hub,
		provider: provider,
		addr:     addr,
		hostKey:  hostKey,
		logger:   logger,
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	s.server = &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	// Set host key
	if err := s.server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.logger.Printf("SSH server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for open sessions.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	loop, release, err := s.hub.Acquire(username)
	if err != nil {
		s.logger.Printf("Session rejected for %s: %v", username, err)
		fmt.Fprintln(sess, "Error: could not load your save. Try again later.")
		return
	}
	defer release()

	sessionID := uuid.NewString()
	renderCh := loop.AddSession(sessionID)
	s.logger.Printf("Player connected: %s (%s)", username, sessionID)
	defer func() {
		loop.RemoveSession(sessionID)
		s.logger.Printf("Player disconnected: %s (%s)", username, sessionID)
	}()

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)
	term := newTerminal(username, sessionID, s.provider)

	// Setup terminal
	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	ctx := sess.Context()
	inputCh := loop.InputChan()
	keyCh := make(chan []Key, 8)
	resizeCh := make(chan struct{}, 1)
	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			select {
			case keyCh <- parseInput(buf[:n]):
			case <-ctx.Done():
				return
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
			select {
			case resizeCh <- struct{}{}:
			default:
			}
		}
	}()

	send := func(ev game.InputEvent) {
		select {
		case inputCh <- ev:
		default:
		}
	}
	draw := func() {
		termMu.Lock()
		w, h := termW, termH
		termMu.Unlock()
		if output := engine.Render(term.view(), w, h); len(output) > 0 {
			io.WriteString(sess, output)
		}
	}

	send(game.InputEvent{SessionID: sessionID, Action: game.ActionRefresh})

	// Main loop: frames from the game, keys from the player
	for {
		select {
		case <-quitCh:
			return
		case <-ctx.Done():
			return
		case frame, ok := <-renderCh:
			if !ok {
				return
			}
			term.apply(frame)
			draw()
		case keys := <-keyCh:
			for _, k := range keys {
				ev, ok, quit := term.handleKey(ctx, k)
				if quit {
					return
				}
				if ok {
					send(ev)
				}
			}
			draw()
		case <-resizeCh:
			draw()
		}
	}
}
