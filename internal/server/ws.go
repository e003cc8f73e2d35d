package server

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wild-companion/internal/game"
)

const writeWait = 10 * time.Second

// clientMessage is one action sent by a browser client.
type clientMessage struct {
	Action   string  `json:"action"`
	Device   string  `json:"device,omitempty"`
	Resource string  `json:"resource,omitempty"`
	Identity string  `json:"identity,omitempty"`
	Flag     bool    `json:"flag,omitempty"`
	Value    float64 `json:"value,omitempty"`
}

// WSConfig configures the websocket handler.
type WSConfig struct {
	Logger *log.Logger
	// AllowedOrigins lists the Origin headers accepted on upgrade. Empty
	// allows any origin.
	AllowedOrigins []string
}

// WSHandler bridges browser clients onto profile loops. Each connection
// receives JSON frames and sends clientMessage values.
type WSHandler struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler backed by hub.
func NewWSHandler(hub *Hub, cfg WSConfig) *WSHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	allowed := slices.Clone(cfg.AllowedOrigins)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowed) == 0 || origin == "" || slices.Contains(allowed, origin)
		},
	}

	return &WSHandler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle upgrades the request and serves the profile named by ?profile=.
func (h *WSHandler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	profile := r.URL.Query().Get("profile")
	if profile == "" {
		nethttp.Error(w, "missing profile", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", profile, err)
		return
	}
	defer conn.Close()

	loop, release, err := h.hub.Acquire(profile)
	if err != nil {
		h.logger.Printf("profile %s unavailable: %v", profile, err)
		message := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "profile unavailable")
		conn.WriteMessage(websocket.CloseMessage, message)
		return
	}
	defer release()

	sessionID := uuid.NewString()
	renderCh := loop.AddSession(sessionID)
	defer loop.RemoveSession(sessionID)

	// Only the writer goroutine touches conn for writes.
	localCh := make(chan game.Frame, 4)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			var frame game.Frame
			select {
			case f, ok := <-renderCh:
				if !ok {
					return
				}
				frame = f
			case f := <-localCh:
				frame = f
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				conn.Close()
				return
			}
		}
	}()

	inputCh := loop.InputChan()
	if !sendInput(inputCh, game.InputEvent{SessionID: sessionID, Action: game.ActionRefresh}, writerDone) {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", profile, err)
			continue
		}
		ev, ok := msg.event(sessionID)
		if !ok {
			select {
			case localCh <- game.Frame{Error: "Unknown action " + msg.Action + "."}:
			case <-writerDone:
				return
			}
			continue
		}
		if !sendInput(inputCh, ev, writerDone) {
			return
		}
	}
}

// sendInput hands ev to the loop. It reports false when done closes first.
func sendInput(inputCh chan<- game.InputEvent, ev game.InputEvent, done <-chan struct{}) bool {
	select {
	case inputCh <- ev:
		return true
	case <-done:
		return false
	}
}

func (m clientMessage) event(sessionID string) (game.InputEvent, bool) {
	action, ok := game.ParseAction(m.Action)
	if !ok {
		return game.InputEvent{}, false
	}
	ev := game.InputEvent{
		SessionID: sessionID,
		Action:    action,
		Resource:  game.Resource(m.Resource),
		Identity:  m.Identity,
		Flag:      m.Flag,
		Value:     m.Value,
	}
	if m.Device != "" {
		d, ok := game.ParseDevice(m.Device)
		if !ok {
			return game.InputEvent{}, false
		}
		ev.Device = d
	}
	return ev, true
}
