// Codenames spectator feed
//
// Every event the referee publishes is fanned out to connected browsers over
// a websocket. Spectators see the whole board, assassin included; they are
// never an agent and cannot affect the game.
//
// Features:
// - Late joiners get the current game's history in one message
// - History resets when a new game is dealt
// - Slow clients are dropped rather than stalling the referee
// - QR code of the spectator URL, backed by go-qrcode

package main

import (
	"context"
	_ "embed"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/codenames/games"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// HistoryMessage is sent once to each client when it connects.
type HistoryMessage struct {
	Type   string        `json:"type"` // "history"
	Events []games.Event `json:"events"`
}

// EventMessage carries a single live event.
type EventMessage struct {
	Type  string      `json:"type"` // "event"
	Event games.Event `json:"event"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
	addr string
}

// Hub relays game events to spectators. It implements games.Observer.
type Hub struct {
	clients map[*Client]bool
	history []games.Event

	register chan *Client
	unreg    chan *Client
	events   chan games.Event
	stopped  chan struct{}

	mu sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		events:   make(chan games.Event, 64),
		stopped:  make(chan struct{}),
	}
}

// Observe queues ev for broadcast. It drops the event once the hub has
// stopped.
func (h *Hub) Observe(ev games.Event) {
	select {
	case h.events <- ev:
	case <-h.stopped:
	}
}

func (h *Hub) run(ctx context.Context, cfg *Config) {
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			history := append([]games.Event(nil), h.history...)
			h.mu.Unlock()

			c.send <- HistoryMessage{Type: "history", Events: history}

			logf(cfg, "SERVE: Spectator %s connected", c.addr)

		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.mu.Lock()
			if ev.Kind == games.EventGameStarted {
				h.history = h.history[:0]
			}
			h.history = append(h.history, ev)
			h.broadcastLocked(EventMessage{Type: "event", Event: ev})
			h.mu.Unlock()

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) historyLen() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.history)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveSpectatorSocket(cfg *Config, hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "SERVE: Upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
			addr: realIP(r),
		}

		select {
		case hub.register <- client:
		case <-hub.stopped:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

// readPump only watches for the spectator going away; anything it sends is
// ignored.
func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.stopped:
		}
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// qrHandler generates a PNG QR code pointing at the spectator page.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	path := strings.TrimSuffix(r.URL.Path, "qr")

	const qrSize = 320
	png, err := qrcode.Encode(scheme+"://"+r.Host+path, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

//go:embed spectate/index.html
var spectateHTML []byte

//go:embed spectate/app.js
var spectateJS []byte

func getJsHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(spectateJS)
	}
}

// registerSpectators sets up:
//   - $prefix/        → spectator page
//   - $prefix/app.js  → page script
//   - $prefix/ws      → websocket event feed
//   - $prefix/qr      → PNG QR code for the spectator page
func registerSpectators(cfg *Config, hub *Hub, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/", serveHomePage(cfg))
	mux.GET(cfg.prefix+"/app.js", getJsHandler(cfg))
	mux.GET(cfg.prefix+"/ws", serveSpectatorSocket(cfg, hub))
	mux.GET(cfg.prefix+"/qr", qrHandler)
}
