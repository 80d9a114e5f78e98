// Tilebox multiplayer coordination core.
//
// Every participant runs the puzzle locally in their browser; the server
// tracks who is connected, who may advance the shared phase, and fans out
// live progress to every connection. Inbound flow:
//
// - Players connect over a websocket and send a "join" carrying a persistent
//   id kept in browser storage, so a reconnect resumes the same record.
// - Progress and completion reports are applied to the registry, the phase
//   messages (start/end/reset) to the state machine, game master only.
// - After any mutation, the complete roster is re-broadcast to everyone.
//   Discrete notices (puzzle completed, phase changed) follow the snapshot
//   they belong to, never precede it.
//
// A single goroutine in Hub.run owns the registry and the phase. All inbound
// client messages ride one channel, preserving each connection's send order;
// one message is handled to completion before the next is taken.

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type Client struct {
	conn   *websocket.Conn
	send   chan any
	connID string
}

type inbound struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	clients  map[*Client]bool
	registry *Registry
	phase    *GamePhase

	register chan *Client
	unreg    chan *Client
	inbound  chan inbound
	events   chan any

	mu sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		registry: NewRegistry(),
		phase:    NewGamePhase(),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		inbound:  make(chan inbound, 64),
		events:   make(chan any, 16),
	}
}

// Broadcast queues a message for delivery to every connection. It is the
// event-emission interface handed to collaborators (the image catalog); the
// actual fan-out happens on the hub loop so collaborators never touch
// connection state directly.
func (h *Hub) Broadcast(msg any) {
	h.events <- msg
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.handleRegister(cfg, c)

		case c := <-h.unreg:
			h.handleUnregister(cfg, c)

		case in := <-h.inbound:
			switch in.msg.Type {
			case "join":
				h.handleJoin(cfg, in.client, in.msg)
			case "ready":
				h.handleReady(in.client, in.msg)
			case "progress":
				h.handleProgress(in.client, in.msg)
			case "complete":
				h.handleComplete(cfg, in.client, in.msg)
			case "start":
				h.handleStart(cfg, in.client, in.msg)
			case "end":
				h.handleEnd(cfg, in.client)
			case "reset":
				h.handleReset(cfg, in.client)
			}

		case msg := <-h.events:
			h.mu.Lock()
			h.broadcastLocked(msg)
			h.mu.Unlock()
		}
	}
}

// sendLocked queues a message for one client, detaching it if its buffer is
// full. A slow or dead connection never blocks the hub loop. Clients already
// detached earlier in the same handler are skipped, not re-closed.
func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for c := range h.clients {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) broadcastRosterLocked() {
	h.broadcastLocked(rosterMessage(h.registry.Roster()))
}

// handleRegister primes a fresh connection with the current state. A
// connection that never joins (the leaderboard view) still receives every
// broadcast; priming means it does not start from a blank screen.
func (h *Hub) handleRegister(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
	h.sendLocked(c, rosterMessage(h.registry.Roster()))
	h.sendLocked(c, phaseMessage(h.phase, ""))

	logf(cfg, "GAMES: Connection %s opened", c.connID)
}

func (h *Hub) handleUnregister(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}

	p, removed := h.registry.Disconnect(c.connID, h.phase.RoundStarted())
	if p != nil {
		logf(cfg, "GAMES: Participant %q disconnected (removed: %t)", p.DisplayName, removed)
		h.broadcastRosterLocked()
	}
}

// handleJoin binds the connection to its persistent participant, creating the
// record on first sight. A join without a persistent id is a brand-new player
// and gets one assigned; the id is echoed back in the phase message so the
// client can store it for reconnects.
func (h *Hub) handleJoin(cfg *Config, c *Client, msg ClientMessage) {
	if msg.DisplayName == "" {
		return
	}

	persistentID := msg.PersistentID
	if persistentID == "" {
		persistentID = uuid.NewString()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.registry.Join(c.connID, persistentID, msg.DisplayName, msg.GameMaster)
	logf(cfg, "GAMES: Participant %q joined (game master: %t)", p.DisplayName, p.GameMaster)

	h.broadcastRosterLocked()
	h.sendLocked(c, phaseMessage(h.phase, persistentID))
}

func (h *Hub) handleReady(c *Client, msg ClientMessage) {
	if msg.Ready == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.registry.SetReady(c.connID, *msg.Ready) {
		h.broadcastRosterLocked()
	}
}

func (h *Hub) handleProgress(c *Client, msg ClientMessage) {
	if msg.PuzzleIndex == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.registry.UpdateProgress(c.connID, *msg.PuzzleIndex, msg.MoveCount, msg.Score, msg.TimeSeconds) {
		h.broadcastRosterLocked()
	}
}

// handleComplete records a finished puzzle and emits the one-shot completion
// notice after the roster snapshot, so no observer ever sees a notice for a
// participant missing from its latest roster.
func (h *Hub) handleComplete(cfg *Config, c *Client, msg ClientMessage) {
	if msg.PuzzleIndex == nil || msg.CurrentPuzzleIndex == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.registry.RecordCompletion(c.connID,
		msg.CompletedCount, msg.Score, msg.TimeSeconds,
		*msg.CurrentPuzzleIndex, *msg.PuzzleIndex, msg.PuzzleScore)
	if p == nil {
		return
	}

	logf(cfg, "GAMES: Participant %q completed puzzle %d for %d points", p.DisplayName, *msg.PuzzleIndex, msg.PuzzleScore)

	h.broadcastRosterLocked()
	h.broadcastLocked(CompletionMessage{
		Type:            "puzzle_completed",
		PersistentID:    p.PersistentID,
		DisplayName:     p.DisplayName,
		PuzzleIndex:     *msg.PuzzleIndex,
		PuzzleScore:     msg.PuzzleScore,
		CumulativeScore: p.Score,
	})
}

// Phase transitions are game master only. Anything else falls through
// silently: no error to the sender, no state change, no broadcast.
func (h *Hub) handleStart(cfg *Config, c *Client, msg ClientMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.registry.Resolve(c.connID)
	if p == nil || !p.GameMaster {
		return
	}

	if h.phase.Start(msg.TotalPuzzles) {
		logf(cfg, "GAMES: Round started with %d puzzles", h.phase.TotalPuzzles())
		h.broadcastLocked(phaseMessage(h.phase, ""))
	}
}

func (h *Hub) handleEnd(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.registry.Resolve(c.connID)
	if p == nil || !p.GameMaster {
		return
	}

	if h.phase.End() {
		logf(cfg, "GAMES: Round ended")
		h.broadcastLocked(phaseMessage(h.phase, ""))
	}
}

func (h *Hub) handleReset(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// ResetAll performs the authorization check; an unauthorized reset
	// mutates nothing and stays silent.
	if !h.registry.ResetAll(c.connID) {
		return
	}

	h.phase.Reset()
	logf(cfg, "GAMES: Game reset")

	h.broadcastLocked(phaseMessage(h.phase, ""))
	h.broadcastRosterLocked()
}

// closeAll disconnects every client (used during shutdown).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:   conn,
			send:   make(chan any, 64),
			connID: uuid.NewString(),
		}

		h.register <- client

		go client.writePump()
		client.readPump(h)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed payloads are dropped; the connection stays up.
			continue
		}

		switch msg.Type {
		case "join", "ready", "progress", "complete", "start", "end", "reset":
			h.inbound <- inbound{
				client: c,
				msg:    msg,
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// serveBoard deals a freshly shuffled board as JSON. The client uses it to
// lay out each puzzle; the never-solved-on-arrival guarantee lives here.
func serveBoard(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		pieces := cfg.pieces
		if raw := r.URL.Query().Get("pieces"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 2 || n > 1024 {
				http.Error(w, "invalid piece count", http.StatusBadRequest)
				return
			}
			pieces = n
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(Pieces(ShuffleBoard(pieces)))
	}
}

// qrHandler generates a PNG QR code for the game URL, for joining by phone.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at <prefix>/qr; strip the trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")
	if path == "" {
		path = "/"
	}

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// registerGameRoutes sets up the game surface:
//   - <prefix>/        -> HTML client
//   - <prefix>/ws      -> the realtime event channel
//   - <prefix>/board   -> freshly shuffled board JSON
//   - <prefix>/qr      -> PNG QR code of the game URL
func registerGameRoutes(cfg *Config, mux *httprouter.Router, h *Hub) {
	mux.GET(cfg.prefix+"/", serveClientPage())

	mux.GET(cfg.prefix+"/ws", serveWS(h))

	mux.GET(cfg.prefix+"/board", serveBoard(cfg))

	mux.GET(cfg.prefix+"/qr", qrHandler)
}
