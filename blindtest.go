// Blindtest Music Game
//
// A track plays on the streamer's Spotify; Twitch chat guesses the title
// and the artists in free text. Guesses are matched with edit-distance
// tolerance, scored, and ranked on a live leaderboard.
//
// Features:
// - Streamer dashboard at /blindtest with a live WebSocket feed
// - First connection to the dashboard becomes moderator (cookie-based)
// - Moderator controls: NEXT / PAUSE / RESUME / REVEAL, score +/- buttons
// - Twitch chat joined over IRC-over-WebSocket, anonymous or with a token
// - Optional chat announcements for correct guesses
// - One point for a player's first correct slot per round, two after that
// - Leaderboard with per-viewer nick filter, dense ranks, 70-row display cap
// - Scores and playlist progress persisted to sqlite across restarts
// - In-browser QR button to open the dashboard elsewhere, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/blindtest/game"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Dashboard rows beyond this are summarized as "+K more players".
const displayedUserLimit = 70

// Messages coming from dashboard clients
type ClientMessage struct {
	Type   string `json:"type"`             // "next", "pause", "resume", "reveal", "adjust", "filter"
	Filter string `json:"filter,omitempty"` // filter
	Nick   string `json:"nick,omitempty"`   // adjust
	Delta  int    `json:"delta,omitempty"`  // adjust
}

// SessionInfoMessage is sent immediately on connect so the client knows
// whether this cookie holds the moderator controls.
type SessionInfoMessage struct {
	Type        string `json:"type"` // "session_info"
	IsModerator bool   `json:"is_moderator"`
}

// GuessView is one target slot as shown to viewers: the answer text stays
// hidden until the slot is guessed or revealed.
type GuessView struct {
	Guessed   bool   `json:"guessed"`
	Answer    string `json:"answer,omitempty"`
	GuessedBy string `json:"guessed_by,omitempty"`
	Points    int    `json:"points,omitempty"`
}

// GameStateMessage broadcasts the full round view.
type GameStateMessage struct {
	Type        string      `json:"type"` // "game_state"
	Playing     bool        `json:"playing"`
	Paused      bool        `json:"paused"`
	DoneTracks  int         `json:"done_tracks"`
	TotalTracks int         `json:"total_tracks"`
	Finished    bool        `json:"finished"`
	AllGuessed  bool        `json:"all_guessed"`
	Cover       string      `json:"cover,omitempty"` // only once fully guessed
	Guesses     []GuessView `json:"guesses,omitempty"`
}

// LeaderboardMessage is per-client: rows honor that viewer's nick filter.
type LeaderboardMessage struct {
	Type  string     `json:"type"` // "leaderboard"
	Rows  []game.Row `json:"rows"`
	Total int        `json:"total"` // pre-cap row count, for "+K more"
}

// SimpleMessage is for generic notifications ("play_error", etc.)
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
	filter   string
}

type command struct {
	client *Client
	msg    ClientMessage
}

type proposition struct {
	nick string
	text string
}

type Hub struct {
	cfg *Config

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	commands chan command
	props    chan proposition

	mu sync.RWMutex

	moderatorPlayerID string // cookie/playerID of the streamer's dashboard

	engine *game.Engine
	store  *Store
	chat   *TwitchChat
	player *SpotifyPlayer

	tracks     []Track
	doneTracks int
	playing    bool
	paused     bool
}

func newHub(cfg *Config, tracks []Track, store *Store) *Hub {
	return &Hub{
		cfg:      cfg,
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		commands: make(chan command),
		props:    make(chan proposition),
		store:    store,
		tracks:   tracks,
	}
}

func (h *Hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.mu.Lock()

			// First connection becomes moderator
			if h.moderatorPlayerID == "" {
				h.moderatorPlayerID = c.playerID
				logf(h.cfg, "GAMES: Dashboard moderator assigned")
			}
			isModerator := (h.moderatorPlayerID == c.playerID)

			h.clients[c] = true

			c.send <- SessionInfoMessage{
				Type:        "session_info",
				IsModerator: isModerator,
			}
			c.send <- h.gameStateLocked()
			c.send <- h.leaderboardFor(c)

			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case cmd := <-h.commands:
			h.handleCommand(ctx, cmd)

		case p := <-h.props:
			h.handleProposition(p)
		}
	}
}

// handleProposition runs one chat message through the engine and pushes
// updated views when anything changed. Propositions are applied strictly
// in arrival order; the engine's lock makes each one atomic.
func (h *Hub) handleProposition(p proposition) {
	players := 0
	if h.cfg.addEveryUser {
		players = len(h.engine.Entries())
	}

	events := h.engine.Submit(p.nick, p.text)

	if len(events) > 0 {
		for _, event := range events {
			logf(h.cfg, "GAMES: %q correctly guessed %q (+%d)", event.Nick, event.Answer, event.Points)
		}
		h.persistScores()
	}

	registered := h.cfg.addEveryUser && len(h.engine.Entries()) != players

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(events) > 0 {
		h.broadcastGameStateLocked()
	}
	if len(events) > 0 || registered {
		h.broadcastLeaderboardsLocked()
	}
}

// announce is the engine's match callback: best-effort chat notification.
func (h *Hub) announce(event game.MatchEvent) {
	if !h.cfg.chatNotifications || h.chat == nil {
		return
	}

	h.chat.Say(fmt.Sprintf("✅ %s correctly guessed [%s] +%d", event.Nick, event.Answer, event.Points))
}

// handleCommand processes dashboard commands. Everything except the
// per-viewer leaderboard filter is moderator-only.
func (h *Hub) handleCommand(ctx context.Context, cmd command) {
	c := cmd.client
	msg := cmd.msg

	if msg.Type == "filter" {
		h.mu.Lock()
		c.filter = strings.ToLower(msg.Filter)
		h.sendLocked(c, h.leaderboardFor(c))
		h.mu.Unlock()
		return
	}

	h.mu.RLock()
	isModerator := (h.moderatorPlayerID != "" && c.playerID == h.moderatorPlayerID)
	h.mu.RUnlock()
	if !isModerator {
		return
	}

	switch msg.Type {
	case "next":
		h.handleNext(ctx, c)

	case "pause":
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		err := h.player.Pause(callCtx)
		cancel()
		if err != nil {
			logf(h.cfg, "PLAYER: Pause failed: %v", err)
			return
		}

		h.mu.Lock()
		h.paused = true
		h.broadcastGameStateLocked()
		h.mu.Unlock()

	case "resume":
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		err := h.player.Resume(callCtx)
		cancel()
		if err != nil {
			logf(h.cfg, "PLAYER: Resume failed: %v", err)
			return
		}

		h.mu.Lock()
		h.paused = false
		h.broadcastGameStateLocked()
		h.mu.Unlock()

	case "reveal":
		h.persistScores()
		h.persistProgress()
		h.engine.Reveal()

		h.mu.Lock()
		h.broadcastGameStateLocked()
		h.mu.Unlock()

	case "adjust":
		if msg.Nick == "" || msg.Delta == 0 {
			return
		}
		h.engine.Adjust(msg.Nick, msg.Delta)
		h.persistScores()

		h.mu.Lock()
		h.broadcastLeaderboardsLocked()
		h.mu.Unlock()
	}
}

// handleNext backs up state, launches the next track, and starts its
// round. Playback failures leave the game state untouched.
func (h *Hub) handleNext(ctx context.Context, c *Client) {
	h.mu.RLock()
	done := h.doneTracks
	h.mu.RUnlock()

	if done >= len(h.tracks) {
		return
	}

	h.persistScores()
	h.persistProgress()

	track := h.tracks[done]

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := h.player.Play(callCtx, track.URI, track.OffsetMs); err != nil {
		logf(h.cfg, "PLAYER: Launching %s failed: %v", track.URI, err)

		h.mu.Lock()
		h.sendLocked(c, SimpleMessage{
			Type:    "play_error",
			Message: "Could not start playback. Check the Spotify device and token.",
		})
		h.mu.Unlock()
		return
	}

	if err := h.player.SetRepeat(callCtx, true); err != nil {
		logf(h.cfg, "PLAYER: Repeat mode failed: %v", err)
	}

	if err := h.engine.StartRound(track.targets()); err != nil {
		// Playlist validation keeps this unreachable.
		log.Printf("unplayable track %s: %v", track.URI, err)
		return
	}

	h.mu.Lock()
	h.doneTracks++
	h.playing = true
	h.paused = false
	h.broadcastGameStateLocked()
	h.mu.Unlock()

	h.persistProgress()

	logf(h.cfg, "GAMES: Track %d/%d started (%s)", done+1, len(h.tracks), track.URI)
}

func (h *Hub) persistScores() {
	if err := h.store.SaveScores(h.engine.Entries()); err != nil {
		log.Printf("saving scores: %v", err)
	}
}

func (h *Hub) persistProgress() {
	h.mu.RLock()
	done := h.doneTracks
	h.mu.RUnlock()

	if err := h.store.SaveProgress(done); err != nil {
		log.Printf("saving progress: %v", err)
	}
}

// gameStateLocked assumes h.mu is held.
func (h *Hub) gameStateLocked() GameStateMessage {
	msg := GameStateMessage{
		Type:        "game_state",
		Playing:     h.playing,
		Paused:      h.paused,
		DoneTracks:  h.doneTracks,
		TotalTracks: len(h.tracks),
		Finished:    h.doneTracks >= len(h.tracks),
	}

	if !h.playing {
		return msg
	}

	targets := h.engine.Targets()
	outcomes := h.engine.Outcomes()

	msg.AllGuessed = h.engine.RoundComplete()
	if msg.AllGuessed && h.doneTracks > 0 {
		msg.Cover = h.tracks[h.doneTracks-1].Cover
	}

	msg.Guesses = make([]GuessView, len(outcomes))
	for i, outcome := range outcomes {
		if !outcome.Guessed {
			continue
		}
		msg.Guesses[i] = GuessView{
			Guessed:   true,
			Answer:    targets[i].Original,
			GuessedBy: outcome.GuessedBy,
			Points:    outcome.Points,
		}
	}

	return msg
}

func (h *Hub) leaderboardFor(c *Client) LeaderboardMessage {
	rows := h.engine.Leaderboard(c.filter)

	total := len(rows)
	if total > displayedUserLimit {
		rows = rows[:displayedUserLimit]
	}

	return LeaderboardMessage{
		Type:  "leaderboard",
		Rows:  rows,
		Total: total,
	}
}

// sendLocked assumes h.mu is held; slow clients are dropped.
func (h *Hub) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcastGameStateLocked assumes h.mu is held.
func (h *Hub) broadcastGameStateLocked() {
	msg := h.gameStateLocked()

	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

// broadcastLeaderboardsLocked assumes h.mu is held. Leaderboards are
// per-client because every viewer has their own filter.
func (h *Hub) broadcastLeaderboardsLocked() {
	for client := range h.clients {
		h.sendLocked(client, h.leaderboardFor(client))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "blindtest_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func serveWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		hub.register <- client

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "next", "pause", "resume", "reveal", "adjust", "filter":
			h.commands <- command{
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

// QR handler: generates a PNG QR code for the dashboard URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /blindtest/qr; strip the trailing "/qr" to get the page URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

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

// ---- Static file paths ----

//go:embed blindtest/index.html
var indexHTML []byte

//go:embed blindtest/app.css
var blindtestCSS []byte

//go:embed blindtest/app.js
var blindtestJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(blindtestCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(blindtestJS)
	}
}

// registerBlindTest wires storage, the guess engine, the chat source, the
// playback client and the dashboard routes:
//   - $path        → dashboard (HTML)
//   - $path/ws     → dashboard WebSocket
//   - $path/qr     → PNG QR code for the dashboard URL
func registerBlindTest(ctx context.Context, cfg *Config, path string, mux *httprouter.Router) error {
	tracks, err := loadPlaylist(cfg.playlist)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.database)
	if err != nil {
		return err
	}

	entries, err := store.LoadScores()
	if err != nil {
		return err
	}

	doneTracks, err := store.LoadProgress()
	if err != nil {
		return err
	}
	if doneTracks > len(tracks) {
		doneTracks = len(tracks)
	}

	hub := newHub(cfg, tracks, store)
	hub.doneTracks = doneTracks

	hub.engine = game.NewEngine(cfg.addEveryUser, hub.announce)
	hub.engine.Restore(entries)

	hub.player = newSpotifyPlayer(ctx, cfg)

	hub.chat = newTwitchChat(cfg, func(nick, text string) {
		select {
		case hub.props <- proposition{nick: nick, text: text}:
		case <-ctx.Done():
		}
	})
	hub.chat.Connect(ctx)

	go hub.run(ctx)
	go func() {
		<-ctx.Done()
		_ = store.Close()
	}()

	logf(cfg, "GAMES: Loaded %d tracks, %d already played, %d known players",
		len(tracks), doneTracks, len(entries))

	mux.GET(cfg.prefix+path, getIndexHandler(cfg))

	mux.GET(cfg.prefix+"/assets/blindtest/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/blindtest/app.js", getJsHandler(cfg))

	mux.GET(cfg.prefix+path+"/ws", serveWS(hub))

	mux.GET(cfg.prefix+path+"/qr", qrHandler)

	return nil
}
