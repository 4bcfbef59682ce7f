/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const twitchChatURL = "wss://irc-ws.chat.twitch.tv:443"

// TwitchChat is the chat message source: Twitch IRC over a websocket.
// Without a token it connects read-only as an anonymous justinfan user;
// with one it can also speak (guess announcements).
type TwitchChat struct {
	cfg       *Config
	onMessage func(nick, text string)

	mu   sync.Mutex
	conn *websocket.Conn
}

func newTwitchChat(cfg *Config, onMessage func(nick, text string)) *TwitchChat {
	return &TwitchChat{
		cfg:       cfg,
		onMessage: onMessage,
	}
}

// Connect keeps a chat connection to the configured channel alive until
// ctx is cancelled, reconnecting with backoff on failure.
func (t *TwitchChat) Connect(ctx context.Context) {
	go func() {
		backoff := time.Second

		for {
			if ctx.Err() != nil {
				return
			}

			start := time.Now()
			if err := t.session(ctx); err != nil && ctx.Err() == nil {
				logf(t.cfg, "CHAT: Connection to #%s lost: %v", t.cfg.twitchChannel, err)
			}

			// A connection that held for a while earns a fresh backoff.
			if time.Since(start) > time.Minute {
				backoff = time.Second
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}

			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}()
}

func (t *TwitchChat) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, twitchChatURL, nil)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.conn = nil
		t.mu.Unlock()
		_ = conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	nick := anonymousNick()
	if t.cfg.twitchToken != "" {
		nick = t.cfg.twitchChannel
		if err := t.write("PASS oauth:" + strings.TrimPrefix(t.cfg.twitchToken, "oauth:")); err != nil {
			return err
		}
	}

	for _, line := range []string{
		"CAP REQ :twitch.tv/tags",
		"NICK " + nick,
		"JOIN #" + t.cfg.twitchChannel,
	} {
		if err := t.write(line); err != nil {
			return err
		}
	}

	logf(t.cfg, "CHAT: Joined #%s as %s", t.cfg.twitchChannel, nick)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		for _, line := range strings.Split(string(data), "\r\n") {
			t.handleLine(line)
		}
	}
}

func (t *TwitchChat) handleLine(line string) {
	if line == "" {
		return
	}

	if strings.HasPrefix(line, "PING") {
		_ = t.write(strings.Replace(line, "PING", "PONG", 1))
		return
	}

	nick, text, ok := parsePrivmsg(line)
	if ok && t.onMessage != nil {
		t.onMessage(nick, text)
	}
}

func (t *TwitchChat) write(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return errors.New("chat not connected")
	}

	return t.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Say sends a message to the configured channel. Best-effort: a dropped
// connection loses the announcement, not the game state.
func (t *TwitchChat) Say(text string) {
	if err := t.write("PRIVMSG #" + t.cfg.twitchChannel + " :" + text); err != nil {
		logf(t.cfg, "CHAT: Dropped announcement: %v", err)
	}
}

// parsePrivmsg extracts the sender and message text from a raw IRC line.
// The display-name tag is preferred for the sender; the prefix login name
// is the fallback.
func parsePrivmsg(line string) (nick, text string, ok bool) {
	rest := line

	var displayName string
	if strings.HasPrefix(rest, "@") {
		sp := strings.Index(rest, " ")
		if sp < 0 {
			return "", "", false
		}
		for _, kv := range strings.Split(rest[1:sp], ";") {
			if k, v, found := strings.Cut(kv, "="); found && k == "display-name" {
				displayName = v
			}
		}
		rest = rest[sp+1:]
	}

	var prefix string
	if strings.HasPrefix(rest, ":") {
		sp := strings.Index(rest, " ")
		if sp < 0 {
			return "", "", false
		}
		prefix = rest[1:sp]
		rest = rest[sp+1:]
	}

	command, params, _ := strings.Cut(rest, " ")
	if command != "PRIVMSG" {
		return "", "", false
	}

	_, msg, found := strings.Cut(params, " :")
	if !found {
		return "", "", false
	}

	nick = displayName
	if nick == "" {
		nick, _, _ = strings.Cut(prefix, "!")
	}

	return nick, msg, nick != ""
}

func anonymousNick() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "justinfan12345"
	}

	return fmt.Sprintf("justinfan%05d", binary.BigEndian.Uint32(buf[:])%100000)
}
