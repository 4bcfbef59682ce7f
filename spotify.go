/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

const spotifyAPIBase = "https://api.spotify.com/v1"

// SpotifyPlayer drives playback on a Spotify Connect device: it only
// sequences rounds (launch at offset, repeat, pause, resume) and never
// fetches track metadata — the playlist file carries that.
type SpotifyPlayer struct {
	cfg    *Config
	client *http.Client
}

func newSpotifyPlayer(ctx context.Context, cfg *Config) *SpotifyPlayer {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.spotifyToken,
		TokenType:   "Bearer",
	})

	return &SpotifyPlayer{
		cfg:    cfg,
		client: oauth2.NewClient(ctx, src),
	}
}

// Play launches uri at the given millisecond offset on the configured
// device.
func (p *SpotifyPlayer) Play(ctx context.Context, uri string, offsetMs int) error {
	body, err := json.Marshal(map[string]any{
		"uris":        []string{uri},
		"position_ms": offsetMs,
	})
	if err != nil {
		return err
	}

	return p.call(ctx, http.MethodPut, "/me/player/play", body)
}

// SetRepeat puts the device in single-track repeat so the song keeps
// looping while chat guesses.
func (p *SpotifyPlayer) SetRepeat(ctx context.Context, on bool) error {
	state := "off"
	if on {
		state = "track"
	}

	return p.call(ctx, http.MethodPut, "/me/player/repeat?state="+state, nil)
}

// Pause pauses playback on the configured device.
func (p *SpotifyPlayer) Pause(ctx context.Context) error {
	return p.call(ctx, http.MethodPut, "/me/player/pause", nil)
}

// Resume resumes playback on the configured device.
func (p *SpotifyPlayer) Resume(ctx context.Context) error {
	return p.call(ctx, http.MethodPut, "/me/player/play", nil)
}

func (p *SpotifyPlayer) call(ctx context.Context, method, path string, body []byte) error {
	endpoint := spotifyAPIBase + path
	if p.cfg.deviceID != "" {
		sep := "?"
		if u, err := url.Parse(endpoint); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		endpoint += sep + "device_id=" + url.QueryEscape(p.cfg.deviceID)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("spotify %s %s: %s", method, path, resp.Status)
	}

	return nil
}
