/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Seednode/blindtest/game"
	"gopkg.in/yaml.v3"
)

// Track is one playlist entry: where to find the audio, and the answers
// chat has to guess (slot 0 is always the title, then one slot per artist).
type Track struct {
	URI      string   `yaml:"uri"`
	OffsetMs int      `yaml:"offset_ms"`
	Cover    string   `yaml:"cover"`
	Title    string   `yaml:"title"`
	Artists  []string `yaml:"artists"`
}

type playlistFile struct {
	Tracks []Track `yaml:"tracks"`
}

// targets builds the guessable targets for this track, dropping any whose
// cleaned form is empty (an all-punctuation artist name has nothing to
// compare against).
func (t Track) targets() []game.Target {
	targets := make([]game.Target, 0, len(t.Artists)+1)

	title := game.NewTarget(t.Title)
	if title.ToGuess != "" {
		targets = append(targets, title)
	}

	for _, artist := range t.Artists {
		target := game.NewTarget(artist)
		if target.ToGuess != "" {
			targets = append(targets, target)
		}
	}

	return targets
}

func loadPlaylist(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}

	var pl playlistFile
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("parsing playlist: %w", err)
	}

	if len(pl.Tracks) == 0 {
		return nil, errors.New("playlist contains no tracks")
	}

	for i, track := range pl.Tracks {
		if track.URI == "" {
			return nil, fmt.Errorf("playlist track %d has no uri", i+1)
		}
		if len(track.targets()) == 0 {
			return nil, fmt.Errorf("playlist track %d (%s) has nothing guessable", i+1, track.URI)
		}
	}

	return pl.Tracks, nil
}
