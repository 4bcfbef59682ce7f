/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "errors"

// ErrEmptyRound is returned when a round is started without any targets.
var ErrEmptyRound = errors.New("round needs at least one target")

// Outcome is the mutable guess state for one target slot. It transitions
// from unguessed to guessed exactly once and never reverts.
type Outcome struct {
	Guessed   bool   `json:"guessed"`
	GuessedBy string `json:"guessed_by,omitempty"`
	Points    int    `json:"points,omitempty"`
}

// Round holds the guessable targets for one playing track (slot 0 is the
// title, the rest are artists) and one outcome per slot.
type Round struct {
	targets  []Target
	outcomes []Outcome
}

// NewRound starts a fresh round over the given targets.
func NewRound(targets []Target) (*Round, error) {
	if len(targets) == 0 {
		return nil, ErrEmptyRound
	}

	ts := make([]Target, len(targets))
	copy(ts, targets)

	return &Round{
		targets:  ts,
		outcomes: make([]Outcome, len(ts)),
	}, nil
}

// Submit normalizes one chat message and tests it against every slot that
// has not been guessed yet. Every slot it hits is marked guessed by nick
// and scored; the indices of newly guessed slots are returned in order.
// A single message may take several slots at once.
func (r *Round) Submit(nick, raw string) []int {
	proposition := Normalize(raw)

	var matched []int

	for i := range r.targets {
		if r.outcomes[i].Guessed {
			continue
		}
		if !Match(proposition, r.targets[i]) {
			continue
		}

		// 1 point for the player's first slot of the round, 2 for every
		// one after that. Checked at award time, so a message taking two
		// slots earns 1 then 2.
		points := 1
		if r.scoredBy(nick) {
			points = 2
		}

		r.outcomes[i] = Outcome{
			Guessed:   true,
			GuessedBy: nick,
			Points:    points,
		}

		matched = append(matched, i)
	}

	return matched
}

func (r *Round) scoredBy(nick string) bool {
	for _, o := range r.outcomes {
		if o.Guessed && o.GuessedBy == nick {
			return true
		}
	}

	return false
}

// Reveal marks every remaining slot as guessed with no guesser, i.e.
// unsolved at reveal. Calling it again changes nothing.
func (r *Round) Reveal() {
	for i := range r.outcomes {
		r.outcomes[i].Guessed = true
	}
}

// Complete reports whether every slot has been guessed.
func (r *Round) Complete() bool {
	for _, o := range r.outcomes {
		if !o.Guessed {
			return false
		}
	}

	return true
}

// Targets returns a copy of the round's targets.
func (r *Round) Targets() []Target {
	ts := make([]Target, len(r.targets))
	copy(ts, r.targets)

	return ts
}

// Outcomes returns a copy of the round's per-slot outcomes.
func (r *Round) Outcomes() []Outcome {
	os := make([]Outcome, len(r.outcomes))
	copy(os, r.outcomes)

	return os
}
