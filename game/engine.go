/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "sync"

// MatchEvent describes one slot being correctly guessed.
type MatchEvent struct {
	Slot   int
	Nick   string
	Answer string
	Points int
}

// Engine ties the round tracker and the score ledger together behind a
// single lock. Chat propositions, round lifecycle and score adjustments
// all mutate through it, one at a time; outcome transitions are one-shot,
// so concurrent writers could double-award a slot. Reads hand out copies.
type Engine struct {
	mu           sync.Mutex
	round        *Round
	ledger       *Ledger
	addEveryUser bool
	onMatch      func(MatchEvent)
}

// NewEngine returns an engine with an empty ledger and no active round.
// When addEveryUser is set, every chatter who submits anything is
// registered at 0 points. onMatch, if non-nil, is called once per
// correctly guessed slot, outside the engine lock.
func NewEngine(addEveryUser bool, onMatch func(MatchEvent)) *Engine {
	return &Engine{
		ledger:       NewLedger(),
		addEveryUser: addEveryUser,
		onMatch:      onMatch,
	}
}

// StartRound replaces the current round wholesale.
func (e *Engine) StartRound(targets []Target) error {
	round, err := NewRound(targets)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.round = round
	e.mu.Unlock()

	return nil
}

// Submit applies one chat message as a guess attempt. Submitting with no
// active round is a silent no-op. Every matched slot awards its points to
// nick and produces a MatchEvent.
func (e *Engine) Submit(nick, raw string) []MatchEvent {
	events := e.apply(nick, raw)

	if e.onMatch != nil {
		for _, event := range events {
			e.onMatch(event)
		}
	}

	return events
}

func (e *Engine) apply(nick, raw string) []MatchEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.addEveryUser {
		e.ledger.Ensure(nick)
	}

	if e.round == nil {
		return nil
	}

	var events []MatchEvent

	for _, slot := range e.round.Submit(nick, raw) {
		outcome := e.round.outcomes[slot]
		e.ledger.Add(nick, outcome.Points)

		events = append(events, MatchEvent{
			Slot:   slot,
			Nick:   nick,
			Answer: e.round.targets[slot].Original,
			Points: outcome.Points,
		})
	}

	return events
}

// Reveal force-completes every remaining slot of the active round.
// Idempotent; a no-op with no round.
func (e *Engine) Reveal() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round != nil {
		e.round.Reveal()
	}
}

// RoundComplete reports whether a round is active and fully guessed.
func (e *Engine) RoundComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.round != nil && e.round.Complete()
}

// RoundActive reports whether a round has been started.
func (e *Engine) RoundActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.round != nil
}

// Targets returns the active round's targets, or nil.
func (e *Engine) Targets() []Target {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round == nil {
		return nil
	}

	return e.round.Targets()
}

// Outcomes returns the active round's per-slot outcomes, or nil.
func (e *Engine) Outcomes() []Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round == nil {
		return nil
	}

	return e.round.Outcomes()
}

// Adjust adds delta to nick's score; delta may be negative and scores may
// go below zero (manual moderation).
func (e *Engine) Adjust(nick string, delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger.Add(nick, delta)
}

// Score returns nick's score, 0 if unknown.
func (e *Engine) Score(nick string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Get(nick)
}

// Entries snapshots the ledger for serialization or display.
func (e *Engine) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Entries()
}

// Restore seeds the ledger from persisted entries.
func (e *Engine) Restore(entries []Entry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range entries {
		e.ledger.Set(entry.Nick, entry.Score)
	}
}

// Leaderboard derives the ranked, optionally filtered view from a
// consistent snapshot of the ledger.
func (e *Engine) Leaderboard(filter string) []Row {
	return ComputeView(e.Entries(), filter)
}
