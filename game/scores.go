/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Entry is one player's cumulative score.
type Entry struct {
	Nick  string
	Score int
}

// Ledger maps player nicknames (case-sensitive, as delivered by chat) to
// cumulative scores. Entries are never removed during a session; scores
// may go negative through manual correction. The Ledger itself is not
// synchronized — the Engine funnels all mutation through its lock.
type Ledger struct {
	scores map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		scores: make(map[string]int),
	}
}

// Add creates the entry at 0 if absent, then adds delta. Negative deltas
// are allowed and may take a score below zero.
func (l *Ledger) Add(nick string, delta int) {
	l.scores[nick] += delta
}

// Ensure registers nick at 0 if it has never been seen, and leaves an
// existing entry alone.
func (l *Ledger) Ensure(nick string) {
	if _, ok := l.scores[nick]; !ok {
		l.scores[nick] = 0
	}
}

// Get returns nick's score, or 0 for an unknown player.
func (l *Ledger) Get(nick string) int {
	return l.scores[nick]
}

// Set overwrites nick's score, creating the entry if needed. Used when
// restoring a persisted session.
func (l *Ledger) Set(nick string, score int) {
	l.scores[nick] = score
}

// Entries returns the ledger contents in no particular order.
func (l *Ledger) Entries() []Entry {
	entries := make([]Entry, 0, len(l.scores))
	for nick, score := range l.scores {
		entries = append(entries, Entry{Nick: nick, Score: score})
	}

	return entries
}

// Len returns the number of registered players.
func (l *Ledger) Len() int {
	return len(l.scores)
}
