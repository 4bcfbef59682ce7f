/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import "unicode/utf8"

// Target is a single expected answer for a round: the title or one artist.
// Immutable once the round starts.
type Target struct {
	// Original is the human-displayed form, accents and all.
	Original string

	// ToGuess is the cleaned, normalized form used for comparison.
	ToGuess string

	// MaxDistance is the edit distance tolerated for a match, scaled to
	// the length of the answer: longer answers forgive more typos.
	MaxDistance int
}

// NewTarget builds a Target from a displayed answer.
func NewTarget(original string) Target {
	cleaned := CleanAnswer(original)

	return Target{
		Original:    original,
		ToGuess:     cleaned,
		MaxDistance: utf8.RuneCountInString(cleaned) / 5,
	}
}
