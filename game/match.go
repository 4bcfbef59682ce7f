/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// A guess that contains the answer still counts, as long as it doesn't
// ramble more than 60% past the answer's length. Stops "guess everything
// in one message" spam while allowing "the beatles" for "beatles".
const containmentStretch = 1.6

// Match reports whether an already-normalized proposition hits the target,
// either within the target's edit-distance tolerance or by containing the
// answer without exceeding the length guard.
func Match(proposition string, target Target) bool {
	if proposition == "" || target.ToGuess == "" {
		return false
	}

	if edlib.LevenshteinDistance(proposition, target.ToGuess) <= target.MaxDistance {
		return true
	}

	return strings.Contains(proposition, target.ToGuess) &&
		float64(utf8.RuneCountInString(proposition)) <= containmentStretch*float64(utf8.RuneCountInString(target.ToGuess))
}
