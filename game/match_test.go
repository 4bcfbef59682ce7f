/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTarget(t *testing.T) {
	tests := []struct {
		name        string
		original    string
		wantToGuess string
		wantMaxDist int
	}{
		{name: "long title", original: "Bohemian Rhapsody", wantToGuess: "bohemian rhapsody", wantMaxDist: 3},
		{name: "short artist", original: "Queen", wantToGuess: "queen", wantMaxDist: 1},
		{name: "very short", original: "U2", wantToGuess: "u2", wantMaxDist: 0},
		{name: "qualifier stripped before sizing", original: "Help! - Remastered 2009", wantToGuess: "help", wantMaxDist: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewTarget(tt.original)
			require.Equal(t, tt.original, target.Original)
			require.Equal(t, tt.wantToGuess, target.ToGuess)
			require.Equal(t, tt.wantMaxDist, target.MaxDistance)
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name        string
		proposition string
		target      Target
		want        bool
	}{
		{
			name:        "exact",
			proposition: "queen",
			target:      NewTarget("Queen"),
			want:        true,
		},
		{
			name:        "one typo within tolerance",
			proposition: "bohemian rapsody",
			target:      NewTarget("Bohemian Rhapsody"),
			want:        true,
		},
		{
			name:        "too many typos",
			proposition: "bohemian rhapsody",
			target:      NewTarget("Queen"),
			want:        false,
		},
		{
			name:        "containment within stretch",
			proposition: "the beatles",
			target:      Target{Original: "Beatles", ToGuess: "beatles", MaxDistance: 1},
			want:        true,
		},
		{
			name:        "containment beyond stretch rejected",
			proposition: "i am pretty sure this one is the beatles",
			target:      Target{Original: "Beatles", ToGuess: "beatles", MaxDistance: 1},
			want:        false,
		},
		{
			name:        "empty proposition never matches",
			proposition: "",
			target:      NewTarget("Queen"),
			want:        false,
		},
		{
			name:        "empty target never matches",
			proposition: "queen",
			target:      Target{},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Match(tt.proposition, tt.target))
		})
	}
}

func TestMatchSelf(t *testing.T) {
	// The exact normalized answer always matches itself.
	for _, original := range []string{"Queen", "Bohemian Rhapsody", "Beyoncé", "AC/DC", "Daft Punk"} {
		target := NewTarget(original)
		require.True(t, Match(target.ToGuess, target), "target %q must match itself", original)
	}
}
