/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRoundEmpty(t *testing.T) {
	_, err := NewRound(nil)
	require.ErrorIs(t, err, ErrEmptyRound)
}

func TestRoundSubmitStreak(t *testing.T) {
	round, err := NewRound([]Target{
		NewTarget("Bohemian Rhapsody"),
		NewTarget("Queen"),
	})
	require.NoError(t, err)

	// First correct guess of the round: 1 point, one-character drop is
	// within tolerance.
	matched := round.Submit("alice", "bohemian rapsody")
	require.Equal(t, []int{0}, matched)
	require.Equal(t, Outcome{Guessed: true, GuessedBy: "alice", Points: 1}, round.Outcomes()[0])
	require.False(t, round.Complete())

	// Second correct guess by the same player in the same round: streak
	// rate of 2.
	matched = round.Submit("alice", "queen")
	require.Equal(t, []int{1}, matched)
	require.Equal(t, Outcome{Guessed: true, GuessedBy: "alice", Points: 2}, round.Outcomes()[1])
	require.True(t, round.Complete())
}

func TestRoundStreakResetsPerRound(t *testing.T) {
	round, err := NewRound([]Target{NewTarget("Queen")})
	require.NoError(t, err)
	require.Equal(t, []int{0}, round.Submit("alice", "queen"))
	require.Equal(t, 1, round.Outcomes()[0].Points)

	// A new round forgets the streak.
	round, err = NewRound([]Target{NewTarget("Queen")})
	require.NoError(t, err)
	require.Equal(t, []int{0}, round.Submit("alice", "queen"))
	require.Equal(t, 1, round.Outcomes()[0].Points)
}

func TestRoundMultiSlotMessage(t *testing.T) {
	// Self-titled track: the title and the artist slot share an answer.
	round, err := NewRound([]Target{
		NewTarget("Iron Maiden"),
		NewTarget("Iron Maiden"),
	})
	require.NoError(t, err)

	// One message may take several slots; each scores independently, and
	// the second award already sees the first, so it gets the streak rate.
	matched := round.Submit("carol", "iron maiden")
	require.Equal(t, []int{0, 1}, matched)

	outcomes := round.Outcomes()
	require.Equal(t, 1, outcomes[0].Points)
	require.Equal(t, 2, outcomes[1].Points)
}

func TestRoundGuessedSlotsStay(t *testing.T) {
	round, err := NewRound([]Target{NewTarget("Queen")})
	require.NoError(t, err)

	require.Equal(t, []int{0}, round.Submit("alice", "queen"))

	// A later matching guess cannot take an already-guessed slot.
	require.Empty(t, round.Submit("bob", "queen"))
	require.Equal(t, "alice", round.Outcomes()[0].GuessedBy)
}

func TestRoundReveal(t *testing.T) {
	round, err := NewRound([]Target{
		NewTarget("Bohemian Rhapsody"),
		NewTarget("Queen"),
		NewTarget("Freddie Mercury"),
	})
	require.NoError(t, err)

	round.Reveal()

	outcomes := round.Outcomes()
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		require.True(t, o.Guessed)
		require.Empty(t, o.GuessedBy)
		require.Zero(t, o.Points)
	}
	require.True(t, round.Complete())

	// Idempotent.
	round.Reveal()
	require.Equal(t, outcomes, round.Outcomes())

	// Fully guessed rounds ignore further propositions.
	require.Empty(t, round.Submit("alice", "queen"))
}

func TestRoundRevealKeepsGuessers(t *testing.T) {
	round, err := NewRound([]Target{
		NewTarget("Bohemian Rhapsody"),
		NewTarget("Queen"),
	})
	require.NoError(t, err)

	require.Equal(t, []int{1}, round.Submit("alice", "queen"))
	round.Reveal()

	outcomes := round.Outcomes()
	require.Equal(t, Outcome{Guessed: true}, outcomes[0])
	require.Equal(t, Outcome{Guessed: true, GuessedBy: "alice", Points: 1}, outcomes[1])
}
