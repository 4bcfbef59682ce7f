/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineRoundAdvanceScenario(t *testing.T) {
	var events []MatchEvent
	engine := NewEngine(false, func(e MatchEvent) {
		events = append(events, e)
	})

	require.NoError(t, engine.StartRound([]Target{
		NewTarget("Bohemian Rhapsody"),
		NewTarget("Queen"),
	}))

	got := engine.Submit("alice", "bohemian rapsody")
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Points)
	require.Equal(t, "Bohemian Rhapsody", got[0].Answer)
	require.Equal(t, 1, engine.Score("alice"))
	require.False(t, engine.RoundComplete())

	got = engine.Submit("alice", "queen")
	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].Points)
	require.Equal(t, 3, engine.Score("alice"))
	require.True(t, engine.RoundComplete())

	require.Len(t, events, 2)
	require.Equal(t, []Entry{{Nick: "alice", Score: 3}}, engine.Entries())
}

func TestEngineSubmitWithoutRound(t *testing.T) {
	engine := NewEngine(false, nil)

	require.Empty(t, engine.Submit("alice", "queen"))
	require.Zero(t, engine.Score("alice"))
	require.False(t, engine.RoundActive())
	require.False(t, engine.RoundComplete())
}

func TestEngineSubmitAfterComplete(t *testing.T) {
	engine := NewEngine(false, nil)
	require.NoError(t, engine.StartRound([]Target{NewTarget("Queen")}))

	require.Len(t, engine.Submit("alice", "queen"), 1)
	require.True(t, engine.RoundComplete())

	require.Empty(t, engine.Submit("bob", "queen"))
	require.Zero(t, engine.Score("bob"))
}

func TestEngineAddEveryUser(t *testing.T) {
	engine := NewEngine(true, nil)

	// No round yet: still registered at 0.
	engine.Submit("lurker", "hello chat")
	require.Equal(t, []Entry{{Nick: "lurker", Score: 0}}, engine.Entries())

	// Registration never resets an existing score.
	require.NoError(t, engine.StartRound([]Target{NewTarget("Queen")}))
	engine.Submit("lurker", "queen")
	require.Equal(t, 1, engine.Score("lurker"))
	engine.Submit("lurker", "nice track")
	require.Equal(t, 1, engine.Score("lurker"))
}

func TestEngineAdjust(t *testing.T) {
	engine := NewEngine(false, nil)

	engine.Adjust("alice", 1)
	engine.Adjust("alice", -3)
	require.Equal(t, -2, engine.Score("alice"))

	// Unknown players read as 0.
	require.Zero(t, engine.Score("bob"))
}

func TestEngineRestore(t *testing.T) {
	engine := NewEngine(false, nil)
	engine.Restore([]Entry{{Nick: "alice", Score: 4}, {Nick: "bob", Score: 2}})

	require.Equal(t, 4, engine.Score("alice"))
	require.Equal(t, []Row{
		{Nick: "alice", Score: 4, Rank: 1},
		{Nick: "bob", Score: 2, Rank: 2},
	}, engine.Leaderboard(""))
}

func TestEngineStartRoundEmpty(t *testing.T) {
	engine := NewEngine(false, nil)
	require.ErrorIs(t, engine.StartRound(nil), ErrEmptyRound)
	require.False(t, engine.RoundActive())
}

func TestEngineStartRoundReplaces(t *testing.T) {
	engine := NewEngine(false, nil)

	require.NoError(t, engine.StartRound([]Target{NewTarget("Queen")}))
	engine.Submit("alice", "queen")

	require.NoError(t, engine.StartRound([]Target{NewTarget("Abba")}))
	require.False(t, engine.RoundComplete())

	// Streak does not carry across rounds.
	got := engine.Submit("alice", "abba")
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Points)
	require.Equal(t, 2, engine.Score("alice"))
}
