/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"path/filepath"
	"testing"

	"github.com/Seednode/blindtest/game"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blindtest.sqlite3")

	store, err := openStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SaveScores([]game.Entry{
		{Nick: "alice", Score: 3},
		{Nick: "bob", Score: -1},
	}))
	require.NoError(t, store.SaveProgress(7))
	require.NoError(t, store.Close())

	// Reopen to make sure everything actually hit disk.
	store, err = openStore(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.LoadScores()
	require.NoError(t, err)
	require.ElementsMatch(t, []game.Entry{
		{Nick: "alice", Score: 3},
		{Nick: "bob", Score: -1},
	}, entries)

	done, err := store.LoadProgress()
	require.NoError(t, err)
	require.Equal(t, 7, done)
}

func TestStoreUpsert(t *testing.T) {
	store, err := openStore(filepath.Join(t.TempDir(), "blindtest.sqlite3"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveScores([]game.Entry{{Nick: "alice", Score: 1}}))
	require.NoError(t, store.SaveScores([]game.Entry{{Nick: "alice", Score: 5}}))

	entries, err := store.LoadScores()
	require.NoError(t, err)
	require.Equal(t, []game.Entry{{Nick: "alice", Score: 5}}, entries)
}

func TestStoreEmpty(t *testing.T) {
	store, err := openStore(filepath.Join(t.TempDir(), "blindtest.sqlite3"))
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.LoadScores()
	require.NoError(t, err)
	require.Empty(t, entries)

	done, err := store.LoadProgress()
	require.NoError(t, err)
	require.Zero(t, done)

	// Saving an empty snapshot is a no-op, not an error.
	require.NoError(t, store.SaveScores(nil))
}
