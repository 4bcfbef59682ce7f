/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeView(t *testing.T) {
	entries := []Entry{
		{Nick: "C", Score: 5},
		{Nick: "B", Score: 10},
		{Nick: "A", Score: 10},
	}

	rows := ComputeView(entries, "")
	require.Equal(t, []Row{
		{Nick: "A", Score: 10, Rank: 1},
		{Nick: "B", Score: 10},
		{Nick: "C", Score: 5, Rank: 2},
	}, rows)
}

func TestComputeViewFilterRecomputesRanks(t *testing.T) {
	entries := []Entry{
		{Nick: "A", Score: 10},
		{Nick: "B", Score: 10},
		{Nick: "C", Score: 5},
	}

	// Filtering out A leaves B as the first of its score group, so it
	// carries the rank; ranks are relative to the filtered set.
	rows := ComputeView(entries, "b")
	require.Equal(t, []Row{{Nick: "B", Score: 10, Rank: 1}}, rows)

	rows = ComputeView(entries, "c")
	require.Equal(t, []Row{{Nick: "C", Score: 5, Rank: 1}}, rows)
}

func TestComputeViewFilterCaseInsensitive(t *testing.T) {
	entries := []Entry{
		{Nick: "StreamFan", Score: 3},
		{Nick: "someone", Score: 1},
	}

	rows := ComputeView(entries, "fan")
	require.Len(t, rows, 1)
	require.Equal(t, "StreamFan", rows[0].Nick)
}

func TestComputeViewDenseRanks(t *testing.T) {
	entries := []Entry{
		{Nick: "a", Score: 7},
		{Nick: "b", Score: 7},
		{Nick: "c", Score: 7},
		{Nick: "d", Score: 3},
		{Nick: "e", Score: -1},
	}

	rows := ComputeView(entries, "")
	require.Equal(t, 1, rows[0].Rank)
	require.Zero(t, rows[1].Rank)
	require.Zero(t, rows[2].Rank)
	require.Equal(t, 2, rows[3].Rank)
	require.Equal(t, 3, rows[4].Rank)
}

func TestComputeViewEmpty(t *testing.T) {
	require.Empty(t, ComputeView(nil, ""))
	require.Empty(t, ComputeView([]Entry{{Nick: "a", Score: 1}}, "zzz"))
}
