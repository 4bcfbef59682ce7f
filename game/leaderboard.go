/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is one leaderboard line. Rank is set only on the first row of each
// distinct-score group (dense ranking), so tied players visibly share it;
// 0 means "same as the row above".
type Row struct {
	Nick  string `json:"nick"`
	Score int    `json:"score"`
	Rank  int    `json:"rank,omitempty"`
}

// ComputeView derives the displayed leaderboard from ledger entries:
// collated by nick, then stable-sorted by score descending so ties stay
// alphabetical, then optionally filtered by a case-insensitive nick
// substring. Ranks are dense and computed against the filtered rows, so
// applying a filter renumbers what remains.
func ComputeView(entries []Entry, filter string) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{Nick: e.Nick, Score: e.Score})
	}

	c := collate.New(language.Und)
	sort.Slice(rows, func(i, j int) bool {
		return c.CompareString(rows[i].Nick, rows[j].Nick) < 0
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	if filter != "" {
		needle := strings.ToLower(filter)
		kept := rows[:0]
		for _, row := range rows {
			if strings.Contains(strings.ToLower(row.Nick), needle) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	distinct := 0
	for i := range rows {
		if i == 0 || rows[i].Score != rows[i-1].Score {
			distinct++
			rows[i].Rank = distinct
		}
	}

	return rows
}
