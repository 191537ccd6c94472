// Package leaderboard reduces standings snapshots into renderable rows.
package leaderboard

import "github.com/casaval/posio/internal/protocol"

// maxRows is the number of positions shown, matching the server's top ten.
const maxRows = 10

// Row is one rendered leaderboard line. Position is 1-based.
type Row struct {
	Position int
	Name     string
	Score    float64
	Self     bool
}

// View receives the full replacement row set on every snapshot.
type View interface {
	SetRows(rows []Row)
}

// Reduce turns a snapshot into its row set. For each index in [0,10) the
// player's own row wins over a colliding top-ten entry; indexes with no data
// render nothing. The result fully replaces the previous rows.
func Reduce(u protocol.LeaderboardUpdate) []Row {
	rows := make([]Row, 0, maxRows)
	for i := 0; i < maxRows; i++ {
		switch {
		case u.PlayerRank != nil && *u.PlayerRank == i:
			rows = append(rows, Row{Position: i + 1, Name: "You", Score: u.PlayerScore, Self: true})
		case i < len(u.TopTen):
			rows = append(rows, Row{Position: i + 1, Name: u.TopTen[i].PlayerName, Score: u.TopTen[i].Score})
		}
	}
	return rows
}
