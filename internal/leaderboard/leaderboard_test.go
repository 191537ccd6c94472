package leaderboard

import (
	"testing"

	"github.com/casaval/posio/internal/protocol"
)

func intPtr(i int) *int { return &i }

func entries(names ...string) []protocol.LeaderboardEntry {
	out := make([]protocol.LeaderboardEntry, len(names))
	for i, n := range names {
		out[i] = protocol.LeaderboardEntry{PlayerName: n, Score: float64(100 - i)}
	}
	return out
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name string
		in   protocol.LeaderboardUpdate
		want []Row
	}{
		{
			name: "empty snapshot renders nothing",
			in:   protocol.LeaderboardUpdate{},
			want: []Row{},
		},
		{
			name: "unranked player sees plain top ten",
			in:   protocol.LeaderboardUpdate{TopTen: entries("ana", "bob")},
			want: []Row{
				{Position: 1, Name: "ana", Score: 100},
				{Position: 2, Name: "bob", Score: 99},
			},
		},
		{
			name: "player rank overrides colliding top-ten entry",
			in: protocol.LeaderboardUpdate{
				TopTen:      entries("ana", "bob", "cat"),
				PlayerRank:  intPtr(1),
				PlayerScore: 42,
			},
			want: []Row{
				{Position: 1, Name: "ana", Score: 100},
				{Position: 2, Name: "You", Score: 42, Self: true},
				{Position: 3, Name: "cat", Score: 98},
			},
		},
		{
			name: "player ranked below the visible entries",
			in: protocol.LeaderboardUpdate{
				TopTen:      entries("ana"),
				PlayerRank:  intPtr(7),
				PlayerScore: 3,
			},
			want: []Row{
				{Position: 1, Name: "ana", Score: 100},
				{Position: 8, Name: "You", Score: 3, Self: true},
			},
		},
		{
			name: "player ranked outside the top ten renders no self row",
			in: protocol.LeaderboardUpdate{
				TopTen:      entries("ana"),
				PlayerRank:  intPtr(25),
				PlayerScore: 3,
			},
			want: []Row{
				{Position: 1, Name: "ana", Score: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReduceCapsAtTenRows(t *testing.T) {
	in := protocol.LeaderboardUpdate{
		TopTen: entries("a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"),
	}
	got := Reduce(in)
	if len(got) != 10 {
		t.Fatalf("got %d rows, want 10", len(got))
	}
}

func TestReduceReplacesPreviousSnapshot(t *testing.T) {
	first := Reduce(protocol.LeaderboardUpdate{TopTen: entries("ana", "bob", "cat")})
	second := Reduce(protocol.LeaderboardUpdate{TopTen: entries("zoe")})
	if len(first) != 3 || len(second) != 1 {
		t.Fatalf("snapshots should not merge: first=%d second=%d", len(first), len(second))
	}
	if second[0].Name != "zoe" {
		t.Errorf("second snapshot row = %+v", second[0])
	}
}
