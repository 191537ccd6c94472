// Package protocol defines the wire contract shared by the client and the
// game server: event names and their JSON payloads. Every websocket frame is
// one Envelope.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Server -> client events.
const (
	EventNewTurn           = "new_turn"
	EventLeaderboardUpdate = "leaderboard_update"
	EventPlayerResults     = "player_results"
	EventEndOfTurn         = "end_of_turn"
)

// Client -> server events.
const (
	EventJoinGame = "join_game"
	EventAnswer   = "answer"
)

// Envelope is the framing for every event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode builds a single wire frame for the given event and payload.
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", event, err)
	}
	return frame, nil
}

// Decode parses a wire frame into its envelope. The payload stays raw so the
// dispatcher can pick the concrete type by event name.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decoding envelope: missing event name")
	}
	return env, nil
}

// Unmarshal decodes the envelope payload into v.
func (e Envelope) Unmarshal(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Event, err)
	}
	return nil
}

// NewTurn announces the next location to find. The answer window length is
// not part of the payload; clients read it from configuration.
type NewTurn struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// LeaderboardEntry is one row of the top-ten standings.
type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	Score      float64 `json:"score"`
}

// LeaderboardUpdate is a complete replacement snapshot of the standings.
// PlayerRank is nil when the player is unranked.
type LeaderboardUpdate struct {
	TopTen      []LeaderboardEntry `json:"top_ten"`
	PlayerRank  *int               `json:"player_rank"`
	PlayerScore float64            `json:"player_score"`
}

// PlayerResults carries the server-scored outcome of the player's own answer.
type PlayerResults struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance float64 `json:"distance"` // km
	Score    int     `json:"score"`
	Rank     int     `json:"rank"`
	Total    int     `json:"total"`
}

// CorrectAnswer is the location that was to be found.
type CorrectAnswer struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// BestAnswer is the closest answer any player gave this turn.
type BestAnswer struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance float64 `json:"distance"` // km
}

// EndOfTurn reveals the turn's outcome. BestAnswer is absent when nobody
// answered.
type EndOfTurn struct {
	CorrectAnswer CorrectAnswer `json:"correct_answer"`
	BestAnswer    *BestAnswer   `json:"best_answer,omitempty"`
}

// JoinGame is sent exactly once after the player name is known.
type JoinGame struct {
	GameID     string `json:"game_id"`
	PlayerName string `json:"player_name"`
}

// Answer is the player's coordinate guess, at most one per turn.
type Answer struct {
	GameID string  `json:"game_id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}
