// Package session owns the join handshake and the single event goroutine
// that feeds the turn machine and leaderboard view.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/casaval/posio/internal/channel"
	"github.com/casaval/posio/internal/leaderboard"
	"github.com/casaval/posio/internal/protocol"
	"github.com/casaval/posio/internal/turn"
	"github.com/casaval/posio/internal/ui"
)

// Session is the coordinator: identity, join handshake, event dispatch. It is
// constructed once per process; there is no leave or rejoin.
type Session struct {
	logger     *slog.Logger
	ch         channel.Channel
	machine    *turn.Machine
	lbView     leaderboard.View
	surface    ui.MarkerSurface
	gameID     string
	playerName string

	joined   bool
	handlers map[string]func(json.RawMessage)
}

func New(logger *slog.Logger, ch channel.Channel, machine *turn.Machine, lbView leaderboard.View, surface ui.MarkerSurface, gameID, playerName string) *Session {
	s := &Session{
		logger:     logger,
		ch:         ch,
		machine:    machine,
		lbView:     lbView,
		surface:    surface,
		gameID:     gameID,
		playerName: playerName,
	}
	// One stable subscription table, installed at construction and never
	// re-attached per turn.
	s.handlers = map[string]func(json.RawMessage){
		protocol.EventNewTurn: dispatchTo(s, s.machine.HandleNewTurn),
		protocol.EventLeaderboardUpdate: dispatchTo(s, func(u protocol.LeaderboardUpdate) {
			s.lbView.SetRows(leaderboard.Reduce(u))
		}),
		protocol.EventPlayerResults: dispatchTo(s, s.machine.HandlePlayerResults),
		protocol.EventEndOfTurn:     dispatchTo(s, s.machine.HandleEndOfTurn),
	}
	return s
}

// dispatchTo adapts a typed handler into a raw-payload one. Malformed
// payloads are logged and dropped, never fatal.
func dispatchTo[T any](s *Session, handle func(T)) func(json.RawMessage) {
	return func(data json.RawMessage) {
		var payload T
		if err := json.Unmarshal(data, &payload); err != nil {
			s.logger.Warn("dropping malformed payload", "error", err)
			return
		}
		handle(payload)
	}
}

// Join transmits the join_game handshake. It happens at most once per
// session; later calls are no-ops.
func (s *Session) Join(ctx context.Context) error {
	if s.joined {
		return nil
	}
	err := s.ch.Emit(ctx, protocol.EventJoinGame, protocol.JoinGame{
		GameID:     s.gameID,
		PlayerName: s.playerName,
	})
	if err != nil {
		return fmt.Errorf("joining game %s: %w", s.gameID, err)
	}
	s.joined = true
	s.logger.Info("joined game", "game_id", s.gameID, "player", s.playerName)
	return nil
}

// Run is the single thread of control: every state transition happens here,
// driven by inbound channel events and map clicks. It returns when ctx is
// cancelled or the channel ends. A dropped channel ends the session; there is
// no reconnect (the protocol has no resume handshake).
func (s *Session) Run(ctx context.Context) error {
	if err := s.Join(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case in, ok := <-s.ch.Events():
			if !ok {
				if err := s.ch.Err(); err != nil {
					return fmt.Errorf("channel closed: %w", err)
				}
				return nil
			}
			if handle, ok := s.handlers[in.Event]; ok {
				handle(in.Data)
			} else {
				s.logger.Debug("ignoring unknown event", "event", in.Event)
			}

		case click := <-s.surface.Clicks():
			s.machine.HandleClick(click)
		}
	}
}
