package playback

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/casaval/posio/internal/protocol"
)

func handleWS(logger *slog.Logger, game *Game, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		playerID := randID(8)
		gameID := r.URL.Query().Get("game")
		if gameID == "" {
			gameID = "default"
		}

		broadcasts := broker.Subscribe(gameID)
		defer broker.Unsubscribe(gameID, broadcasts)

		outbox := make(chan []byte, 16)
		joined := false
		defer func() {
			if joined {
				game.Leave(playerID)
			}
		}()

		// Writer: merges broadcasts and targeted frames onto the socket.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			write := func(frame []byte) bool {
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				defer cancel()
				return conn.Write(ctx, websocket.MessageText, frame) == nil
			}
			for {
				select {
				case <-writeCtx.Done():
					return
				case frame := <-broadcasts:
					if !write(frame) {
						return
					}
				case frame := <-outbox:
					if !write(frame) {
						return
					}
				}
			}
		}()

		for {
			_, frame, err := conn.Read(r.Context())
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}

			env, err := protocol.Decode(frame)
			if err != nil {
				logger.Warn("dropping malformed frame", "error", err)
				continue
			}

			switch env.Event {
			case protocol.EventJoinGame:
				var join protocol.JoinGame
				if err := env.Unmarshal(&join); err != nil {
					logger.Warn("bad join_game", "error", err)
					continue
				}
				if joined {
					continue
				}
				joined = true
				game.Join(playerID, join.PlayerName, outbox)

			case protocol.EventAnswer:
				var answer protocol.Answer
				if err := env.Unmarshal(&answer); err != nil {
					logger.Warn("bad answer", "error", err)
					continue
				}
				if !joined {
					continue
				}
				game.Answer(playerID, answer.Lat, answer.Lng)

			default:
				logger.Debug("ignoring client event", "event", env.Event)
			}
		}
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
