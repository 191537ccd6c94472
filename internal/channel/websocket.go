package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/casaval/posio/internal/protocol"
)

// writeTimeout bounds a single Emit so a stalled connection cannot wedge the
// event goroutine.
const writeTimeout = 3 * time.Second

// WebSocket is the production Channel over a websocket connection. One frame
// carries one protocol.Envelope.
type WebSocket struct {
	conn   *websocket.Conn
	logger *slog.Logger

	events chan Inbound
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Dial connects to url and starts the read loop. The returned channel is
// ready to Emit immediately.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*WebSocket, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	ws := &WebSocket{
		conn:   conn,
		logger: logger,
		events: make(chan Inbound, 16),
		cancel: cancel,
	}
	go ws.readLoop(readCtx)
	return ws, nil
}

// Emit marshals payload into an envelope and writes it as one text frame.
func (ws *WebSocket) Emit(ctx context.Context, event string, payload any) error {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := ws.conn.Write(ctx, websocket.MessageText, frame); err != nil {
		return fmt.Errorf("writing %s: %w", event, err)
	}
	return nil
}

// Events delivers decoded inbound envelopes in arrival order. The channel
// closes when the connection ends.
func (ws *WebSocket) Events() <-chan Inbound { return ws.events }

// Err reports why Events closed. Nil while the connection is live or after a
// clean shutdown.
func (ws *WebSocket) Err() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.err
}

// Close shuts the connection down cleanly.
func (ws *WebSocket) Close() error {
	ws.cancel()
	return ws.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (ws *WebSocket) readLoop(ctx context.Context) {
	defer close(ws.events)

	for {
		_, frame, err := ws.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			ws.setErr(err)
			return
		}

		env, err := protocol.Decode(frame)
		if err != nil {
			// Malformed frames are dropped, not fatal.
			ws.logger.Warn("dropping malformed frame", "error", err)
			continue
		}

		select {
		case ws.events <- Inbound{Event: env.Event, Data: env.Data}:
		case <-ctx.Done():
			return
		}
	}
}

func (ws *WebSocket) setErr(err error) {
	ws.mu.Lock()
	ws.err = err
	ws.mu.Unlock()
}
