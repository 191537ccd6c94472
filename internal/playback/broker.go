package playback

import (
	"log/slog"
	"sync"

	"github.com/casaval/posio/internal/protocol"
)

// Broker fans encoded frames out to every connection subscribed to a game.
// Targeted frames (player_results, leaderboard_update) bypass it and go to a
// player's own outbox.
type Broker struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger,
		subs:   make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving every broadcast frame for the game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish encodes one event and sends it to all subscribers of the game.
// Slow subscribers are skipped, not waited for.
func (b *Broker) Publish(gameID, event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		b.logger.Error("encoding broadcast failed", "event", event, "error", err)
		return
	}
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- frame:
		default:
		}
	}
	b.mu.RUnlock()
}
