// Package channel is the bidirectional event transport between client and
// server. The core treats it as an abstract in-order event stream.
package channel

import (
	"context"
	"encoding/json"
)

// Inbound is one server event, payload left raw for the dispatcher.
type Inbound struct {
	Event string
	Data  json.RawMessage
}

// Channel is the transport seen by the session: named outbound events in,
// named inbound events out. Events() closes when the transport fails or
// shuts down; Err() then reports why.
type Channel interface {
	Emit(ctx context.Context, event string, payload any) error
	Events() <-chan Inbound
	Err() error
	Close() error
}
