package playback

import (
	"log/slog"
	"testing"
	"time"

	"github.com/casaval/posio/internal/protocol"
)

func recvFrame(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-ch:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestBrokerDeliversToAllGameSubscribers(t *testing.T) {
	b := NewBroker(slog.Default())
	ch1 := b.Subscribe("default")
	ch2 := b.Subscribe("default")
	other := b.Subscribe("other")
	defer b.Unsubscribe("default", ch1)
	defer b.Unsubscribe("default", ch2)
	defer b.Unsubscribe("other", other)

	b.Publish("default", protocol.EventNewTurn, protocol.NewTurn{City: "Lima", Country: "Peru"})

	for _, ch := range []chan []byte{ch1, ch2} {
		env, err := protocol.Decode(recvFrame(t, ch))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Event != protocol.EventNewTurn {
			t.Errorf("event = %q", env.Event)
		}
	}

	select {
	case frame := <-other:
		t.Fatalf("other game received %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerSkipsUnsubscribed(t *testing.T) {
	b := NewBroker(slog.Default())
	ch := b.Subscribe("default")
	b.Unsubscribe("default", ch)

	b.Publish("default", protocol.EventNewTurn, protocol.NewTurn{City: "Oslo", Country: "Norway"})

	select {
	case frame := <-ch:
		t.Fatalf("unsubscribed channel received %s", frame)
	case <-time.After(50 * time.Millisecond):
	}
}
