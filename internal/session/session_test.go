package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/casaval/posio/internal/channel"
	"github.com/casaval/posio/internal/leaderboard"
	"github.com/casaval/posio/internal/protocol"
	"github.com/casaval/posio/internal/turn"
	"github.com/casaval/posio/internal/ui"
)

// fakeChannel records emits and lets tests push inbound events.
type fakeChannel struct {
	mu      sync.Mutex
	emitted []string
	events  chan channel.Inbound
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan channel.Inbound, 16)}
}

func (f *fakeChannel) Emit(_ context.Context, event string, _ any) error {
	f.mu.Lock()
	f.emitted = append(f.emitted, event)
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) Events() <-chan channel.Inbound { return f.events }
func (f *fakeChannel) Err() error                     { return nil }
func (f *fakeChannel) Close() error                   { return nil }

func (f *fakeChannel) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.emitted...)
}

func (f *fakeChannel) push(t *testing.T, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s: %v", event, err)
	}
	f.events <- channel.Inbound{Event: event, Data: data}
}

type recordedViews struct {
	mu      sync.Mutex
	status  string
	rows    []leaderboard.Row
	capture bool
	clicks  chan ui.Click
}

func newRecordedViews() *recordedViews {
	return &recordedViews{clicks: make(chan ui.Click, 1)}
}

func (v *recordedViews) PlaceMarker(ui.Marker) {}
func (v *recordedViews) ClearMarkers()         {}
func (v *recordedViews) SetClickCapture(enabled bool) {
	v.mu.Lock()
	v.capture = enabled
	v.mu.Unlock()
}
func (v *recordedViews) Clicks() <-chan ui.Click { return v.clicks }
func (v *recordedViews) Start(time.Duration)     {}
func (v *recordedViews) Reset()                  {}
func (v *recordedViews) SetStatus(markup string) {
	v.mu.Lock()
	v.status = markup
	v.mu.Unlock()
}
func (v *recordedViews) SetScore(int) {}
func (v *recordedViews) SetRows(rows []leaderboard.Row) {
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

func (v *recordedViews) captureEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.capture
}

func (v *recordedViews) rowCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rows)
}

type noopAnimator struct{}

func (noopAnimator) Play(int) {}

func newTestSession(t *testing.T) (*Session, *fakeChannel, *recordedViews) {
	t.Helper()
	ch := newFakeChannel()
	views := newRecordedViews()
	machine := turn.NewMachine("default", 15*time.Second, turn.Deps{
		Logger:    slog.Default(),
		Surface:   views,
		Countdown: views,
		Status:    views,
		Animator:  noopAnimator{},
		Emit: func(event string, payload any) error {
			return ch.Emit(context.Background(), event, payload)
		},
	})
	sess := New(slog.Default(), ch, machine, views, views, "default", "ana")
	return sess, ch, views
}

func TestJoinEmitsExactlyOnce(t *testing.T) {
	sess, ch, _ := newTestSession(t)
	ctx := context.Background()

	if err := sess.Join(ctx); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := sess.Join(ctx); err != nil {
		t.Fatalf("second join: %v", err)
	}

	sent := ch.sent()
	if len(sent) != 1 || sent[0] != protocol.EventJoinGame {
		t.Fatalf("sent = %v, want exactly one join_game", sent)
	}
}

func TestRunDispatchesEventsAndClicks(t *testing.T) {
	sess, ch, views := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	ch.push(t, protocol.EventNewTurn, protocol.NewTurn{City: "Lima", Country: "Peru"})
	waitFor(t, func() bool { return views.captureEnabled() })

	views.clicks <- ui.Click{Lat: -12.05, Lng: -77.04}
	waitFor(t, func() bool {
		for _, e := range ch.sent() {
			if e == protocol.EventAnswer {
				return true
			}
		}
		return false
	})

	rank := 0
	ch.push(t, protocol.EventLeaderboardUpdate, protocol.LeaderboardUpdate{
		TopTen:      []protocol.LeaderboardEntry{{PlayerName: "bob", Score: 10}},
		PlayerRank:  &rank,
		PlayerScore: 12,
	})
	waitFor(t, func() bool { return views.rowCount() == 1 })

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}

	// join_game went out before anything else.
	if sent := ch.sent(); len(sent) == 0 || sent[0] != protocol.EventJoinGame {
		t.Fatalf("sent = %v", sent)
	}
}

func TestRunSurvivesMalformedAndUnknownEvents(t *testing.T) {
	sess, ch, views := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	ch.events <- channel.Inbound{Event: protocol.EventNewTurn, Data: json.RawMessage(`"not an object"`)}
	ch.events <- channel.Inbound{Event: "no_such_event", Data: json.RawMessage(`{}`)}
	ch.push(t, protocol.EventNewTurn, protocol.NewTurn{City: "Oslo", Country: "Norway"})

	waitFor(t, func() bool { return views.captureEnabled() })

	cancel()
	<-done
}

func TestRunEndsWhenChannelCloses(t *testing.T) {
	sess, ch, _ := newTestSession(t)

	done := make(chan error, 1)
	go func() { done <- sess.Run(context.Background()) }()

	close(ch.events)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("clean channel close should end the session without error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after channel close")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
