// Package ui declares the rendering surfaces the turn machine drives. The map
// widget, countdown bar and status area live outside the core; the machine
// only sees these interfaces.
package ui

import "time"

// MarkerKind distinguishes the three marker colours on the map.
type MarkerKind string

const (
	MarkerUserAnswer    MarkerKind = "user_answer"
	MarkerCorrectAnswer MarkerKind = "correct_answer"
	MarkerBestAnswer    MarkerKind = "best_answer"
)

// Marker is a point placed on the map, optionally carrying popup markup.
// Popup text must already be escaped by the caller.
type Marker struct {
	Lat       float64
	Lng       float64
	Kind      MarkerKind
	Popup     string
	OpenPopup bool
}

// Click is a map click at a coordinate.
type Click struct {
	Lat float64
	Lng float64
}

// MarkerSurface is the drawable map. Clicks() delivers clicks only while
// capture is enabled; consumers re-check their own state regardless.
type MarkerSurface interface {
	PlaceMarker(Marker)
	ClearMarkers()
	SetClickCapture(enabled bool)
	Clicks() <-chan Click
}

// Countdown is the linear progress indicator for the answer window.
type Countdown interface {
	Start(d time.Duration)
	Reset()
}

// StatusView shows the turn prompt ("Locate X", "Waiting for the next turn").
type StatusView interface {
	SetStatus(markup string)
}

// ScoreView displays the animated score counter.
type ScoreView interface {
	SetScore(value int)
}
