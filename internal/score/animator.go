// Package score animates the reveal of an awarded score: the displayed value
// counts up from 0 to the final score over a fixed one second window.
package score

import (
	"math"
	"sync"
	"time"
)

const (
	// window is the total animation length.
	window = time.Second
	// minStep is the floor on the tick interval; faster updates are not
	// visible anyway.
	minStep = 50 * time.Millisecond
)

// StepInterval returns the tick interval for a score: the window divided by
// the score so every intermediate value gets a tick, clamped to minStep.
func StepInterval(score int) time.Duration {
	if score <= 0 {
		return minStep
	}
	step := window / time.Duration(score)
	if step < minStep {
		return minStep
	}
	return step
}

// valueAt interpolates the displayed value for the current instant. The
// remaining fraction is clamped at zero so the value never overshoots.
func valueAt(score int, end, now time.Time) int {
	remaining := math.Max(end.Sub(now).Seconds()/window.Seconds(), 0)
	return int(math.Round(float64(score) - remaining*float64(score)))
}

// Animator runs at most one count-up at a time. Starting a new reveal
// supersedes an unfinished one; each run carries a generation number checked
// under the mutex on every display, so a superseded run can never emit after
// its successor's first value.
type Animator struct {
	display func(int)

	mu   sync.Mutex
	gen  int
	stop chan struct{}
}

// New returns an animator that reports each displayed value to display.
// The display function is called from the animation goroutine.
func New(display func(int)) *Animator {
	return &Animator{display: display}
}

// Play animates 0 up to score. Scores ≤ 0 are never animated.
func (a *Animator) Play(score int) {
	if score <= 0 {
		return
	}

	a.mu.Lock()
	a.gen++
	gen := a.gen
	if a.stop != nil {
		close(a.stop)
	}
	stop := make(chan struct{})
	a.stop = stop
	a.mu.Unlock()

	go a.run(score, gen, stop)
}

// Stop cancels any running animation.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.gen++
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
	a.mu.Unlock()
}

func (a *Animator) run(score, gen int, stop chan struct{}) {
	end := time.Now().Add(window)

	// First value immediately so the counter never sits at 0 for a full
	// step interval.
	if a.show(score, gen, end) {
		return
	}

	ticker := time.NewTicker(StepInterval(score))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if a.show(score, gen, end) {
				return
			}
		}
	}
}

// show displays the current value and reports whether this run is finished.
// Display happens under the mutex only while gen is current, so runs never
// interleave.
func (a *Animator) show(score, gen int, end time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return true
	}
	value := valueAt(score, end, time.Now())
	a.display(value)
	return value == score
}
