// Package turn owns the turn lifecycle: whether a guess may be accepted right
// now, what gets drawn when server events arrive, and the single-answer
// guarantee. All methods run on the session's event goroutine.
package turn

import (
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/casaval/posio/internal/protocol"
	"github.com/casaval/posio/internal/ui"
)

// Phase is the machine's position in the turn lifecycle. Exactly one phase is
// active at a time; PhaseIdle holds before the first turn.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAwaitingAnswer  Phase = "awaiting_answer"
	PhaseAnswerSubmitted Phase = "answer_submitted"
	PhaseRevealed        Phase = "revealed"
)

// EmitFunc transmits an outbound event on the channel.
type EmitFunc func(event string, payload any) error

// Animator reveals an awarded score.
type Animator interface {
	Play(score int)
}

// Deps are the collaborators the machine drives. All are required.
type Deps struct {
	Logger    *slog.Logger
	Surface   ui.MarkerSurface
	Countdown ui.Countdown
	Status    ui.StatusView
	Animator  Animator
	Emit      EmitFunc
}

// Machine is the turn state machine. It is not safe for concurrent use; the
// session serializes every call onto one goroutine.
type Machine struct {
	deps         Deps
	gameID       string
	turnDuration time.Duration

	phase    Phase
	answered bool
	city     string
	country  string
}

func NewMachine(gameID string, turnDuration time.Duration, deps Deps) *Machine {
	return &Machine{
		deps:         deps,
		gameID:       gameID,
		turnDuration: turnDuration,
		phase:        PhaseIdle,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// HandleNewTurn re-arms the machine. The server is authoritative: a new turn
// is accepted from any phase and resynchronizes the client.
func (m *Machine) HandleNewTurn(t protocol.NewTurn) {
	m.deps.Surface.ClearMarkers()
	m.city = t.City
	m.country = t.Country
	m.deps.Status.SetStatus(fmt.Sprintf(
		`Locate <span class="city">%s</span> (%s)`,
		html.EscapeString(t.City), html.EscapeString(t.Country),
	))
	m.deps.Countdown.Start(m.turnDuration)

	m.answered = false
	m.phase = PhaseAwaitingAnswer
	m.deps.Surface.SetClickCapture(true)

	m.deps.Logger.Info("new turn", "city", t.City, "country", t.Country)
}

// HandleClick submits the player's guess. Capture is disabled before anything
// else so a second click this turn can never reach the channel.
func (m *Machine) HandleClick(c ui.Click) {
	if m.phase != PhaseAwaitingAnswer || m.answered {
		// Capture should already be off; clicks racing the disable are
		// dropped here.
		m.deps.Logger.Debug("click ignored", "phase", m.phase)
		return
	}

	m.deps.Surface.SetClickCapture(false)
	m.answered = true
	m.phase = PhaseAnswerSubmitted

	m.deps.Surface.PlaceMarker(ui.Marker{Lat: c.Lat, Lng: c.Lng, Kind: ui.MarkerUserAnswer})

	err := m.deps.Emit(protocol.EventAnswer, protocol.Answer{GameID: m.gameID, Lat: c.Lat, Lng: c.Lng})
	if err != nil {
		// No retry: the machine stays in AnswerSubmitted until the server
		// resynchronizes it with the next turn.
		m.deps.Logger.Error("sending answer failed", "error", err)
	}
}

// HandlePlayerResults refreshes the player's own marker with the
// server-confirmed point and scoring, and reveals the score.
func (m *Machine) HandlePlayerResults(r protocol.PlayerResults) {
	if m.phase == PhaseIdle || m.phase == PhaseRevealed {
		m.deps.Logger.Debug("player results ignored", "phase", m.phase)
		return
	}
	// Results can outrun the click; capture tracks AwaitingAnswer exactly,
	// so close it before forcing the phase forward.
	m.deps.Surface.SetClickCapture(false)
	m.phase = PhaseAnswerSubmitted

	m.deps.Surface.PlaceMarker(ui.Marker{
		Lat:       r.Lat,
		Lng:       r.Lng,
		Kind:      ui.MarkerUserAnswer,
		Popup:     resultsPopup(r),
		OpenPopup: true,
	})

	if r.Score > 0 {
		m.deps.Animator.Play(r.Score)
	}
}

// HandleEndOfTurn reveals the turn's outcome. It is idempotent: delivering it
// twice leaves the same markers and phase as once.
func (m *Machine) HandleEndOfTurn(e protocol.EndOfTurn) {
	m.deps.Surface.SetClickCapture(false)
	m.deps.Countdown.Reset()
	m.deps.Surface.ClearMarkers()

	if e.BestAnswer != nil {
		m.deps.Surface.PlaceMarker(ui.Marker{
			Lat:   e.BestAnswer.Lat,
			Lng:   e.BestAnswer.Lng,
			Kind:  ui.MarkerBestAnswer,
			Popup: fmt.Sprintf("Closest answer (<b>%s km</b> away)", formatKm(e.BestAnswer.Distance)),
		})
	}

	m.deps.Surface.PlaceMarker(ui.Marker{
		Lat:   e.CorrectAnswer.Lat,
		Lng:   e.CorrectAnswer.Lng,
		Kind:  ui.MarkerCorrectAnswer,
		Popup: html.EscapeString(e.CorrectAnswer.Name),
	})

	m.deps.Status.SetStatus("Waiting for the next turn")
	m.phase = PhaseRevealed
}

func resultsPopup(r protocol.PlayerResults) string {
	text := fmt.Sprintf(`<div class="results"><b>%s km</b> away: `, formatKm(r.Distance))
	if r.Score == 0 {
		text += `<span class="score">Too far away!</span>`
	} else {
		text += fmt.Sprintf(`<span class="score">+%d points</span>`, r.Score)
	}
	text += fmt.Sprintf(`<br/>You are <b>#%d</b> out of <b>%d</b> player(s)</div>`, r.Rank, r.Total)
	return text
}
