// Package reaction implements the reaction-time test state machine.
//
// A session moves idle -> waiting on Start, waiting -> go when its armed
// timer fires, and back to idle on a panel click or Reset. The timer itself
// is owned by the caller: Start hands out a Pending handle and the caller
// delivers Fire(token) once the delay has elapsed. Only the token of the live
// handle is accepted, so a timer cancelled by an early click or a reset can
// never advance a later session.
package reaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/termrain/internal/generator"
	"github.com/verte-zerg/termrain/internal/model"
)

const (
	// DefaultMinDelay is the shortest wait before the panel turns to go.
	DefaultMinDelay = 900 * time.Millisecond
	// DefaultMaxDelay is the exclusive upper bound of the wait.
	DefaultMaxDelay = 3300 * time.Millisecond
)

// Panel and result texts.
const (
	PanelReady    = "READY"
	PanelWait     = "WAIT..."
	PanelGo       = "CLICK!"
	PanelTooEarly = "TOO EARLY"

	ResultPlaceholder = "—"
	ResultWaiting     = "Wait for green..."
	ResultTooEarly    = "Too early. Start again."
)

// State is a reaction session state.
type State int

const (
	Idle State = iota
	Waiting
	Go
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Go:
		return "go"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pending is the handle of the armed timer of a waiting session.
type Pending struct {
	Token string
	Delay time.Duration
}

// Outcome describes how a session ended on a panel click.
type Outcome struct {
	Record   model.ReactionRecord
	TooEarly bool
}

// Tester owns one reaction session at a time.
type Tester struct {
	clock    Clock
	gen      *generator.Generator
	minDelay time.Duration
	maxDelay time.Duration

	state     State
	pending   *Pending
	startedAt time.Time
	armedAt   time.Time

	panel  string
	result string
}

// New returns an idle Tester. A nil clock means SystemClock.
func New(clock Clock, gen *generator.Generator, minDelay, maxDelay time.Duration) *Tester {
	if clock == nil {
		clock = SystemClock
	}
	return &Tester{
		clock:    clock,
		gen:      gen,
		minDelay: minDelay,
		maxDelay: maxDelay,
		state:    Idle,
		panel:    PanelReady,
		result:   ResultPlaceholder,
	}
}

// Start begins a session. It is ignored unless the tester is idle.
// The returned handle must be fired after Delay.
func (t *Tester) Start() (Pending, bool) {
	if t.state != Idle {
		return Pending{}, false
	}
	p := Pending{
		Token: uuid.NewString(),
		Delay: t.gen.Between(t.minDelay, t.maxDelay),
	}
	t.pending = &p
	t.state = Waiting
	t.startedAt = t.clock.Now()
	t.armedAt = time.Time{}
	t.panel = PanelWait
	t.result = ResultWaiting
	return p, true
}

// Fire delivers the timer for token. Stale or unknown tokens are ignored.
func (t *Tester) Fire(token string) bool {
	if t.state != Waiting || t.pending == nil || t.pending.Token != token {
		return false
	}
	t.pending = nil
	t.state = Go
	t.armedAt = t.clock.Now()
	t.panel = PanelGo
	return true
}

// Click handles a click on the panel. It reports false when idle.
func (t *Tester) Click() (Outcome, bool) {
	switch t.state {
	case Waiting:
		delay := t.cancel()
		t.state = Idle
		t.panel = PanelTooEarly
		t.result = ResultTooEarly
		return Outcome{
			TooEarly: true,
			Record: model.ReactionRecord{
				ID:        uuid.NewString(),
				StartedAt: t.startedAt,
				EndedAt:   t.clock.Now(),
				DelayMs:   delay.Milliseconds(),
				Outcome:   model.OutcomeEarly,
			},
		}, true
	case Go:
		now := t.clock.Now()
		elapsed := now.Sub(t.armedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		ms := elapsed.Round(time.Millisecond).Milliseconds()
		delay := t.armedAt.Sub(t.startedAt)
		t.state = Idle
		t.armedAt = time.Time{}
		t.panel = PanelReady
		t.result = fmt.Sprintf("Reaction: %d ms", ms)
		return Outcome{
			Record: model.ReactionRecord{
				ID:         uuid.NewString(),
				StartedAt:  t.startedAt,
				EndedAt:    now,
				DelayMs:    delay.Milliseconds(),
				Outcome:    model.OutcomeHit,
				ReactionMs: ms,
			},
		}, true
	default:
		return Outcome{}, false
	}
}

// Reset returns to idle from any state and cancels the armed timer.
func (t *Tester) Reset() {
	t.cancel()
	t.state = Idle
	t.armedAt = time.Time{}
	t.startedAt = time.Time{}
	t.panel = PanelReady
	t.result = ResultPlaceholder
}

func (t *Tester) cancel() time.Duration {
	if t.pending == nil {
		return 0
	}
	d := t.pending.Delay
	t.pending = nil
	return d
}

// State returns the current state.
func (t *Tester) State() State { return t.state }

// Pending returns the live timer handle, if any.
func (t *Tester) Pending() (Pending, bool) {
	if t.pending == nil {
		return Pending{}, false
	}
	return *t.pending, true
}

// Panel returns the text shown on the clickable panel.
func (t *Tester) Panel() string { return t.panel }

// Result returns the status line under the panel.
func (t *Tester) Result() string { return t.result }
