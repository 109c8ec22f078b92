// Package pricing drives the estimate→price pipeline as an explicit finite
// state machine. The reducer is pure; the Machine serializes dispatches and
// notifies observers; the Orchestrator (orchestrator.go) is the only place
// the two network calls are issued.
package pricing

import (
	"sync"

	"github.com/ba4b0d/printquote/internal/quote"
)

// Phase is the lifecycle stage of one pricing session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEstimating
	PhaseEstimated
	PhasePricing
	PhasePriced
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseEstimating:
		return "estimating"
	case PhaseEstimated:
		return "estimated"
	case PhasePricing:
		return "pricing"
	case PhasePriced:
		return "priced"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the observable session state. Total and Breakdown are nil until
// a price response lands; Err holds the surfaced message after a failure.
// Gen tags the submission this state belongs to so stale responses are
// discarded rather than clobbering a newer session.
type State struct {
	Phase     Phase
	Progress  int
	Total     *float64
	Breakdown *quote.Breakdown
	Estimate  *quote.Estimate
	Err       string
	Gen       uint64
}

// InFlight reports whether a network call belonging to this session is
// outstanding. Submission is gated shut while it is.
func (s State) InFlight() bool {
	return s.Phase == PhaseEstimating || s.Phase == PhasePricing
}

// Event is a state machine input. Every event except Clear carries the
// generation of the submission that produced it.
type Event interface{ generation() uint64 }

// SubmitEstimate starts the upload pipeline at its estimate phase.
type SubmitEstimate struct{ Gen uint64 }

// EstimateOK is a successful estimate response. The reducer still rejects
// it when the figures are unusable (zero or non-finite mass/duration).
type EstimateOK struct {
	Gen      uint64
	Estimate quote.Estimate
}

// EstimateFailed is a failed estimate call with the surfaced message.
type EstimateFailed struct {
	Gen     uint64
	Message string
}

// SubmitPrice starts the pricing phase. Direct marks the manual path, which
// skips the estimate and enters at its own progress mark.
type SubmitPrice struct {
	Gen    uint64
	Direct bool
}

// PriceOK is a successful price response.
type PriceOK struct {
	Gen       uint64
	Breakdown quote.Breakdown
}

// PriceFailed is a failed price call with the surfaced message.
type PriceFailed struct {
	Gen     uint64
	Message string
}

// Clear resets the session to idle. It applies regardless of generation:
// any in-flight response from before the clear becomes stale.
type Clear struct{}

func (e SubmitEstimate) generation() uint64 { return e.Gen }
func (e EstimateOK) generation() uint64     { return e.Gen }
func (e EstimateFailed) generation() uint64 { return e.Gen }
func (e SubmitPrice) generation() uint64    { return e.Gen }
func (e PriceOK) generation() uint64        { return e.Gen }
func (e PriceFailed) generation() uint64    { return e.Gen }
func (e Clear) generation() uint64          { return 0 }

// messageUnusableEstimate is surfaced when the estimator answered 2xx but
// produced figures the pipeline cannot price.
const messageUnusableEstimate = "estimator could not derive mass and duration for this model"

// reduce computes the next state. It is pure: no I/O, no side effects.
// Result events whose generation does not match the current session are
// returned unchanged, which is the whole stale-response policy.
func reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Clear:
		return State{Phase: PhaseIdle, Gen: s.Gen}

	case SubmitEstimate:
		if s.InFlight() {
			return s
		}
		return State{Phase: PhaseEstimating, Progress: 10, Gen: e.Gen}

	case SubmitPrice:
		if e.Direct {
			if s.InFlight() {
				return s
			}
			return State{Phase: PhasePricing, Progress: 40, Gen: e.Gen}
		}
		// Auto-continue from a successful estimate of the same session.
		if e.Gen != s.Gen || s.Phase != PhaseEstimated {
			return s
		}
		s.Phase = PhasePricing
		return s

	case EstimateOK:
		if e.Gen != s.Gen || s.Phase != PhaseEstimating {
			return s
		}
		if !e.Estimate.Usable() {
			return State{Phase: PhaseFailed, Err: messageUnusableEstimate, Gen: s.Gen}
		}
		est := e.Estimate
		return State{Phase: PhaseEstimated, Progress: 65, Estimate: &est, Gen: s.Gen}

	case EstimateFailed:
		if e.Gen != s.Gen || s.Phase != PhaseEstimating {
			return s
		}
		return State{Phase: PhaseFailed, Err: e.Message, Gen: s.Gen}

	case PriceOK:
		if e.Gen != s.Gen || s.Phase != PhasePricing {
			return s
		}
		bd := e.Breakdown
		total := bd.Total
		s.Phase = PhasePriced
		s.Progress = 100
		s.Breakdown = &bd
		s.Total = &total
		return s

	case PriceFailed:
		if e.Gen != s.Gen || s.Phase != PhasePricing {
			return s
		}
		return State{Phase: PhaseFailed, Err: e.Message, Estimate: s.Estimate, Gen: s.Gen}
	}
	return s
}

// Machine holds the current state and serializes event dispatch. Observers
// are notified outside the lock with a copy of the new state.
type Machine struct {
	mu        sync.Mutex
	state     State
	observers []func(State)
}

func NewMachine() *Machine {
	return &Machine{state: State{Phase: PhaseIdle}}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies one event and notifies observers when the state changed.
func (m *Machine) Dispatch(ev Event) {
	m.mu.Lock()
	next := reduce(m.state, ev)
	changed := next != m.state
	m.state = next
	observers := m.observers
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(next)
	}
}

// Subscribe registers an observer called after every state change.
func (m *Machine) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}
