package pricing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/ba4b0d/printquote/internal/api"
	"github.com/ba4b0d/printquote/internal/quote"
)

// Surface selects the quantity semantics of the upload path: the public
// surface always prices exactly one unit, the staff surface passes the
// entered quantity through.
type Surface int

const (
	SurfacePublic Surface = iota
	SurfaceStaff
)

// Service is the slice of the API client the orchestrator needs.
type Service interface {
	Estimate(ctx context.Context, up api.EstimateUpload) (quote.Estimate, error)
	Quote(ctx context.Context, req quote.Request) (quote.Breakdown, error)
}

// ErrBusy rejects a submission while a request of this session is still in
// flight. The UI disables the submit control in those phases, so hitting
// this is a bug upstream, not a user-facing condition.
var ErrBusy = errors.New("a request is already in flight for this session")

// ErrNoFile rejects an upload submission without a selected model file.
var ErrNoFile = errors.New("no model file selected")

// UploadJob is one submission of the upload path.
type UploadJob struct {
	FileName   string
	File       io.Reader
	MaterialID string
	MachineID  string
	Quality    string // draft | normal | fine; empty means normal
	Qty        int    // staff: sent verbatim; public: display only
	Surface    Surface

	PostProHours float64
	Extras       float64
}

// ManualJob is one submission of the manual path. Grams and minutes are
// per-unit figures entered by staff.
type ManualJob struct {
	MaterialID   string
	MachineID    string
	Qty          int
	Grams        float64
	Minutes      float64
	PostProHours float64
	Extras       float64
}

// Orchestrator owns one PricingSession: it validates submissions, issues
// the estimate and price calls, and feeds their results into the state
// machine. Each submission bumps the generation counter so responses
// arriving after a clear or a newer submission are discarded.
type Orchestrator struct {
	svc     Service
	machine *Machine
	gen     atomic.Uint64
}

func NewOrchestrator(svc Service) *Orchestrator {
	return &Orchestrator{svc: svc, machine: NewMachine()}
}

// State returns the current session state.
func (o *Orchestrator) State() State { return o.machine.State() }

// Subscribe registers an observer of session state changes. Observers may
// be called from the goroutine running the network calls.
func (o *Orchestrator) Subscribe(fn func(State)) { o.machine.Subscribe(fn) }

// Clear resets displayed state to idle. In-flight requests are not
// cancelled; their responses will be stale and ignored.
func (o *Orchestrator) Clear() {
	o.gen.Add(1)
	o.machine.Dispatch(Clear{})
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SubmitManual validates and prices a manual-parameter job. The entered
// per-unit grams/minutes and quantity are sent verbatim.
func (o *Orchestrator) SubmitManual(ctx context.Context, job ManualJob) error {
	if o.machine.State().InFlight() {
		return ErrBusy
	}
	if !positiveFinite(job.Grams) {
		return errors.New("filament grams must be greater than zero")
	}
	if !positiveFinite(job.Minutes) {
		return errors.New("print time minutes must be greater than zero")
	}
	req := quote.Request{
		MaterialID:       job.MaterialID,
		MachineID:        job.MachineID,
		Qty:              job.Qty,
		FilamentGrams:    job.Grams,
		PrintTimeMinutes: job.Minutes,
		PostProHours:     job.PostProHours,
		Extras:           job.Extras,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	gen := o.gen.Add(1)
	o.machine.Dispatch(SubmitPrice{Gen: gen, Direct: true})

	go o.price(ctx, gen, req)
	return nil
}

// SubmitUpload validates an upload job and runs the two-phase pipeline:
// estimate first, then price with the estimated per-unit figures. The
// price call is never issued before the estimate has resolved successfully.
func (o *Orchestrator) SubmitUpload(ctx context.Context, job UploadJob) error {
	if o.machine.State().InFlight() {
		return ErrBusy
	}
	if job.File == nil || job.FileName == "" {
		return ErrNoFile
	}
	if job.MaterialID == "" {
		return quote.ErrNoMaterial
	}
	if job.MachineID == "" {
		return quote.ErrNoMachine
	}
	qty := job.Qty
	if job.Surface == SurfacePublic {
		qty = 1
	}
	if qty < 1 {
		return fmt.Errorf("quantity must be a positive integer, got %d", job.Qty)
	}

	gen := o.gen.Add(1)
	o.machine.Dispatch(SubmitEstimate{Gen: gen})

	go func() {
		est, err := o.svc.Estimate(ctx, api.EstimateUpload{
			FileName:   job.FileName,
			File:       job.File,
			MaterialID: job.MaterialID,
			Quality:    job.Quality,
		})
		if err != nil {
			o.machine.Dispatch(EstimateFailed{Gen: gen, Message: err.Error()})
			return
		}
		o.machine.Dispatch(EstimateOK{Gen: gen, Estimate: est})
		if o.machine.State().Phase != PhaseEstimated || o.gen.Load() != gen {
			// Unusable figures, or the session moved on while we were out.
			return
		}

		o.machine.Dispatch(SubmitPrice{Gen: gen})
		o.price(ctx, gen, quote.Request{
			MaterialID:       job.MaterialID,
			MachineID:        job.MachineID,
			Qty:              qty,
			FilamentGrams:    est.EstimatedGrams,
			PrintTimeMinutes: est.EstimatedMinutes,
			PostProHours:     job.PostProHours,
			Extras:           job.Extras,
		})
	}()
	return nil
}

// price issues the pricing call and dispatches its outcome under gen.
func (o *Orchestrator) price(ctx context.Context, gen uint64, req quote.Request) {
	bd, err := o.svc.Quote(ctx, req)
	if err != nil {
		o.machine.Dispatch(PriceFailed{Gen: gen, Message: err.Error()})
		return
	}
	o.machine.Dispatch(PriceOK{Gen: gen, Breakdown: bd})
}
