// Package quote holds the domain types shared by the pricing pipeline, the
// UI and the exporters: the request sent to the pricing endpoint, the
// breakdown it returns, the estimator result, and saved quote records.
package quote

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Request is the body of the pricing call. Field names are part of the wire
// contract with the quote API and must not change. Grams and minutes are
// per-unit figures; the service scales by Qty internally.
type Request struct {
	MaterialID       string  `json:"material_id"`
	MachineID        string  `json:"machine_id"`
	Qty              int     `json:"qty"`
	FilamentGrams    float64 `json:"filament_grams"`
	PrintTimeMinutes float64 `json:"print_time_minutes"`
	PostProHours     float64 `json:"post_pro_hours"`
	Extras           float64 `json:"extras"`
}

var (
	ErrNoMaterial = errors.New("no material selected")
	ErrNoMachine  = errors.New("no machine selected")
)

// Validate checks the request invariants before it is allowed near the
// network layer: a positive integer quantity and non-negative finite
// physical/monetary fields.
func (r Request) Validate() error {
	if r.MaterialID == "" {
		return ErrNoMaterial
	}
	if r.MachineID == "" {
		return ErrNoMachine
	}
	if r.Qty < 1 {
		return fmt.Errorf("quantity must be a positive integer, got %d", r.Qty)
	}
	fields := map[string]float64{
		"filament grams":     r.FilamentGrams,
		"print time minutes": r.PrintTimeMinutes,
		"post-pro hours":     r.PostProHours,
		"extras":             r.Extras,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s must be a non-negative finite number", name)
		}
	}
	return nil
}

// Breakdown is the per-line cost response of the pricing endpoint. The
// capitalized and misspelled JSON names mirror the service bit-exact.
type Breakdown struct {
	MaterialT    float64 `json:"Matrial_t"`
	PowerT       float64 `json:"power_t"`
	DownturnT    float64 `json:"downturn_t"`
	MaintenanceT float64 `json:"Maintenance_t"`
	ColoringT    float64 `json:"Coloring_t"`
	OverheadT    float64 `json:"overhead_t"`
	Extras       float64 `json:"Extras"`
	Total        float64 `json:"Total"`
}

// Line is one named cost component, for display and export.
type Line struct {
	Name   string
	Amount float64
}

// Lines returns the cost components in display order, excluding Total.
func (b Breakdown) Lines() []Line {
	return []Line{
		{"Material", b.MaterialT},
		{"Power", b.PowerT},
		{"Depreciation", b.DownturnT},
		{"Maintenance", b.MaintenanceT},
		{"Coloring", b.ColoringT},
		{"Overhead", b.OverheadT},
		{"Extras", b.Extras},
	}
}

// BBox is the model bounding box reported by the estimator, in mm.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Estimate is the estimator's per-unit result for exactly one modeled
// object.
type Estimate struct {
	VolumeCm3        float64  `json:"volume_cm3"`
	BBoxMM           BBox     `json:"bbox_mm"`
	EstimatedGrams   float64  `json:"estimated_grams"`
	EstimatedMinutes float64  `json:"estimated_minutes"`
	Warnings         []string `json:"warnings,omitempty"`
}

// Usable reports whether the estimate can feed the pricing call. A zero or
// non-finite mass or duration means the estimator failed even if the HTTP
// call succeeded.
func (e Estimate) Usable() bool {
	ok := func(v float64) bool {
		return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	return ok(e.EstimatedGrams) && ok(e.EstimatedMinutes)
}

// Machine is one printer offered by the shop.
type Machine struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is a saved quote in the local history.
type Record struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	MaterialLabel string    `json:"material_label"`
	MachineName   string    `json:"machine_name"`
	Request       Request   `json:"request"`
	Breakdown     Breakdown `json:"breakdown"`
}

// NewRecord stamps a breakdown into a history record with a generated id.
func NewRecord(req Request, bd Breakdown, materialLabel, machineName string) Record {
	return Record{
		ID:            uuid.New().String()[:8],
		CreatedAt:     time.Now(),
		MaterialLabel: materialLabel,
		MachineName:   machineName,
		Request:       req,
		Breakdown:     bd,
	}
}
