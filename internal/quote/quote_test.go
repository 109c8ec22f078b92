package quote

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestRequestValidate(t *testing.T) {
	valid := Request{
		MaterialID:       "pla_black",
		MachineID:        "ender3",
		Qty:              2,
		FilamentGrams:    120,
		PrintTimeMinutes: 180,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing material", func(r *Request) { r.MaterialID = "" }},
		{"missing machine", func(r *Request) { r.MachineID = "" }},
		{"zero qty", func(r *Request) { r.Qty = 0 }},
		{"negative qty", func(r *Request) { r.Qty = -1 }},
		{"negative grams", func(r *Request) { r.FilamentGrams = -1 }},
		{"NaN minutes", func(r *Request) { r.PrintTimeMinutes = math.NaN() }},
		{"infinite extras", func(r *Request) { r.Extras = math.Inf(1) }},
		{"negative post-pro", func(r *Request) { r.PostProHours = -0.5 }},
	}
	for _, c := range cases {
		r := valid
		c.mutate(&r)
		if err := r.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestRequestWireNames(t *testing.T) {
	data, err := json.Marshal(Request{MaterialID: "m", MachineID: "mc", Qty: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{
		`"material_id"`, `"machine_id"`, `"qty"`,
		`"filament_grams"`, `"print_time_minutes"`, `"post_pro_hours"`, `"extras"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("request JSON missing field %s: %s", field, data)
		}
	}
}

func TestBreakdownWireNames(t *testing.T) {
	// The capitalized (and misspelled) names are the service's contract.
	raw := `{"Matrial_t":100,"power_t":10,"downturn_t":5,"Maintenance_t":2,
		"Coloring_t":0,"overhead_t":11,"Extras":3,"Total":131}`
	var bd Breakdown
	if err := json.Unmarshal([]byte(raw), &bd); err != nil {
		t.Fatal(err)
	}
	if bd.MaterialT != 100 || bd.Total != 131 {
		t.Errorf("breakdown not decoded from capitalized names: %+v", bd)
	}
}

func TestEstimateUsable(t *testing.T) {
	ok := Estimate{EstimatedGrams: 50, EstimatedMinutes: 90}
	if !ok.Usable() {
		t.Error("expected usable estimate")
	}
	bad := []Estimate{
		{EstimatedGrams: 0, EstimatedMinutes: 90},
		{EstimatedGrams: 50, EstimatedMinutes: 0},
		{EstimatedGrams: math.NaN(), EstimatedMinutes: 90},
		{EstimatedGrams: 50, EstimatedMinutes: math.Inf(1)},
	}
	for i, e := range bad {
		if e.Usable() {
			t.Errorf("case %d: expected unusable estimate", i)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{150, "2h 30m"},
		{90.4, "1h 30m"},
		{math.NaN(), "0m"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.minutes); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.minutes, got, c.want)
		}
	}
}

func TestFormatToman(t *testing.T) {
	got := FormatToman(1250000)
	if !strings.Contains(got, "تومان") {
		t.Errorf("expected currency suffix in %q", got)
	}
}

func TestAggregates(t *testing.T) {
	if got := AggregateGrams(50, 3); got != 150 {
		t.Errorf("AggregateGrams = %v, want 150", got)
	}
	if got := AggregateMinutes(90, 2); got != 180 {
		t.Errorf("AggregateMinutes = %v, want 180", got)
	}
	// Nonsense display quantities clamp to one unit.
	if got := AggregateGrams(50, 0); got != 50 {
		t.Errorf("AggregateGrams with qty 0 = %v, want 50", got)
	}
}

func TestBreakdownLines(t *testing.T) {
	bd := Breakdown{
		MaterialT: 1, PowerT: 2, DownturnT: 3, MaintenanceT: 4,
		ColoringT: 5, OverheadT: 6, Extras: 7, Total: 28,
	}
	lines := bd.Lines()
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	if lines[0].Name != "Material" || lines[0].Amount != 1 {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	var sum float64
	for _, l := range lines {
		sum += l.Amount
	}
	if sum != bd.Total {
		t.Errorf("line sum %v != total %v", sum, bd.Total)
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(Request{MaterialID: "m", MachineID: "mc", Qty: 1},
		Breakdown{Total: 10}, "مشکی", "Ender 3")
	if rec.ID == "" || len(rec.ID) != 8 {
		t.Errorf("expected 8-char record id, got %q", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected timestamp")
	}
}
