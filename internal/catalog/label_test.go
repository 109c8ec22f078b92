package catalog

import "testing"

func TestSynthesizeSeparators(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"___", ""},
		{"black", "مشکی"},
		{"_black_", "مشکی"},
		{"silk--gold", "ابریشمی طلایی"},
		{"wood__brown", "چوب قهوه‌ای"},
		{"  carbon   black ", "کربن مشکی"},
		{"unknowntoken", "unknowntoken"},
		{"matte_unknown_red", "مات unknown قرمز"},
	}
	for _, c := range cases {
		if got := Synthesize(c.in); got != c.want {
			t.Errorf("Synthesize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSynthesizeHardnessToken(t *testing.T) {
	if got := Synthesize("tpu_95a"); got != "TPU 95A" {
		t.Errorf("expected hardness token uppercased, got %q", got)
	}
	// Plain numbers and longer suffixes pass through unchanged.
	if got := Synthesize("123"); got != "123" {
		t.Errorf("expected %q, got %q", "123", got)
	}
	if got := Synthesize("95ab"); got != "95ab" {
		t.Errorf("expected %q, got %q", "95ab", got)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	inputs := []string{"pla_black", "__-__", "SILK_Gold", "95a", "چوب"}
	for _, in := range inputs {
		first := Synthesize(in)
		for i := 0; i < 3; i++ {
			if got := Synthesize(in); got != first {
				t.Fatalf("Synthesize(%q) not deterministic: %q vs %q", in, first, got)
			}
		}
	}
}

func TestStripFamilyPrefix(t *testing.T) {
	if got := StripFamilyPrefix("pla_black", "pla"); got != "black" {
		t.Errorf("expected %q, got %q", "black", got)
	}
	if got := StripFamilyPrefix("PLA_black", "pla"); got != "black" {
		t.Errorf("case-insensitive strip failed, got %q", got)
	}
	// No spurious strip without the separator.
	if got := StripFamilyPrefix("petgblack", "pla"); got != "petgblack" {
		t.Errorf("expected %q, got %q", "petgblack", got)
	}
	if got := StripFamilyPrefix("petgblack", "petg"); got != "petgblack" {
		t.Errorf("expected no strip without underscore, got %q", got)
	}
	if got := StripFamilyPrefix("black", ""); got != "black" {
		t.Errorf("empty family key must be a no-op, got %q", got)
	}
}

func TestDisplayLabelPrecedence(t *testing.T) {
	opt := MaterialOption{ID: "pla_black", Label: "از کاتالوگ", Name: "name", Title: "title"}
	if got := DisplayLabel(opt, "pla"); got != "title" {
		t.Errorf("title should win, got %q", got)
	}
	opt.Title = ""
	if got := DisplayLabel(opt, "pla"); got != "name" {
		t.Errorf("name should win over label, got %q", got)
	}
	opt.Name = ""
	if got := DisplayLabel(opt, "pla"); got != "از کاتالوگ" {
		t.Errorf("catalog label should win over synthesis, got %q", got)
	}
	opt.Label = ""
	if got := DisplayLabel(opt, "pla"); got != "مشکی" {
		t.Errorf("expected synthesized label, got %q", got)
	}
}
