// Package catalog turns the raw material taxonomy served by the quote API
// into the small, stable set of choices shown in the UI. It is pure data
// transformation: no network, no widgets.
package catalog

import (
	"regexp"
	"strings"
)

// colorNames maps lowercase id tokens to the Persian display name used by
// the shop. These cover the filament colors the shop actually stocks.
var colorNames = map[string]string{
	"black":  "مشکی",
	"white":  "سفید",
	"red":    "قرمز",
	"blue":   "آبی",
	"green":  "سبز",
	"yellow": "زرد",
	"orange": "نارنجی",
	"purple": "بنفش",
	"pink":   "صورتی",
	"gray":   "خاکستری",
	"grey":   "خاکستری",
	"silver": "نقره‌ای",
	"gold":   "طلایی",
	"brown":  "قهوه‌ای",
	"clear":  "شفاف",
	"natural": "طبیعی",
}

// descriptorNames maps lowercase variant/polymer tokens to their display
// term. Polymer acronyms keep their Latin form, finish descriptors are
// localized.
var descriptorNames = map[string]string{
	"pla":    "PLA",
	"petg":   "PETG",
	"tpu":    "TPU",
	"abs":    "ABS",
	"asa":    "ASA",
	"plus":   "پلاس",
	"pro":    "پرو",
	"silk":   "ابریشمی",
	"matte":  "مات",
	"glossy": "براق",
	"wood":   "چوب",
	"carbon": "کربن",
	"glow":   "شب‌تاب",
	"fast":   "سریع",
	"basic":  "معمولی",
}

// hardnessToken matches shore-hardness style tokens such as "95a" or "85d".
var hardnessToken = regexp.MustCompile(`^[0-9]+[A-Za-z]$`)

var separatorRuns = regexp.MustCompile(`[_\-]+`)

// Synthesize derives a human display label from a raw catalog identifier.
// It is total: any input, including the empty string, yields a label
// without failing.
func Synthesize(rawID string) string {
	s := strings.TrimSpace(rawID)
	s = strings.Trim(s, "_")
	s = separatorRuns.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	tokens := strings.Fields(s)
	for i, tok := range tokens {
		key := strings.ToLower(tok)
		if name, ok := colorNames[key]; ok {
			tokens[i] = name
			continue
		}
		if term, ok := descriptorNames[key]; ok {
			tokens[i] = term
			continue
		}
		if hardnessToken.MatchString(tok) {
			tokens[i] = strings.ToUpper(tok)
		}
	}
	return strings.Join(tokens, " ")
}

// StripFamilyPrefix removes a leading "familyKey_" from an id so that
// family-qualified ids ("pla_black") render as just the variant. The prefix
// is only stripped when followed by the underscore separator; "petgblack"
// stays untouched.
func StripFamilyPrefix(id, familyKey string) string {
	if familyKey == "" {
		return id
	}
	prefix := familyKey + "_"
	if len(id) >= len(prefix) && strings.EqualFold(id[:len(prefix)], prefix) {
		return id[len(prefix):]
	}
	return id
}

// DisplayLabel resolves the label shown for an option: an explicit title
// wins, then an explicit name, then the label supplied by the catalog
// source, and only then a synthesized one.
func DisplayLabel(opt MaterialOption, familyKey string) string {
	if opt.Title != "" {
		return opt.Title
	}
	if opt.Name != "" {
		return opt.Name
	}
	if opt.Label != "" {
		return opt.Label
	}
	return Synthesize(StripFamilyPrefix(opt.ID, familyKey))
}
