package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaterialOption is one selectable filament variant as supplied by the
// catalog source. Label, Name and Title are all optional; DisplayLabel
// resolves the precedence.
type MaterialOption struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// MaterialGroup is a raw grouping as supplied by the catalog source. Raw
// groups may overlap semantically (several PLA sub-variants arrive as
// separate groups).
type MaterialGroup struct {
	GroupID   string           `json:"group_id"`
	GroupName string           `json:"group_name,omitempty"`
	Options   []MaterialOption `json:"options"`
}

// FamilyKey identifies one of the canonical public material families.
type FamilyKey string

const (
	FamilyPLA  FamilyKey = "pla"
	FamilyPETG FamilyKey = "petg"
	FamilyTPU  FamilyKey = "tpu"
)

// familyNames are the fixed display names of the public families.
var familyNames = map[FamilyKey]string{
	FamilyPLA:  "PLA",
	FamilyPETG: "PETG",
	FamilyTPU:  "TPU",
}

// classifyOrder is the priority in which an ambiguous group id is tested
// against family keywords. First match wins: a group containing both "petg"
// and "pla" classifies as PETG.
var classifyOrder = []FamilyKey{FamilyPETG, FamilyTPU, FamilyPLA}

// outputOrder is the fixed order families appear in the projected catalog.
var outputOrder = []FamilyKey{FamilyPLA, FamilyPETG, FamilyTPU}

// Family is a canonical, deduplicated, label-sorted set of options shown as
// one choice group in the UI.
type Family struct {
	Key     string
	Name    string
	Options []MaterialOption
}

// reservedPrefix marks groups and options that are internal to the shop and
// never shown.
const reservedPrefix = "+"

// persianCollator orders derived labels the way a Persian reader expects.
var persianCollator = collate.New(language.Persian)

func classify(groupID string) (FamilyKey, bool) {
	id := strings.ToLower(groupID)
	for _, key := range classifyOrder {
		if strings.Contains(id, string(key)) {
			return key, true
		}
	}
	return "", false
}

// Project collapses raw groups into the public family catalog.
//
// Groups and options with the reserved "+" prefix are excluded, each raw
// group lands in at most one family (classification priority petg, tpu,
// pla), duplicate option ids keep their first occurrence, and families that
// end up empty are omitted. Malformed options (missing id) are skipped
// rather than failing the projection.
func Project(rawGroups []MaterialGroup) []Family {
	merged := make(map[FamilyKey][]MaterialOption)
	seen := make(map[FamilyKey]map[string]bool)

	for _, g := range rawGroups {
		if g.GroupID == "" || strings.HasPrefix(g.GroupID, reservedPrefix) {
			continue
		}
		key, ok := classify(g.GroupID)
		if !ok {
			continue
		}
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		for _, opt := range g.Options {
			if opt.ID == "" || strings.HasPrefix(opt.ID, reservedPrefix) {
				continue
			}
			if seen[key][opt.ID] {
				continue
			}
			seen[key][opt.ID] = true
			merged[key] = append(merged[key], opt)
		}
	}

	var families []Family
	for _, key := range outputOrder {
		opts := merged[key]
		if len(opts) == 0 {
			continue
		}
		sortOptions(opts, string(key))
		families = append(families, Family{
			Key:     string(key),
			Name:    familyNames[key],
			Options: opts,
		})
	}
	return families
}

// ProjectRaw exposes the unmerged staff view: one family per raw group,
// reserved entries still excluded, option order still label-sorted. Group
// order follows the catalog source.
func ProjectRaw(rawGroups []MaterialGroup) []Family {
	var families []Family
	for _, g := range rawGroups {
		if g.GroupID == "" || strings.HasPrefix(g.GroupID, reservedPrefix) {
			continue
		}
		var opts []MaterialOption
		for _, opt := range g.Options {
			if opt.ID == "" || strings.HasPrefix(opt.ID, reservedPrefix) {
				continue
			}
			opts = append(opts, opt)
		}
		if len(opts) == 0 {
			continue
		}
		sortOptions(opts, g.GroupID)
		name := g.GroupName
		if name == "" {
			name = Synthesize(g.GroupID)
		}
		families = append(families, Family{
			Key:     g.GroupID,
			Name:    name,
			Options: opts,
		})
	}
	return families
}

// sortOptions orders options by derived label under the Persian collation,
// ascending. Ties fall back to the raw id so the order is deterministic.
func sortOptions(opts []MaterialOption, familyKey string) {
	sort.SliceStable(opts, func(i, j int) bool {
		li := DisplayLabel(opts[i], familyKey)
		lj := DisplayLabel(opts[j], familyKey)
		if c := persianCollator.CompareString(li, lj); c != 0 {
			return c < 0
		}
		return opts[i].ID < opts[j].ID
	})
}

// FindOption looks an option id up across projected families.
func FindOption(families []Family, id string) (MaterialOption, bool) {
	for _, f := range families {
		for _, opt := range f.Options {
			if opt.ID == id {
				return opt, true
			}
		}
	}
	return MaterialOption{}, false
}
