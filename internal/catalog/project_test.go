package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optIDs(f Family) []string {
	ids := make([]string, len(f.Options))
	for i, o := range f.Options {
		ids[i] = o.ID
	}
	return ids
}

func TestProjectMergesOverlappingGroups(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "pla_fast", Options: []MaterialOption{{ID: "a", Label: "آ"}, {ID: "b", Label: "ب"}}},
		{GroupID: "pla_silk", Options: []MaterialOption{{ID: "b", Label: "ب"}, {ID: "c", Label: "پ"}}},
	}
	families := Project(raw)
	require.Len(t, families, 1)
	assert.Equal(t, "pla", families[0].Key)
	// b appears once, order follows collated labels آ < ب < پ.
	assert.Equal(t, []string{"a", "b", "c"}, optIDs(families[0]))
}

func TestProjectClassificationPriority(t *testing.T) {
	// A group id containing both "petg" and "pla" classifies as PETG only.
	raw := []MaterialGroup{
		{GroupID: "petg_pla_mix", Options: []MaterialOption{{ID: "x"}}},
	}
	families := Project(raw)
	require.Len(t, families, 1)
	assert.Equal(t, "petg", families[0].Key)

	raw = []MaterialGroup{
		{GroupID: "tpu_pla_blend", Options: []MaterialOption{{ID: "y"}}},
	}
	families = Project(raw)
	require.Len(t, families, 1)
	assert.Equal(t, "tpu", families[0].Key)
}

func TestProjectFamilyOrderFixed(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "tpu_soft", Options: []MaterialOption{{ID: "t1"}}},
		{GroupID: "petg_clear", Options: []MaterialOption{{ID: "g1"}}},
		{GroupID: "pla_basic", Options: []MaterialOption{{ID: "p1"}}},
	}
	families := Project(raw)
	require.Len(t, families, 3)
	assert.Equal(t, "pla", families[0].Key)
	assert.Equal(t, "petg", families[1].Key)
	assert.Equal(t, "tpu", families[2].Key)
}

func TestProjectExcludesReservedEntries(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "+pla_internal", Options: []MaterialOption{{ID: "hidden"}}},
		{GroupID: "pla_basic", Options: []MaterialOption{
			{ID: "+prototype"},
			{ID: "pla_black"},
		}},
	}
	families := Project(raw)
	require.Len(t, families, 1)
	assert.Equal(t, []string{"pla_black"}, optIDs(families[0]))

	for _, f := range ProjectRaw(raw) {
		assert.NotContains(t, f.Key, "+")
		for _, id := range optIDs(f) {
			assert.NotContains(t, id, "+")
		}
	}
}

func TestProjectDropsUnclassifiableAndEmpty(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "resin_clear", Options: []MaterialOption{{ID: "r1"}}},
		{GroupID: "petg_all_reserved", Options: []MaterialOption{{ID: "+a"}, {ID: "+b"}}},
		{GroupID: "", Options: []MaterialOption{{ID: "orphan"}}},
	}
	assert.Empty(t, Project(raw))
}

func TestProjectSkipsMalformedOptions(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "pla", Options: []MaterialOption{{ID: ""}, {ID: "ok"}}},
	}
	families := Project(raw)
	require.Len(t, families, 1)
	assert.Equal(t, []string{"ok"}, optIDs(families[0]))
}

func TestProjectIdempotent(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "pla_fast", Options: []MaterialOption{{ID: "pla_black"}, {ID: "pla_white"}}},
		{GroupID: "pla_silk", Options: []MaterialOption{{ID: "pla_white"}, {ID: "pla_gold"}}},
	}
	first := Project(raw)
	require.Len(t, first, 1)

	// Feed the projector's own output back as a single canonical group.
	again := Project([]MaterialGroup{{
		GroupID: first[0].Key,
		Options: first[0].Options,
	}})
	require.Len(t, again, 1)
	assert.Equal(t, optIDs(first[0]), optIDs(again[0]))
}

func TestProjectRawKeepsGroupsUnmerged(t *testing.T) {
	raw := []MaterialGroup{
		{GroupID: "pla_fast", GroupName: "PLA Fast", Options: []MaterialOption{{ID: "a"}}},
		{GroupID: "pla_silk", Options: []MaterialOption{{ID: "b"}}},
	}
	families := ProjectRaw(raw)
	require.Len(t, families, 2)
	assert.Equal(t, "pla_fast", families[0].Key)
	assert.Equal(t, "PLA Fast", families[0].Name)
	assert.Equal(t, "pla_silk", families[1].Key)
	// Missing group name falls back to a synthesized one.
	assert.Equal(t, "PLA ابریشمی", families[1].Name)
}

func TestFindOption(t *testing.T) {
	families := Project([]MaterialGroup{
		{GroupID: "pla", Options: []MaterialOption{{ID: "pla_black"}}},
	})
	_, ok := FindOption(families, "pla_black")
	assert.True(t, ok)
	_, ok = FindOption(families, "missing")
	assert.False(t, ok)
}
