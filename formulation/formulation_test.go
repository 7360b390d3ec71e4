package formulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(pairs ...string) []Node {
	out := make([]Node, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Node{ID: pairs[i], Slot: Slot(pairs[i+1])})
	}
	return out
}

func codes(ps []Problem) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Code)
	}
	return out
}

func TestLayoutSlots(t *testing.T) {
	assert.Equal(t, []Slot{Top, Left, Centre, Right, Bottom}, LayoutSlots(CrossSectional))
	assert.Len(t, LayoutSlots(Radial), 1+MaxPetals)
	assert.Equal(t, Petal(0), LayoutSlots(Radial)[1])
	assert.Len(t, LayoutSlots(VerticalFlow), MaxSteps+GridCells)
	assert.Equal(t, Grid(0), LayoutSlots(VerticalFlow)[MaxSteps])
	assert.Len(t, LayoutSlots(Cycle), MaxCycleNodes)
	assert.Equal(t, []Slot{"system-0", "system-1", "system-2"}, LayoutSlots(ThreeSystems))
	assert.Nil(t, LayoutSlots("spiral"))

	assert.True(t, ValidSlot(Radial, "petal-7"))
	assert.False(t, ValidSlot(Radial, "petal-8"))
	assert.False(t, ValidSlot(ThreeSystems, Centre))
}

func TestValidateGraph(t *testing.T) {
	cases := []struct {
		name  string
		l     Layout
		nodes []Node
		conns []Connection
		want  []string
	}{
		{"valid star", CrossSectional, nodes("c", "centre", "t", "top"), []Connection{{From: "c", To: "t"}}, nil},
		{"unknown layout", "spiral", nil, nil, []string{CodeUnknownLayout}},
		{"missing centre", Radial, nodes("p", "petal-0"), nil, []string{CodeMissingSlot}},
		{"three systems with a centre", ThreeSystems,
			nodes("a", "system-0", "b", "system-1", "c", "system-2", "hub", "centre"), nil,
			[]string{CodeInvalidSlot, CodeInvalidSlot}},
		{"three systems short", ThreeSystems, nodes("a", "system-0", "b", "system-1"), nil,
			[]string{CodeMissingSlot, CodeInvalidSlot}},
		{"slot taken twice", CrossSectional, nodes("c", "centre", "d", "centre"), nil, []string{CodeInvalidSlot}},
		{"duplicate node id", CrossSectional, nodes("c", "centre", "c", "top"), nil, []string{CodeDuplicateID}},
		{"gap in petals", Radial, nodes("c", "centre", "p0", "petal-0", "p2", "petal-2"), nil, []string{CodeMissingSlot}},
		{"partial grid", VerticalFlow, nodes("s", "step-0", "g", "grid-0"), nil, []string{CodeMissingSlot}},
		{"grid without steps", VerticalFlow,
			nodes("g0", "grid-0", "g1", "grid-1", "g2", "grid-2", "g3", "grid-3"), nil, []string{CodeMissingSlot}},
		{"lonely cycle", Cycle, nodes("a", "cycle-0"), nil, []string{CodeMissingSlot}},
		{"dangling connection", Cycle, nodes("a", "cycle-0", "b", "cycle-1"), []Connection{{From: "a", To: "z"}},
			[]string{CodeUnresolvedReference}},
		{"self loop", Cycle, nodes("a", "cycle-0", "b", "cycle-1"), []Connection{{From: "a", To: "a"}},
			[]string{CodeInvalidReference}},
		{"duplicate connection", Cycle, nodes("a", "cycle-0", "b", "cycle-1"),
			[]Connection{{From: "a", To: "b"}, {From: "a", To: "b", Label: "again"}}, []string{CodeDuplicateID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ValidateGraph(tc.l, tc.nodes, tc.conns)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tc.want, codes(got), "%+v", got)
		})
	}
}

func TestValidateGraph_ThreeSystemsCentreMessage(t *testing.T) {
	got := ValidateGraph(ThreeSystems, nodes("a", "system-0", "b", "system-1", "c", "system-2", "hub", "centre"), nil)
	require.NotEmpty(t, got)
	assert.Equal(t, 3, got[0].Index)
	assert.Equal(t, "hub", got[0].NodeID)
	assert.Contains(t, got[0].Message, "no centre")
}

func TestTemplate(t *testing.T) {
	star := Template(CrossSectional, nodes("t", "top", "c", "centre", "b", "bottom"))
	assert.Equal(t, []Connection{{From: "c", To: "t"}, {From: "c", To: "b"}}, star)

	flow := Template(VerticalFlow, nodes("s0", "step-0", "s1", "step-1", "g0", "grid-0", "g1", "grid-1", "g2", "grid-2", "g3", "grid-3"))
	assert.Equal(t, []Connection{
		{From: "s0", To: "s1"},
		{From: "s1", To: "g0"}, {From: "s1", To: "g1"}, {From: "s1", To: "g2"}, {From: "s1", To: "g3"},
	}, flow)

	ring := Template(ThreeSystems, nodes("a", "system-0", "b", "system-1", "c", "system-2"))
	assert.Equal(t, []Connection{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}}, ring)
	assert.Empty(t, ValidateGraph(ThreeSystems, nodes("a", "system-0", "b", "system-1", "c", "system-2"), ring))

	assert.Nil(t, Template(Cycle, nodes("a", "cycle-0")))
	assert.Equal(t, "a->b", Connection{From: "a", To: "b"}.String())
}
