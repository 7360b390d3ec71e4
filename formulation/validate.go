package formulation

import (
	"fmt"
	"sort"
)

// Problem codes; the values match the worksheet issue codes so callers can forward them as-is.
const (
	CodeRequired            = "required"
	CodeDuplicateID         = "duplicate_id"
	CodeUnknownLayout       = "unknown_layout"
	CodeInvalidSlot         = "invalid_slot"
	CodeMissingSlot         = "missing_slot"
	CodeInvalidReference    = "invalid_reference"
	CodeUnresolvedReference = "unresolved_reference"
)

// Target says which collection a Problem points into.
type Target string

const (
	TargetLayout     Target = "layout"
	TargetNode       Target = "nodes"
	TargetConnection Target = "connections"
)

// Problem is a single topology violation. Index is the offending node or connection
// position, -1 for diagram-level problems.
type Problem struct {
	Target  Target
	Index   int
	NodeID  string
	Code    string
	Message string
}

// ValidateGraph checks nodes and connections against the layout template and
// returns every violation found.
func ValidateGraph(l Layout, nodes []Node, conns []Connection) []Problem {
	if !l.Valid() {
		return []Problem{{
			Target:  TargetLayout,
			Index:   -1,
			Code:    CodeUnknownLayout,
			Message: fmt.Sprintf("unknown layout %q", l),
		}}
	}
	var out []Problem
	ids := map[string]int{}
	occupied := map[Slot]string{}
	for i, n := range nodes {
		if n.ID == "" {
			out = append(out, Problem{Target: TargetNode, Index: i, Code: CodeRequired, Message: "node id is required"})
		} else if j, dup := ids[n.ID]; dup {
			out = append(out, Problem{Target: TargetNode, Index: i, NodeID: n.ID, Code: CodeDuplicateID,
				Message: fmt.Sprintf("node id %q already used by node %d", n.ID, j)})
		} else {
			ids[n.ID] = i
		}
		if !ValidSlot(l, n.Slot) {
			msg := fmt.Sprintf("slot %q is not legal for layout %s", n.Slot, l)
			if l == ThreeSystems && n.Slot == Centre {
				msg = "three_systems diagrams have no centre node"
			}
			out = append(out, Problem{Target: TargetNode, Index: i, NodeID: n.ID, Code: CodeInvalidSlot, Message: msg})
			continue
		}
		if other, taken := occupied[n.Slot]; taken {
			out = append(out, Problem{Target: TargetNode, Index: i, NodeID: n.ID, Code: CodeInvalidSlot,
				Message: fmt.Sprintf("slot %q already occupied by node %q", n.Slot, other)})
			continue
		}
		occupied[n.Slot] = n.ID
		fieldIDs := map[string]bool{}
		for _, f := range n.Fields {
			if f.ID == "" {
				out = append(out, Problem{Target: TargetNode, Index: i, NodeID: n.ID, Code: CodeRequired, Message: "node field id is required"})
				continue
			}
			if fieldIDs[f.ID] {
				out = append(out, Problem{Target: TargetNode, Index: i, NodeID: n.ID, Code: CodeDuplicateID,
					Message: fmt.Sprintf("node field id %q is declared twice", f.ID)})
			}
			fieldIDs[f.ID] = true
		}
	}

	for _, s := range RequiredSlots(l) {
		if _, ok := occupied[s]; !ok {
			out = append(out, Problem{Target: TargetLayout, Index: -1, Code: CodeMissingSlot,
				Message: fmt.Sprintf("layout %s requires a node in slot %q", l, s)})
		}
	}
	if l == ThreeSystems && len(nodes) != SystemCount {
		out = append(out, Problem{Target: TargetLayout, Index: -1, Code: CodeInvalidSlot,
			Message: fmt.Sprintf("three_systems requires exactly %d nodes, got %d", SystemCount, len(nodes))})
	}
	out = append(out, checkContiguous(l, occupied)...)

	seen := map[Connection]bool{}
	for i, c := range conns {
		if _, ok := ids[c.From]; !ok {
			out = append(out, Problem{Target: TargetConnection, Index: i, NodeID: c.From, Code: CodeUnresolvedReference,
				Message: fmt.Sprintf("connection source %q is not a declared node", c.From)})
		}
		if _, ok := ids[c.To]; !ok {
			out = append(out, Problem{Target: TargetConnection, Index: i, NodeID: c.To, Code: CodeUnresolvedReference,
				Message: fmt.Sprintf("connection target %q is not a declared node", c.To)})
		}
		if c.From != "" && c.From == c.To {
			out = append(out, Problem{Target: TargetConnection, Index: i, NodeID: c.From, Code: CodeInvalidReference,
				Message: "connection cannot loop back to its own node"})
		}
		key := Connection{From: c.From, To: c.To}
		if seen[key] {
			out = append(out, Problem{Target: TargetConnection, Index: i, NodeID: c.From, Code: CodeDuplicateID,
				Message: fmt.Sprintf("connection %s is declared twice", key)})
		}
		seen[key] = true
	}
	return out
}

// checkContiguous enforces gap-free numbering of indexed slots (petals, steps, ring
// positions) and an all-or-nothing terminal grid.
func checkContiguous(l Layout, occupied map[Slot]string) []Problem {
	byPrefix := map[string][]int{}
	for s := range occupied {
		if p, n, ok := slotIndex(s); ok {
			byPrefix[p] = append(byPrefix[p], n)
		}
	}
	var out []Problem
	for _, p := range []string{petalPrefix, stepPrefix, cyclePrefix} {
		idx := byPrefix[p]
		sort.Ints(idx)
		for want, got := range idx {
			if got != want {
				out = append(out, Problem{Target: TargetLayout, Index: -1, Code: CodeMissingSlot,
					Message: fmt.Sprintf("slot %q is missing before %q", fmt.Sprintf("%s%d", p, want), fmt.Sprintf("%s%d", p, got))})
				break
			}
		}
	}
	if g := len(byPrefix[gridPrefix]); g > 0 && g != GridCells {
		out = append(out, Problem{Target: TargetLayout, Index: -1, Code: CodeMissingSlot,
			Message: fmt.Sprintf("terminal grid needs all %d cells, got %d", GridCells, g)})
	}
	if g := len(byPrefix[gridPrefix]); g > 0 && len(byPrefix[stepPrefix]) == 0 {
		out = append(out, Problem{Target: TargetLayout, Index: -1, Code: CodeMissingSlot,
			Message: "terminal grid requires at least one step"})
	}
	if l == Cycle && len(byPrefix[cyclePrefix]) == 1 {
		out = append(out, Problem{Target: TargetLayout, Index: -1, Code: CodeMissingSlot,
			Message: "a cycle needs at least two nodes"})
	}
	return out
}
