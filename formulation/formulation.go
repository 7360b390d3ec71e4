// Package formulation models the spatial node-and-connection diagrams used by formulation
// fields. Each layout is a fixed graph template with a closed, ordered slot vocabulary; the
// package validates diagrams against their template but never lays out arbitrary graphs.
package formulation

import (
	"fmt"
	"strconv"
	"strings"
)

// Layout names one of the fixed diagram templates.
type Layout string

const (
	CrossSectional Layout = "cross_sectional" // star: centre plus four compass slots
	Radial         Layout = "radial"          // radial star: centre plus petals
	VerticalFlow   Layout = "vertical_flow"   // chain of steps with an optional terminal 2x2 grid
	Cycle          Layout = "cycle"           // directed ring
	ThreeSystems   Layout = "three_systems"   // triangle of exactly three systems, no centre
)

// Slot vocabulary limits.
const (
	MaxPetals     = 8
	MaxSteps      = 8
	GridCells     = 4
	MaxCycleNodes = 8
	SystemCount   = 3
)

// Slot is a position in a layout template.
type Slot string

const (
	Top    Slot = "top"
	Left   Slot = "left"
	Centre Slot = "centre"
	Right  Slot = "right"
	Bottom Slot = "bottom"
)

const (
	petalPrefix  = "petal-"
	stepPrefix   = "step-"
	gridPrefix   = "grid-"
	cyclePrefix  = "cycle-"
	systemPrefix = "system-"
)

// Petal returns the i-th petal slot of a radial layout.
func Petal(i int) Slot { return Slot(petalPrefix + strconv.Itoa(i)) }

// Step returns the i-th step slot of a vertical flow.
func Step(i int) Slot { return Slot(stepPrefix + strconv.Itoa(i)) }

// Grid returns the i-th cell of the terminal grid of a vertical flow.
func Grid(i int) Slot { return Slot(gridPrefix + strconv.Itoa(i)) }

// Ring returns the i-th slot of a cycle layout.
func Ring(i int) Slot { return Slot(cyclePrefix + strconv.Itoa(i)) }

// System returns the i-th slot of a three-systems layout.
func System(i int) Slot { return Slot(systemPrefix + strconv.Itoa(i)) }

// Layouts lists every supported layout in declaration order.
func Layouts() []Layout {
	return []Layout{CrossSectional, Radial, VerticalFlow, Cycle, ThreeSystems}
}

// Valid reports whether l is one of the fixed layouts.
func (l Layout) Valid() bool {
	switch l {
	case CrossSectional, Radial, VerticalFlow, Cycle, ThreeSystems:
		return true
	default:
		return false
	}
}

// LayoutSlots returns the ordered vocabulary of legal slots for a layout,
// or nil when the layout is unknown.
func LayoutSlots(l Layout) []Slot {
	switch l {
	case CrossSectional:
		return []Slot{Top, Left, Centre, Right, Bottom}
	case Radial:
		out := []Slot{Centre}
		for i := 0; i < MaxPetals; i++ {
			out = append(out, Petal(i))
		}
		return out
	case VerticalFlow:
		out := make([]Slot, 0, MaxSteps+GridCells)
		for i := 0; i < MaxSteps; i++ {
			out = append(out, Step(i))
		}
		for i := 0; i < GridCells; i++ {
			out = append(out, Grid(i))
		}
		return out
	case Cycle:
		out := make([]Slot, 0, MaxCycleNodes)
		for i := 0; i < MaxCycleNodes; i++ {
			out = append(out, Ring(i))
		}
		return out
	case ThreeSystems:
		return []Slot{System(0), System(1), System(2)}
	default:
		return nil
	}
}

// ValidSlot reports whether s belongs to the vocabulary of l.
func ValidSlot(l Layout, s Slot) bool {
	for _, it := range LayoutSlots(l) {
		if it == s {
			return true
		}
	}
	return false
}

// RequiredSlots returns the slots every diagram of the layout must fill.
func RequiredSlots(l Layout) []Slot {
	switch l {
	case CrossSectional, Radial:
		return []Slot{Centre}
	case ThreeSystems:
		return []Slot{System(0), System(1), System(2)}
	default:
		return nil
	}
}

// slotIndex splits an indexed slot such as "petal-3" into its prefix and index.
func slotIndex(s Slot) (string, int, bool) {
	str := string(s)
	i := strings.LastIndexByte(str, '-')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(str[i+1:])
	if err != nil {
		return "", 0, false
	}
	return str[:i+1], n, true
}

// Node is a diagram box occupying one slot. Its fields are free-text areas.
type Node struct {
	ID     string      `json:"id"`
	Slot   Slot        `json:"slot"`
	Label  string      `json:"label,omitempty"`
	Fields []NodeField `json:"fields,omitempty"`
}

// NodeField is a textarea-like input inside a node.
type NodeField struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Connection is a directed arrow between two nodes.
type Connection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

func (c Connection) String() string { return fmt.Sprintf("%s->%s", c.From, c.To) }
