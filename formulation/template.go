package formulation

// Template returns the canonical connections of the layout for the given nodes:
// centre to every other slot for star layouts, a chain of steps feeding each grid
// cell for vertical flows, a closed ring for cycles and a triangle for three systems.
// Slots without a node are skipped.
func Template(l Layout, nodes []Node) []Connection {
	bySlot := make(map[Slot]string, len(nodes))
	for _, n := range nodes {
		bySlot[n.Slot] = n.ID
	}
	var ordered []string
	for _, s := range LayoutSlots(l) {
		if id, ok := bySlot[s]; ok {
			ordered = append(ordered, id)
		}
	}

	var out []Connection
	link := func(from, to string) {
		if from != "" && to != "" && from != to {
			out = append(out, Connection{From: from, To: to})
		}
	}
	switch l {
	case CrossSectional, Radial:
		centre := bySlot[Centre]
		for _, id := range ordered {
			link(centre, id)
		}
	case VerticalFlow:
		var last string
		for i := 0; i < MaxSteps; i++ {
			id, ok := bySlot[Step(i)]
			if !ok {
				break
			}
			link(last, id)
			last = id
		}
		for i := 0; i < GridCells; i++ {
			link(last, bySlot[Grid(i)])
		}
	case Cycle, ThreeSystems:
		if len(ordered) < 2 {
			return nil
		}
		for i, id := range ordered {
			link(id, ordered[(i+1)%len(ordered)])
		}
	}
	return out
}
