// Package graph is a small directed-graph helper for dependency analysis.
// Edges point from a reader to what it reads; orders list dependencies first.
package graph

// Graph is a directed graph over string ids. Iteration follows insertion order so
// results are deterministic.
type Graph struct {
	nodes    []string
	index    map[string]int
	outgoing map[string][]string
	incoming map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode registers id; repeated calls are no-ops.
func (g *Graph) AddNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
}

// AddEdge records that from reads to. Both ends are registered.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, t := range g.outgoing[from] {
		if t == to {
			return
		}
	}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
}

// Nodes returns ids in insertion order.
func (g *Graph) Nodes() []string { return append([]string(nil), g.nodes...) }

// Reads returns the direct dependencies of id.
func (g *Graph) Reads(id string) []string { return append([]string(nil), g.outgoing[id]...) }

const (
	white = iota
	grey
	black
)

// Cycles returns every cycle found by a depth-first search, each as the ids along the
// cycle with the first id repeated at the end. A self-loop yields [a a].
func (g *Graph) Cycles() [][]string {
	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycles [][]string
	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		for _, next := range g.outgoing[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				start := len(stack) - 1
				for start >= 0 && stack[start] != next {
					start--
				}
				cyc := append([]string(nil), stack[start:]...)
				cycles = append(cycles, append(cyc, next))
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}
	for _, id := range g.nodes {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

// TopoOrder returns every node so that each appears after all nodes it reads.
// ok is false when the graph has a cycle; the order is then partial.
func (g *Graph) TopoOrder() (order []string, ok bool) {
	color := make(map[string]int, len(g.nodes))
	ok = true
	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		for _, next := range g.outgoing[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				ok = false
			}
		}
		color[id] = black
		order = append(order, id)
	}
	for _, id := range g.nodes {
		if color[id] == white {
			visit(id)
		}
	}
	return order, ok
}

// Readers returns every node that transitively reads any of ids, excluding ids
// themselves unless they are reached through another node, in insertion order.
func (g *Graph) Readers(ids ...string) []string {
	seen := make(map[string]bool)
	queue := append([]string(nil), ids...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, r := range g.incoming[cur] {
			if !seen[r] {
				seen[r] = true
				queue = append(queue, r)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, id := range g.nodes {
		if seen[id] {
			out = append(out, id)
		}
	}
	return out
}
