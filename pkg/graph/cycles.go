package graph

import "strings"

// Cycles returns every distinct dependency cycle in the graph. Each cycle
// lists the components in traversal order without repeating the first
// element; cycles that differ only in starting point are reported once.
// Self edges are excluded - they are surfaced as their own warning.
// The result is computed once and cached.
func (g *Graph) Cycles() [][]string {
	g.cyclesOnce.Do(func() { g.cycles = g.findCycles() })
	return g.cycles
}

const (
	nodeWhite = iota // not visited
	nodeGray         // on the current DFS path
	nodeBlack        // fully explored
)

func (g *Graph) findCycles() [][]string {
	adj := make(map[string][]string, len(g.Components))
	for _, e := range g.Edges {
		if e.From == e.To {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}

	state := make(map[string]int, len(g.Components))
	var stack []string
	var cycles [][]string
	seen := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		state[name] = nodeGray
		stack = append(stack, name)
		for _, next := range adj[name] {
			switch state[next] {
			case nodeWhite:
				visit(next)
			case nodeGray:
				// Back edge: the cycle is the stack suffix starting at next.
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle := g.canonicalCycle(append([]string(nil), stack[i:]...))
						key := strings.Join(cycle, " -> ")
						if !seen[key] {
							seen[key] = true
							cycles = append(cycles, cycle)
						}
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = nodeBlack
	}

	for _, c := range g.Components {
		if state[c.Name] == nodeWhite {
			visit(c.Name)
		}
	}
	return cycles
}

// canonicalCycle rotates the cycle so the component declared earliest comes
// first, giving one stable spelling per distinct cycle.
func (g *Graph) canonicalCycle(cycle []string) []string {
	best := 0
	for i := 1; i < len(cycle); i++ {
		if g.componentIndex[cycle[i]] < g.componentIndex[cycle[best]] {
			best = i
		}
	}
	if best == 0 {
		return cycle
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[best:]...)
	rotated = append(rotated, cycle[:best]...)
	return rotated
}
