package dag

import "slices"

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// FindCycles runs a depth-first search with an on-stack marker over every
// present node and returns each cycle closed by a back edge. A cycle is
// listed once, rotated so that its smallest node comes first; a self-loop is
// a cycle of length one. Results are sorted for stable reporting.
func FindCycles(g Graph) [][]NodeID {
	states := make([]visitState, len(g.Edges))
	stack := make([]NodeID, 0, 16)
	onStack := make([]int, len(g.Edges)) // позиция в стеке + 1
	seen := make(map[string]struct{})
	var cycles [][]NodeID

	var visit func(id NodeID)
	visit = func(id NodeID) {
		states[id] = stateVisiting
		stack = append(stack, id)
		onStack[id] = len(stack)
		for _, next := range g.Edges[id] {
			if !g.Present[next] {
				continue
			}
			switch states[next] {
			case stateVisiting:
				cycle := canonicalCycle(stack[onStack[next]-1:])
				key := cycleKey(cycle)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					cycles = append(cycles, cycle)
				}
			case 0:
				visit(next)
			}
		}
		stack = stack[:len(stack)-1]
		onStack[id] = 0
		states[id] = stateDone
	}

	for i := range g.Edges {
		if g.Present[i] && states[i] == 0 {
			visit(nodeID(i))
		}
	}
	slices.SortFunc(cycles, slices.Compare[[]NodeID])
	return cycles
}

func canonicalCycle(path []NodeID) []NodeID {
	minAt := 0
	for i, id := range path {
		if id < path[minAt] {
			minAt = i
		}
	}
	out := make([]NodeID, 0, len(path))
	out = append(out, path[minAt:]...)
	out = append(out, path[:minAt]...)
	return out
}

func cycleKey(cycle []NodeID) string {
	b := make([]byte, 0, len(cycle)*4)
	for _, id := range cycle {
		b = append(b, byte(id>>24), byte(id>>16), byte(id>>8), byte(id))
	}
	return string(b)
}
