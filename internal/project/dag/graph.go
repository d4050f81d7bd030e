package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// NodeID is a dense index into a Graph.
type NodeID uint32

// Graph is a directed graph over dense node indices.
type Graph struct {
	Edges   [][]NodeID // Edges[from] = []to
	Indeg   []int      // входящие степени для Kahn (учитывает только присутствующие узлы)
	Present []bool     // признак, что узел реально существует (а не только упоминается)
}

// NewGraph allocates a graph with n present nodes and no edges.
func NewGraph(n int) Graph {
	g := Graph{
		Edges:   make([][]NodeID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for i := range g.Present {
		g.Present[i] = true
	}
	return g
}

// Len reports the number of node slots.
func (g Graph) Len() int { return len(g.Edges) }

// AddEdge inserts from -> to once; repeated edges are ignored. Edges to
// absent nodes are kept but do not count towards in-degree.
func (g *Graph) AddEdge(from, to NodeID) {
	if int(from) >= len(g.Edges) || int(to) >= len(g.Edges) {
		panic(fmt.Sprintf("dag: edge %d -> %d out of range", from, to))
	}
	if slices.Contains(g.Edges[from], to) {
		return
	}
	g.Edges[from] = append(g.Edges[from], to)
	if g.Present[to] {
		g.Indeg[to]++
	}
}

// SortEdges orders adjacency lists so traversals are deterministic.
func (g *Graph) SortEdges() {
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}
