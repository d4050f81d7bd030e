package dag

import (
	"reflect"
	"testing"
)

func TestBuildIndexSortsNames(t *testing.T) {
	idx := BuildIndex([]string{"lib/util", "core/main", "lib/math", "lib/util", ""})
	wantNames := []string{"core/main", "lib/math", "lib/util"}
	if len(idx.IDToName) != len(wantNames) {
		t.Fatalf("unexpected node count: %d", len(idx.IDToName))
	}
	for i, want := range wantNames {
		if got := idx.IDToName[i]; got != want {
			t.Fatalf("idx.IDToName[%d] = %q, want %q", i, got, want)
		}
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestToposortKahnBatches(t *testing.T) {
	// a -> b, a -> c, b -> d, c -> d
	idx := BuildIndex([]string{"a", "b", "c", "d"})
	g := NewGraph(4)
	edge := func(from, to string) { g.AddEdge(idx.NameToID[from], idx.NameToID[to]) }
	edge("a", "b")
	edge("a", "c")
	edge("b", "d")
	edge("c", "d")
	edge("c", "d")

	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", topo.Cycles)
	}
	if got := idx.Names(topo.Order); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("order = %v", got)
	}
	if len(topo.Batches) != 3 || len(topo.Batches[1]) != 2 {
		t.Fatalf("batches = %v", topo.Batches)
	}
}

func TestToposortKahnReportsCycleMembers(t *testing.T) {
	g := NewGraph(4)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(2, 3)

	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("expected cycle")
	}
	if !reflect.DeepEqual(topo.Cycles, []NodeID{1, 2, 3}) {
		t.Fatalf("cycles = %v", topo.Cycles)
	}
}

func TestFindCycles(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]NodeID
		want  [][]NodeID
	}{
		{name: "acyclic", n: 3, edges: [][2]NodeID{{0, 1}, {1, 2}, {0, 2}}, want: nil},
		{name: "self loop", n: 2, edges: [][2]NodeID{{1, 1}}, want: [][]NodeID{{1}}},
		{name: "mutual", n: 2, edges: [][2]NodeID{{1, 0}, {0, 1}}, want: [][]NodeID{{0, 1}}},
		{name: "trio", n: 3, edges: [][2]NodeID{{2, 0}, {0, 1}, {1, 2}}, want: [][]NodeID{{0, 1, 2}}},
		{name: "two disjoint", n: 4, edges: [][2]NodeID{{0, 1}, {1, 0}, {2, 3}, {3, 2}}, want: [][]NodeID{{0, 1}, {2, 3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGraph(tc.n)
			for _, e := range tc.edges {
				g.AddEdge(e[0], e[1])
			}
			g.SortEdges()
			got := FindCycles(g)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("FindCycles = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindCyclesIgnoresAbsentNodes(t *testing.T) {
	g := NewGraph(2)
	g.Present[1] = false
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	if got := FindCycles(g); len(got) != 0 {
		t.Fatalf("absent nodes must not form cycles: %v", got)
	}
}
