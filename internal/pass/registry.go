package pass

import (
	"slices"

	"tails/internal/project/dag"
)

// Descriptor registers a pass. Gated passes run only when the aggregate
// diagnostics hold no errors.
type Descriptor struct {
	ID    ID
	Deps  []ID
	Gated bool
	Run   func(*Context) Result
}

// Registry holds pass descriptors.
type Registry struct {
	passes map[ID]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{passes: make(map[ID]Descriptor)}
}

// Add registers d. Registering an ID twice is a fault.
func (r *Registry) Add(d Descriptor) {
	if _, dup := r.passes[d.ID]; dup {
		raise(FaultDuplicatePass, d.ID)
	}
	d.Deps = slices.Clone(d.Deps)
	r.passes[d.ID] = d
}

// AddAll registers the standard pipeline.
func (r *Registry) AddAll() *Registry {
	r.Add(Descriptor{ID: Resolution, Run: runResolution})
	r.Add(Descriptor{ID: TypeDefCycles, Deps: []ID{Resolution}, Run: runTypeDefCycles})
	r.Add(Descriptor{ID: TypeInference, Deps: []ID{Resolution}, Run: runInference})
	r.Add(Descriptor{ID: CaptureAnalysis, Deps: []ID{Resolution, TypeInference}, Run: runCaptures})
	r.Add(Descriptor{ID: SafetyCheck, Deps: []ID{Resolution}, Run: runSafety})
	r.Add(Descriptor{
		ID:    CodeGen,
		Deps:  []ID{Resolution, TypeDefCycles, TypeInference, CaptureAnalysis, SafetyCheck},
		Gated: true,
		Run:   runCodeGen,
	})
	return r
}

// Get returns the descriptor of id.
func (r *Registry) Get(id ID) (Descriptor, bool) {
	d, ok := r.passes[id]
	return d, ok
}

// Order returns the passes in dependency order, ties broken by ID. A
// dependency on an unregistered pass or a cycle is a fault.
func (r *Registry) Order() []ID {
	ids := make([]ID, 0, len(r.passes))
	for id := range r.passes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	index := make(map[ID]dag.NodeID, len(ids))
	for i, id := range ids {
		index[id] = dag.NodeID(i) //nolint:gosec // bounded by the number of pass IDs
	}

	g := dag.NewGraph(len(ids))
	for _, id := range ids {
		for _, dep := range r.passes[id].Deps {
			from, ok := index[dep]
			if !ok {
				raise(FaultUnknownDependency, id, dep)
			}
			g.AddEdge(from, index[id])
		}
	}
	g.SortEdges()

	topo := dag.ToposortKahn(g)
	if topo.Cyclic {
		first := dag.FindCycles(g)[0]
		cycle := make([]ID, len(first))
		for i, n := range first {
			cycle[i] = ids[n]
		}
		raise(FaultDependencyCycle, cycle[0], cycle[1:]...)
	}
	out := make([]ID, len(topo.Order))
	for i, n := range topo.Order {
		out[i] = ids[n]
	}
	return out
}
