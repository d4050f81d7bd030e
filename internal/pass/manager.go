package pass

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"tails/internal/ast"
	"tails/internal/codegen"
	"tails/internal/diag"
	"tails/internal/observ"
	"tails/internal/sema"
	"tails/internal/source"
	"tails/internal/symbols"
	"tails/internal/trace"
	"tails/internal/types"
)

// Annotations are the side tables produced for one compilation attempt,
// keyed by node or symbol ID.
type Annotations struct {
	Symbols  *symbols.Result
	TypeDefs sema.TypeDefCycles
	Types    *sema.TypeInfo
	Captures sema.Captures
	Safety   sema.SafetyReport
}

// Options configure a Manager.
type Options struct {
	// MaxDiagnostics bounds the aggregate bag; 0 means unbounded.
	MaxDiagnostics int
	// Disabled passes are not run; their dependents report unmet
	// dependencies.
	Disabled []ID
	// Generate enables the gated code generation pass.
	Generate  bool
	Generator codegen.Generator
	// NoShadowWarnings silences ShadowedBinding.
	NoShadowWarnings bool
	Timer            *observ.Timer
	// Observer, when set, is called synchronously as passes start and end.
	Observer func(Event)
}

// Output is the complete result of Manager.Run.
type Output struct {
	Diagnostics *diag.Bag
	// Errors counts Error-severity reports, including any the bag dropped.
	Errors int
	Results     map[ID]Result
	Order       []ID
	Annotations *Annotations
	Artifact    string
	// GenerateErr is the error returned by the generator, if any.
	GenerateErr error
	// IDs is the counter handed to Run, returned for the caller's next
	// allocation.
	IDs *ast.IDCounter
}

// HasErrors reports Error-severity diagnostics.
func (o *Output) HasErrors() bool {
	return o != nil && o.Errors > 0
}

// Ran reports whether id completed.
func (o *Output) Ran(id ID) bool {
	r, ok := o.Results[id]
	return ok && r.Kind != ResultUnmetDependencies
}

// Context is handed to every pass.
type Context struct {
	Context     context.Context
	Package     ast.Package
	IDs         *ast.IDCounter
	Reporter    diag.Reporter
	Interner    *types.Interner
	Annotations *Annotations
	Options     *Options
	Tracer      trace.Tracer
	Span        *trace.Span

	errors   *errorCounter
	artifact string
	genErr   error
}

// HasErrors reports whether any pass so far reported an error.
func (c *Context) HasErrors() bool { return c.errors.n > 0 }

func (c *Context) semaOptions() sema.Options {
	return sema.Options{Reporter: c.Reporter, Symbols: c.Annotations.Symbols, Types: c.Interner}
}

// errorCounter counts errors before the bag limit can drop them, so that
// gating never depends on the bag capacity.
type errorCounter struct {
	next  diag.Reporter
	n     int
	total int
}

func (r *errorCounter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.total++
	if sev >= diag.SevError {
		r.n++
	}
	r.next.Report(code, sev, primary, msg, notes)
}

// Manager runs registered passes in dependency order.
type Manager struct {
	reg  *Registry
	opts Options
}

func NewManager(reg *Registry, opts Options) *Manager {
	if reg == nil {
		reg = NewRegistry().AddAll()
	}
	return &Manager{reg: reg, opts: opts}
}

// Run analyses pkg. ids is the counter that allocated the package's node
// IDs; it is returned in the output untouched. Diagnostics never stop the
// pipeline; a Fault panics.
func (m *Manager) Run(ctx context.Context, pkg ast.Package, ids *ast.IDCounter) *Output {
	if ctx == nil {
		ctx = context.Background()
	}
	bag := diag.NewBag(m.opts.MaxDiagnostics)
	counter := &errorCounter{next: diag.BagReporter{Bag: bag}}
	tracer := trace.FromContext(ctx)

	pc := &Context{
		Context:     ctx,
		Package:     pkg,
		IDs:         ids,
		Reporter:    counter,
		Interner:    types.NewInterner(),
		Annotations: &Annotations{},
		Options:     &m.opts,
		Tracer:      tracer,
		errors:      counter,
	}
	out := &Output{
		Diagnostics: bag,
		Results:     make(map[ID]Result),
		Order:       m.reg.Order(),
		Annotations: pc.Annotations,
		IDs:         ids,
	}

	root := trace.Begin(tracer, trace.ScopeDriver, "analyze", trace.ParentFrom(ctx))
	for _, id := range out.Order {
		d, _ := m.reg.Get(id)
		if slices.Contains(m.opts.Disabled, id) {
			m.notify(id, StatusSkipped, Result{})
			continue
		}
		if d.Gated && (!m.opts.Generate || pc.HasErrors()) {
			m.notify(id, StatusSkipped, Result{})
			continue
		}
		var missing []ID
		for _, dep := range d.Deps {
			if !out.Ran(dep) {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			if d.Gated {
				// downstream consumers must never see partial annotations
				raise(FaultUnmetDependencies, id, missing...)
			}
			out.Results[id] = Result{Kind: ResultUnmetDependencies, Missing: missing}
			m.notify(id, StatusSkipped, out.Results[id])
			continue
		}
		m.notify(id, StatusRunning, Result{})
		errorsBefore := pc.errors.n
		res := m.runOne(pc, d, root)
		out.Results[id] = res
		if pc.errors.n > errorsBefore {
			m.notify(id, StatusFailed, res)
		} else {
			m.notify(id, StatusDone, res)
		}
	}
	out.Errors = counter.n
	out.Artifact = pc.artifact
	out.GenerateErr = pc.genErr
	root.WithExtra("diagnostics", strconv.Itoa(bag.Len())).End("")
	return out
}

func (m *Manager) runOne(pc *Context, d Descriptor, root *trace.Span) Result {
	sp := trace.Begin(pc.Tracer, trace.ScopePass, d.ID.String(), root.ID())
	phase := m.opts.Timer.Begin(d.ID.String())
	pc.Span = sp

	before := pc.errors.total
	res := d.Run(pc)
	res.Diagnostics = pc.errors.total - before
	if res.Diagnostics > 0 && res.Kind == ResultUnit {
		res.Kind = ResultDiagnostics
	}

	note := ""
	if res.Diagnostics > 0 {
		note = fmt.Sprintf("%d diagnostics", res.Diagnostics)
	}
	m.opts.Timer.End(phase, note)
	sp.WithExtra("diagnostics", strconv.Itoa(res.Diagnostics)).End(res.Kind.String())
	pc.Span = nil
	return res
}
