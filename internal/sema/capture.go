package sema

import (
	"tails/internal/ast"
	"tails/internal/source"
	"tails/internal/symbols"
	"tails/internal/types"
)

// CaptureMode says how a closure carries an outer variable.
type CaptureMode uint8

const (
	CaptureByValue CaptureMode = iota
	CaptureBySharedRef
	CaptureSelfRef
)

func (m CaptureMode) String() string {
	switch m {
	case CaptureByValue:
		return "by-value"
	case CaptureBySharedRef:
		return "by-shared-reference"
	case CaptureSelfRef:
		return "self-reference"
	}
	return "invalid"
}

// CaptureKind separates named bindings from the closure's own name.
type CaptureKind uint8

const (
	CaptureBinding CaptureKind = iota
	CaptureSelf
)

func (k CaptureKind) String() string {
	if k == CaptureSelf {
		return "self"
	}
	return "binding"
}

// Capture is one entry of a capture set.
type Capture struct {
	Symbol symbols.SymbolID
	Name   string
	Kind   CaptureKind
	Mode   CaptureMode
	// Span is the first use inside the closure.
	Span source.Span
}

// CaptureSet lists what a closure needs from its defining environment, in
// order of first use.
type CaptureSet struct {
	Closure ast.NodeID
	Entries []Capture
}

// Lookup finds the entry for sym.
func (s *CaptureSet) Lookup(sym symbols.SymbolID) (Capture, bool) {
	if s == nil {
		return Capture{}, false
	}
	for _, c := range s.Entries {
		if c.Symbol == sym {
			return c, true
		}
	}
	return Capture{}, false
}

// Captures maps every closure literal to its capture set.
type Captures map[ast.NodeID]*CaptureSet

// AnalyzeCaptures computes the capture set of every closure in pkg. A
// variable used by a nested closure is also captured by each enclosing
// closure that does not declare it.
func AnalyzeCaptures(pkg ast.Package, opts Options, info *TypeInfo) Captures {
	out := make(Captures)
	if opts.Symbols == nil {
		return out
	}
	a := &captureAnalyzer{
		res:     opts.Symbols,
		info:    info,
		out:     out,
		mutated: make(map[ast.NodeID]bool),
	}
	for _, mod := range pkg.Modules() {
		ast.Walk(captureVisitor{a: a}, mod)
	}
	return out
}

type closureFrame struct {
	id    ast.NodeID
	scope symbols.ScopeID
	set   *CaptureSet
}

type captureAnalyzer struct {
	res   *symbols.Result
	info  *TypeInfo
	out   Captures
	stack []closureFrame
	// mutated holds refs written to by an assignment
	mutated map[ast.NodeID]bool
}

type captureVisitor struct {
	a       *captureAnalyzer
	closure bool
}

func (v captureVisitor) Visit(n ast.Node) ast.Visitor {
	a := v.a
	switch n := n.(type) {
	case nil:
		if v.closure {
			a.stack = a.stack[:len(a.stack)-1]
		}
		return nil
	case *ast.Closure:
		set := &CaptureSet{Closure: n.ID}
		a.out[n.ID] = set
		a.stack = append(a.stack, closureFrame{id: n.ID, scope: a.res.Scopes[n.ID], set: set})
		return captureVisitor{a: a, closure: true}
	case *ast.Assign:
		if ref := placeRoot(n.Target); ref != nil {
			a.mutated[ref.ID] = true
		}
	case *ast.Ref:
		a.use(n)
	}
	return captureVisitor{a: a}
}

// placeRoot returns the binding an assignment target writes into, looking
// through field and tuple projections.
func placeRoot(e ast.Expr) *ast.Ref {
	for {
		switch x := e.(type) {
		case *ast.Ref:
			return x
		case *ast.FieldAccess:
			e = x.X
		case *ast.TupleIndex:
			e = x.X
		default:
			return nil
		}
	}
}

func (a *captureAnalyzer) use(ref *ast.Ref) {
	if len(a.stack) == 0 || ref.Qualifier != nil {
		return
	}
	sid, sym := a.res.RefSymbol(ref.ID)
	if sym == nil || !sym.Kind.IsLocal() {
		return
	}
	mode := a.modeOf(sid)
	if a.mutated[ref.ID] {
		mode = CaptureBySharedRef
	}
	name := a.res.Table.Name(sid)
	for i := len(a.stack) - 1; i >= 0; i-- {
		fr := a.stack[i]
		if sym.Kind == symbols.SymbolClosureSelf && sym.Decl == fr.id {
			fr.set.add(Capture{Symbol: sid, Name: name, Kind: CaptureSelf, Mode: CaptureSelfRef, Span: ref.Span})
			return
		}
		if a.res.Table.Within(sym.Scope, fr.scope) {
			return // declared inside this closure
		}
		fr.set.add(Capture{Symbol: sid, Name: name, Kind: CaptureBinding, Mode: mode, Span: ref.Span})
	}
}

// modeOf classifies by the inferred type: indirections and aggregates are
// shared, scalars and functions are copied.
func (a *captureAnalyzer) modeOf(sym symbols.SymbolID) CaptureMode {
	if a.info == nil || a.info.Interner == nil {
		return CaptureByValue
	}
	t, ok := a.info.Symbols[sym]
	if !ok {
		return CaptureByValue
	}
	switch a.info.Interner.Kind(t) {
	case types.KindPointer, types.KindReference, types.KindObject, types.KindUnion, types.KindNamed:
		return CaptureBySharedRef
	}
	return CaptureByValue
}

// add appends c unless present; a later write upgrades a by-value entry.
func (s *CaptureSet) add(c Capture) {
	for i := range s.Entries {
		if s.Entries[i].Symbol != c.Symbol {
			continue
		}
		if c.Mode == CaptureBySharedRef && s.Entries[i].Mode == CaptureByValue {
			s.Entries[i].Mode = CaptureBySharedRef
		}
		return
	}
	s.Entries = append(s.Entries, c)
}
