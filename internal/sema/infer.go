package sema

import (
	"fmt"
	"slices"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/source"
	"tails/internal/symbols"
	"tails/internal/types"
)

// TypeInfo stores the types assigned by inference.
type TypeInfo struct {
	Interner *types.Interner
	// Nodes covers expressions plus declaring nodes (functions, params, lets).
	Nodes   map[ast.NodeID]types.TypeID
	Symbols map[symbols.SymbolID]types.TypeID
	// TypeDefs holds the expanded shape of each type definition.
	TypeDefs map[symbols.SymbolID]types.TypeID
	// Unresolved counts type variables left after inference; zero whenever
	// inference reported no errors.
	Unresolved int
}

// TypeOf returns the type of a node or NoTypeID.
func (ti *TypeInfo) TypeOf(id ast.NodeID) types.TypeID {
	if ti == nil {
		return types.NoTypeID
	}
	return ti.Nodes[id]
}

// Infer assigns a type to every expression and binding of pkg.
func Infer(pkg ast.Package, opts Options) *TypeInfo {
	in := opts.interner()
	info := &TypeInfo{
		Interner: in,
		Nodes:    make(map[ast.NodeID]types.TypeID),
		Symbols:  make(map[symbols.SymbolID]types.TypeID),
		TypeDefs: make(map[symbols.SymbolID]types.TypeID),
	}
	if opts.Symbols == nil {
		return info
	}
	tc := &typeChecker{
		types:    in,
		symbols:  opts.Symbols,
		reporter: diag.NewDedupReporter(opts.Reporter),
		info:     info,
		subst:    newSubstitution(in),
	}
	tc.subst.shapes = tc.shapeOf
	tc.run(pkg.Modules())
	return info
}

type typeChecker struct {
	types    *types.Interner
	symbols  *symbols.Result
	reporter diag.Reporter
	info     *TypeInfo
	subst    *substitution

	deferred []deferred
	spans    map[ast.NodeID]source.Span // expressions, for late diagnostics
	results  []types.TypeID // result type of the enclosing function or closure
	bodies   []bodyResult
	variadic map[symbols.SymbolID]bool
}

// bodyResult remembers where a function or closure result was declared.
type bodyResult struct {
	result types.TypeID
	span   source.Span
}

func (tc *typeChecker) run(mods []*ast.Module) {
	tc.variadic = make(map[symbols.SymbolID]bool)
	tc.spans = make(map[ast.NodeID]source.Span)

	// shapes first: signatures may mention any type definition
	for _, mod := range mods {
		for _, item := range mod.Items {
			if td, ok := item.(*ast.TypeDef); ok {
				if sym, ok := tc.symbols.Decls[td.ID]; ok {
					tc.info.TypeDefs[sym] = tc.typeOf(td.Body)
				}
			}
		}
	}
	for _, mod := range mods {
		for _, item := range mod.Items {
			tc.declareItem(item)
		}
	}
	for _, mod := range mods {
		for _, item := range mod.Items {
			tc.checkItem(item)
		}
	}
	tc.solve()
	tc.checkResults()
	tc.finish()
}

func (tc *typeChecker) setSym(decl ast.NodeID, t types.TypeID) {
	if sym, ok := tc.symbols.Decls[decl]; ok {
		tc.info.Symbols[sym] = t
	}
	tc.info.Nodes[decl] = t
}

func (tc *typeChecker) symType(decl ast.NodeID) types.TypeID {
	if t, ok := tc.info.Nodes[decl]; ok {
		return t
	}
	return types.NoTypeID
}

// declareItem assigns the signature type of a top-level item so bodies can
// refer to items declared later.
func (tc *typeChecker) declareItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.Function:
		tc.setSym(it.ID, tc.signature(it.Params, it.Result, true))
	case *ast.Foreign:
		tc.setSym(it.ID, tc.signature(it.Params, it.Result, false))
		if it.Variadic {
			if sym, ok := tc.symbols.Decls[it.ID]; ok {
				tc.variadic[sym] = true
			}
		}
	case *ast.ForeignVar:
		tc.setSym(it.ID, tc.typeOf(it.Type))
	case *ast.Constant:
		tc.setSym(it.ID, tc.typeOf(it.Type))
	case *ast.TypeDef:
		if sym, ok := tc.symbols.Decls[it.ID]; ok {
			tc.info.Nodes[it.ID] = tc.info.TypeDefs[sym]
		}
	}
}

// signature builds a function type, giving parameters without annotation a
// fresh variable each. A missing result is inferred for functions and
// closures and means unit for foreign declarations. Parameter nodes get
// their types too.
func (tc *typeChecker) signature(params []*ast.Param, result ast.TypeExpr, inferResult bool) types.TypeID {
	ps := make([]types.TypeID, len(params))
	for i, p := range params {
		ps[i] = tc.typeOf(p.Type)
		tc.setSym(p.ID, ps[i])
	}
	rt := tc.types.Builtins().Unit
	if result != nil || inferResult {
		rt = tc.typeOf(result)
	}
	return tc.types.Fn(ps, rt)
}

func (tc *typeChecker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.Function:
		fn, _ := tc.types.FnInfo(tc.symType(it.ID))
		if fn != nil && it.Body != nil {
			at := it.Name.Span
			if it.Result != nil {
				at = ast.SpanOf(it.Result)
			}
			tc.checkBody(it.Body, fn.Result, at)
		}
	case *ast.Constant:
		if it.Value == nil {
			return
		}
		vt := tc.expr(it.Value)
		tc.assign(tc.symType(it.ID), vt, ast.SpanOf(it.Value))
		if bad := tc.nonConstant(it.Value); bad != nil {
			diag.ReportError(tc.reporter, diag.SemaNonConstantInitializer, ast.SpanOf(bad),
				fmt.Sprintf("initializer of constant %q is not a compile-time value", it.Name.Name)).
				WithNote(it.Name.Span, "constant declared here").
				Emit()
		}
	}
}

// checkBody checks a function or closure body against its result type. at
// locates the result for diagnostics.
func (tc *typeChecker) checkBody(body *ast.Block, result types.TypeID, at source.Span) {
	tc.bodies = append(tc.bodies, bodyResult{result: result, span: at})
	tc.results = append(tc.results, result)
	bt := tc.block(body)
	tc.results = tc.results[:len(tc.results)-1]
	tc.assign(result, bt, blockResultSpan(body))
}

// checkResults rejects functions and closures whose result, once solved, is a
// reference: it would point into the frame that produced it.
func (tc *typeChecker) checkResults() {
	for _, br := range tc.bodies {
		rt := tc.subst.resolve(br.result)
		if tc.poisoned(rt) || tc.types.Kind(rt) != types.KindReference {
			continue
		}
		diag.ReportError(tc.reporter, diag.SemaReferenceReturn, br.span,
			fmt.Sprintf("cannot return a reference %s from a function", tc.label(rt))).
			Emit()
	}
}

func blockResultSpan(b *ast.Block) source.Span {
	if b.Yield != nil {
		return ast.SpanOf(b.Yield)
	}
	return b.Span
}

func (tc *typeChecker) block(b *ast.Block) types.TypeID {
	for _, s := range b.Stmts {
		tc.stmt(s)
	}
	var t types.TypeID
	switch {
	case b.Yield != nil:
		t = tc.expr(b.Yield)
	case len(b.Stmts) > 0 && isReturn(b.Stmts[len(b.Stmts)-1]):
		// control never reaches the end of the block
		t = tc.types.Fresh()
	default:
		t = tc.types.Builtins().Unit
	}
	tc.info.Nodes[b.ID] = t
	return t
}

func isReturn(s ast.Stmt) bool {
	_, ok := s.(*ast.Return)
	return ok
}

func (tc *typeChecker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Let:
		var vt types.TypeID
		if s.Value != nil {
			vt = tc.expr(s.Value)
		}
		if s.Type != nil {
			declared := tc.typeOf(s.Type)
			if s.Value != nil {
				tc.assign(declared, vt, ast.SpanOf(s.Value))
			}
			tc.setSym(s.ID, declared)
			return
		}
		if vt == types.NoTypeID {
			vt = tc.types.Fresh()
		}
		tc.setSym(s.ID, vt)
	case *ast.ExprStmt:
		tc.expr(s.X)
	case *ast.Return:
		vt := tc.types.Builtins().Unit
		at := s.Span
		if s.Value != nil {
			vt = tc.expr(s.Value)
			at = ast.SpanOf(s.Value)
		}
		if n := len(tc.results); n > 0 {
			tc.assign(tc.results[n-1], vt, at)
		}
	case *ast.Assign:
		tt := tc.expr(s.Target)
		vt := tc.expr(s.Value)
		if !tc.assignable(s.Target) {
			tc.mismatchf(ast.SpanOf(s.Target), "cannot assign to this expression")
			return
		}
		tc.assign(tt, vt, ast.SpanOf(s.Value))
	}
}

// assignable reports place expressions.
func (tc *typeChecker) assignable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ref:
		_, sym := tc.symbols.RefSymbol(e.ID)
		return sym == nil || sym.Kind == symbols.SymbolBinding || sym.Kind == symbols.SymbolParam ||
			sym.Kind == symbols.SymbolForeignVar
	case *ast.Unary:
		return e.Op == ast.OpDeref
	case *ast.FieldAccess:
		return tc.assignable(e.X) || isDeref(e.X)
	case *ast.TupleIndex:
		return tc.assignable(e.X)
	case *ast.Index:
		return true
	}
	return false
}

func isDeref(e ast.Expr) bool {
	u, ok := e.(*ast.Unary)
	return ok && u.Op == ast.OpDeref
}

// assign checks that a value of type actual may flow into a slot of type
// expected: equal types, an alternative of an expected union, or a pointer
// where a reference to the same type is expected.
func (tc *typeChecker) assign(expected, actual types.TypeID, at source.Span) {
	if tc.tryAssign(expected, actual) {
		return
	}
	tc.mismatch(expected, actual, at)
}

func (tc *typeChecker) tryAssign(expected, actual types.TypeID) bool {
	s := tc.subst
	if s.tryUnify(expected, actual) {
		return true
	}
	e, a := s.find(expected), s.find(actual)
	if alts, ok := tc.unionAlts(e); ok && tc.types.Kind(a) != types.KindUnion {
		for _, alt := range alts {
			if s.tryUnify(alt, a) {
				return true
			}
		}
	}
	et, _ := tc.types.Lookup(e)
	at, _ := tc.types.Lookup(a)
	if et.Kind == types.KindReference && at.Kind == types.KindPointer {
		return s.tryUnify(et.Elem, at.Elem)
	}
	return false
}

func (tc *typeChecker) unionAlts(t types.TypeID) ([]types.TypeID, bool) {
	if tc.types.Kind(t) == types.KindNamed {
		shape, ok := tc.shapeOf(t)
		if !ok {
			return nil, false
		}
		t = shape
	}
	return tc.types.UnionAlts(tc.subst.find(t))
}

// shapeOf expands a named type to its definition.
func (tc *typeChecker) shapeOf(t types.TypeID) (types.TypeID, bool) {
	sym, _, ok := tc.types.NamedSymbol(t)
	if !ok {
		return types.NoTypeID, false
	}
	shape, ok := tc.info.TypeDefs[symbols.SymbolID(sym)]
	return shape, ok && shape != types.NoTypeID
}

func (tc *typeChecker) label(t types.TypeID) string {
	if r := tc.subst.find(t); tc.subst.isVar(r) {
		switch tc.subst.lits[r] {
		case litInt:
			return "{integer}"
		case litFloat:
			return "{float}"
		}
	}
	return types.LabelWith(tc.types, t, tc.subst.find)
}

func (tc *typeChecker) mismatch(expected, actual types.TypeID, at source.Span) {
	if tc.poisoned(expected) || tc.poisoned(actual) {
		return
	}
	diag.ReportError(tc.reporter, diag.SemaTypeMismatch, at,
		fmt.Sprintf("type mismatch: expected %s, found %s", tc.label(expected), tc.label(actual))).Emit()
}

func (tc *typeChecker) mismatchf(at source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, diag.SemaTypeMismatch, at, fmt.Sprintf(format, args...)).Emit()
}

// poison returns a variable standing in for an expression that already
// produced a diagnostic; it silences follow-up errors.
func (tc *typeChecker) poison() types.TypeID {
	v := tc.types.Fresh()
	tc.subst.poison[v] = true
	return v
}

func (tc *typeChecker) poisoned(t types.TypeID) bool {
	for _, v := range tc.subst.freeVars(t) {
		if tc.subst.poison[v] {
			return true
		}
	}
	return false
}

// finish replaces every recorded type by its
// resolved form and reports whatever stayed unknown.
func (tc *typeChecker) finish() {
	reported := make(map[types.TypeID]bool)
	report := func(span source.Span, what string, t types.TypeID) {
		fresh := false
		for _, v := range tc.subst.freeVars(t) {
			if tc.subst.poison[v] || reported[v] {
				continue
			}
			reported[v] = true
			fresh = true
		}
		if fresh {
			diag.ReportError(tc.reporter, diag.SemaCannotInferType, span,
				fmt.Sprintf("cannot infer the type of %s", what)).Emit()
		}
	}

	// declarations first: they give the most useful location
	var syms []symbols.SymbolID
	for sym := range tc.info.Symbols {
		syms = append(syms, sym)
	}
	slices.Sort(syms)
	for _, sym := range syms {
		s := tc.symbols.Symbol(sym)
		if s == nil || s.Has(symbols.SymbolFlagReplaced) {
			continue
		}
		name := tc.symbols.Table.Name(sym)
		report(s.Span, fmt.Sprintf("%s %q", s.Kind, name), tc.info.Symbols[sym])
	}
	var nodes []ast.NodeID
	for id := range tc.info.Nodes {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)
	for _, id := range nodes {
		if span, ok := tc.spans[id]; ok {
			report(span, "this expression", tc.info.Nodes[id])
		}
	}

	for sym, t := range tc.info.Symbols {
		tc.info.Symbols[sym] = tc.subst.resolve(t)
	}
	for id, t := range tc.info.Nodes {
		tc.info.Nodes[id] = tc.subst.resolve(t)
	}
	for sym, t := range tc.info.TypeDefs {
		tc.info.TypeDefs[sym] = tc.subst.resolve(t)
	}
	unresolved := make(map[types.TypeID]bool)
	for _, t := range tc.info.Nodes {
		for _, v := range tc.subst.freeVars(t) {
			unresolved[v] = true
		}
	}
	tc.info.Unresolved = len(unresolved)
}
