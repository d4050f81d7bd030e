package symbols

import (
	"fmt"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/source"
)

// Result captures the side tables produced by resolution.
type Result struct {
	Table *Table
	// Refs maps every ast.Ref to the symbol it denotes.
	Refs map[ast.NodeID]SymbolID
	// TypeRefs maps every ast.NamedType to its type definition.
	TypeRefs map[ast.NodeID]SymbolID
	// Scopes maps functions, closures and blocks to the scope they open.
	Scopes map[ast.NodeID]ScopeID
	// Decls maps a declaring node to its symbol. For closures this is the
	// self name, if any.
	Decls       map[ast.NodeID]SymbolID
	ModuleRoots map[ast.Qualifier]ScopeID
}

// Symbol is a convenience accessor.
func (r *Result) Symbol(id SymbolID) *Symbol {
	if r == nil || r.Table == nil {
		return nil
	}
	return r.Table.Symbols.Get(id)
}

// RefSymbol returns the symbol behind a reference node.
func (r *Result) RefSymbol(ref ast.NodeID) (SymbolID, *Symbol) {
	id, ok := r.Refs[ref]
	if !ok {
		return NoSymbolID, nil
	}
	return id, r.Table.Symbols.Get(id)
}

// ResolveOptions configures package resolution.
type ResolveOptions struct {
	Reporter         diag.Reporter
	Hints            Hints
	NoShadowWarnings bool
	// OnModule is invoked before each module body is walked.
	OnModule func(q ast.Qualifier)
}

// Resolve builds scopes for every module of pkg and binds each reference.
// Top-level items of all modules are declared before any body is walked, so
// mutual recursion and qualified references resolve regardless of order.
func Resolve(pkg ast.Package, table *Table, opts ResolveOptions) *Result {
	if table == nil {
		table = NewTable(opts.Hints, nil)
	}
	res := &Result{
		Table:       table,
		Refs:        make(map[ast.NodeID]SymbolID),
		TypeRefs:    make(map[ast.NodeID]SymbolID),
		Scopes:      make(map[ast.NodeID]ScopeID),
		Decls:       make(map[ast.NodeID]SymbolID),
		ModuleRoots: make(map[ast.Qualifier]ScopeID, len(pkg)),
	}
	mods := pkg.Modules()
	walkers := make([]*walker, 0, len(mods))
	for _, mod := range mods {
		root := table.ModuleRoot(mod.Qualifier, mod.ID, mod.Span)
		res.ModuleRoots[mod.Qualifier] = root
		res.Scopes[mod.ID] = root
		w := &walker{
			res:      res,
			table:    table,
			reporter: opts.Reporter,
			module:   mod.Qualifier,
			resolver: NewResolver(table, root, ResolverOptions{
				Reporter:         opts.Reporter,
				NoShadowWarnings: opts.NoShadowWarnings,
			}),
		}
		w.hoist(mod)
		walkers = append(walkers, w)
	}
	for i, w := range walkers {
		if opts.OnModule != nil {
			opts.OnModule(mods[i].Qualifier)
		}
		w.walkModule(mods[i])
	}
	return res
}

type walker struct {
	res      *Result
	table    *Table
	reporter diag.Reporter
	resolver *Resolver
	module   ast.Qualifier
}

func (w *walker) declare(id ast.Ident, kind SymbolKind, flags SymbolFlags, decl ast.NodeID) SymbolID {
	sym := w.resolver.Declare(w.table.Intern(id.Name), id.Span, kind, flags, decl, w.module)
	if sym.IsValid() {
		w.res.Decls[decl] = sym
	}
	return sym
}

func (w *walker) hoist(mod *ast.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.Function:
			var flags SymbolFlags
			if it.Result != nil {
				flags |= SymbolFlagAnnotated
			}
			w.declare(it.Name, SymbolFunction, flags, it.ID)
		case *ast.Foreign:
			flags := SymbolFlagAnnotated
			if it.Variadic {
				flags |= SymbolFlagVariadic
			}
			w.declare(it.Name, SymbolForeignFunction, flags, it.ID)
		case *ast.ForeignVar:
			w.declare(it.Name, SymbolForeignVar, SymbolFlagAnnotated, it.ID)
		case *ast.TypeDef:
			w.declare(it.Name, SymbolTypeDef, 0, it.ID)
		case *ast.Constant:
			var flags SymbolFlags
			if it.Type != nil {
				flags |= SymbolFlagAnnotated
			}
			w.declare(it.Name, SymbolConstant, flags, it.ID)
		}
	}
}

func (w *walker) walkModule(mod *ast.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.Function:
			w.function(it.ID, it.Span, it.Params, it.Result, it.Body, ScopeFunction, ast.Ident{})
		case *ast.Foreign:
			for _, p := range it.Params {
				w.typeExpr(p.Type)
			}
			w.typeExpr(it.Result)
		case *ast.ForeignVar:
			w.typeExpr(it.Type)
		case *ast.TypeDef:
			w.typeExpr(it.Body)
		case *ast.Constant:
			w.typeExpr(it.Type)
			w.expr(it.Value)
		}
	}
}

// function handles both function items and closures. For closures, self is
// the optional name visible only inside the closure.
func (w *walker) function(owner ast.NodeID, span source.Span, params []*ast.Param, result ast.TypeExpr, body *ast.Block, kind ScopeKind, self ast.Ident) {
	for _, p := range params {
		w.typeExpr(p.Type)
	}
	w.typeExpr(result)

	scope := w.resolver.Enter(kind, owner, span)
	w.res.Scopes[owner] = scope
	if self.Name != "" {
		w.declare(self, SymbolClosureSelf, 0, owner)
	}
	for _, p := range params {
		var flags SymbolFlags
		if p.Type != nil {
			flags |= SymbolFlagAnnotated
		}
		w.declare(p.Name, SymbolParam, flags, p.ID)
	}
	if body != nil {
		// the body shares the parameter scope, so `let x` in it redefines a
		// parameter x instead of shadowing it
		w.res.Scopes[body.ID] = scope
		w.blockBody(body)
	}
	w.resolver.Leave(scope)
}

func (w *walker) block(b *ast.Block) {
	scope := w.resolver.Enter(ScopeBlock, b.ID, b.Span)
	w.res.Scopes[b.ID] = scope
	w.blockBody(b)
	w.resolver.Leave(scope)
}

func (w *walker) blockBody(b *ast.Block) {
	for _, s := range b.Stmts {
		w.stmt(s)
	}
	w.expr(b.Yield)
}

func (w *walker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Let:
		w.typeExpr(s.Type)
		// the initializer sees the outer meaning of the name
		w.expr(s.Value)
		var flags SymbolFlags
		if s.Type != nil {
			flags |= SymbolFlagAnnotated
		}
		w.declare(s.Name, SymbolBinding, flags, s.ID)
	case *ast.ExprStmt:
		w.expr(s.X)
	case *ast.Return:
		w.expr(s.Value)
	case *ast.Assign:
		w.expr(s.Target)
		w.expr(s.Value)
	}
}

func (w *walker) expr(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.Literal:
	case *ast.Ref:
		w.ref(e)
	case *ast.Call:
		w.expr(e.Callee)
		for _, a := range e.Args {
			w.expr(a)
		}
	case *ast.Closure:
		if e == nil {
			return
		}
		w.function(e.ID, e.Span, e.Params, e.Result, e.Body, ScopeClosure, e.Name)
	case *ast.Object:
		if e.Type != nil {
			w.typeExpr(e.Type)
		}
		for _, f := range e.Fields {
			w.expr(f.Value)
		}
	case *ast.Tuple:
		for _, x := range e.Elems {
			w.expr(x)
		}
	case *ast.FieldAccess:
		w.expr(e.X)
	case *ast.TupleIndex:
		w.expr(e.X)
	case *ast.Unary:
		w.expr(e.X)
	case *ast.Binary:
		w.expr(e.L)
		w.expr(e.R)
	case *ast.If:
		if e == nil {
			return
		}
		w.expr(e.Cond)
		if e.Then != nil {
			w.block(e.Then)
		}
		w.expr(e.Else)
	case *ast.Block:
		if e != nil {
			w.block(e)
		}
	case *ast.Cast:
		w.expr(e.X)
		w.typeExpr(e.Type)
	case *ast.SizeOf:
		w.typeExpr(e.Type)
	case *ast.Index:
		w.expr(e.X)
		w.expr(e.Index)
	case *ast.Match:
		w.expr(e.Subject)
		for _, arm := range e.Arms {
			w.expr(arm.Pattern)
			w.expr(arm.Body)
		}
		w.expr(e.Default)
	}
}

func (w *walker) ref(e *ast.Ref) {
	if e.Qualifier != nil {
		if sym, ok := w.lookupQualified(*e.Qualifier, e.Name.Name); ok {
			w.res.Refs[e.ID] = sym
			return
		}
		w.reportMissing(e.Span, "", e.FullName())
		return
	}
	sym, ok := w.resolver.Lookup(w.table.Intern(e.Name.Name))
	if !ok {
		w.reportMissing(e.Span, "", e.Name.Name)
		return
	}
	w.res.Refs[e.ID] = sym
}

func (w *walker) lookupQualified(q ast.Qualifier, name string) (SymbolID, bool) {
	root, ok := w.table.LookupModuleRoot(q)
	if !ok {
		return NoSymbolID, false
	}
	return w.table.LookupIn(root, w.table.Intern(name))
}

func (w *walker) typeExpr(t ast.TypeExpr) {
	switch t := t.(type) {
	case nil:
	case *ast.NamedType:
		if t == nil {
			return
		}
		w.namedType(t)
	case *ast.PointerType:
		w.typeExpr(t.Elem)
	case *ast.ReferenceType:
		w.typeExpr(t.Elem)
	case *ast.TupleType:
		for _, e := range t.Elems {
			w.typeExpr(e)
		}
	case *ast.ObjectType:
		for _, f := range t.Fields {
			w.typeExpr(f.Type)
		}
	case *ast.UnionType:
		for _, a := range t.Alts {
			w.typeExpr(a)
		}
	case *ast.FuncType:
		for _, p := range t.Params {
			w.typeExpr(p)
		}
		w.typeExpr(t.Result)
	}
}

func (w *walker) namedType(t *ast.NamedType) {
	var (
		sym SymbolID
		ok  bool
	)
	if t.Qualifier != nil {
		sym, ok = w.lookupQualified(*t.Qualifier, t.Name.Name)
	} else {
		sym, ok = w.resolver.Lookup(w.table.Intern(t.Name.Name))
	}
	if ok {
		if s := w.table.Symbols.Get(sym); s != nil && s.Kind == SymbolTypeDef {
			w.res.TypeRefs[t.ID] = sym
			return
		}
	}
	w.reportMissing(t.Span, "type ", t.FullName())
}

func (w *walker) reportMissing(span source.Span, what, name string) {
	diag.ReportError(w.reporter, diag.SemaMissingDeclaration, span,
		fmt.Sprintf("missing %sdeclaration %q", what, name)).Emit()
}
