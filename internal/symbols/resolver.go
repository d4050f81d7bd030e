package symbols

import (
	"fmt"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
	// NoShadowWarnings disables ShadowedBinding warnings.
	NoShadowWarnings bool
}

// Resolver drives scope management and declaration/lookup routines.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	opts     ResolverOptions
	stack    []ScopeID
}

// NewResolver wires a resolver to an existing scope stack. If root is valid it
// becomes the current scope; otherwise scope-sensitive operations are no-ops.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:    table,
		reporter: opts.Reporter,
		opts:     opts,
		stack:    make([]ScopeID, 0, 8),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter creates a child scope, pushes it onto the stack, and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, owner ast.NodeID, span source.Span) ScopeID {
	scope := r.table.Scopes.New(kind, r.CurrentScope(), owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// Leave pops the current scope. Unbalanced Enter/Leave is a bug in the
// walker, not in the program, so it panics.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		panic("symbols: leave on empty scope stack")
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		panic(fmt.Sprintf("symbols: scope mismatch: leaving %d, top is %d", expected, top))
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs a symbol into the current scope. A name already present in
// the same scope is reported as a duplicate; the new symbol still replaces it
// for later lookups.
func (r *Resolver) Declare(name source.StringID, span source.Span, kind SymbolKind, flags SymbolFlags, decl ast.NodeID, module ast.Qualifier) SymbolID {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID
	}

	if prev, ok := scope.NameIndex[name]; ok {
		if old := r.table.Symbols.Get(prev); old != nil {
			old.Flags |= SymbolFlagReplaced
			r.reportDuplicate(name, kind, span, old.Span)
		}
	} else if kind == SymbolBinding && !r.opts.NoShadowWarnings {
		if outer := r.findShadowed(scopeID, name); outer.IsValid() {
			r.reportShadowing(name, span, outer)
		}
	}

	id := r.table.Symbols.New(&Symbol{
		Name:   name,
		Kind:   kind,
		Scope:  scopeID,
		Span:   span,
		Flags:  flags,
		Decl:   decl,
		Module: module,
	})
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[name] = id
	return id
}

// Lookup walks the scope chain searching for a symbol with the given name.
func (r *Resolver) Lookup(name source.StringID) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if id, ok := scope.NameIndex[name]; ok {
			return id, true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

// findShadowed looks for a binding or parameter with the same name in the
// enclosing scopes of the current frame, stopping at the function or closure
// boundary.
func (r *Resolver) findShadowed(scopeID ScopeID, name source.StringID) SymbolID {
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil || scope.IsBoundary() {
		return NoSymbolID
	}
	for cur := scope.Parent; cur.IsValid(); {
		s := r.table.Scopes.Get(cur)
		if s == nil || s.Kind == ScopeModule {
			return NoSymbolID
		}
		if id, ok := s.NameIndex[name]; ok {
			if sym := r.table.Symbols.Get(id); sym != nil && (sym.Kind == SymbolBinding || sym.Kind == SymbolParam) {
				return id
			}
			return NoSymbolID
		}
		if s.IsBoundary() {
			return NoSymbolID
		}
		cur = s.Parent
	}
	return NoSymbolID
}

func (r *Resolver) reportDuplicate(name source.StringID, kind SymbolKind, span, prev source.Span) {
	text := r.table.Strings.MustLookup(name)
	msg := fmt.Sprintf("duplicate %s definition %q", kind.duplicateKind(), text)
	diag.ReportError(r.reporter, diag.SemaDuplicateDefinition, span, msg).
		WithNote(prev, "previous definition is here").
		Emit()
}

func (r *Resolver) reportShadowing(name source.StringID, span source.Span, outer SymbolID) {
	text := r.table.Strings.MustLookup(name)
	msg := fmt.Sprintf("binding %q shadows an outer binding", text)
	b := diag.ReportWarning(r.reporter, diag.SemaShadowedBinding, span, msg)
	if sym := r.table.Symbols.Get(outer); sym != nil {
		b = b.WithNote(sym.Span, "outer binding is here")
	}
	b.Emit()
}
