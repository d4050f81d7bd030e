package symbols

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"tails/internal/ast"
	"tails/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	modRoot map[ast.Qualifier]ScopeID
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		modRoot: make(map[ast.Qualifier]ScopeID),
	}
}

// Intern returns the handle of an identifier. Names are NFC-normalised so
// canonically equivalent spellings denote the same symbol.
func (t *Table) Intern(name string) source.StringID {
	if !norm.NFC.IsNormalString(name) {
		name = norm.NFC.String(name)
	}
	return t.Strings.Intern(name)
}

// Name returns the (normalised) name of a symbol.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	return t.Strings.MustLookup(sym.Name)
}

// ModuleRoot returns (and creates if needed) the top-level scope of q.
func (t *Table) ModuleRoot(q ast.Qualifier, owner ast.NodeID, span source.Span) ScopeID {
	if scope, ok := t.modRoot[q]; ok {
		return scope
	}
	scope := t.Scopes.New(ScopeModule, NoScopeID, owner, span)
	t.modRoot[q] = scope
	return scope
}

// LookupModuleRoot returns the root scope of q if it exists.
func (t *Table) LookupModuleRoot(q ast.Qualifier) (ScopeID, bool) {
	scope, ok := t.modRoot[q]
	return scope, ok
}

// LookupIn finds name declared directly in scope.
func (t *Table) LookupIn(scope ScopeID, name source.StringID) (SymbolID, bool) {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID, false
	}
	id, ok := s.NameIndex[name]
	return id, ok
}

// Within reports whether scope is ancestor or one of its descendants.
func (t *Table) Within(scope, ancestor ScopeID) bool {
	for scope.IsValid() {
		if scope == ancestor {
			return true
		}
		s := t.Scopes.Get(scope)
		if s == nil {
			return false
		}
		scope = s.Parent
	}
	return false
}
