package symbols

import (
	"tails/internal/ast"
	"tails/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // top-level declarations of one qualifier
	ScopeFunction           // parameters of a function item
	ScopeClosure            // self name and parameters of a closure literal
	ScopeBlock              // statements of a block, unsafe blocks included
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClosure:
		return "closure"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Parent is used for lookup only.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Owner  ast.NodeID
	Span   source.Span
	// NameIndex maps a name to the live symbol; a redefinition replaces the
	// entry and the earlier symbol stays in Symbols flagged as replaced.
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}

// IsBoundary reports scopes that start a new frame: names declared above a
// boundary belong to an enclosing function or closure.
func (s *Scope) IsBoundary() bool {
	return s.Kind == ScopeFunction || s.Kind == ScopeClosure || s.Kind == ScopeModule
}
