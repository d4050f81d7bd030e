package symbols

import (
	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolBinding
	SymbolParam
	SymbolForeignFunction
	SymbolForeignVar
	SymbolTypeDef
	SymbolConstant
	SymbolClosureSelf
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolBinding:
		return "binding"
	case SymbolParam:
		return "parameter"
	case SymbolForeignFunction:
		return "foreign-function"
	case SymbolForeignVar:
		return "foreign-variable"
	case SymbolTypeDef:
		return "type"
	case SymbolConstant:
		return "constant"
	case SymbolClosureSelf:
		return "closure"
	default:
		return "invalid"
	}
}

// IsLocal reports symbols that live in a function frame and can therefore
// be captured by closures.
func (k SymbolKind) IsLocal() bool {
	return k == SymbolBinding || k == SymbolParam || k == SymbolClosureSelf
}

// IsValue reports symbols usable as expression operands.
func (k SymbolKind) IsValue() bool {
	return k != SymbolInvalid && k != SymbolTypeDef
}

// IsCallable reports symbols whose declaration is a function.
func (k SymbolKind) IsCallable() bool {
	return k == SymbolFunction || k == SymbolForeignFunction || k == SymbolClosureSelf
}

func (k SymbolKind) duplicateKind() diag.DuplicateKind {
	switch k {
	case SymbolParam:
		return diag.DuplicateParameter
	case SymbolFunction:
		return diag.DuplicateFunction
	case SymbolForeignFunction:
		return diag.DuplicateForeignFunction
	case SymbolForeignVar:
		return diag.DuplicateForeignVariable
	case SymbolTypeDef:
		return diag.DuplicateTypeDef
	case SymbolConstant:
		return diag.DuplicateConstant
	}
	return diag.DuplicateBinding
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	// SymbolFlagReplaced marks a definition superseded by a later duplicate.
	SymbolFlagReplaced SymbolFlags = 1 << iota
	// SymbolFlagAnnotated marks declarations with an explicit type.
	SymbolFlagAnnotated
	SymbolFlagVariadic
)

// Symbol is one named declaration.
type Symbol struct {
	Name   source.StringID
	Kind   SymbolKind
	Scope  ScopeID
	Span   source.Span
	Flags  SymbolFlags
	Decl   ast.NodeID // declaring node: item, param, let or closure
	Module ast.Qualifier
}

func (s *Symbol) Has(f SymbolFlags) bool { return s.Flags&f != 0 }
