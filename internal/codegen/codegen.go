// Package codegen is the boundary towards the backend. The pass manager
// hands a fully resolved and typed package to a Generator only when the
// compilation produced no errors.
package codegen

import (
	"tails/internal/ast"
	"tails/internal/sema"
	"tails/internal/symbols"
)

// Input is everything a backend may read. It must not be mutated.
type Input struct {
	Package  ast.Package
	Symbols  *symbols.Result
	Types    *sema.TypeInfo
	Captures sema.Captures
}

// Generator produces the textual backend representation.
type Generator interface {
	Generate(in Input) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(in Input) (string, error)

func (f GeneratorFunc) Generate(in Input) (string, error) { return f(in) }
