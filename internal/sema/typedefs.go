package sema

import (
	"fmt"
	"strings"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/project/dag"
	"tails/internal/symbols"
)

// TypeDefCycles lists the recursive type chains not broken by a pointer or
// reference, one per back edge found by a depth-first search. Each chain
// starts at its earliest declaration.
type TypeDefCycles struct {
	Cycles [][]symbols.SymbolID
}

// CheckTypeDefs reports type definitions that contain themselves by value,
// directly or through other definitions.
func CheckTypeDefs(pkg ast.Package, opts Options) TypeDefCycles {
	var out TypeDefCycles
	if opts.Symbols == nil {
		return out
	}
	res := opts.Symbols

	var (
		defs  []*ast.TypeDef
		syms  []symbols.SymbolID
		index = make(map[symbols.SymbolID]dag.NodeID)
	)
	for _, mod := range pkg.Modules() {
		for _, item := range mod.Items {
			td, ok := item.(*ast.TypeDef)
			if !ok {
				continue
			}
			sym, ok := res.Decls[td.ID]
			if !ok {
				continue
			}
			index[sym] = dag.NodeID(len(defs)) //nolint:gosec // bounded by item count
			defs = append(defs, td)
			syms = append(syms, sym)
		}
	}
	if len(defs) == 0 {
		return out
	}

	g := dag.NewGraph(len(defs))
	for i, td := range defs {
		from := dag.NodeID(i) //nolint:gosec // bounded by item count
		directRefs(td.Body, res, func(target symbols.SymbolID) {
			if to, ok := index[target]; ok {
				g.AddEdge(from, to)
			}
		})
	}
	g.SortEdges()

	for _, cycle := range dag.FindCycles(g) {
		chain := make([]symbols.SymbolID, len(cycle))
		names := make([]string, 0, len(cycle)+1)
		for i, id := range cycle {
			chain[i] = syms[id]
			names = append(names, defs[id].Name.Name)
		}
		names = append(names, names[0])
		out.Cycles = append(out.Cycles, chain)

		head := defs[cycle[0]]
		b := diag.ReportError(opts.Reporter, diag.SemaRecursiveTypeWithoutIndirection, head.Name.Span,
			fmt.Sprintf("recursive type without indirection: %s", strings.Join(names, " -> ")))
		for i, id := range cycle {
			next := defs[cycle[(i+1)%len(cycle)]]
			b = b.WithNote(defs[id].Name.Span,
				fmt.Sprintf("%s contains %s by value", defs[id].Name.Name, next.Name.Name))
		}
		b.Emit()
	}
	return out
}

// directRefs calls fn for every type definition held by value inside t.
// Pointers, references and function types bound the size and stop the walk.
func directRefs(t ast.TypeExpr, res *symbols.Result, fn func(symbols.SymbolID)) {
	switch t := t.(type) {
	case *ast.NamedType:
		if t == nil {
			return
		}
		if sym, ok := res.TypeRefs[t.ID]; ok {
			fn(sym)
		}
	case *ast.TupleType:
		for _, e := range t.Elems {
			directRefs(e, res, fn)
		}
	case *ast.ObjectType:
		for _, f := range t.Fields {
			directRefs(f.Type, res, fn)
		}
	case *ast.UnionType:
		for _, a := range t.Alts {
			directRefs(a, res, fn)
		}
	}
}
