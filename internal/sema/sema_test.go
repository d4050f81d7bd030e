package sema

import (
	"testing"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/symbols"
	"tails/internal/testkit"
	"tails/internal/types"
)

type analysis struct {
	pkg  ast.Package
	res  *symbols.Result
	info *TypeInfo
	caps Captures
	bag  *diag.Bag
}

// analyze runs every semantic pass in pipeline order over mods.
func analyze(t *testing.T, mods ...*ast.Module) analysis {
	t.Helper()
	pkg := testkit.Package(mods...)
	if err := testkit.CheckTreeInvariants(pkg, nil); err != nil {
		t.Fatalf("tree: %v", err)
	}
	bag := diag.NewBag(128)
	r := diag.BagReporter{Bag: bag}
	res := symbols.Resolve(pkg, nil, symbols.ResolveOptions{Reporter: r})
	opts := Options{Reporter: r, Symbols: res, Types: types.NewInterner()}
	CheckTypeDefs(pkg, opts)
	info := Infer(pkg, opts)
	caps := AnalyzeCaptures(pkg, opts, info)
	CheckSafety(pkg, opts)
	return analysis{pkg: pkg, res: res, info: info, caps: caps, bag: bag}
}

func (a analysis) symType(t *testing.T, decl ast.NodeID) string {
	t.Helper()
	sym, ok := a.res.Decls[decl]
	if !ok {
		t.Fatalf("node %d declares nothing", decl)
	}
	return types.Label(a.info.Interner, a.info.Symbols[sym])
}

func (a analysis) nodeType(id ast.NodeID) string {
	return types.Label(a.info.Interner, a.info.TypeOf(id))
}
