package symbols

import (
	"strings"
	"testing"

	"tails/internal/ast"
	"tails/internal/diag"
)

var mainQ = ast.Qualifier{Package: "app", Module: "main"}

func resolvePkg(t *testing.T, mods ...*ast.Module) (*Result, *diag.Bag) {
	t.Helper()
	pkg := ast.Package{}
	for _, m := range mods {
		pkg[m.Qualifier] = m
	}
	bag := diag.NewBag(64)
	res := Resolve(pkg, nil, ResolveOptions{Reporter: diag.BagReporter{Bag: bag}})
	if err := res.Table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return res, bag
}

func TestResolveDeclaresTopLevelSymbols(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("compute", nil, nil, b.Block()),
		b.Foreign("puts", []*ast.Param{b.Param("s", b.Prim("str"))}, false, nil),
		b.ForeignVar("errno", b.Prim("i32")),
		b.TypeDef("Point", b.ObjectT(b.FieldT("x", b.Prim("i32")))),
		b.Const("ANSWER", nil, b.Int("42")),
	)
	res, bag := resolvePkg(t, mod)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := map[string]SymbolKind{
		"compute": SymbolFunction,
		"puts":    SymbolForeignFunction,
		"errno":   SymbolForeignVar,
		"Point":   SymbolTypeDef,
		"ANSWER":  SymbolConstant,
	}
	root := res.ModuleRoots[mainQ]
	for name, kind := range want {
		id, ok := res.Table.LookupIn(root, res.Table.Intern(name))
		if !ok {
			t.Fatalf("expected symbol %s to be declared", name)
		}
		if got := res.Symbol(id).Kind; got != kind {
			t.Fatalf("%s: kind %v, want %v", name, got, kind)
		}
	}
}

func TestResolveDuplicateParameters(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("f", b.Params("x", "x"), nil, b.BlockYield(b.Ref("x"))),
	)
	res, bag := resolvePkg(t, mod)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", bag.Len(), bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaDuplicateDefinition || !strings.Contains(d.Message, "parameter") {
		t.Fatalf("unexpected diagnostic %v %q", d.Code, d.Message)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected a note on the first definition")
	}
	// last one wins
	fn := mod.Items[0].(*ast.Function)
	ref := fn.Body.Yield.(*ast.Ref)
	sym, _ := res.RefSymbol(ref.ID)
	if sym != res.Decls[fn.Params[1].ID] {
		t.Fatalf("reference should bind to the second parameter")
	}
}

func TestResolveOneDiagnosticPerExtraDefinition(t *testing.T) {
	for extra := 1; extra <= 4; extra++ {
		b := ast.NewBuilder(nil, 1)
		stmts := make([]ast.Stmt, 0, extra+1)
		for i := 0; i <= extra; i++ {
			stmts = append(stmts, b.Let("v", nil, b.Int("1")))
		}
		mod := b.Module(mainQ, b.Func("f", nil, nil, b.Block(stmts...)))
		_, bag := resolvePkg(t, mod)
		if got := bag.CountCode(diag.SemaDuplicateDefinition); got != extra {
			t.Fatalf("%d extra definitions: got %d diagnostics", extra, got)
		}
	}
}

func TestResolveBodyBindingRedefinesParameter(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	use := b.Ref("x")
	fn := b.Func("f", b.Params("x"), nil, b.Block(
		b.Let("x", nil, b.Int("2")),
		b.Do(use),
	))
	clo := b.Closure("", b.Params("y"), nil, b.Block(b.Let("y", nil, b.Int("3"))))
	mod := b.Module(mainQ, fn, b.Func("g", nil, nil, b.Block(b.Do(clo))))
	res, bag := resolvePkg(t, mod)
	if got := bag.CountCode(diag.SemaDuplicateDefinition); got != 2 || !bag.HasErrors() {
		t.Fatalf("expected 2 duplicates, got %v", bag.Items())
	}
	if bag.CountCode(diag.SemaShadowedBinding) != 0 {
		t.Fatalf("redefinition must not be reported as shadowing: %v", bag.Items())
	}
	if !strings.Contains(bag.Items()[0].Message, "binding") {
		t.Fatalf("message should name the binding kind: %q", bag.Items()[0].Message)
	}
	if res.Scopes[fn.Body.ID] != res.Scopes[fn.ID] {
		t.Fatalf("function body should share the parameter scope")
	}
	if sym, _ := res.RefSymbol(use.ID); sym != res.Decls[fn.Body.Stmts[0].(*ast.Let).ID] {
		t.Fatalf("use should bind to the body binding")
	}
}

func TestResolveForeignSharesFunctionNamespace(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("write", nil, nil, b.Block()),
		b.Foreign("write", nil, false, nil),
	)
	_, bag := resolvePkg(t, mod)
	if bag.CountCode(diag.SemaDuplicateDefinition) != 1 {
		t.Fatalf("expected duplicate, got %v", bag.Items())
	}
	if !strings.Contains(bag.Items()[0].Message, "foreign-function") {
		t.Fatalf("message should name the foreign-function kind: %q", bag.Items()[0].Message)
	}
}

func TestResolveHoistingAllowsMutualRecursion(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("even", b.Params("n"), nil, b.BlockYield(b.Call(b.Ref("odd"), b.Ref("n")))),
		b.Func("odd", b.Params("n"), nil, b.BlockYield(b.Call(b.Ref("even"), b.Ref("n")))),
	)
	_, bag := resolvePkg(t, mod)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestResolveMissingDeclarations(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	other := ast.Qualifier{Package: "lib", Module: "util"}
	mod := b.Module(mainQ,
		b.Func("f", nil, nil, b.Block(
			b.Do(b.Call(b.Ref("nowhere"))),
			b.Do(b.QRef(other, "helper")),
			b.Let("p", b.Named("Missing"), nil),
		)),
	)
	_, bag := resolvePkg(t, mod)
	if bag.CountCode(diag.SemaMissingDeclaration) != 3 {
		t.Fatalf("expected 3 missing declarations, got %v", bag.Items())
	}
	if !strings.Contains(bag.Items()[1].Message, "lib::util::helper") {
		t.Fatalf("qualified miss should name the qualifier: %q", bag.Items()[1].Message)
	}
}

func TestResolveQualifiedReference(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	libQ := ast.Qualifier{Package: "lib", Module: "util"}
	lib := b.Module(libQ, b.Func("helper", nil, nil, b.Block()))
	ref := b.QRef(libQ, "helper")
	mod := b.Module(mainQ, b.Func("main", nil, nil, b.Block(b.Do(b.Call(ref)))))
	res, bag := resolvePkg(t, mod, lib)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	_, sym := res.RefSymbol(ref.ID)
	if sym == nil || sym.Module != libQ || sym.Kind != SymbolFunction {
		t.Fatalf("qualified ref resolved to %+v", sym)
	}
}

func TestResolveNamedTypeMustBeTypeDef(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("f", nil, nil, b.Block()),
		b.TypeDef("T", b.Named("f")),
	)
	_, bag := resolvePkg(t, mod)
	if bag.CountCode(diag.SemaMissingDeclaration) != 1 {
		t.Fatalf("function used as type should be missing: %v", bag.Items())
	}
}

func TestResolveClosureScopes(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	selfCall := b.Ref("loop")
	outer := b.Ref("loop")
	clo := b.Closure("loop", b.Params("n"), nil, b.BlockYield(b.Call(selfCall, b.Ref("n"))))
	mod := b.Module(mainQ,
		b.Func("loop", nil, nil, b.Block()),
		b.Func("main", nil, nil, b.Block(
			b.Let("f", nil, clo),
			b.Do(b.Call(outer)),
		)),
	)
	res, bag := resolvePkg(t, mod)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	_, inner := res.RefSymbol(selfCall.ID)
	if inner == nil || inner.Kind != SymbolClosureSelf {
		t.Fatalf("self call should bind to the closure name, got %+v", inner)
	}
	_, out := res.RefSymbol(outer.ID)
	if out == nil || out.Kind != SymbolFunction {
		t.Fatalf("outer call should bind to the function, got %+v", out)
	}
	if !res.Scopes[clo.ID].IsValid() || !res.Scopes[clo.Body.ID].IsValid() {
		t.Fatalf("closure scopes not recorded")
	}
}

func TestResolveLetInitializerSeesOuterName(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	init := b.Ref("x")
	mod := b.Module(mainQ,
		b.Func("f", b.Params("x"), nil, b.Block(
			b.Do(b.Block(b.Let("x", nil, init))),
		)),
	)
	res, bag := resolvePkg(t, mod)
	fn := mod.Items[0].(*ast.Function)
	if sym, _ := res.RefSymbol(init.ID); sym != res.Decls[fn.Params[0].ID] {
		t.Fatalf("initializer should see the parameter")
	}
	if bag.CountCode(diag.SemaShadowedBinding) != 1 || bag.HasErrors() {
		t.Fatalf("expected one shadowing warning, got %v", bag.Items())
	}
}

func TestResolveNoShadowWarningAcrossClosureBoundary(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	mod := b.Module(mainQ,
		b.Func("f", nil, nil, b.Block(
			b.Let("x", nil, b.Int("1")),
			b.Do(b.Closure("", nil, nil, b.Block(b.Let("x", nil, b.Int("2"))))),
		)),
	)
	_, bag := resolvePkg(t, mod)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}
