package symbols

import (
	"testing"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/source"
)

func TestTableModuleRootReuse(t *testing.T) {
	table := NewTable(Hints{}, nil)
	q := ast.Qualifier{Package: "p", Module: "m"}

	first := table.ModuleRoot(q, 1, source.Span{})
	second := table.ModuleRoot(q, 1, source.Span{})
	if !first.IsValid() {
		t.Fatalf("expected valid scope ID")
	}
	if first != second {
		t.Fatalf("expected ModuleRoot to reuse existing scope, got %v and %v", first, second)
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestResolverLifecycle(t *testing.T) {
	table := NewTable(Hints{}, nil)
	root := table.ModuleRoot(ast.Qualifier{Package: "p", Module: "m"}, 1, source.Span{})

	bag := diag.NewBag(8)
	res := NewResolver(table, root, ResolverOptions{Reporter: diag.BagReporter{Bag: bag}})
	scope := res.Enter(ScopeFunction, 42, source.Span{})

	name := table.Intern("value")
	first := res.Declare(name, source.Span{Start: 1, End: 2}, SymbolBinding, 0, 43, ast.Qualifier{})
	second := res.Declare(name, source.Span{Start: 3, End: 4}, SymbolBinding, 0, 44, ast.Qualifier{})
	if !first.IsValid() || !second.IsValid() || first == second {
		t.Fatalf("declare returned %d, %d", first, second)
	}
	if got, _ := res.Lookup(name); got != second {
		t.Fatalf("lookup = %d, want last definition %d", got, second)
	}
	if !table.Symbols.Get(first).Has(SymbolFlagReplaced) {
		t.Fatalf("first definition should be marked replaced")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaDuplicateDefinition {
		t.Fatalf("expected one duplicate diagnostic, got %v", bag.Items())
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	res.Leave(scope)
	if res.CurrentScope() != root {
		t.Fatalf("expected root after leave")
	}
	if _, ok := res.Lookup(name); ok {
		t.Fatalf("name must not be visible after leaving its scope")
	}
}

func TestResolverLeaveMismatchPanics(t *testing.T) {
	table := NewTable(Hints{}, nil)
	root := table.ModuleRoot(ast.Qualifier{}, 1, source.Span{})
	res := NewResolver(table, root, ResolverOptions{})
	res.Enter(ScopeBlock, 2, source.Span{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on mismatched leave")
		}
	}()
	res.Leave(root)
}

func TestInternNormalizesNFC(t *testing.T) {
	table := NewTable(Hints{}, nil)
	composed := table.Intern("caf\u00e9")
	decomposed := table.Intern("cafe\u0301")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent names must intern to the same ID")
	}
}
