package sema

import (
	"testing"

	"tails/internal/ast"
	"tails/internal/testkit"
)

func entryModes(set *CaptureSet) map[string]CaptureMode {
	out := make(map[string]CaptureMode)
	if set == nil {
		return out
	}
	for _, c := range set.Entries {
		out[c.Name] = c.Mode
	}
	return out
}

func TestCapturePointerSharedIntegerByValue(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	byValue := b.Closure("", nil, nil, b.BlockYield(b.Binary(ast.OpAdd, b.Ref("n"), b.Int("1"))))
	mutate := b.Closure("", nil, nil, b.Block(
		b.Do(b.Unsafe(b.Assign(b.Deref(b.Ref("p")), b.Int("2")))),
	))
	a := analyze(t, b.Module(testkit.MainQ,
		b.Func("main", nil, b.UnitT(), b.Block(
			b.Let("n", nil, b.Int("1")),
			b.Let("p", b.Ptr(b.Prim("i32")), b.AddrOf(b.Ref("n"))),
			b.Let("get", nil, byValue),
			b.Let("set", nil, mutate),
		)),
	))
	testkit.ExpectClean(t, a.bag)
	if got := entryModes(a.caps[byValue.ID]); len(got) != 1 || got["n"] != CaptureByValue {
		t.Fatalf("by-value closure captures %v", got)
	}
	if got := entryModes(a.caps[mutate.ID]); len(got) != 1 || got["p"] != CaptureBySharedRef {
		t.Fatalf("mutating closure captures %v", got)
	}
}

func TestCaptureAssignmentMakesShared(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	firstUse := b.Ref("n")
	c := b.Closure("", nil, nil, b.Block(
		b.Let("old", nil, firstUse),
		b.Assign(b.Ref("n"), b.Binary(ast.OpAdd, b.Ref("old"), b.Int("1"))),
	))
	a := analyze(t, b.Module(testkit.MainQ,
		b.Func("main", nil, b.UnitT(), b.Block(
			b.Let("n", nil, b.Int("0")),
			b.Do(b.Call(c)),
		)),
	))
	testkit.ExpectClean(t, a.bag)
	set := a.caps[c.ID]
	if len(set.Entries) != 1 || set.Entries[0].Mode != CaptureBySharedRef {
		t.Fatalf("entries %+v", set.Entries)
	}
	// first use was a read, the entry keeps that position
	if set.Entries[0].Span != firstUse.Span {
		t.Fatalf("entry span %v, want %v", set.Entries[0].Span, firstUse.Span)
	}
}

func TestCaptureSelfReference(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	fact := b.Closure("fact", []*ast.Param{b.Param("k", b.Prim("i32"))}, b.Prim("i32"), b.BlockYield(
		b.If(b.Binary(ast.OpEq, b.Ref("k"), b.Int("0")),
			b.BlockYield(b.Int("1")),
			b.BlockYield(b.Binary(ast.OpMul, b.Ref("k"),
				b.Call(b.Ref("fact"), b.Binary(ast.OpSub, b.Ref("k"), b.Int("1"))))),
		),
	))
	a := analyze(t, b.Module(testkit.MainQ,
		b.Func("main", nil, b.Prim("i32"), b.Block(
			b.Let("f", nil, fact),
			b.Return(b.Call(b.Ref("f"), b.Int("5"))),
		)),
	))
	testkit.ExpectClean(t, a.bag)
	set := a.caps[fact.ID]
	if len(set.Entries) != 1 {
		t.Fatalf("entries %+v", set.Entries)
	}
	if e := set.Entries[0]; e.Kind != CaptureSelf || e.Mode != CaptureSelfRef || e.Name != "fact" {
		t.Fatalf("self entry %+v", e)
	}
}

func TestCaptureNestedClosuresPropagateOutward(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	inner := b.Closure("", nil, nil, b.BlockYield(b.Binary(ast.OpAdd, b.Ref("a"), b.Ref("x"))))
	middle := b.Closure("", nil, nil, b.Block(
		b.Let("x", nil, b.Int("2")),
		b.Let("g", nil, inner),
		b.Return(b.Call(b.Ref("g"))),
	))
	deepest := b.Closure("", nil, nil, b.BlockYield(b.Ref("a")))
	lvl2 := b.Closure("", nil, nil, b.BlockYield(b.Call(deepest)))
	lvl1 := b.Closure("", nil, nil, b.BlockYield(b.Call(lvl2)))
	a := analyze(t, b.Module(testkit.MainQ,
		b.Func("main", nil, b.Prim("i32"), b.Block(
			b.Let("a", nil, b.Int("1")),
			b.Let("h", nil, middle),
			b.Let("k", nil, lvl1),
			b.Return(b.Binary(ast.OpAdd, b.Call(b.Ref("h")), b.Call(b.Ref("k")))),
		)),
	))
	testkit.ExpectClean(t, a.bag)

	innerSet := a.caps[inner.ID]
	if len(innerSet.Entries) != 2 || innerSet.Entries[0].Name != "a" || innerSet.Entries[1].Name != "x" {
		t.Fatalf("inner entries %+v", innerSet.Entries)
	}
	// x is bound inside middle, a is not
	if got := entryModes(a.caps[middle.ID]); len(got) != 1 || got["a"] != CaptureByValue {
		t.Fatalf("middle captures %v", got)
	}
	for _, c := range []*ast.Closure{deepest, lvl2, lvl1} {
		if _, ok := a.caps[c.ID].Lookup(a.res.Refs[refTo(t, deepest, "a")]); !ok {
			t.Fatalf("closure %d misses a", c.ID)
		}
	}
}

func TestCaptureMonotonicUnderNesting(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	inner := b.Closure("", b.Params("y"), nil, b.BlockYield(
		b.Binary(ast.OpAdd, b.Binary(ast.OpAdd, b.Ref("a"), b.Ref("b")), b.Ref("y"))))
	outer := b.Closure("", nil, nil, b.Block(
		b.Let("b", nil, b.Int("1")),
		b.Return(b.Call(inner, b.Int("2"))),
	))
	a := analyze(t, b.Module(testkit.MainQ,
		b.Func("main", nil, b.Prim("i32"), b.Block(
			b.Let("a", nil, b.Int("1")),
			b.Return(b.Call(outer)),
		)),
	))
	testkit.ExpectClean(t, a.bag)

	outerSet := a.caps[outer.ID]
	scope := a.res.Scopes[outer.ID]
	for _, e := range a.caps[inner.ID].Entries {
		if a.res.Table.Within(a.res.Symbol(e.Symbol).Scope, scope) {
			continue
		}
		if _, ok := outerSet.Lookup(e.Symbol); !ok {
			t.Fatalf("outer closure misses %s", e.Name)
		}
	}
	if len(outerSet.Entries) != 1 {
		t.Fatalf("outer entries %+v", outerSet.Entries)
	}
}

func TestCaptureIgnoresTopLevelItems(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	c := b.Closure("", nil, nil, b.BlockYield(b.Call(b.Ref("one"))))
	a := analyze(t, b.Module(testkit.MainQ,
		b.Func("one", nil, b.Prim("i32"), b.BlockYield(b.Int("1"))),
		b.Const("TWO", b.Prim("i32"), b.Int("2")),
		b.Func("main", nil, b.Prim("i32"), b.BlockYield(
			b.Binary(ast.OpAdd, b.Call(c), b.Ref("TWO")),
		)),
	))
	testkit.ExpectClean(t, a.bag)
	if set := a.caps[c.ID]; set == nil || len(set.Entries) != 0 {
		t.Fatalf("entries %+v", set)
	}
}

// refTo finds the first reference to name inside c.
func refTo(t *testing.T, c *ast.Closure, name string) ast.NodeID {
	t.Helper()
	var id ast.NodeID
	ast.Inspect(c, func(n ast.Node) bool {
		if r, ok := n.(*ast.Ref); ok && id == ast.NoNodeID && r.Name.Name == name {
			id = r.ID
		}
		return true
	})
	if id == ast.NoNodeID {
		t.Fatalf("no reference to %s", name)
	}
	return id
}
