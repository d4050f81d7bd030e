package sema

import (
	"testing"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/testkit"
)

func safetyOf(t *testing.T, body *ast.Block) (SafetyReport, *diag.Bag) {
	t.Helper()
	b := ast.NewBuilder(ast.NewIDCounter(1000), 2)
	mod := b.Module(testkit.MainQ,
		b.Func("f", []*ast.Param{b.Param("p", b.Ptr(b.Prim("i32")))}, nil, body),
	)
	bag := diag.NewBag(16)
	rep := CheckSafety(testkit.Package(mod), Options{Reporter: diag.BagReporter{Bag: bag}})
	return rep, bag
}

func TestSafetyDerefNeedsUnsafe(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	bare := b.Deref(b.Ref("p"))
	rep, bag := safetyOf(t, b.BlockYield(bare))
	testkit.ExpectCodes(t, bag, diag.SemaUnsafeOperationOutsideContext)
	if len(rep.Violations) != 1 || rep.Violations[0] != bare.ID {
		t.Fatalf("violations %v, want [%d]", rep.Violations, bare.ID)
	}

	wrapped := b.Unsafe()
	wrapped.Yield = b.Deref(b.Ref("p"))
	rep, bag = safetyOf(t, b.BlockYield(wrapped))
	testkit.ExpectClean(t, bag)
	if rep.Checked != 1 {
		t.Fatalf("checked %d", rep.Checked)
	}
}

func TestSafetyAfterSiblingBlocks(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	after := b.Deref(b.Ref("p"))
	rep, bag := safetyOf(t, b.Block(
		b.Do(b.Unsafe(b.Do(b.Deref(b.Ref("p"))))),
		b.Do(b.Unsafe(b.Do(b.Deref(b.Ref("p"))))),
		b.Do(after),
	))
	testkit.ExpectCodes(t, bag, diag.SemaUnsafeOperationOutsideContext)
	if len(rep.Violations) != 1 || rep.Violations[0] != after.ID {
		t.Fatalf("violations %v, want [%d]", rep.Violations, after.ID)
	}

	_, bag = safetyOf(t, b.Block(
		b.Do(b.Unsafe(b.Do(b.Deref(b.Ref("p"))))),
		b.Do(b.Unsafe(b.Do(b.Deref(b.Ref("p"))))),
		b.Do(b.Unsafe(b.Do(b.Deref(b.Ref("p"))))),
	))
	testkit.ExpectClean(t, bag)
}

func TestSafetyInnerBlockExitKeepsOuter(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	_, bag := safetyOf(t, b.Block(
		b.Do(b.Unsafe(
			b.Do(b.Unsafe(b.Do(b.Deref(b.Ref("p"))))),
			b.Do(b.Deref(b.Ref("p"))),
			b.Do(b.Closure("", nil, nil, b.BlockYield(b.Index(b.Ref("p"), b.Int("1"))))),
		)),
	))
	testkit.ExpectClean(t, bag)
}

func TestSafetyOperations(t *testing.T) {
	tests := []struct {
		name string
		op   func(b *ast.Builder) ast.Expr
		bad  bool
	}{
		{"deref", func(b *ast.Builder) ast.Expr { return b.Deref(b.Ref("p")) }, true},
		{"index", func(b *ast.Builder) ast.Expr { return b.Index(b.Ref("p"), b.Int("0")) }, true},
		{"null compare", func(b *ast.Builder) ast.Expr { return b.Binary(ast.OpEq, b.Ref("p"), b.Null()) }, true},
		{"null on the left", func(b *ast.Builder) ast.Expr { return b.Binary(ast.OpNe, b.Null(), b.Ref("p")) }, true},
		{"address of", func(b *ast.Builder) ast.Expr { return b.AddrOf(b.Ref("p")) }, false},
		{"pointer compare", func(b *ast.Builder) ast.Expr { return b.Binary(ast.OpEq, b.Ref("p"), b.Ref("p")) }, false},
		{"null assignment", func(b *ast.Builder) ast.Expr { return b.Null() }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder(nil, 1)
			rep, bag := safetyOf(t, b.Block(b.Do(tt.op(b))))
			if got := len(rep.Violations) == 1; got != tt.bad {
				t.Fatalf("violation=%v, want %v:%s", got, tt.bad, testkit.Dump(bag))
			}
		})
	}
}

func TestSafetyDerefAssignment(t *testing.T) {
	b := ast.NewBuilder(nil, 1)
	_, bag := safetyOf(t, b.Block(b.Assign(b.Deref(b.Ref("p")), b.Int("1"))))
	testkit.ExpectCodes(t, bag, diag.SemaUnsafeOperationOutsideContext)
}
