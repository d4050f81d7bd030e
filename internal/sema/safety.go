package sema

import (
	"fmt"

	"tails/internal/ast"
	"tails/internal/diag"
)

// SafetyReport summarises the unsafe-context check.
type SafetyReport struct {
	// Violations lists operations found outside any unsafe block.
	Violations []ast.NodeID
	// Checked counts every unsafe operation seen.
	Checked int
}

// CheckSafety reports pointer dereferences, comparisons against nullptr and
// unchecked indexing outside an unsafe block. Nesting is tracked with a
// depth counter so closing an inner block keeps the outer one in effect.
func CheckSafety(pkg ast.Package, opts Options) SafetyReport {
	s := &safetyWalker{reporter: opts.Reporter}
	for _, mod := range pkg.Modules() {
		ast.Walk(safetyVisitor{s: s}, mod)
	}
	if s.depth != 0 {
		panic(fmt.Sprintf("sema: unsafe depth %d after walk", s.depth))
	}
	return s.report
}

type safetyWalker struct {
	reporter diag.Reporter
	depth    int
	report   SafetyReport
}

type safetyVisitor struct {
	s      *safetyWalker
	unsafe bool
}

func (v safetyVisitor) Visit(n ast.Node) ast.Visitor {
	s := v.s
	switch n := n.(type) {
	case nil:
		if v.unsafe {
			s.depth--
		}
		return nil
	case *ast.Block:
		if n.Unsafe {
			s.depth++
			return safetyVisitor{s: s, unsafe: true}
		}
	case *ast.Unary:
		if n.Op == ast.OpDeref {
			s.check(n, "pointer dereference")
		}
	case *ast.Binary:
		if n.Op.IsComparison() && (ast.IsNull(n.L) || ast.IsNull(n.R)) {
			s.check(n, "comparison with nullptr")
		}
	case *ast.Index:
		s.check(n, "unchecked index")
	}
	return safetyVisitor{s: s}
}

func (s *safetyWalker) check(n ast.Node, what string) {
	s.report.Checked++
	if s.depth > 0 {
		return
	}
	s.report.Violations = append(s.report.Violations, ast.IDOf(n))
	if s.reporter == nil {
		return
	}
	diag.ReportError(s.reporter, diag.SemaUnsafeOperationOutsideContext, ast.SpanOf(n),
		what+" requires an unsafe block").Emit()
}
