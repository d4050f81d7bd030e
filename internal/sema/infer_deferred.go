package sema

import (
	"fmt"
	"slices"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/source"
	"tails/internal/types"
)

type deferKind uint8

const (
	deferField deferKind = iota
	deferTupleIndex
	deferDeref
	deferIndex
	deferIndexKey
	deferNumeric
	deferCast
)

func (k deferKind) hasResult() bool {
	return k <= deferIndex
}

// deferred is a constraint that can only be checked once the subject type is
// known: member access, dereference and friends on a still-unbound variable.
type deferred struct {
	kind    deferKind
	node    ast.NodeID
	span    source.Span
	subject types.TypeID
	result  types.TypeID
	field   string
	index   int
	target  types.TypeID
}

// later tries d now and queues it when the subject is still unknown. It
// returns the result variable of d, if any.
func (tc *typeChecker) later(d deferred) types.TypeID {
	if d.kind.hasResult() {
		d.result = tc.types.Fresh()
	}
	if !tc.step(d) {
		tc.deferred = append(tc.deferred, d)
	}
	return d.result
}

// solve re-runs queued constraints in rounds until none makes progress,
// defaults literal variables and runs the rounds once more. Constraints
// whose subject is still unknown afterwards are dropped; the unresolved
// variable is reported where it was declared.
func (tc *typeChecker) solve() {
	tc.drain()
	tc.defaultLiterals()
	tc.drain()
	for _, d := range tc.deferred {
		if d.kind.hasResult() {
			tc.subst.unify(d.result, tc.poison())
		}
	}
	tc.deferred = nil
}

func (tc *typeChecker) drain() {
	for progress := true; progress && len(tc.deferred) > 0; {
		progress = false
		pending := tc.deferred
		tc.deferred = nil
		for _, d := range pending {
			if tc.step(d) {
				progress = true
				continue
			}
			tc.deferred = append(tc.deferred, d)
		}
	}
}

func (tc *typeChecker) defaultLiterals() {
	b := tc.types.Builtins()
	vars := make([]types.TypeID, 0, len(tc.subst.lits))
	for v := range tc.subst.lits {
		vars = append(vars, v)
	}
	slices.Sort(vars)
	for _, v := range vars {
		if tc.subst.find(v) != v {
			continue
		}
		switch tc.subst.lits[v] {
		case litInt:
			tc.subst.unify(v, b.I32)
		case litFloat:
			tc.subst.unify(v, b.F64)
		}
	}
}

// step applies d if its subject is known. It returns false to retry later.
func (tc *typeChecker) step(d deferred) bool {
	s := tc.subst.find(d.subject)
	if tc.poisoned(s) {
		if d.kind.hasResult() {
			tc.subst.unify(d.result, tc.poison())
		}
		return true
	}
	if tc.subst.isVar(s) {
		return d.kind == deferNumeric && tc.subst.lits[s] != litNone
	}

	switch d.kind {
	case deferField:
		return tc.stepField(d, s)
	case deferTupleIndex:
		obj := tc.expand(s)
		elems, ok := tc.types.TupleElems(obj)
		if !ok {
			tc.failResult(d, "type %s is not a tuple", tc.label(s))
			return true
		}
		if d.index < 0 || d.index >= len(elems) {
			tc.failResult(d, "tuple index %d out of range for %s", d.index, tc.label(s))
			return true
		}
		tc.bindResult(d, elems[d.index])
	case deferDeref:
		tt := tc.types.MustLookup(s)
		if !tt.IsIndirect() {
			tc.failResult(d, "cannot dereference a value of type %s", tc.label(s))
			return true
		}
		tc.bindResult(d, tt.Elem)
	case deferIndex:
		tt := tc.types.MustLookup(s)
		if tt.Kind != types.KindPointer {
			tc.failResult(d, "cannot index a value of type %s", tc.label(s))
			return true
		}
		tc.bindResult(d, tt.Elem)
	case deferIndexKey:
		if !tc.types.MustLookup(s).IsInteger() {
			tc.mismatchf(d.span, "index must be an integer, found %s", tc.label(s))
		}
	case deferNumeric:
		if !tc.types.MustLookup(s).IsNumeric() {
			tc.mismatchf(d.span, "arithmetic requires numeric operands, found %s", tc.label(s))
		}
	case deferCast:
		if !tc.castable(s, tc.subst.find(d.target)) {
			tc.mismatchf(d.span, "cannot cast %s to %s", tc.label(s), tc.label(d.target))
		}
	}
	return true
}

func (tc *typeChecker) stepField(d deferred, s types.TypeID) bool {
	obj := tc.expand(s)
	// member access sees through one reference
	if tt := tc.types.MustLookup(obj); tt.Kind == types.KindReference {
		inner := tc.subst.find(tt.Elem)
		if tc.subst.isVar(inner) {
			return false
		}
		obj = tc.expand(inner)
	}
	if tc.types.Kind(obj) != types.KindObject {
		tc.failResult(d, "type %s has no fields", tc.label(s))
		return true
	}
	ft, ok := tc.types.ObjectField(obj, d.field)
	if !ok {
		diag.ReportError(tc.reporter, diag.SemaUnknownField, d.span,
			fmt.Sprintf("type %s has no field %q", tc.label(s), d.field)).Emit()
		tc.subst.unify(d.result, tc.poison())
		return true
	}
	tc.bindResult(d, ft)
	return true
}

// expand replaces a named type by its definition.
func (tc *typeChecker) expand(t types.TypeID) types.TypeID {
	if shape, ok := tc.shapeOf(t); ok {
		return tc.subst.find(shape)
	}
	return t
}

func (tc *typeChecker) bindResult(d deferred, t types.TypeID) {
	if !tc.subst.tryUnify(d.result, t) {
		tc.mismatch(d.result, t, d.span)
	}
}

func (tc *typeChecker) failResult(d deferred, format string, args ...any) {
	tc.mismatchf(d.span, format, args...)
	tc.subst.unify(d.result, tc.poison())
}

func (tc *typeChecker) castable(from, to types.TypeID) bool {
	if from == to || tc.subst.tryUnify(from, to) {
		return true
	}
	ft, fok := tc.types.Lookup(from)
	tt, tok := tc.types.Lookup(to)
	if !fok || !tok {
		return false
	}
	numericLike := func(t types.Type) bool {
		return t.IsNumeric() || t.Kind == types.KindChar || t.Kind == types.KindBool
	}
	switch {
	case numericLike(ft) && tt.IsNumeric():
		return true
	case ft.IsInteger() && tt.Kind == types.KindChar:
		return true
	case ft.Kind == types.KindPointer && tt.Kind == types.KindPointer:
		return true
	case ft.Kind == types.KindPointer && tt.IsInteger(), ft.IsInteger() && tt.Kind == types.KindPointer:
		return true
	}
	return false
}
