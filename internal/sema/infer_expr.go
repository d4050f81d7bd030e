package sema

import (
	"fmt"

	"tails/internal/ast"
	"tails/internal/diag"
	"tails/internal/symbols"
	"tails/internal/types"
)

// expr infers the type of e and records it.
func (tc *typeChecker) expr(e ast.Expr) types.TypeID {
	if e == nil {
		return tc.types.Builtins().Unit
	}
	t := tc.exprType(e)
	if t == types.NoTypeID {
		t = tc.poison()
	}
	id := ast.IDOf(e)
	tc.info.Nodes[id] = t
	tc.spans[id] = ast.SpanOf(e)
	return t
}

func (tc *typeChecker) exprType(e ast.Expr) types.TypeID {
	in := tc.types
	b := in.Builtins()
	switch e := e.(type) {
	case *ast.Literal:
		return tc.literal(e)
	case *ast.Ref:
		return tc.ref(e)
	case *ast.Call:
		return tc.call(e)
	case *ast.Closure:
		return tc.closure(e)
	case *ast.Object:
		return tc.object(e)
	case *ast.Tuple:
		elems := make([]types.TypeID, len(e.Elems))
		for i, x := range e.Elems {
			elems[i] = tc.expr(x)
		}
		return in.Tuple(elems)
	case *ast.FieldAccess:
		return tc.later(deferred{kind: deferField, node: e.ID, span: e.Span, subject: tc.expr(e.X), field: e.Field.Name})
	case *ast.TupleIndex:
		return tc.later(deferred{kind: deferTupleIndex, node: e.ID, span: e.Span, subject: tc.expr(e.X), index: e.Index})
	case *ast.Unary:
		return tc.unary(e)
	case *ast.Binary:
		return tc.binary(e)
	case *ast.If:
		tc.assign(b.Bool, tc.expr(e.Cond), ast.SpanOf(e.Cond))
		var then types.TypeID
		if e.Then != nil {
			then = tc.block(e.Then)
			tc.spans[e.Then.ID] = e.Then.Span
		}
		if e.Else == nil {
			return b.Unit
		}
		els := tc.expr(e.Else)
		if then == types.NoTypeID {
			return els
		}
		if !tc.subst.tryUnify(then, els) {
			tc.mismatch(then, els, ast.SpanOf(e.Else))
		}
		return then
	case *ast.Block:
		return tc.block(e)
	case *ast.Cast:
		target := tc.typeOf(e.Type)
		tc.later(deferred{kind: deferCast, node: e.ID, span: e.Span, subject: tc.expr(e.X), target: target})
		return target
	case *ast.SizeOf:
		tc.typeOf(e.Type)
		return b.U64
	case *ast.Index:
		xt := tc.expr(e.X)
		tc.later(deferred{kind: deferIndexKey, node: ast.IDOf(e.Index), span: ast.SpanOf(e.Index), subject: tc.expr(e.Index)})
		return tc.later(deferred{kind: deferIndex, node: e.ID, span: e.Span, subject: xt})
	case *ast.Match:
		subject := tc.expr(e.Subject)
		var result types.TypeID
		join := func(t types.TypeID, at ast.Expr) {
			if result == types.NoTypeID {
				result = t
				return
			}
			if !tc.subst.tryUnify(result, t) {
				tc.mismatch(result, t, ast.SpanOf(at))
			}
		}
		for _, arm := range e.Arms {
			pt := tc.expr(arm.Pattern)
			if !tc.tryAssign(subject, pt) {
				tc.mismatch(subject, pt, ast.SpanOf(arm.Pattern))
			}
			join(tc.expr(arm.Body), arm.Body)
		}
		if e.Default != nil {
			join(tc.expr(e.Default), e.Default)
		}
		if result == types.NoTypeID {
			return b.Unit
		}
		return result
	}
	panic(fmt.Sprintf("sema: unexpected expression %T", e))
}

func (tc *typeChecker) literal(e *ast.Literal) types.TypeID {
	in := tc.types
	b := in.Builtins()
	switch e.Kind {
	case ast.LitInt:
		v := in.Fresh()
		tc.subst.lits[v] = litInt
		return v
	case ast.LitReal:
		v := in.Fresh()
		tc.subst.lits[v] = litFloat
		return v
	case ast.LitBool:
		return b.Bool
	case ast.LitChar:
		return b.Char
	case ast.LitString:
		return b.String
	case ast.LitNull:
		return in.Pointer(in.Fresh())
	case ast.LitUnit:
		return b.Unit
	}
	return tc.poison()
}

func (tc *typeChecker) ref(e *ast.Ref) types.TypeID {
	sid, sym := tc.symbols.RefSymbol(e.ID)
	if sym == nil {
		return tc.poison() // already reported as missing
	}
	if sym.Kind == symbols.SymbolTypeDef {
		tc.mismatchf(e.Span, "%q is a type, not a value", e.FullName())
		return tc.poison()
	}
	if t, ok := tc.info.Symbols[sid]; ok {
		return t
	}
	// declared later in the same body is impossible after resolution;
	// a missing entry means the declaration itself failed
	return tc.poison()
}

func (tc *typeChecker) call(e *ast.Call) types.TypeID {
	if ref, ok := e.Callee.(*ast.Ref); ok {
		if _, sym := tc.symbols.RefSymbol(ref.ID); sym != nil && sym.Kind == symbols.SymbolTypeDef {
			return tc.typeCallee(e, ref)
		}
	}
	calleeT := tc.expr(e.Callee)
	args := make([]types.TypeID, len(e.Args))
	for i, a := range e.Args {
		args[i] = tc.expr(a)
	}

	kind := diag.CalleeIndirect
	var calleeSym *symbols.Symbol
	var calleeID symbols.SymbolID
	if ref, ok := e.Callee.(*ast.Ref); ok {
		kind = diag.CalleeDirect
		calleeID, calleeSym = tc.symbols.RefSymbol(ref.ID)
		if calleeSym != nil && !calleeSym.Kind.IsValue() {
			return tc.poison()
		}
		if calleeSym != nil && (calleeSym.Kind == symbols.SymbolConstant || calleeSym.Kind == symbols.SymbolForeignVar) {
			tc.invalidCallee(e, kind)
			return tc.poison()
		}
	}

	fnT := tc.subst.find(calleeT)
	if tc.poisoned(fnT) {
		return tc.poison()
	}
	if tc.subst.isVar(fnT) {
		// higher-order use: the callee's signature is whatever the call needs
		result := tc.types.Fresh()
		if !tc.subst.unify(fnT, tc.types.Fn(args, result)) {
			tc.invalidCallee(e, kind)
			return tc.poison()
		}
		return result
	}
	info, ok := tc.types.FnInfo(fnT)
	if !ok {
		if !tc.poisoned(fnT) {
			tc.invalidCallee(e, kind)
		}
		return tc.poison()
	}

	variadic := calleeSym != nil && tc.variadic[calleeID]
	if len(args) != len(info.Params) && (!variadic || len(args) < len(info.Params)) {
		name := "function"
		if calleeSym != nil {
			name = fmt.Sprintf("%s %q", calleeSym.Kind, tc.symbols.Table.Name(calleeID))
		}
		atLeast := ""
		if variadic {
			atLeast = "at least "
		}
		diag.ReportError(tc.reporter, diag.SemaArgumentCountMismatch, e.Span,
			fmt.Sprintf("%s expects %s%d arguments, got %d", name, atLeast, len(info.Params), len(args))).
			Emit()
	}
	for i := range min(len(args), len(info.Params)) {
		tc.assign(info.Params[i], args[i], ast.SpanOf(e.Args[i]))
	}
	return info.Result
}

// typeCallee reports a call through a type name. Arguments are still checked.
func (tc *typeChecker) typeCallee(e *ast.Call, ref *ast.Ref) types.TypeID {
	tc.info.Nodes[ref.ID] = tc.poison()
	tc.spans[ref.ID] = ref.Span
	for _, a := range e.Args {
		tc.expr(a)
	}
	diag.ReportError(tc.reporter, diag.SemaInvalidCallee, ref.Span,
		fmt.Sprintf("invalid %s callee: %q is a type, not a function", diag.CalleeDirect, ref.FullName())).Emit()
	return tc.poison()
}

func (tc *typeChecker) invalidCallee(e *ast.Call, kind diag.CalleeKind) {
	what := "expression"
	if ref, ok := e.Callee.(*ast.Ref); ok {
		what = fmt.Sprintf("%q", ref.FullName())
	}
	diag.ReportError(tc.reporter, diag.SemaInvalidCallee, ast.SpanOf(e.Callee),
		fmt.Sprintf("invalid %s callee: %s of type %s is not a function",
			kind, what, tc.label(tc.info.Nodes[ast.IDOf(e.Callee)]))).Emit()
}

func (tc *typeChecker) closure(e *ast.Closure) types.TypeID {
	fnT := tc.signature(e.Params, e.Result, true)
	// the self name is bound to the closure itself
	if e.Name.Name != "" {
		tc.setSym(e.ID, fnT)
	}
	info, _ := tc.types.FnInfo(fnT)
	if e.Body != nil {
		at := e.Span
		if e.Result != nil {
			at = ast.SpanOf(e.Result)
		}
		tc.checkBody(e.Body, info.Result, at)
	}
	return fnT
}

func (tc *typeChecker) object(e *ast.Object) types.TypeID {
	values := make(map[string]types.TypeID, len(e.Fields))
	fields := make([]types.Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		vt := tc.expr(f.Value)
		values[f.Name.Name] = vt
		fields = append(fields, types.Field{Name: f.Name.Name, Type: vt})
	}
	if e.Type == nil {
		return tc.types.Object(fields)
	}

	sym, ok := tc.symbols.TypeRefs[e.Type.ID]
	if !ok {
		return tc.poison()
	}
	named := tc.named(sym)
	shape, ok := tc.shapeOf(named)
	if !ok {
		return tc.poison()
	}
	if tc.types.Kind(shape) != types.KindObject {
		tc.mismatchf(e.Span, "type %s is not an object type", e.Type.FullName())
		return named
	}
	for _, f := range e.Fields {
		ft, ok := tc.types.ObjectField(shape, f.Name.Name)
		if !ok {
			diag.ReportError(tc.reporter, diag.SemaUnknownField, f.Name.Span,
				fmt.Sprintf("type %s has no field %q", e.Type.FullName(), f.Name.Name)).Emit()
			continue
		}
		tc.assign(ft, values[f.Name.Name], ast.SpanOf(f.Value))
	}
	shapeFields, _ := tc.types.ObjectFields(shape)
	for _, sf := range shapeFields {
		if _, ok := values[sf.Name]; !ok {
			tc.mismatchf(e.Span, "missing field %q in %s literal", sf.Name, e.Type.FullName())
		}
	}
	return named
}

func (tc *typeChecker) unary(e *ast.Unary) types.TypeID {
	b := tc.types.Builtins()
	switch e.Op {
	case ast.OpNot:
		tc.assign(b.Bool, tc.expr(e.X), ast.SpanOf(e.X))
		return b.Bool
	case ast.OpNeg:
		xt := tc.expr(e.X)
		tc.later(deferred{kind: deferNumeric, node: e.ID, span: e.Span, subject: xt})
		return xt
	case ast.OpAddrOf:
		return tc.types.Pointer(tc.expr(e.X))
	case ast.OpDeref:
		return tc.later(deferred{kind: deferDeref, node: e.ID, span: e.Span, subject: tc.expr(e.X)})
	}
	return tc.poison()
}

func (tc *typeChecker) binary(e *ast.Binary) types.TypeID {
	b := tc.types.Builtins()
	lt := tc.expr(e.L)
	rt := tc.expr(e.R)
	switch {
	case e.Op.IsLogical():
		tc.assign(b.Bool, lt, ast.SpanOf(e.L))
		tc.assign(b.Bool, rt, ast.SpanOf(e.R))
		return b.Bool
	case e.Op.IsComparison():
		if !tc.subst.tryUnify(lt, rt) {
			tc.mismatch(lt, rt, ast.SpanOf(e.R))
		}
		return b.Bool
	default:
		if !tc.subst.tryUnify(lt, rt) {
			tc.mismatch(lt, rt, ast.SpanOf(e.R))
			return tc.poison()
		}
		tc.later(deferred{kind: deferNumeric, node: e.ID, span: e.Span, subject: lt})
		return lt
	}
}
