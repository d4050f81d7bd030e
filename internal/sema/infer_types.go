package sema

import (
	"tails/internal/ast"
	"tails/internal/symbols"
	"tails/internal/types"
)

// typeOf converts a written type. A missing annotation yields a fresh
// variable; an unresolved name yields a poisoned one.
func (tc *typeChecker) typeOf(t ast.TypeExpr) types.TypeID {
	in := tc.types
	switch t := t.(type) {
	case nil:
		return in.Fresh()
	case *ast.PrimitiveType:
		if id, ok := in.PrimitiveByName(t.Name); ok {
			return id
		}
		tc.mismatchf(t.Span, "unknown primitive type %q", t.Name)
		return tc.poison()
	case *ast.UnitType:
		return in.Builtins().Unit
	case *ast.PointerType:
		return in.Pointer(tc.typeOf(t.Elem))
	case *ast.ReferenceType:
		return in.Reference(tc.typeOf(t.Elem))
	case *ast.TupleType:
		elems := make([]types.TypeID, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = tc.typeOf(e)
		}
		return in.Tuple(elems)
	case *ast.ObjectType:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.Field{Name: f.Name.Name, Type: tc.typeOf(f.Type)}
		}
		return in.Object(fields)
	case *ast.UnionType:
		alts := make([]types.TypeID, len(t.Alts))
		for i, a := range t.Alts {
			alts[i] = tc.typeOf(a)
		}
		return in.Union(alts)
	case *ast.FuncType:
		params := make([]types.TypeID, len(t.Params))
		for i, p := range t.Params {
			params[i] = tc.typeOf(p)
		}
		result := in.Builtins().Unit
		if t.Result != nil {
			result = tc.typeOf(t.Result)
		}
		return in.Fn(params, result)
	case *ast.NamedType:
		if t == nil {
			return in.Fresh()
		}
		sym, ok := tc.symbols.TypeRefs[t.ID]
		if !ok {
			return tc.poison()
		}
		return tc.named(sym)
	}
	return tc.poison()
}

func (tc *typeChecker) named(sym symbols.SymbolID) types.TypeID {
	return tc.types.Named(uint32(sym), tc.symbols.Table.Name(sym))
}

// nonConstant returns the first subexpression of e that cannot be evaluated
// at compile time, or nil.
func (tc *typeChecker) nonConstant(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.Literal, *ast.SizeOf:
		return nil
	case *ast.Ref:
		_, sym := tc.symbols.RefSymbol(e.ID)
		if sym == nil || sym.Kind == symbols.SymbolConstant {
			return nil
		}
		return e
	case *ast.Unary:
		if e.Op == ast.OpNeg || e.Op == ast.OpNot {
			return tc.nonConstant(e.X)
		}
		return e
	case *ast.Binary:
		if bad := tc.nonConstant(e.L); bad != nil {
			return bad
		}
		return tc.nonConstant(e.R)
	case *ast.Cast:
		return tc.nonConstant(e.X)
	case *ast.Tuple:
		for _, x := range e.Elems {
			if bad := tc.nonConstant(x); bad != nil {
				return bad
			}
		}
		return nil
	case *ast.Object:
		for _, f := range e.Fields {
			if bad := tc.nonConstant(f.Value); bad != nil {
				return bad
			}
		}
		return nil
	case *ast.FieldAccess:
		return tc.nonConstant(e.X)
	case *ast.TupleIndex:
		return tc.nonConstant(e.X)
	}
	return e
}
