package ast

import (
	"tails/internal/source"
)

// Builder constructs trees with fresh IDs drawn from a shared counter. It is
// the in-process counterpart of the external parser and is what tests and
// tools use to hand programs to the pipeline. Every node receives a distinct
// one-byte span so diagnostics stay distinguishable without source text.
type Builder struct {
	ids  *IDCounter
	file source.FileID
	pos  uint32
}

func NewBuilder(ids *IDCounter, file source.FileID) *Builder {
	if ids == nil {
		ids = NewIDCounter(0)
	}
	return &Builder{ids: ids, file: file}
}

// IDs returns the counter the builder allocates from.
func (b *Builder) IDs() *IDCounter { return b.ids }

func (b *Builder) base() Base {
	sp := source.Span{File: b.file, Start: b.pos, End: b.pos + 1}
	b.pos++
	return Base{ID: b.ids.Next(), Span: sp}
}

func (b *Builder) ident(name string) Ident {
	sp := source.Span{File: b.file, Start: b.pos, End: b.pos + 1}
	b.pos++
	return Ident{Name: name, Span: sp}
}

// Module assembles a module from items.
func (b *Builder) Module(q Qualifier, items ...Item) *Module {
	return &Module{Base: b.base(), Qualifier: q, Items: items}
}

// items

func (b *Builder) Param(name string, typ TypeExpr) *Param {
	return &Param{Base: b.base(), Name: b.ident(name), Type: typ}
}

// Params is shorthand for a list of unannotated parameters.
func (b *Builder) Params(names ...string) []*Param {
	out := make([]*Param, len(names))
	for i, n := range names {
		out[i] = b.Param(n, nil)
	}
	return out
}

func (b *Builder) Func(name string, params []*Param, result TypeExpr, body *Block) *Function {
	return &Function{Base: b.base(), Name: b.ident(name), Params: params, Result: result, Body: body}
}

func (b *Builder) Foreign(name string, params []*Param, variadic bool, result TypeExpr) *Foreign {
	return &Foreign{Base: b.base(), Name: b.ident(name), Params: params, Variadic: variadic, Result: result}
}

func (b *Builder) ForeignVar(name string, typ TypeExpr) *ForeignVar {
	return &ForeignVar{Base: b.base(), Name: b.ident(name), Type: typ}
}

func (b *Builder) TypeDef(name string, body TypeExpr) *TypeDef {
	return &TypeDef{Base: b.base(), Name: b.ident(name), Body: body}
}

func (b *Builder) Const(name string, typ TypeExpr, value Expr) *Constant {
	return &Constant{Base: b.base(), Name: b.ident(name), Type: typ, Value: value}
}

// statements

func (b *Builder) Block(stmts ...Stmt) *Block {
	return &Block{Base: b.base(), Stmts: stmts}
}

// BlockYield builds a block whose value is yield.
func (b *Builder) BlockYield(yield Expr, stmts ...Stmt) *Block {
	return &Block{Base: b.base(), Stmts: stmts, Yield: yield}
}

func (b *Builder) Unsafe(stmts ...Stmt) *Block {
	return &Block{Base: b.base(), Stmts: stmts, Unsafe: true}
}

func (b *Builder) Let(name string, typ TypeExpr, value Expr) *Let {
	return &Let{Base: b.base(), Name: b.ident(name), Type: typ, Value: value}
}

func (b *Builder) Do(x Expr) *ExprStmt {
	return &ExprStmt{Base: b.base(), X: x}
}

func (b *Builder) Return(value Expr) *Return {
	return &Return{Base: b.base(), Value: value}
}

func (b *Builder) Assign(target, value Expr) *Assign {
	return &Assign{Base: b.base(), Target: target, Value: value}
}

// expressions

func (b *Builder) lit(kind LitKind, v string) *Literal {
	return &Literal{Base: b.base(), Kind: kind, Value: v}
}

func (b *Builder) Int(v string) *Literal  { return b.lit(LitInt, v) }
func (b *Builder) Real(v string) *Literal { return b.lit(LitReal, v) }
func (b *Builder) Str(v string) *Literal  { return b.lit(LitString, v) }
func (b *Builder) Char(v string) *Literal { return b.lit(LitChar, v) }
func (b *Builder) Null() *Literal         { return b.lit(LitNull, "nullptr") }
func (b *Builder) UnitLit() *Literal      { return b.lit(LitUnit, "()") }

func (b *Builder) Bool(v bool) *Literal {
	if v {
		return b.lit(LitBool, "true")
	}
	return b.lit(LitBool, "false")
}

func (b *Builder) Ref(name string) *Ref {
	return &Ref{Base: b.base(), Name: b.ident(name)}
}

func (b *Builder) QRef(q Qualifier, name string) *Ref {
	qq := q
	return &Ref{Base: b.base(), Qualifier: &qq, Name: b.ident(name)}
}

func (b *Builder) Call(callee Expr, args ...Expr) *Call {
	return &Call{Base: b.base(), Callee: callee, Args: args}
}

// Closure builds a closure literal; name may be empty.
func (b *Builder) Closure(name string, params []*Param, result TypeExpr, body *Block) *Closure {
	c := &Closure{Base: b.base(), Params: params, Result: result, Body: body}
	if name != "" {
		c.Name = b.ident(name)
	}
	return c
}

// Object builds an object literal; typeName may be empty for anonymous shapes.
func (b *Builder) Object(typeName string, fields ...*Field) *Object {
	o := &Object{Base: b.base(), Fields: fields}
	if typeName != "" {
		o.Type = b.Named(typeName)
	}
	return o
}

func (b *Builder) Field(name string, value Expr) *Field {
	return &Field{Base: b.base(), Name: b.ident(name), Value: value}
}

func (b *Builder) Tuple(elems ...Expr) *Tuple {
	return &Tuple{Base: b.base(), Elems: elems}
}

func (b *Builder) Access(x Expr, field string) *FieldAccess {
	return &FieldAccess{Base: b.base(), X: x, Field: b.ident(field)}
}

func (b *Builder) TupleIdx(x Expr, i int) *TupleIndex {
	return &TupleIndex{Base: b.base(), X: x, Index: i}
}

func (b *Builder) Unary(op UnaryOp, x Expr) *Unary {
	return &Unary{Base: b.base(), Op: op, X: x}
}

func (b *Builder) Deref(x Expr) *Unary  { return b.Unary(OpDeref, x) }
func (b *Builder) AddrOf(x Expr) *Unary { return b.Unary(OpAddrOf, x) }

func (b *Builder) Binary(op BinaryOp, l, r Expr) *Binary {
	return &Binary{Base: b.base(), Op: op, L: l, R: r}
}

// If builds a conditional; els may be nil, a *Block or an *If.
func (b *Builder) If(cond Expr, then *Block, els Expr) *If {
	return &If{Base: b.base(), Cond: cond, Then: then, Else: els}
}

func (b *Builder) Cast(x Expr, typ TypeExpr) *Cast {
	return &Cast{Base: b.base(), X: x, Type: typ}
}

func (b *Builder) SizeOf(typ TypeExpr) *SizeOf {
	return &SizeOf{Base: b.base(), Type: typ}
}

func (b *Builder) Index(x, index Expr) *Index {
	return &Index{Base: b.base(), X: x, Index: index}
}

func (b *Builder) Match(subject, def Expr, arms ...*MatchArm) *Match {
	return &Match{Base: b.base(), Subject: subject, Arms: arms, Default: def}
}

func (b *Builder) Arm(pattern, body Expr) *MatchArm {
	return &MatchArm{Base: b.base(), Pattern: pattern, Body: body}
}

// types

func (b *Builder) Prim(name string) *PrimitiveType {
	return &PrimitiveType{Base: b.base(), Name: name}
}

func (b *Builder) UnitT() *UnitType { return &UnitType{Base: b.base()} }

func (b *Builder) Ptr(elem TypeExpr) *PointerType {
	return &PointerType{Base: b.base(), Elem: elem}
}

func (b *Builder) RefT(elem TypeExpr) *ReferenceType {
	return &ReferenceType{Base: b.base(), Elem: elem}
}

func (b *Builder) TupleT(elems ...TypeExpr) *TupleType {
	return &TupleType{Base: b.base(), Elems: elems}
}

func (b *Builder) ObjectT(fields ...*FieldType) *ObjectType {
	return &ObjectType{Base: b.base(), Fields: fields}
}

func (b *Builder) FieldT(name string, typ TypeExpr) *FieldType {
	return &FieldType{Base: b.base(), Name: b.ident(name), Type: typ}
}

func (b *Builder) UnionT(alts ...TypeExpr) *UnionType {
	return &UnionType{Base: b.base(), Alts: alts}
}

func (b *Builder) FnT(params []TypeExpr, result TypeExpr) *FuncType {
	return &FuncType{Base: b.base(), Params: params, Result: result}
}

func (b *Builder) Named(name string) *NamedType {
	return &NamedType{Base: b.base(), Name: b.ident(name)}
}

func (b *Builder) QNamed(q Qualifier, name string) *NamedType {
	qq := q
	return &NamedType{Base: b.base(), Qualifier: &qq, Name: b.ident(name)}
}
