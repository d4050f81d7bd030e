package ast

import (
	"fmt"

	"tails/internal/source"
)

// Decoder rebuilds trees from wire form. One Decoder is used per package so
// that node IDs are checked for uniqueness across all modules and the shared
// counter ends up past the highest ID seen.
type Decoder struct {
	ids  *IDCounter
	seen map[NodeID]struct{}
}

func NewDecoder(ids *IDCounter) *Decoder {
	if ids == nil {
		ids = NewIDCounter(0)
	}
	return &Decoder{ids: ids, seen: make(map[NodeID]struct{})}
}

// IDs returns the counter advanced past every decoded node.
func (d *Decoder) IDs() *IDCounter { return d.ids }

// Build converts wm into a Module whose spans point at file.
func (d *Decoder) Build(wm *WireModule, file source.FileID) (mod *Module, err error) {
	b := &wireBuilder{dec: d, file: file}
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(decodeError)
			if !ok {
				panic(r)
			}
			mod, err = nil, fmt.Errorf("module %s: %s", wm.Qualifier, de.msg)
		}
	}()
	mod = b.module(wm.Root)
	mod.Qualifier = wm.Qualifier
	return mod, nil
}

type decodeError struct{ msg string }

type wireBuilder struct {
	dec  *Decoder
	file source.FileID
}

func (b *wireBuilder) fail(format string, args ...any) {
	panic(decodeError{msg: fmt.Sprintf(format, args...)})
}

func (b *wireBuilder) base(w *WireNode) Base {
	if !w.ID.IsValid() {
		b.fail("node of kind %d has no id", w.Kind)
	}
	if _, dup := b.dec.seen[w.ID]; dup {
		b.fail("duplicate node id %d", w.ID)
	}
	b.dec.seen[w.ID] = struct{}{}
	b.dec.ids.Observe(w.ID)
	return Base{ID: w.ID, Span: source.Span{File: b.file, Start: w.Span[0], End: w.Span[1]}}
}

func (b *wireBuilder) ident(w *WireNode) Ident {
	return Ident{Name: w.Name, Span: source.Span{File: b.file, Start: w.NameSpan[0], End: w.NameSpan[1]}}
}

func (b *wireBuilder) kid(w *WireNode, i int) *WireNode {
	if i >= len(w.Kids) {
		return nil
	}
	return w.Kids[i]
}

func (b *wireBuilder) rest(w *WireNode, from int) []*WireNode {
	if from >= len(w.Kids) {
		return nil
	}
	return w.Kids[from:]
}

func (b *wireBuilder) module(w *WireNode) *Module {
	m := &Module{Base: b.base(w)}
	for _, k := range w.Kids {
		m.Items = append(m.Items, b.item(k))
	}
	return m
}

func (b *wireBuilder) item(w *WireNode) Item {
	if w == nil {
		b.fail("nil item")
	}
	switch w.Kind {
	case wkFunction:
		return &Function{Base: b.base(w), Name: b.ident(w), Result: b.typ(b.kid(w, 0)), Body: b.block(b.kid(w, 1)), Params: b.params(b.rest(w, 2))}
	case wkForeign:
		return &Foreign{Base: b.base(w), Name: b.ident(w), Variadic: w.Flag, Result: b.typ(b.kid(w, 0)), Params: b.params(b.rest(w, 1))}
	case wkForeignVar:
		return &ForeignVar{Base: b.base(w), Name: b.ident(w), Type: b.typ(b.kid(w, 0))}
	case wkTypeDef:
		return &TypeDef{Base: b.base(w), Name: b.ident(w), Body: b.typ(b.kid(w, 0))}
	case wkConstant:
		return &Constant{Base: b.base(w), Name: b.ident(w), Type: b.typ(b.kid(w, 0)), Value: b.expr(b.kid(w, 1))}
	}
	b.fail("node kind %d is not an item", w.Kind)
	return nil
}

func (b *wireBuilder) params(ws []*WireNode) []*Param {
	out := make([]*Param, 0, len(ws))
	for _, w := range ws {
		if w == nil || w.Kind != wkParam {
			b.fail("expected parameter")
		}
		out = append(out, &Param{Base: b.base(w), Name: b.ident(w), Type: b.typ(b.kid(w, 0))})
	}
	return out
}

func (b *wireBuilder) stmt(w *WireNode) Stmt {
	if w == nil {
		b.fail("nil statement")
	}
	switch w.Kind {
	case wkLet:
		return &Let{Base: b.base(w), Name: b.ident(w), Type: b.typ(b.kid(w, 0)), Value: b.expr(b.kid(w, 1))}
	case wkExprStmt:
		return &ExprStmt{Base: b.base(w), X: b.expr(b.kid(w, 0))}
	case wkReturn:
		return &Return{Base: b.base(w), Value: b.expr(b.kid(w, 0))}
	case wkAssign:
		return &Assign{Base: b.base(w), Target: b.expr(b.kid(w, 0)), Value: b.expr(b.kid(w, 1))}
	}
	b.fail("node kind %d is not a statement", w.Kind)
	return nil
}

func (b *wireBuilder) block(w *WireNode) *Block {
	if w == nil {
		return nil
	}
	if w.Kind != wkBlock {
		b.fail("expected block, got kind %d", w.Kind)
	}
	blk := &Block{Base: b.base(w), Unsafe: w.Flag, Yield: b.expr(b.kid(w, 0))}
	for _, s := range b.rest(w, 1) {
		blk.Stmts = append(blk.Stmts, b.stmt(s))
	}
	return blk
}

func (b *wireBuilder) named(w *WireNode) *NamedType {
	if w == nil {
		return nil
	}
	if w.Kind != wkNamedType {
		b.fail("expected named type, got kind %d", w.Kind)
	}
	return &NamedType{Base: b.base(w), Qualifier: w.Qual, Name: b.ident(w)}
}

func (b *wireBuilder) exprs(ws []*WireNode) []Expr {
	out := make([]Expr, 0, len(ws))
	for _, w := range ws {
		e := b.expr(w)
		if e == nil {
			b.fail("nil expression in list")
		}
		out = append(out, e)
	}
	return out
}

func (b *wireBuilder) expr(w *WireNode) Expr {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case wkLiteral:
		return &Literal{Base: b.base(w), Kind: LitKind(w.Op), Value: w.Text}
	case wkRef:
		return &Ref{Base: b.base(w), Qualifier: w.Qual, Name: b.ident(w)}
	case wkCall:
		return &Call{Base: b.base(w), Callee: b.expr(b.kid(w, 0)), Args: b.exprs(b.rest(w, 1))}
	case wkClosure:
		return &Closure{Base: b.base(w), Name: b.ident(w), Result: b.typ(b.kid(w, 0)), Body: b.block(b.kid(w, 1)), Params: b.params(b.rest(w, 2))}
	case wkObject:
		o := &Object{Base: b.base(w), Type: b.named(b.kid(w, 0))}
		for _, f := range b.rest(w, 1) {
			if f == nil || f.Kind != wkField {
				b.fail("expected object field")
			}
			o.Fields = append(o.Fields, &Field{Base: b.base(f), Name: b.ident(f), Value: b.expr(b.kid(f, 0))})
		}
		return o
	case wkTuple:
		return &Tuple{Base: b.base(w), Elems: b.exprs(w.Kids)}
	case wkFieldAccess:
		return &FieldAccess{Base: b.base(w), Field: b.ident(w), X: b.expr(b.kid(w, 0))}
	case wkTupleIndex:
		return &TupleIndex{Base: b.base(w), Index: w.Num, X: b.expr(b.kid(w, 0))}
	case wkUnary:
		return &Unary{Base: b.base(w), Op: UnaryOp(w.Op), X: b.expr(b.kid(w, 0))}
	case wkBinary:
		return &Binary{Base: b.base(w), Op: BinaryOp(w.Op), L: b.expr(b.kid(w, 0)), R: b.expr(b.kid(w, 1))}
	case wkIf:
		return &If{Base: b.base(w), Cond: b.expr(b.kid(w, 0)), Then: b.block(b.kid(w, 1)), Else: b.expr(b.kid(w, 2))}
	case wkBlock:
		return b.block(w)
	case wkCast:
		return &Cast{Base: b.base(w), X: b.expr(b.kid(w, 0)), Type: b.typ(b.kid(w, 1))}
	case wkSizeOf:
		return &SizeOf{Base: b.base(w), Type: b.typ(b.kid(w, 0))}
	case wkIndex:
		return &Index{Base: b.base(w), X: b.expr(b.kid(w, 0)), Index: b.expr(b.kid(w, 1))}
	case wkMatch:
		m := &Match{Base: b.base(w), Subject: b.expr(b.kid(w, 0)), Default: b.expr(b.kid(w, 1))}
		for _, a := range b.rest(w, 2) {
			if a == nil || a.Kind != wkMatchArm {
				b.fail("expected match arm")
			}
			m.Arms = append(m.Arms, &MatchArm{Base: b.base(a), Pattern: b.expr(b.kid(a, 0)), Body: b.expr(b.kid(a, 1))})
		}
		return m
	}
	b.fail("node kind %d is not an expression", w.Kind)
	return nil
}

func (b *wireBuilder) types(ws []*WireNode) []TypeExpr {
	out := make([]TypeExpr, 0, len(ws))
	for _, w := range ws {
		t := b.typ(w)
		if t == nil {
			b.fail("nil type in list")
		}
		out = append(out, t)
	}
	return out
}

func (b *wireBuilder) typ(w *WireNode) TypeExpr {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case wkPrimitiveType:
		return &PrimitiveType{Base: b.base(w), Name: w.Name}
	case wkUnitType:
		return &UnitType{Base: b.base(w)}
	case wkPointerType:
		return &PointerType{Base: b.base(w), Elem: b.typ(b.kid(w, 0))}
	case wkReferenceType:
		return &ReferenceType{Base: b.base(w), Elem: b.typ(b.kid(w, 0))}
	case wkTupleType:
		return &TupleType{Base: b.base(w), Elems: b.types(w.Kids)}
	case wkObjectType:
		o := &ObjectType{Base: b.base(w)}
		for _, f := range w.Kids {
			if f == nil || f.Kind != wkFieldType {
				b.fail("expected field type")
			}
			o.Fields = append(o.Fields, &FieldType{Base: b.base(f), Name: b.ident(f), Type: b.typ(b.kid(f, 0))})
		}
		return o
	case wkUnionType:
		return &UnionType{Base: b.base(w), Alts: b.types(w.Kids)}
	case wkFuncType:
		return &FuncType{Base: b.base(w), Result: b.typ(b.kid(w, 0)), Params: b.types(b.rest(w, 1))}
	case wkNamedType:
		return b.named(w)
	}
	b.fail("node kind %d is not a type", w.Kind)
	return nil
}
