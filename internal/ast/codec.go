package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"tails/internal/source"
)

// WireVersion is bumped whenever the msgpack layout of modules changes.
const WireVersion uint16 = 1

// WireModule is the on-disk form of one parsed module as produced by the
// parser collaborator. Source is optional; when present, diagnostics can be
// rendered with line context.
type WireModule struct {
	Version   uint16    `msgpack:"v"`
	Qualifier Qualifier `msgpack:"q"`
	Path      string    `msgpack:"path,omitempty"`
	Source    []byte    `msgpack:"src,omitempty"`
	Root      *WireNode `msgpack:"root"`
}

// WireNode is a uniform record for every node kind. The meaning of Kids is
// fixed per kind; optional children are encoded as nil entries.
type WireNode struct {
	Kind     WireKind    `msgpack:"k"`
	ID       NodeID      `msgpack:"i"`
	Span     [2]uint32   `msgpack:"s"`
	Name     string      `msgpack:"n,omitempty"`
	NameSpan [2]uint32   `msgpack:"ns"`
	Text     string      `msgpack:"t,omitempty"`
	Op       uint8       `msgpack:"o,omitempty"`
	Flag     bool        `msgpack:"f,omitempty"`
	Num      int         `msgpack:"x,omitempty"`
	Qual     *Qualifier  `msgpack:"q,omitempty"`
	Kids     []*WireNode `msgpack:"c,omitempty"`
}

type WireKind uint8

const (
	wkInvalid WireKind = iota
	wkModule
	wkFunction
	wkForeign
	wkForeignVar
	wkTypeDef
	wkConstant
	wkParam
	wkLet
	wkExprStmt
	wkReturn
	wkAssign
	wkLiteral
	wkRef
	wkCall
	wkClosure
	wkObject
	wkField
	wkTuple
	wkFieldAccess
	wkTupleIndex
	wkUnary
	wkBinary
	wkIf
	wkBlock
	wkCast
	wkSizeOf
	wkIndex
	wkMatch
	wkMatchArm
	wkPrimitiveType
	wkUnitType
	wkPointerType
	wkReferenceType
	wkTupleType
	wkObjectType
	wkFieldType
	wkUnionType
	wkFuncType
	wkNamedType
)

// ErrWireVersion is returned for modules written by an incompatible encoder.
var ErrWireVersion = errors.New("ast: unsupported module wire version")

// EncodeModule writes m in wire form. src may be nil.
func EncodeModule(w io.Writer, m *Module, path string, src []byte) error {
	if m == nil {
		return errors.New("ast: encode nil module")
	}
	wm := WireModule{
		Version:   WireVersion,
		Qualifier: m.Qualifier,
		Path:      path,
		Source:    src,
		Root:      toWire(m),
	}
	return encodeRaw(w, &wm)
}

func encodeRaw(w io.Writer, wm *WireModule) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(wm)
}

// ReadWire decodes the wire form without building the tree.
func ReadWire(r io.Reader) (*WireModule, error) {
	var wm WireModule
	if err := msgpack.NewDecoder(r).Decode(&wm); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	if wm.Version != WireVersion {
		return nil, fmt.Errorf("%w: %d", ErrWireVersion, wm.Version)
	}
	if wm.Root == nil || wm.Root.Kind != wkModule {
		return nil, errors.New("decode module: missing module root")
	}
	return &wm, nil
}

func spanPair(sp source.Span) [2]uint32 { return [2]uint32{sp.Start, sp.End} }

func node(kind WireKind, b *Base, kids ...Node) *WireNode {
	w := &WireNode{Kind: kind, ID: b.ID, Span: spanPair(b.Span)}
	if len(kids) > 0 {
		w.Kids = make([]*WireNode, len(kids))
		for i, k := range kids {
			w.Kids[i] = toWire(k)
		}
	}
	return w
}

func named(w *WireNode, id Ident) *WireNode {
	w.Name = id.Name
	w.NameSpan = spanPair(id.Span)
	return w
}

func paramNodes(ps []*Param) []Node {
	out := make([]Node, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func exprNodes(es []Expr) []Node {
	out := make([]Node, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

func typeNodes(ts []TypeExpr) []Node {
	out := make([]Node, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}

func toWire(n Node) *WireNode {
	if isNil(n) {
		return nil
	}
	switch n := n.(type) {
	case *Module:
		kids := make([]Node, len(n.Items))
		for i, it := range n.Items {
			kids[i] = it
		}
		return node(wkModule, &n.Base, kids...)
	case *Function:
		return named(node(wkFunction, &n.Base, append([]Node{n.Result, blockNode(n.Body)}, paramNodes(n.Params)...)...), n.Name)
	case *Foreign:
		w := named(node(wkForeign, &n.Base, append([]Node{n.Result}, paramNodes(n.Params)...)...), n.Name)
		w.Flag = n.Variadic
		return w
	case *ForeignVar:
		return named(node(wkForeignVar, &n.Base, n.Type), n.Name)
	case *TypeDef:
		return named(node(wkTypeDef, &n.Base, n.Body), n.Name)
	case *Constant:
		return named(node(wkConstant, &n.Base, n.Type, n.Value), n.Name)
	case *Param:
		return named(node(wkParam, &n.Base, n.Type), n.Name)
	case *Let:
		return named(node(wkLet, &n.Base, n.Type, n.Value), n.Name)
	case *ExprStmt:
		return node(wkExprStmt, &n.Base, n.X)
	case *Return:
		return node(wkReturn, &n.Base, n.Value)
	case *Assign:
		return node(wkAssign, &n.Base, n.Target, n.Value)
	case *Literal:
		w := node(wkLiteral, &n.Base)
		w.Op = uint8(n.Kind)
		w.Text = n.Value
		return w
	case *Ref:
		w := named(node(wkRef, &n.Base), n.Name)
		w.Qual = n.Qualifier
		return w
	case *Call:
		return node(wkCall, &n.Base, append([]Node{n.Callee}, exprNodes(n.Args)...)...)
	case *Closure:
		return named(node(wkClosure, &n.Base, append([]Node{n.Result, blockNode(n.Body)}, paramNodes(n.Params)...)...), n.Name)
	case *Object:
		kids := []Node{namedNode(n.Type)}
		for _, f := range n.Fields {
			kids = append(kids, f)
		}
		return node(wkObject, &n.Base, kids...)
	case *Field:
		return named(node(wkField, &n.Base, n.Value), n.Name)
	case *Tuple:
		return node(wkTuple, &n.Base, exprNodes(n.Elems)...)
	case *FieldAccess:
		return named(node(wkFieldAccess, &n.Base, n.X), n.Field)
	case *TupleIndex:
		w := node(wkTupleIndex, &n.Base, n.X)
		w.Num = n.Index
		return w
	case *Unary:
		w := node(wkUnary, &n.Base, n.X)
		w.Op = uint8(n.Op)
		return w
	case *Binary:
		w := node(wkBinary, &n.Base, n.L, n.R)
		w.Op = uint8(n.Op)
		return w
	case *If:
		return node(wkIf, &n.Base, n.Cond, blockNode(n.Then), n.Else)
	case *Block:
		kids := []Node{n.Yield}
		for _, s := range n.Stmts {
			kids = append(kids, s)
		}
		w := node(wkBlock, &n.Base, kids...)
		w.Flag = n.Unsafe
		return w
	case *Cast:
		return node(wkCast, &n.Base, n.X, n.Type)
	case *SizeOf:
		return node(wkSizeOf, &n.Base, n.Type)
	case *Index:
		return node(wkIndex, &n.Base, n.X, n.Index)
	case *Match:
		kids := []Node{n.Subject, n.Default}
		for _, a := range n.Arms {
			kids = append(kids, a)
		}
		return node(wkMatch, &n.Base, kids...)
	case *MatchArm:
		return node(wkMatchArm, &n.Base, n.Pattern, n.Body)
	case *PrimitiveType:
		w := node(wkPrimitiveType, &n.Base)
		w.Name = n.Name
		return w
	case *UnitType:
		return node(wkUnitType, &n.Base)
	case *PointerType:
		return node(wkPointerType, &n.Base, n.Elem)
	case *ReferenceType:
		return node(wkReferenceType, &n.Base, n.Elem)
	case *TupleType:
		return node(wkTupleType, &n.Base, typeNodes(n.Elems)...)
	case *ObjectType:
		kids := make([]Node, len(n.Fields))
		for i, f := range n.Fields {
			kids[i] = f
		}
		return node(wkObjectType, &n.Base, kids...)
	case *FieldType:
		return named(node(wkFieldType, &n.Base, n.Type), n.Name)
	case *UnionType:
		return node(wkUnionType, &n.Base, typeNodes(n.Alts)...)
	case *FuncType:
		return node(wkFuncType, &n.Base, append([]Node{n.Result}, typeNodes(n.Params)...)...)
	case *NamedType:
		w := named(node(wkNamedType, &n.Base), n.Name)
		w.Qual = n.Qualifier
		return w
	}
	panic(fmt.Sprintf("ast: no wire form for %T", n))
}

// blockNode and namedNode keep typed nils from becoming non-nil interfaces.
func blockNode(b *Block) Node {
	if b == nil {
		return nil
	}
	return b
}

func namedNode(n *NamedType) Node {
	if n == nil {
		return nil
	}
	return n
}
