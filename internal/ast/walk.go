package ast

// Visitor mirrors go/ast: Visit is called for each node; if the returned
// visitor w is non-nil, Walk visits the children with w and then calls
// w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the tree rooted at n in source order.
func Walk(v Visitor, n Node) {
	if isNil(n) {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	switch n := n.(type) {
	case *Module:
		for _, it := range n.Items {
			Walk(v, it)
		}
	case *Function:
		walkParams(v, n.Params)
		walkOpt(v, n.Result)
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Foreign:
		walkParams(v, n.Params)
		walkOpt(v, n.Result)
	case *ForeignVar:
		walkOpt(v, n.Type)
	case *TypeDef:
		walkOpt(v, n.Body)
	case *Constant:
		walkOpt(v, n.Type)
		walkOpt(v, n.Value)
	case *Param:
		walkOpt(v, n.Type)

	case *Let:
		walkOpt(v, n.Type)
		walkOpt(v, n.Value)
	case *ExprStmt:
		walkOpt(v, n.X)
	case *Return:
		walkOpt(v, n.Value)
	case *Assign:
		walkOpt(v, n.Target)
		walkOpt(v, n.Value)

	case *Literal, *Ref:
	case *Call:
		walkOpt(v, n.Callee)
		for _, a := range n.Args {
			walkOpt(v, a)
		}
	case *Closure:
		walkParams(v, n.Params)
		walkOpt(v, n.Result)
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Object:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		for _, f := range n.Fields {
			if f != nil {
				Walk(v, f)
			}
		}
	case *Field:
		walkOpt(v, n.Value)
	case *Tuple:
		for _, e := range n.Elems {
			walkOpt(v, e)
		}
	case *FieldAccess:
		walkOpt(v, n.X)
	case *TupleIndex:
		walkOpt(v, n.X)
	case *Unary:
		walkOpt(v, n.X)
	case *Binary:
		walkOpt(v, n.L)
		walkOpt(v, n.R)
	case *If:
		walkOpt(v, n.Cond)
		if n.Then != nil {
			Walk(v, n.Then)
		}
		walkOpt(v, n.Else)
	case *Block:
		for _, s := range n.Stmts {
			walkOpt(v, s)
		}
		walkOpt(v, n.Yield)
	case *Cast:
		walkOpt(v, n.X)
		walkOpt(v, n.Type)
	case *SizeOf:
		walkOpt(v, n.Type)
	case *Index:
		walkOpt(v, n.X)
		walkOpt(v, n.Index)
	case *Match:
		walkOpt(v, n.Subject)
		for _, arm := range n.Arms {
			if arm != nil {
				Walk(v, arm)
			}
		}
		walkOpt(v, n.Default)
	case *MatchArm:
		walkOpt(v, n.Pattern)
		walkOpt(v, n.Body)

	case *PrimitiveType, *UnitType, *NamedType:
	case *PointerType:
		walkOpt(v, n.Elem)
	case *ReferenceType:
		walkOpt(v, n.Elem)
	case *TupleType:
		for _, e := range n.Elems {
			walkOpt(v, e)
		}
	case *ObjectType:
		for _, f := range n.Fields {
			if f != nil {
				Walk(v, f)
			}
		}
	case *FieldType:
		walkOpt(v, n.Type)
	case *UnionType:
		for _, a := range n.Alts {
			walkOpt(v, a)
		}
	case *FuncType:
		for _, p := range n.Params {
			walkOpt(v, p)
		}
		walkOpt(v, n.Result)
	}
	v.Visit(nil)
}

func walkOpt(v Visitor, n Node) {
	if !isNil(n) {
		Walk(v, n)
	}
}

func walkParams(v Visitor, params []*Param) {
	for _, p := range params {
		if p != nil {
			Walk(v, p)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if n == nil {
		return nil
	}
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for every node in depth-first order; returning false skips
// the node's children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
