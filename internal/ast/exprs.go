package ast

// LitKind classifies literal values.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitReal
	LitBool
	LitChar
	LitString
	LitNull
	LitUnit
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitReal:
		return "real"
	case LitBool:
		return "bool"
	case LitChar:
		return "char"
	case LitString:
		return "string"
	case LitNull:
		return "nullptr"
	case LitUnit:
		return "unit"
	}
	return "invalid"
}

type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
	OpDeref
	OpAddrOf
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpDeref:
		return "*"
	case OpAddrOf:
		return "&"
	}
	return "?"
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	return [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||"}[op]
}

// IsArithmetic reports + - * / %.
func (op BinaryOp) IsArithmetic() bool { return op <= OpMod }

// IsComparison reports == != < <= > >=.
func (op BinaryOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsLogical reports && and ||.
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

type Literal struct {
	Base
	Kind  LitKind
	Value string
}

// Ref names a symbol; Qualifier is set for Qualifier.symbol references.
type Ref struct {
	Base
	Qualifier *Qualifier
	Name      Ident
}

type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

// Closure is a function literal. Name is empty unless the closure refers to
// itself; inside the body that name denotes the closure.
type Closure struct {
	Base
	Name   Ident
	Params []*Param
	Result TypeExpr
	Body   *Block
}

// Object builds an object value. Type is nil for an anonymous shape.
type Object struct {
	Base
	Type   *NamedType
	Fields []*Field
}

type Field struct {
	Base
	Name  Ident
	Value Expr
}

type Tuple struct {
	Base
	Elems []Expr
}

type FieldAccess struct {
	Base
	X     Expr
	Field Ident
}

type TupleIndex struct {
	Base
	X     Expr
	Index int
}

type Unary struct {
	Base
	Op UnaryOp
	X  Expr
}

type Binary struct {
	Base
	Op   BinaryOp
	L, R Expr
}

// If is a conditional expression. Else is nil, a *Block or an *If.
type If struct {
	Base
	Cond Expr
	Then *Block
	Else Expr
}

// Block is a sequence of statements optionally yielding a value.
// Unsafe blocks permit pointer operations inside their lexical extent.
type Block struct {
	Base
	Stmts  []Stmt
	Yield  Expr
	Unsafe bool
}

type Cast struct {
	Base
	X    Expr
	Type TypeExpr
}

type SizeOf struct {
	Base
	Type TypeExpr
}

// Index is unchecked element access through a pointer.
type Index struct {
	Base
	X     Expr
	Index Expr
}

// Match compares Subject against each arm pattern in order.
type Match struct {
	Base
	Subject Expr
	Arms    []*MatchArm
	Default Expr
}

type MatchArm struct {
	Base
	Pattern Expr
	Body    Expr
}

func (*Literal) exprNode()     {}
func (*Ref) exprNode()         {}
func (*Call) exprNode()        {}
func (*Closure) exprNode()     {}
func (*Object) exprNode()      {}
func (*Tuple) exprNode()       {}
func (*FieldAccess) exprNode() {}
func (*TupleIndex) exprNode()  {}
func (*Unary) exprNode()       {}
func (*Binary) exprNode()      {}
func (*If) exprNode()          {}
func (*Block) exprNode()       {}
func (*Cast) exprNode()        {}
func (*SizeOf) exprNode()      {}
func (*Index) exprNode()       {}
func (*Match) exprNode()       {}

// FullName renders the reference as written.
func (r *Ref) FullName() string {
	if r.Qualifier == nil {
		return r.Name.Name
	}
	return r.Qualifier.String() + "::" + r.Name.Name
}

// IsNull reports whether e is the nullptr literal.
func IsNull(e Expr) bool {
	lit, ok := e.(*Literal)
	return ok && lit != nil && lit.Kind == LitNull
}
