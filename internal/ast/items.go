package ast

// Param is a function, foreign function or closure parameter.
// Type is nil when the parameter is left to inference.
type Param struct {
	Base
	Name Ident
	Type TypeExpr
}

// Function is a named top-level function. Result is nil when inferred.
type Function struct {
	Base
	Name   Ident
	Params []*Param
	Result TypeExpr
	Body   *Block
}

// Foreign declares an externally implemented function. Result nil means unit.
type Foreign struct {
	Base
	Name     Ident
	Params   []*Param
	Variadic bool
	Result   TypeExpr
}

// ForeignVar declares an externally defined global.
type ForeignVar struct {
	Base
	Name Ident
	Type TypeExpr
}

// TypeDef introduces a named object or union shape.
type TypeDef struct {
	Base
	Name Ident
	Body TypeExpr
}

// Constant is a module-level compile-time value.
type Constant struct {
	Base
	Name  Ident
	Type  TypeExpr
	Value Expr
}

func (*Function) itemNode()   {}
func (*Foreign) itemNode()    {}
func (*ForeignVar) itemNode() {}
func (*TypeDef) itemNode()    {}
func (*Constant) itemNode()   {}

func (n *Function) DeclName() Ident   { return n.Name }
func (n *Foreign) DeclName() Ident    { return n.Name }
func (n *ForeignVar) DeclName() Ident { return n.Name }
func (n *TypeDef) DeclName() Ident    { return n.Name }
func (n *Constant) DeclName() Ident   { return n.Name }
