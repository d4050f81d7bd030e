package ast

// Let introduces a binding in the current block.
type Let struct {
	Base
	Name  Ident
	Type  TypeExpr
	Value Expr
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Base
	X Expr
}

// Return leaves the enclosing function or closure. Value nil returns unit.
type Return struct {
	Base
	Value Expr
}

// Assign stores Value into Target (a binding or a dereferenced pointer).
type Assign struct {
	Base
	Target Expr
	Value  Expr
}

func (*Let) stmtNode()      {}
func (*ExprStmt) stmtNode() {}
func (*Return) stmtNode()   {}
func (*Assign) stmtNode()   {}
