package ast

import "tails/internal/source"

// Base carries the identity shared by all nodes.
type Base struct {
	ID   NodeID
	Span source.Span
}

func (b *Base) base() *Base { return b }

// Node is implemented by every tree element. The set is closed.
type Node interface {
	base() *Base
}

// IDOf returns the node's ID, or NoNodeID for nil.
func IDOf(n Node) NodeID {
	if isNil(n) {
		return NoNodeID
	}
	return n.base().ID
}

// SpanOf returns the node's span.
func SpanOf(n Node) source.Span {
	if isNil(n) {
		return source.Span{}
	}
	return n.base().Span
}

// Ident is a name occurrence; it is not a node on its own.
type Ident struct {
	Name string
	Span source.Span
}

// Item is a top-level declaration.
type Item interface {
	Node
	itemNode()
	// DeclName returns the declared identifier.
	DeclName() Ident
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a written type annotation.
type TypeExpr interface {
	Node
	typeNode()
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Block:
		return v == nil
	case *If:
		return v == nil
	case *NamedType:
		return v == nil
	case *Param:
		return v == nil
	}
	return false
}
