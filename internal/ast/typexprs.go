package ast

// PrimitiveType names a builtin scalar: i8 i16 i32 i64 u8 u16 u32 u64 f32 f64 bool char str.
type PrimitiveType struct {
	Base
	Name string
}

type UnitType struct {
	Base
}

type PointerType struct {
	Base
	Elem TypeExpr
}

type ReferenceType struct {
	Base
	Elem TypeExpr
}

type TupleType struct {
	Base
	Elems []TypeExpr
}

type ObjectType struct {
	Base
	Fields []*FieldType
}

type FieldType struct {
	Base
	Name Ident
	Type TypeExpr
}

type UnionType struct {
	Base
	Alts []TypeExpr
}

type FuncType struct {
	Base
	Params []TypeExpr
	Result TypeExpr
}

// NamedType refers to a TypeDef, optionally in another module.
type NamedType struct {
	Base
	Qualifier *Qualifier
	Name      Ident
}

func (*PrimitiveType) typeNode() {}
func (*UnitType) typeNode()      {}
func (*PointerType) typeNode()   {}
func (*ReferenceType) typeNode() {}
func (*TupleType) typeNode()     {}
func (*ObjectType) typeNode()    {}
func (*UnionType) typeNode()     {}
func (*FuncType) typeNode()      {}
func (*NamedType) typeNode()     {}

// FullName renders the reference as written.
func (n *NamedType) FullName() string {
	if n.Qualifier == nil {
		return n.Name.Name
	}
	return n.Qualifier.String() + "::" + n.Name.Name
}
