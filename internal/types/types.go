package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindChar
	KindString
	KindInt
	KindUint
	KindFloat
	KindPointer
	KindReference
	KindTuple
	KindObject
	KindUnion
	KindFn
	KindNamed
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindReference:
		return "reference"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	case KindFn:
		return "fn"
	case KindNamed:
		return "named"
	case KindVar:
		return "var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointer / reference target
	Width   Width  // numeric primitives
	Payload uint32 // info slot for composites, symbol for named, number for vars
}

// IsPrimitive reports scalar kinds that are copied by value.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case KindUnit, KindBool, KindChar, KindString, KindInt, KindUint, KindFloat:
		return true
	}
	return false
}

func (t Type) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindUint || t.Kind == KindFloat
}

func (t Type) IsInteger() bool {
	return t.Kind == KindInt || t.Kind == KindUint
}

// IsIndirect reports pointer-like kinds. They bound the size of whatever they
// point at.
func (t Type) IsIndirect() bool {
	return t.Kind == KindPointer || t.Kind == KindReference
}
