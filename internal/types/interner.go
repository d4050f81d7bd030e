package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for primitive types.
type Builtins struct {
	Unit   TypeID
	Bool   TypeID
	Char   TypeID
	String TypeID
	I8     TypeID
	I16    TypeID
	I32    TypeID
	I64    TypeID
	U8     TypeID
	U16    TypeID
	U32    TypeID
	U64    TypeID
	F32    TypeID
	F64    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Composite types are canonicalised before hashing, so two object shapes with
// the same fields in a different order, or two unions listing the same
// alternatives, intern to one ID.
type Interner struct {
	types      []Type
	index      map[Type]TypeID
	composites map[string]TypeID
	builtins   Builtins
	prims      map[string]TypeID

	tuples  [][]TypeID
	objects [][]Field
	unions  [][]TypeID
	fns     []FnInfo
	names   map[uint32]string
	vars    uint32
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[Type]TypeID, 64),
		composites: make(map[string]TypeID, 32),
		prims:      make(map[string]TypeID, 16),
		names:      make(map[uint32]string),
	}
	in.types = append(in.types, Type{Kind: KindInvalid}) // reserve 0
	// slot 0 of every info table is invalid
	in.tuples = append(in.tuples, nil)
	in.objects = append(in.objects, nil)
	in.unions = append(in.unions, nil)
	in.fns = append(in.fns, FnInfo{})

	b := &in.builtins
	b.Unit = in.prim("()", Type{Kind: KindUnit})
	b.Bool = in.prim("bool", Type{Kind: KindBool})
	b.Char = in.prim("char", Type{Kind: KindChar})
	b.String = in.prim("str", Type{Kind: KindString})
	b.I8 = in.prim("i8", Type{Kind: KindInt, Width: Width8})
	b.I16 = in.prim("i16", Type{Kind: KindInt, Width: Width16})
	b.I32 = in.prim("i32", Type{Kind: KindInt, Width: Width32})
	b.I64 = in.prim("i64", Type{Kind: KindInt, Width: Width64})
	b.U8 = in.prim("u8", Type{Kind: KindUint, Width: Width8})
	b.U16 = in.prim("u16", Type{Kind: KindUint, Width: Width16})
	b.U32 = in.prim("u32", Type{Kind: KindUint, Width: Width32})
	b.U64 = in.prim("u64", Type{Kind: KindUint, Width: Width64})
	b.F32 = in.prim("f32", Type{Kind: KindFloat, Width: Width32})
	b.F64 = in.prim("f64", Type{Kind: KindFloat, Width: Width64})
	return in
}

func (in *Interner) prim(name string, t Type) TypeID {
	id := in.Intern(t)
	in.prims[name] = id
	return id
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// PrimitiveByName maps a written primitive name (i32, str, ...) to its type.
func (in *Interner) PrimitiveByName(name string) (TypeID, bool) {
	id, ok := in.prims[name]
	return id, ok
}

// Intern ensures the provided scalar descriptor has a stable TypeID.
// Composite kinds must go through their constructors.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind is a shorthand for Lookup(id).Kind.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Len reports the number of interned types, including the reserved slot.
func (in *Interner) Len() int { return len(in.types) }

// composite interns a descriptor identified by a canonical signature; fill
// is called only for new shapes and returns the info slot.
func (in *Interner) composite(kind Kind, sig string, fill func() int) TypeID {
	key := kind.String() + ":" + sig
	if id, ok := in.composites[key]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](fill())
	if err != nil {
		panic(fmt.Errorf("%s info overflow: %w", kind, err))
	}
	id := in.internRaw(Type{Kind: kind, Payload: slot})
	in.composites[key] = id
	return id
}

func sigOf(ids []TypeID) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return sb.String()
}
