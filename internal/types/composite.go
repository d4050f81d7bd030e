package types

import (
	"slices"
	"strconv"
	"strings"
)

// Field is one member of an object shape.
type Field struct {
	Name string
	Type TypeID
}

// FnInfo describes a function type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindPointer, Elem: elem})
}

func (in *Interner) Reference(elem TypeID) TypeID {
	return in.Intern(Type{Kind: KindReference, Elem: elem})
}

// Tuple interns a positional product type. The empty tuple is unit.
func (in *Interner) Tuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.Unit
	}
	return in.composite(KindTuple, sigOf(elems), func() int {
		in.tuples = append(in.tuples, slices.Clone(elems))
		return len(in.tuples) - 1
	})
}

// Object interns a record shape. Field order is irrelevant; on duplicate
// names the last one wins.
func (in *Interner) Object(fields []Field) TypeID {
	byName := make(map[string]TypeID, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Type
	}
	canon := make([]Field, 0, len(byName))
	for name, t := range byName {
		canon = append(canon, Field{Name: name, Type: t})
	}
	slices.SortFunc(canon, func(a, b Field) int { return strings.Compare(a.Name, b.Name) })

	var sb strings.Builder
	for i, f := range canon {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(f.Name))
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatUint(uint64(f.Type), 10))
	}
	return in.composite(KindObject, sb.String(), func() int {
		in.objects = append(in.objects, canon)
		return len(in.objects) - 1
	})
}

// Union interns a sum type. Nested unions are flattened, alternatives are
// sorted and deduplicated; a single alternative collapses to itself.
func (in *Interner) Union(alts []TypeID) TypeID {
	flat := make([]TypeID, 0, len(alts))
	for _, a := range alts {
		if inner, ok := in.UnionAlts(a); ok {
			flat = append(flat, inner...)
			continue
		}
		flat = append(flat, a)
	}
	slices.Sort(flat)
	flat = slices.Compact(flat)
	switch len(flat) {
	case 0:
		return NoTypeID
	case 1:
		return flat[0]
	}
	return in.composite(KindUnion, sigOf(flat), func() int {
		in.unions = append(in.unions, flat)
		return len(in.unions) - 1
	})
}

// Fn interns a function type.
func (in *Interner) Fn(params []TypeID, result TypeID) TypeID {
	sig := sigOf(params) + "->" + strconv.FormatUint(uint64(result), 10)
	return in.composite(KindFn, sig, func() int {
		in.fns = append(in.fns, FnInfo{Params: slices.Clone(params), Result: result})
		return len(in.fns) - 1
	})
}

// Named interns the nominal type of a type definition symbol.
func (in *Interner) Named(sym uint32, name string) TypeID {
	id := in.Intern(Type{Kind: KindNamed, Payload: sym})
	in.names[sym] = name
	return id
}

// Fresh allocates a new inference variable.
func (in *Interner) Fresh() TypeID {
	in.vars++
	return in.internRaw(Type{Kind: KindVar, Payload: in.vars})
}

// VarCount reports how many inference variables were allocated.
func (in *Interner) VarCount() int { return int(in.vars) }

func (in *Interner) TupleElems(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return in.tuples[tt.Payload], true
}

// ObjectFields returns fields sorted by name.
func (in *Interner) ObjectFields(id TypeID) ([]Field, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindObject || int(tt.Payload) >= len(in.objects) {
		return nil, false
	}
	return in.objects[tt.Payload], true
}

// ObjectField looks up one field of an object shape.
func (in *Interner) ObjectField(id TypeID, name string) (TypeID, bool) {
	fields, ok := in.ObjectFields(id)
	if !ok {
		return NoTypeID, false
	}
	i, found := slices.BinarySearchFunc(fields, name, func(f Field, n string) int {
		return strings.Compare(f.Name, n)
	})
	if !found {
		return NoTypeID, false
	}
	return fields[i].Type, true
}

func (in *Interner) UnionAlts(id TypeID) ([]TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion || int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return in.unions[tt.Payload], true
}

func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// NamedSymbol returns the symbol and display name behind a named type.
func (in *Interner) NamedSymbol(id TypeID) (sym uint32, name string, ok bool) {
	tt, found := in.Lookup(id)
	if !found || tt.Kind != KindNamed {
		return 0, "", false
	}
	return tt.Payload, in.names[tt.Payload], true
}
