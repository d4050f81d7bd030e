package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Unit == NoTypeID || b.Bool == NoTypeID || b.F64 == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	unit, _ := in.Lookup(b.Unit)
	if unit.Kind != KindUnit {
		t.Fatalf("expected unit kind, got %v", unit.Kind)
	}
	for name, want := range map[string]TypeID{"i32": b.I32, "u64": b.U64, "str": b.String, "char": b.Char} {
		got, ok := in.PrimitiveByName(name)
		if !ok || got != want {
			t.Fatalf("PrimitiveByName(%q) = %d, %v", name, got, ok)
		}
	}
	if _, ok := in.PrimitiveByName("int"); ok {
		t.Fatalf("unexpected primitive int")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if in.Pointer(b.I32) != in.Pointer(b.I32) {
		t.Fatalf("pointer types should be deduplicated")
	}
	if in.Pointer(b.I32) == in.Reference(b.I32) {
		t.Fatalf("pointer and reference must differ")
	}
	t1 := in.Tuple([]TypeID{b.I32, b.Bool})
	t2 := in.Tuple([]TypeID{b.Bool, b.I32})
	if t1 == t2 {
		t.Fatalf("tuple order must matter")
	}
	if in.Tuple([]TypeID{b.I32, b.Bool}) != t1 {
		t.Fatalf("tuple types should be deduplicated")
	}
	f1 := in.Fn([]TypeID{b.I32}, b.Bool)
	if in.Fn([]TypeID{b.I32}, b.Bool) != f1 || in.Fn([]TypeID{b.I32}, b.I32) == f1 {
		t.Fatalf("fn identity wrong")
	}
}

func TestObjectFieldOrderIrrelevant(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	o1 := in.Object([]Field{{"x", b.I32}, {"y", b.F64}})
	o2 := in.Object([]Field{{"y", b.F64}, {"x", b.I32}})
	if o1 != o2 {
		t.Fatalf("object shapes with reordered fields must be identical")
	}
	if ft, ok := in.ObjectField(o1, "y"); !ok || ft != b.F64 {
		t.Fatalf("field y = %d, %v", ft, ok)
	}
	if _, ok := in.ObjectField(o1, "z"); ok {
		t.Fatalf("unexpected field z")
	}
}

func TestUnionCanonical(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	u1 := in.Union([]TypeID{b.I32, b.String})
	u2 := in.Union([]TypeID{b.String, b.I32, b.String})
	if u1 != u2 {
		t.Fatalf("unions must be order and duplicate insensitive")
	}
	nested := in.Union([]TypeID{in.Union([]TypeID{b.I32, b.Bool}), b.String})
	alts, _ := in.UnionAlts(nested)
	if len(alts) != 3 {
		t.Fatalf("nested union not flattened: %v", alts)
	}
	if in.Union([]TypeID{b.I32, b.I32}) != b.I32 {
		t.Fatalf("single alternative should collapse")
	}
}

func TestFreshVarsDistinct(t *testing.T) {
	in := NewInterner()
	a, b := in.Fresh(), in.Fresh()
	if a == b || in.Kind(a) != KindVar {
		t.Fatalf("fresh vars: %d %d", a, b)
	}
	if in.VarCount() != 2 {
		t.Fatalf("VarCount = %d", in.VarCount())
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	point := in.Named(7, "Point")
	cases := []struct {
		id   TypeID
		want string
	}{
		{b.Unit, "()"},
		{in.Pointer(b.U8), "*u8"},
		{in.Reference(point), "&Point"},
		{in.Tuple([]TypeID{b.I32}), "(i32,)"},
		{in.Object([]Field{{"y", b.Bool}, {"x", b.I32}}), "{x: i32, y: bool}"},
		{in.Fn([]TypeID{b.I32, b.String}, b.Unit), "fn(i32, str) -> ()"},
	}
	for _, tc := range cases {
		if got := Label(in, tc.id); got != tc.want {
			t.Fatalf("Label = %q, want %q", got, tc.want)
		}
	}
	v := in.Fresh()
	got := LabelWith(in, in.Pointer(v), func(id TypeID) TypeID {
		if id == v {
			return b.I64
		}
		return id
	})
	if got != "*i64" {
		t.Fatalf("LabelWith = %q", got)
	}
}
