package ast

import (
	"bytes"
	"errors"
	"testing"
)

func sampleModule(b *Builder) *Module {
	q := Qualifier{Package: "app", Module: "main"}
	return b.Module(q,
		b.TypeDef("Point", b.ObjectT(b.FieldT("x", b.Prim("i32")), b.FieldT("y", b.Prim("i32")))),
		b.Foreign("printf", []*Param{b.Param("fmt", b.Prim("str"))}, true, b.Prim("i32")),
		b.Const("ORIGIN", b.Named("Point"), b.Object("Point", b.Field("x", b.Int("0")), b.Field("y", b.Int("0")))),
		b.Func("main", nil, b.UnitT(), b.Block(
			b.Let("p", nil, b.Ref("ORIGIN")),
			b.Let("f", nil, b.Closure("loop", b.Params("n"), nil, b.BlockYield(b.Call(b.Ref("loop"), b.Ref("n"))))),
			b.Do(b.Unsafe(b.Do(b.Deref(b.Cast(b.Null(), b.Ptr(b.Prim("u8"))))))),
			b.Do(b.If(b.Binary(OpLt, b.Access(b.Ref("p"), "x"), b.Int("1")), b.Block(), b.Block())),
			b.Do(b.Match(b.TupleIdx(b.Tuple(b.Int("1"), b.Str("s")), 0), b.UnitLit(), b.Arm(b.Int("1"), b.UnitLit()))),
			b.Assign(b.Ref("p"), b.QRef(q, "ORIGIN")),
			b.Return(nil),
		)),
	)
}

func collectIDs(n Node) []NodeID {
	var out []NodeID
	Inspect(n, func(n Node) bool {
		out = append(out, IDOf(n))
		return true
	})
	return out
}

func TestCodecRoundTrip(t *testing.T) {
	b := NewBuilder(nil, 1)
	mod := sampleModule(b)

	var buf bytes.Buffer
	if err := EncodeModule(&buf, mod, "main.tails", []byte("src")); err != nil {
		t.Fatalf("encode: %v", err)
	}
	wm, err := ReadWire(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if wm.Path != "main.tails" || string(wm.Source) != "src" {
		t.Fatalf("header lost: %+v", wm)
	}
	dec := NewDecoder(nil)
	got, err := dec.Build(wm, 7)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got.Qualifier != mod.Qualifier {
		t.Fatalf("qualifier = %v", got.Qualifier)
	}
	if got.File() != 7 {
		t.Fatalf("file = %d, want 7", got.File())
	}
	want, have := collectIDs(mod), collectIDs(got)
	if len(want) != len(have) {
		t.Fatalf("node count %d, want %d", len(have), len(want))
	}
	for i := range want {
		if want[i] != have[i] {
			t.Fatalf("node %d: id %d, want %d", i, have[i], want[i])
		}
	}
	if dec.IDs().Count() != b.IDs().Count() {
		t.Fatalf("counter = %d, want %d", dec.IDs().Count(), b.IDs().Count())
	}

	fn := got.Items[3].(*Function)
	blk := fn.Body.Stmts[2].(*ExprStmt).X.(*Block)
	if !blk.Unsafe {
		t.Fatalf("unsafe flag lost")
	}
	if !got.Items[1].(*Foreign).Variadic {
		t.Fatalf("variadic flag lost")
	}
	clo := fn.Body.Stmts[1].(*Let).Value.(*Closure)
	if clo.Name.Name != "loop" || len(clo.Params) != 1 || clo.Result != nil {
		t.Fatalf("closure decoded wrong: %+v", clo)
	}
	asg := fn.Body.Stmts[5].(*Assign)
	if r := asg.Value.(*Ref); r.Qualifier == nil || r.FullName() != "app::main::ORIGIN" {
		t.Fatalf("qualified ref decoded wrong: %+v", r)
	}
}

func TestDecoderRejectsDuplicateIDs(t *testing.T) {
	ids := NewIDCounter(0)
	b := NewBuilder(ids, 1)
	m1 := b.Module(Qualifier{"p", "a"}, b.Func("f", nil, nil, b.Block()))

	var buf bytes.Buffer
	if err := EncodeModule(&buf, m1, "", nil); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	dec := NewDecoder(nil)
	for i := 0; i < 2; i++ {
		wm, err := ReadWire(bytes.NewReader(raw))
		if err != nil {
			t.Fatal(err)
		}
		_, err = dec.Build(wm, 1)
		if i == 0 && err != nil {
			t.Fatalf("first build: %v", err)
		}
		if i == 1 && err == nil {
			t.Fatalf("second build of the same ids must fail")
		}
	}
}

func TestReadWireRejectsVersion(t *testing.T) {
	b := NewBuilder(nil, 1)
	wm := &WireModule{Version: WireVersion + 1, Root: toWire(b.Module(Qualifier{"p", "m"}))}
	var buf bytes.Buffer
	if err := encodeRaw(&buf, wm); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadWire(&buf); !errors.Is(err, ErrWireVersion) {
		t.Fatalf("err = %v, want ErrWireVersion", err)
	}
}
