package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
		{LevelError, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
}

func TestStreamTextNesting(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	root := Begin(tr, ScopeDriver, "check", 0)
	pass := Begin(tr, ScopePass, "resolution", root.ID())
	Point(tr, ScopeModule, "module:app::main", "", pass.ID())
	Point(tr, ScopeNode, "hidden", "", pass.ID())
	pass.WithExtra("diags", "0").End("")
	root.End("ok")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("node event leaked at detail level:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "  → resolution") || !strings.Contains(lines[2], "    • module:app::main") {
		t.Fatalf("unexpected indentation:\n%s", out)
	}
	if !strings.Contains(lines[3], "{diags=0}") || !strings.Contains(lines[4], "← check (ok)") {
		t.Fatalf("unexpected end events:\n%s", out)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopePass, "inference", 0).End("done")
	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var ev jsonEvent
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		kinds = append(kinds, ev.Kind)
	}
	if strings.Join(kinds, ",") != "begin,end" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("snapshot %v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNewSelectsStorage(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off: %v %v", tr, err)
	}
	tr, err = New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil || Ring(tr) == nil {
		t.Fatalf("error level must keep a ring: %T %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil || Ring(tr) == nil {
		t.Fatalf("both: %T %v", tr, err)
	}
	Begin(tr, ScopePass, "x", 0).End("")
	if buf.Len() == 0 || len(Ring(tr).Snapshot()) != 2 {
		t.Fatalf("events not fanned out")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop by default")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	sp := Begin(FromContext(ctx), ScopeDriver, "root", 0)
	ctx = WithParent(ctx, sp)
	if ParentFrom(ctx) != sp.ID() || sp.ID() == 0 {
		t.Fatalf("parent = %d, span = %d", ParentFrom(ctx), sp.ID())
	}
}
