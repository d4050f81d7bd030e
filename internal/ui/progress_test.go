package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"tails/internal/pass"
)

func TestProgressModelTracksPasses(t *testing.T) {
	order := []pass.ID{pass.Resolution, pass.TypeInference, pass.CodeGen}
	events := make(chan pass.Event)
	m := NewProgressModel("checking", order, events).(*progressModel)

	m.Update(eventMsg{Pass: pass.Resolution, Status: pass.StatusFailed, Result: pass.Result{Diagnostics: 2}})
	m.Update(eventMsg{Pass: pass.TypeInference, Status: pass.StatusRunning})
	if got := m.fraction(); got != 0.5 {
		t.Fatalf("fraction = %v", got)
	}
	view := m.View()
	for _, want := range []string{"checking", "failed", "resolution (2 diagnostics)", "running", "queued"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	if _, cmd := m.Update(doneMsg{}); cmd == nil || !m.done {
		t.Fatalf("done message must quit")
	}
	if !strings.Contains(m.View(), "done: checking") {
		t.Fatalf("final view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("capture-analysis", 10); got != "capture..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("safety", 10); got != "safety" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("類型推論", 7); got != "類型..." || runewidth.StringWidth(got) != 7 {
		t.Fatalf("truncate = %q", got)
	}
}
