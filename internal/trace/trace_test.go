package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeEvent, false},
		{LevelDebug, ScopeEvent, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(strings.ToUpper(s))
		if err != nil || l.String() != s {
			t.Errorf("ParseLevel(%q) = %v, %v", s, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	root := Begin(tr, ScopeDriver, "check", 0)
	file := Begin(tr, ScopeFile, "file:a.tagml", root.ID())
	if file.ID() != 0 {
		t.Fatalf("file span should be disabled at phase level")
	}
	body := Begin(tr, ScopePhase, "body", root.ID())
	body.WithExtra("b", "2").WithExtra("a", "1").End("3 events")
	file.End("")
	root.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "→ check") || !strings.Contains(lines[3], "← check") {
		t.Errorf("unexpected root lines:\n%s", out)
	}
	if !strings.Contains(lines[2], "  ← body (3 events) {a=1, b=2}") {
		t.Errorf("unexpected body end: %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeEvent, "start-tag", 7, "[3:10]")

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid NDJSON %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "event" || ev["name"] != "start-tag" || ev["parent_id"] != float64(7) {
		t.Errorf("event = %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeEvent, name, 0, "")
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snap[%d] = %s, want %s", i, snap[i].Name, want)
		}
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if r.Dropped() != 2 {
		t.Errorf("dropped = %d", r.Dropped())
	}
	// строка про потерянные события плюс три события
	if strings.Count(buf.String(), "\n") != 4 || !strings.HasPrefix(buf.String(), "... 2 earlier events dropped") {
		t.Errorf("dump:\n%s", buf.String())
	}
}

func TestRingTracerPartial(t *testing.T) {
	r := NewRingTracer(0, LevelPhase)
	Point(r, ScopeDriver, "a", 0, "")
	Point(r, ScopeEvent, "filtered", 0, "")
	snap := r.Snapshot()
	if len(snap) != 1 || snap[0].Name != "a" || r.Dropped() != 0 {
		t.Fatalf("snapshot = %v", snap)
	}
}

func TestHeartbeat(t *testing.T) {
	if h := StartHeartbeat(Nop, time.Millisecond); h != nil {
		t.Fatal("heartbeat must not start without tracing")
	}
	var none *Heartbeat
	none.Stop()

	r := NewRingTracer(64, LevelError)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	snap := r.Snapshot()
	if len(snap) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	// heartbeat проходит фильтр уровня
	if snap[0].Kind != KindHeartbeat || !strings.HasPrefix(snap[0].Detail, "#1 goroutines=") {
		t.Errorf("event = %+v", snap[0])
	}
	n := len(r.Snapshot())
	time.Sleep(5 * time.Millisecond)
	if len(r.Snapshot()) != n {
		t.Error("heartbeat kept running after Stop")
	}
}

func TestNewAndContext(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off tracer: %v %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil {
		t.Fatalf("ModeBoth should give a multi tracer with a ring, got %T", tr)
	}
	Begin(tr, ScopeDriver, "parse", 0).End("")
	if len(m.Ring().Snapshot()) != 2 || buf.Len() == 0 {
		t.Errorf("events were not fanned out")
	}

	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Error("tracer lost in context")
	}
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer should be Nop")
	}
}

func TestStartSpanNests(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := StartSpan(ctx, ScopeDriver, "check")
	if SpanFromContext(ctx) != outer.ID() || outer.ID() == 0 {
		t.Fatalf("span not carried by context: %d vs %d", SpanFromContext(ctx), outer.ID())
	}
	_, inner := StartSpan(ctx, ScopeFile, "file:a.tagml")
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("events = %d", len(events))
	}
	if events[1].ParentID != outer.ID() || events[0].ParentID != 0 {
		t.Errorf("parents = %d, %d", events[0].ParentID, events[1].ParentID)
	}

	// без трейсера контекст не меняется
	plain := context.Background()
	got, s := StartSpan(plain, ScopeDriver, "check")
	if got != plain || s.ID() != 0 || SpanFromContext(got) != 0 {
		t.Error("a silent span must leave the context alone")
	}
}
