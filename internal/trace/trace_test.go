package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeQuery, false},
		{LevelDetail, ScopeQuery, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeQuery, name, "")
	}
	evs := r.Snapshot()
	if len(evs) != 2 || evs[0].Name != "b" || evs[1].Name != "c" {
		t.Fatalf("snapshot = %+v", evs)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	sp := Begin(st, ScopePass, "compile", 0)
	Point(st, ScopeQuery, "WillExecute", "parse_statements(1)")
	Point(st, ScopeNode, "hidden", "")
	sp.WithExtra("file", "a.calc").End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind  string            `json:"kind"`
		Scope string            `json:"scope"`
		Name  string            `json:"name"`
		Extra map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != "point" || ev.Scope != "query" || ev.Name != "WillExecute" {
		t.Fatalf("event = %+v", ev)
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Extra["file"] != "a.calc" {
		t.Fatalf("extra = %v", ev.Extra)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("LevelOff tracer must be disabled")
	}
}

func TestFindRingThroughMulti(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelDetail)
	multi := NewMultiTracer(LevelDetail, NewStreamTracer(&buf, LevelDetail, FormatText), ring)
	if FindRing(multi) != ring {
		t.Fatal("ring not found behind MultiTracer")
	}
	if FindRing(Nop) != nil {
		t.Fatal("Nop has no ring")
	}

	Point(multi, ScopePass, "compile", "a.calc")
	var dump bytes.Buffer
	if err := DumpRing(multi, &dump, "panic"); err != nil {
		t.Fatalf("DumpRing: %v", err)
	}
	out := dump.String()
	if !strings.HasPrefix(out, "--- trace: last 1 events (panic) ---\n") || !strings.Contains(out, "compile") {
		t.Fatalf("dump = %q", out)
	}
}

func TestStartSpanParents(t *testing.T) {
	ring := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := StartSpan(ctx, ScopeDriver, "outer")
	_, inner := StartSpan(ctx, ScopePass, "inner")
	inner.End("")
	outer.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("events = %d, want 4", len(evs))
	}
	if evs[0].ParentID != 0 || evs[1].ParentID != outer.ID() {
		t.Fatalf("parents = %d, %d; outer = %d", evs[0].ParentID, evs[1].ParentID, outer.ID())
	}
	if got := CurrentSpan(ctx).SpanID; got != outer.ID() {
		t.Fatalf("CurrentSpan = %d, want %d", got, outer.ID())
	}
}

func TestHeartbeat(t *testing.T) {
	if StartHeartbeat(context.Background(), Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on disabled tracer")
	}
	ring := NewRingTracer(16, LevelError)
	h := StartHeartbeat(context.Background(), ring, time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for ring.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	evs := ring.Snapshot()
	if len(evs) == 0 || evs[0].Kind != KindHeartbeat || !strings.HasPrefix(evs[0].Detail, "#1 ") {
		t.Fatalf("heartbeat events = %+v", evs)
	}
}

func TestFormatTextRevision(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatText)
	PointAt(st, ScopeQuery, "DidBackdate", "function_arity(f)", 3)
	line := buf.String()
	if !strings.HasSuffix(line, "• DidBackdate function_arity(f) @3\n") {
		t.Fatalf("line = %q", line)
	}
	if !strings.Contains(line, "] query  ") {
		t.Fatalf("scope column missing: %q", line)
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode(both) = %v, %v", m, err)
	}
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if FindRing(tr) == nil {
		t.Fatal("ModeBoth must keep a ring")
	}
}
