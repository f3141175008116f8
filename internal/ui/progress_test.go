package ui

import (
	"strings"
	"testing"

	"calc/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	ch := make(chan driver.Event)
	m := NewProgressModel("diag", []string{"a.calc", "b.calc"}, ch).(*progressModel)

	m.applyEvent(driver.Event{File: "a.calc", Stage: driver.StageCompile, Status: driver.StatusWorking})
	if m.rows[0].state != stateCompiling {
		t.Fatalf("state = %s", m.rows[0].state)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.applyEvent(driver.Event{File: "a.calc", Stage: driver.StageCompile, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "b.calc", Stage: driver.StageCache, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "unknown.calc", Stage: driver.StageLoad, Status: driver.StatusWorking})
	if m.rows[0].state != stateError || m.rows[1].state != stateCached {
		t.Fatalf("states = %s, %s", m.rows[0].state, m.rows[1].state)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	m.Update(closedMsg{})
	view := m.View()
	for _, want := range []string{"done: diag", "a.calc", "cached", "2/2 finished, 1 cached, 1 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.calc", 20, "short.calc"},
		{"very/long/path/file.calc", 10, "very/lo..."},
		{"日本語.calc", 5, "日..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
