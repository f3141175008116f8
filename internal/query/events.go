package query

import (
	"fmt"

	"calc/internal/trace"
)

// EventKind classifies engine events.
type EventKind uint8

const (
	// WillExecute: a query function is about to run.
	WillExecute EventKind = iota + 1
	// DidValidateMemo: an old memo was proven valid without running.
	DidValidateMemo
	// DidBackdate: a rerun produced a value equal to the previous one.
	DidBackdate
	// WillBlockOn: waiting for another goroutine to finish a query.
	WillBlockOn
	DidSetInput
	DidDiscardEntity
)

func (k EventKind) String() string {
	switch k {
	case WillExecute:
		return "WillExecute"
	case DidValidateMemo:
		return "DidValidateMemo"
	case DidBackdate:
		return "DidBackdate"
	case WillBlockOn:
		return "WillBlockOn"
	case DidSetInput:
		return "DidSetInput"
	case DidDiscardEntity:
		return "DidDiscardEntity"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind     EventKind
	Query    string
	Key      string
	Revision Revision
}

func (e Event) String() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s @%d", e.Kind, e.Query, e.Revision)
	}
	return fmt.Sprintf("%s %s(%s) @%d", e.Kind, e.Query, e.Key, e.Revision)
}

// TakeEvents returns the recorded events and clears the log.
func (db *Database) TakeEvents() []Event {
	db.evMu.Lock()
	defer db.evMu.Unlock()
	out := db.events
	db.events = nil
	return out
}

func labelOf(name string, key any) string {
	if key == nil {
		return name
	}
	return fmt.Sprintf("%s(%v)", name, key)
}

func (db *Database) emit(kind EventKind, name string, key any, rev Revision) {
	tracing := db.tracer.Level().ShouldEmit(trace.ScopeQuery)
	if !db.record && !tracing {
		return
	}
	ev := Event{Kind: kind, Query: name, Revision: rev}
	if key != nil {
		ev.Key = fmt.Sprint(key)
	}
	if db.record {
		db.evMu.Lock()
		db.events = append(db.events, ev)
		db.evMu.Unlock()
	}
	if tracing {
		trace.PointAt(db.tracer, trace.ScopeQuery, kind.String(), labelOf(name, key), uint64(rev))
	}
}
