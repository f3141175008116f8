package trace

import "time"

// Kind is the shape of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how coarse an event is; smaller values are coarser.
type Scope uint8

const (
	// ScopeDriver: batches and files.
	ScopeDriver Scope = iota + 1
	// ScopePass: one Compile call on one database.
	ScopePass
	// ScopeQuery: query engine events (execute, validate, backdate...).
	ScopeQuery
	// ScopeNode: per-statement and per-expression events.
	ScopeNode
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeQuery:  "query",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Rev is the query revision the event belongs to,
// 0 when the event is not tied to a database.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Rev      uint64
	Name     string
	Detail   string
	Extra    map[string]string
}
