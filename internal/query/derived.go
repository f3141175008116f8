package query

import (
	"fmt"
	"sync"
	"sync/atomic"

	"calc/internal/diag"
)

// Query is a memoized function of (Ctx, K).
type Query[K comparable, V any] struct {
	db   *Database
	name string
	fn   func(*Ctx, K) V
	eq   func(a, b V) bool

	mu    sync.Mutex
	slots map[K]*slot[V]

	executions atomic.Int64
}

type slot[V any] struct {
	// guarded by Query.mu
	executing  bool
	owner      runtimeID
	ownerFrame *frame
	done       chan struct{}

	memo atomic.Pointer[memo[V]]
}

// memo is immutable once published.
type memo[V any] struct {
	value      V
	deps       []dependency
	diags      []diag.Diagnostic
	created    []trackedEntity
	verifiedAt Revision
	changedAt  Revision
}

func (m *memo[V]) verified(rev Revision) *memo[V] {
	cp := *m
	cp.verifiedAt = rev
	return &cp
}

// New registers a query whose results compare with ==.
func New[K, V comparable](db *Database, name string, fn func(*Ctx, K) V) *Query[K, V] {
	return NewFunc(db, name, fn, func(a, b V) bool { return a == b })
}

// NewFunc registers a query whose results compare with eq. eq drives
// backdating: a rerun whose result is eq to the previous one does not
// invalidate dependents.
func NewFunc[K comparable, V any](db *Database, name string, fn func(*Ctx, K) V, eq func(a, b V) bool) *Query[K, V] {
	return &Query[K, V]{
		db:    db,
		name:  name,
		fn:    fn,
		eq:    eq,
		slots: make(map[K]*slot[V]),
	}
}

func (q *Query[K, V]) Name() string { return q.name }

// Executions counts how many times the query function actually ran.
func (q *Query[K, V]) Executions() int64 { return q.executions.Load() }

// Get returns the up to date result for key and records the read.
func (q *Query[K, V]) Get(ctx *Ctx, key K) V {
	m := q.fetch(ctx, key)
	ctx.record(queryDep[K, V]{q: q, key: key})
	return m.value
}

func (q *Query[K, V]) label(key K) string {
	return fmt.Sprintf("%s(%v)", q.name, key)
}

func (q *Query[K, V]) fetch(ctx *Ctx, key K) *memo[V] {
	for {
		q.mu.Lock()
		s, ok := q.slots[key]
		if !ok {
			s = &slot[V]{}
			q.slots[key] = s
		}
		if m := s.memo.Load(); m != nil && m.verifiedAt == ctx.rev {
			q.mu.Unlock()
			return m
		}
		if s.executing {
			if ctx.frame.chain(s.ownerFrame) {
				q.mu.Unlock()
				panic(newCycleError(ctx.frame, q.label(key)))
			}
			owner, done := s.owner, s.done
			q.mu.Unlock()
			ctx.blockOn(owner, done, q.name, key)
			continue
		}
		f := newFrame(ctx.frame, queryDep[K, V]{q: q, key: key})
		s.executing = true
		s.owner = ctx.runtime
		s.ownerFrame = f
		s.done = make(chan struct{})
		q.mu.Unlock()
		return q.refresh(ctx.with(f), s, key)
	}
}

func (q *Query[K, V]) release(s *slot[V]) {
	q.mu.Lock()
	s.executing = false
	s.ownerFrame = nil
	close(s.done)
	q.mu.Unlock()
}

// refresh runs with the slot claimed; ctx carries the slot's frame.
func (q *Query[K, V]) refresh(ctx *Ctx, s *slot[V], key K) *memo[V] {
	defer q.release(s)

	old := s.memo.Load()
	if old != nil && q.verify(ctx, old) {
		m := old.verified(ctx.rev)
		s.memo.Store(m)
		q.db.emit(DidValidateMemo, q.name, key, ctx.rev)
		return m
	}
	ctx.frame.reset()

	q.db.emit(WillExecute, q.name, key, ctx.rev)
	q.executions.Add(1)
	value := q.fn(ctx, key)

	f := ctx.frame
	m := &memo[V]{
		value:      value,
		deps:       f.deps,
		diags:      f.diags,
		created:    f.created,
		verifiedAt: ctx.rev,
		changedAt:  ctx.rev,
	}
	if old != nil && q.eq(old.value, value) {
		m.value = old.value
		m.changedAt = old.changedAt
		q.db.emit(DidBackdate, q.name, key, ctx.rev)
	}
	if old != nil {
		q.db.sweep(old.created, f.made, ctx.rev)
	}
	s.memo.Store(m)
	return m
}

// verify reports whether none of old's dependencies changed since it was
// last verified. Stops at the first changed dependency.
func (q *Query[K, V]) verify(ctx *Ctx, old *memo[V]) bool {
	if Revision(q.db.lastChange.Load()) <= old.verifiedAt {
		return true
	}
	for _, d := range old.deps {
		if d.changedAfter(ctx, old.verifiedAt) {
			return false
		}
	}
	return true
}

// peek returns the published memo for key without refreshing it.
func (q *Query[K, V]) peek(key K) *memo[V] {
	q.mu.Lock()
	s, ok := q.slots[key]
	q.mu.Unlock()
	if !ok {
		return nil
	}
	return s.memo.Load()
}

type queryDep[K comparable, V any] struct {
	q   *Query[K, V]
	key K
}

func (d queryDep[K, V]) changedAfter(ctx *Ctx, since Revision) bool {
	return d.q.fetch(ctx, d.key).changedAt > since
}

func (d queryDep[K, V]) depLabel() string { return d.q.label(d.key) }

func (d queryDep[K, V]) memoParts() ([]dependency, []diag.Diagnostic, bool) {
	m := d.q.peek(d.key)
	if m == nil {
		return nil, nil, false
	}
	return m.deps, m.diags, true
}
