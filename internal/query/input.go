package query

import (
	"sync/atomic"
)

// Input is a cell set from outside the engine.
type Input[T any] struct {
	db   *Database
	name string
	cur  atomic.Pointer[inputValue[T]]
}

type inputValue[T any] struct {
	value     T
	changedAt Revision
}

func NewInput[T any](db *Database, name string, initial T) *Input[T] {
	in := &Input[T]{db: db, name: name}
	in.cur.Store(&inputValue[T]{value: initial, changedAt: db.Revision()})
	return in
}

// Get returns the current value and records the read.
func (in *Input[T]) Get(ctx *Ctx) T {
	ctx.record(in)
	return in.cur.Load().value
}

// Set replaces the value and starts a new revision. It blocks while
// snapshots are open.
func (in *Input[T]) Set(v T) Revision {
	in.db.writeMu.Lock()
	defer in.db.writeMu.Unlock()
	rev := in.db.bump()
	in.cur.Store(&inputValue[T]{value: v, changedAt: rev})
	in.db.emit(DidSetInput, in.name, nil, rev)
	return rev
}

func (in *Input[T]) Name() string { return in.name }

func (in *Input[T]) changedAfter(_ *Ctx, since Revision) bool {
	return in.cur.Load().changedAt > since
}

func (in *Input[T]) depLabel() string { return in.name }
