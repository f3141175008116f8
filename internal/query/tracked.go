package query

import (
	"fmt"
	"sync/atomic"
)

type entityKey struct {
	owner dependency
	id    any
}

type trackedEntity interface {
	dependency
	discard(db *Database, rev Revision)
}

// Entity is a value owned by the query execution that tracked it.
type Entity[T any] struct {
	key entityKey
	cur atomic.Pointer[entityValue[T]]
}

type entityValue[T any] struct {
	value     T
	changedAt Revision
	dead      bool
}

// Track creates or updates the entity identified by id within the running
// query. An equal value keeps the entity's previous changedAt. Tracking the
// same id twice in one execution panics.
func Track[ID comparable, T any](ctx *Ctx, id ID, value T, eq func(a, b T) bool) *Entity[T] {
	owner := ctx.frame.owning().owner
	if owner == nil {
		panic("query: Track called outside a query")
	}
	key := entityKey{owner: owner, id: id}

	db := ctx.db
	db.mu.Lock()
	te, ok := db.entities[key]
	if !ok {
		te = &Entity[T]{key: key}
		db.entities[key] = te
	}
	db.mu.Unlock()

	e, ok := te.(*Entity[T])
	if !ok {
		panic(fmt.Sprintf("query: entity %v tracked with type %T, was %T", id, e, te))
	}
	if ctx.frame.hasCreated(e) {
		panic(fmt.Sprintf("query: entity %v tracked twice by %s", id, owner.depLabel()))
	}
	cur := e.cur.Load()
	if cur == nil || cur.dead || !eq(cur.value, value) {
		e.cur.Store(&entityValue[T]{value: value, changedAt: ctx.rev})
	}
	ctx.frame.noteCreated(e)
	return e
}

// Get returns the entity's value and records the read unless the running
// query is the one that tracks the entity.
func (e *Entity[T]) Get(ctx *Ctx) T {
	if ctx.frame.owning().owner != e.key.owner {
		ctx.record(e)
	}
	return e.cur.Load().value
}

// ChangedAt returns the revision the value last changed at.
func (e *Entity[T]) ChangedAt() Revision {
	return e.cur.Load().changedAt
}

func (e *Entity[T]) changedAfter(ctx *Ctx, since Revision) bool {
	// владелец должен перезапуститься первым: он обновляет или удаляет сущность
	e.key.owner.changedAfter(ctx, since)
	return e.cur.Load().changedAt > since
}

func (e *Entity[T]) depLabel() string {
	return fmt.Sprintf("%s#%v", e.key.owner.depLabel(), e.key.id)
}

func (e *Entity[T]) discard(db *Database, rev Revision) {
	cur := e.cur.Load()
	if cur.dead {
		return
	}
	e.cur.Store(&entityValue[T]{value: cur.value, changedAt: rev, dead: true})
	db.emit(DidDiscardEntity, e.depLabel(), nil, rev)
}

// sweep discards entities the previous run tracked and the new one did not.
func (db *Database) sweep(old []trackedEntity, kept map[trackedEntity]struct{}, rev Revision) {
	for _, e := range old {
		if _, ok := kept[e]; ok {
			continue
		}
		e.discard(db, rev)
	}
}
