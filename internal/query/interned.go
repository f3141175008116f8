package query

import (
	"fmt"
	"math"
	"sync"
)

// Interned deduplicates values into handles. Handles start at 1; the zero
// handle is never produced. Safe for concurrent use.
type Interned[V comparable, ID ~uint32] struct {
	name string
	mu   sync.RWMutex
	ids  map[V]ID
	vals []V
}

func NewInterned[V comparable, ID ~uint32](name string) *Interned[V, ID] {
	return &Interned[V, ID]{
		name: name,
		ids:  make(map[V]ID),
	}
}

// Intern returns the handle for v, allocating one on first sight.
// ctx may be nil when interning outside a query.
func (in *Interned[V, ID]) Intern(ctx *Ctx, v V) ID {
	if ctx != nil {
		ctx.record(in)
	}
	in.mu.RLock()
	id, ok := in.ids[v]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[v]; ok {
		return id
	}
	if len(in.vals) >= math.MaxUint32 {
		panic(fmt.Sprintf("query: interner %s is full", in.name))
	}
	in.vals = append(in.vals, v)
	id = ID(uint32(len(in.vals)))
	in.ids[v] = id
	return id
}

// Lookup returns the value behind id. It panics on a handle this interner
// did not produce.
func (in *Interned[V, ID]) Lookup(id ID) V {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if id == 0 || int(id) > len(in.vals) {
		panic(fmt.Sprintf("query: interner %s: unknown handle %d", in.name, id))
	}
	return in.vals[id-1]
}

func (in *Interned[V, ID]) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.vals)
}

// Interned values never change once allocated.
func (in *Interned[V, ID]) changedAfter(*Ctx, Revision) bool { return false }

func (in *Interned[V, ID]) depLabel() string { return in.name }
