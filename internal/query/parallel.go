package query

import (
	"golang.org/x/sync/errgroup"
)

// ForEach calls fn for every item, up to limit at a time (limit <= 0 means
// unbounded). Each call gets a forked Ctx whose reads, diagnostics and
// entities are merged back in item order, so the recorded dependencies do
// not depend on scheduling. A panic in any call is re-raised here after all
// calls finish; the first one in item order wins.
func ForEach[T any](ctx *Ctx, limit int, items []T, fn func(*Ctx, T)) {
	if len(items) == 0 {
		return
	}
	if limit == 1 || len(items) == 1 {
		for _, it := range items {
			fn(ctx, it)
		}
		return
	}

	forks := make([]*Ctx, len(items))
	panics := make([]any, len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	db := ctx.db
	db.mu.Lock()
	for i := range items {
		forks[i] = ctx.fork()
		db.waits[ctx.runtime] = append(db.waits[ctx.runtime], forks[i].runtime)
	}
	db.mu.Unlock()

	for i, it := range items {
		child := forks[i]
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					panics[i] = r
				}
			}()
			fn(child, it)
			return nil
		})
	}
	_ = g.Wait()

	db.mu.Lock()
	for _, child := range forks {
		db.unwaitLocked(ctx.runtime, child.runtime)
	}
	db.mu.Unlock()

	for _, p := range panics {
		if p != nil {
			panic(p)
		}
	}
	for _, child := range forks {
		ctx.frame.merge(child.frame)
	}
}

func (c *Ctx) fork() *Ctx {
	return &Ctx{
		db:      c.db,
		runtime: c.db.newRuntime(),
		rev:     c.rev,
		frame:   &frame{parent: c.frame, branch: true},
	}
}
