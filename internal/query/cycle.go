package query

import (
	"strings"
)

// CycleError is the panic value raised when a query depends on itself.
// It signals a bug in the query definitions, never bad user input.
type CycleError struct {
	// Path lists the queries on the cycle, outermost first.
	Path []string
}

func (e *CycleError) Error() string {
	return "query: cycle detected: " + strings.Join(e.Path, " -> ")
}

func newCycleError(f *frame, requested string) *CycleError {
	return &CycleError{Path: append(f.path(), requested)}
}

// blockOn waits for the runtime owner to finish a slot. The wait is
// registered in the wait-for graph first; closing a cycle panics.
func (c *Ctx) blockOn(owner runtimeID, done <-chan struct{}, name string, key any) {
	db := c.db
	db.mu.Lock()
	db.waits[c.runtime] = append(db.waits[c.runtime], owner)
	if db.reachesLocked(owner, c.runtime) {
		db.unwaitLocked(c.runtime, owner)
		db.mu.Unlock()
		select {
		case <-done:
			// владелец уже отпустил слот, цикла нет
			return
		default:
		}
		panic(newCycleError(c.frame, labelOf(name, key)))
	}
	db.mu.Unlock()

	db.emit(WillBlockOn, name, key, c.rev)
	<-done

	db.mu.Lock()
	db.unwaitLocked(c.runtime, owner)
	db.mu.Unlock()
}

// reachesLocked reports whether to is reachable from from over wait edges.
func (db *Database) reachesLocked(from, to runtimeID) bool {
	stack := []runtimeID{from}
	seen := map[runtimeID]struct{}{}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		stack = append(stack, db.waits[cur]...)
	}
	return false
}

// unwaitLocked removes one waiter -> owner edge.
func (db *Database) unwaitLocked(waiter, owner runtimeID) {
	edges := db.waits[waiter]
	for i, o := range edges {
		if o == owner {
			edges = append(edges[:i], edges[i+1:]...)
			break
		}
	}
	if len(edges) == 0 {
		delete(db.waits, waiter)
		return
	}
	db.waits[waiter] = edges
}
