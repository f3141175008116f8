package query

import (
	"calc/internal/diag"
)

// dependency is anything a query can read: an input, an interner, an entity
// or another query's result.
type dependency interface {
	// changedAfter brings the dependency up to date and reports whether its
	// value changed after since.
	changedAfter(ctx *Ctx, since Revision) bool
	depLabel() string
}

// frame collects the reads, diagnostics and entities of one query execution.
// Branch frames belong to ForEach forks and are merged into their parent.
type frame struct {
	parent *frame
	owner  dependency
	branch bool

	deps    []dependency
	seen    map[dependency]struct{}
	diags   []diag.Diagnostic
	created []trackedEntity
	made    map[trackedEntity]struct{}
}

func newFrame(parent *frame, owner dependency) *frame {
	return &frame{parent: parent, owner: owner}
}

// owning returns the nearest frame that belongs to a query or the root.
func (f *frame) owning() *frame {
	for f.branch {
		f = f.parent
	}
	return f
}

func (f *frame) isRoot() bool {
	o := f.owning()
	return o.owner == nil
}

func (f *frame) record(d dependency) {
	if f.isRoot() {
		return
	}
	if _, ok := f.seen[d]; ok {
		return
	}
	if f.seen == nil {
		f.seen = make(map[dependency]struct{})
	}
	f.seen[d] = struct{}{}
	f.deps = append(f.deps, d)
}

func (f *frame) report(d diag.Diagnostic) {
	if f.isRoot() {
		return
	}
	f.diags = append(f.diags, d)
}

// hasCreated reports whether e was already tracked by this execution.
func (f *frame) hasCreated(e trackedEntity) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if _, ok := cur.made[e]; ok {
			return true
		}
		if !cur.branch {
			break
		}
	}
	return false
}

func (f *frame) noteCreated(e trackedEntity) {
	if f.made == nil {
		f.made = make(map[trackedEntity]struct{})
	}
	f.made[e] = struct{}{}
	f.created = append(f.created, e)
}

// merge folds a finished branch into f.
func (f *frame) merge(b *frame) {
	for _, d := range b.deps {
		f.record(d)
	}
	f.diags = append(f.diags, b.diags...)
	for _, e := range b.created {
		if _, ok := f.made[e]; ok {
			continue
		}
		f.noteCreated(e)
	}
}

// reset drops whatever was recorded while verifying an old memo.
func (f *frame) reset() {
	f.deps = nil
	f.seen = nil
	f.diags = nil
	f.created = nil
	f.made = nil
}

// chain reports whether target is f or one of its ancestors.
func (f *frame) chain(target *frame) bool {
	for cur := f; cur != nil; cur = cur.parent {
		if cur == target {
			return true
		}
	}
	return false
}

// path lists query labels from the outermost frame down to f.
func (f *frame) path() []string {
	var out []string
	for cur := f; cur != nil; cur = cur.parent {
		if cur.branch || cur.owner == nil {
			continue
		}
		out = append(out, cur.owner.depLabel())
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
