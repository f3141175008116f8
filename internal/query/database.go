package query

import (
	"sync"
	"sync/atomic"

	"calc/internal/trace"
)

// Revision numbers database states. Every input write produces a new one.
type Revision uint64

type runtimeID uint64

type Options struct {
	// Tracer receives one point event per engine event (scope query).
	Tracer trace.Tracer
	// RecordEvents keeps engine events in memory until TakeEvents.
	RecordEvents bool
}

// Database is one incremental session: revision counter, tracked entities
// and the bookkeeping shared by all queries registered on it.
type Database struct {
	writeMu    sync.RWMutex
	rev        atomic.Uint64
	lastChange atomic.Uint64

	mu       sync.Mutex
	entities map[entityKey]trackedEntity
	waits    map[runtimeID][]runtimeID

	runtimes atomic.Uint64
	tracer   trace.Tracer
	record   bool

	evMu   sync.Mutex
	events []Event
}

func NewDatabase(opts Options) *Database {
	db := &Database{
		entities: make(map[entityKey]trackedEntity),
		waits:    make(map[runtimeID][]runtimeID),
		tracer:   opts.Tracer,
		record:   opts.RecordEvents,
	}
	if db.tracer == nil {
		db.tracer = trace.Nop
	}
	db.rev.Store(1)
	db.lastChange.Store(1)
	return db
}

// Revision returns the current revision.
func (db *Database) Revision() Revision {
	return Revision(db.rev.Load())
}

// Snapshot opens a read session pinned to the current revision.
// Input writes wait until the returned Ctx is released. Snapshots must not
// be nested on one goroutine while a writer may be waiting.
func (db *Database) Snapshot() *Ctx {
	db.writeMu.RLock()
	var once sync.Once
	return &Ctx{
		db:      db,
		runtime: db.newRuntime(),
		rev:     db.Revision(),
		frame:   &frame{},
		release: func() { once.Do(db.writeMu.RUnlock) },
	}
}

func (db *Database) newRuntime() runtimeID {
	return runtimeID(db.runtimes.Add(1))
}

// bump runs under writeMu.
func (db *Database) bump() Revision {
	rev := Revision(db.rev.Add(1))
	db.lastChange.Store(uint64(rev))
	return rev
}

// Ctx is the handle queries run with. It pins a revision and carries the
// frame that records what the running query reads.
type Ctx struct {
	db      *Database
	runtime runtimeID
	rev     Revision
	frame   *frame
	release func()
}

// Release ends a snapshot. It is a no-op for contexts handed to queries.
func (c *Ctx) Release() {
	if c.release != nil {
		c.release()
	}
}

func (c *Ctx) Revision() Revision { return c.rev }

func (c *Ctx) Database() *Database { return c.db }

func (c *Ctx) with(f *frame) *Ctx {
	return &Ctx{db: c.db, runtime: c.runtime, rev: c.rev, frame: f}
}

func (c *Ctx) record(d dependency) {
	c.frame.record(d)
}
