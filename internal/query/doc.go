// Package query is the incremental computation engine behind the compiler.
//
// # Building blocks
//
//   - Input[T] – a mutable cell. Every Set bumps the database Revision.
//   - Interned[V, ID] – append-only deduplication of values into small
//     integer handles. Never invalidated.
//   - Query[K, V] – a memoized function of (Ctx, K). Every Input, Entity and
//     Query read through the Ctx while it runs is recorded as a dependency.
//   - Entity[T] – a value tracked by the query that created it. Identity is
//     (creating query + key, caller supplied id), so a rerun that produces an
//     equal value keeps the entity unchanged for its readers.
//
// # Revisions
//
// A memo stores verifiedAt (the last revision it was known valid at) and
// changedAt (the revision its value last changed). Fetching a memo that is
// not verified at the current revision walks its dependencies in recorded
// order; the first one whose changedAt is newer than verifiedAt forces a
// rerun. A rerun that yields a value equal to the previous one keeps the
// old changedAt (backdating), so dependents stay valid.
//
// # Diagnostics
//
// Ctx.Report attaches a diagnostic to the running query. Accumulated walks
// the memo graph below a query and returns the deduplicated union. A rerun
// replaces the diagnostics of its memo.
//
// # Concurrency
//
// Database.Snapshot opens a read session; Input.Set blocks until every
// snapshot is released. ForEach evaluates independent queries in parallel on
// forked contexts. A query that reaches itself, within one goroutine chain or
// through goroutines waiting on each other, panics with *CycleError.
package query
