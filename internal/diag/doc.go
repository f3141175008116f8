// Package diag defines the diagnostic model shared by the parser, the checker
// and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – the source.Span pointing to the issue.
//
// The Primary span is scoped by its DefID. Parse diagnostics use the
// placeholder definition and absolute offsets; checker diagnostics use the
// owning function's definition and offsets relative to that function. The
// compiler translates the latter to absolute offsets before handing them to
// the driver.
//
// # Emitting diagnostics
//
// Producers emit through a Reporter. BagReporter collects into a Bag, which
// supports sorting, deduplication and limits. Inside the query engine
// diagnostics are reported to the executing query instead (see package query).
//
// Package diag does not perform any formatting or IO; rendering lives in
// internal/diagfmt.
package diag
