// Package trace provides the tracing subsystem of calc.
//
// Tracing shows what the driver and the query engine do: which files are
// compiled, which queries run, which memos are revalidated or backdated.
//
// # Usage
//
//	calc diag --trace=- --trace-level=debug prog.calc
//
// # Tracers
//
//   - Nop: zero overhead when disabled
//   - StreamTracer: writes every event immediately
//   - RingTracer: keeps the last N events for dumps on failure
//   - MultiTracer: fan-out
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePass events, LevelDetail adds
// ScopeQuery (one event per engine event), LevelDebug adds everything.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "compile", parentID)
//	defer span.End("")
package trace
