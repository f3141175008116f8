package query

import (
	"calc/internal/diag"
	"calc/internal/source"
)

// Report attaches d to the running query's memo.
func (c *Ctx) Report(d diag.Diagnostic) {
	c.frame.report(d)
}

// Reporter adapts the running query to diag.Reporter.
func (c *Ctx) Reporter() diag.Reporter {
	return ctxReporter{c}
}

type ctxReporter struct{ ctx *Ctx }

func (r ctxReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string) {
	r.ctx.Report(diag.New(sev, code, primary, msg))
}

type memoSource interface {
	memoParts() ([]dependency, []diag.Diagnostic, bool)
}

// Accumulated brings q(key) up to date and returns the diagnostics reported
// by it and by every query it transitively read, each memo visited once and
// duplicates dropped. Order is depth first, own diagnostics before those of
// dependencies.
func Accumulated[K comparable, V any](ctx *Ctx, q *Query[K, V], key K) []diag.Diagnostic {
	q.Get(ctx, key)

	var (
		out     []diag.Diagnostic
		visited = make(map[dependency]struct{})
		dups    = make(map[diag.Key]struct{})
	)
	var visit func(d dependency)
	visit = func(d dependency) {
		if _, ok := visited[d]; ok {
			return
		}
		visited[d] = struct{}{}
		src, ok := d.(memoSource)
		if !ok {
			return
		}
		deps, diags, ok := src.memoParts()
		if !ok {
			return
		}
		for _, dg := range diags {
			k := dg.Key()
			if _, ok := dups[k]; ok {
				continue
			}
			dups[k] = struct{}{}
			out = append(out, dg)
		}
		for _, next := range deps {
			visit(next)
		}
	}
	visit(queryDep[K, V]{q: q, key: key})
	return out
}
