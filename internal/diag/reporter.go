package diag

import "calc/internal/source"

// Reporter: минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), DedupReporter (отсекает повторы).
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string)
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(code, SevError, primary, msg)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(New(sev, code, primary, msg))
}

// DedupReporter пропускает в Next только первое вхождение каждой диагностики.
type DedupReporter struct {
	Next Reporter
	seen map[Key]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{Next: next, seen: make(map[Key]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r == nil || r.Next == nil {
		return
	}
	key := New(sev, code, primary, msg).Key()
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	r.Next.Report(code, sev, primary, msg)
}
