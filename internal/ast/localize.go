package ast

import (
	"calc/internal/source"
)

// Localize rewrites every span of d in place so that it is relative to
// anchor (the absolute start of the defining statement) and tagged with def.
// After this, d depends only on the text of its own statement.
func Localize(d *FunctionData, def source.DefID, anchor uint32) {
	Walk(spanRebaser{def: def, anchor: anchor}, d)
}

type spanRebaser struct {
	def    source.DefID
	anchor uint32
}

func (r spanRebaser) VisitExpr(*Expr) bool { return true }

func (r spanRebaser) VisitSpan(sp *source.Span) {
	*sp = sp.Rebase(r.def, r.anchor)
}
