package ast

import (
	"calc/internal/source"
)

// Node is anything Walk can traverse.
type Node interface {
	*Expr | *Stmt | *FunctionData
}

// Visitor receives every expression and every span of a tree. Nodes are
// passed by pointer so a visitor may rewrite them in place.
type Visitor interface {
	// VisitExpr is called before the children of e; returning false skips them.
	VisitExpr(e *Expr) bool
	VisitSpan(sp *source.Span)
}

// Walk traverses n depth first, left to right.
func Walk[N Node](v Visitor, n N) {
	switch n := any(n).(type) {
	case *Expr:
		walkExpr(v, n)
	case *Stmt:
		v.VisitSpan(&n.Span)
		switch n.Kind {
		case StmtFunction:
			walkFunction(v, &n.Function)
		case StmtPrint:
			walkExpr(v, &n.Print)
		}
	case *FunctionData:
		walkFunction(v, n)
	}
}

func walkFunction(v Visitor, d *FunctionData) {
	v.VisitSpan(&d.NameSpan)
	walkExpr(v, &d.Body)
}

func walkExpr(v Visitor, e *Expr) {
	if e == nil || !v.VisitExpr(e) {
		return
	}
	v.VisitSpan(&e.Span)
	switch e.Kind {
	case ExprCall:
		for i := range e.Args {
			walkExpr(v, &e.Args[i])
		}
	case ExprBinary:
		walkExpr(v, e.Left)
		walkExpr(v, e.Right)
	}
}
