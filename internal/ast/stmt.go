package ast

import (
	"slices"

	"calc/internal/source"
)

type StmtKind uint8

const (
	StmtFunction StmtKind = iota
	StmtPrint
)

type Stmt struct {
	Kind StmtKind
	Span source.Span

	Fn       FunctionID   // StmtFunction
	Function FunctionData // StmtFunction
	Print    Expr         // StmtPrint
}

// FunctionData is the tracked payload of a function definition.
// Later duplicates in Args shadow earlier ones.
type FunctionData struct {
	NameSpan source.Span
	Args     []VariableID
	Body     Expr
}

func (d FunctionData) Arity() int { return len(d.Args) }

// HasArg reports whether v names one of the parameters.
func (d FunctionData) HasArg(v VariableID) bool {
	return slices.Contains(d.Args, v)
}

func (d FunctionData) Equal(o FunctionData) bool {
	return d.NameSpan == o.NameSpan &&
		slices.Equal(d.Args, o.Args) &&
		d.Body.Equal(&o.Body)
}
