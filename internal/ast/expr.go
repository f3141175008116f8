package ast

import (
	"calc/internal/source"
)

type ExprKind uint8

const (
	ExprNumber ExprKind = iota
	ExprVariable
	ExprCall
	ExprBinary
)

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// Expr is a tagged union; only the fields of its Kind are meaningful.
type Expr struct {
	Kind ExprKind
	Span source.Span

	Number Number     // ExprNumber
	Var    VariableID // ExprVariable
	Fn     FunctionID // ExprCall
	Args   []Expr     // ExprCall

	Op          BinaryOp // ExprBinary
	Left, Right *Expr    // ExprBinary
}

func NewNumber(sp source.Span, n Number) Expr {
	return Expr{Kind: ExprNumber, Span: sp, Number: n}
}

func NewVariable(sp source.Span, v VariableID) Expr {
	return Expr{Kind: ExprVariable, Span: sp, Var: v}
}

func NewCall(sp source.Span, fn FunctionID, args []Expr) Expr {
	return Expr{Kind: ExprCall, Span: sp, Fn: fn, Args: args}
}

func NewBinary(op BinaryOp, left, right Expr) Expr {
	return Expr{
		Kind:  ExprBinary,
		Span:  left.Span.Cover(right.Span),
		Op:    op,
		Left:  &left,
		Right: &right,
	}
}

// Equal compares structurally, spans included.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind || e.Span != o.Span {
		return false
	}
	switch e.Kind {
	case ExprNumber:
		return e.Number.Equal(o.Number)
	case ExprVariable:
		return e.Var == o.Var
	case ExprCall:
		if e.Fn != o.Fn || len(e.Args) != len(o.Args) {
			return false
		}
		for i := range e.Args {
			if !e.Args[i].Equal(&o.Args[i]) {
				return false
			}
		}
		return true
	case ExprBinary:
		return e.Op == o.Op && e.Left.Equal(o.Left) && e.Right.Equal(o.Right)
	}
	return false
}
