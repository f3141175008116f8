package ast

import (
	"strings"
)

// Format renders statements as S-expressions, one per line:
//
//	(fn f (x y) (+ x (* y 2)))
//	(print (f 1 2))
func Format(names Names, stmts []Stmt) string {
	var sb strings.Builder
	for i := range stmts {
		FormatStmt(&sb, names, &stmts[i])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func FormatStmt(sb *strings.Builder, names Names, s *Stmt) {
	switch s.Kind {
	case StmtFunction:
		sb.WriteString("(fn ")
		sb.WriteString(names.FunctionName(s.Fn))
		sb.WriteString(" (")
		for i, a := range s.Function.Args {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(names.VariableName(a))
		}
		sb.WriteString(") ")
		FormatExpr(sb, names, &s.Function.Body)
		sb.WriteByte(')')
	case StmtPrint:
		sb.WriteString("(print ")
		FormatExpr(sb, names, &s.Print)
		sb.WriteByte(')')
	}
}

func FormatExpr(sb *strings.Builder, names Names, e *Expr) {
	switch e.Kind {
	case ExprNumber:
		sb.WriteString(e.Number.String())
	case ExprVariable:
		sb.WriteString(names.VariableName(e.Var))
	case ExprCall:
		sb.WriteByte('(')
		sb.WriteString(names.FunctionName(e.Fn))
		for i := range e.Args {
			sb.WriteByte(' ')
			FormatExpr(sb, names, &e.Args[i])
		}
		sb.WriteByte(')')
	case ExprBinary:
		sb.WriteByte('(')
		sb.WriteString(e.Op.String())
		sb.WriteByte(' ')
		FormatExpr(sb, names, e.Left)
		sb.WriteByte(' ')
		FormatExpr(sb, names, e.Right)
		sb.WriteByte(')')
	}
}
