package parser

import (
	"calc/internal/ast"
	"calc/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет; все операторы левоассоциативные
const (
	precAdditive       = 1 // + -
	precMultiplicative = 2 // * /
)

// binaryPrec возвращает приоритет оператора или -1, если это не бинарный оператор
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash:
		return precMultiplicative
	default:
		return -1
	}
}

// binaryOp преобразует токен в бинарный оператор
func binaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Minus:
		return ast.OpSub
	case token.Star:
		return ast.OpMul
	case token.Slash:
		return ast.OpDiv
	default:
		return ast.OpAdd
	}
}
