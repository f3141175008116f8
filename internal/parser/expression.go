package parser

import (
	"errors"
	"strconv"

	"calc/internal/ast"
	"calc/internal/diag"
	"calc/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinaryExpr(precAdditive)
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) (ast.Expr, bool) {
	left, ok := p.parsePrimary()
	if !ok {
		return ast.Expr{}, false
	}

	for {
		prec := binaryPrec(p.lx.Peek().Kind)
		if prec < minPrec {
			break // приоритет слишком низкий
		}
		opTok := p.advance()

		// левоассоциативность: справа только более сильные операторы
		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.Expr{}, false
		}
		left = ast.NewBinary(binaryOp(opTok.Kind), left, right)
	}
	return left, true
}

// parsePrimary: NUMBER | IDENT | IDENT ( args? ) | ( expr )
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Number:
		p.advance()
		// слишком большой литерал даёт +Inf, это не ошибка
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			p.report(diag.SynUnexpectedToken, tok.Span, "unexpected character")
			return ast.Expr{}, false
		}
		return ast.NewNumber(tok.Span, ast.Number(v)), true

	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCall(tok)
		}
		return ast.NewVariable(tok.Span, p.names.Variable(tok.Text)), true

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.Expr{}, false
		}
		if _, ok := p.expect(token.RParen); !ok {
			return ast.Expr{}, false
		}
		// скобки не меняют span вложенного выражения
		return inner, true

	default:
		return ast.Expr{}, p.unexpected()
	}
}

// parseCall разбирает аргументы после имени функции; допускается висячая запятая.
func (p *Parser) parseCall(name token.Token) (ast.Expr, bool) {
	p.advance() // (
	var args []ast.Expr
	for !p.at(token.RParen) {
		arg, ok := p.parseExpr()
		if !ok {
			return ast.Expr{}, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	rparen, ok := p.expect(token.RParen)
	if !ok {
		return ast.Expr{}, false
	}
	return ast.NewCall(name.Span.Cover(rparen.Span), p.names.Function(name.Text), args), true
}
