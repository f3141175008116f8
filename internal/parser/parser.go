package parser

import (
	"fmt"

	"calc/internal/ast"
	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/source"
	"calc/internal/token"
)

// Names interns the identifiers met while parsing.
type Names interface {
	Variable(text string) ast.VariableID
	Function(text string) ast.FunctionID
	// Unknown is the placeholder definition every produced span is tagged with.
	Unknown() source.DefID
}

// SyntaxError is the single error of a failed parse.
type SyntaxError struct {
	Span    source.Span
	Code    diag.Code
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d-%d: %s", e.Span.Start, e.Span.End, e.Message)
}

// Diagnostic converts the error into a diagnostic with an absolute span.
func (e *SyntaxError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Message)
}

// Parser: состояние парсера на один текст
type Parser struct {
	lx    *lexer.Lexer // поток токенов (Peek/Next)
	names Names
	first firstError
}

// Parse разбирает весь текст. Разбор останавливается на первой ошибке:
// тогда возвращается ровно одна SyntaxError и ни одного оператора.
func Parse(text []byte, names Names) ([]ast.Stmt, *SyntaxError) {
	p := &Parser{names: names}
	p.lx = lexer.New(text, lexer.Options{Reporter: &p.first, Def: names.Unknown()})

	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		st, ok := p.parseStmt()
		if !ok {
			break
		}
		stmts = append(stmts, st)
	}
	if p.first.err != nil {
		return nil, p.first.err
	}
	return stmts, nil
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// parseStmt выбирает по первому токену нужный распознаватель.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.lx.Peek().Kind {
	case token.KwFn:
		return p.parseFn()
	case token.KwPrint:
		return p.parsePrint()
	default:
		return ast.Stmt{}, p.unexpected()
	}
}

// fn NAME ( params? ) = expr ;
func (p *Parser) parseFn() (ast.Stmt, bool) {
	fnTok := p.advance()

	nameTok, ok := p.expect(token.Ident)
	if !ok {
		return ast.Stmt{}, false
	}
	if _, ok = p.expect(token.LParen); !ok {
		return ast.Stmt{}, false
	}

	var args []ast.VariableID
	for !p.at(token.RParen) {
		argTok, ok := p.expect(token.Ident)
		if !ok {
			return ast.Stmt{}, false
		}
		args = append(args, p.names.Variable(argTok.Text))
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok = p.expect(token.RParen); !ok {
		return ast.Stmt{}, false
	}
	if _, ok = p.expect(token.Assign); !ok {
		return ast.Stmt{}, false
	}
	body, ok := p.parseExpr()
	if !ok {
		return ast.Stmt{}, false
	}
	semi, ok := p.expect(token.Semicolon)
	if !ok {
		return ast.Stmt{}, false
	}

	return ast.Stmt{
		Kind: ast.StmtFunction,
		Span: fnTok.Span.Cover(semi.Span),
		Fn:   p.names.Function(nameTok.Text),
		Function: ast.FunctionData{
			NameSpan: nameTok.Span,
			Args:     args,
			Body:     body,
		},
	}, true
}

// print expr ;
func (p *Parser) parsePrint() (ast.Stmt, bool) {
	printTok := p.advance()
	e, ok := p.parseExpr()
	if !ok {
		return ast.Stmt{}, false
	}
	semi, ok := p.expect(token.Semicolon)
	if !ok {
		return ast.Stmt{}, false
	}
	return ast.Stmt{
		Kind:  ast.StmtPrint,
		Span:  printTok.Span.Cover(semi.Span),
		Print: e,
	}, true
}
