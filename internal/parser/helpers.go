package parser

import (
	"calc/internal/diag"
	"calc/internal/source"
	"calc/internal/token"
)

// firstError запоминает только первую ошибку; остальные отбрасываются.
type firstError struct {
	err *SyntaxError
}

func (f *firstError) Report(code diag.Code, _ diag.Severity, sp source.Span, msg string) {
	if f.err != nil {
		return
	}
	f.err = &SyntaxError{Span: sp, Code: code, Message: msg}
}

// advance съедает следующий токен
func (p *Parser) advance() token.Token {
	return p.lx.Next()
}

// eat съедает токен, если он нужного вида.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен. Если нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.unexpected()
	return token.Token{Kind: token.Invalid, Span: p.lx.Peek().Span}, false
}

// unexpected репортит текущий токен и всегда возвращает false.
func (p *Parser) unexpected() bool {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.EOF:
		p.report(diag.SynUnexpectedEOF, tok.Span, "unexpected end of input")
	case token.Invalid:
		// лексер уже отрепортил этот символ
		p.report(diag.LexUnknownChar, tok.Span, "unexpected character")
	default:
		p.report(diag.SynUnexpectedToken, tok.Span, "unexpected character")
	}
	return false
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(&p.first, code, sp, msg)
}
