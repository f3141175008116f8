package lexer

import (
	"calc/internal/source"
	"calc/internal/token"
)

type Lexer struct {
	src    []byte
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(src []byte, opts Options) *Lexer {
	return &Lexer{
		src:    src,
		cursor: NewCursor(src, opts.Def),
		opts:   opts,
		look:   nil,
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch), ch >= utf8RuneSelf:
		// ASCII буква или возможный Unicode идентификатор
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Offset returns the current read position.
func (lx *Lexer) Offset() uint32 {
	return lx.cursor.Off
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{Def: lx.opts.Def, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.src[sp.Start:sp.End])
}
