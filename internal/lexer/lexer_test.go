package lexer_test

import (
	"testing"

	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/source"
	"calc/internal/token"
)

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(16)
	lx := lexer.New([]byte(input), lexer.Options{Reporter: diag.BagReporter{Bag: bag}, Def: 1})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
		if len(toks) > 1000 {
			t.Fatal("lexer does not terminate")
		}
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "function",
			input: "fn f(x, y) = x * y;",
			want: []token.Kind{
				token.KwFn, token.Ident, token.LParen, token.Ident, token.Comma, token.Ident, token.RParen,
				token.Assign, token.Ident, token.Star, token.Ident, token.Semicolon, token.EOF,
			},
		},
		{
			name:  "print",
			input: "print 1 + 2.5 / 3 - 4;",
			want: []token.Kind{
				token.KwPrint, token.Number, token.Plus, token.Number, token.Slash, token.Number,
				token.Minus, token.Number, token.Semicolon, token.EOF,
			},
		},
		{
			name:  "comments and newlines",
			input: "// header\r\nprint x; // trailing\n",
			want:  []token.Kind{token.KwPrint, token.Ident, token.Semicolon, token.EOF},
		},
		{
			name:  "keyword prefix is ident",
			input: "fnord printer",
			want:  []token.Kind{token.Ident, token.Ident, token.EOF},
		},
		{
			name:  "unicode ident",
			input: "fn größe(ä) = ä;",
			want: []token.Kind{
				token.KwFn, token.Ident, token.LParen, token.Ident, token.RParen,
				token.Assign, token.Ident, token.Semicolon, token.EOF,
			},
		},
		{
			name:  "empty",
			input: "",
			want:  []token.Kind{token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.input)
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
		})
	}
}

func TestTokenSpansAndText(t *testing.T) {
	toks, _ := lexAll(t, "print 12.75;")
	num := toks[1]
	if num.Text != "12.75" {
		t.Fatalf("number text = %q", num.Text)
	}
	if num.Span != (source.Span{Def: 1, Start: 6, End: 11}) {
		t.Fatalf("number span = %v", num.Span)
	}
	eof := toks[len(toks)-1]
	if eof.Span.Start != 12 || !eof.Span.Empty() {
		t.Fatalf("EOF span = %v", eof.Span)
	}
}

func TestNumberWithoutFraction(t *testing.T) {
	toks, bag := lexAll(t, "1.")
	if toks[0].Kind != token.Number || toks[0].Text != "1" {
		t.Fatalf("first token = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.Invalid || toks[1].Span.Start != 1 || toks[1].Span.End != 2 {
		t.Fatalf("second token = %v %v", toks[1].Kind, toks[1].Span)
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, bag := lexAll(t, "print 1 ± 2;")
	bad := toks[2]
	if bad.Kind != token.Invalid {
		t.Fatalf("token kind = %v, want Invalid", bad.Kind)
	}
	// '±' занимает два байта
	if bad.Span.Start != 8 || bad.Span.End != 10 {
		t.Fatalf("invalid span = %v", bad.Span)
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.LexUnknownChar || d.Message != "unexpected character" {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New([]byte("fn"), lexer.Options{})
	if lx.Peek().Kind != token.KwFn {
		t.Fatal("Peek kind")
	}
	if lx.Next().Kind != token.KwFn {
		t.Fatal("Next after Peek")
	}
	if lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("EOF must be sticky")
	}
}
