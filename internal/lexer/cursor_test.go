package lexer

import (
	"testing"

	"calc/internal/source"
)

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor([]byte("a\nb"), 0)
	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatal("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("Peek/Bump after EOF must return 0")
	}
}

func TestMarkSpanReset(t *testing.T) {
	cursor := NewCursor([]byte("hello"), source.DefID(7))
	cursor.Bump()
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	sp := cursor.SpanFrom(m)
	if sp != (source.Span{Def: 7, Start: 1, End: 3}) {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 1 {
		t.Fatalf("Reset: Off = %d, want 1", cursor.Off)
	}
	if !cursor.Eat('e') || cursor.Eat('x') {
		t.Fatal("Eat mismatch")
	}
}

func TestPeek2AtEnd(t *testing.T) {
	cursor := NewCursor([]byte("ab"), 0)
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatal("Peek2 must fail with one byte left")
	}
}
