// Package token defines lexical token kinds for the calc language.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace and // comments are skipped by the lexer and never appear
//     in the token stream.
//   - "fn" and "print" are the only keywords; keywords are case-sensitive.
package token
