// Package diagfmt renders compiler diagnostics for people (pretty, short)
// and for tools (json).
package diagfmt
