package diag

import (
	"calc/internal/source"
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// Start returns the first byte of the primary span.
func (d Diagnostic) Start() uint32 { return d.Primary.Start }

// End returns the exclusive end of the primary span.
func (d Diagnostic) End() uint32 { return d.Primary.End }

// Key identifies diagnostics that are duplicates of each other.
type Key struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// Key returns the deduplication key of d.
func (d Diagnostic) Key() Key {
	return Key{code: d.Code, sev: d.Severity, span: d.Primary, msg: d.Message}
}
