package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Span is a half-open byte range relative to the definition named by Def.
// For spans tagged with the placeholder definition the range is absolute.
type Span struct {
	Def   DefID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.Def, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans of different definitions are not merged.
func (s Span) Cover(other Span) Span {
	if s.Def != other.Def {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Rebase re-anchors the span: offsets become relative to anchor and the
// span is tagged with def. Panics if the span starts before anchor.
func (s Span) Rebase(def DefID, anchor uint32) Span {
	if anchor > s.Start {
		panic(fmt.Sprintf("source: span %s starts before anchor %d", s, anchor))
	}
	return Span{Def: def, Start: s.Start - anchor, End: s.End - anchor}
}

// Absolute undoes Rebase: offsets relative to anchor become absolute and the
// span is tagged with def. Panics if the result overflows uint32.
func (s Span) Absolute(def DefID, anchor uint32) Span {
	return Span{Def: def, Start: addOffset(anchor, s.Start), End: addOffset(anchor, s.End)}
}

func addOffset(anchor, off uint32) uint32 {
	v, err := safecast.Conv[uint32](uint64(anchor) + uint64(off))
	if err != nil {
		panic(fmt.Errorf("source: offset %d past anchor %d: %w", off, anchor, err))
	}
	return v
}
