// Package source holds the small position types shared across the
// analyzer. The translation unit's text and the mapping from byte
// offsets to line/column are owned by the external driver; this package
// only defines the contract the core depends on.
package source

import "fmt"

// Span is a half-open byte range within the original translation unit.
type Span struct {
	Start uint32
	End   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// Cover returns the smallest span that contains both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// LineResolver maps a byte offset in the translation unit to a 1-based
// source line. Constructing one from raw text (and any column tracking)
// is the driver's job; the core only ever calls Line.
type LineResolver interface {
	Line(offset uint32) int
}

// NoLineResolver is a LineResolver that always reports line 0, useful in
// tests that do not care about diagnostic positions.
type NoLineResolver struct{}

// Line implements LineResolver.
func (NoLineResolver) Line(uint32) int { return 0 }
