package source

// Span is an opaque (source-handle, begin, end) triple. Spans are
// value-copyable and carry no ownership; the [Handle] they point into must
// outlive them, which the [Manager] guarantees by retaining every handle it
// ever hands out for the lifetime of the pass.
type Span struct {
	Handle     *Handle
	Start, End int
}

// Extract returns the text slice this span covers.
func (s Span) Extract() string {
	if s.Handle == nil {
		return ""
	}
	return s.Handle.Text()[s.Start:s.End]
}

// Begin returns the positional span of just the first byte of s.
func (s Span) Begin() SourcePos {
	if s.Handle == nil {
		return SourcePos{}
	}
	return s.Handle.SourcePos(s.Start)
}

// EndPos returns the positional span of just the last byte (open range) of s.
func (s Span) EndPos() SourcePos {
	if s.Handle == nil {
		return SourcePos{}
	}
	return s.Handle.SourcePos(s.End)
}

// IsZero reports whether s carries no source information.
func (s Span) IsZero() bool {
	return s.Handle == nil
}

// Union returns the smallest span covering both a and b. Both must refer to
// the same handle.
func Union(a, b Span) Span {
	if a.Handle == nil {
		return b
	}
	if b.Handle == nil {
		return a
	}
	if a.Handle != b.Handle {
		panic("source: cannot union spans from different handles")
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{Handle: a.Handle, Start: start, End: end}
}

// Expand mutates the receiver in place to cover both itself and other,
// mirroring Span::expand from the original contract.
func (s *Span) Expand(other Span) {
	*s = Union(*s, other)
}
