package slrgen

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to applications (i.e., scanners) to define them.
type TokType int

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are usually produced by a scanner and
// are projected onto terminals of a grammar before parsing.
//
// An example would be a token for an identifier:
//
//    TokType = Ident       // identifier for this kind of tokens (scanner specific)
//    Lexeme  = "count"     // lexeme how it appeared in the input stream
//    Span    = 67…72       // occured from byte position 67 in the input stream
//    Pos     = 3:12        // line 3, column 12
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
	Pos() Position
}

// --- Positions --------------------------------------------------------

// Position is a line/column pair within a source. Lines and columns start at 1;
// the zero value denotes an unknown position.
type Position struct {
	Line   int
	Column int
}

// IsKnown is false for the zero position.
func (p Position) IsKnown() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsKnown() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span, e.g. the span of an epsilon-production.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
// A null span is neutral.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
