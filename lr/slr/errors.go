package slr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr/cst"
)

// ErrReject is matched by every *ParseError.
var ErrReject = errors.New("input rejected")

// StackEntry is an entry of the parse stack at the time of a rejection.
// Node is the partial CST for Symbol; it is nil for the bottom entry.
type StackEntry struct {
	State  uint
	Symbol string
	Node   *cst.Node
}

// ParseError reports a rejected input.
type ParseError struct {
	State    uint         // state of the parser
	Token    slrgen.Token // offending input token
	Symbol   string       // terminal of Token, empty if the token is not a terminal
	Expected []string     // terminals acceptable in State
	Stack    []StackEntry // parse stack, bottom first
}

func (e *ParseError) Error() string {
	unexpected := e.Symbol
	if unexpected == "" {
		unexpected = fmt.Sprintf("%q", e.Token.Lexeme())
	}
	return fmt.Sprintf("syntax error at %v: unexpected %s in state %d, expected one of [%s]",
		e.Position(), unexpected, e.State, strings.Join(e.Expected, " "))
}

// Is makes ParseError match ErrReject.
func (e *ParseError) Is(target error) bool {
	return target == ErrReject
}

// Position returns the line/column position of the offending token, if known,
// otherwise its span.
func (e *ParseError) Position() fmt.Stringer {
	if e.Token == nil {
		return slrgen.Position{}
	}
	if p := e.Token.Pos(); p.IsKnown() {
		return p
	}
	return e.Token.Span()
}

// Symbols returns the symbols on the parse stack, bottom first.
func (e *ParseError) Symbols() []string {
	syms := make([]string, len(e.Stack))
	for i, entry := range e.Stack {
		syms[i] = entry.Symbol
	}
	return syms
}
