package lr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/gconf"
)

// ErrInvariant is matched by errors signalling an internal inconsistency, e.g. an
// analysis operating on a grammar which has been mutated in the meantime.
var ErrInvariant = errors.New("internal invariant violated")

// ErrConflict is matched by errors reporting parse table conflicts.
var ErrConflict = errors.New("grammar is not SLR(1)")

// ErrNotLL1 is matched by errors reporting overlapping SELECT sets.
var ErrNotLL1 = errors.New("grammar is not LL(1)")

// InvariantError signals a bug or a misuse of the API, never a problem of the
// input. With configuration flag "panic-on-invariant-violation" set, invariant
// violations will panic instead.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return ErrInvariant.Error() + ": " + e.Msg
}

// Is makes InvariantError match ErrInvariant.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func violation(format string, args ...interface{}) error {
	err := &InvariantError{Msg: fmt.Sprintf(format, args...)}
	tracer().Errorf(err.Error())
	if gconf.GetBool("panic-on-invariant-violation") {
		panic(err)
	}
	return err
}

// LL1Error lists the rules with overlapping SELECT sets.
type LL1Error struct {
	Overlaps []Overlap
}

// Overlap is a pair of rules for the same non-terminal whose SELECT sets intersect.
type Overlap struct {
	NonTerminal string
	Rules       [2]int
	Symbols     []string
}

func (e *LL1Error) Error() string {
	var b strings.Builder
	b.WriteString(ErrNotLL1.Error())
	for _, o := range e.Overlaps {
		b.WriteString(fmt.Sprintf("; %s: rules %d and %d share {%s}", o.NonTerminal,
			o.Rules[0], o.Rules[1], strings.Join(o.Symbols, ",")))
	}
	return b.String()
}

// Is makes LL1Error match ErrNotLL1.
func (e *LL1Error) Is(target error) bool {
	return target == ErrNotLL1
}
