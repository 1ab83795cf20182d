package lr

import "fmt"

// ActionKind tags the kind of a parser action.
type ActionKind uint8

// Kinds of parser actions. NoAction is the zero value and signals a syntax error.
const (
	NoAction ActionKind = iota
	ShiftAction
	ReduceAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case AcceptAction:
		return "accept"
	}
	return "none"
}

// Action is an entry of an ACTION table. Clients switch over Kind:
//
//    switch a.Kind {
//    case lr.ShiftAction:  // push a.State
//    case lr.ReduceAction: // reduce by rule a.Rule
//    case lr.AcceptAction: // done
//    default:              // syntax error
//    }
//
type Action struct {
	Kind  ActionKind
	State uint // target state of a shift
	Rule  int  // rule serial of a reduce
}

// Shift creates a shift action to state s.
func Shift(s uint) Action {
	return Action{Kind: ShiftAction, State: s}
}

// Reduce creates a reduce action for rule serial r.
func Reduce(r int) Action {
	return Action{Kind: ReduceAction, Rule: r}
}

// Accept is the accept action.
var Accept = Action{Kind: AcceptAction}

// IsError is true for the empty action.
func (a Action) IsError() bool {
	return a.Kind == NoAction
}

func (a Action) String() string {
	switch a.Kind {
	case ShiftAction:
		return fmt.Sprintf("s%d", a.State)
	case ReduceAction:
		return fmt.Sprintf("r%d", a.Rule)
	case AcceptAction:
		return "acc"
	}
	return ""
}

// Actions are stored in a sparse matrix of int32 values, using the lower 2 bits
// for the kind.
func (a Action) encode() int32 {
	switch a.Kind {
	case ShiftAction:
		return int32(a.State)<<2 | 1
	case ReduceAction:
		return int32(a.Rule)<<2 | 2
	case AcceptAction:
		return 3
	}
	return 0
}

// DecodeAction decodes an entry of an ACTION table. Values which do not encode
// an action decode to the error action.
func DecodeAction(v int32) Action {
	if v < 0 {
		return Action{}
	}
	switch v & 3 {
	case 1:
		return Shift(uint(v >> 2))
	case 2:
		return Reduce(int(v >> 2))
	case 3:
		return Accept
	}
	return Action{}
}
