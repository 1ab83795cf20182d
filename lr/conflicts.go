package lr

import (
	"fmt"
	"strings"
)

// ConflictKind distinguishes shift-reduce from reduce-reduce conflicts.
type ConflictKind uint8

// Kinds of parse table conflicts.
const (
	ShiftReduceConflict ConflictKind = iota + 1
	ReduceReduceConflict
)

func (k ConflictKind) String() string {
	if k == ShiftReduceConflict {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict describes a parse table conflict in a CFSM state. For shift-reduce
// conflicts, Rules holds the rule to reduce; for reduce-reduce conflicts it holds
// both rules.
type Conflict struct {
	State     uint
	Kind      ConflictKind
	Terminals []string
	Rules     []int
}

func (c Conflict) String() string {
	rules := make([]string, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = fmt.Sprintf("#%d", r)
	}
	return fmt.Sprintf("%s conflict in state %d on {%s} for rule %s", c.Kind, c.State,
		strings.Join(c.Terminals, ","), strings.Join(rules, " and "))
}

// ConflictError is returned for grammars which are not SLR(1).
type ConflictError struct {
	Grammar   string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("grammar %s is not SLR(1): %d conflict(s)", e.Grammar, len(e.Conflicts)))
	for _, c := range e.Conflicts {
		b.WriteString("; ")
		b.WriteString(c.String())
	}
	return b.String()
}

// Is makes ConflictError match ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CheckSLR1 checks every state of the CFSM for conflicts. A shift-reduce
// conflict exists if FOLLOW(A) of a complete item A ➞ α∙ intersects the set of
// terminals to shift in the same state. A reduce-reduce conflict exists if the
// FOLLOW-sets of two complete items intersect. It returns a *ConflictError
// listing all conflicts, or nil.
func (lrgen *TableGenerator) CheckSLR1() error {
	if err := lrgen.Valid(); err != nil {
		return err
	}
	var conflicts []Conflict
	g := lrgen.g
	for _, state := range lrgen.CFSM().States() {
		shifts := NewSymbolSet()
		var complete []Item
		for _, it := range state.Items() {
			if sym, ok := g.PeekSymbol(it); ok {
				if g.IsTerminal(sym) {
					shifts.add(sym)
				}
			} else {
				complete = append(complete, it)
			}
		}
		lookaheads := make([]*SymbolSet, len(complete))
		for i, it := range complete {
			if it.Serial == 0 {
				lookaheads[i] = NewSymbolSet(EndMarker)
			} else {
				lookaheads[i] = lrgen.ga.follow[g.Rule(it.Serial).LHS]
			}
			if common := lookaheads[i].Intersection(shifts); !common.IsEmpty() {
				conflicts = append(conflicts, Conflict{
					State:     state.ID,
					Kind:      ShiftReduceConflict,
					Terminals: common.Symbols(),
					Rules:     []int{it.Serial},
				})
			}
		}
		for i := range complete {
			for j := i + 1; j < len(complete); j++ {
				if common := lookaheads[i].Intersection(lookaheads[j]); !common.IsEmpty() {
					conflicts = append(conflicts, Conflict{
						State:     state.ID,
						Kind:      ReduceReduceConflict,
						Terminals: common.Symbols(),
						Rules:     []int{complete[i].Serial, complete[j].Serial},
					})
				}
			}
		}
	}
	lrgen.conflicts = conflicts
	if len(conflicts) == 0 {
		tracer().Infof("grammar %s is SLR(1)", g.Name)
		return nil
	}
	for _, c := range conflicts {
		tracer().Errorf(c.String())
	}
	return &ConflictError{Grammar: g.Name, Conflicts: conflicts}
}
