package lr

import (
	"sort"
)

// LRAnalysis is an object for static analysis of a grammar: it computes
// FIRST-, FOLLOW- and SELECT-sets. An analysis is bound to the version of the
// grammar it has been created for.
type LRAnalysis struct {
	g       *Grammar
	version int
	first   map[string]*SymbolSet // FIRST per non-terminal
	follow  map[string]*SymbolSet // FOLLOW per non-terminal
	sel     map[int]*SymbolSet    // SELECT per rule serial
	rounds  int                   // iterations until the fixed point has been reached
}

// Analysis analyses a grammar. The grammar must not be mutated afterwards, or
// the analysis will become stale.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:       g,
		version: g.Version(),
		first:   make(map[string]*SymbolSet),
		follow:  make(map[string]*SymbolSet),
		sel:     make(map[int]*SymbolSet),
	}
	for _, A := range g.NonTerminals() {
		ga.first[A] = NewSymbolSet()
		ga.follow[A] = NewSymbolSet()
	}
	ga.follow[g.AugmentedStart()].add(EndMarker)
	ga.follow[g.Start()].add(EndMarker)
	for ga.firstPass() {
		ga.rounds++
	}
	for ga.followPass() {
		ga.rounds++
	}
	for _, r := range g.Rules() {
		ga.sel[r.Serial] = ga.selectSet(r)
	}
	tracer().Infof("analysis of %s reached fixed point after %d rounds", g.Name, ga.rounds)
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// Valid checks that the grammar has not been mutated since the analysis.
func (ga *LRAnalysis) Valid() error {
	if ga.g.Version() != ga.version {
		return violation("analysis of %s is stale: grammar version %d, analysed version %d",
			ga.g.Name, ga.g.Version(), ga.version)
	}
	return nil
}

// firstPass adds FIRST(α) to FIRST(A) for every rule A ➞ α and reports a change.
func (ga *LRAnalysis) firstPass() bool {
	changed := false
	for _, r := range ga.g.Rules() {
		if ga.first[r.LHS].union(ga.FirstOf(r.rhs), false) {
			changed = true
		}
	}
	return changed
}

// followPass propagates FOLLOW information along every rule and reports a change.
func (ga *LRAnalysis) followPass() bool {
	changed := false
	for _, r := range ga.g.Rules() {
		for i, B := range r.rhs {
			if !ga.g.IsNonTerminal(B) {
				continue
			}
			rest := ga.FirstOf(r.rhs[i+1:])
			if ga.follow[B].union(rest, true) {
				changed = true
			}
			if rest.Contains(Epsilon) && r.LHS != B {
				if ga.follow[B].union(ga.follow[r.LHS], false) {
					changed = true
				}
			}
		}
	}
	return changed
}

func (ga *LRAnalysis) selectSet(r *Rule) *SymbolSet {
	first := ga.FirstOf(r.rhs)
	sel := NewSymbolSet()
	sel.union(first, true)
	if first.Contains(Epsilon) {
		sel.union(ga.follow[r.LHS], false)
	}
	return sel
}

// First returns FIRST(sym). For a terminal this is {sym}. The flag is false for
// unknown symbols and for a stale analysis.
func (ga *LRAnalysis) First(sym string) (*SymbolSet, bool) {
	if ga.g.Version() != ga.version {
		return nil, false
	}
	switch {
	case sym == Epsilon:
		return NewSymbolSet(Epsilon), true
	case ga.g.IsTerminal(sym):
		return NewSymbolSet(sym), true
	}
	f, ok := ga.first[sym]
	return f, ok
}

func (ga *LRAnalysis) firstOfSymbol(sym string) *SymbolSet {
	if ga.g.IsTerminal(sym) {
		return NewSymbolSet(sym)
	}
	return ga.first[sym] // nil for unknown symbols
}

// FirstOf returns FIRST(α) for a sequence of symbols. FIRST of the empty
// sequence is {ε}.
func (ga *LRAnalysis) FirstOf(seq []string) *SymbolSet {
	result := NewSymbolSet()
	for _, sym := range seq {
		if sym == Epsilon {
			continue
		}
		f := ga.firstOfSymbol(sym)
		result.union(f, true)
		if !f.Contains(Epsilon) {
			return result
		}
	}
	result.add(Epsilon)
	return result
}

// Follow returns FOLLOW(A) for a non-terminal A.
func (ga *LRAnalysis) Follow(A string) (*SymbolSet, bool) {
	if ga.g.Version() != ga.version {
		return nil, false
	}
	f, ok := ga.follow[A]
	return f, ok
}

// Select returns SELECT(A ➞ α) for a rule, given by its serial.
func (ga *LRAnalysis) Select(serial int) (*SymbolSet, bool) {
	if ga.g.Version() != ga.version {
		return nil, false
	}
	s, ok := ga.sel[serial]
	return s, ok
}

// DerivesEpsilon is true if sym ⇒* ε.
func (ga *LRAnalysis) DerivesEpsilon(sym string) bool {
	return ga.first[sym].Contains(Epsilon)
}

// CheckLL1 checks that for every non-terminal the SELECT-sets of its rules are
// pairwise disjoint and at most one of its rules derives ε. It returns an
// *LL1Error listing the violations, or nil.
func (ga *LRAnalysis) CheckLL1() error {
	if err := ga.Valid(); err != nil {
		return err
	}
	var overlaps []Overlap
	for _, A := range ga.g.NonTerminals() {
		rules := ga.g.RulesFor(A)
		for i, r1 := range rules {
			for _, r2 := range rules[i+1:] {
				common := ga.sel[r1.Serial].Intersection(ga.sel[r2.Serial])
				if ga.FirstOf(r1.rhs).Contains(Epsilon) && ga.FirstOf(r2.rhs).Contains(Epsilon) {
					common.add(Epsilon)
				}
				if !common.IsEmpty() {
					overlaps = append(overlaps, Overlap{
						NonTerminal: A,
						Rules:       [2]int{r1.Serial, r2.Serial},
						Symbols:     common.Symbols(),
					})
				}
			}
		}
	}
	if len(overlaps) == 0 {
		return nil
	}
	sort.SliceStable(overlaps, func(i, j int) bool {
		return overlaps[i].Rules[0] < overlaps[j].Rules[0]
	})
	return &LL1Error{Overlaps: overlaps}
}
