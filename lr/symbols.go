package lr

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// Reserved symbols.
const (
	Epsilon   = "ε" // the empty string
	EndMarker = "#" // end of input, always a terminal
)

// SymbolSet is a sorted set of grammar symbols, used for FIRST-, FOLLOW- and
// SELECT-sets. Sets returned from an analysis are shared with the analysis;
// clients must not modify them.
type SymbolSet struct {
	set *treeset.Set
}

// NewSymbolSet creates a set containing syms.
func NewSymbolSet(syms ...string) *SymbolSet {
	s := &SymbolSet{set: treeset.NewWithStringComparator()}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

func (s *SymbolSet) add(sym string) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

// union adds all symbols of other, optionally skipping ε. It reports if s changed.
func (s *SymbolSet) union(other *SymbolSet, skipEpsilon bool) bool {
	if other == nil {
		return false
	}
	changed := false
	it := other.set.Iterator()
	for it.Next() {
		sym := it.Value().(string)
		if skipEpsilon && sym == Epsilon {
			continue
		}
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

// Contains checks for membership of sym.
func (s *SymbolSet) Contains(sym string) bool {
	if s == nil {
		return false
	}
	return s.set.Contains(sym)
}

// Size returns the number of symbols in s.
func (s *SymbolSet) Size() int {
	if s == nil {
		return 0
	}
	return s.set.Size()
}

// IsEmpty is true for an empty set.
func (s *SymbolSet) IsEmpty() bool {
	return s.Size() == 0
}

// Symbols returns the members of s in sorted order.
func (s *SymbolSet) Symbols() []string {
	if s == nil {
		return nil
	}
	syms := make([]string, 0, s.set.Size())
	s.set.Each(func(_ int, v interface{}) {
		syms = append(syms, v.(string))
	})
	return syms
}

// Copy returns an independent copy of s.
func (s *SymbolSet) Copy() *SymbolSet {
	c := NewSymbolSet()
	c.union(s, false)
	return c
}

// Intersection returns a new set of symbols contained in both s and other.
func (s *SymbolSet) Intersection(other *SymbolSet) *SymbolSet {
	r := NewSymbolSet()
	for _, sym := range s.Symbols() {
		if other.Contains(sym) {
			r.add(sym)
		}
	}
	return r
}

// Equals is true if s and other contain the same symbols.
func (s *SymbolSet) Equals(other *SymbolSet) bool {
	if s.Size() != other.Size() {
		return false
	}
	for _, sym := range s.Symbols() {
		if !other.Contains(sym) {
			return false
		}
	}
	return true
}

func (s *SymbolSet) String() string {
	return "{ " + strings.Join(s.Symbols(), ", ") + " }"
}
