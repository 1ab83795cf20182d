package lr

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/emirpasic/gods/utils"
)

// Item is an LR(0) item, i.e. a rule together with a dot position 0…|RHS|.
// Items reference rules by serial number.
type Item struct {
	Serial int // serial of the rule
	Dot    int
}

// StartItem returns the item S' ➞ ∙S.
func StartItem() Item {
	return Item{Serial: 0, Dot: 0}
}

func (it Item) advance() Item {
	return Item{Serial: it.Serial, Dot: it.Dot + 1}
}

func itemComparator(a, b interface{}) int {
	i1, i2 := a.(Item), b.(Item)
	if c := utils.IntComparator(i1.Serial, i2.Serial); c != 0 {
		return c
	}
	return utils.IntComparator(i1.Dot, i2.Dot)
}

// PeekSymbol returns the symbol after the dot of an item, if any.
func (g *Grammar) PeekSymbol(it Item) (string, bool) {
	r := g.Rule(it.Serial)
	if r == nil || it.Dot >= len(r.rhs) {
		return "", false
	}
	return r.rhs[it.Dot], true
}

// IsComplete is true if the dot of an item is behind the RHS of its rule.
func (g *Grammar) IsComplete(it Item) bool {
	r := g.Rule(it.Serial)
	return r != nil && it.Dot == len(r.rhs)
}

// ItemString formats an item as "[A] ::= [α ∙ β]".
func (g *Grammar) ItemString(it Item) string {
	r := g.Rule(it.Serial)
	if r == nil {
		return fmt.Sprintf("<no rule #%d>", it.Serial)
	}
	var b strings.Builder
	b.WriteString("[" + r.LHS + "] ::= [")
	for i, sym := range r.rhs {
		if i == it.Dot {
			b.WriteString("∙ ")
		}
		b.WriteString(sym)
		if i < len(r.rhs)-1 {
			b.WriteString(" ")
		}
	}
	if it.Dot == len(r.rhs) {
		if len(r.rhs) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("∙")
	}
	b.WriteString("]")
	return b.String()
}

// === Item sets =============================================================

// ItemSet is a set of items, sorted by rule serial and dot position.
type ItemSet struct {
	set *treeset.Set
}

// NewItemSet creates a set containing items.
func NewItemSet(items ...Item) *ItemSet {
	S := &ItemSet{set: treeset.NewWith(itemComparator)}
	for _, it := range items {
		S.set.Add(it)
	}
	return S
}

// Add adds an item and reports if it has not been present before.
func (S *ItemSet) Add(it Item) bool {
	if S.set.Contains(it) {
		return false
	}
	S.set.Add(it)
	return true
}

// Contains checks for membership of an item.
func (S *ItemSet) Contains(it Item) bool {
	return S.set.Contains(it)
}

// Size returns the number of items.
func (S *ItemSet) Size() int {
	return S.set.Size()
}

// IsEmpty is true for an empty item set.
func (S *ItemSet) IsEmpty() bool {
	return S.set.Empty()
}

// Items returns the items in sorted order.
func (S *ItemSet) Items() []Item {
	items := make([]Item, 0, S.set.Size())
	S.set.Each(func(_ int, v interface{}) {
		items = append(items, v.(Item))
	})
	return items
}

// Copy returns an independent copy of S.
func (S *ItemSet) Copy() *ItemSet {
	return NewItemSet(S.Items()...)
}

// Equals is true if S and other contain the same items.
func (S *ItemSet) Equals(other *ItemSet) bool {
	if S.Size() != other.Size() {
		return false
	}
	it1, it2 := S.set.Iterator(), other.set.Iterator()
	for it1.Next() && it2.Next() {
		if it1.Value().(Item) != it2.Value().(Item) {
			return false
		}
	}
	return true
}

// key is a canonical hash of the sorted item list.
func (S *ItemSet) key() string {
	h, err := structhash.Hash(struct{ Items []Item }{Items: S.Items()}, 1)
	if err != nil {
		tracer().Errorf("cannot hash item set: %v", err)
		return fmt.Sprint(S.Items())
	}
	return h
}

func (ga *LRAnalysis) itemSetString(S *ItemSet) string {
	items := S.Items()
	s := make([]string, len(items))
	for i, it := range items {
		s[i] = ga.g.ItemString(it)
	}
	return "{ " + strings.Join(s, ", ") + " }"
}

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Closure computes the closure of an item set: for every item A ➞ α∙Bβ with B
// a non-terminal, all items B ➞ ∙γ are added, until no more items are added.
func (ga *LRAnalysis) Closure(I *ItemSet) *ItemSet {
	C := I.Copy()
	work := arraystack.New()
	for _, it := range C.Items() {
		work.Push(it)
	}
	for !work.Empty() {
		x, _ := work.Pop()
		B, ok := ga.g.PeekSymbol(x.(Item))
		if !ok || !ga.g.IsNonTerminal(B) {
			continue
		}
		for _, r := range ga.g.RulesFor(B) {
			if it := (Item{Serial: r.Serial}); C.Add(it) {
				work.Push(it)
			}
		}
	}
	return C
}

// GotoSet computes goto(I, X): the closure of all items of I with X after the
// dot, the dot moved over X. The result is empty if there is no such item.
func (ga *LRAnalysis) GotoSet(I *ItemSet, X string) *ItemSet {
	kernel := NewItemSet()
	for _, it := range I.Items() {
		if sym, ok := ga.g.PeekSymbol(it); ok && sym == X {
			kernel.Add(it.advance())
		}
	}
	if kernel.IsEmpty() {
		return kernel
	}
	C := ga.Closure(kernel)
	tracer().Debugf("goto(%s, %s) = %s", ga.itemSetString(I), X, ga.itemSetString(C))
	return C
}

// symbolsAfterDot lists the symbols following a dot in I, in order of first
// appearance in the sorted item list.
func (ga *LRAnalysis) symbolsAfterDot(I *ItemSet) []string {
	var syms []string
	seen := make(map[string]bool)
	for _, it := range I.Items() {
		if sym, ok := ga.g.PeekSymbol(it); ok && !seen[sym] {
			seen[sym] = true
			syms = append(syms, sym)
		}
	}
	return syms
}
