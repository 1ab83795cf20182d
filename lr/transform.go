package lr

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// --- Left recursion --------------------------------------------------------

// RemoveLeftRecursion rewrites g to have no left-recursive rules. Direct left
// recursion
//
//    A ➞ A α1 | … | A αn | β1 | … | βm
//
// is replaced by
//
//    A  ➞ β1 A' | … | βm A'
//    A' ➞ α1 A' | … | αn A' | ε
//
// Indirect left recursion is resolved by substituting the rules of non-terminals
// preceding A (in order of definition) which are left corners of A, before the
// direct case is handled. Rules A ➞ A are dropped. A non-terminal with left-recursive
// rules only does not derive any terminal string and is reported as an error.
//
// Replaced rules are retired, new rules are appended to the rule arena.
func (g *Grammar) RemoveLeftRecursion() error {
	var order []string
	for _, A := range g.NonTerminals() {
		if A != g.augmented {
			order = append(order, A)
		}
	}
	changed := false
	defer func() {
		if changed {
			g.touch()
		}
	}()
	for i, Ai := range order {
		for _, Aj := range order[:i] {
			if !g.leftCorners(Aj).Contains(Ai) {
				continue
			}
			for _, r := range g.RulesFor(Ai) {
				if r.Len() == 0 || r.rhs[0] != Aj {
					continue
				}
				tracer().Debugf("substituting %s in %v", Aj, r)
				g.retire(r)
				for _, delta := range g.RulesFor(Aj) {
					g.addRule(Ai, append(delta.RHS(), r.rhs[1:]...))
				}
				changed = true
			}
		}
		c, err := g.removeDirectLeftRecursion(Ai)
		changed = changed || c
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) removeDirectLeftRecursion(A string) (bool, error) {
	var recursive, others [][]string
	changed := false
	for _, r := range g.RulesFor(A) {
		if r.Len() > 0 && r.rhs[0] == A {
			if r.Len() == 1 {
				tracer().Infof("dropping trivial rule %v", r)
				g.retire(r)
				changed = true
				continue
			}
			recursive = append(recursive, r.rhs[1:])
		} else {
			others = append(others, r.rhs)
		}
	}
	if len(recursive) == 0 {
		return changed, nil
	}
	if len(others) == 0 {
		return changed, fmt.Errorf("grammar %s: all rules for %s are left recursive", g.Name, A)
	}
	A2 := g.freshName(A, "'")
	g.nonterminals.add(A2)
	for _, r := range g.RulesFor(A) {
		g.retire(r)
	}
	for _, beta := range others {
		g.addRule(A, append(append([]string(nil), beta...), A2))
	}
	for _, alpha := range recursive {
		g.addRule(A2, append(append([]string(nil), alpha...), A2))
	}
	g.addRule(A2, nil)
	tracer().Debugf("removed left recursion for %s, introduced %s", A, A2)
	return true, nil
}

// leftCorners returns the non-terminals B with A ⇒+ B γ, considering the leading
// symbol of each rule only.
func (g *Grammar) leftCorners(A string) *SymbolSet {
	corners := NewSymbolSet()
	stack := arraystack.New()
	stack.Push(A)
	for !stack.Empty() {
		top, _ := stack.Pop()
		for _, r := range g.RulesFor(top.(string)) {
			if r.Len() == 0 || !g.IsNonTerminal(r.rhs[0]) {
				continue
			}
			if corners.add(r.rhs[0]) {
				stack.Push(r.rhs[0])
			}
		}
	}
	return corners
}

// IsLeftRecursive is true if any live rule starts with its own LHS.
func (g *Grammar) IsLeftRecursive() bool {
	for _, r := range g.Rules() {
		if r.Len() > 0 && r.rhs[0] == r.LHS {
			return true
		}
	}
	return false
}

// --- Left factoring --------------------------------------------------------

// prefix tree over the alternatives of a non-terminal
type trieNode struct {
	sym      string
	end      bool // terminator leaf, an alternative ends at the parent
	children []*trieNode
}

func (n *trieNode) child(sym string) *trieNode {
	for _, c := range n.children {
		if !c.end && c.sym == sym {
			return c
		}
	}
	c := &trieNode{sym: sym}
	n.children = append(n.children, c)
	return c
}

func (n *trieNode) insert(rhs []string) {
	node := n
	for _, sym := range rhs {
		node = node.child(sym)
	}
	for _, c := range node.children {
		if c.end {
			return
		}
	}
	node.children = append(node.children, &trieNode{end: true})
}

// paths lists the symbol sequences from n's children to terminator leaves.
func (n *trieNode) paths() [][]string {
	var result [][]string
	for _, c := range n.children {
		if c.end {
			result = append(result, []string{})
			continue
		}
		for _, p := range c.paths() {
			result = append(result, append([]string{c.sym}, p...))
		}
	}
	return result
}

// shared is true for trie nodes denoting a common prefix of ≥ 2 alternatives.
func shared(n *trieNode, depth int) bool {
	return depth > 0 && len(n.children) > 1
}

type trieVisit struct {
	node    *trieNode
	depth   int
	visited bool
}

// LeftFactor extracts common prefixes of alternatives. For every non-terminal A,
// alternatives
//
//    A ➞ α β1 | α β2
//
// are rewritten as
//
//    A   ➞ α A^k
//    A^k ➞ β1 | β2
//
// with k counting up per non-terminal. Nested prefixes are factored innermost first.
// It returns the number of non-terminals introduced.
func (g *Grammar) LeftFactor() int {
	cnt := 0
	for _, A := range g.NonTerminals() {
		if A == g.augmented {
			continue
		}
		rules := g.RulesFor(A)
		if len(rules) < 2 {
			continue
		}
		root := &trieNode{}
		for _, r := range rules {
			root.insert(r.rhs)
		}
		k := 0
		stack := arraystack.New()
		stack.Push(&trieVisit{node: root})
		for !stack.Empty() {
			top, _ := stack.Pop()
			v := top.(*trieVisit)
			if !v.visited {
				v.visited = true
				stack.Push(v)
				for i := len(v.node.children) - 1; i >= 0; i-- {
					stack.Push(&trieVisit{node: v.node.children[i], depth: v.depth + 1})
				}
				continue
			}
			if !shared(v.node, v.depth) {
				continue
			}
			Ak := g.factorName(A, &k)
			g.nonterminals.add(Ak)
			for _, suffix := range v.node.paths() {
				g.addRule(Ak, suffix)
			}
			tracer().Debugf("factored common prefix of %s into %s", A, Ak)
			v.node.children = []*trieNode{{sym: Ak, children: []*trieNode{{end: true}}}}
			cnt++
		}
		if k == 0 {
			continue
		}
		for _, r := range rules {
			g.retire(r)
		}
		for _, alt := range root.paths() {
			g.addRule(A, alt)
		}
	}
	if cnt > 0 {
		g.touch()
	}
	return cnt
}

func (g *Grammar) factorName(A string, k *int) string {
	for {
		*k++
		name := fmt.Sprintf("%s^%d", A, *k)
		if !g.hasSymbol(name) {
			return name
		}
	}
}
