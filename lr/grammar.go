package lr

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/slrgen"
)

// === Rules =================================================================

// Rule is a grammar production A ➞ α. Rules are identified by their serial
// number, which is their position in the grammar's rule arena. Serials are stable
// across grammar transformations: superseded rules are retired, never removed.
type Rule struct {
	Serial  int    // position in the rule arena of a grammar
	LHS     string // left hand side non-terminal
	rhs     []string
	retired bool
}

// RHS returns a copy of the right hand side of r. The RHS of an epsilon-production
// is empty.
func (r *Rule) RHS() []string {
	return append([]string(nil), r.rhs...)
}

// Len returns the length of the RHS.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps is true for epsilon-productions.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

// IsRetired is true if r has been superseded by a grammar transformation.
func (r *Rule) IsRetired() bool {
	return r.retired
}

func (r *Rule) String() string {
	return fmt.Sprintf("[%s] ::= [%s]", r.LHS, strings.Join(r.rhs, " "))
}

func (r *Rule) matches(lhs string, rhs []string) bool {
	if r.LHS != lhs || len(r.rhs) != len(rhs) {
		return false
	}
	for i, sym := range rhs {
		if r.rhs[i] != sym {
			return false
		}
	}
	return true
}

// === Grammar ===============================================================

// Grammar is a context-free grammar. Create grammars either with a GrammarBuilder
// or with NewGrammar.
type Grammar struct {
	Name         string
	start        string     // start symbol as given by the client
	augmented    string     // start symbol of the augmented grammar, LHS of rule 0
	terminals    *SymbolSet // always contains EndMarker
	nonterminals *SymbolSet
	literals     *SymbolSet // terminals which represent their own lexeme
	rules        []*Rule    // rule arena, rule 0 is the augmented start rule
	tokens       map[slrgen.TokType]string
	version      int
}

func newGrammar(name string) *Grammar {
	return &Grammar{
		Name:         name,
		terminals:    NewSymbolSet(EndMarker),
		nonterminals: NewSymbolSet(),
		literals:     NewSymbolSet(),
		rules:        make([]*Rule, 0, 32),
		tokens:       make(map[slrgen.TokType]string),
	}
}

// NewGrammar creates a grammar from its parts: a start symbol, the terminal and
// the non-terminal symbols, a map of right hand sides per non-terminal and a
// projection of token types onto terminals. EndMarker is added to the terminals
// if absent. Rules are numbered starting with the rules of the start symbol,
// followed by the rules of the other non-terminals in the order given.
//
// The grammar will be augmented by a rule 0 of the form S' ➞ S.
func NewGrammar(name, start string, terminals, nonterminals []string,
	rules map[string][][]string, tokens map[slrgen.TokType]string) (*Grammar, error) {
	//
	g := newGrammar(name)
	for _, t := range terminals {
		if t == Epsilon {
			return nil, fmt.Errorf("grammar %s: %s cannot be a terminal", name, Epsilon)
		}
		g.terminals.add(t)
	}
	for _, n := range nonterminals {
		if g.terminals.Contains(n) {
			return nil, fmt.Errorf("grammar %s: symbol %q is terminal and non-terminal", name, n)
		}
		g.nonterminals.add(n)
	}
	if !g.nonterminals.Contains(start) {
		return nil, fmt.Errorf("grammar %s: start symbol %q is not a non-terminal", name, start)
	}
	for lhs := range rules {
		if !g.nonterminals.Contains(lhs) {
			return nil, fmt.Errorf("grammar %s: rules given for unknown non-terminal %q", name, lhs)
		}
	}
	g.augment(start)
	order := []string{start}
	for _, n := range nonterminals {
		if n != start {
			order = append(order, n)
		}
	}
	for _, lhs := range order {
		for _, rhs := range rules[lhs] {
			rhs = withoutEpsilon(rhs)
			for _, sym := range rhs {
				if !g.hasSymbol(sym) {
					return nil, fmt.Errorf("grammar %s: symbol %q in rule for %s is undeclared", name, sym, lhs)
				}
			}
			g.addRule(lhs, rhs)
		}
	}
	for kind, sym := range tokens {
		if !g.terminals.Contains(sym) {
			return nil, fmt.Errorf("grammar %s: token type %d projected onto non-terminal %q", name, kind, sym)
		}
		g.tokens[kind] = sym
	}
	if len(g.RulesFor(start)) == 0 {
		return nil, fmt.Errorf("grammar %s: start symbol %q has no rules", name, start)
	}
	return g, nil
}

func withoutEpsilon(rhs []string) []string {
	r := make([]string, 0, len(rhs))
	for _, sym := range rhs {
		if sym != Epsilon && sym != "" {
			r = append(r, sym)
		}
	}
	return r
}

// augment sets the start symbol and creates rule 0.
func (g *Grammar) augment(start string) {
	g.start = start
	g.augmented = g.freshName(start, "'")
	g.nonterminals.add(g.augmented)
	r0 := &Rule{Serial: 0, LHS: g.augmented, rhs: []string{start}}
	if len(g.rules) == 0 {
		g.rules = append(g.rules, r0)
	} else {
		g.rules[0] = r0
	}
}

// freshName appends suffix to base until the name is not in use.
func (g *Grammar) freshName(base, suffix string) string {
	name := base + suffix
	for g.hasSymbol(name) {
		name += suffix
	}
	return name
}

func (g *Grammar) hasSymbol(sym string) bool {
	return g.terminals.Contains(sym) || g.nonterminals.Contains(sym)
}

// addRule appends a rule to the arena. Rules are a set per non-terminal: if an
// identical live rule exists, it is returned instead, together with false.
func (g *Grammar) addRule(lhs string, rhs []string) (*Rule, bool) {
	for _, r := range g.rules {
		if !r.retired && r.matches(lhs, rhs) {
			tracer().Debugf("rule %v already present", r)
			return r, false
		}
	}
	r := &Rule{
		Serial: len(g.rules),
		LHS:    lhs,
		rhs:    append([]string(nil), rhs...),
	}
	g.rules = append(g.rules, r)
	return r, true
}

func (g *Grammar) retire(r *Rule) {
	r.retired = true
}

// touch marks the grammar as mutated.
func (g *Grammar) touch() {
	g.version++
}

// Version is incremented with every mutation of the grammar.
func (g *Grammar) Version() int {
	return g.version
}

// Start returns the start symbol of the grammar.
func (g *Grammar) Start() string {
	return g.start
}

// AugmentedStart returns the LHS of rule 0.
func (g *Grammar) AugmentedStart() string {
	return g.augmented
}

// StartRule returns rule 0, S' ➞ S.
func (g *Grammar) StartRule() *Rule {
	return g.rules[0]
}

// Rule returns the rule with serial n, or nil. Retired rules are returned as well.
func (g *Grammar) Rule(n int) *Rule {
	if n < 0 || n >= len(g.rules) {
		return nil
	}
	return g.rules[n]
}

// liveRule returns a rule which must exist and must not be retired.
func (g *Grammar) liveRule(n int) (*Rule, error) {
	r := g.Rule(n)
	if r == nil {
		return nil, violation("rule #%d does not exist in grammar %s", n, g.Name)
	}
	if r.retired {
		return nil, violation("rule #%d %v has been retired from grammar %s", n, r, g.Name)
	}
	return r, nil
}

// Size returns the size of the rule arena, including retired rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rules returns all live rules in arena order.
func (g *Grammar) Rules() []*Rule {
	rules := make([]*Rule, 0, len(g.rules))
	for _, r := range g.rules {
		if !r.retired {
			rules = append(rules, r)
		}
	}
	return rules
}

// RulesFor returns the live rules for non-terminal A.
func (g *Grammar) RulesFor(A string) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if !r.retired && r.LHS == A {
			rules = append(rules, r)
		}
	}
	return rules
}

// IsTerminal is true for terminals, including EndMarker.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.terminals.Contains(sym)
}

// IsNonTerminal is true for non-terminals, including the augmented start symbol.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.nonterminals.Contains(sym)
}

// IsLiteral is true for terminals which stand for their own lexeme.
func (g *Grammar) IsLiteral(sym string) bool {
	return g.literals.Contains(sym)
}

// Terminals returns all terminals in sorted order.
func (g *Grammar) Terminals() []string {
	return g.terminals.Symbols()
}

// NonTerminals returns all non-terminals in order of their first definition.
func (g *Grammar) NonTerminals() []string {
	seen := make(map[string]bool)
	order := make([]string, 0, g.nonterminals.Size())
	for _, r := range g.rules {
		if !seen[r.LHS] {
			seen[r.LHS] = true
			order = append(order, r.LHS)
		}
	}
	for _, n := range g.nonterminals.Symbols() {
		if !seen[n] {
			order = append(order, n)
		}
	}
	return order
}

// Symbols returns all terminals followed by all non-terminals.
func (g *Grammar) Symbols() []string {
	return append(g.Terminals(), g.NonTerminals()...)
}

// TokenSymbol returns the terminal a token type is projected onto.
func (g *Grammar) TokenSymbol(kind slrgen.TokType) (string, bool) {
	sym, ok := g.tokens[kind]
	return sym, ok
}

// SetTokenSymbol projects a token type onto a terminal.
func (g *Grammar) SetTokenSymbol(kind slrgen.TokType, sym string) error {
	if !g.terminals.Contains(sym) {
		return fmt.Errorf("cannot project token type %d onto %q: not a terminal", kind, sym)
	}
	g.tokens[kind] = sym
	return nil
}

// TokenMap returns a copy of the token type projection.
func (g *Grammar) TokenMap() map[slrgen.TokType]string {
	m := make(map[slrgen.TokType]string, len(g.tokens))
	for k, v := range g.tokens {
		m[k] = v
	}
	return m
}

// Clone creates a deep copy of g, e.g. for transforming a grammar while
// keeping the original.
func (g *Grammar) Clone() *Grammar {
	c := newGrammar(g.Name)
	c.start, c.augmented, c.version = g.start, g.augmented, g.version
	c.terminals = g.terminals.Copy()
	c.nonterminals = g.nonterminals.Copy()
	c.literals = g.literals.Copy()
	for _, r := range g.rules {
		c.rules = append(c.rules, &Rule{
			Serial:  r.Serial,
			LHS:     r.LHS,
			rhs:     append([]string(nil), r.rhs...),
			retired: r.retired,
		})
	}
	for k, v := range g.tokens {
		c.tokens[k] = v
	}
	return c
}

// Compact drops retired rules from the arena and renumbers the remaining ones.
// Any analysis or table derived from g before will be stale afterwards.
func (g *Grammar) Compact() {
	live := g.Rules()
	for i, r := range live {
		r.Serial = i
	}
	g.rules = live
	g.touch()
}

// Dump traces the live rules of g (debugging helper).
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s -------------------------", g.Name)
	for _, r := range g.Rules() {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------")
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.Rules() {
		b.WriteString(fmt.Sprintf("%d: %s\n", r.Serial, r))
	}
	return b.String()
}

// === Grammar Builder =======================================================

// GrammarBuilder is a helper for constructing grammars rule by rule.
// The LHS of the first rule is the start symbol.
//
//    b := lr.NewGrammarBuilder("G")
//    b.LHS("E").N("E").T("+", '+').N("T").End()
//    b.LHS("E").N("T").End()
//    …
//    g, err := b.Grammar()
//
type GrammarBuilder struct {
	g      *Grammar
	errors []string
}

// NewGrammarBuilder creates a builder for a grammar called name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	b := &GrammarBuilder{g: newGrammar(name)}
	b.g.rules = append(b.g.rules, &Rule{Serial: 0}) // placeholder for S' ➞ S
	return b
}

func (b *GrammarBuilder) errorf(format string, args ...interface{}) {
	b.errors = append(b.errors, fmt.Sprintf(format, args...))
}

func (b *GrammarBuilder) nonterminal(sym string) {
	if b.g.terminals.Contains(sym) {
		b.errorf("symbol %q used as terminal and as non-terminal", sym)
		return
	}
	b.g.nonterminals.add(sym)
}

func (b *GrammarBuilder) terminal(sym string) {
	if b.g.nonterminals.Contains(sym) {
		b.errorf("symbol %q used as terminal and as non-terminal", sym)
		return
	}
	b.g.terminals.add(sym)
}

func (b *GrammarBuilder) token(kind slrgen.TokType, sym string) {
	if other, ok := b.g.tokens[kind]; ok && other != sym {
		b.errorf("token type %d projected onto %q and %q", kind, other, sym)
		return
	}
	b.g.tokens[kind] = sym
}

// LHS starts a new rule for non-terminal s.
func (b *GrammarBuilder) LHS(s string) *RuleBuilder {
	if s == "" || s == Epsilon || s == EndMarker {
		b.errorf("illegal left hand side %q", s)
	}
	b.nonterminal(s)
	return &RuleBuilder{b: b, lhs: s}
}

// Grammar returns the constructed grammar, augmented by a start rule.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	g := b.g
	if len(g.rules) < 2 {
		b.errorf("grammar has no rules")
	}
	defined := make(map[string]bool)
	for _, r := range g.rules[1:] {
		defined[r.LHS] = true
	}
	for _, r := range g.rules[1:] {
		for _, sym := range r.rhs {
			if g.nonterminals.Contains(sym) && !defined[sym] {
				b.errorf("non-terminal %q is used but has no rules", sym)
			}
		}
	}
	if len(b.errors) > 0 {
		sort.Strings(b.errors)
		return nil, fmt.Errorf("grammar %s: %s", g.Name, strings.Join(unique(b.errors), "; "))
	}
	g.augment(g.rules[1].LHS)
	g.Dump()
	return g, nil
}

func unique(in []string) []string {
	j := 0
	for i := 1; i < len(in); i++ {
		if in[j] == in[i] {
			continue
		}
		j++
		in[j] = in[i]
	}
	return in[:j+1]
}

// RuleBuilder collects the RHS of a single rule.
type RuleBuilder struct {
	b   *GrammarBuilder
	lhs string
	rhs []string
}

// N appends a non-terminal to the RHS.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	rb.b.nonterminal(s)
	rb.rhs = append(rb.rhs, s)
	return rb
}

// T appends a terminal to the RHS. Tokens of type tokType will be projected
// onto terminal s.
func (rb *RuleBuilder) T(s string, tokType slrgen.TokType) *RuleBuilder {
	rb.b.terminal(s)
	rb.b.token(tokType, s)
	rb.rhs = append(rb.rhs, s)
	return rb
}

// L appends a literal terminal to the RHS, i.e. a terminal which matches input
// tokens by lexeme. Single-rune literals are projected from the token type of the
// same rune value as well.
func (rb *RuleBuilder) L(s string) *RuleBuilder {
	rb.b.terminal(s)
	rb.b.g.literals.add(s)
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if _, ok := rb.b.g.tokens[slrgen.TokType(r)]; !ok {
			rb.b.g.tokens[slrgen.TokType(r)] = s
		}
	}
	rb.rhs = append(rb.rhs, s)
	return rb
}

// End closes the rule and adds it to the grammar.
func (rb *RuleBuilder) End() *Rule {
	if rb.b.g.terminals.Contains(Epsilon) {
		rb.b.errorf("%s used as a terminal", Epsilon)
	}
	r, isNew := rb.b.g.addRule(rb.lhs, rb.rhs)
	if !isNew {
		tracer().Infof("duplicate rule %v ignored", r)
	}
	return r
}

// Epsilon closes the rule as an epsilon-production. Symbols collected so far
// are discarded.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rhs = nil
	return rb.End()
}
