package slr

import (
	"fmt"

	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/cst"
	"github.com/npillmayer/slrgen/lr/scanner"
)

// Parser is an SLR(1)-parser type. Create and initialize one with slr.NewParser(...)
type Parser struct {
	lrgen         *lr.TableGenerator
	g             *lr.Grammar
	tokens        map[slrgen.TokType]string // projection of token types onto terminals
	keepAugmented bool
}

// Option configures a parser.
type Option func(p *Parser)

// TokenMap sets projections of token types onto terminals, overriding the
// projections of the grammar.
func TokenMap(m map[slrgen.TokType]string) Option {
	return func(p *Parser) {
		for k, sym := range m {
			p.tokens[k] = sym
		}
	}
}

// KeepAugmented makes the parser return the node for the augmented start rule
// as root of the CST. The default is to return the node of the start symbol.
func KeepAugmented(b bool) Option {
	return func(p *Parser) {
		p.keepAugmented = b
	}
}

// NewParser creates an SLR(1) parser from a table generator. If the tables have
// not been created yet, NewParser will create them. A grammar which is not SLR(1)
// is refused with a *lr.ConflictError, a grammar mutated after analysis with an
// *lr.InvariantError.
func NewParser(lrgen *lr.TableGenerator, opts ...Option) (*Parser, error) {
	if err := lrgen.Valid(); err != nil {
		return nil, err
	}
	if !lrgen.HasTables() {
		if err := lrgen.CreateTables(); err != nil {
			return nil, err
		}
	}
	if lrgen.HasConflicts {
		return nil, &lr.ConflictError{Grammar: lrgen.Grammar().Name, Conflicts: lrgen.Conflicts()}
	}
	p := &Parser{
		lrgen:  lrgen,
		g:      lrgen.Grammar(),
		tokens: lrgen.Grammar().TokenMap(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Grammar returns the grammar the parser recognizes.
func (p *Parser) Grammar() *lr.Grammar {
	return p.g
}

// ParseTokens parses a slice of tokens.
func (p *Parser) ParseTokens(tokens []slrgen.Token) (*cst.Node, error) {
	return p.Parse(scanner.FromTokens(tokens))
}

// Parse reads tokens from scan until the input is accepted or rejected.
// For accepted input it returns the CST. A rejected input results in a
// *ParseError.
func (p *Parser) Parse(scan scanner.Tokenizer) (*cst.Node, error) {
	if err := p.lrgen.Valid(); err != nil {
		return nil, err
	}
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	r := newRun(p, p.lrgen.CFSM().S0.ID)
	token := scan.NextToken()
	sym, ok := p.terminal(token)
	for {
		state := r.top()
		if !ok {
			return nil, r.reject(state, token, "")
		}
		action := p.lrgen.Action(state, sym)
		tracer().Debugf("action(%d,%s) = %v for %v", state, sym, action, token)
		switch action.Kind {
		case lr.ShiftAction:
			r.push(action.State, sym, cst.NewTerminal(sym, token))
			token = scan.NextToken()
			sym, ok = p.terminal(token)
		case lr.ReduceAction:
			if err := r.reduce(action.Rule, token); err != nil {
				return nil, err
			}
		case lr.AcceptAction:
			return r.accept(), nil
		default:
			return nil, r.reject(state, token, sym)
		}
	}
}

// terminal projects an input token onto a terminal of the grammar.
// Literal terminals are matched by lexeme, before token types are considered.
// An explicit end marker in the input counts as end of input.
func (p *Parser) terminal(token slrgen.Token) (string, bool) {
	if token.TokType() == scanner.EOF {
		return lr.EndMarker, true
	}
	lexeme := token.Lexeme()
	if p.g.IsLiteral(lexeme) || lexeme == lr.EndMarker {
		return lexeme, true
	}
	if sym, ok := p.tokens[token.TokType()]; ok {
		return sym, true
	}
	if p.g.IsTerminal(lexeme) {
		return lexeme, true
	}
	tracer().Infof("token %v cannot be projected onto a terminal", token)
	return "", false
}

// --- Parse runs ------------------------------------------------------------

// run holds the stacks of a single parse. States, symbols and CST nodes
// are kept on parallel stacks; the bottom entry carries the end marker.
type run struct {
	p      *Parser
	states []uint
	syms   []string
	nodes  []*cst.Node
}

func newRun(p *Parser, s0 uint) *run {
	r := &run{
		p:      p,
		states: make([]uint, 1, 64),
		syms:   make([]string, 1, 64),
		nodes:  make([]*cst.Node, 1, 64),
	}
	r.states[0], r.syms[0] = s0, lr.EndMarker
	return r
}

func (r *run) top() uint {
	return r.states[len(r.states)-1]
}

func (r *run) push(state uint, sym string, node *cst.Node) {
	r.states = append(r.states, state)
	r.syms = append(r.syms, sym)
	r.nodes = append(r.nodes, node)
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as
//
//    [TOS]  Sn(Xn) ... S1(X1)  ...
//
// and are popped and replaced by a node for LHS.
func (r *run) reduce(serial int, lookahead slrgen.Token) error {
	rule := r.p.g.Rule(serial)
	if rule == nil || rule.IsRetired() {
		return &lr.InvariantError{Msg: fmt.Sprintf("reduce by unknown rule #%d", serial)}
	}
	n := rule.Len()
	if n >= len(r.states) {
		return &lr.InvariantError{Msg: fmt.Sprintf("stack underflow reducing %v", rule)}
	}
	tracer().Debugf("reduce %v", rule)
	children := make([]*cst.Node, n)
	copy(children, r.nodes[len(r.nodes)-n:])
	base := len(r.states) - n
	r.states, r.syms, r.nodes = r.states[:base], r.syms[:base], r.nodes[:base]
	node := cst.NewNonTerminal(rule, children)
	if n == 0 { // epsilon is just before the lookahead
		pos := lookahead.Span().From()
		node.Span = slrgen.Span{pos, pos}
	}
	next, ok := r.p.lrgen.Goto(r.top(), rule.LHS)
	if !ok {
		return &lr.InvariantError{Msg: fmt.Sprintf("no goto for %s from state %d", rule.LHS, r.top())}
	}
	tracer().Debugf("reduced to next state = %d", next)
	r.push(next, rule.LHS, node)
	return nil
}

// accept assembles the CST root from the stack, which holds the start symbol
// on top of the end marker.
func (r *run) accept() *cst.Node {
	root := r.nodes[len(r.nodes)-1]
	tracer().Infof("input accepted")
	if r.p.keepAugmented {
		return cst.NewNonTerminal(r.p.g.StartRule(), []*cst.Node{root})
	}
	return root
}

func (r *run) reject(state uint, token slrgen.Token, sym string) *ParseError {
	err := &ParseError{
		State:    state,
		Token:    token,
		Symbol:   sym,
		Expected: r.p.lrgen.Expected(state),
		Stack:    make([]StackEntry, len(r.states)),
	}
	for i := range r.states {
		err.Stack[i] = StackEntry{State: r.states[i], Symbol: r.syms[i], Node: r.nodes[i]}
	}
	tracer().Errorf("%v", err)
	return err
}
