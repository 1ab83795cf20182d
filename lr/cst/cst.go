/*
Package cst implements concrete syntax trees, as produced by the SLR(1) parser
of package slr.

Every node of a CST is either a terminal node, carrying the input token it has
been created from, or a non-terminal node, carrying the grammar rule which has
been reduced and the nodes for the right hand side symbols of this rule, in
left-to-right order. Nodes are owned by their parent; the root node is owned by
the client.

Clients may walk a tree using a Cursor and a Listener. This makes simple
attribute evaluation straightforward, e.g. computing the value of an arithmetic
expression from its parse tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package cst

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
)

// tracer traces with key 'slrgen.cst'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.cst")
}

// Kind tags CST nodes.
type Kind uint8

// Kinds of CST nodes.
const (
	TerminalNode Kind = iota
	NonTermNode
)

func (k Kind) String() string {
	if k == TerminalNode {
		return "TERMINAL"
	}
	return "NON_TERM"
}

// Node is a node of a concrete syntax tree.
type Node struct {
	Kind     Kind
	Symbol   string       // grammar symbol
	Rule     *lr.Rule     // rule reduced, nil for terminals
	Token    slrgen.Token // input token, nil for non-terminals
	Children []*Node      // right hand side, left to right
	Span     slrgen.Span  // input positions covered by the node
}

// NewTerminal creates a leaf node for a terminal, matched by an input token.
func NewTerminal(sym string, tok slrgen.Token) *Node {
	n := &Node{Kind: TerminalNode, Symbol: sym, Token: tok}
	if tok != nil {
		n.Span = tok.Span()
	}
	return n
}

// NewNonTerminal creates an inner node for the reduction of a rule. The span of
// the node is the union of the children's spans.
func NewNonTerminal(rule *lr.Rule, children []*Node) *Node {
	n := &Node{Kind: NonTermNode, Symbol: rule.LHS, Rule: rule, Children: children}
	for _, ch := range children {
		n.Span = n.Span.Extend(ch.Span)
	}
	return n
}

// IsTerminal is true for leaf nodes.
func (n *Node) IsTerminal() bool {
	return n.Kind == TerminalNode
}

// Lexeme returns the lexeme of a terminal node, or "" for non-terminals.
func (n *Node) Lexeme() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Lexeme()
}

// Pos returns the line/column position of a terminal node's token.
func (n *Node) Pos() slrgen.Position {
	if n.Token == nil {
		return slrgen.Position{}
	}
	return n.Token.Pos()
}

// Walk visits the nodes of a tree in pre-order.
func (n *Node) Walk(f func(node *Node, level int)) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int), level int) {
	f(n, level)
	for _, ch := range n.Children {
		ch.walk(f, level+1)
	}
}

// String returns a tree in S-expression notation, e.g. "(E (T (F id)))".
// Terminals are printed as their symbol.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsTerminal() {
		return n.Symbol
	}
	var b strings.Builder
	b.WriteString("(" + n.Symbol)
	for _, ch := range n.Children {
		b.WriteString(" ")
		b.WriteString(ch.String())
	}
	b.WriteString(")")
	return b.String()
}

// label is used for printing a node.
func (n *Node) label() string {
	if n.IsTerminal() && n.Lexeme() != "" && n.Lexeme() != n.Symbol {
		return fmt.Sprintf("%s %q", n.Symbol, n.Lexeme())
	}
	if !n.IsTerminal() && len(n.Children) == 0 {
		return n.Symbol + " " + lr.Epsilon
	}
	return n.Symbol
}
