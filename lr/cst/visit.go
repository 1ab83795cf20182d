package cst

import (
	"github.com/npillmayer/slrgen"
)

// RuleNode represents a node occuring during a parse tree walk.
type RuleNode struct {
	node  *Node
	Value interface{} // user-defined value of a node
}

// Symbol returns the grammar symbol a RuleNode refers to.
// It is either a terminal or the LHS of a reduced rule.
func (rnode *RuleNode) Symbol() string {
	return rnode.node.Symbol
}

// Node returns the CST node.
func (rnode *RuleNode) Node() *Node {
	return rnode.node
}

// Span returns the span of input symbols this rule covers.
func (rnode *RuleNode) Span() slrgen.Span {
	return rnode.node.Span
}

// A Cursor is a movable mark within a CST, intended for navigating over
// nodes.
type Cursor struct {
	current *Node
	stack   []childPosition
}

// childPosition remembers a parent node and the index of the current child.
type childPosition struct {
	parent *Node
	index  int
	dir    Direction
}

// NewCursor sets up a cursor at a given node.
func NewCursor(node *Node) *Cursor {
	return &Cursor{
		current: node,
		stack:   make([]childPosition, 0, 64),
	}
}

// Node returns the node the cursor is positioned at.
func (c *Cursor) Node() *Node {
	return c.current
}

// Up moves the cursor up to the parent node of the current node, if any.
// The cursor cannot move above the node it has been created for.
func (c *Cursor) Up() (*Node, bool) {
	if len(c.stack) == 0 {
		return c.current, false
	}
	c.current = c.stack[len(c.stack)-1].parent
	c.stack = c.stack[:len(c.stack)-1]
	tracer().Debugf("UP Cursor @ %v", c.current.Symbol)
	return c.current, true
}

// Down moves the cursor down to the first child of the curent node, if any.
// dir lets clients start at either the leftmost child (default) or the rightmost
// child.
func (c *Cursor) Down(dir Direction) (*Node, bool) {
	n := len(c.current.Children)
	if n == 0 {
		return c.current, false
	}
	pos := childPosition{parent: c.current, dir: dir}
	if dir == RtoL {
		pos.index = n - 1
	}
	c.stack = append(c.stack, pos)
	c.current = c.current.Children[pos.index]
	tracer().Debugf("DOWN Cursor @ %v", c.current.Symbol)
	return c.current, true
}

// Sibling moves the cursor to the next sibling of the current node, if any,
// in the direction chosen for Down.
func (c *Cursor) Sibling() (*Node, bool) {
	if len(c.stack) == 0 {
		return c.current, false
	}
	pos := &c.stack[len(c.stack)-1]
	next := pos.index + int(pos.dir)
	if next < 0 || next >= len(pos.parent.Children) {
		return c.current, false
	}
	pos.index = next
	c.current = pos.parent.Children[next]
	tracer().Debugf("SIBLING Cursor @ %v", c.current.Symbol)
	return c.current, true
}

// TopDown traverses a sub-tree top-down, applying Listener-methods for all nodes
// encountered. It returns a user-defined value, calculated by the listener.
func (c *Cursor) TopDown(listener Listener, dir Direction, breakmode Breakmode) interface{} {
	tracer().Debugf("TopDown starting at node %v", c.current.Symbol)
	return c.traverseTopDown(listener, dir, breakmode, 0)
}

func (c *Cursor) traverseTopDown(listener Listener, dir Direction, breakmode Breakmode, level int) interface{} {
	node := c.current
	if node.IsTerminal() {
		ctxt := makeCtxt(node, level, -1, nil)
		return listener.Terminal(node.Symbol, node.Token, ctxt)
	}
	tracer().Debugf(">>> %s", node.Symbol)
	rhsNodes := make([]*RuleNode, len(node.Children))
	for i, ch := range node.Children {
		rhsNodes[i] = &RuleNode{node: ch}
	}
	ctxt := makeCtxt(node, level, node.Rule.Serial, listener.MakeAttrs(node.Symbol))
	doContinue := listener.EnterRule(node.Symbol, rhsNodes, ctxt)
	if doContinue || breakmode == Continue { // traverse children nodes
		i := 0
		if dir == RtoL {
			i = len(rhsNodes) - 1
		}
		if _, ok := c.Down(dir); ok {
			for ; ok; _, ok = c.Sibling() {
				chvalue := c.traverseTopDown(listener, dir, breakmode, level+1)
				tracer().Debugf("child value[%d] = %v", i, chvalue)
				rhsNodes[i].Value = chvalue
				i += int(dir)
			}
			c.Up()
		}
	}
	value := listener.ExitRule(node.Symbol, rhsNodes, ctxt)
	tracer().Debugf("<<< %s", node.Symbol)
	return value
}

// Direction lets clients decide wether children nodes should be traversed left-to-right
// (default) or right-to-left.
type Direction int

// Children nodes may be traversed left-to-right (default) or right-to-left.
const (
	LtoR Direction = 1
	RtoL Direction = -1
)

// Breakmode is a client hint wether to stop traversing on break-signals or not.
type Breakmode int

// Setting Continue will always traverse a complete (sub-)tree. Break will skip
// traversing sub-tree as soon as an Enter-function signals a break.
const (
	Continue Breakmode = iota
	Break
)

// --- Listener --------------------------------------------------------------

// Listener is a type for walking a parse tree.
//
// Arguments are:
//
//     - string:      the grammar symbol at the current node
//     - []*RuleNode: the right-hand side of the grammar production at this node
//     - RuleCtxt:    contextual information for the node
//
// EnterRule returns a boolean value indicating if the traversal should continue to
// the children of this node. ExitRule and Terminal may return user-defined values
// to be propagated upwards of the tree.
type Listener interface {
	EnterRule(string, []*RuleNode, RuleCtxt) bool
	ExitRule(string, []*RuleNode, RuleCtxt) interface{}
	Terminal(string, slrgen.Token, RuleCtxt) interface{}
	MakeAttrs(string) interface{}
}

// RuleCtxt is a context structure for Listeners.
type RuleCtxt struct {
	Span      slrgen.Span     // span of input symbols covered by this rule
	Pos       slrgen.Position // line/column of a terminal
	Level     int             // nesting level
	RuleIndex int             // -1 for terminals
	Attrs     interface{}     // client-defined attributes local to node
}

func makeCtxt(node *Node, level int, rule int, attrs interface{}) RuleCtxt {
	return RuleCtxt{
		Span:      node.Span,
		Pos:       node.Pos(),
		Level:     level,
		RuleIndex: rule,
		Attrs:     attrs,
	}
}
