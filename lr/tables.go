package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/npillmayer/slrgen/lr/sparse"
)

// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar, i.e. a closed item set.
type CFSMState struct {
	ID     uint     // serial ID of this state
	items  *ItemSet // configuration items within this state
	Accept bool     // does this state contain S' ➞ S∙ ?
}

// Items returns the items of s in sorted order.
func (s *CFSMState) Items() []Item {
	return s.items.Items()
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	return s.items.Contains(StartItem().advance())
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label string
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g      *Grammar
	ga     *LRAnalysis
	states *arraylist.List          // all the states, ordered by ID
	edges  *arraylist.List          // all the edges between states
	index  map[string][]*CFSMState  // item set hash → states
	gotos  map[uint]map[string]uint // transitions
	S0     *CFSMState               // start state
}

// create an empty (initial) CFSM automaton.
func emptyCFSM(ga *LRAnalysis) *CFSM {
	return &CFSM{
		g:      ga.g,
		ga:     ga,
		states: arraylist.New(),
		edges:  arraylist.New(),
		index:  make(map[string][]*CFSMState),
		gotos:  make(map[uint]map[string]uint),
	}
}

// addState adds a state for an item set, if not already present.
func (c *CFSM) addState(iset *ItemSet) (*CFSMState, bool) {
	key := iset.key()
	for _, s := range c.index[key] {
		if s.items.Equals(iset) {
			return s, false
		}
	}
	s := &CFSMState{ID: uint(c.states.Size()), items: iset}
	s.Accept = s.containsCompletedStartRule()
	c.states.Add(s)
	c.index[key] = append(c.index[key], s)
	return s, true
}

func (c *CFSM) addEdge(from, to *CFSMState, sym string) {
	c.edges.Add(&cfsmEdge{from: from, to: to, label: sym})
	if c.gotos[from.ID] == nil {
		c.gotos[from.ID] = make(map[string]uint)
	}
	c.gotos[from.ID][sym] = to.ID
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id uint) *CFSMState {
	s, ok := c.states.Get(int(id))
	if !ok {
		return nil
	}
	return s.(*CFSMState)
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	c.states.Each(func(_ int, v interface{}) {
		states = append(states, v.(*CFSMState))
	})
	return states
}

// Goto returns the transition from state id on symbol sym, if any.
func (c *CFSM) Goto(id uint, sym string) (uint, bool) {
	to, ok := c.gotos[id][sym]
	return to, ok
}

// Transitions returns a copy of the outgoing transitions of state id.
func (c *CFSM) Transitions(id uint) map[string]uint {
	m := make(map[string]uint, len(c.gotos[id]))
	for sym, to := range c.gotos[id] {
		m[sym] = to
	}
	return m
}

// Dump is a debugging helper.
func (c *CFSM) Dump() {
	for _, s := range c.States() {
		tracer().Debugf("--- state %03d -----------", s.ID)
		for _, it := range s.Items() {
			tracer().Debugf("    %s", c.g.ItemString(it))
		}
	}
	tracer().Debugf("-------------------------")
}

// Construct the characteristic finite state machine CFSM for a grammar, i.e. the
// canonical collection of LR(0) item sets. States are discovered breadth-first,
// with transitions taken in order of first appearance of a symbol after a dot.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	ga := lrgen.ga
	cfsm := emptyCFSM(ga)
	closure0 := ga.Closure(NewItemSet(StartItem()))
	cfsm.S0, _ = cfsm.addState(closure0)
	queue := linkedlistqueue.New()
	queue.Enqueue(cfsm.S0)
	for !queue.Empty() {
		x, _ := queue.Dequeue()
		s := x.(*CFSMState)
		for _, X := range ga.symbolsAfterDot(s.items) {
			gotoset := ga.GotoSet(s.items, X)
			if gotoset.IsEmpty() {
				continue
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				queue.Enqueue(snew)
			}
			cfsm.addEdge(s, snew, X)
			tracer().Debugf("%v --%s--> %v", s, X, snew)
		}
	}
	tracer().Infof("CFSM for %s has %d states", lrgen.g.Name, cfsm.Size())
	return cfsm
}

// ToGraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) ToGraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, c.forGraphviz(s.items)))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			escapeDot(edge.label)))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func (c *CFSM) forGraphviz(S *ItemSet) string {
	var b strings.Builder
	for _, it := range S.Items() {
		b.WriteString(escapeDot(c.g.ItemString(it)))
		b.WriteString("\\l")
	}
	return b.String()
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `|`, `\|`, `{`, `\{`, `}`, `\}`,
	`<`, `\<`, `>`, `\>`, `\`, `\\`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}

// === Tables ================================================================

// Table is a parser table, indexed by CFSM state and grammar symbol.
type Table struct {
	name    string
	matrix  *sparse.IntMatrix
	columns map[string]int
	symbols []string
}

// column key of the single column of an LR(0) action table
const lr0Column = ""

func newTable(name string, states int, symbols []string) *Table {
	t := &Table{
		name:    name,
		matrix:  sparse.NewIntMatrix(states, len(symbols), sparse.DefaultNullValue),
		columns: make(map[string]int, len(symbols)),
		symbols: symbols,
	}
	for j, sym := range symbols {
		t.columns[sym] = j
	}
	tracer().Infof("%s table of size %d x %d", name, states, len(symbols))
	return t
}

func (t *Table) cell(state uint, sym string) (int, int, error) {
	if int(state) >= t.matrix.M() {
		return 0, 0, violation("%s table has no row for state %d", t.name, state)
	}
	j, ok := t.columns[sym]
	if !ok {
		return 0, 0, violation("%s table has no column for symbol %q", t.name, sym)
	}
	return int(state), j, nil
}

func (t *Table) set(state uint, sym string, val int32) error {
	i, j, err := t.cell(state, sym)
	if err != nil {
		return err
	}
	t.matrix.Set(i, j, val)
	return nil
}

// add keeps a conflicting previous entry as the first value of a pair.
func (t *Table) add(state uint, sym string, val int32) error {
	i, j, err := t.cell(state, sym)
	if err != nil {
		return err
	}
	t.matrix.Add(i, j, val)
	return nil
}

// NullValue is the value of empty table entries.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Values returns the raw pair of values at (state, sym).
func (t *Table) Values(state uint, sym string) (int32, int32) {
	j, ok := t.columns[sym]
	if !ok {
		return t.NullValue(), t.NullValue()
	}
	return t.matrix.Values(int(state), j)
}

// Value returns the last value written at (state, sym).
func (t *Table) Value(state uint, sym string) (int32, bool) {
	a, b := t.Values(state, sym)
	if b != t.NullValue() {
		return b, true
	}
	return a, a != t.NullValue()
}

// Action decodes the entry at (state, sym) as an action.
func (t *Table) Action(state uint, sym string) Action {
	if v, ok := t.Value(state, sym); ok {
		return DecodeAction(v)
	}
	return Action{}
}

// Symbols returns the column symbols.
func (t *Table) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

// States returns the number of rows.
func (t *Table) States() int {
	return t.matrix.M()
}

// ValueCount returns the number of entries set.
func (t *Table) ValueCount() int {
	return t.matrix.ValueCount()
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// Grammar returns the grammar the tables are generated for.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// Analysis returns the grammar analysis used for the tables.
func (lrgen *TableGenerator) Analysis() *LRAnalysis {
	return lrgen.ga
}

// Valid checks that the grammar has not been mutated since the analysis.
func (lrgen *TableGenerator) Valid() error {
	return lrgen.ga.Valid()
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// HasTables is true if CreateTables has been called.
func (lrgen *TableGenerator) HasTables() bool {
	return lrgen.actiontable != nil && lrgen.gototable != nil
}

// CreateTables creates the CFSM, the GOTO table and the SLR(1) ACTION table.
// If the grammar is not SLR(1), tables are created nevertheless, HasConflicts is
// set and a *ConflictError is returned.
func (lrgen *TableGenerator) CreateTables() error {
	if err := lrgen.Valid(); err != nil {
		return err
	}
	lrgen.dfa = lrgen.buildCFSM()
	gototable, err := lrgen.BuildGotoTable()
	if err != nil {
		return err
	}
	actiontable, err := lrgen.BuildSLR1ActionTable()
	if err != nil {
		return err
	}
	lrgen.gototable, lrgen.actiontable = gototable, actiontable
	err = lrgen.CheckSLR1()
	lrgen.HasConflicts = err != nil
	return err
}

// Action returns ACTION(state, terminal).
func (lrgen *TableGenerator) Action(state uint, terminal string) Action {
	if lrgen.actiontable == nil {
		return Action{}
	}
	return lrgen.actiontable.Action(state, terminal)
}

// Goto returns GOTO(state, sym) for terminals and non-terminals.
func (lrgen *TableGenerator) Goto(state uint, sym string) (uint, bool) {
	return lrgen.CFSM().Goto(state, sym)
}

// Expected returns the terminals with a non-empty action in a state.
func (lrgen *TableGenerator) Expected(state uint) []string {
	var exp []string
	for _, t := range lrgen.g.Terminals() {
		if !lrgen.Action(state, t).IsError() {
			exp = append(exp, t)
		}
	}
	return exp
}

// Conflicts returns the conflicts found by CreateTables.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables().
func (lrgen *TableGenerator) BuildGotoTable() (*Table, error) {
	cfsm := lrgen.CFSM()
	gototable := newTable("GOTO", cfsm.Size(), lrgen.g.Symbols())
	it := cfsm.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if err := gototable.set(e.from.ID, e.label, int32(e.to.ID)); err != nil {
			return nil, err
		}
	}
	return gototable, nil
}

// BuildSLR1ActionTable constructs the SLR(1) Action table. This method is normally not called
// by clients, but rather via CreateTables(). It builds an action table including
// lookahead, using the FOLLOW-sets created by the grammar analyzer.
//
// For every complete item A ➞ α∙ in a state we create a reduce-entry for every
// terminal in FOLLOW(A), or an accept-entry on EndMarker for rule 0. Shift
// entries are created from the transitions of a state on terminals.
// Conflicting entries are kept in the table, last write wins, thus shifts
// win over reduces.
func (lrgen *TableGenerator) BuildSLR1ActionTable() (*Table, error) {
	cfsm := lrgen.CFSM()
	actions := newTable("ACTION", cfsm.Size(), lrgen.g.Terminals())
	for _, state := range cfsm.States() {
		for _, it := range state.Items() {
			if !lrgen.g.IsComplete(it) {
				continue
			}
			if it.Serial == 0 {
				if err := putAction(actions, state.ID, EndMarker, Accept); err != nil {
					return nil, err
				}
				continue
			}
			rule := lrgen.g.Rule(it.Serial)
			follow := lrgen.ga.follow[rule.LHS]
			for _, la := range follow.Symbols() {
				if err := putAction(actions, state.ID, la, Reduce(it.Serial)); err != nil {
					return nil, err
				}
			}
		}
		for sym, to := range cfsm.gotos[state.ID] {
			if lrgen.g.IsTerminal(sym) {
				if err := putAction(actions, state.ID, sym, Shift(to)); err != nil {
					return nil, err
				}
			}
		}
	}
	return actions, nil
}

func putAction(actions *Table, state uint, la string, a Action) error {
	if prev := actions.Action(state, la); !prev.IsError() && prev != a {
		tracer().Debugf("conflict in state %d on %s: %v vs %v", state, la, prev, a)
		return actions.add(state, la, a.encode())
	}
	tracer().Debugf("ACTION(%d, %s) = %v", state, la, a)
	return actions.set(state, la, a.encode())
}

// BuildLR0ActionTable contructs the LR(0) Action table. This method is not called by
// CreateTables(), as we normally use an SLR(1) parser and therefore an action table with
// lookahead included. This method is provided as an add-on.
//
// The table has a single column. Shift entries do not carry a target state, as
// it depends on the input; use the GOTO table. The flag returned is false if the
// grammar is not LR(0).
func (lrgen *TableGenerator) BuildLR0ActionTable() (*Table, bool, error) {
	cfsm := lrgen.CFSM()
	actions := newTable("ACTION.0", cfsm.Size(), []string{lr0Column})
	isLR0 := true
	for _, state := range cfsm.States() {
		var a Action
		for _, it := range state.Items() {
			var b Action
			if sym, ok := lrgen.g.PeekSymbol(it); ok {
				if !lrgen.g.IsTerminal(sym) {
					continue
				}
				b = Action{Kind: ShiftAction}
			} else if it.Serial == 0 {
				b = Accept
			} else {
				b = Reduce(it.Serial)
			}
			var err error
			if !a.IsError() && a != b {
				tracer().Debugf("LR(0) conflict in state %d: %v vs %v", state.ID, a, b)
				isLR0 = false
				err = actions.add(state.ID, lr0Column, b.encode())
			} else if a.IsError() {
				err = actions.set(state.ID, lr0Column, b.encode())
			}
			if err != nil {
				return nil, false, err
			}
			a = b
		}
	}
	return actions, isLR0, nil
}

// IsLR0 is true if the grammar's CFSM has no LR(0) conflicts.
func (lrgen *TableGenerator) IsLR0() bool {
	_, ok, err := lrgen.BuildLR0ActionTable()
	return ok && err == nil
}

// === Export ================================================================

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return fmt.Errorf("GOTO table not yet created")
	}
	return parserTableAsHTML(lrgen, lrgen.gototable, w, func(v int32) string {
		return fmt.Sprintf("%d", v)
	})
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return fmt.Errorf("ACTION table not yet created")
	}
	return parserTableAsHTML(lrgen, lrgen.actiontable, w, func(v int32) string {
		return DecodeAction(v).String()
	})
}

func parserTableAsHTML(lrgen *TableGenerator, table *Table, w io.Writer, cell func(int32) string) error {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("%s table of size = %d<p>", table.name, table.ValueCount()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, A := range table.symbols {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscaper.Replace(A)))
	}
	b.WriteString("</tr>\n")
	var td string // table cell
	for i := 0; i < table.States(); i++ {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", i))
		for _, A := range table.symbols {
			v1, v2 := table.Values(uint(i), A)
			if v1 == table.NullValue() {
				td = "&nbsp;"
			} else if v2 == table.NullValue() {
				td = cell(v1)
			} else {
				td = cell(v1) + "/" + cell(v2)
			}
			b.WriteString("<td>" + td + "</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
