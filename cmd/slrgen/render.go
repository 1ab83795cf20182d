package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/cst"
	"github.com/npillmayer/slrgen/lr/slr"
	"github.com/pterm/pterm"
)

func renderTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// renderRules prints the live rules of a grammar.
func renderRules(w io.Writer, g *lr.Grammar) error {
	data := pterm.TableData{{"#", "rule"}}
	for _, r := range g.Rules() {
		data = append(data, []string{strconv.Itoa(r.Serial), r.String()})
	}
	return renderTable(w, data)
}

// renderAnalysis prints FIRST and FOLLOW of every non-terminal.
func renderAnalysis(w io.Writer, ga *lr.LRAnalysis) error {
	data := pterm.TableData{{"non-terminal", "FIRST", "FOLLOW", "ε"}}
	for _, A := range ga.Grammar().NonTerminals() {
		first, _ := ga.First(A)
		follow, _ := ga.Follow(A)
		eps := ""
		if ga.DerivesEpsilon(A) {
			eps = "yes"
		}
		data = append(data, []string{A, first.String(), follow.String(), eps})
	}
	return renderTable(w, data)
}

// renderParserTable prints ACTION and GOTO in a single table. Conflicting entries
// show both actions.
func renderParserTable(w io.Writer, lrgen *lr.TableGenerator) error {
	g := lrgen.Grammar()
	header := []string{"state"}
	header = append(header, g.Terminals()...)
	var nonterms []string
	for _, A := range g.NonTerminals() {
		if A != g.AugmentedStart() {
			nonterms = append(nonterms, A)
		}
	}
	header = append(header, nonterms...)
	data := pterm.TableData{header}
	actions := lrgen.ActionTable()
	for _, state := range lrgen.CFSM().States() {
		row := []string{strconv.Itoa(int(state.ID))}
		for _, t := range g.Terminals() {
			row = append(row, actionCell(actions, state.ID, t))
		}
		for _, A := range nonterms {
			cell := ""
			if next, ok := lrgen.Goto(state.ID, A); ok {
				cell = strconv.Itoa(int(next))
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}
	return renderTable(w, data)
}

func actionCell(actions *lr.Table, state uint, t string) string {
	a, b := actions.Values(state, t)
	var cell []string
	for _, v := range []int32{a, b} {
		if v != actions.NullValue() {
			cell = append(cell, lr.DecodeAction(v).String())
		}
	}
	return strings.Join(cell, "/")
}

// renderConflicts prints conflicts as warnings.
func renderConflicts(w io.Writer, conflicts []lr.Conflict) {
	for _, c := range conflicts {
		fmt.Fprintln(w, pterm.Warning.Sprint(c.String()))
	}
}

// treeNode converts a CST into a pterm tree.
// renderState prints the items of a CFSM state, followed by its transitions.
func renderState(w io.Writer, lrgen *lr.TableGenerator, id uint) error {
	cfsm := lrgen.CFSM()
	state := cfsm.State(id)
	if state == nil {
		return fmt.Errorf("no state %d, CFSM has %d states", id, cfsm.Size())
	}
	fmt.Fprintf(w, "state %d\n", id)
	for _, it := range state.Items() {
		fmt.Fprintf(w, "    %s\n", lrgen.Grammar().ItemString(it))
	}
	trans := cfsm.Transitions(id)
	syms := make([]string, 0, len(trans))
	for sym := range trans {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	for _, sym := range syms {
		fmt.Fprintf(w, "  --%s--> %d\n", sym, trans[sym])
	}
	return nil
}

func treeNode(node *cst.Node) pterm.TreeNode {
	tn := pterm.TreeNode{Text: nodeLabel(node)}
	for _, ch := range node.Children {
		tn.Children = append(tn.Children, treeNode(ch))
	}
	return tn
}

func nodeLabel(node *cst.Node) string {
	if node.IsTerminal() {
		if node.Lexeme() != node.Symbol {
			return fmt.Sprintf("%s %q", node.Symbol, node.Lexeme())
		}
		return node.Symbol
	}
	if len(node.Children) == 0 {
		return node.Symbol + " " + lr.Epsilon
	}
	return node.Symbol
}

// renderTree prints a CST.
func renderTree(w io.Writer, root *cst.Node) error {
	s, err := pterm.DefaultTree.WithRoot(pterm.TreeNode{
		Text:     "CST",
		Children: []pterm.TreeNode{treeNode(root)},
	}).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, s)
	return err
}

// renderParseError prints the parse stack of a rejected input, top first.
func renderParseError(w io.Writer, perr *slr.ParseError) error {
	fmt.Fprintln(w, pterm.Error.Sprint(perr.Error()))
	data := pterm.TableData{{"state", "symbol", "subtree"}}
	for i := len(perr.Stack) - 1; i >= 0; i-- {
		entry := perr.Stack[i]
		subtree := ""
		if entry.Node != nil {
			subtree = entry.Node.String()
		}
		data = append(data, []string{strconv.Itoa(int(entry.State)), entry.Symbol, subtree})
	}
	return renderTable(w, data)
}
