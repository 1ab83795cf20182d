package cst

import (
	"fmt"
	"io"
	"strings"
)

// PrintTree prints a tree, one node per line, with ruled lines connecting
// parents and children.
func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}
	fmt.Fprintf(w, "%v%v\n", ruledLine, node.label())
	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}
		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}
		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// ToGraphViz exports a tree to the Graphviz Dot format.
func ToGraphViz(w io.Writer, root *Node) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=box, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	ids := make(map[*Node]int)
	root.Walk(func(n *Node, _ int) {
		ids[n] = len(ids)
		color := "white"
		if n.IsTerminal() {
			color = "lightgray"
		}
		b.WriteString(fmt.Sprintf("n%03d [fillcolor=%s label=%q]\n", ids[n], color, n.label()))
	})
	root.Walk(func(n *Node, _ int) {
		for _, ch := range n.Children {
			b.WriteString(fmt.Sprintf("n%03d -> n%03d\n", ids[n], ids[ch]))
		}
	})
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
