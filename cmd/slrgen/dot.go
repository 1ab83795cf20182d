package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var dotFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "dot <grammar file>",
		Short:   "Export the characteristic finite state machine in Graphviz format",
		Example: `  slrgen dot expr.ebnf | dot -Tsvg > cfsm.svg`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDot,
	}
	dotFlags.output = cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runDot(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	lrgen, _ := generate(g) // the CFSM is valid for grammars with conflicts
	var w io.Writer = cmd.OutOrStdout()
	if *dotFlags.output != "" {
		f, err := os.Create(*dotFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return lrgen.CFSM().ToGraphViz(w)
}
