package main

import (
	"errors"
	"fmt"

	"github.com/npillmayer/slrgen/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "analyze <grammar file>",
		Short:   "Print rules, FIRST and FOLLOW sets and an LL(1) check",
		Example: `  slrgen analyze --transform leftrec expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runAnalyze,
	}
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if err := renderRules(w, g); err != nil {
		return err
	}
	ga := lr.Analysis(g)
	if err := renderAnalysis(w, ga); err != nil {
		return err
	}
	if g.IsLeftRecursive() {
		fmt.Fprintln(w, pterm.Info.Sprint("grammar is left recursive"))
	}
	var ll1 *lr.LL1Error
	if err := ga.CheckLL1(); errors.As(err, &ll1) {
		for _, o := range ll1.Overlaps {
			fmt.Fprintln(w, pterm.Info.Sprintf("not LL(1): rules #%d and #%d of %s overlap on %v",
				o.Rules[0], o.Rules[1], o.NonTerminal, o.Symbols))
		}
	} else if err != nil {
		return err
	} else {
		fmt.Fprintln(w, pterm.Info.Sprint("grammar is LL(1)"))
	}
	return nil
}
