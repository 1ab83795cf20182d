package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/slrgen/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tableFlags = struct {
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "table <grammar file>",
		Short:   "Print the SLR(1) parser table",
		Example: `  slrgen table --html expr.html expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTable,
	}
	tableFlags.html = cmd.Flags().String("html", "", "write ACTION and GOTO tables as HTML to this file")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	lrgen, err := generate(g)
	if err != nil && !errors.Is(err, lr.ErrConflict) {
		return err
	}
	w := cmd.OutOrStdout()
	if rerr := renderParserTable(w, lrgen); rerr != nil {
		return rerr
	}
	if *tableFlags.html != "" {
		if herr := writeHTML(*tableFlags.html, lrgen); herr != nil {
			return herr
		}
	}
	if err != nil {
		renderConflicts(w, lrgen.Conflicts())
		return err
	}
	fmt.Fprintln(w, pterm.Success.Sprintf("grammar %s is SLR(1), %d states", g.Name, lrgen.CFSM().Size()))
	return nil
}

func writeHTML(path string, lrgen *lr.TableGenerator) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := lr.ActionTableAsHTML(lrgen, f); err != nil {
		return err
	}
	return lr.GotoTableAsHTML(lrgen, f)
}
