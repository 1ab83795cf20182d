package main

import (
	"errors"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/npillmayer/slrgen/lr/cst"
	"github.com/npillmayer/slrgen/lr/slr"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	dot    *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file> [input]",
		Short: "Parse input and print the concrete syntax tree",
		Example: `  slrgen parse expr.ebnf "a + b * c"
  cat src | slrgen parse --lexer lexmachine --pattern id=[a-z]+ expr.ebnf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin, if no input is given)")
	parseFlags.dot = cmd.Flags().String("dot", "", "write the syntax tree in Graphviz format to this file")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	fe, err := prepare(args[0])
	if err != nil {
		return err
	}
	input, err := readInput(cmd.InOrStdin(), args[1:], *parseFlags.source)
	if err != nil {
		return err
	}
	tree, err := fe.parse(input)
	w := cmd.OutOrStdout()
	var perr *slr.ParseError
	if errors.As(err, &perr) {
		if rerr := renderParseError(w, perr); rerr != nil {
			return rerr
		}
		return err
	} else if err != nil {
		return err
	}
	if *parseFlags.dot != "" {
		f, err := os.Create(*parseFlags.dot)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := cst.ToGraphViz(f, tree); err != nil {
			return err
		}
	}
	return renderTree(w, tree)
}

// readInput returns the input to parse: command line arguments, or the content
// of a source file, or stdin.
func readInput(stdin io.Reader, args []string, source string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if source != "" {
		b, err := ioutil.ReadFile(source)
		return string(b), err
	}
	b, err := ioutil.ReadAll(stdin)
	return string(b), err
}

// parse scans and parses an input string.
func (fe *frontend) parse(input string) (*cst.Node, error) {
	scan, err := fe.scan(input)
	if err != nil {
		return nil, err
	}
	return fe.parser.Parse(scan)
}
