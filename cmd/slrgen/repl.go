package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/slrgen/lr/slr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file>",
		Short: "Parse input lines interactively",
		Long: `repl reads input lines and prints the syntax tree for each of them.
Lines starting with a colon are commands:

  :rules          print the rules of the grammar
  :first <A>      print FIRST(A)
  :follow <A>     print FOLLOW(A)
  :table          print the parser table
  :state <n>      print the items and transitions of CFSM state n
  :quit           leave (as does <ctrl>D)`,
		Args: cobra.ExactArgs(1),
		RunE: runREPL,
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	fe, err := prepare(args[0])
	if err != nil {
		return err
	}
	rl, err := readline.New("slrgen> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	pterm.Info.Printf("Grammar %s loaded, quit with <ctrl>D\n", fe.parser.Grammar().Name)
	intp := &Intp{fe: fe, lines: rl, out: cmd.OutOrStdout()}
	intp.REPL()
	return nil
}

// lineReader is the part of readline the interpreter uses.
type lineReader interface {
	Readline() (string, error)
}

// Intp is our interpreter object
type Intp struct {
	fe    *frontend
	lines lineReader
	out   io.Writer
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.lines.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			tracer().Infof(err.Error())
		}
		if quit {
			break
		}
	}
	fmt.Fprintln(intp.out, "Good bye!")
}

// Eval executes a command or parses a line of input.
func (intp *Intp) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return intp.Execute(strings.Fields(line[1:]))
	}
	tree, err := intp.fe.parse(line)
	var perr *slr.ParseError
	if errors.As(err, &perr) {
		return false, renderParseError(intp.out, perr)
	} else if err != nil {
		pterm.Error.Println(err.Error())
		return false, err
	}
	return false, renderTree(intp.out, tree)
}

// Execute runs a REPL command.
func (intp *Intp) Execute(args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	ga := intp.fe.lrgen.Analysis()
	switch cmd := args[0]; cmd {
	case "quit", "q":
		return true, nil
	case "rules":
		return false, renderRules(intp.out, ga.Grammar())
	case "table":
		return false, renderParserTable(intp.out, intp.fe.lrgen)
	case "state":
		if len(args) != 2 {
			return false, fmt.Errorf(":state needs a state number")
		}
		id, err := strconv.ParseUint(args[1], 10, 32)
		if err == nil {
			err = renderState(intp.out, intp.fe.lrgen, uint(id))
		}
		if err != nil {
			pterm.Error.Println(err.Error())
		}
		return false, err
	case "first", "follow":
		if len(args) != 2 {
			return false, fmt.Errorf(":%s needs a symbol", cmd)
		}
		set, ok := ga.First(args[1])
		if cmd == "follow" {
			set, ok = ga.Follow(args[1])
		}
		if !ok {
			err := fmt.Errorf("unknown symbol %q", args[1])
			pterm.Error.Println(err.Error())
			return false, err
		}
		fmt.Fprintf(intp.out, "%s(%s) = %v\n", strings.ToUpper(cmd), args[1], set)
		return false, nil
	}
	err := fmt.Errorf("unknown command :%s", args[0])
	pterm.Error.Println(err.Error())
	return false, err
}
