package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner"
	"github.com/npillmayer/slrgen/lr/slr"
)

const exprGrammar = `
Expr   = Expr "+" Term | Term .
Term   = Term "*" Factor | Factor .
Factor = "(" Expr ")" | id .
`

const ifGrammar = `
Stmt = "if" Cond "then" Stmt | "if" Cond "then" Stmt "else" Stmt | id .
Cond = num .
`

func writeGrammar(t *testing.T, src string) string {
	path := filepath.Join(t.TempDir(), "grammar.ebnf")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// resetFlags restores flag defaults, as flag values survive between executions.
func resetFlags() {
	*rootFlags.start = ""
	*rootFlags.trace = "Error"
	*rootFlags.lexer = "go"
	*rootFlags.tokens = nil
	*rootFlags.patterns = nil
	*rootFlags.transforms = nil
	*tableFlags.html = ""
	*dotFlags.output = ""
	*parseFlags.source = ""
	*parseFlags.dot = ""
}

func execute(t *testing.T, args ...string) (string, error) {
	resetFlags()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	t.Logf("output of %v:\n%s", args, out.String())
	return out.String(), err
}

func TestTokenFlags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	for s, kind := range map[string]int{"Ident": scanner.Ident, "42": 42, `"+"`: '+'} {
		if k, err := tokenKind(s); err != nil || int(k) != kind {
			t.Errorf("expected token type %d for %s, have %d (%v)", kind, s, k, err)
		}
	}
	if _, err := tokenKind("Nothing"); err == nil {
		t.Errorf("expected unknown token type to be an error")
	}
	if k, v, err := splitAssignment("num=[0-9]+=x"); err != nil || k != "num" || v != "[0-9]+=x" {
		t.Errorf("unexpected split %q=%q (%v)", k, v, err)
	}
	if _, _, err := splitAssignment("=x"); err == nil {
		t.Errorf("expected missing key to be an error")
	}
}

func TestTransformFlag(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	resetFlags()
	*rootFlags.transforms = []string{"leftrec", "factor"}
	g, err := loadGrammar(writeGrammar(t, exprGrammar))
	if err != nil {
		t.Fatal(err)
	}
	if g.IsLeftRecursive() {
		t.Errorf("expected left recursion to be removed")
	}
	if err := transform(g, []string{"magic"}); err == nil {
		t.Errorf("expected unknown transformation to be an error")
	}
}

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	path := writeGrammar(t, exprGrammar)
	out, err := execute(t, "parse", path, "a + b * c")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `id "b"`) || !strings.Contains(out, "Factor") {
		t.Errorf("expected syntax tree in output")
	}
	out, err = execute(t, "parse", path, "a + * c")
	if !errors.Is(err, slr.ErrReject) {
		t.Errorf("expected input to be rejected, error = %v", err)
	}
	if !strings.Contains(out, "(Expr (Term (Factor id)))") {
		t.Errorf("expected parse stack in output")
	}
}

func TestParseWithLexmachine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	path := writeGrammar(t, exprGrammar)
	out, err := execute(t, "parse", "--lexer", "lexmachine", "--pattern", "id=[a-z]+", path, "(a+b)*c")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `id "c"`) {
		t.Errorf("expected syntax tree in output")
	}
	if _, err = execute(t, "parse", "--lexer", "lexmachine", path, "a"); err == nil {
		t.Errorf("expected missing pattern for id to be an error")
	}
}

func TestTableCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	out, err := execute(t, "table", writeGrammar(t, exprGrammar))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "acc") || !strings.Contains(out, "is SLR(1), 12 states") {
		t.Errorf("expected parser table in output")
	}
	html := filepath.Join(t.TempDir(), "table.html")
	out, err = execute(t, "table", "--html", html, writeGrammar(t, ifGrammar))
	if !errors.Is(err, lr.ErrConflict) {
		t.Errorf("expected grammar to have conflicts, error = %v", err)
	}
	if !strings.Contains(out, "shift/reduce") {
		t.Errorf("expected conflicts in output")
	}
	if b, err := os.ReadFile(html); err != nil || !strings.Contains(string(b), "/s") {
		t.Errorf("expected HTML table to show conflicting entries")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	path := writeGrammar(t, exprGrammar)
	out, err := execute(t, "analyze", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "left recursive") || !strings.Contains(out, "not LL(1)") {
		t.Errorf("expected expression grammar to be reported as left recursive and not LL(1)")
	}
	out, err = execute(t, "analyze", "--transform", "leftrec", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "grammar is LL(1)") {
		t.Errorf("expected transformed grammar to be LL(1)")
	}
}

func TestDotCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	out, err := execute(t, "dot", writeGrammar(t, exprGrammar))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph {") {
		t.Errorf("expected Graphviz output")
	}
}

type lines []string

func (l *lines) Readline() (string, error) {
	if len(*l) == 0 {
		return "", errors.New("EOF")
	}
	line := (*l)[0]
	*l = (*l)[1:]
	return line, nil
}

func TestREPL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.cli")
	defer teardown()
	//
	resetFlags()
	fe, err := prepare(writeGrammar(t, exprGrammar))
	if err != nil {
		t.Fatal(err)
	}
	input := lines{":rules", ":first Factor", ":state 0", ":state 99", "a * b", ":bogus", "a b", ":quit", "never parsed"}
	out := &bytes.Buffer{}
	intp := &Intp{fe: fe, lines: &input, out: out}
	intp.REPL()
	t.Logf("REPL output:\n%s", out.String())
	if !strings.Contains(out.String(), "FIRST(Factor) = { (, id }") {
		t.Errorf("expected FIRST(Factor) in output")
	}
	if !strings.Contains(out.String(), "state 0\n") || !strings.Contains(out.String(), "--(--> ") {
		t.Errorf("expected items and transitions of state 0 in output")
	}
	if !strings.Contains(out.String(), `id "b"`) {
		t.Errorf("expected syntax tree in output")
	}
	if len(input) != 1 || !strings.HasSuffix(out.String(), "Good bye!\n") {
		t.Errorf("expected REPL to stop at :quit")
	}
}
