package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner"
)

const expr = `
Expr   = Expr "+" Term | Term .
Term   = Term "*" Factor | Factor .
Factor = "(" Expr ")" | id .
id     = "a" … "z" .
`

func TestLoadExpressionGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	g, err := Load("expr.ebnf", strings.NewReader(expr))
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "expr" || g.Start() != "Expr" {
		t.Errorf("expected grammar expr with start symbol Expr, have %s/%s", g.Name, g.Start())
	}
	if g.Size() != 7 {
		t.Errorf("expected 7 rules, have %d", g.Size())
	}
	if r := g.Rule(1); r.String() != "[Expr] ::= [Expr + Term]" {
		t.Errorf("unexpected rule #1: %v", r)
	}
	if !g.IsLiteral("+") || g.IsLiteral("id") {
		t.Errorf("expected + to be literal and id not to be literal")
	}
	if sym, ok := g.TokenSymbol(scanner.Ident); !ok || sym != "id" {
		t.Errorf("expected identifiers to be projected onto id")
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		t.Errorf("expected grammar to be SLR(1): %v", err)
	}
}

func TestLoadOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	src := `
List  = Item List | "" .
Item  = word | Empty .
Empty = .
Start = List "." .
`
	g, err := Load("list.ebnf", strings.NewReader(src),
		WithStart("Start"), WithName("Lists"), WithTokenKind("word", scanner.Ident))
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Lists" || g.Start() != "Start" {
		t.Errorf("expected grammar Lists with start symbol Start, have %s/%s", g.Name, g.Start())
	}
	eps := 0
	for _, r := range g.Rules() {
		if r.IsEps() {
			eps++
		}
	}
	if eps != 2 {
		t.Errorf("expected 2 epsilon rules, have %d", eps)
	}
}

func TestLoadRejectsSugar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	for _, src := range []string{
		`S = "a" { "b" } .`,
		`S = "a" [ "b" ] .`,
		`S = ( "a" | "b" ) "c" .`,
		`S = "a" … "z" .`,
		`S = x .`,
		`S = "a" .  T = U .`,
	} {
		if _, err := Load("sugar", strings.NewReader(src)); err == nil {
			t.Errorf("expected %q to be rejected", src)
		} else {
			t.Logf("error = %v", err)
		}
	}
	if _, err := Load("nostart", strings.NewReader(expr), WithStart("Sum")); err == nil {
		t.Errorf("expected unknown start symbol to be rejected")
	}
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.lr")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "expr.ebnf")
	if err := os.WriteFile(path, []byte(expr), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Error(err)
	}
	if _, err := LoadFile(path + ".missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected missing file error, have %v", err)
	}
}
