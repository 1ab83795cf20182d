package slr

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/cst"
	"github.com/npillmayer/slrgen/lr/scanner"
	"github.com/npillmayer/slrgen/lr/scanner/lexmach"
)

// E ➞ E + T | T ,  T ➞ T * F | F ,  F ➞ ( E ) | id | num
func exprTables(t *testing.T) *lr.TableGenerator {
	b := lr.NewGrammarBuilder("Expressions")
	b.LHS("E").N("E").L("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").L("*").N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").L("(").N("E").L(")").End()
	b.LHS("F").T("id", scanner.Ident).End()
	b.LHS("F").T("num", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	return lrgen
}

func parse(t *testing.T, p *Parser, input string) (*cst.Node, error) {
	return p.Parse(scanner.GoTokenizer(t.Name(), strings.NewReader(input)))
}

func TestParseExpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	p, err := NewParser(exprTables(t))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := parse(t, p, "id + id * id")
	if err != nil {
		t.Fatal(err)
	}
	if tree.String() != "(E (E (T (F id))) + (T (T (F id)) * (F id)))" {
		t.Errorf("unexpected parse tree %v", tree)
	}
	if tree.Span != (slrgen.Span{0, 12}) {
		t.Errorf("expected tree to span the input (0…12), spans %v", tree.Span)
	}
	if tree.Rule.Serial != 1 || len(tree.Children) != 3 {
		t.Errorf("expected root to be reduced by rule 1: E ➞ E + T")
	}
}

func TestParseExplicitEndMarker(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	p, _ := NewParser(exprTables(t))
	tree, err := parse(t, p, "id + id * id #")
	if err != nil {
		t.Fatal(err)
	}
	if tree.String() != "(E (E (T (F id))) + (T (T (F id)) * (F id)))" {
		t.Errorf("unexpected parse tree %v", tree)
	}
	if tree.Span != (slrgen.Span{0, 12}) {
		t.Errorf("expected end marker to be excluded from tree span, spans %v", tree.Span)
	}
	tokens := []slrgen.Token{
		scanner.MakeDefaultToken(scanner.Ident, "id", slrgen.Span{0, 2}, slrgen.Position{Line: 1, Column: 1}),
		scanner.MakeDefaultToken('+', "+", slrgen.Span{3, 4}, slrgen.Position{Line: 1, Column: 4}),
		scanner.MakeDefaultToken(scanner.Ident, "id", slrgen.Span{5, 7}, slrgen.Position{Line: 1, Column: 6}),
		scanner.MakeDefaultToken('#', "#", slrgen.Span{8, 9}, slrgen.Position{Line: 1, Column: 9}),
	}
	tree, err = p.ParseTokens(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if tree.String() != "(E (E (T (F id))) + (T (F id)))" {
		t.Errorf("unexpected parse tree %v", tree)
	}
	// input following the end marker is not read
	tree, err = parse(t, p, "id # ) +")
	if err != nil || tree.String() != "(E (T (F id)))" {
		t.Errorf("expected input to end at '#', tree = %v, error = %v", tree, err)
	}
	_, err = parse(t, p, "id + #")
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Symbol != lr.EndMarker {
		t.Errorf("expected premature end marker to be rejected as %s, error = %v", lr.EndMarker, err)
	}
}

func TestParseReject(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	p, _ := NewParser(exprTables(t))
	tree, err := parse(t, p, "id + * id")
	if tree != nil || err == nil {
		t.Fatalf("expected input to be rejected")
	}
	if !errors.Is(err, ErrReject) {
		t.Errorf("expected error to match ErrReject")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *ParseError, got %T", err)
	}
	if perr.Symbol != "*" || perr.Token.Lexeme() != "*" {
		t.Errorf("expected rejection at '*', got %q", perr.Symbol)
	}
	if strings.Join(perr.Expected, " ") != "( id num" {
		t.Errorf("expected state to expect ( id num, expects %v", perr.Expected)
	}
	if strings.Join(perr.Symbols(), " ") != "# E +" {
		t.Errorf("expected stack [# E +], have %v", perr.Symbols())
	}
	if perr.Stack[1].Node.String() != "(E (T (F id)))" {
		t.Errorf("expected partial tree for E on stack, have %v", perr.Stack[1].Node)
	}
	if perr.Position().String() != "1:6" {
		t.Errorf("expected rejection at 1:6, is at %v", perr.Position())
	}
	t.Logf("error = %v", err)
}

func TestParseUnknownToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	p, _ := NewParser(exprTables(t))
	_, err := parse(t, p, "id - id")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *ParseError, got %v", err)
	}
	if perr.Symbol != "" || perr.Token.Lexeme() != "-" {
		t.Errorf("expected '-' to be rejected as unknown token, got %v", perr)
	}
}

func TestParseEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Signed Variables")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()
	b.LHS("Sign").L("+").End()
	b.LHS("Sign").L("-").End()
	b.LHS("Sign").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(lr.NewTableGenerator(lr.Analysis(g)))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := parse(t, p, "  x")
	if err != nil {
		t.Fatal(err)
	}
	if tree.String() != "(Var (Sign) a)" {
		t.Errorf("unexpected parse tree %v", tree)
	}
	if sign := tree.Children[0]; sign.Span != (slrgen.Span{2, 2}) {
		t.Errorf("expected empty sign to be located before 'x', is at %v", sign.Span)
	}
	tree, err = parse(t, p, "-x")
	if err != nil || tree.String() != "(Var (Sign -) a)" {
		t.Errorf("unexpected parse tree %v, error = %v", tree, err)
	}
}

func TestParserOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	lrgen := exprTables(t)
	p, _ := NewParser(lrgen, KeepAugmented(true), TokenMap(map[slrgen.TokType]string{
		scanner.String: "id",
	}))
	tree, err := parse(t, p, `"x" * 2`)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Symbol != lrgen.Grammar().AugmentedStart() {
		t.Errorf("expected root to be the augmented start symbol, is %s", tree.Symbol)
	}
	if tree.String() != "(E' (E (T (T (F id)) * (F num))))" {
		t.Errorf("unexpected parse tree %v", tree)
	}
}

func TestRefuseTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("If-Then-Else")
	b.LHS("S").L("if").N("E").L("then").N("S").End()
	b.LHS("S").L("if").N("E").L("then").N("S").L("else").N("S").End()
	b.LHS("S").T("x", scanner.Ident).End()
	b.LHS("E").T("b", scanner.Int).End()
	g, _ := b.Grammar()
	if _, err := NewParser(lr.NewTableGenerator(lr.Analysis(g))); !errors.Is(err, lr.ErrConflict) {
		t.Errorf("expected parser to refuse a grammar with conflicts, error = %v", err)
	}
	lrgen := exprTables(t)
	p, _ := NewParser(lrgen)
	if err := lrgen.Grammar().RemoveLeftRecursion(); err != nil {
		t.Fatal(err)
	}
	if _, err := NewParser(lrgen); !errors.Is(err, lr.ErrInvariant) {
		t.Errorf("expected parser to refuse stale tables, error = %v", err)
	}
	if _, err := parse(t, p, "id"); !errors.Is(err, lr.ErrInvariant) {
		t.Errorf("expected parse with stale tables to fail, error = %v", err)
	}
}

// --- Attribute evaluation --------------------------------------------------

type evaluator struct{}

func (ev evaluator) EnterRule(string, []*cst.RuleNode, cst.RuleCtxt) bool {
	return true
}

func (ev evaluator) ExitRule(sym string, rhs []*cst.RuleNode, ctxt cst.RuleCtxt) interface{} {
	switch len(rhs) {
	case 1:
		return rhs[0].Value
	case 3:
		if rhs[0].Symbol() == "(" {
			return rhs[1].Value
		}
		if rhs[1].Symbol() == "+" {
			return rhs[0].Value.(int) + rhs[2].Value.(int)
		}
		return rhs[0].Value.(int) * rhs[2].Value.(int)
	}
	return nil
}

func (ev evaluator) Terminal(sym string, tok slrgen.Token, ctxt cst.RuleCtxt) interface{} {
	if sym == "num" {
		n, _ := strconv.Atoi(tok.Lexeme())
		return n
	}
	return nil
}

func (ev evaluator) MakeAttrs(string) interface{} {
	return nil
}

func TestEvaluate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	p, _ := NewParser(exprTables(t))
	for input, value := range map[string]int{
		"1+2*3":     7,
		"(1+2)*3":   9,
		"2*(3+4)*5": 70,
	} {
		tree, err := parse(t, p, input)
		if err != nil {
			t.Fatal(err)
		}
		if v := cst.NewCursor(tree).TopDown(evaluator{}, cst.LtoR, cst.Continue); v != value {
			t.Errorf("expected %s = %d, evaluated to %v", input, value, v)
		}
	}
}

func TestConcurrentParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	p, _ := NewParser(exprTables(t))
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scan := scanner.GoTokenizer("concurrent", strings.NewReader("(1+2)*x"))
			if tree, err := p.Parse(scan); err == nil {
				results[i] = tree.String()
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		if r != "(E (T (T (F ( (E (E (T (F num))) + (T (F num))) ))) * (F id)))" {
			t.Errorf("unexpected concurrent parse result %q", r)
		}
	}
}

func TestParseWithLexmachine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.slr")
	defer teardown()
	//
	lrgen := exprTables(t)
	patterns := map[string]string{"id": `[a-z]+`, "num": `[0-9]+`}
	LM, tokens, err := lexmach.ForGrammar(lrgen.Grammar(), patterns, `( |\t|\n)+`)
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(lrgen, TokenMap(tokens))
	if err != nil {
		t.Fatal(err)
	}
	scan, err := LM.Scanner("(a + 12)\n* b")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := p.Parse(scan)
	if err != nil {
		t.Fatal(err)
	}
	if tree.String() != "(E (T (T (F ( (E (E (T (F id))) + (T (F num))) ))) * (F id)))" {
		t.Errorf("unexpected parse tree %v", tree)
	}
	tree, err = p.ParseTokens(scanner.Collect(mustScan(t, LM, "a*")))
	if !errors.Is(err, ErrReject) || tree != nil {
		t.Errorf("expected incomplete input to be rejected, error = %v", err)
	}
}

func mustScan(t *testing.T, LM *lexmach.LMAdapter, input string) scanner.Tokenizer {
	scan, err := LM.Scanner(input)
	if err != nil {
		t.Fatal(err)
	}
	return scan
}
