package lexmach

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner"
	"github.com/timtadh/lexmachine"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var TokenCounts = []int{1, 3, 2, 3, 3}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	initTokens()
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`\"[^"]*\"`), MakeToken("STRING", tokenIds["STRING"]))
		lexer.Add([]byte(`#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`), MakeToken("ID", tokenIds["ID"]))
		lexer.Add([]byte(`[1-9][0-9]*`), MakeToken("NUM", tokenIds["NUM"]))
		lexer.Add([]byte(`( |\,|\t|\n|\r)+`), Skip)
	}
	LM, err := NewLMAdapter(init, literals, keywords, tokenIds)
	if err != nil {
		t.Error(err)
	}
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		sc, err := LM.Scanner(input)
		if err != nil {
			t.Error(err)
		}
		token := sc.NextToken()
		count := 0
		for token.TokType() != scanner.EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = sc.NextToken()
			count++
		}
		if count != TokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, TokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

var literals []string       // The tokens representing literal strings
var keywords []string       // The keyword tokens
var tokens []string         // All of the tokens (including literals and keywords)
var tokenIds map[string]int // A map from the token names to their int ids

func initTokens() {
	literals = []string{
		"'",
		"(",
		")",
		"[",
		"]",
		"=",
		"+",
		"-",
		"*",
		"/",
	}
	keywords = []string{
		"nil",
		"t",
	}
	tokens = []string{
		"COMMENT",
		"ID",
		"NUM",
		"STRING",
	}
	tokens = append(tokens, keywords...)
	tokens = append(tokens, literals...)
	tokenIds = make(map[string]int)
	tokenIds["COMMENT"] = scanner.Comment
	tokenIds["ID"] = scanner.Ident
	tokenIds["NUM"] = scanner.Int
	tokenIds["STRING"] = int(scanner.String)
	for i, tok := range tokens[4:] {
		tokenIds[tok] = i + 10
	}
}

func TestLMPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	initTokens()
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`([a-z]|[A-Z])+`), MakeToken("ID", tokenIds["ID"]))
		lexer.Add([]byte(`( |\t|\n)+`), Skip)
	}
	LM, err := NewLMAdapter(init, literals, keywords, tokenIds)
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := LM.Scanner("nil\n  abc")
	tokens := scanner.Collect(sc)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].TokType() != slrgen.TokType(tokenIds["nil"]) {
		t.Errorf("expected keyword 'nil' to take precedence over identifiers")
	}
	abc := tokens[1]
	if abc.Span() != (slrgen.Span{6, 9}) || abc.Pos().String() != "2:3" {
		t.Errorf("expected 'abc' at (6…9) 2:3, is at %v %v", abc.Span(), abc.Pos())
	}
	if eof := sc.NextToken(); eof.TokType() != scanner.EOF || eof.Span().From() != 9 {
		t.Errorf("expected EOF at end of input, got %v", eof)
	}
}

func TestForGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Assign")
	b.LHS("S").L("let").T("id", scanner.Ident).L(":=").T("num", scanner.Int).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	patterns := map[string]string{"id": `[a-z]+`, "num": `[0-9]+`}
	LM, tokmap, err := ForGrammar(g, patterns, `( |\t)+`)
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := LM.Scanner("let x := 42")
	var syms []string
	for _, tok := range scanner.Collect(sc) {
		sym, ok := tokmap[tok.TokType()]
		if !ok {
			t.Fatalf("token %v has no terminal", tok)
		}
		syms = append(syms, sym)
	}
	if len(syms) != 4 || syms[0] != "let" || syms[1] != "id" || syms[2] != ":=" || syms[3] != "num" {
		t.Errorf("expected terminals [let id := num], got %v", syms)
	}
	if tokmap[scanner.Ident] != "id" {
		t.Errorf("expected token type of grammar to be re-used for 'id'")
	}
	if _, _, err := ForGrammar(g, map[string]string{"id": `[a-z]+`}, ""); err == nil {
		t.Errorf("expected missing pattern for 'num' to be an error")
	}
}
