package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/slrgen"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader, SkipComments(true))
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestScanPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("positions", strings.NewReader("a +\n  bc"))
	tokens := Collect(scanner)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	bc := tokens[2]
	if bc.TokType() != Ident || bc.Pos().String() != "2:3" {
		t.Errorf("expected identifier at 2:3, got %s at %v", TokenName(bc.TokType()), bc.Pos())
	}
	if bc.Span() != (slrgen.Span{6, 8}) {
		t.Errorf("expected 'bc' to span (6…8), spans %v", bc.Span())
	}
	if tokens[1].TokType() != '+' {
		t.Errorf("expected '+' to have its rune as token type")
	}
}

func TestUnifyStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("strings", strings.NewReader("'c' `raw`"), UnifyStrings(true))
	for _, tok := range Collect(scanner) {
		if tok.TokType() != String {
			t.Errorf("expected %s to be unified to a string token", tok.Lexeme())
		}
	}
}

func TestSliceTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "slrgen.scanner")
	defer teardown()
	//
	tokens := []slrgen.Token{
		MakeDefaultToken(Ident, "a", slrgen.Span{0, 1}, slrgen.Position{}),
		MakeDefaultToken('+', "+", slrgen.Span{1, 2}, slrgen.Position{}),
	}
	st := FromTokens(tokens)
	if got := Collect(st); len(got) != 2 || got[1].Lexeme() != "+" {
		t.Errorf("expected to replay 2 tokens, got %v", got)
	}
	eof := st.NextToken()
	if eof.TokType() != EOF || eof.Span().From() != 2 {
		t.Errorf("expected EOF at position 2, got %v", eof)
	}
}
