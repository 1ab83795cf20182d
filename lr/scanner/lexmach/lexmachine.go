package lexmach

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'slrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
// Literals and keywords are added to the lexer before init is called, thus
// keywords take precedence over identifier patterns of the same length.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if init != nil {
		init(adapter.Lexer)
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// ForGrammar creates a lexmachine adapter for the terminals of a grammar.
// Literal terminals are matched verbatim, every other terminal needs a regular
// expression in patterns. Input matching skip is ignored; skip may be empty.
//
// ForGrammar returns the adapter together with the projection of token types
// onto terminals the scanner's tokens will use. Token types already known to the
// grammar are re-used.
func ForGrammar(g *lr.Grammar, patterns map[string]string, skip string) (*LMAdapter, map[slrgen.TokType]string, error) {
	tokmap := g.TokenMap()
	ids := make(map[string]int, len(tokmap))
	next := 1000
	for kind, sym := range tokmap {
		if _, ok := ids[sym]; !ok || int(kind) < ids[sym] {
			ids[sym] = int(kind)
		}
		if int(kind) >= next {
			next = int(kind) + 1
		}
	}
	var literals, keywords, others []string
	for _, t := range g.Terminals() {
		if t == lr.EndMarker {
			continue
		}
		if _, ok := ids[t]; !ok {
			ids[t] = next
			tokmap[slrgen.TokType(next)] = t
			next++
		}
		switch {
		case g.IsLiteral(t) && isWord(t):
			keywords = append(keywords, t)
		case g.IsLiteral(t):
			literals = append(literals, t)
		default:
			if _, ok := patterns[t]; !ok {
				return nil, nil, fmt.Errorf("no pattern for terminal %q", t)
			}
			others = append(others, t)
		}
	}
	sort.Slice(literals, func(i, j int) bool { // longest match first for same prefix
		return len(literals[i]) > len(literals[j])
	})
	init := func(lexer *lexmachine.Lexer) {
		for _, t := range others {
			lexer.Add([]byte(patterns[t]), MakeToken(t, ids[t]))
		}
		if skip != "" {
			lexer.Add([]byte(skip), Skip)
		}
	}
	adapter, err := NewLMAdapter(init, literals, keywords, ids)
	if err != nil {
		return nil, nil, err
	}
	return adapter, tokmap, nil
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError, size: uint64(len(input))}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	size    uint64
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface. Unconsumable input is
// reported to the error handler and skipped.
func (lms *LMScanner) NextToken() slrgen.Token {
	if lms.scanner == nil {
		return scanner.MakeDefaultToken(scanner.EOF, "", slrgen.Span{}, slrgen.Position{})
	}
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return scanner.MakeDefaultToken(scanner.EOF, "", slrgen.Span{lms.size, lms.size}, slrgen.Position{})
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	return scanner.MakeDefaultToken(
		slrgen.TokType(token.Type),
		string(token.Lexeme),
		slrgen.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
		slrgen.Position{Line: token.StartLine, Column: token.StartColumn},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
