/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Two default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) an adapter for lexmachine, living in sub-package `lexmach`.
For tests and for clients with their own lexers, a tokenizer over a slice of
tokens is available as well.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
)

// tracer traces with key 'slrgen.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// TokenName returns a printable name for token types of the default tokenizer.
// It is a slrgen.TokTypeStringer.
func TokenName(t slrgen.TokType) string {
	return scanner.TokenString(rune(t))
}

var _ slrgen.TokTypeStringer = TokenName

// Tokenizer is a scanner interface. At the end of input, tokenizers return a
// token of type EOF, repeatedly.
type Tokenizer interface {
	NextToken() slrgen.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() slrgen.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return DefaultToken{
		kind:   slrgen.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   slrgen.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
		pos:    slrgen.Position{Line: t.Position.Line, Column: t.Position.Column},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   slrgen.TokType
	lexeme string
	Val    interface{}
	span   slrgen.Span
	pos    slrgen.Position
}

// MakeDefaultToken creates a token. pos may be the zero Position if unknown.
func MakeDefaultToken(typ slrgen.TokType, lexeme string, span slrgen.Span, pos slrgen.Position) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
		pos:    pos,
	}
}

func (t DefaultToken) TokType() slrgen.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() slrgen.Span {
	return t.span
}

func (t DefaultToken) Pos() slrgen.Position {
	return t.pos
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%q@%v", t.lexeme, t.pos)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

// SkipComments set or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// --- Token slices ----------------------------------------------------------

// SliceTokenizer replays a slice of tokens. Create one with FromTokens.
type SliceTokenizer struct {
	tokens []slrgen.Token
	next   int
	Error  func(error)
}

var _ Tokenizer = (*SliceTokenizer)(nil)

// FromTokens creates a tokenizer delivering the given tokens, followed by EOF.
func FromTokens(tokens []slrgen.Token) *SliceTokenizer {
	return &SliceTokenizer{tokens: tokens, Error: logError}
}

// SetErrorHandler is part of the Tokenizer interface. A SliceTokenizer never
// reports errors.
func (st *SliceTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	st.Error = h
}

// NextToken is part of the Tokenizer interface.
func (st *SliceTokenizer) NextToken() slrgen.Token {
	if st.next >= len(st.tokens) {
		var end uint64
		if len(st.tokens) > 0 {
			end = st.tokens[len(st.tokens)-1].Span().To()
		}
		return MakeDefaultToken(EOF, "", slrgen.Span{end, end}, slrgen.Position{})
	}
	st.next++
	return st.tokens[st.next-1]
}

// Collect reads all tokens from a tokenizer, up to (not including) EOF.
func Collect(t Tokenizer) []slrgen.Token {
	var tokens []slrgen.Token
	for tok := t.NextToken(); tok.TokType() != EOF; tok = t.NextToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}
