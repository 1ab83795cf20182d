/*
Package loader reads grammars from EBNF files.

Grammar files use the EBNF dialect of the Go language specification, as
implemented by golang.org/x/exp/ebnf:

    Expr   = Expr "+" Term | Term .
    Term   = Term "*" Factor | Factor .
    Factor = "(" Expr ")" | id .

Productions with an upper-case name define non-terminals. Quoted tokens are
literal terminals, matched by lexeme. Lower-case names are token terminals; they
need not be defined, and if they are, their productions are ignored. Token
terminals are projected from token types, either set with WithTokenKind or
taken from a small set of defaults for names like "id" or "num".

EBNF has notations for groups, options and repetitions. The parsers of this
module operate on plain context-free rules, and the loader will not rewrite
these notations. Grammar files using them are rejected, as are character ranges.
An empty production "A = ." or an empty token "" denotes epsilon.

The start symbol is the first non-terminal of the file, unless set with
WithStart.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/scanner"
	"golang.org/x/exp/ebnf"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}

// DefaultTokenKinds projects common token terminal names onto token types of
// the default tokenizer.
var DefaultTokenKinds = map[string]slrgen.TokType{
	"id":         scanner.Ident,
	"ident":      scanner.Ident,
	"identifier": scanner.Ident,
	"num":        scanner.Int,
	"int":        scanner.Int,
	"number":     scanner.Int,
	"float":      scanner.Float,
	"char":       scanner.Char,
	"string":     scanner.String,
}

// Option configures the loader.
type Option func(*config)

type config struct {
	name  string
	start string
	kinds map[string]slrgen.TokType
}

// WithStart sets the start symbol.
func WithStart(start string) Option {
	return func(c *config) {
		c.start = start
	}
}

// WithName sets the name of the grammar. Default is the base name of the file.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithTokenKind projects tokens of type kind onto a token terminal.
func WithTokenKind(terminal string, kind slrgen.TokType) Option {
	return func(c *config) {
		c.kinds[terminal] = kind
	}
}

// LoadFile reads a grammar from an EBNF file.
func LoadFile(path string, opts ...Option) (*lr.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(path, f, opts...)
}

// Load reads a grammar in EBNF notation from r. filename is used for error
// messages.
func Load(filename string, r io.Reader, opts ...Option) (*lr.Grammar, error) {
	c := &config{kinds: make(map[string]slrgen.TokType)}
	for k, v := range DefaultTokenKinds {
		c.kinds[k] = v
	}
	base := filepath.Base(filename)
	c.name = strings.TrimSuffix(base, filepath.Ext(base))
	for _, opt := range opts {
		opt(c)
	}
	ebnfGrammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	prods := nonterminalProductions(ebnfGrammar)
	if len(prods) == 0 {
		return nil, fmt.Errorf("%s: no non-terminal productions", filename)
	}
	if c.start != "" {
		if err := moveToFront(prods, c.start); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}
	tracer().Infof("loading grammar %s from %s, start symbol is %s", c.name, filename, prods[0].Name.String)
	l := &ldr{c: c, b: lr.NewGrammarBuilder(c.name), g: ebnfGrammar}
	for _, p := range prods {
		if err := l.production(p); err != nil {
			return nil, err
		}
	}
	return l.b.Grammar()
}

// nonterminalProductions returns the non-lexical productions in order of
// appearance.
func nonterminalProductions(g ebnf.Grammar) []*ebnf.Production {
	var prods []*ebnf.Production
	for name, p := range g {
		if !isLexical(name) {
			prods = append(prods, p)
		}
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})
	return prods
}

func moveToFront(prods []*ebnf.Production, start string) error {
	for i, p := range prods {
		if p.Name.String == start {
			copy(prods[1:i+1], prods[:i])
			prods[0] = p
			return nil
		}
	}
	return fmt.Errorf("start symbol %q is not a non-terminal production", start)
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// --- Translation of productions ---------------------------------------------

type ldr struct {
	c *config
	b *lr.GrammarBuilder
	g ebnf.Grammar
}

func (l *ldr) production(p *ebnf.Production) error {
	lhs := p.Name.String
	if p.Expr == nil {
		l.b.LHS(lhs).Epsilon()
		return nil
	}
	if alt, ok := p.Expr.(ebnf.Alternative); ok {
		for _, x := range alt {
			if err := l.rule(lhs, x); err != nil {
				return err
			}
		}
		return nil
	}
	return l.rule(lhs, p.Expr)
}

func (l *ldr) rule(lhs string, x ebnf.Expression) error {
	rb := l.b.LHS(lhs)
	var seq ebnf.Sequence
	switch s := x.(type) {
	case ebnf.Sequence:
		seq = s
	case nil:
	default:
		seq = ebnf.Sequence{x}
	}
	for _, item := range seq {
		switch it := item.(type) {
		case *ebnf.Name:
			if !isLexical(it.String) {
				rb.N(it.String)
				continue
			}
			kind, ok := l.c.kinds[it.String]
			if !ok {
				return fmt.Errorf("%v: no token type for terminal %q", it.Pos(), it.String)
			}
			rb.T(it.String, kind)
		case *ebnf.Token:
			if it.String == "" {
				continue // epsilon
			}
			rb.L(it.String)
		default:
			return fmt.Errorf("%v: %s not supported in rule for %s", item.Pos(), notation(item), lhs)
		}
	}
	rb.End()
	return nil
}

// notation names unsupported EBNF expressions for error messages.
func notation(x ebnf.Expression) string {
	switch it := x.(type) {
	case *ebnf.Group:
		return "group (…)"
	case *ebnf.Option:
		return "option […]"
	case *ebnf.Repetition:
		return "repetition {…}"
	case *ebnf.Range:
		return "range " + it.Begin.String + "…" + it.End.String
	case ebnf.Alternative:
		return "nested alternative"
	case *ebnf.Bad:
		return "bad expression: " + it.Error
	}
	return fmt.Sprintf("%T", x)
}
