package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/slrgen"
	"github.com/npillmayer/slrgen/lr"
	"github.com/npillmayer/slrgen/lr/loader"
	"github.com/npillmayer/slrgen/lr/scanner"
	"github.com/npillmayer/slrgen/lr/scanner/lexmach"
	"github.com/npillmayer/slrgen/lr/slr"
)

// tokenKinds names the token types of the default tokenizer for --token flags.
var tokenKinds = map[string]slrgen.TokType{
	"Ident":     scanner.Ident,
	"Int":       scanner.Int,
	"Float":     scanner.Float,
	"Char":      scanner.Char,
	"String":    scanner.String,
	"RawString": scanner.RawString,
	"Comment":   scanner.Comment,
}

// splitAssignment splits "key=value".
func splitAssignment(s string) (string, string, error) {
	i := strings.IndexByte(s, '=')
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("expected key=value, have %q", s)
	}
	return s[:i], s[i+1:], nil
}

// tokenKind reads a token type from a name of tokenKinds, a number, or a
// quoted single character.
func tokenKind(s string) (slrgen.TokType, error) {
	if k, ok := tokenKinds[s]; ok {
		return k, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return slrgen.TokType(n), nil
	}
	if r, err := strconv.Unquote(s); err == nil && len([]rune(r)) == 1 {
		return slrgen.TokType([]rune(r)[0]), nil
	}
	return 0, fmt.Errorf("unknown token type %q", s)
}

// loaderOptions translates the command line flags into options for the
// grammar loader.
func loaderOptions(start string, tokens []string) ([]loader.Option, error) {
	var opts []loader.Option
	if start != "" {
		opts = append(opts, loader.WithStart(start))
	}
	for _, t := range tokens {
		kindname, sym, err := splitAssignment(t)
		if err != nil {
			return nil, err
		}
		kind, err := tokenKind(kindname)
		if err != nil {
			return nil, err
		}
		opts = append(opts, loader.WithTokenKind(sym, kind))
	}
	return opts, nil
}

// transform applies grammar transformations in order.
func transform(g *lr.Grammar, transforms []string) error {
	for _, t := range transforms {
		switch t {
		case "leftrec":
			if err := g.RemoveLeftRecursion(); err != nil {
				return err
			}
		case "factor":
			n := g.LeftFactor()
			tracer().Infof("left factoring introduced %d non-terminals", n)
		default:
			return fmt.Errorf("unknown grammar transformation %q", t)
		}
	}
	return nil
}

// loadGrammar loads a grammar file as directed by the command line flags.
func loadGrammar(path string) (*lr.Grammar, error) {
	opts, err := loaderOptions(*rootFlags.start, *rootFlags.tokens)
	if err != nil {
		return nil, err
	}
	g, err := loader.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := transform(g, *rootFlags.transforms); err != nil {
		return nil, err
	}
	return g, nil
}

// generate analyses a grammar and creates its SLR(1) tables. For grammars with
// conflicts, the table generator is returned together with the conflict error.
func generate(g *lr.Grammar) (*lr.TableGenerator, error) {
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	err := lrgen.CreateTables()
	return lrgen, err
}

// --- Parsing ---------------------------------------------------------------

// frontend bundles a parser with a scanner factory for input strings.
type frontend struct {
	lrgen  *lr.TableGenerator
	parser *slr.Parser
	scan   func(input string) (scanner.Tokenizer, error)
}

// newFrontend creates a parser for a grammar and a scanner as selected by
// flag --lexer.
func newFrontend(lrgen *lr.TableGenerator, lexer string, patterns []string, skip string) (*frontend, error) {
	switch lexer {
	case "go":
		p, err := slr.NewParser(lrgen)
		if err != nil {
			return nil, err
		}
		return &frontend{
			lrgen:  lrgen,
			parser: p,
			scan: func(input string) (scanner.Tokenizer, error) {
				return scanner.GoTokenizer("input", strings.NewReader(input), scanner.SkipComments(true)), nil
			},
		}, nil
	case "lexmachine":
		pm := make(map[string]string, len(patterns))
		for _, p := range patterns {
			sym, re, err := splitAssignment(p)
			if err != nil {
				return nil, err
			}
			pm[sym] = re
		}
		LM, tokens, err := lexmach.ForGrammar(lrgen.Grammar(), pm, skip)
		if err != nil {
			return nil, err
		}
		p, err := slr.NewParser(lrgen, slr.TokenMap(tokens))
		if err != nil {
			return nil, err
		}
		return &frontend{
			lrgen:  lrgen,
			parser: p,
			scan: func(input string) (scanner.Tokenizer, error) {
				return LM.Scanner(input)
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown lexer %q", lexer)
}

// prepare loads a grammar file and creates a frontend for it.
func prepare(path string) (*frontend, error) {
	g, err := loadGrammar(path)
	if err != nil {
		return nil, err
	}
	lrgen, err := generate(g)
	if err != nil {
		return nil, err
	}
	return newFrontend(lrgen, *rootFlags.lexer, *rootFlags.patterns, *rootFlags.skip)
}
