/*
Package slr provides an SLR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The SLR parser
utilizes these tables to create a right derivation for a given input,
provided through a scanner interface, and returns the concrete syntax tree
(CST) of the input.

This parser is intended for small to moderate grammars, e.g. for configuration
input or small domain-specific languages. It is *not* intended for full-fledged
programming languages (there are superb other tools around for these kinds of
usages, usually creating LALR(1)-parsers, which are able to recognize a super-set
of SLR-languages).

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step. If you want, you
can create a grammar from user input and use a parser for it in a couple of
lines of code.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  --> Sign Id
	b.LHS("Sign").L("+").End()                          // Sign --> +
	b.LHS("Sign").L("-").End()                          // Sign --> -
	b.LHS("Sign").Epsilon()                             // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		// cannot use an SLR parser
	}

Finally parse some input:

	p, err := slr.NewParser(lrgen)
	scan := scanner.GoTokenizer("input", strings.NewReader("+a"))
	tree, err := p.Parse(scan)

A rejected input results in a *ParseError, which reports the state of the
parser, the offending token and what the parser would have expected instead.
A Parser is not modified by parsing, thus it may be shared between goroutines.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slr

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'slrgen.slr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.slr")
}
