/*
Package lr implements prerequisites for LR parsing: grammars, grammar
transformations, static grammar analysis, and the construction of the LR(0)
automaton together with SLR(1) parse tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token type, which is used to project scanner tokens onto grammar
terminals. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->
    g, err := b.Grammar()

This results in the following trivial grammar:

   g.Dump()

   0: [S'] ::= [S]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= []
   5: [D] ::= [d]
   6: [D] ::= []

Rule 0 is added by the builder. It is the start rule of the augmented grammar
and reducing it means accepting the input.

Rules live in an append-only arena and are referenced by their serial number.
Grammar transformations (RemoveLeftRecursion, LeftFactor) retire rules and
append new ones, and they bump the grammar's version. Analysis objects and table
generators created for an older version refuse to operate on the mutated grammar.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST, FOLLOW and
SELECT sets for the grammar.

    ga := lr.Analysis(g)
    first, ok := ga.First("A")     // { b, d, ε }
    follow, ok := ga.Follow("A")   // { a }

FIRST and FOLLOW are computed by fixed-point iteration, thus mutual recursion
between FOLLOW sets is handled correctly.

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar, i.e. the canonical collection of LR(0) item sets. The CFSM will then
be transformed into a GOTO table and an ACTION table for an SLR(1) parser.
The CFSM will not be thrown away, but is made available to the client.  This is
intended for debugging purposes, but may be useful for error recovery, too.
It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is an LRAnalysis, see above
    if err := lrgen.CreateTables(); err != nil {
        // grammar is not SLR(1), err lists the conflicts
    }

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}
