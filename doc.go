/*
Package slrgen is a compiler front-end toolkit centered on SLR(1) parsing.

Slrgen analyses context-free grammars (FIRST, FOLLOW and SELECT sets, LL(1)
check), transforms them (removal of left recursion, extraction of left common
factors), builds the canonical LR(0) collection and an SLR(1) parse table, and
drives token streams through that table to create concrete syntax trees.
Package structure is as follows:

■ lr: Package lr implements grammars, grammar analysis and the construction of
LR(0) automata and SLR(1) tables.

■ lr/slr: Package slr implements a shift-reduce parser driven by SLR(1) tables.

■ lr/cst: Package cst implements concrete syntax trees produced by the parser.

■ lr/scanner: Package scanner defines the tokenizer interface the parser consumes.

■ lr/loader: Package loader reads grammars from plain EBNF files.

■ cmd/slrgen: A command line tool to analyse grammars, print parser tables and
parse input, interactively or in batch.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slrgen
