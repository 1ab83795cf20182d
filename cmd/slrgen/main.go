/*
Command slrgen builds SLR(1) parsers from grammar files and runs them.

Grammars are read from files in EBNF notation (see package lr/loader). The
sub-commands let users inspect the grammar analysis, print the parser tables,
export the characteristic finite state machine, parse input and experiment
with a grammar interactively:

    slrgen analyze expr.ebnf
    slrgen table expr.ebnf
    slrgen parse expr.ebnf "a + b * c"
    slrgen dot expr.ebnf > cfsm.dot
    slrgen repl expr.ebnf

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package main

import (
	"fmt"
	"os"
)

func main() {
	err := Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
