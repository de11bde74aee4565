/*
Command wcfg is a command line tool for weighted context-free grammars.

Grammars are read from YAML rule files (see internal/rulesfile) or from EBNF
files (extension ".ebnf", see package ebnfgrammar).

	wcfg check anbn.yaml              # compile and print statistics
	wcfg score anbn.yaml a a b b      # weight of a string and of its prefix
	wcfg next  anbn.yaml a            # weights of the next symbol
	wcfg repl  anbn.yaml              # extend a prefix interactively

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wcfg.cli'
func tracer() tracing.Trace {
	return tracing.Select("wcfg.cli")
}
