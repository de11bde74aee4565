/*
Package ebnfgrammar creates weighted grammars from EBNF grammars in the
notation of golang.org/x/exp/ebnf (the notation of the Go language
specification).

Every production becomes a non-terminal. Groups, options and repetitions
inside a production are replaced by synthetic non-terminals. All rules for a
non-terminal get the same probability, 1/n for n alternatives, lifted into
the target semiring.

Lexical productions (names starting with a lowercase letter) are, by
default, not expanded: they become terminals named after the production and
are expected to be delivered by a scanner classifying tokens by category.
With option ExpandLexical they are converted to character-level rules like
all other productions.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ebnfgrammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wcfg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.grammar")
}
