/*
Package grammar implements weighted context-free grammars.

Grammars are specified using a grammar builder object. Clients add
weighted rules, consisting of non-terminal symbols and terminals. Weights
are elements of a semiring, which is fixed for the whole grammar. Rules
without an explicit weight carry the semiring's 1̄. Grammars may contain
epsilon-productions.

Example:

    b := grammar.NewBuilder[float64]("G", semiring.Float{})
    b.LHS("S").T("a").N("S").T("b").Weight(0.3).End()  // S  ->  a S b   @ 0.3
    b.LHS("S").Epsilon(0.7)                             // S  ->          @ 0.7
    g, err := b.Grammar()

This results in the following trivial grammar:

   g.Dump()

   0: S → a S b  @ 0.3
   1: S → ε      @ 0.7

Grammars are immutable. Transformations (see sub-package transform) always
return a new grammar. Rules with identical head and body are merged by
adding their weights. Non-terminals are numbered densely, starting with the
start symbol; clients address non-terminals by ID(symbol) wherever dense
indexing is needed, e.g., in charts.

Grammars may alternatively be constructed from rule triples with FromTriples,
which validates declared alphabets against the rules.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wcfg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.grammar")
}
