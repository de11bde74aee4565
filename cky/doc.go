/*
Package cky implements an incremental weighted CKY parser.

The parser accepts grammars in a relaxed Chomsky normal form: rules are
binary A → B C over non-terminals, preterminal A → a, or unary A → B
without cycles. Package transform produces this form (RemoveNullary,
RemoveUnary, Binarize, LiftTerminals).

Input is consumed one terminal at a time. Extending the input by a terminal
computes exactly the new chart column, i.e. the weights of all spans ending
at the new position, re-using the spans stored for shorter prefixes.
Lookahead computes tentative columns for every terminal of the grammar
without committing any of them, which yields next-symbol weights for
grammar-constrained decoding.

    p, err := cky.NewParser(g)
    p.Extend("a")
    p.Extend("b")
    w := p.TotalWeight()

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cky

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wcfg.parse'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.parse")
}
