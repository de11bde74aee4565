/*
Package lm turns a weighted grammar into a language model for
grammar-constrained decoding.

A grammar is compiled once: ε-rules and unary chains are removed, a prefix
grammar is added, and, for the CKY backend, rules are binarized. The
resulting Model hands out States, each representing a prefix of terminals.
For a state, the model reports the weight of the prefix and the weights of
extending it by every terminal or ending it (EOS).

	model, err := lm.New(g, lm.WithBackend(lm.Earley))
	st := model.Initial()
	st = model.Extend(st, "a")
	next, err := model.PNext(st)   // map terminal → weight, plus lm.EOS

For semirings with division, PNext yields conditional weights, normalized
by the weight of the prefix. Otherwise raw prefix weights are returned.

States are cheap handles onto a parser owned by the state's session.
Extending a state invalidates it; using a stale state afterwards panics.

Compiled grammars may be shared between clients through a Cache.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lm

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wcfg.lm'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.lm")
}
