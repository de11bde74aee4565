/*
Package earley implements a weighted Earley parser.

The parser works on ε-free grammars without cycles of unary rules, over any
semiring. Input is consumed one terminal at a time; for every input position
the parser keeps a set of weighted items (A → α • β, i). A position is
processed in three phases:

■ Scan: items waiting for the new terminal move their dot.

■ Complete: completed items are propagated to the items waiting for their
head. A priority queue orders completed items by start position (descending)
and by the unary rank of their head, so every completed item carries its
final weight before it is propagated.

■ Predict: items for non-terminals some item is waiting for are added with
weight 1̄.

Long inputs make weights of probabilistic grammars underflow. For semirings
implementing semiring.Scaler the parser therefore rescales every position:
all items which are not predictions are divided by their sum, and the scale
factors are accumulated as a logarithm. Total and prefix weights re-apply the
accumulated scale; lookahead weights stay in the current scale, which does
not affect their ratios. Rescaling is on by default; it may be switched off
per parser or globally with configuration key "earley-no-rescale".

A pointer to the original algorithm:

   Jay Earley: An Efficient Context-Free Parsing Algorithm.
   Communications of the ACM 13 (2), 1970.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package earley

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wcfg.parse'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.parse")
}
