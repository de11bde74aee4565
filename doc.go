/*
Package wcfg is a toolbox for weighted context-free grammars.

Grammars are parameterized by a semiring, which makes the same parsers answer
different questions: total probability of a string (Float, Log), membership
(Boolean), best derivation (MaxPlus, MaxTimes), or expectations and entropy
of the derivation distribution (Expectation, Entropy).
Package structure is as follows:

■ semiring: Package semiring defines the weight algebra and its variants.

■ grammar: Package grammar implements weighted rules and grammars, together with
a builder and a construction interface for rule triples. Sub-package transform
implements the normalization pipeline (nullary and unary removal, binarization,
prefix grammars, truncation, local normalization, renumbering).

■ chart: Package chart implements sparse weighted charts used by the parsers.

■ cky and earley: Chart parsers. Package cky implements an incremental CKY
parser, package earley a weighted Earley parser with rescaling against
floating point underflow.

■ lm: Package lm wraps either parser into a language model, exposing prefix
weights and next-symbol weights for grammar-constrained decoding.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package wcfg
