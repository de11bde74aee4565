/*
Package semiring defines the weight algebra for weighted grammars.

A semiring (W, ⊕, ⊗, 0̄, 1̄) supplies an associative, commutative addition ⊕
with identity 0̄, and an associative multiplication ⊗ with identity 1̄, where
0̄ annihilates under ⊗ and ⊗ distributes over ⊕. Parsers are generic over the
weight type W and never look into a weight except through a Semiring.

Variants provided:

   Boolean       recognition
   Float (Real)  probabilities, total weight of derivations
   Log           negative-free log-probabilities, numerically safe sums
   MaxPlus       Viterbi score in log space
   MaxTimes      Viterbi probability
   Expectation   first-order expectation semiring over pairs (p, r)
   Entropy       expectation semiring specialized to derivation entropy

Some algorithms need more than the bare algebra. Capabilities are announced
by Caps and by optional interfaces: Divider (division, for local
normalization and conditional next-symbol weights), Scaler (division plus a
mapping to and from natural logarithms, for rescaling against underflow) and
Lifter (turn a probability into a weight, for grammar loaders).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package semiring
