/*
Package transform implements normalization transforms for weighted grammars.

Every transform takes a grammar and returns a new one, leaving its input
untouched. Transforms preserve the weight of every string unless stated
otherwise:

   RemoveNullary     drops ε-rules; the empty string loses its weight
   RemoveUnary       replaces chains A ⇒ B by direct rules
   Binarize          right-branching binarization of long rule bodies
   LiftTerminals     preterminals for terminals inside binary bodies
   LocallyNormalize  rule weights per head sum to 1̄ (changes weights)
   Truncate          restricts the language to strings of bounded length
   Renumber          renumbers non-terminals, no semantic change
   Prefix            adds a start symbol for the prefix language
   Trim              removes useless rules and symbols

Fixpoint values of non-terminals are available through NullWeights (the
weight of the empty string derived from a non-terminal) and Partition (the
total weight of a non-terminal's language).

Transforms may be chained with Compose. Fixpoint iterations are configured
with options; the global configuration key "fixpoint-max-iterations" overrides
the default iteration cap.

    step := transform.Compose(
        transform.With(transform.RemoveNullary[float64]),
        transform.With(transform.RemoveUnary[float64]),
        transform.With(transform.Binarize[float64]),
    )
    cnf, err := step(g)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package transform

import (
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wcfg/grammar"
)

// tracer traces with key 'wcfg.transform'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.transform")
}

// Defaults for fixpoint iterations.
const (
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 10000
)

// Option configures transforms which iterate to a fixpoint.
type Option func(*options)

type options struct {
	tolerance     float64
	maxIterations int
}

// Tolerance sets the convergence tolerance of fixpoint iterations.
func Tolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// MaxIterations caps the number of Newton steps (or fixpoint passes) for
// ring-like semirings.
func MaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

func collect(opts []Option) options {
	o := options{tolerance: DefaultTolerance, maxIterations: DefaultMaxIterations}
	if n := gconf.GetInt("fixpoint-max-iterations"); n > 0 {
		o.maxIterations = n
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Step is a single grammar transformation.
type Step[W any] func(*grammar.Grammar[W]) (*grammar.Grammar[W], error)

// With turns a transform with options into a Step.
func With[W any](f func(*grammar.Grammar[W], ...Option) (*grammar.Grammar[W], error), opts ...Option) Step[W] {
	return func(g *grammar.Grammar[W]) (*grammar.Grammar[W], error) {
		return f(g, opts...)
	}
}

// Compose chains steps from left to right. The first error stops the chain.
func Compose[W any](steps ...Step[W]) Step[W] {
	return func(g *grammar.Grammar[W]) (*grammar.Grammar[W], error) {
		var err error
		for _, step := range steps {
			if g, err = step(g); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
}

// Pipeline applies steps to g from left to right.
func Pipeline[W any](g *grammar.Grammar[W], steps ...Step[W]) (*grammar.Grammar[W], error) {
	return Compose(steps...)(g)
}
