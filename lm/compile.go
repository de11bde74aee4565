package lm

import (
	"fmt"

	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/chart"
	"github.com/npillmayer/wcfg/cky"
	"github.com/npillmayer/wcfg/earley"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/grammar/transform"
)

// EOS is the pseudo-terminal denoting the end of input in PNext results.
// Grammars must not use it as a terminal.
const EOS = "EOS"

// Backend selects the parsing algorithm of a model.
type Backend int

// Backends for models.
const (
	Earley Backend = iota // rescaled weighted Earley parser
	CKY                   // incremental CKY parser
)

func (b Backend) String() string {
	switch b {
	case Earley:
		return "earley"
	case CKY:
		return "cky"
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend maps "earley" or "cky" to a backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "earley", "Earley":
		return Earley, nil
	case "cky", "CKY":
		return CKY, nil
	}
	return Earley, fmt.Errorf("unknown parser backend %q", s)
}

// Parser is the interface shared by the parsers of packages cky and earley.
type Parser[W any] interface {
	Extend(a string)
	Len() int
	Words() []string
	TotalWeight() W
	PrefixWeight() (W, error)
	Lookahead() (chart.Lookahead[W], error)
}

var _ Parser[float64] = (*cky.Parser[float64])(nil)
var _ Parser[float64] = (*earley.Parser[float64])(nil)

// Compiled is a grammar prepared for a parser backend. It is immutable and
// may be shared.
type Compiled[W any] struct {
	Source  *grammar.Grammar[W] // grammar as given by the client
	Grammar *grammar.Grammar[W] // ε-free, unary-free prefix grammar for Backend
	Backend Backend
	Empty   W // weight of the empty string in Source
	Mass    W // total weight of all strings of Source
}

// Compile prepares g for backend b. It removes ε-rules and unary chains and
// adds a prefix grammar. For CKY, rules are binarized and terminals lifted.
//
// Errors of the transformations are passed through. A terminal named EOS is
// rejected with wcfg.ErrMalformedGrammar.
func Compile[W any](g *grammar.Grammar[W], b Backend, opts ...transform.Option) (*Compiled[W], error) {
	if g.IsTerminal(EOS) {
		return nil, wcfg.Malformed("grammar %s uses reserved terminal %q", g.Name, EOS)
	}
	sr := g.Semiring()
	null, err := transform.NullWeights(g, opts...)
	if err != nil {
		return nil, err
	}
	c := &Compiled[W]{Source: g, Backend: b, Empty: null[g.MustID(g.Start())]}
	h, err := transform.RemoveNullary(g, opts...)
	if err != nil {
		return nil, err
	}
	Z, err := transform.Partition(h, opts...)
	if err != nil {
		return nil, err
	}
	c.Mass = sr.Add(Z[h.MustID(h.Start())], c.Empty)
	steps := []transform.Step[W]{
		transform.With(transform.Prefix[W], opts...),
		transform.With(transform.RemoveUnary[W], opts...),
		transform.With(transform.Trim[W], opts...),
	}
	if b == CKY {
		steps = append(steps,
			transform.With(transform.Binarize[W], opts...),
			transform.With(transform.LiftTerminals[W], opts...),
		)
	}
	steps = append(steps, transform.With(transform.Renumber[W], opts...))
	if c.Grammar, err = transform.Pipeline(h, steps...); err != nil {
		return nil, err
	}
	if _, err = c.newParser(nil); err != nil { // fail early for unusable grammars
		return nil, err
	}
	tracer().Infof("compiled grammar %s for %s: %d non-terminals, %d rules",
		g.Name, b, c.Grammar.NonTerminalCount(), c.Grammar.RuleCount())
	return c, nil
}

func (c *Compiled[W]) newParser(eopts []earley.Option) (Parser[W], error) {
	if c.Backend == CKY {
		return cky.NewParser(c.Grammar)
	}
	return earley.NewParser(c.Grammar, eopts...)
}
