package grammar

import (
	"errors"

	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/semiring"
)

// Builder is a fluent interface for constructing grammars. The head of the
// first rule is the start symbol, unless set with Start.
type Builder[W any] struct {
	name  string
	sr    semiring.Semiring[W]
	start string
	rules []Rule[W]
	errs  []error
}

// NewBuilder returns a new grammar builder for weights of sr.
func NewBuilder[W any](name string, sr semiring.Semiring[W]) *Builder[W] {
	return &Builder[W]{name: name, sr: sr}
}

// Start sets the start symbol.
func (b *Builder[W]) Start(name string) *Builder[W] {
	b.start = name
	return b
}

// LHS starts a new rule with head name.
func (b *Builder[W]) LHS(name string) *RuleBuilder[W] {
	if b.start == "" {
		b.start = name
	}
	return &RuleBuilder[W]{
		b:    b,
		rule: Rule[W]{Head: N(name), Weight: b.sr.One()},
	}
}

// Grammar returns the grammar built so far.
func (b *Builder[W]) Grammar() (*Grammar[W], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	g, err := New(b.sr, b.start, b.rules, Named(b.name))
	if err != nil {
		tracer().Errorf("grammar %s: %v", b.name, err)
		return nil, err
	}
	return g, nil
}

// RuleBuilder collects the right hand side of a rule.
type RuleBuilder[W any] struct {
	b    *Builder[W]
	rule Rule[W]
}

// N appends a non-terminal to the rule's body.
func (rb *RuleBuilder[W]) N(name string) *RuleBuilder[W] {
	rb.rule.Body = append(rb.rule.Body, N(name))
	return rb
}

// T appends a terminal to the rule's body.
func (rb *RuleBuilder[W]) T(name string) *RuleBuilder[W] {
	rb.rule.Body = append(rb.rule.Body, T(name))
	return rb
}

// Weight sets the rule's weight. Default is 1̄.
func (rb *RuleBuilder[W]) Weight(w W) *RuleBuilder[W] {
	rb.rule.Weight = w
	return rb
}

// P sets the rule's weight from a probability. The grammar's semiring has
// to be a semiring.Lifter.
func (rb *RuleBuilder[W]) P(p float64) *RuleBuilder[W] {
	w, err := semiring.Lift(rb.b.sr, p)
	if err != nil {
		rb.b.errs = append(rb.b.errs, err)
	}
	rb.rule.Weight = w
	return rb
}

// End finishes the rule and adds it to the grammar.
func (rb *RuleBuilder[W]) End() *Builder[W] {
	if len(rb.rule.Body) == 0 {
		rb.b.errs = append(rb.b.errs, wcfg.Malformed("rule for %s has empty body, use Epsilon", rb.rule.Head.Name))
		return rb.b
	}
	rb.b.rules = append(rb.b.rules, rb.rule)
	return rb.b
}

// Epsilon adds an empty rule A → ε with weight w.
func (rb *RuleBuilder[W]) Epsilon(w W) *Builder[W] {
	rb.rule.Body = nil
	rb.rule.Weight = w
	rb.b.rules = append(rb.b.rules, rb.rule)
	return rb.b
}
