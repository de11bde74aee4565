package transform

import (
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/sparse"
)

// RemoveUnary replaces chains of unary rules A ⇒ B by direct rules. With U
// being the matrix of unary rule weights and U* its closure, every non-unary
// rule B → γ @ w yields A → γ @ U*(A,B) ⊗ w.
//
// The closure requires the Kleene-star of the semiring. Unary cycles with a
// divergent weight make RemoveUnary fail with wcfg.ErrUnsupportedOperation.
func RemoveUnary[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	sr := g.Semiring()
	n := g.NonTerminalCount()
	U := sparse.New(sr, n, n)
	unaries := 0
	for _, r := range g.Rules() {
		if r.IsUnary() {
			U.Add(g.MustID(r.Head), g.MustID(r.Body[0]), r.Weight)
			unaries++
		}
	}
	if unaries == 0 {
		return g, nil
	}
	closure, err := sparse.Closure(U)
	if err != nil {
		tracer().Errorf("closure of unary rules of %s: %v", g.Name, err)
		return nil, err
	}
	var rules []grammar.Rule[W]
	for A := 0; A < n; A++ {
		closure.Row(A, func(B int, c W) {
			for _, r := range g.RulesForID(B) {
				if r.IsUnary() {
					continue
				}
				w := sr.Mul(c, r.Weight)
				if sr.IsZero(w) {
					continue
				}
				rules = append(rules, grammar.Rule[W]{
					Head:   g.NonTerminal(A),
					Body:   append([]grammar.Symbol(nil), r.Body...),
					Weight: w,
				})
			}
		})
	}
	h, err := grammar.New(sr, g.Start().Name, rules, append(g.Options(), grammar.WithOrder(names(g)...))...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("removed %d unary rules from %s", unaries, g.Name)
	return h, nil
}

// names lists the non-terminals of g in ID order.
func names[W any](g *grammar.Grammar[W]) []string {
	nn := make([]string, 0, g.NonTerminalCount())
	g.EachNonTerminal(func(id int, A grammar.Symbol) {
		nn = append(nn, A.Name)
	})
	return nn
}
