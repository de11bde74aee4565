package transform

import (
	"github.com/npillmayer/wcfg/grammar"
)

// RemoveNullary returns an ε-free grammar deriving every non-empty string
// with the same weight as g. The weight of the empty string is lost; clients
// needing it should compute NullWeights beforehand.
//
// Every rule is expanded into the variants which omit some of its nullable
// body symbols X, folding null(X) into the rule weight.
func RemoveNullary[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	null, err := NullWeights(g, opts...)
	if err != nil {
		return nil, err
	}
	sr := g.Semiring()
	isNullable := nullable(g, null)
	var rules []grammar.Rule[W]
	for _, r := range g.Rules() {
		var positions []int
		for i, s := range r.Body {
			if id, ok := g.ID(s); ok && isNullable[id] {
				positions = append(positions, i)
			}
		}
		// every bit set in mask drops the corresponding nullable position
		for mask := 0; mask < 1<<len(positions); mask++ {
			w := r.Weight
			dropped := make(map[int]bool, len(positions))
			for bit, pos := range positions {
				if mask&(1<<bit) != 0 {
					dropped[pos] = true
					w = sr.Mul(w, null[g.MustID(r.Body[pos])])
				}
			}
			var body []grammar.Symbol
			for i, s := range r.Body {
				if !dropped[i] {
					body = append(body, s)
				}
			}
			if len(body) == 0 || sr.IsZero(w) {
				continue
			}
			rules = append(rules, grammar.Rule[W]{Head: r.Head, Body: body, Weight: w})
		}
	}
	h, err := grammar.New(sr, g.Start().Name, rules, g.Options()...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("removed nullary rules from %s: %d rules → %d rules", g.Name, g.RuleCount(), h.RuleCount())
	return h, nil
}
