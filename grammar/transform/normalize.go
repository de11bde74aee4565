package transform

import (
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/semiring"
)

// LocallyNormalize divides every rule weight by the total weight of the
// rules sharing its head. Heads with a total of 0̄ are left alone. The
// semiring has to be ring-like and support division. For idempotent
// semirings such as MaxPlus, ⊕ selects instead of summing and local
// normalization is undefined; wcfg.ErrUnsupportedOperation is returned.
func LocallyNormalize[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	sr := g.Semiring()
	if sr.Caps().Has(semiring.Idempotent) {
		return nil, wcfg.Unsupported("local normalization is undefined for idempotent semiring %s", sr.Name())
	}
	div, ok := sr.(semiring.Divider[W])
	if !ok {
		return nil, wcfg.Unsupported("local normalization needs division, semiring %s has none", sr.Name())
	}
	rules := g.CopyRules()
	for id := 0; id < g.NonTerminalCount(); id++ {
		total := sr.Zero()
		for _, r := range g.RulesForID(id) {
			total = sr.Add(total, r.Weight)
		}
		if sr.IsZero(total) {
			continue
		}
		for _, r := range g.RulesForID(id) {
			w, err := div.Div(r.Weight, total)
			if err != nil {
				return nil, err
			}
			rules[r.Serial].Weight = w
		}
	}
	return grammar.New(sr, g.Start().Name, rules, append(g.Options(), grammar.WithOrder(names(g)...))...)
}
