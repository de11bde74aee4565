package transform

import (
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
)

// Prefix extends an ε-free grammar by a prefix non-terminal A' for every
// non-terminal A. A' derives every non-empty prefix x of A's strings, with
// weight ⊕ { w(xy) | y }, i.e., the total weight of all completions of x.
// For every rule A → X₁…Xₖ @ w and 1 ≤ i ≤ k there is a rule
//
//    A' → X₁ … Xᵢ₋₁ Xᵢ'  @  w ⊗ Z(Xᵢ₊₁) ⊗ … ⊗ Z(Xₖ)
//
// where Z is the partition function and a' = a for terminals. The new grammar
// has S' as its prefix start.
//
// Prefix returns wcfg.ErrMalformedGrammar for grammars with ε-rules.
func Prefix[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	if g.HasEpsilonRules() {
		return nil, wcfg.Malformed("prefix grammar needs an ε-free grammar, %s has ε-rules", g.Name)
	}
	Z, err := Partition(g, opts...)
	if err != nil {
		return nil, err
	}
	sr := g.Semiring()
	namer := grammar.NewNamer(g)
	primed := make([]grammar.Symbol, g.NonTerminalCount())
	g.EachNonTerminal(func(id int, A grammar.Symbol) {
		primed[id] = grammar.N(namer.Fresh(A.Name + "'"))
	})
	prime := func(X grammar.Symbol) grammar.Symbol {
		if X.IsTerminal() {
			return X
		}
		return primed[g.MustID(X)]
	}
	rules := g.CopyRules()
	for _, r := range g.Rules() {
		k := len(r.Body)
		// suffix[i] = Z(Xᵢ₊₁) ⊗ … ⊗ Z(Xₖ), zero-based
		suffix := make([]W, k)
		acc := sr.One()
		for i := k - 1; i >= 0; i-- {
			suffix[i] = acc
			if X := r.Body[i]; !X.IsTerminal() {
				acc = sr.Mul(Z[g.MustID(X)], acc)
			}
		}
		for i := 0; i < k; i++ {
			w := sr.Mul(r.Weight, suffix[i])
			if sr.IsZero(w) {
				continue
			}
			body := append([]grammar.Symbol(nil), r.Body[:i]...)
			body = append(body, prime(r.Body[i]))
			rules = append(rules, grammar.Rule[W]{Head: prime(r.Head), Body: body, Weight: w})
		}
	}
	S := prime(g.Start())
	opts2 := append(g.Options(), grammar.WithPrefixStart(S.Name), grammar.WithOrder(names(g)...))
	h, err := grammar.New(sr, g.Start().Name, rules, opts2...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("prefix grammar of %s has prefix start %s and %d rules", g.Name, S.Name, h.RuleCount())
	return h, nil
}
