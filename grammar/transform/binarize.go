package transform

import (
	"strings"

	"github.com/npillmayer/wcfg/grammar"
)

// Binarize splits rule bodies longer than two symbols, right-branching:
//
//    A → X₁ X₂ … Xₖ @ w   ⇒   A → X₁ ⟨X₂…Xₖ⟩ @ w,  ⟨X₂…Xₖ⟩ → X₂ ⟨X₃…Xₖ⟩ @ 1̄, …
//
// Synthetic non-terminals are shared between rules with identical body
// suffixes. String weights are preserved.
func Binarize[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	sr := g.Semiring()
	namer := grammar.NewNamer(g)
	suffixes := make(map[string]grammar.Symbol)
	var rules []grammar.Rule[W]
	var synthesize func(body []grammar.Symbol) grammar.Symbol
	synthesize = func(body []grammar.Symbol) grammar.Symbol {
		key := suffixKey(body)
		if N, ok := suffixes[key]; ok {
			return N
		}
		N := grammar.N(namer.Fresh("⟨" + key + "⟩"))
		suffixes[key] = N
		rest := []grammar.Symbol{body[0], body[1]}
		if len(body) > 2 {
			rest[1] = synthesize(body[1:])
		}
		rules = append(rules, grammar.Rule[W]{Head: N, Body: rest, Weight: sr.One()})
		return N
	}
	split := 0
	for _, r := range g.Rules() {
		if len(r.Body) <= 2 {
			rules = append(rules, grammar.Rule[W]{Head: r.Head, Body: r.Body, Weight: r.Weight})
			continue
		}
		split++
		body := []grammar.Symbol{r.Body[0], synthesize(r.Body[1:])}
		rules = append(rules, grammar.Rule[W]{Head: r.Head, Body: body, Weight: r.Weight})
	}
	if split == 0 {
		return g, nil
	}
	h, err := grammar.New(sr, g.Start().Name, rules, append(g.Options(), grammar.WithOrder(names(g)...))...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("binarized %d rules of %s using %d synthetic non-terminals", split, g.Name, len(suffixes))
	return h, nil
}

func suffixKey(body []grammar.Symbol) string {
	parts := make([]string, len(body))
	for i, s := range body {
		parts[i] = s.Name
	}
	return strings.Join(parts, " ")
}

// LiftTerminals replaces terminals a occuring in bodies of length two by
// preterminals T → a @ 1̄. Afterwards every rule is either A → B C or A → a
// (or unary/ε, if present before).
func LiftTerminals[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	sr := g.Semiring()
	namer := grammar.NewNamer(g)
	pre := make(map[string]grammar.Symbol)
	var rules []grammar.Rule[W]
	lift := func(a grammar.Symbol) grammar.Symbol {
		if T, ok := pre[a.Name]; ok {
			return T
		}
		T := grammar.N(namer.Fresh("^" + a.Name))
		pre[a.Name] = T
		rules = append(rules, grammar.Rule[W]{Head: T, Body: []grammar.Symbol{a}, Weight: sr.One()})
		return T
	}
	for _, r := range g.Rules() {
		body := r.Body
		if len(body) == 2 && (body[0].IsTerminal() || body[1].IsTerminal()) {
			body = append([]grammar.Symbol(nil), body...)
			for i, s := range body {
				if s.IsTerminal() {
					body[i] = lift(s)
				}
			}
		}
		rules = append(rules, grammar.Rule[W]{Head: r.Head, Body: body, Weight: r.Weight})
	}
	if len(pre) == 0 {
		return g, nil
	}
	h, err := grammar.New(sr, g.Start().Name, rules, append(g.Options(), grammar.WithOrder(names(g)...))...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("lifted %d terminals of %s to preterminals", len(pre), g.Name)
	return h, nil
}
