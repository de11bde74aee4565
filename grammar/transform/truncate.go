package transform

import (
	"fmt"

	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
)

// TruncateTo returns a step which restricts a grammar to strings of length at
// most n.
func TruncateTo[W any](n int, opts ...Option) Step[W] {
	return func(g *grammar.Grammar[W]) (*grammar.Grammar[W], error) {
		return Truncate(g, n, opts...)
	}
}

// Truncate restricts the language of g to strings of length at most n, keeping
// their weights. It uses a product construction: non-terminal A/k derives
// exactly the strings of A of length k. A fresh start symbol S/≤n has rules
// S/≤n → S/k @ 1̄ for all k ≤ n. A prefix start of g is not carried over.
func Truncate[W any](g *grammar.Grammar[W], n int, opts ...Option) (*grammar.Grammar[W], error) {
	if n < 0 {
		return nil, wcfg.Malformed("cannot truncate grammar %s to negative length %d", g.Name, n)
	}
	sr := g.Semiring()
	namer := grammar.NewNamer(g)
	sized := make(map[string]grammar.Symbol)
	nt := func(A grammar.Symbol, k int) grammar.Symbol {
		key := fmt.Sprintf("%s/%d", A.Name, k)
		if S, ok := sized[key]; ok {
			return S
		}
		S := grammar.N(namer.Fresh(key))
		sized[key] = S
		return S
	}
	var rules []grammar.Rule[W]
	for _, r := range g.Rules() {
		for k := 0; k <= n; k++ {
			head := nt(r.Head, k)
			// distribute k symbols over the body positions
			var expand func(pos, remaining int, body []grammar.Symbol)
			expand = func(pos, remaining int, body []grammar.Symbol) {
				if pos == len(r.Body) {
					if remaining == 0 {
						rules = append(rules, grammar.Rule[W]{
							Head:   head,
							Body:   append([]grammar.Symbol(nil), body...),
							Weight: r.Weight,
						})
					}
					return
				}
				X := r.Body[pos]
				if X.IsTerminal() {
					if remaining >= 1 {
						expand(pos+1, remaining-1, append(body, X))
					}
					return
				}
				for l := 0; l <= remaining; l++ {
					expand(pos+1, remaining-l, append(body, nt(X, l)))
				}
			}
			expand(0, k, nil)
		}
	}
	start := grammar.N(namer.Fresh(fmt.Sprintf("%s/≤%d", g.Start().Name, n)))
	for k := 0; k <= n; k++ {
		rules = append(rules, grammar.Rule[W]{
			Head:   start,
			Body:   []grammar.Symbol{nt(g.Start(), k)},
			Weight: sr.One(),
		})
	}
	h, err := grammar.New(sr, start.Name, rules,
		grammar.Named(g.Name), grammar.WithTerminals(g.Terminals()...))
	if err != nil {
		return nil, err
	}
	tracer().Debugf("truncated %s to length %d: %d rules", g.Name, n, h.RuleCount())
	return Trim(h, opts...)
}
