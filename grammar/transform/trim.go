package transform

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/wcfg/grammar"
)

// Trim removes rules with weight 0̄ and all rules mentioning non-terminals
// which are unproductive (derive no string) or unreachable from the start
// symbol and the prefix start. The alphabet of g is kept.
func Trim[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	sr := g.Semiring()
	n := g.NonTerminalCount()
	productive := make([]bool, n)
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules() {
			head := g.MustID(r.Head)
			if productive[head] || sr.IsZero(r.Weight) {
				continue
			}
			if allProductive(g, r, productive) {
				productive[head] = true
				changed = true
			}
		}
	}
	useful := func(r *grammar.Rule[W]) bool {
		return !sr.IsZero(r.Weight) && productive[g.MustID(r.Head)] && allProductive(g, r, productive)
	}
	reachable := make([]bool, n)
	stack := arraystack.New()
	push := func(A grammar.Symbol) {
		if id := g.MustID(A); !reachable[id] {
			reachable[id] = true
			stack.Push(id)
		}
	}
	push(g.Start())
	if P, ok := g.PrefixStart(); ok {
		push(P)
	}
	for !stack.Empty() {
		top, _ := stack.Pop()
		for _, r := range g.RulesForID(top.(int)) {
			if !useful(r) {
				continue
			}
			for _, s := range r.Body {
				if !s.IsTerminal() {
					push(s)
				}
			}
		}
	}
	var rules []grammar.Rule[W]
	for _, r := range g.Rules() {
		if useful(r) && reachable[g.MustID(r.Head)] {
			rules = append(rules, grammar.Rule[W]{Head: r.Head, Body: r.Body, Weight: r.Weight})
		}
	}
	if len(rules) == g.RuleCount() {
		return g, nil
	}
	h, err := grammar.New(sr, g.Start().Name, rules, g.Options()...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("trimmed %s: %d rules → %d rules", g.Name, g.RuleCount(), h.RuleCount())
	return h, nil
}

func allProductive[W any](g *grammar.Grammar[W], r *grammar.Rule[W], productive []bool) bool {
	for _, s := range r.Body {
		if id, ok := g.ID(s); ok && !productive[id] {
			return false
		}
	}
	return true
}
