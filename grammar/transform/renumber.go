package transform

import (
	"github.com/npillmayer/wcfg/grammar"
)

// Renumber numbers the non-terminals of g in encounter order: the start
// symbol first, then the prefix start (if any), then breadth-first along
// rule bodies. Unreachable non-terminals keep their relative order at the
// end. The language and all weights are unchanged.
func Renumber[W any](g *grammar.Grammar[W], opts ...Option) (*grammar.Grammar[W], error) {
	seen := make(map[string]bool)
	var order []string
	queue := []grammar.Symbol{g.Start()}
	if P, ok := g.PrefixStart(); ok {
		queue = append(queue, P)
	}
	for _, A := range queue {
		seen[A.Name] = true
	}
	for len(queue) > 0 {
		A := queue[0]
		queue = queue[1:]
		order = append(order, A.Name)
		for _, r := range g.RulesFor(A) {
			for _, s := range r.Body {
				if !s.IsTerminal() && !seen[s.Name] {
					seen[s.Name] = true
					queue = append(queue, s)
				}
			}
		}
	}
	for _, A := range names(g) {
		if !seen[A] {
			order = append(order, A)
		}
	}
	return renumber(g, order)
}

// RenumberBy returns a step which numbers non-terminals in the given order.
// Non-terminals not mentioned follow in their previous order.
func RenumberBy[W any](order ...string) Step[W] {
	return func(g *grammar.Grammar[W]) (*grammar.Grammar[W], error) {
		return renumber(g, append(order, names(g)...))
	}
}

func renumber[W any](g *grammar.Grammar[W], order []string) (*grammar.Grammar[W], error) {
	return grammar.New(g.Semiring(), g.Start().Name, g.CopyRules(),
		append(g.Options(), grammar.WithOrder(order...))...)
}
