package grammar

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/wcfg"
)

// UnaryOrder sorts the non-terminals of g (by ID) topologically along unary
// rules A → B, children before their parents. Parsers use it to apply unary
// rules within a cell in a single pass. It returns an error wrapping
// wcfg.ErrMalformedGrammar if unary rules form a cycle.
func UnaryOrder[W any](g *Grammar[W]) ([]int, error) {
	n := g.NonTerminalCount()
	parents := make([][]int, n)
	for _, r := range g.rules {
		if r.IsUnary() && !g.sr.IsZero(r.Weight) {
			child := g.MustID(r.Body[0])
			parents[child] = append(parents[child], g.MustID(r.Head))
		}
	}
	const (
		white = iota
		grey
		black
	)
	color := make([]int, n)
	order := make([]int, 0, n)
	for root := 0; root < n; root++ {
		if color[root] != white {
			continue
		}
		// iterative DFS; a negative entry marks finishing a node
		stack := arraystack.New()
		stack.Push(root)
		for !stack.Empty() {
			top, _ := stack.Pop()
			v := top.(int)
			if v < 0 {
				color[-v-1] = black
				order = append(order, -v-1)
				continue
			}
			if color[v] != white {
				continue
			}
			color[v] = grey
			stack.Push(-v - 1)
			for _, u := range parents[v] {
				switch color[u] {
				case grey:
					return nil, wcfg.Malformed("unary cycle through %s in grammar %s", g.NonTerminal(u), g.Name)
				case white:
					stack.Push(u)
				}
			}
		}
	}
	// DFS finishes parents before children
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// UnaryRanks returns for every non-terminal ID its position in UnaryOrder.
func UnaryRanks[W any](g *Grammar[W]) ([]int, error) {
	order, err := UnaryOrder(g)
	if err != nil {
		return nil, err
	}
	ranks := make([]int, len(order))
	for pos, id := range order {
		ranks[id] = pos
	}
	return ranks, nil
}
