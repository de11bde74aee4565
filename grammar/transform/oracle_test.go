package transform

import (
	"strings"

	"github.com/npillmayer/wcfg/grammar"
)

// inside computes the total weight of all derivations of words from A by a
// naive fixpoint over all spans, including empty ones. It handles ε-rules and
// unary cycles and serves as a reference for the transforms.
func inside[W any](g *grammar.Grammar[W], A grammar.Symbol, words []string) W {
	sr := g.Semiring()
	n := len(words)
	nt := g.NonTerminalCount()
	table := make([][][]W, n+1) // table[i][j][A], i ≤ j
	for i := 0; i <= n; i++ {
		table[i] = make([][]W, n+1)
		for j := i; j <= n; j++ {
			table[i][j] = make([]W, nt)
			for k := range table[i][j] {
				table[i][j][k] = sr.Zero()
			}
		}
	}
	value := func(X grammar.Symbol, i, j int) W {
		if X.IsTerminal() {
			if j == i+1 && words[i] == X.Name {
				return sr.One()
			}
			return sr.Zero()
		}
		return table[i][j][g.MustID(X)]
	}
	// cells depend on shorter spans and, through ε and unary rules, on
	// themselves; iterate every cell to its fixpoint in span-length order
	for l := 0; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			j := i + l
			for pass := 0; pass < 5000; pass++ {
				changed := false
				for id := 0; id < nt; id++ {
					acc := sr.Zero()
					for _, r := range g.RulesForID(id) {
						// reach[p-i]: weight of the body prefix spanning (i…p)
						reach := make([]W, l+1)
						for p := range reach {
							reach[p] = sr.Zero()
						}
						reach[0] = r.Weight
						for _, X := range r.Body {
							next := make([]W, l+1)
							for q := range next {
								next[q] = sr.Zero()
							}
							for p := i; p <= j; p++ {
								if sr.IsZero(reach[p-i]) {
									continue
								}
								for q := p; q <= j; q++ {
									v := value(X, p, q)
									if sr.IsZero(v) {
										continue
									}
									next[q-i] = sr.Add(next[q-i], sr.Mul(reach[p-i], v))
								}
							}
							reach = next
						}
						acc = sr.Add(acc, reach[l])
					}
					if !sr.ApproxEqual(acc, table[i][j][id], 1e-15) {
						changed = true
					}
					table[i][j][id] = acc
				}
				if !changed {
					break
				}
			}
		}
	}
	id, ok := g.ID(A)
	if !ok {
		return sr.Zero()
	}
	return table[0][n][id]
}

// allStrings enumerates all strings over alphabet up to length n.
func allStrings(alphabet []string, n int) [][]string {
	result := [][]string{{}}
	frontier := [][]string{{}}
	for l := 1; l <= n; l++ {
		var next [][]string
		for _, s := range frontier {
			for _, a := range alphabet {
				w := append(append([]string(nil), s...), a)
				next = append(next, w)
			}
		}
		result = append(result, next...)
		frontier = next
	}
	return result
}

func words(s string) []string {
	return strings.Fields(s)
}
