package grammar

import (
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/semiring"
)

// Triple is a rule in construction form: head, body symbol names and weight.
type Triple[W any] struct {
	Head   string
	Body   []string
	Weight W
}

// FromTriples constructs a grammar from declared alphabets and rule triples.
// tag has to match the name of sr. It returns an error wrapping
// wcfg.ErrMalformedGrammar if
//
//   - tag does not match the semiring,
//   - a symbol is declared both as a terminal and as a non-terminal,
//   - start is not a declared non-terminal,
//   - a rule head or body symbol is not declared.
//
// Terminals which are declared but do not occur in any rule stay part of the
// grammar's alphabet. Options are passed on to New.
func FromTriples[W any](sr semiring.Semiring[W], tag string, start string,
	nonterminals []string, terminals []string, triples []Triple[W], opts ...Option) (*Grammar[W], error) {
	//
	if tag != sr.Name() {
		return nil, wcfg.Malformed("semiring tag %q does not match semiring %s", tag, sr.Name())
	}
	kinds := make(map[string]Kind, len(nonterminals)+len(terminals))
	for _, A := range nonterminals {
		kinds[A] = NonTerminal
	}
	for _, a := range terminals {
		if k, ok := kinds[a]; ok && k == NonTerminal {
			return nil, wcfg.Malformed("symbol %q declared as terminal and as non-terminal", a)
		}
		kinds[a] = Terminal
	}
	if k, ok := kinds[start]; !ok || k != NonTerminal {
		return nil, wcfg.Malformed("start symbol %q is not a declared non-terminal", start)
	}
	rules := make([]Rule[W], 0, len(triples))
	for _, tr := range triples {
		if k, ok := kinds[tr.Head]; !ok || k != NonTerminal {
			return nil, wcfg.Malformed("rule head %q is not a declared non-terminal", tr.Head)
		}
		rule := Rule[W]{Head: N(tr.Head), Weight: tr.Weight}
		for _, s := range tr.Body {
			k, ok := kinds[s]
			if !ok {
				return nil, wcfg.Malformed("symbol %q in rule for %s is not declared", s, tr.Head)
			}
			rule.Body = append(rule.Body, Symbol{Name: s, Kind: k})
		}
		rules = append(rules, rule)
	}
	opts = append([]Option{WithOrder(append([]string{start}, nonterminals...)...), WithTerminals(terminals...)}, opts...)
	g, err := New(sr, start, rules, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("grammar %s constructed from %d triples", g.Name, len(triples))
	return g, nil
}
