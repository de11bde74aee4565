package ebnfgrammar

import (
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/semiring"
	"golang.org/x/exp/ebnf"
)

// MaxRange is the maximum number of characters a range "a" … "z" may span.
const MaxRange = 256

// Option configures a conversion.
type Option func(*converter)

// ExpandLexical converts lexical productions into rules instead of treating
// them as terminals.
func ExpandLexical(b bool) Option {
	return func(c *converter) {
		c.expandLexical = b
	}
}

// Named sets the name of the resulting grammar.
func Named(name string) Option {
	return func(c *converter) {
		c.name = name
	}
}

// Parse reads an EBNF grammar from r and converts it. filename is used in
// error messages only.
func Parse[W any](filename string, r io.Reader, start string, sr semiring.Semiring[W], opts ...Option) (*grammar.Grammar[W], error) {
	eg, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, wcfg.Malformed("parse EBNF %s: %v", filename, err)
	}
	return Convert(eg, start, sr, append([]Option{Named(filename)}, opts...)...)
}

// Convert creates a weighted grammar from an EBNF grammar, with start as its
// start symbol. eg has to pass ebnf.Verify for start. The semiring has to be
// a semiring.Lifter.
//
// Errors wrap wcfg.ErrMalformedGrammar or wcfg.ErrUnsupportedOperation.
func Convert[W any](eg ebnf.Grammar, start string, sr semiring.Semiring[W], opts ...Option) (*grammar.Grammar[W], error) {
	if err := ebnf.Verify(eg, start); err != nil {
		return nil, wcfg.Malformed("EBNF grammar does not verify: %v", err)
	}
	c := &converter{
		eg:      eg,
		name:    start,
		bodies:  make(map[string][][]grammar.Symbol),
		counter: make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	if isLexical(start) && !c.expandLexical {
		return nil, wcfg.Malformed("start production %s is lexical", start)
	}
	names := make([]string, 0, len(eg))
	for name := range eg {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if isLexical(name) && !c.expandLexical {
			continue
		}
		prod := eg[name]
		if err := c.production(name, prod.Expr); err != nil {
			return nil, err
		}
	}
	var rules []grammar.Rule[W]
	for _, head := range c.heads {
		alts := c.bodies[head]
		w, err := semiring.Lift(sr, 1/float64(len(alts)))
		if err != nil {
			return nil, err
		}
		for _, body := range alts {
			rules = append(rules, grammar.Rule[W]{Head: grammar.N(head), Body: body, Weight: w})
		}
	}
	g, err := grammar.New(sr, start, rules, grammar.Named(c.name), grammar.WithOrder(c.heads...))
	if err != nil {
		return nil, err
	}
	tracer().Infof("converted EBNF grammar to %s with %d rules", g.Name, g.RuleCount())
	return g, nil
}

// isLexical follows package ebnf: names not starting with an uppercase
// letter denote lexical productions.
func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

type converter struct {
	eg            ebnf.Grammar
	name          string
	expandLexical bool
	heads         []string // in order of creation
	bodies        map[string][][]grammar.Symbol
	counter       map[string]int
}

func (c *converter) add(head string, body []grammar.Symbol) {
	if _, ok := c.bodies[head]; !ok {
		c.heads = append(c.heads, head)
		c.bodies[head] = nil
	}
	c.bodies[head] = append(c.bodies[head], body)
}

// fresh creates a name for a synthetic non-terminal. Production names cannot
// contain '/', so fresh names never clash with them.
func (c *converter) fresh(head, kind string) string {
	c.counter[head]++
	return fmt.Sprintf("%s/%s%d", head, kind, c.counter[head])
}

// production converts the top level expression of a production. Options and
// repetitions spanning the whole production are expressed directly in rules
// of head.
func (c *converter) production(head string, expr ebnf.Expression) error {
	switch x := expr.(type) {
	case nil:
		c.add(head, nil)
		return nil
	case *ebnf.Option:
		c.add(head, nil)
		return c.alternatives(head, x.Body, nil)
	case *ebnf.Repetition:
		c.add(head, nil)
		return c.alternatives(head, x.Body, []grammar.Symbol{grammar.N(head)})
	}
	return c.alternatives(head, expr, nil)
}

// alternatives adds a rule head → α suffix for every alternative α of expr.
func (c *converter) alternatives(head string, expr ebnf.Expression, suffix []grammar.Symbol) error {
	var alts []ebnf.Expression
	switch x := expr.(type) {
	case ebnf.Alternative:
		alts = x
	case *ebnf.Group:
		if a, ok := x.Body.(ebnf.Alternative); ok {
			alts = a
		} else {
			alts = []ebnf.Expression{x.Body}
		}
	case *ebnf.Range:
		chars, err := c.expandRange(x)
		if err != nil {
			return err
		}
		for _, ch := range chars {
			c.add(head, append([]grammar.Symbol{grammar.T(ch)}, suffix...))
		}
		return nil
	default:
		alts = []ebnf.Expression{expr}
	}
	for _, alt := range alts {
		body, err := c.sequence(head, alt)
		if err != nil {
			return err
		}
		c.add(head, append(body, suffix...))
	}
	return nil
}

// sequence converts an expression into a rule body, introducing synthetic
// non-terminals for nested constructs.
func (c *converter) sequence(head string, expr ebnf.Expression) ([]grammar.Symbol, error) {
	var body []grammar.Symbol
	items, ok := expr.(ebnf.Sequence)
	if !ok {
		items = ebnf.Sequence{expr}
	}
	for _, item := range items {
		switch x := item.(type) {
		case nil:
		case *ebnf.Token:
			if x.String == "" {
				continue
			}
			body = append(body, grammar.T(x.String))
		case *ebnf.Name:
			if isLexical(x.String) && !c.expandLexical {
				body = append(body, grammar.T(x.String))
			} else {
				body = append(body, grammar.N(x.String))
			}
		case *ebnf.Group:
			A := c.fresh(head, "group")
			if err := c.alternatives(A, x.Body, nil); err != nil {
				return nil, err
			}
			body = append(body, grammar.N(A))
		case *ebnf.Option:
			A := c.fresh(head, "opt")
			c.add(A, nil)
			if err := c.alternatives(A, x.Body, nil); err != nil {
				return nil, err
			}
			body = append(body, grammar.N(A))
		case *ebnf.Repetition:
			A := c.fresh(head, "rep")
			c.add(A, nil)
			if err := c.alternatives(A, x.Body, []grammar.Symbol{grammar.N(A)}); err != nil {
				return nil, err
			}
			body = append(body, grammar.N(A))
		case ebnf.Alternative, *ebnf.Range:
			A := c.fresh(head, "alt")
			if err := c.alternatives(A, x, nil); err != nil {
				return nil, err
			}
			body = append(body, grammar.N(A))
		default:
			return nil, wcfg.Unsupported("EBNF expression %T in production %s", item, head)
		}
	}
	return body, nil
}

func (c *converter) expandRange(r *ebnf.Range) ([]string, error) {
	from, _ := utf8.DecodeRuneInString(r.Begin.String)
	to, _ := utf8.DecodeRuneInString(r.End.String)
	if to < from || int(to-from) >= MaxRange {
		return nil, wcfg.Unsupported("EBNF range %q … %q exceeds %d characters",
			r.Begin.String, r.End.String, MaxRange)
	}
	chars := make([]string, 0, to-from+1)
	for ch := from; ch <= to; ch++ {
		chars = append(chars, string(ch))
	}
	return chars, nil
}
