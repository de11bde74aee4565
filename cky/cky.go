package cky

import (
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/chart"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/semiring"
)

type binary[W any] struct {
	head, right int
	weight      W
}

type unary[W any] struct {
	head   int
	weight W
}

// Parser is an incremental CKY parser. It is owned by a single caller.
type Parser[W any] struct {
	g        *grammar.Grammar[W]
	sr       semiring.Semiring[W]
	start    int
	prefix   int                   // -1 if the grammar has no prefix start
	binaries [][]binary[W]         // by left child
	unaries  [][]unary[W]          // by child
	lexical  map[string][]unary[W] // by terminal
	order    []int                 // children before their unary parents
	words    []string
	table    *chart.Table[W]
}

// NewParser creates a parser for a grammar in relaxed Chomsky normal form.
// It returns an error wrapping wcfg.ErrMalformedGrammar for ε-rules, rule
// bodies longer than two symbols, terminals in binary bodies and cycles of
// unary rules.
func NewParser[W any](g *grammar.Grammar[W]) (*Parser[W], error) {
	n := g.NonTerminalCount()
	p := &Parser[W]{
		g:        g,
		sr:       g.Semiring(),
		start:    g.MustID(g.Start()),
		prefix:   -1,
		binaries: make([][]binary[W], n),
		unaries:  make([][]unary[W], n),
		lexical:  make(map[string][]unary[W]),
		table:    chart.NewTable(g.Semiring()),
	}
	if P, ok := g.PrefixStart(); ok {
		p.prefix = g.MustID(P)
	}
	for _, r := range g.Rules() {
		head := g.MustID(r.Head)
		switch {
		case r.IsEpsilon():
			return nil, reject(g, "ε-rule %s", r)
		case r.IsPreterminal():
			a := r.Body[0].Name
			p.lexical[a] = append(p.lexical[a], unary[W]{head: head, weight: r.Weight})
		case r.IsUnary():
			child := g.MustID(r.Body[0])
			p.unaries[child] = append(p.unaries[child], unary[W]{head: head, weight: r.Weight})
		case len(r.Body) == 2:
			if r.Body[0].IsTerminal() || r.Body[1].IsTerminal() {
				return nil, reject(g, "terminal in binary rule %s", r)
			}
			left, right := g.MustID(r.Body[0]), g.MustID(r.Body[1])
			p.binaries[left] = append(p.binaries[left], binary[W]{head: head, right: right, weight: r.Weight})
		default:
			return nil, reject(g, "rule %s is longer than 2", r)
		}
	}
	order, err := grammar.UnaryOrder(g)
	if err != nil {
		tracer().Errorf("CKY cannot parse with grammar %s: %v", g.Name, err)
		return nil, err
	}
	p.order = order
	return p, nil
}

func reject[W any](g *grammar.Grammar[W], format string, args ...interface{}) error {
	err := wcfg.Malformed(format, args...)
	tracer().Errorf("CKY cannot parse with grammar %s: %v", g.Name, err)
	return err
}

// Grammar returns the parser's grammar.
func (p *Parser[W]) Grammar() *grammar.Grammar[W] {
	return p.g
}

// Len is the number of terminals consumed.
func (p *Parser[W]) Len() int {
	return len(p.words)
}

// Words returns the terminals consumed so far.
func (p *Parser[W]) Words() []string {
	return append([]string(nil), p.words...)
}

// Table returns the parser's chart. Clients must not modify it.
func (p *Parser[W]) Table() *chart.Table[W] {
	return p.table
}

// Extend consumes terminal a and computes the chart cells (i, n+1) for all
// i ≤ n. Terminals unknown to the grammar are legal; the resulting prefix
// has weight 0̄.
func (p *Parser[W]) Extend(a string) {
	col := p.column(a)
	p.table.AddColumn(col)
	p.words = append(p.words, a)
	tracer().Debugf("CKY column %d for %q: %s", len(p.words), a, col[0])
}

// column computes the cells for spans ending at n+1 after terminal a,
// from right to left, without touching the table.
func (p *Parser[W]) column(a string) []*chart.Row[W] {
	n := len(p.words)
	j := n + 1
	col := make([]*chart.Row[W], j)
	cell := func(i, k int) *chart.Row[W] { // row of span (i…k), k ≤ j
		if k == j {
			return col[i]
		}
		return p.table.At(i, k)
	}
	for i := n; i >= 0; i-- {
		row := chart.New[int, W](p.sr)
		col[i] = row
		if i == n {
			for _, lex := range p.lexical[a] {
				row.Add(lex.head, lex.weight)
			}
		} else {
			for k := i + 1; k < j; k++ {
				p.combine(row, cell(i, k), cell(k, j))
			}
		}
		p.closeUnary(row)
	}
	return col
}

// combine adds A → B C for B spanning left and C spanning right.
func (p *Parser[W]) combine(row, left, right *chart.Row[W]) {
	if left.Len() == 0 || right.Len() == 0 {
		return
	}
	left.Each(func(B int, wb W) {
		for _, bin := range p.binaries[B] {
			if wc := right.Get(bin.right); !p.sr.IsZero(wc) {
				row.Add(bin.head, p.sr.Mul(bin.weight, p.sr.Mul(wb, wc)))
			}
		}
	})
}

// closeUnary applies unary rules within a cell, children before parents.
func (p *Parser[W]) closeUnary(row *chart.Row[W]) {
	if row.Len() == 0 {
		return
	}
	for _, B := range p.order {
		if len(p.unaries[B]) == 0 || !row.Has(B) {
			continue
		}
		wb := row.Get(B)
		for _, u := range p.unaries[B] {
			row.Add(u.head, p.sr.Mul(u.weight, wb))
		}
	}
}

// TotalWeight returns the weight of the input as a complete string.
func (p *Parser[W]) TotalWeight() W {
	return p.table.Get(0, len(p.words), p.start)
}

// PrefixWeight returns the total weight of all strings starting with the
// input. The grammar needs a prefix start, otherwise
// wcfg.ErrUnsupportedOperation is returned. The empty prefix yields 0̄, as
// prefix grammars are ε-free.
func (p *Parser[W]) PrefixWeight() (W, error) {
	if p.prefix < 0 {
		return p.sr.Zero(), wcfg.Unsupported("grammar %s has no prefix start", p.g.Name)
	}
	return p.table.Get(0, len(p.words), p.prefix), nil
}

// Lookahead computes, for every terminal of the grammar, the prefix weight
// after tentatively consuming it. The parser state is not changed.
func (p *Parser[W]) Lookahead() (chart.Lookahead[W], error) {
	la := chart.Lookahead[W]{Terminals: make(map[string]W), End: p.TotalWeight()}
	var err error
	if la.Prefix, err = p.PrefixWeight(); err != nil {
		return la, err
	}
	for _, a := range p.g.Terminals() {
		if len(p.lexical[a]) == 0 {
			la.Terminals[a] = p.sr.Zero()
			continue
		}
		col := p.column(a)
		la.Terminals[a] = col[0].Get(p.prefix)
	}
	return la, nil
}

// Parse computes a chart for words from scratch, in order of increasing span
// length. The parser state is not changed.
func (p *Parser[W]) Parse(words []string) *chart.Table[W] {
	t := chart.NewTable(p.sr)
	for range words {
		t.AppendColumn()
	}
	for l := 1; l <= len(words); l++ {
		for i := 0; i+l <= len(words); i++ {
			j := i + l
			row := t.At(i, j)
			if l == 1 {
				for _, lex := range p.lexical[words[i]] {
					row.Add(lex.head, lex.weight)
				}
			} else {
				for k := i + 1; k < j; k++ {
					p.combine(row, t.At(i, k), t.At(k, j))
				}
			}
			p.closeUnary(row)
		}
	}
	return t
}

// Weight parses words from scratch and returns their total weight.
func (p *Parser[W]) Weight(words []string) W {
	if len(words) == 0 {
		return p.sr.Zero()
	}
	return p.Parse(words).Get(0, len(words), p.start)
}
