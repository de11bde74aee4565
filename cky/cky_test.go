package cky

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/grammar/transform"
	"github.com/npillmayer/wcfg/semiring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

// S → a S b @ 0.3 | ε @ 0.7
func anbn(t *testing.T) *grammar.Grammar[float64] {
	b := grammar.NewBuilder[float64]("anbn", semiring.Float{})
	b.LHS("S").T("a").N("S").T("b").Weight(0.3).End()
	b.LHS("S").Epsilon(0.7)
	g, err := b.Grammar()
	require.NoError(t, err)
	return g
}

func normalForm(t *testing.T, g *grammar.Grammar[float64], withPrefix bool) *grammar.Grammar[float64] {
	steps := []transform.Step[float64]{transform.With(transform.RemoveNullary[float64])}
	if withPrefix {
		steps = append(steps, transform.With(transform.Prefix[float64]))
	}
	steps = append(steps,
		transform.With(transform.RemoveUnary[float64]),
		transform.With(transform.Trim[float64]),
		transform.With(transform.Binarize[float64]),
		transform.With(transform.LiftTerminals[float64]),
	)
	h, err := transform.Pipeline(g, steps...)
	require.NoError(t, err)
	return h
}

func extend(p *Parser[float64], words ...string) {
	for _, a := range words {
		p.Extend(a)
	}
}

func TestRejectGrammars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	_, err := NewParser(anbn(t))
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "ε-rule")
	//
	b := grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").T("a").N("S").End()
	b.LHS("S").T("a").End()
	g, _ := b.Grammar()
	_, err = NewParser(g)
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "terminal in binary body")
	//
	b = grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").N("S").N("S").N("S").End()
	g, _ = b.Grammar()
	_, err = NewParser(g)
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "long body")
	//
	b = grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").N("A").Weight(0.5).End()
	b.LHS("A").N("S").Weight(0.5).End()
	b.LHS("A").T("a").End()
	g, _ = b.Grammar()
	_, err = NewParser(g)
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "unary cycle")
}

func TestTotalWeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	p, err := NewParser(normalForm(t, anbn(t), false))
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.TotalWeight())
	extend(p, "a", "b")
	assert.InDelta(t, 0.21, p.TotalWeight(), tol)
	assert.Equal(t, 2, p.Len())
	//
	p, _ = NewParser(normalForm(t, anbn(t), false))
	extend(p, "a", "a", "b", "b")
	assert.InDelta(t, 0.063, p.TotalWeight(), tol)
	assert.InDelta(t, 0.063, p.Weight([]string{"a", "a", "b", "b"}), tol)
	assert.Equal(t, 0.0, p.Weight([]string{"a", "b", "b"}))
	assert.Equal(t, []string{"a", "a", "b", "b"}, p.Words())
}

func TestUnaryChains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	b := grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").N("A").Weight(0.5).End()
	b.LHS("S").N("B").Weight(0.5).End()
	b.LHS("B").N("A").Weight(0.5).End()
	b.LHS("A").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	p, err := NewParser(g)
	require.NoError(t, err)
	p.Extend("a")
	assert.InDelta(t, 0.75, p.TotalWeight(), tol)
}

func TestUnknownTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	p, err := NewParser(normalForm(t, anbn(t), true))
	require.NoError(t, err)
	extend(p, "a", "x", "b")
	assert.Equal(t, 0.0, p.TotalWeight())
	w, err := p.PrefixWeight()
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)
}

func TestPrefixWeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	g := normalForm(t, anbn(t), true)
	g.Dump()
	for _, tc := range []struct {
		prefix []string
		w      float64
	}{
		{[]string{"a"}, 0.3},
		{[]string{"a", "a"}, 0.09},
		{[]string{"a", "b"}, 0.21},
		{[]string{"a", "a", "b"}, 0.063},
		{[]string{"b"}, 0},
	} {
		p, err := NewParser(g)
		require.NoError(t, err)
		extend(p, tc.prefix...)
		w, err := p.PrefixWeight()
		require.NoError(t, err)
		assert.InDelta(t, tc.w, w, tol, "%v", tc.prefix)
	}
	p, _ := NewParser(normalForm(t, anbn(t), false))
	_, err := p.PrefixWeight()
	assert.True(t, errors.Is(err, wcfg.ErrUnsupportedOperation))
	_, err = p.Lookahead()
	assert.True(t, errors.Is(err, wcfg.ErrUnsupportedOperation))
}

func TestLookahead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	p, err := NewParser(normalForm(t, anbn(t), true))
	require.NoError(t, err)
	p.Extend("a")
	la, err := p.Lookahead()
	require.NoError(t, err)
	assert.InDelta(t, 0.09, la.Terminals["a"], tol)
	assert.InDelta(t, 0.21, la.Terminals["b"], tol)
	assert.InDelta(t, 0.3, la.Prefix, tol)
	assert.Equal(t, 0.0, la.End)
	assert.Equal(t, 1, p.Len(), "lookahead must not commit")
	p.Extend("b")
	la, err = p.Lookahead()
	require.NoError(t, err)
	assert.InDelta(t, 0.21, la.End, tol)
	assert.Equal(t, 0.0, la.Terminals["a"])
	assert.Equal(t, 0.0, la.Terminals["b"])
}

func TestIncrementalEqualsScratch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	b := grammar.NewBuilder[float64]("long", semiring.Float{})
	b.LHS("S").T("a").N("S").T("b").N("S").Weight(0.3).End()
	b.LHS("S").N("S").N("S").Weight(0.1).End()
	b.LHS("S").T("a").T("b").Weight(0.2).End()
	b.LHS("S").T("c").Weight(0.4).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	h := normalForm(t, g, true)
	rnd := rand.New(rand.NewSource(99))
	alphabet := []string{"a", "b", "c"}
	for trial := 0; trial < 20; trial++ {
		p, err := NewParser(h)
		require.NoError(t, err)
		n := 1 + rnd.Intn(8)
		words := make([]string, n)
		for i := range words {
			words[i] = alphabet[rnd.Intn(len(alphabet))]
			p.Extend(words[i])
		}
		scratch := p.Parse(words)
		require.True(t, p.Table().ApproxEqual(scratch, tol), "charts differ for %v", words)
	}
}

func TestBooleanRecognition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	b := grammar.NewBuilder[bool]("dyck", semiring.Boolean{})
	b.LHS("S").N("L").N("R").End()
	b.LHS("S").N("L").N("X").End()
	b.LHS("S").N("S").N("S").End()
	b.LHS("X").N("S").N("R").End()
	b.LHS("L").T("(").End()
	b.LHS("R").T(")").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	p, err := NewParser(g)
	require.NoError(t, err)
	assert.True(t, p.Weight([]string{"(", "(", ")", ")", "(", ")"}))
	assert.False(t, p.Weight([]string{"(", ")", ")"}))
}
