package earley

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/cky"
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

func prepare[W any](t *testing.T, g *grammar.Grammar[W], withPrefix bool) *grammar.Grammar[W] {
	steps := []transform.Step[W]{transform.With(transform.RemoveNullary[W])}
	if withPrefix {
		steps = append(steps, transform.With(transform.Prefix[W]))
	}
	steps = append(steps,
		transform.With(transform.RemoveUnary[W]),
		transform.With(transform.Trim[W]),
	)
	h, err := transform.Pipeline(g, steps...)
	require.NoError(t, err)
	return h
}

func parse[W any](t *testing.T, g *grammar.Grammar[W], words []string, opts ...Option) *Parser[W] {
	p, err := NewParser(g, opts...)
	require.NoError(t, err)
	for _, a := range words {
		p.Extend(a)
	}
	return p
}

func TestRejectGrammars(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	_, err := NewParser(anbn(t))
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar))
	b := grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").N("A").Weight(0.5).End()
	b.LHS("A").N("S").Weight(0.5).End()
	b.LHS("A").T("a").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	_, err = NewParser(g)
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar))
}

func TestTotalWeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	g := prepare(t, anbn(t), false)
	p := parse(t, g, []string{"a", "b"})
	assert.InDelta(t, 0.21, p.TotalWeight(), tol)
	p = parse(t, g, []string{"a", "a", "b", "b"})
	assert.InDelta(t, 0.063, p.TotalWeight(), tol)
	tracer().Debugf("final item set %s", itemSetString(p, 4))
	p = parse(t, g, []string{"a", "a", "b"})
	assert.Equal(t, 0.0, p.TotalWeight())
	p = parse(t, g, []string{"a", "x"})
	assert.Equal(t, 0.0, p.TotalWeight())
	w, err := Weight(g, []string{"a", "b"})
	require.NoError(t, err)
	assert.InDelta(t, 0.21, w, tol)
}

func TestPrefixWeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	g := prepare(t, anbn(t), true)
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
		p := parse(t, g, tc.prefix)
		w, err := p.PrefixWeight()
		require.NoError(t, err)
		assert.InDelta(t, tc.w, w, tol, "%v", tc.prefix)
	}
	p := parse(t, prepare(t, anbn(t), false), nil)
	_, err := p.PrefixWeight()
	assert.True(t, errors.Is(err, wcfg.ErrUnsupportedOperation))
}

func TestLookahead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	p := parse(t, prepare(t, anbn(t), true), []string{"a"})
	la, err := p.Lookahead()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, la.Terminals["a"]/la.Prefix, tol)
	assert.InDelta(t, 0.7, la.Terminals["b"]/la.Prefix, tol)
	assert.InDelta(t, 0.09, la.Terminals["a"]*math.Exp(la.LogScale), tol)
	assert.Equal(t, 0.0, la.End)
	assert.Equal(t, 1, p.Len(), "lookahead must not commit")
	//
	p.Extend("b")
	la, err = p.Lookahead()
	require.NoError(t, err)
	assert.Equal(t, 0.0, la.Terminals["a"])
	assert.Equal(t, 0.0, la.Terminals["b"])
	assert.InDelta(t, 1.0, la.End/la.Prefix, tol)
}

func TestRescalingTransparency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	b := grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").T("a").N("S").T("b").N("S").Weight(0.3).End()
	b.LHS("S").N("S").N("S").Weight(0.1).End()
	b.LHS("S").T("a").T("b").Weight(0.2).End()
	b.LHS("S").T("c").Weight(0.4).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	g = prepare(t, g, true)
	rnd := rand.New(rand.NewSource(7))
	alphabet := []string{"a", "b", "c"}
	for trial := 0; trial < 30; trial++ {
		words := make([]string, 1+rnd.Intn(10))
		for i := range words {
			words[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		scaled := parse(t, g, words)
		plain := parse(t, g, words, WithRescaling(false))
		require.True(t, scaled.Rescaling())
		require.False(t, plain.Rescaling())
		sameWeight(t, plain.TotalWeight(), scaled.TotalWeight(), words)
		x, _ := scaled.PrefixWeight()
		y, _ := plain.PrefixWeight()
		sameWeight(t, y, x, words)
		sla, _ := scaled.Lookahead()
		pla, _ := plain.Lookahead()
		for _, a := range alphabet {
			if pla.Prefix == 0 {
				continue
			}
			assert.InDelta(t, pla.Terminals[a]/pla.Prefix, sla.Terminals[a]/sla.Prefix, 1e-9)
		}
	}
}

func sameWeight(t *testing.T, expected, actual float64, words []string) {
	t.Helper()
	if expected == 0 {
		assert.Equal(t, 0.0, actual, "%v", words)
		return
	}
	assert.InEpsilon(t, expected, actual, 1e-9, "%v", words)
}

func TestRescalingPreventsUnderflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	b := grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").N("S").T("a").Weight(0.5).End()
	b.LHS("S").T("a").Weight(0.5).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	scaled, err := NewParser(g)
	require.NoError(t, err)
	plain, err := NewParser(g, WithRescaling(false))
	require.NoError(t, err)
	tracer().SetTraceLevel(tracing.LevelInfo)
	const n = 1200
	for i := 0; i < n; i++ {
		scaled.Extend("a")
		plain.Extend("a")
	}
	assert.Equal(t, 0.0, plain.TotalWeight())
	w, logScale := scaled.ScaledTotalWeight()
	require.Greater(t, w, 0.0)
	assert.InDelta(t, float64(n)*math.Log(0.5), math.Log(w)+logScale, 1e-6)
}

func TestEarleyAgreesWithCKY(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	b := grammar.NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").N("NP").N("VP").Weight(1).End()
	b.LHS("NP").T("d").N("N").Weight(0.6).End()
	b.LHS("NP").N("N").Weight(0.4).End()
	b.LHS("N").T("n").Weight(0.7).End()
	b.LHS("N").N("N").N("PP").Weight(0.3).End()
	b.LHS("VP").T("v").N("NP").Weight(0.5).End()
	b.LHS("VP").N("VP").N("PP").Weight(0.2).End()
	b.LHS("VP").T("v").Weight(0.3).End()
	b.LHS("PP").T("p").N("NP").Weight(1).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	e := prepare(t, g, false)
	c, err := transform.Pipeline(e,
		transform.With(transform.Binarize[float64]),
		transform.With(transform.LiftTerminals[float64]))
	require.NoError(t, err)
	ck, err := cky.NewParser(c)
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(11))
	alphabet := []string{"d", "n", "v", "p"}
	for trial := 0; trial < 50; trial++ {
		words := make([]string, 1+rnd.Intn(9))
		for i := range words {
			words[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		p := parse(t, e, words)
		assert.InDelta(t, ck.Weight(words), p.TotalWeight(), 1e-12, "%v", words)
	}
	p := parse(t, e, []string{"d", "n", "v", "n", "p", "n"})
	assert.Greater(t, p.TotalWeight(), 0.0)
}

func TestOtherSemirings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.parse")
	defer teardown()
	//
	words := []string{"a", "a", "a"}
	fb := grammar.NewBuilder[float64]("G", semiring.Float{})
	fb.LHS("S").N("S").N("S").Weight(0.2).End()
	fb.LHS("S").T("a").Weight(0.8).End()
	fg, _ := fb.Grammar()
	assert.InDelta(t, 2*0.2*0.2*0.8*0.8*0.8, parse(t, fg, words).TotalWeight(), tol)
	//
	mb := grammar.NewBuilder[float64]("G", semiring.MaxTimes{})
	mb.LHS("S").N("S").N("S").Weight(0.2).End()
	mb.LHS("S").T("a").Weight(0.8).End()
	mg, _ := mb.Grammar()
	mp := parse(t, mg, words)
	assert.False(t, mp.Rescaling())
	assert.InDelta(t, 0.2*0.2*0.8*0.8*0.8, mp.TotalWeight(), tol)
	//
	bb := grammar.NewBuilder[bool]("G", semiring.Boolean{})
	bb.LHS("S").N("S").N("S").End()
	bb.LHS("S").T("a").End()
	bg, _ := bb.Grammar()
	assert.True(t, parse(t, bg, words).TotalWeight())
	assert.False(t, parse(t, bg, []string{"a", "b"}).TotalWeight())
	//
	lb := grammar.NewBuilder[float64]("G", semiring.Log{})
	lb.LHS("S").N("S").N("S").P(0.2).End()
	lb.LHS("S").T("a").P(0.8).End()
	lg, err := lb.Grammar()
	require.NoError(t, err)
	assert.InDelta(t, math.Log(2*0.2*0.2*0.8*0.8*0.8), parse(t, lg, words).TotalWeight(), 1e-9)
	//
	eb := grammar.NewBuilder[semiring.Pair]("G", semiring.Entropy{})
	eb.LHS("S").N("S").N("S").P(0.2).End()
	eb.LHS("S").T("a").P(0.8).End()
	eg, err := eb.Grammar()
	require.NoError(t, err)
	total := parse(t, eg, words).TotalWeight()
	assert.InDelta(t, 1.0, semiring.Entropy{}.H(total), 1e-9) // two equiprobable trees
}
