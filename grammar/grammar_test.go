package grammar

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/semiring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	b := NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").T("a").N("S").T("b").Weight(0.3).End()
	b.LHS("S").Epsilon(0.7)
	g, err := b.Grammar()
	require.NoError(t, err)
	g.Dump()
	assert.Equal(t, "S", g.Start().Name)
	assert.Equal(t, 2, g.RuleCount())
	assert.Equal(t, []string{"a", "b"}, g.Terminals())
	assert.Equal(t, 1, g.NonTerminalCount())
	id, ok := g.ID(N("S"))
	assert.True(t, ok)
	assert.Equal(t, 0, id)
	_, ok = g.ID(T("a"))
	assert.False(t, ok)
	assert.True(t, g.HasEpsilonRules())
	assert.Equal(t, "S → a S b  @ 0.3", g.Rule(0).Format(g.Semiring()))
	assert.Equal(t, "S → ε  @ 0.7", g.Rule(1).Format(g.Semiring()))
}

func TestBuilderNumbering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	b := NewBuilder[bool]("G", semiring.Boolean{})
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b").End()
	b.LHS("D").T("d").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	names := []string{}
	g.EachNonTerminal(func(id int, A Symbol) {
		names = append(names, A.Name)
	})
	assert.Equal(t, []string{"S", "A", "B", "D"}, names)
	assert.Len(t, g.RulesFor(N("A")), 1)
	assert.Nil(t, g.RulesFor(N("X")))
	assert.True(t, g.Rule(1).Weight)
}

func TestMergeDuplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	b := NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").T("a").Weight(0.25).End()
	b.LHS("S").T("a").Weight(0.5).End()
	b.LHS("S").N("S").T("a").Weight(0.25).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	require.Equal(t, 2, g.RuleCount())
	assert.Equal(t, 0.75, g.Rule(0).Weight)
	assert.Equal(t, 1, g.Rule(1).Serial)
}

func TestKindClash(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	b := NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").T("S").End()
	_, err := b.Grammar()
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar))
	//
	b = NewBuilder[float64]("G", semiring.Float{})
	b.LHS("S").End()
	_, err = b.Grammar()
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar))
}

func TestBuilderProbabilities(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	b := NewBuilder[semiring.Pair]("G", semiring.Entropy{})
	b.LHS("S").T("a").P(0.5).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	assert.Equal(t, semiring.Pair{P: 0.5, R: -0.5}, g.Rule(0).Weight)
	//
	e := NewBuilder[semiring.Pair]("G", semiring.Expectation{})
	e.LHS("S").T("a").P(0.5).End()
	_, err = e.Grammar()
	assert.True(t, errors.Is(err, wcfg.ErrUnsupportedOperation))
}

func TestFromTriples(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	triples := []Triple[float64]{
		{Head: "S", Body: []string{"a", "S", "b"}, Weight: 0.3},
		{Head: "S", Body: nil, Weight: 0.7},
	}
	sr := semiring.Float{}
	g, err := FromTriples[float64](sr, "float", "S", []string{"S"}, []string{"a", "b", "c"}, triples)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, g.Terminals())
	assert.True(t, g.IsTerminal("c"))
	assert.Equal(t, triples, g.Triples())
	named, err := FromTriples[float64](sr, "float", "S", []string{"S"}, []string{"a", "b"}, triples, Named("anbn"))
	require.NoError(t, err)
	assert.Equal(t, "anbn", named.Name)
	//
	for _, tc := range []struct {
		name         string
		tag, start   string
		nonterminals []string
		terminals    []string
	}{
		{"tag mismatch", "log", "S", []string{"S"}, []string{"a", "b"}},
		{"undeclared start", "float", "X", []string{"S"}, []string{"a", "b"}},
		{"start is terminal", "float", "a", []string{"S"}, []string{"a", "b"}},
		{"undeclared body symbol", "float", "S", []string{"S"}, []string{"a"}},
		{"kind clash", "float", "S", []string{"S", "a"}, []string{"a", "b"}},
	} {
		_, err := FromTriples[float64](sr, tc.tag, tc.start, tc.nonterminals, tc.terminals, triples)
		assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), tc.name)
	}
}

func TestFromTriplesOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	triples := []Triple[bool]{
		{Head: "S", Body: []string{"B", "A"}, Weight: true},
		{Head: "A", Body: []string{"a"}, Weight: true},
		{Head: "B", Body: []string{"b"}, Weight: true},
	}
	g, err := FromTriples[bool](semiring.Boolean{}, "boolean", "S", []string{"A", "B", "S"}, []string{"a", "b"}, triples)
	require.NoError(t, err)
	assert.Equal(t, "S", g.NonTerminal(0).Name)
	assert.Equal(t, "A", g.NonTerminal(1).Name)
	assert.Equal(t, "B", g.NonTerminal(2).Name)
}

func TestNamer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	b := NewBuilder[bool]("G", semiring.Boolean{})
	b.LHS("S").N("S#1").T("S'").End()
	g, err := b.Grammar()
	require.NoError(t, err)
	n := NewNamer(g)
	assert.Equal(t, "S#2", n.Fresh("S"))
	assert.Equal(t, "S'#1", n.Fresh("S'"))
	assert.Equal(t, "X", n.Fresh("X"))
	assert.Equal(t, "X#1", n.Fresh("X"))
}
