package ebnfgrammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/lm"
	"github.com/npillmayer/wcfg/semiring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func parse(t *testing.T, src, start string, opts ...Option) *grammar.Grammar[float64] {
	g, err := Parse("test.ebnf", strings.NewReader(src), start, semiring.Float{}, opts...)
	require.NoError(t, err)
	return g
}

func weight(t *testing.T, g *grammar.Grammar[float64], words ...string) float64 {
	m, err := lm.New(g)
	require.NoError(t, err)
	return m.Weight(words)
}

func TestOptionAtTop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	g := parse(t, `S = [ "a" S "b" ] .`, "S")
	assert.Equal(t, 1, g.NonTerminalCount())
	require.Len(t, g.RulesFor(grammar.N("S")), 2)
	for _, r := range g.Rules() {
		assert.InDelta(t, 0.5, r.Weight, tol)
	}
	assert.InDelta(t, 0.5, weight(t, g), tol)
	assert.InDelta(t, 0.25, weight(t, g, "a", "b"), tol)
	assert.InDelta(t, 0.125, weight(t, g, "a", "a", "b", "b"), tol)
}

const exprGrammar = `
Expr   = Term { "+" Term } .
Term   = number | "(" Expr ")" .
number = digit { digit } .
digit  = "0" … "9" .
`

func TestLexicalAsTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	g := parse(t, exprGrammar, "Expr")
	assert.Equal(t, []string{"(", ")", "+", "number"}, g.Terminals())
	assert.True(t, g.IsNonTerminal("Expr/rep1"))
	assert.False(t, g.IsNonTerminal("digit"))
	assert.Equal(t, 5, g.RuleCount())
	assert.InDelta(t, 0.25, weight(t, g, "number"), tol)
	assert.InDelta(t, 0.0625, weight(t, g, "number", "+", "number"), tol)
	assert.InDelta(t, 0.0, weight(t, g, "number", "number"), tol)
}

func TestExpandLexical(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	src := `
number = digit { digit } .
digit  = "0" … "2" .
`
	_, err := Parse("num", strings.NewReader(src), "number", semiring.Float{})
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar))
	//
	g := parse(t, src, "number", ExpandLexical(true))
	assert.Equal(t, []string{"0", "1", "2"}, g.Terminals())
	assert.Len(t, g.RulesFor(grammar.N("digit")), 3)
	assert.InDelta(t, 1.0/6, weight(t, g, "1"), tol)
	assert.InDelta(t, 1.0/36, weight(t, g, "1", "2"), tol)
}

func TestNestedConstructs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	g := parse(t, `S = "x" ( "a" | "b" ) [ "c" ] .`, "S")
	assert.True(t, g.IsNonTerminal("S/group1"))
	assert.True(t, g.IsNonTerminal("S/opt2"))
	assert.InDelta(t, 0.25, weight(t, g, "x", "a"), tol)
	assert.InDelta(t, 0.25, weight(t, g, "x", "b", "c"), tol)
	assert.InDelta(t, 0.0, weight(t, g, "x"), tol)
}

func TestConvertErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	_, err := Parse("undef", strings.NewReader(`S = "a" T .`), "S", semiring.Float{})
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "undefined production")
	_, err = Parse("syntax", strings.NewReader(`S = "a" `), "S", semiring.Float{})
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "syntax error")
	_, err = Parse("lift", strings.NewReader(`S = "a" .`), "S", semiring.Expectation{})
	assert.True(t, errors.Is(err, wcfg.ErrUnsupportedOperation), "no lifter")
	//
	g, err := Parse("bool", strings.NewReader(`S = "a" | "b" .`), "S", semiring.Boolean{})
	require.NoError(t, err)
	for _, r := range g.Rules() {
		assert.True(t, r.Weight)
	}
}
