package rulesfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/lm"
	"github.com/npillmayer/wcfg/semiring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anbn = `
name: anbn
semiring: float
start: S
rules:
  - { head: S, body: [a, S, b], weight: 0.3 }
  - { head: S, body: [], weight: 0.7 }
`

func TestDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	f, err := Decode(strings.NewReader(anbn))
	require.NoError(t, err)
	g, err := Grammar(f, semiring.Float{})
	require.NoError(t, err)
	assert.Equal(t, "anbn", g.Name)
	assert.Equal(t, 2, g.RuleCount())
	assert.Equal(t, []string{"a", "b"}, g.Terminals())
	m, err := lm.New(g)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, m.Weight([]string{"a", "b"}), 1e-9)
}

func TestDefaultWeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	src := `
semiring: boolean
start: S
rules:
  - head: S
    body: [a]
`
	f, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	g, err := Grammar(f, semiring.Boolean{})
	require.NoError(t, err)
	assert.True(t, g.Rules()[0].Weight)
}

func TestInvalidFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	for name, src := range map[string]string{
		"no start":       "semiring: float\nrules:\n  - { head: S, body: [a] }\n",
		"no rules":       "semiring: float\nstart: S\n",
		"bad semiring":   "semiring: complex\nstart: S\nrules:\n  - { head: S, body: [a] }\n",
		"negative":       "semiring: float\nstart: S\nrules:\n  - { head: S, body: [a], weight: -1 }\n",
		"blank symbol":   "semiring: float\nstart: S\nrules:\n  - { head: S, body: [\"a b\"] }\n",
		"unknown field":  "semiring: float\nstart: S\nprob: 1\nrules:\n  - { head: S, body: [a] }\n",
		"not yaml":       "semiring: [float\n",
		"head not a map": "semiring: float\nstart: S\nrules: [S]\n",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), name)
	}
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	f, err := Decode(strings.NewReader(anbn))
	require.NoError(t, err)
	_, err = Grammar(f, semiring.MaxTimes{})
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "tag mismatch")
	//
	src := `
semiring: float
start: S
nonterminals: [S]
terminals: [a]
rules:
  - { head: S, body: [a, b] }
`
	f, err = Decode(strings.NewReader(src))
	require.NoError(t, err)
	_, err = Grammar(f, semiring.Float{})
	assert.True(t, errors.Is(err, wcfg.ErrMalformedGrammar), "undeclared terminal")
	//
	src = "semiring: expectation\nstart: S\nrules:\n  - { head: S, body: [a], weight: 0.5 }\n"
	f, err = Decode(strings.NewReader(src))
	require.NoError(t, err)
	_, err = Grammar(f, semiring.Expectation{})
	assert.True(t, errors.Is(err, wcfg.ErrUnsupportedOperation), "no lifter")
}

func TestEncode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.grammar")
	defer teardown()
	//
	f, err := Decode(strings.NewReader(anbn))
	require.NoError(t, err)
	g, err := Grammar(f, semiring.Float{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, func(w float64) float64 { return w }))
	t.Logf("\n%s", buf.String())
	f2, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"S"}, f2.NonTerminals)
	g2, err := Grammar(f2, semiring.Float{})
	require.NoError(t, err)
	assert.Equal(t, g.Triples(), g2.Triples())
}
