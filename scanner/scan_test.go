package scanner

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wcfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestGoTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	sc := GoTokenizer("expr", strings.NewReader("x + 12 * 'c'"), UnifyStrings(true))
	words, err := Terminals(sc, ByCategory(map[wcfg.TokType]string{
		Ident:  "id",
		Int:    "num",
		String: "str",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "+", "num", "*", "str"}, words)
	//
	sc = GoTokenizer("lexemes", strings.NewReader("a b a"))
	words, err = Terminals(sc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, words)
}

func TestGoTokenizerError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	sc := GoTokenizer("broken", strings.NewReader(`a "unterminated`))
	_, err := Terminals(sc, nil)
	assert.Error(t, err)
}

func TestLexerPeek(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	input := "test!"
	stream := CatSeqReader{
		reader: bufio.NewReader(strings.NewReader(input)),
		writer: bytes.Buffer{},
	}
	for i := 0; i < 5; i++ {
		r, err := stream.lookahead()
		if err != nil {
			t.Error(err)
		}
		if r != []rune(input)[i] {
			t.Errorf("expected rune #%d to be %#U, is %#U", i, input[i], r)
		}
		stream.match(r)
	}
	_, err := stream.lookahead()
	if err != io.EOF {
		t.Error("expected error to be EOF; isn't")
	}
}

func TestCatSequences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	rs := NewCatSeqReader(strings.NewReader("ab  12+"))
	var seqs []CatSeq
	for {
		rs.ResetOutput()
		csq, err := rs.Next(Words)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		seqs = append(seqs, csq)
	}
	assert.Equal(t, []CatSeq{
		{Cat: CatLetter, Length: 2},
		{Cat: CatSpace, Length: 2},
		{Cat: CatDigit, Length: 2},
		{Cat: CatPunct, Length: 1},
	}, seqs)
}

func TestCategoryTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	sc := CategoryTokenizer(strings.NewReader("ab 12+x"), Words, CatSpace)
	var lexemes []string
	var spans []wcfg.Span
	for tok := sc.NextToken(); tok.TokType() != EOF; tok = sc.NextToken() {
		lexemes = append(lexemes, tok.Lexeme())
		spans = append(spans, tok.Span())
	}
	assert.Equal(t, []string{"ab", "12", "+", "x"}, lexemes)
	assert.Equal(t, []wcfg.Span{{0, 2}, {3, 5}, {5, 6}, {6, 7}}, spans)
	//
	sc = CategoryTokenizer(strings.NewReader("ab ba"), Runes, CatSpace)
	words, err := Terminals(sc, ByLexeme)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b", "a"}, words)
	//
	sc = CategoryTokenizer(strings.NewReader("1 2"), Words, CatSpace)
	words, err = Terminals(sc, ByCategory(map[wcfg.TokType]string{wcfg.TokType(CatDigit): "digit"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"digit", "digit"}, words)
}

func TestCategoryTokenizerIllegal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wcfg.scanner")
	defer teardown()
	//
	sc := CategoryTokenizer(strings.NewReader("a\u0007b"), Runes)
	_, err := Terminals(sc, nil)
	assert.Error(t, err)
}
