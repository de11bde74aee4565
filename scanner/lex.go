package scanner

import (
	"bytes"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/wcfg"
)

// --- Category codes --------------------------------------------------------

// CatCode is a category code for runes.
type CatCode int16

// IllegalCatCode is the category of runes which must not appear in the input.
const IllegalCatCode CatCode = 0

// RuneCategorizer assigns runes to categories. Runes of a loner category do
// not form sequences: every such rune is a token by itself.
type RuneCategorizer interface {
	Cat(r rune) (cat CatCode, isLoner bool)
}

// CatSeq is a run of runes of the same category.
type CatSeq struct {
	Cat    CatCode // catcode of all runes in this sequence
	Length int     // length of sequence in terms of runes
}

// --- Category sequence reader ----------------------------------------------

// CatSeqReader reads category sequences from a rune reader.
type CatSeqReader struct {
	isEof      bool
	next       rune
	start, end uint64 // as bytes index
	reader     io.RuneReader
	writer     bytes.Buffer
}

// NewCatSeqReader creates a reader for category sequences.
func NewCatSeqReader(r io.RuneReader) *CatSeqReader {
	return &CatSeqReader{reader: r}
}

// Next reads the next category sequence, or returns io.EOF.
func (rs *CatSeqReader) Next(rc RuneCategorizer) (csq CatSeq, err error) {
	var r rune
	r, err = rs.lookahead()
	if err != nil && err != io.EOF {
		return csq, fmt.Errorf("scanner cannot read sequence (%w)", err)
	} else if err == io.EOF {
		return csq, io.EOF
	}
	var isLoner bool
	csq.Cat, isLoner = rc.Cat(r)
	if isLoner { // rune category is not allowed to form sequences
		rs.match(r)
		csq.Length = 1
		return csq, nil
	}
	cc := csq.Cat
	for cc == csq.Cat {
		rs.match(r)
		csq.Length++
		r, err = rs.lookahead()
		if err == io.EOF {
			return csq, nil
		} else if err != nil {
			return csq, err
		}
		cc, isLoner = rc.Cat(r)
		if isLoner {
			break
		}
	}
	return csq, nil
}

// OutputString returns the runes matched since the last reset.
func (rs *CatSeqReader) OutputString() string {
	return rs.writer.String()
}

// ResetOutput starts a new sequence.
func (rs *CatSeqReader) ResetOutput() {
	rs.writer.Reset()
	rs.start = rs.end
}

// Span returns the byte positions of the runes matched since the last reset.
func (rs *CatSeqReader) Span() wcfg.Span {
	return wcfg.Span{rs.start, rs.end}
}

func (rs *CatSeqReader) lookahead() (r rune, err error) {
	if rs.isEof {
		return utf8.RuneError, io.EOF
	}
	if rs.next != 0 {
		return rs.next, nil
	}
	r, _, err = rs.reader.ReadRune()
	if err == io.EOF {
		rs.isEof = true
		return utf8.RuneError, io.EOF
	} else if err != nil {
		return 0, err
	}
	rs.next = r
	return r, nil
}

func (rs *CatSeqReader) match(r rune) {
	rs.writer.WriteRune(r)
	rs.end += uint64(utf8.RuneLen(r))
	rs.next = 0
}

// --- Category tokenizer ----------------------------------------------------

// CatTokenizer produces a token for every category sequence of its input.
// The token type is the sequence's category code. Sequences of categories
// listed as skippable (e.g., white space) are dropped.
type CatTokenizer struct {
	reader *CatSeqReader
	rc     RuneCategorizer
	skip   map[CatCode]bool
	Error  func(error)
}

var _ Tokenizer = (*CatTokenizer)(nil)

// CategoryTokenizer creates a tokenizer grouping runes by rc.
func CategoryTokenizer(input io.RuneReader, rc RuneCategorizer, skip ...CatCode) *CatTokenizer {
	t := &CatTokenizer{
		reader: NewCatSeqReader(input),
		rc:     rc,
		skip:   make(map[CatCode]bool),
		Error:  logError,
	}
	for _, c := range skip {
		t.skip[c] = true
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *CatTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *CatTokenizer) NextToken() wcfg.Token {
	for {
		t.reader.ResetOutput()
		csq, err := t.reader.Next(t.rc)
		if err == io.EOF {
			return MakeDefaultToken(EOF, "", t.reader.Span())
		} else if err != nil {
			t.Error(err)
			return MakeDefaultToken(EOF, "", t.reader.Span())
		}
		if csq.Cat == IllegalCatCode {
			t.Error(fmt.Errorf("illegal input %q at %s", t.reader.OutputString(), t.reader.Span()))
			continue
		}
		if t.skip[csq.Cat] {
			continue
		}
		return MakeDefaultToken(wcfg.TokType(csq.Cat), t.reader.OutputString(), t.reader.Span())
	}
}

// Categories of the default categorizers.
const (
	CatSpace CatCode = iota + 1
	CatLetter
	CatDigit
	CatPunct
	CatOther
)

type runeCats struct {
	loners bool
}

func (rc runeCats) Cat(r rune) (CatCode, bool) {
	var c CatCode
	switch {
	case unicode.IsSpace(r):
		c = CatSpace
	case unicode.IsLetter(r):
		c = CatLetter
	case unicode.IsDigit(r):
		c = CatDigit
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return CatPunct, true
	case unicode.IsGraphic(r):
		c = CatOther
	default:
		return IllegalCatCode, true
	}
	return c, rc.loners
}

// Words categorizes runes into runs of space, letters, digits and other
// graphic runes. Punctuation and symbols are single-rune tokens.
var Words RuneCategorizer = runeCats{}

// Runes makes every rune a token of its own, for character-level grammars.
var Runes RuneCategorizer = runeCats{loners: true}
