/*
Package scanner defines an interface for scanners turning text into the
terminal sequences consumed by the language models of package lm.

Three scanner implementations are provided: (1) a thin wrapper over the Go
std lib 'text/scanner', (2) a category tokenizer grouping runes by a
client-defined categorization (or producing one token per rune), and (3) an
adapter for lexmachine, living in sub-package `lexmach`.

Tokens are mapped to terminal names of a grammar by a Classifier.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wcfg"
)

// tracer traces with key 'wcfg.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() wcfg.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() wcfg.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return DefaultToken{
		kind:   wcfg.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   wcfg.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer, the category tokenizer and the LexMachine scanner.
type DefaultToken struct {
	kind   wcfg.TokType
	lexeme string
	Val    interface{}
	span   wcfg.Span
}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ wcfg.TokType, lexeme string, span wcfg.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() wcfg.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() wcfg.Span {
	return t.span
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// --- Terminals ---------------------------------------------------------------

// Classifier maps a token to the name of a grammar terminal.
type Classifier func(wcfg.Token) string

// ByLexeme uses a token's lexeme as its terminal name.
func ByLexeme(tok wcfg.Token) string {
	return tok.Lexeme()
}

// ByCategory maps token types to terminal names, e.g. scanner.Int to "number".
// Tokens of types not in names are classified by their lexeme.
func ByCategory(names map[wcfg.TokType]string) Classifier {
	return func(tok wcfg.Token) string {
		if name, ok := names[tok.TokType()]; ok {
			return name
		}
		return tok.Lexeme()
	}
}

// Terminals drains a tokenizer and returns the terminal names of its tokens.
// Errors reported by the tokenizer abort the scan.
func Terminals(t Tokenizer, classify Classifier) ([]string, error) {
	if classify == nil {
		classify = ByLexeme
	}
	var scanErr error
	t.SetErrorHandler(func(e error) {
		if scanErr == nil {
			scanErr = e
		}
	})
	var terminals []string
	for {
		tok := t.NextToken()
		if scanErr != nil {
			return terminals, scanErr
		}
		if tok.TokType() == EOF {
			break
		}
		terminals = append(terminals, classify(tok))
	}
	tracer().Debugf("scanned %d terminals", len(terminals))
	return terminals, nil
}
