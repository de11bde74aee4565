package wcfg

import (
	"errors"
	"fmt"
)

// --- Error conditions -------------------------------------------------------

// Errors returned by grammar construction, normalization and parsing are
// wrapping one of these conditions. Clients test with errors.Is.
//
// A string which is not in the language of a grammar is never an error. It
// will simply receive a weight of zero.
var (
	// ErrMalformedGrammar is raised at construction or normalization time,
	// e.g. for undeclared symbols or a start symbol which is not a non-terminal.
	ErrMalformedGrammar = errors.New("malformed grammar")

	// ErrUnsupportedOperation is raised by an operation which needs a capability
	// the semiring does not have, e.g. Kleene-star or division.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrCapacityExceeded is raised if a fixpoint iteration hits its iteration cap.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// Malformed wraps ErrMalformedGrammar with a formatted message.
func Malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedGrammar, fmt.Sprintf(format, args...))
}

// Unsupported wraps ErrUnsupportedOperation with a formatted message.
func Unsupported(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedOperation, fmt.Sprintf(format, args...))
}

// Exceeded wraps ErrCapacityExceeded with a formatted message.
func Exceeded(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCapacityExceeded, fmt.Sprintf(format, args...))
}

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to applications to define them.
type TokType int

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a floating point numer:
//
//    TokType = Float       // identifier for this kind of tokens (appliation specific)
//    Lexeme  = "3.1316"    // lexeme how it appreared in the input stream
//    Value   = 3.1416      // is a float64 value
//    Span    = 67…73       // occured from position 67 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. Chart
// cells are addressed by spans: a span denotes a start position and the
// position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the empty span (0…0).
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
