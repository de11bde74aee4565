package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/wcfg/semiring"
)

// Rule is a weighted production Head → Body. Serial is the rule's position
// within its grammar.
type Rule[W any] struct {
	Serial int
	Head   Symbol
	Body   []Symbol
	Weight W
}

// IsEpsilon is true for rules with an empty body.
func (r *Rule[W]) IsEpsilon() bool {
	return len(r.Body) == 0
}

// IsUnary is true for rules A → B, where B is a non-terminal.
func (r *Rule[W]) IsUnary() bool {
	return len(r.Body) == 1 && !r.Body[0].IsTerminal()
}

// IsPreterminal is true for rules A → a, where a is a terminal.
func (r *Rule[W]) IsPreterminal() bool {
	return len(r.Body) == 1 && r.Body[0].IsTerminal()
}

// Len is the length of the rule's body.
func (r *Rule[W]) Len() int {
	return len(r.Body)
}

// BodyString returns the right hand side of a rule as a string, with "ε"
// for an empty body.
func (r *Rule[W]) BodyString() string {
	return symbolsString(r.Body)
}

func symbolsString(syms []Symbol) string {
	if len(syms) == 0 {
		return "ε"
	}
	var b strings.Builder
	for i, s := range syms {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Name)
	}
	return b.String()
}

func (r *Rule[W]) String() string {
	return fmt.Sprintf("%s → %s  @ %v", r.Head.Name, r.BodyString(), r.Weight)
}

// Format renders a rule with its weight formatted by a semiring.
func (r *Rule[W]) Format(sr semiring.Semiring[W]) string {
	return fmt.Sprintf("%s → %s  @ %s", r.Head.Name, r.BodyString(), sr.Format(r.Weight))
}

// key identifies a rule by head and body, ignoring its weight.
func (r *Rule[W]) key() string {
	var b strings.Builder
	b.WriteString(r.Head.Name)
	b.WriteString("\x00")
	for _, s := range r.Body {
		if s.IsTerminal() {
			b.WriteByte('t')
		} else {
			b.WriteByte('n')
		}
		b.WriteString(s.Name)
		b.WriteByte(0)
	}
	return b.String()
}
