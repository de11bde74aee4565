package earley

import (
	"fmt"
	"strings"

	"github.com/npillmayer/wcfg/grammar"
)

// item is an Earley item (A → α • β, start), identified by rule serial,
// dot position and start position.
type item struct {
	rule, dot, start int
}

func (p *Parser[W]) rule(it item) *grammar.Rule[W] {
	return p.g.Rule(it.rule)
}

func (p *Parser[W]) complete(it item) bool {
	return it.dot == p.g.Rule(it.rule).Len()
}

// next returns the symbol after the dot of an incomplete item.
func (p *Parser[W]) next(it item) grammar.Symbol {
	return p.g.Rule(it.rule).Body[it.dot]
}

func (p *Parser[W]) itemString(it item) string {
	r := p.g.Rule(it.rule)
	var b strings.Builder
	b.WriteString(r.Head.Name)
	b.WriteString(" →")
	for i, s := range r.Body {
		if i == it.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(s.Name)
	}
	if it.dot == len(r.Body) {
		b.WriteString(" •")
	}
	return fmt.Sprintf("[%s, %d]", b.String(), it.start)
}
