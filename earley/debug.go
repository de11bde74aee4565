package earley

import (
	"bytes"

	"github.com/npillmayer/schuko/tracing"
)

func dumpSet[W any](p *Parser[W], stateno int) {
	if tracer().GetTraceLevel() != tracing.LevelDebug {
		return
	}
	tracer().Debugf("--- State %04d ------------------------------------", stateno)
	n := 1
	p.sets[stateno].Each(func(it item, w W) {
		tracer().Debugf("[%2d] %s @ %s", n, p.itemString(it), p.sr.Format(w))
		n++
	})
}

func itemSetString[W any](p *Parser[W], stateno int) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	p.sets[stateno].Each(func(it item, w W) {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(p.itemString(it))
	})
	b.WriteString(" }")
	return b.String()
}
