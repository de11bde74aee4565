package earley

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/chart"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/semiring"
)

// Parser is a weighted Earley parser. It is owned by a single caller.
type Parser[W any] struct {
	g        *grammar.Grammar[W]
	sr       semiring.Semiring[W]
	scaler   semiring.Scaler[W] // nil if rescaling is off
	start    int
	prefix   int   // -1 if the grammar has no prefix start
	heads    []int // head ID by rule serial
	ranks    []int // unary rank by non-terminal ID
	sets     []*chart.Chart[item, W]
	waitN    []map[int][]item    // items waiting for a non-terminal, by position
	waitT    []map[string][]item // items waiting for a terminal, by position
	logScale float64
	words    []string
}

// Option configures a parser.
type Option func(*options)

type options struct {
	rescale bool
}

// WithRescaling switches rescaling on or off. Rescaling is only effective
// for semirings implementing semiring.Scaler.
func WithRescaling(on bool) Option {
	return func(o *options) {
		o.rescale = on
	}
}

// NewParser creates a parser for g and predicts the items for position 0.
// It returns an error wrapping wcfg.ErrMalformedGrammar if g has ε-rules or
// cycles of unary rules.
func NewParser[W any](g *grammar.Grammar[W], opts ...Option) (*Parser[W], error) {
	o := options{rescale: !gconf.GetBool("earley-no-rescale")}
	for _, opt := range opts {
		opt(&o)
	}
	if g.HasEpsilonRules() {
		err := wcfg.Malformed("Earley parser needs an ε-free grammar, %s has ε-rules", g.Name)
		tracer().Errorf("%v", err)
		return nil, err
	}
	ranks, err := grammar.UnaryRanks(g)
	if err != nil {
		tracer().Errorf("Earley parser cannot use grammar %s: %v", g.Name, err)
		return nil, err
	}
	p := &Parser[W]{
		g:      g,
		sr:     g.Semiring(),
		start:  g.MustID(g.Start()),
		prefix: -1,
		ranks:  ranks,
		heads:  make([]int, g.RuleCount()),
	}
	if o.rescale {
		if s, ok := p.sr.(semiring.Scaler[W]); ok {
			p.scaler = s
		}
	}
	for _, r := range g.Rules() {
		p.heads[r.Serial] = g.MustID(r.Head)
	}
	set := chart.New[item, W](p.sr)
	predict := []int{p.start}
	if P, ok := g.PrefixStart(); ok {
		p.prefix = g.MustID(P)
		predict = append(predict, p.prefix)
	}
	p.sets = append(p.sets, set)
	p.predict(0, set, predict)
	p.index(0)
	dumpSet(p, 0)
	return p, nil
}

// Grammar returns the parser's grammar.
func (p *Parser[W]) Grammar() *grammar.Grammar[W] {
	return p.g
}

// Len is the number of terminals consumed.
func (p *Parser[W]) Len() int {
	return len(p.words)
}

// Words returns the terminals consumed so far.
func (p *Parser[W]) Words() []string {
	return append([]string(nil), p.words...)
}

// Rescaling is true if the parser rescales weights.
func (p *Parser[W]) Rescaling() bool {
	return p.scaler != nil
}

// LogScale is the natural logarithm of the accumulated scale factor. Item
// weights at the current position, multiplied by exp(LogScale), yield true
// weights.
func (p *Parser[W]) LogScale() float64 {
	return p.logScale
}

// Extend consumes terminal a. Terminals unknown to the grammar are legal;
// the resulting prefix has weight 0̄.
func (p *Parser[W]) Extend(a string) {
	n := len(p.words)
	j := n + 1
	set := chart.New[item, W](p.sr)
	p.sets = append(p.sets, set)
	p.words = append(p.words, a)
	queue := p.scan(n, a, set)
	p.completeAll(j, set, queue)
	if p.scaler != nil {
		p.rescale(j, set)
	}
	var predict []int
	set.Each(func(it item, w W) {
		if !p.complete(it) {
			if B := p.next(it); !B.IsTerminal() {
				predict = append(predict, p.g.MustID(B))
			}
		}
	})
	p.predict(j, set, predict)
	p.index(j)
	dumpSet(p, j)
}

// scan moves the dot over terminal a for items at position n, into set.
// It returns a queue holding the items which became complete.
func (p *Parser[W]) scan(n int, a string, set *chart.Chart[item, W]) *completionQueue {
	queue := p.newQueue()
	for _, it := range p.waitT[n][a] {
		moved := item{rule: it.rule, dot: it.dot + 1, start: it.start}
		set.Add(moved, p.sets[n].Get(it))
		if p.complete(moved) {
			queue.push(moved)
		}
	}
	return queue
}

// completeAll propagates completed items in queue order. Popping a completed
// item from the queue finalizes its weight: contributions only come from
// items with a later start or, for unary rules, with a lower rank.
func (p *Parser[W]) completeAll(j int, set *chart.Chart[item, W], queue *completionQueue) {
	for !queue.empty() {
		c := queue.pop()
		wc := p.sr.Mul(set.Get(c), p.rule(c).Weight)
		if p.sr.IsZero(wc) {
			continue
		}
		head := p.heads[c.rule]
		for _, cust := range p.waitN[c.start][head] {
			moved := item{rule: cust.rule, dot: cust.dot + 1, start: cust.start}
			set.Add(moved, p.sr.Mul(p.sets[c.start].Get(cust), wc))
			if p.complete(moved) {
				queue.push(moved)
			}
		}
	}
}

// rescale divides all non-predicted items at position j by their sum.
func (p *Parser[W]) rescale(j int, set *chart.Chart[item, W]) {
	sum := p.sr.Zero()
	set.Each(func(it item, w W) {
		sum = p.sr.Add(sum, w)
	})
	if p.sr.IsZero(sum) {
		return // scale 1̄
	}
	x := p.scaler.Ln(sum)
	divisor := p.scaler.Exp(x)
	set.Each(func(it item, w W) {
		v, err := p.scaler.Div(w, divisor)
		if err != nil {
			panic(err) // divisor is never 0̄
		}
		set.Set(it, v)
	})
	p.logScale += x
	tracer().Debugf("rescaled position %d by exp(%g), log scale is %g", j, x, p.logScale)
}

// predict adds items (B → • γ, j) for all non-terminals B in need and for
// the non-terminals they predict in turn.
func (p *Parser[W]) predict(j int, set *chart.Chart[item, W], need []int) {
	predicted := make(map[int]bool)
	for len(need) > 0 {
		B := need[len(need)-1]
		need = need[:len(need)-1]
		if predicted[B] {
			continue
		}
		predicted[B] = true
		for _, r := range p.g.RulesForID(B) {
			it := item{rule: r.Serial, dot: 0, start: j}
			if !set.Has(it) {
				set.Add(it, p.sr.One())
			}
			if C := r.Body[0]; !C.IsTerminal() {
				need = append(need, p.g.MustID(C))
			}
		}
	}
}

// index records which items at position j are waiting for which symbol.
func (p *Parser[W]) index(j int) {
	waitN := make(map[int][]item)
	waitT := make(map[string][]item)
	p.sets[j].Each(func(it item, w W) {
		if p.complete(it) {
			return
		}
		if s := p.next(it); s.IsTerminal() {
			waitT[s.Name] = append(waitT[s.Name], it)
		} else {
			id := p.g.MustID(s)
			waitN[id] = append(waitN[id], it)
		}
	})
	p.waitN = append(p.waitN, waitN)
	p.waitT = append(p.waitT, waitT)
}

// --- Results ---------------------------------------------------------------

// weightOf sums the completed items for non-terminal A spanning the whole
// input in set, in the scale of set.
func (p *Parser[W]) weightOf(A int, set *chart.Chart[item, W]) W {
	acc := p.sr.Zero()
	set.Each(func(it item, w W) {
		if it.start == 0 && p.heads[it.rule] == A && p.complete(it) {
			acc = p.sr.Add(acc, p.sr.Mul(w, p.rule(it).Weight))
		}
	})
	return acc
}

func (p *Parser[W]) unscale(w W) W {
	if p.scaler == nil || p.logScale == 0 {
		return w
	}
	return p.sr.Mul(w, p.scaler.Exp(p.logScale))
}

// TotalWeight returns the weight of the input as a complete string.
func (p *Parser[W]) TotalWeight() W {
	return p.unscale(p.weightOf(p.start, p.sets[len(p.words)]))
}

// ScaledTotalWeight returns the weight of the input as a complete string in
// the current scale, together with the scale's logarithm. It is useful
// where the true weight would underflow.
func (p *Parser[W]) ScaledTotalWeight() (W, float64) {
	return p.weightOf(p.start, p.sets[len(p.words)]), p.logScale
}

// PrefixWeight returns the total weight of all strings starting with the
// input. The grammar needs a prefix start, otherwise
// wcfg.ErrUnsupportedOperation is returned. The empty prefix yields 0̄, as
// prefix grammars are ε-free.
func (p *Parser[W]) PrefixWeight() (W, error) {
	if p.prefix < 0 {
		return p.sr.Zero(), wcfg.Unsupported("grammar %s has no prefix start", p.g.Name)
	}
	return p.unscale(p.weightOf(p.prefix, p.sets[len(p.words)])), nil
}

// Lookahead computes, for every terminal of the grammar, the prefix weight
// after tentatively consuming it. Weights are in the current scale, see
// chart.Lookahead. The parser state is not changed.
func (p *Parser[W]) Lookahead() (chart.Lookahead[W], error) {
	n := len(p.words)
	la := chart.Lookahead[W]{
		Terminals: make(map[string]W),
		End:       p.weightOf(p.start, p.sets[n]),
		LogScale:  p.logScale,
	}
	if p.prefix < 0 {
		return la, wcfg.Unsupported("grammar %s has no prefix start", p.g.Name)
	}
	la.Prefix = p.weightOf(p.prefix, p.sets[n])
	for _, a := range p.g.Terminals() {
		la.Terminals[a] = p.sr.Zero()
	}
	for a := range p.waitT[n] {
		set := chart.New[item, W](p.sr)
		queue := p.scan(n, a, set)
		p.completeAll(n+1, set, queue)
		la.Terminals[a] = p.weightOf(p.prefix, set)
	}
	return la, nil
}

// Weight parses words with a fresh parser and returns their total weight.
func Weight[W any](g *grammar.Grammar[W], words []string, opts ...Option) (W, error) {
	p, err := NewParser(g, opts...)
	if err != nil {
		return g.Semiring().Zero(), err
	}
	for _, a := range words {
		p.Extend(a)
	}
	return p.TotalWeight(), nil
}

// --- Completion queue ------------------------------------------------------

// completionQueue orders completed items by start position (descending)
// and unary rank of their head (ascending). Items are queued once.
type completionQueue struct {
	heap   *binaryheap.Heap
	queued map[item]bool
}

func (p *Parser[W]) newQueue() *completionQueue {
	return &completionQueue{
		heap: binaryheap.NewWith(func(a, b interface{}) int {
			x, y := a.(item), b.(item)
			if x.start != y.start {
				return y.start - x.start
			}
			return p.ranks[p.heads[x.rule]] - p.ranks[p.heads[y.rule]]
		}),
		queued: make(map[item]bool),
	}
}

func (q *completionQueue) push(it item) {
	if !q.queued[it] {
		q.queued[it] = true
		q.heap.Push(it)
	}
}

func (q *completionQueue) pop() item {
	top, _ := q.heap.Pop()
	return top.(item)
}

func (q *completionQueue) empty() bool {
	return q.heap.Empty()
}
