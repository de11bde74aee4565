package lm

import (
	"fmt"
	"math"
	"time"

	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/earley"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/grammar/transform"
	"github.com/npillmayer/wcfg/scanner"
	"github.com/npillmayer/wcfg/semiring"
)

// Model is a language model over a compiled grammar. A model is immutable
// and may be shared; its states belong to a single client.
type Model[W any] struct {
	c       *Compiled[W]
	sr      semiring.Semiring[W]
	div     semiring.Divider[W]
	scaler  semiring.Scaler[W]
	eopts   []earley.Option
	metrics *Metrics
}

// Option configures a model.
type Option func(*options)

type options struct {
	backend Backend
	topts   []transform.Option
	eopts   []earley.Option
	metrics *Metrics
}

// WithBackend selects the parser backend. The default is Earley.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithTransformOptions passes options to the grammar transformations
// performed at compile time.
func WithTransformOptions(opts ...transform.Option) Option {
	return func(o *options) {
		o.topts = append(o.topts, opts...)
	}
}

// WithRescaling switches rescaling of the Earley backend on or off.
func WithRescaling(on bool) Option {
	return func(o *options) {
		o.eopts = append(o.eopts, earley.WithRescaling(on))
	}
}

// WithMetrics lets the model report to Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func collect(opts []Option) options {
	o := options{backend: Earley}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New compiles g and creates a model for it.
func New[W any](g *grammar.Grammar[W], opts ...Option) (*Model[W], error) {
	o := collect(opts)
	c, err := Compile(g, o.backend, o.topts...)
	if err != nil {
		return nil, err
	}
	o.metrics.compiled(o.backend)
	return newModel(c, o), nil
}

// NewModel creates a model for an already compiled grammar. Options
// concerning compilation are ignored.
func NewModel[W any](c *Compiled[W], opts ...Option) *Model[W] {
	return newModel(c, collect(opts))
}

func newModel[W any](c *Compiled[W], o options) *Model[W] {
	m := &Model[W]{
		c:       c,
		sr:      c.Grammar.Semiring(),
		eopts:   o.eopts,
		metrics: o.metrics,
	}
	m.div, _ = m.sr.(semiring.Divider[W])
	m.scaler, _ = m.sr.(semiring.Scaler[W])
	return m
}

// Compiled returns the compiled grammar of the model.
func (m *Model[W]) Compiled() *Compiled[W] {
	return m.c
}

// Semiring returns the model's semiring.
func (m *Model[W]) Semiring() semiring.Semiring[W] {
	return m.sr
}

// --- States ----------------------------------------------------------------

// session owns a parser. Every extension advances the session's sequence
// number, invalidating all states of earlier sequence numbers.
type session[W any] struct {
	parser Parser[W]
	seq    int
}

// State is a prefix of terminals consumed by a model.
type State[W any] struct {
	s   *session[W]
	seq int
}

// Len is the number of terminals of the state's prefix.
func (st State[W]) Len() int {
	return st.session().parser.Len()
}

// Words returns the terminals of the state's prefix.
func (st State[W]) Words() []string {
	return st.session().parser.Words()
}

// Seq is the state's sequence number.
func (st State[W]) Seq() int {
	return st.seq
}

// IsStale is true if the state has been extended.
func (st State[W]) IsStale() bool {
	return st.s == nil || st.seq != st.s.seq
}

func (st State[W]) session() *session[W] {
	if st.s == nil {
		panic("lm: use of uninitialized state")
	}
	if st.seq != st.s.seq {
		panic(fmt.Sprintf("lm: use of stale state #%d, session is at #%d", st.seq, st.s.seq))
	}
	return st.s
}

// Initial returns a state for the empty prefix, backed by a fresh parser.
func (m *Model[W]) Initial() State[W] {
	p, err := m.c.newParser(m.eopts)
	if err != nil { // Compile has checked the grammar
		panic(fmt.Sprintf("lm: cannot create parser: %v", err))
	}
	return State[W]{s: &session[W]{parser: p}}
}

// Extend consumes terminal a and returns the successor state. st becomes
// stale; using it afterwards panics.
func (m *Model[W]) Extend(st State[W], a string) State[W] {
	s := st.session()
	s.parser.Extend(a)
	s.seq++
	m.metrics.extended(m.c.Backend)
	return State[W]{s: s, seq: s.seq}
}

// ExtendTokens consumes the tokens of a tokenizer, mapped to terminals by
// classify. On scanner errors st is returned unchanged.
func (m *Model[W]) ExtendTokens(st State[W], t scanner.Tokenizer, classify scanner.Classifier) (State[W], error) {
	st.session()
	words, err := scanner.Terminals(t, classify)
	if err != nil {
		return st, err
	}
	for _, a := range words {
		st = m.Extend(st, a)
	}
	return st, nil
}

// --- Weights ---------------------------------------------------------------

// PrefixWeight is the total weight of all strings starting with the state's
// prefix.
func (m *Model[W]) PrefixWeight(st State[W]) W {
	s := st.session()
	if s.parser.Len() == 0 {
		return m.c.Mass
	}
	w, err := s.parser.PrefixWeight()
	if err != nil { // compiled grammars have a prefix start
		panic(err)
	}
	return w
}

// IsComplete is true if the state's prefix is a string of the language.
func (m *Model[W]) IsComplete(st State[W]) bool {
	s := st.session()
	if s.parser.Len() == 0 {
		return !m.sr.IsZero(m.c.Empty)
	}
	return !m.sr.IsZero(s.parser.TotalWeight())
}

// Weight returns the total weight of words as a complete string.
func (m *Model[W]) Weight(words []string) W {
	if len(words) == 0 {
		return m.c.Empty
	}
	st := m.Initial()
	for _, a := range words {
		st = m.Extend(st, a)
	}
	return st.s.parser.TotalWeight()
}

// PNext returns, for every terminal a of the grammar, the weight of
// extending the state's prefix by a, and for EOS the weight of ending it.
// For semirings with division, weights are conditional on the prefix: each
// is divided by the prefix weight. If the prefix has weight 0̄, all weights
// are 0̄. For other semirings the weights of the extended prefixes are
// returned as they are.
func (m *Model[W]) PNext(st State[W]) (map[string]W, error) {
	s := st.session()
	start := time.Now()
	defer m.metrics.lookedAhead(m.c.Backend, start)
	la, err := s.parser.Lookahead()
	if err != nil {
		return nil, err
	}
	end, prefix := la.End, la.Prefix
	if s.parser.Len() == 0 {
		end, prefix = m.c.Empty, m.c.Mass
	}
	next := make(map[string]W, len(la.Terminals)+1)
	for a, w := range la.Terminals {
		next[a] = w
	}
	next[EOS] = end
	if m.div == nil { // no rescaling without division
		return next, nil
	}
	if m.sr.IsZero(prefix) {
		for a := range next {
			next[a] = m.sr.Zero()
		}
		return next, nil
	}
	for a, w := range next {
		if next[a], err = m.div.Div(w, prefix); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("PNext after %d terminals: %v", s.parser.Len(), next)
	return next, nil
}

// LogPNext returns the natural logarithms of the conditional weights of
// PNext. It needs a semiring which is able to rescale weights, e.g. Float or
// Log. Weights of 0̄ map to −∞.
func (m *Model[W]) LogPNext(st State[W]) (map[string]float64, error) {
	if m.scaler == nil {
		return nil, wcfg.Unsupported("semiring %s has no logarithm of weights", m.sr.Name())
	}
	next, err := m.PNext(st)
	if err != nil {
		return nil, err
	}
	logp := make(map[string]float64, len(next))
	for a, w := range next {
		if m.sr.IsZero(w) {
			logp[a] = math.Inf(-1)
			continue
		}
		logp[a] = m.scaler.Ln(w)
	}
	return logp, nil
}

// PNextSeq returns the conditional weight of extending the state's prefix by
// the terminals of ext, i.e., the product of the PNext weights along ext.
// EOS may only appear as the last symbol of ext. st is not extended and
// stays usable; the extension is computed on a parser of its own.
//
// PNextSeq needs a semiring with division.
func (m *Model[W]) PNextSeq(st State[W], ext []string) (W, error) {
	s := st.session()
	if m.div == nil {
		return m.sr.Zero(), wcfg.Unsupported("conditional weights need division, semiring %s has none", m.sr.Name())
	}
	for i, a := range ext {
		if a == EOS && i < len(ext)-1 {
			return m.sr.Zero(), wcfg.Unsupported("%s inside of an extension at position %d", EOS, i)
		}
	}
	fork := m.Initial()
	for _, a := range s.parser.Words() {
		fork = m.Extend(fork, a)
	}
	w := m.sr.One()
	for _, a := range ext {
		next, err := m.PNext(fork)
		if err != nil {
			return m.sr.Zero(), err
		}
		p, ok := next[a]
		if !ok || m.sr.IsZero(p) {
			return m.sr.Zero(), nil
		}
		w = m.sr.Mul(w, p)
		if a != EOS {
			fork = m.Extend(fork, a)
		}
	}
	return w, nil
}
