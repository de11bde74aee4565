package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/semiring"
)

// Grammar is an immutable weighted context-free grammar over a semiring.
type Grammar[W any] struct {
	Name         string
	sr           semiring.Semiring[W]
	start        Symbol
	prefixStart  Symbol // zero symbol if none
	nonterminals []Symbol
	ids          map[string]int
	terminals    []string
	termset      map[string]struct{}
	rules        []*Rule[W]
	byHead       [][]*Rule[W]
}

// Option configures grammar construction by New.
type Option func(*config)

type config struct {
	name        string
	prefixStart string
	order       []string
	terminals   []string
}

// Named sets the name of a grammar.
func Named(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithPrefixStart marks a non-terminal as the start symbol of the grammar's
// prefix language (see transform.Prefix).
func WithPrefixStart(name string) Option {
	return func(c *config) {
		c.prefixStart = name
	}
}

// WithOrder fixes the numbering of non-terminals. Non-terminals not mentioned
// are numbered in encounter order after the ones listed.
func WithOrder(names ...string) Option {
	return func(c *config) {
		c.order = names
	}
}

// WithTerminals declares terminals in addition to the ones occuring in rule
// bodies.
func WithTerminals(names ...string) Option {
	return func(c *config) {
		c.terminals = append(c.terminals, names...)
	}
}

// New creates a grammar from a start symbol and a list of rules. Rules with
// identical head and body are merged by ⊕. Non-terminals are numbered in
// encounter order: the start symbol first, then the rule heads, then
// non-terminals occuring in rule bodies only.
//
// New returns an error wrapping wcfg.ErrMalformedGrammar if a name is used
// both as a terminal and as a non-terminal, or if start is not a non-terminal.
func New[W any](sr semiring.Semiring[W], start string, rules []Rule[W], opts ...Option) (*Grammar[W], error) {
	cfg := &config{name: "G"}
	for _, opt := range opts {
		opt(cfg)
	}
	if start == "" {
		return nil, wcfg.Malformed("grammar %s has no start symbol", cfg.name)
	}
	g := &Grammar[W]{
		Name:    cfg.name,
		sr:      sr,
		start:   N(start),
		ids:     make(map[string]int),
		termset: make(map[string]struct{}),
	}
	kinds := map[string]Kind{start: NonTerminal}
	declare := func(s Symbol) error {
		if s.Name == "" {
			return wcfg.Malformed("grammar %s contains a symbol without name", g.Name)
		}
		if k, ok := kinds[s.Name]; ok && k != s.Kind {
			return wcfg.Malformed("symbol %q used as terminal and as non-terminal", s.Name)
		}
		kinds[s.Name] = s.Kind
		return nil
	}
	for _, r := range rules {
		if r.Head.IsTerminal() {
			return nil, wcfg.Malformed("rule head %s is a terminal", r.Head)
		}
		if err := declare(r.Head); err != nil {
			return nil, err
		}
		for _, s := range r.Body {
			if err := declare(s); err != nil {
				return nil, err
			}
		}
	}
	for _, t := range cfg.terminals {
		if err := declare(T(t)); err != nil {
			return nil, err
		}
	}
	if cfg.prefixStart != "" {
		if err := declare(N(cfg.prefixStart)); err != nil {
			return nil, err
		}
		g.prefixStart = N(cfg.prefixStart)
	}
	for _, name := range cfg.order {
		if k, ok := kinds[name]; ok && k == NonTerminal {
			g.addNonTerminal(name)
		}
	}
	g.addNonTerminal(start)
	for _, r := range rules {
		g.addNonTerminal(r.Head.Name)
	}
	if cfg.prefixStart != "" {
		g.addNonTerminal(cfg.prefixStart)
	}
	alphabet := treeset.NewWithStringComparator()
	for _, t := range cfg.terminals {
		alphabet.Add(t)
	}
	for _, r := range rules {
		for _, s := range r.Body {
			if s.IsTerminal() {
				alphabet.Add(s.Name)
			} else {
				g.addNonTerminal(s.Name)
			}
		}
	}
	for _, t := range alphabet.Values() {
		g.terminals = append(g.terminals, t.(string))
		g.termset[t.(string)] = struct{}{}
	}
	g.byHead = make([][]*Rule[W], len(g.nonterminals))
	merged := make(map[string]*Rule[W])
	for _, r := range rules {
		rule := &Rule[W]{Head: r.Head, Body: append([]Symbol(nil), r.Body...), Weight: r.Weight}
		k := rule.key()
		if prev, ok := merged[k]; ok {
			prev.Weight = sr.Add(prev.Weight, rule.Weight)
			continue
		}
		merged[k] = rule
		rule.Serial = len(g.rules)
		g.rules = append(g.rules, rule)
		id := g.ids[rule.Head.Name]
		g.byHead[id] = append(g.byHead[id], rule)
	}
	return g, nil
}

func (g *Grammar[W]) addNonTerminal(name string) {
	if _, ok := g.ids[name]; ok {
		return
	}
	g.ids[name] = len(g.nonterminals)
	g.nonterminals = append(g.nonterminals, N(name))
}

// Semiring returns the semiring of the grammar's weights.
func (g *Grammar[W]) Semiring() semiring.Semiring[W] {
	return g.sr
}

// Start returns the start symbol.
func (g *Grammar[W]) Start() Symbol {
	return g.start
}

// PrefixStart returns the start symbol of the grammar's prefix language, if
// the grammar has been extended by transform.Prefix.
func (g *Grammar[W]) PrefixStart() (Symbol, bool) {
	return g.prefixStart, !g.prefixStart.IsZero()
}

// NonTerminals returns all non-terminals, indexed by their ID.
func (g *Grammar[W]) NonTerminals() []Symbol {
	return append([]Symbol(nil), g.nonterminals...)
}

// NonTerminalCount is the number of non-terminals.
func (g *Grammar[W]) NonTerminalCount() int {
	return len(g.nonterminals)
}

// NonTerminal returns the non-terminal with a given ID.
func (g *Grammar[W]) NonTerminal(id int) Symbol {
	return g.nonterminals[id]
}

// ID returns the dense ID of a non-terminal. For terminals and unknown
// symbols it returns false.
func (g *Grammar[W]) ID(sym Symbol) (int, bool) {
	if sym.IsTerminal() {
		return -1, false
	}
	id, ok := g.ids[sym.Name]
	return id, ok
}

// MustID is like ID but panics for unknown non-terminals.
func (g *Grammar[W]) MustID(sym Symbol) int {
	id, ok := g.ID(sym)
	if !ok {
		panic(fmt.Sprintf("unknown non-terminal %s in grammar %s", sym, g.Name))
	}
	return id
}

// Terminals returns the alphabet of the grammar in sorted order.
func (g *Grammar[W]) Terminals() []string {
	return append([]string(nil), g.terminals...)
}

// IsTerminal is true if name is a terminal of the grammar.
func (g *Grammar[W]) IsTerminal(name string) bool {
	_, ok := g.termset[name]
	return ok
}

// IsNonTerminal is true if name is a non-terminal of the grammar.
func (g *Grammar[W]) IsNonTerminal(name string) bool {
	_, ok := g.ids[name]
	return ok
}

// Rules returns all rules, ordered by serial number. Clients must not
// modify them.
func (g *Grammar[W]) Rules() []*Rule[W] {
	return g.rules
}

// RuleCount returns the number of rules.
func (g *Grammar[W]) RuleCount() int {
	return len(g.rules)
}

// Rule returns the rule with serial number n.
func (g *Grammar[W]) Rule(n int) *Rule[W] {
	return g.rules[n]
}

// RulesFor returns the rules with head sym. Clients must not modify them.
func (g *Grammar[W]) RulesFor(sym Symbol) []*Rule[W] {
	if id, ok := g.ID(sym); ok {
		return g.byHead[id]
	}
	return nil
}

// RulesForID returns the rules with the head numbered id.
func (g *Grammar[W]) RulesForID(id int) []*Rule[W] {
	return g.byHead[id]
}

// Size is the sum of rule lengths, with empty rules counting as 1.
func (g *Grammar[W]) Size() int {
	size := 0
	for _, r := range g.rules {
		size += 1 + len(r.Body)
	}
	return size
}

// HasEpsilonRules is true if a rule has an empty body.
func (g *Grammar[W]) HasEpsilonRules() bool {
	for _, r := range g.rules {
		if r.IsEpsilon() {
			return true
		}
	}
	return false
}

// EachNonTerminal iterates over all non-terminals in ID order.
func (g *Grammar[W]) EachNonTerminal(f func(id int, A Symbol)) {
	for id, A := range g.nonterminals {
		f(id, A)
	}
}

// Triples returns the grammar's rules as construction triples.
func (g *Grammar[W]) Triples() []Triple[W] {
	triples := make([]Triple[W], len(g.rules))
	for i, r := range g.rules {
		var body []string
		for _, s := range r.Body {
			body = append(body, s.Name)
		}
		triples[i] = Triple[W]{Head: r.Head.Name, Body: body, Weight: r.Weight}
	}
	return triples
}

// CopyRules returns copies of the grammar's rules, suitable as input for New.
func (g *Grammar[W]) CopyRules() []Rule[W] {
	rules := make([]Rule[W], len(g.rules))
	for i, r := range g.rules {
		rules[i] = Rule[W]{Head: r.Head, Body: append([]Symbol(nil), r.Body...), Weight: r.Weight}
	}
	return rules
}

// Options returns construction options which reproduce the grammar's name,
// prefix start and alphabet.
func (g *Grammar[W]) Options() []Option {
	opts := []Option{Named(g.Name), WithTerminals(g.terminals...)}
	if !g.prefixStart.IsZero() {
		opts = append(opts, WithPrefixStart(g.prefixStart.Name))
	}
	return opts
}

// Dump traces all rules of a grammar at debug level.
func (g *Grammar[W]) Dump() {
	tracer().Debugf("--- Grammar %s ------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r.Format(g.sr))
	}
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar[W]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "grammar %s over %s, start %s", g.Name, g.sr.Name(), g.start.Name)
	if !g.prefixStart.IsZero() {
		fmt.Fprintf(&b, ", prefix start %s", g.prefixStart.Name)
	}
	b.WriteString("\n")
	for _, r := range g.rules {
		fmt.Fprintf(&b, "%3d: %s\n", r.Serial, r.Format(g.sr))
	}
	return b.String()
}

// --- Fresh names -----------------------------------------------------------

// Namer hands out names for synthetic non-terminals which do not clash with
// symbols of a grammar.
type Namer struct {
	used map[string]struct{}
}

// NewNamer creates a namer avoiding all symbol names of g.
func NewNamer[W any](g *Grammar[W]) *Namer {
	n := &Namer{used: make(map[string]struct{})}
	for _, A := range g.nonterminals {
		n.used[A.Name] = struct{}{}
	}
	for _, a := range g.terminals {
		n.used[a] = struct{}{}
	}
	return n
}

// Fresh returns base if it is unused, or else base with a numeric suffix.
// The returned name is marked as used.
func (n *Namer) Fresh(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, ok := n.used[name]; !ok {
			break
		}
		name = fmt.Sprintf("%s#%d", base, i)
	}
	n.used[name] = struct{}{}
	return name
}
