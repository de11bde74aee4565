package lm

import (
	"fmt"
	"sync"

	"github.com/cnf/structhash"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/grammar/transform"
	"golang.org/x/sync/singleflight"
)

// Cache shares compiled grammars between clients. Grammars are identified by
// a fingerprint of their rules and the parser backend. Concurrent requests
// for the same grammar are collapsed into a single compilation.
//
// A Cache is safe for concurrent use.
type Cache[W any] struct {
	mu       sync.RWMutex
	compiled map[string]*Compiled[W]
	group    singleflight.Group
	metrics  *Metrics
}

// NewCache creates an empty cache. Compilations are counted by metrics, if
// not nil.
func NewCache[W any](metrics *Metrics) *Cache[W] {
	return &Cache[W]{
		compiled: make(map[string]*Compiled[W]),
		metrics:  metrics,
	}
}

// Len is the number of compiled grammars in the cache.
func (c *Cache[W]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.compiled)
}

// Model returns a model for g, compiling g only if no equal grammar has been
// compiled for the same backend before.
func (c *Cache[W]) Model(g *grammar.Grammar[W], opts ...Option) (*Model[W], error) {
	o := collect(opts)
	compiled, err := c.Compile(g, o.backend, o.topts...)
	if err != nil {
		return nil, err
	}
	return newModel(compiled, o), nil
}

// Compile returns the compiled version of g for backend b. Transform options
// are only used if g has to be compiled.
func (c *Cache[W]) Compile(g *grammar.Grammar[W], b Backend, topts ...transform.Option) (*Compiled[W], error) {
	key, err := Fingerprint(g, b)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	compiled, ok := c.compiled[key]
	c.mu.RUnlock()
	if ok {
		tracer().Debugf("cache hit for grammar %s", g.Name)
		return compiled, nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		compiled, ok := c.compiled[key]
		c.mu.RUnlock()
		if ok {
			return compiled, nil
		}
		compiled, err := Compile(g, b, topts...)
		if err != nil {
			return nil, err
		}
		c.metrics.compiled(b)
		c.mu.Lock()
		c.compiled[key] = compiled
		c.mu.Unlock()
		return compiled, nil
	})
	if err != nil {
		return nil, err
	}
	compiled, ok = v.(*Compiled[W])
	if !ok {
		return nil, fmt.Errorf("lm: unexpected type %T from compile group", v)
	}
	return compiled, nil
}

// fingerprint is the hashed view of a grammar.
type fingerprint struct {
	Semiring    string
	Start       string
	PrefixStart string
	Backend     string
	Terminals   []string
	Rules       []ruleprint
}

type ruleprint struct {
	Head   string
	Body   []string
	Weight string
}

// Fingerprint hashes the rules of g together with the backend. Grammars with
// equal fingerprints compile to equal models.
func Fingerprint[W any](g *grammar.Grammar[W], b Backend) (string, error) {
	fp := fingerprint{
		Semiring:  g.Semiring().Name(),
		Start:     g.Start().Name,
		Backend:   b.String(),
		Terminals: g.Terminals(),
	}
	if P, ok := g.PrefixStart(); ok {
		fp.PrefixStart = P.Name
	}
	for _, r := range g.Rules() {
		rp := ruleprint{Head: r.Head.Name, Weight: fmt.Sprintf("%#v", r.Weight)} // exact, bypasses Stringers
		for _, s := range r.Body {
			rp.Body = append(rp.Body, s.String())
		}
		fp.Rules = append(fp.Rules, rp)
	}
	return structhash.Hash(fp, 1)
}
