/*
Package rulesfile reads and writes weighted grammars as YAML files of rule
triples.

	name: anbn
	semiring: float
	start: S
	rules:
	  - { head: S, body: [a, S, b], weight: 0.3 }
	  - { head: S, body: [], weight: 0.7 }

Weights are probabilities, lifted into the grammar's semiring. A missing
weight means 1̄. If the file does not declare non-terminals, every rule head
is a non-terminal. If it does not declare terminals, every body symbol which
is not a non-terminal is a terminal.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rulesfile

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/semiring"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'wcfg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("wcfg.grammar")
}

// File is the contents of a rules file.
type File struct {
	Name         string   `yaml:"name,omitempty"`
	Semiring     string   `yaml:"semiring" validate:"required,oneof=boolean float log maxplus maxtimes entropy expectation"`
	Start        string   `yaml:"start" validate:"required,symbol"`
	NonTerminals []string `yaml:"nonterminals,omitempty" validate:"dive,symbol"`
	Terminals    []string `yaml:"terminals,omitempty" validate:"dive,symbol"`
	Rules        []Rule   `yaml:"rules" validate:"required,min=1,dive"`
}

// Rule is a rule triple.
type Rule struct {
	Head   string   `yaml:"head" validate:"required,symbol"`
	Body   []string `yaml:"body,flow" validate:"dive,symbol"`
	Weight *float64 `yaml:"weight,omitempty" validate:"omitempty,gte=0"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("symbol", validateSymbol); err != nil {
		panic(err)
	}
}

// validateSymbol checks that a symbol name is non-empty and free of white space.
func validateSymbol(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}

// Decode reads and validates a rules file.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, wcfg.Malformed("cannot read rules file: %v", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the structure of a rules file.
func (f *File) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, len(verrs))
		for i, e := range verrs {
			msgs[i] = fmt.Sprintf("%s fails %q", e.Namespace(), e.Tag())
		}
		return wcfg.Malformed("invalid rules file: %s", strings.Join(msgs, "; "))
	}
	return wcfg.Malformed("invalid rules file: %v", err)
}

// Grammar constructs the grammar of a rules file over sr. The file's
// semiring tag has to match sr.
func Grammar[W any](f *File, sr semiring.Semiring[W]) (*grammar.Grammar[W], error) {
	nonterminals := f.NonTerminals
	if len(nonterminals) == 0 {
		seen := make(map[string]bool)
		for _, r := range f.Rules {
			if !seen[r.Head] {
				seen[r.Head] = true
				nonterminals = append(nonterminals, r.Head)
			}
		}
	}
	terminals := f.Terminals
	if len(terminals) == 0 {
		isN := make(map[string]bool, len(nonterminals))
		for _, A := range nonterminals {
			isN[A] = true
		}
		seen := make(map[string]bool)
		for _, r := range f.Rules {
			for _, s := range r.Body {
				if !isN[s] && !seen[s] {
					seen[s] = true
					terminals = append(terminals, s)
				}
			}
		}
	}
	triples := make([]grammar.Triple[W], len(f.Rules))
	for i, r := range f.Rules {
		w := sr.One()
		if r.Weight != nil {
			var err error
			if w, err = semiring.Lift(sr, *r.Weight); err != nil {
				return nil, err
			}
		}
		triples[i] = grammar.Triple[W]{Head: r.Head, Body: r.Body, Weight: w}
	}
	var opts []grammar.Option
	if f.Name != "" {
		opts = append(opts, grammar.Named(f.Name))
	}
	g, err := grammar.FromTriples(sr, f.Semiring, f.Start, nonterminals, terminals, triples, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("read grammar %s with %d rules", g.Name, g.RuleCount())
	return g, nil
}

// Encode writes g as a rules file. Weights are converted to probabilities by
// prob; g's semiring name is used as the file's semiring tag.
func Encode[W any](w io.Writer, g *grammar.Grammar[W], prob func(W) float64) error {
	f := File{
		Name:      g.Name,
		Semiring:  g.Semiring().Name(),
		Start:     g.Start().Name,
		Terminals: g.Terminals(),
	}
	for _, A := range g.NonTerminals() {
		f.NonTerminals = append(f.NonTerminals, A.Name)
	}
	for _, tr := range g.Triples() {
		p := prob(tr.Weight)
		f.Rules = append(f.Rules, Rule{Head: tr.Head, Body: tr.Body, Weight: &p})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return err
	}
	return enc.Close()
}
