package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/wcfg/ebnfgrammar"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/internal/rulesfile"
	"github.com/npillmayer/wcfg/lm"
	"github.com/npillmayer/wcfg/scanner"
	"github.com/npillmayer/wcfg/semiring"
	"github.com/pterm/pterm"
	"golang.org/x/exp/ebnf"
)

// config holds the global command line flags.
type config struct {
	trace     string
	backend   string
	semiring  string
	start     string
	tokenizer string
	noRescale bool
}

// tokenize splits user input into terminals.
func (cfg *config) tokenize(input string) ([]string, error) {
	switch cfg.tokenizer {
	case "", "fields":
		return strings.Fields(input), nil
	case "go":
		t := scanner.GoTokenizer("input", strings.NewReader(input))
		return scanner.Terminals(t, scanner.ByLexeme)
	case "runes":
		t := scanner.CategoryTokenizer(strings.NewReader(input), scanner.Runes, scanner.CatSpace)
		return scanner.Terminals(t, scanner.ByLexeme)
	}
	return nil, fmt.Errorf("unknown tokenizer %q", cfg.tokenizer)
}

// shell executes the commands of the CLI for a grammar over some semiring.
type shell interface {
	Check(w io.Writer, show bool) error
	Score(w io.Writer, words []string) error
	Next(w io.Writer, words []string, all bool) error
	REPL(cfg *config) error
}

// source is a grammar file, either rules or EBNF.
type source struct {
	name  string
	rules *rulesfile.File
	ebnf  ebnf.Grammar
	start string
}

func grammarOf[W any](src source, sr semiring.Semiring[W]) (*grammar.Grammar[W], error) {
	if src.rules != nil {
		return rulesfile.Grammar(src.rules, sr)
	}
	return ebnfgrammar.Convert(src.ebnf, src.start, sr, ebnfgrammar.Named(src.name))
}

// load reads a grammar file and creates a shell for the file's semiring.
func load(path string, cfg *config) (shell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src := source{name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	tag := cfg.semiring
	if strings.EqualFold(filepath.Ext(path), ".ebnf") {
		if cfg.start == "" {
			return nil, fmt.Errorf("EBNF grammar %s needs a start production (--start)", path)
		}
		if src.ebnf, err = ebnf.Parse(path, f); err != nil {
			return nil, fmt.Errorf("parse grammar: %w", err)
		}
		src.start = cfg.start
	} else {
		if src.rules, err = rulesfile.Decode(f); err != nil {
			return nil, err
		}
		tag = src.rules.Semiring
	}
	switch tag {
	case "boolean":
		return build[bool](src, semiring.Boolean{}, cfg)
	case "float":
		return build[float64](src, semiring.Float{}, cfg)
	case "log":
		return build[float64](src, semiring.Log{}, cfg)
	case "maxplus":
		return build[float64](src, semiring.MaxPlus{}, cfg)
	case "maxtimes":
		return build[float64](src, semiring.MaxTimes{}, cfg)
	case "entropy":
		return build[semiring.Pair](src, semiring.Entropy{}, cfg)
	case "expectation":
		return build[semiring.Pair](src, semiring.Expectation{}, cfg)
	}
	return nil, fmt.Errorf("unknown semiring %q", tag)
}

func build[W any](src source, sr semiring.Semiring[W], cfg *config) (shell, error) {
	g, err := grammarOf(src, sr)
	if err != nil {
		return nil, err
	}
	backend := lm.Earley
	if cfg.backend != "" {
		if backend, err = lm.ParseBackend(cfg.backend); err != nil {
			return nil, err
		}
	}
	opts := []lm.Option{lm.WithBackend(backend)}
	if cfg.noRescale {
		opts = append(opts, lm.WithRescaling(false))
	}
	model, err := lm.New(g, opts...)
	if err != nil {
		return nil, err
	}
	return &wshell[W]{g: g, sr: sr, model: model}, nil
}

// wshell is a shell for grammars with weights of type W.
type wshell[W any] struct {
	g     *grammar.Grammar[W]
	sr    semiring.Semiring[W]
	model *lm.Model[W]
}

func (sh *wshell[W]) Check(w io.Writer, show bool) error {
	c := sh.model.Compiled()
	err := render(w, pterm.TableData{
		{"grammar", sh.g.Name},
		{"semiring", sh.sr.Name()},
		{"backend", c.Backend.String()},
		{"start", sh.g.Start().Name},
		{"terminals", strings.Join(sh.g.Terminals(), " ")},
		{"source", fmt.Sprintf("%d non-terminals, %d rules", sh.g.NonTerminalCount(), sh.g.RuleCount())},
		{"compiled", fmt.Sprintf("%d non-terminals, %d rules", c.Grammar.NonTerminalCount(), c.Grammar.RuleCount())},
		{"empty string", sh.sr.Format(c.Empty)},
		{"total mass", sh.sr.Format(c.Mass)},
	})
	if err != nil {
		return err
	}
	if show {
		sh.showRules(c.Grammar)
	}
	return nil
}

// showRules displays the rules of g as a tree, grouped by head.
func (sh *wshell[W]) showRules(g *grammar.Grammar[W]) {
	ll := pterm.LeveledList{}
	g.EachNonTerminal(func(id int, A grammar.Symbol) {
		rules := g.RulesForID(id)
		if len(rules) == 0 {
			return
		}
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: A.Name})
		for _, r := range rules {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: r.Format(sh.sr)})
		}
	})
	pterm.Println(g.Name)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func (sh *wshell[W]) Score(w io.Writer, words []string) error {
	st := sh.model.Initial()
	for _, a := range words {
		st = sh.model.Extend(st, a)
	}
	return render(w, pterm.TableData{
		{"input", strings.Join(words, " ")},
		{"weight", sh.sr.Format(sh.model.Weight(words))},
		{"prefix weight", sh.sr.Format(sh.model.PrefixWeight(st))},
		{"complete", fmt.Sprintf("%v", sh.model.IsComplete(st))},
	})
}

func (sh *wshell[W]) Next(w io.Writer, words []string, all bool) error {
	st := sh.model.Initial()
	for _, a := range words {
		st = sh.model.Extend(st, a)
	}
	return sh.printNext(w, st, all)
}

// printNext prints the next-symbol weights of a state, terminals sorted by
// name and EOS last.
func (sh *wshell[W]) printNext(w io.Writer, st lm.State[W], all bool) error {
	next, err := sh.model.PNext(st)
	if err != nil {
		return err
	}
	terminals := make([]string, 0, len(next))
	for a := range next {
		if a != lm.EOS {
			terminals = append(terminals, a)
		}
	}
	sort.Strings(terminals)
	terminals = append(terminals, lm.EOS)
	var data pterm.TableData
	for _, a := range terminals {
		if all || !sh.sr.IsZero(next[a]) {
			data = append(data, []string{a, sh.sr.Format(next[a])})
		}
	}
	return render(w, data)
}

// render writes a table of two columns, key and value, to w.
func render(w io.Writer, data pterm.TableData) error {
	if len(data) == 0 {
		return nil
	}
	s, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
