package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/wcfg/lm"
	"github.com/pterm/pterm"
)

// REPL starts interactive mode. Every input line is tokenized and extends
// the current prefix. Lines starting with ':' are commands.
func (sh *wshell[W]) REPL(cfg *config) error {
	repl, err := readline.New("wcfg> ")
	if err != nil {
		tracer().Errorf("%v", err)
		return err
	}
	defer repl.Close()
	intp := &Intp[W]{
		sh:    sh,
		cfg:   cfg,
		state: sh.model.Initial(),
		out:   os.Stdout,
	}
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
	return nil
}

// Intp is our interpreter object, holding the current prefix.
type Intp[W any] struct {
	sh    *wshell[W]
	cfg   *config
	state lm.State[W]
	out   io.Writer
}

// Eval evaluates a line of input.
//
//	:quit    leave the REPL
//	:reset   start over with the empty prefix
//	:prefix  show the current prefix and its weight
//	:all     show next-symbol weights, including zeros
//	…        terminals to append to the prefix
func (intp *Intp[W]) Eval(line string) (bool, error) {
	m := intp.sh.model
	switch line {
	case ":quit", ":q":
		return true, nil
	case ":reset":
		intp.state = m.Initial()
		return false, intp.sh.printNext(intp.out, intp.state, false)
	case ":prefix":
		fmt.Fprintf(intp.out, "%q @ %s\n", intp.state.Words(), intp.sh.sr.Format(m.PrefixWeight(intp.state)))
		return false, nil
	case ":all":
		return false, intp.sh.printNext(intp.out, intp.state, true)
	}
	if strings.HasPrefix(line, ":") {
		return false, fmt.Errorf("unknown command %s", line)
	}
	words, err := intp.cfg.tokenize(line)
	if err != nil {
		return false, err
	}
	for _, a := range words {
		intp.state = m.Extend(intp.state, a)
	}
	tracer().Infof("prefix has %d terminals", intp.state.Len())
	w := m.PrefixWeight(intp.state)
	fmt.Fprintf(intp.out, "prefix weight %s\n", intp.sh.sr.Format(w))
	return false, intp.sh.printNext(intp.out, intp.state, false)
}
