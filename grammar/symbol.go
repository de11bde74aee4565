package grammar

import "fmt"

// Kind tells terminals and non-terminals apart.
type Kind uint8

// Kinds of grammar symbols.
const (
	NonTerminal Kind = iota
	Terminal
)

func (k Kind) String() string {
	if k == Terminal {
		return "terminal"
	}
	return "non-terminal"
}

// Symbol is a grammar symbol. Symbols are comparable and may be used as map keys.
type Symbol struct {
	Name string
	Kind Kind
}

// T creates a terminal symbol.
func T(name string) Symbol {
	return Symbol{Name: name, Kind: Terminal}
}

// N creates a non-terminal symbol.
func N(name string) Symbol {
	return Symbol{Name: name, Kind: NonTerminal}
}

// IsTerminal returns true if this symbol represents a terminal.
func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

// IsZero is true for the uninitialized symbol.
func (s Symbol) IsZero() bool {
	return s.Name == ""
}

func (s Symbol) String() string {
	if s.Kind == Terminal {
		return fmt.Sprintf("%q", s.Name)
	}
	return s.Name
}
