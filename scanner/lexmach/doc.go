/*
Package lexmach provides an adapter to use the lexmachine scanner generator
as a tokenizer for weighted grammars.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Lexmachine has to be initialized by providing keywords and regular expressions.
Package lexmach is opinionated on how to do the setup of lexmachine.

	var literals []string       // The tokens representing literal strings
	var keywords []string       // The keyword tokens
	var tokenIds map[string]int // A map from the token names to their int IDs

	init := func(lexer *lexmachine.Lexer) {
		// lexmach.Skip      ignores the scanned match
		// lexmach.MakeToken wraps a scanned match into a wcfg.Token
	}

	LM, err := NewLMAdapter(init, literals, keywords, tokenIds)
	scan, err := LM.Scanner("input string to tokenize")

The scanner implements scanner.Tokenizer and may be drained into terminal
names with scanner.Terminals, using the token names of MakeToken:

	words, err := scanner.Terminals(scan, lexmach.ByTokenName)

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
