package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var ScriptLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},

		// Keywords and labels (order matters)
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},

		{Name: "Operator", Pattern: `\+=`, Action: nil},
		{Name: "Punctuation", Pattern: `[;]`, Action: nil},

		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})

// Keywords lists every statement keyword of the script language.
var Keywords = []string{
	"entry", "sealed", "unsealed", "block", "link", "goto", "pred", "seal",
	"drop", "assign", "read", "first", "dom", "bfs", "verify", "print",
}

// Modifiers lists the words that qualify a statement.
var Modifiers = []string{"join", "left", "right", "in"}
