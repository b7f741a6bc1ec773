package grammar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

var scriptParser = participle.MustBuild[Script](
	participle.Lexer(ScriptLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseString parses a script. On a syntax error the statements parsed so
// far are returned together with the error.
func ParseString(filename, source string) (*Script, error) {
	return scriptParser.ParseString(filename, source)
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	script, err := ParseString(path, string(source))
	return script, string(source), err
}

// ReportParseError prints a friendly caret-style parse error message.
func ReportParseError(w io.Writer, src string, err error) {
	red := color.New(color.FgRed)
	pe, ok := err.(participle.Error)
	if !ok {
		red.Fprintf(w, "Unexpected error: %s\n", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		red.Fprintf(w, "Syntax error at unknown location: %s\n", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(0, pos.Column-1)) + "^"

	red.Fprintf(w, "Syntax error in %s at line %d, column %d:\n", pos.Filename, pos.Line, pos.Column)
	fmt.Fprintln(w, line)
	color.New(color.FgHiRed).Fprintln(w, caret)
	fmt.Fprintf(w, "→ %s\n", pe.Message())
}
