// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"ssagraph/grammar"
	"ssagraph/internal/builder"
	"ssagraph/internal/config"
	"ssagraph/internal/errors"
)

const PROMPT = ">> "

const filename = "<repl>"

// Start reads statements line by line and executes them against one
// construction context until in is exhausted or ":quit" is entered.
// ":reset" starts over with an empty context and ":finish" runs the
// end-of-script checks.
func Start(in io.Reader, out io.Writer, cfg *config.Config) {
	scanner := bufio.NewScanner(in)
	b := builder.New(out, cfg)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		reporter := errors.NewErrorReporter(filename, line)
		seen := len(b.Errors())

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit":
			return
		case ":reset":
			b = builder.New(out, cfg)
			continue
		case ":finish":
			b.Finish(lexer.Position{Filename: filename, Line: 1, Column: 1})
		default:
			script, err := grammar.ParseString(filename, line)
			if err != nil {
				grammar.ReportParseError(out, line, err)
				continue
			}
			b.Run(script)
		}

		fmt.Fprint(out, reporter.FormatAll(b.Errors()[seen:]))
	}
}
