package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func session(input string) string {
	var out bytes.Buffer
	Start(strings.NewReader(input), &out, nil)
	return out.String()
}

func TestStatementsShareOneContext(t *testing.T) {
	out := session("entry e;\nsealed a; assign x;\nread x in a;\nbfs e _;\n")
	assert.Contains(t, out, "read x in a: %3\n")
	assert.Contains(t, out, "bfs e _: e a\n")
	assert.True(t, strings.HasSuffix(out, PROMPT+"\n"), "EOF ends the session")
}

func TestDiagnosticsAreReportedPerLine(t *testing.T) {
	out := session("entry e;\ngoto nowhere;\n")
	assert.Contains(t, out, "error[E0001]: undefined block 'nowhere'")
	assert.Contains(t, out, "<repl>:1:6")
}

func TestSyntaxErrorsDoNotStopTheSession(t *testing.T) {
	out := session("entry ;\nentry e;\nfirst e;\n")
	assert.Contains(t, out, "Syntax error in <repl> at line 1, column 7")
	assert.Contains(t, out, "first e: %0 = nop\n")
}

func TestResetAndFinish(t *testing.T) {
	out := session("entry e;\n:reset\nentry f;\nunsealed h left;\n:finish\n:quit\nentry g;\n")
	assert.NotContains(t, out, "entry block already exists")
	assert.Contains(t, out, "warning[W0001]: block 'h' is never sealed")
	assert.Equal(t, 6, strings.Count(out, PROMPT), "input after :quit is ignored")
}
