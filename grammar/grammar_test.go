// SPDX-License-Identifier: Apache-2.0
package grammar_test

import (
	"bytes"
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssagraph/grammar"
)

func TestDiamond(t *testing.T) {
	script, _, err := grammar.ParseFile(`../examples/diamond.ssa`)
	require.NoError(t, err)
	require.Len(t, script.Statements, 16)

	comment := script.Statements[0].Comment
	require.NotNil(t, comment)
	assert.Equal(t, "// Two-way branch that merges again.", comment.Text)

	entry := script.Statements[1].Entry
	require.NotNil(t, entry)
	assert.Equal(t, "e", entry.Label.Value)
	assert.Equal(t, 2, entry.Label.Pos.Line)
	assert.Equal(t, 7, entry.Label.Pos.Column)

	unsealed := script.Statements[2].Unsealed
	require.NotNil(t, unsealed)
	assert.Equal(t, "l", unsealed.Label.Value)
	assert.Equal(t, "left", unsealed.Edge)
	assert.False(t, unsealed.Join)

	assert.Equal(t, "right", script.Statements[4].Unsealed.Edge)

	block := script.Statements[5].Block
	require.NotNil(t, block)
	assert.True(t, block.Join)

	link := script.Statements[6].Link
	require.NotNil(t, link)
	assert.Equal(t, "e", link.Target.Value)
	assert.Equal(t, "l", link.Left.Value)
	assert.Equal(t, "r", link.Right.Value)

	tail := script.Statements[7].Link
	assert.True(t, tail.Right.IsBlank())
	assert.False(t, tail.Left.IsBlank())

	pred := script.Statements[9].Pred
	require.NotNil(t, pred)
	assert.Equal(t, "m", pred.Block.Value)
	assert.Equal(t, "l", pred.Pred.Value)

	bfs := script.Statements[14].BFS
	require.NotNil(t, bfs)
	assert.Equal(t, "e", bfs.Start.Value)
	assert.Equal(t, "m", bfs.Stop.Value)
}

func TestLoop(t *testing.T) {
	script, _, err := grammar.ParseFile(`../examples/loop.ssa`)
	require.NoError(t, err)

	read := script.Statements[9].Read
	require.NotNil(t, read)
	assert.Equal(t, "i", read.Variable.Value)
	assert.Equal(t, "h", read.In.Value)

	link := script.Statements[6].Link
	require.NotNil(t, link)
	assert.True(t, link.Left.IsBlank())
	assert.Equal(t, "h", link.Right.Value)
}

func TestEveryKeywordParses(t *testing.T) {
	src := `entry a; sealed b join; unsealed c right; block d; link a left b right c;
goto a; pred c += a; seal c; drop d; assign x; read x; first a; dom; bfs a _;
verify; print;`
	script, err := grammar.ParseString("all.ssa", src)
	require.NoError(t, err)

	var keywords []string
	for _, st := range script.Statements {
		keywords = append(keywords, st.Keyword())
	}
	assert.Equal(t, grammar.Keywords, keywords)
}

func TestLinkWithOnlyRightEdge(t *testing.T) {
	script, err := grammar.ParseString("r.ssa", "link a right b;")
	require.NoError(t, err)
	link := script.Statements[0].Link
	assert.Nil(t, link.Left)
	assert.True(t, link.Left.IsBlank())
	assert.Equal(t, "b", link.Right.Value)
}

func TestModifiersAreValidLabels(t *testing.T) {
	script, err := grammar.ParseString("m.ssa", "sealed left join;")
	require.NoError(t, err)
	assert.Equal(t, "left", script.Statements[0].Sealed.Label.Value)
	assert.True(t, script.Statements[0].Sealed.Join)
}

func TestCanonicalFormatting(t *testing.T) {
	src := "entry   e ;\n\n// note\nunsealed h   left join;link h left _   right e ;\npred h+=e;read x   in h;dom ;"
	script, err := grammar.ParseString("fmt.ssa", src)
	require.NoError(t, err)

	want := `entry e;
// note
unsealed h left join;
link h left _ right e;
pred h += e;
read x in h;
dom;
`
	assert.Equal(t, want, script.String())

	again, err := grammar.ParseString("fmt.ssa", script.String())
	require.NoError(t, err)
	assert.Equal(t, want, again.String())
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := grammar.ParseString("bad.ssa", "entry e;\nsealed ;")
	require.Error(t, err)

	var perr participle.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Position().Line)
	assert.Equal(t, 8, perr.Position().Column)
}

func TestUnknownStatement(t *testing.T) {
	_, err := grammar.ParseString("bad.ssa", "jump a;")
	assert.Error(t, err)
}

func TestReportParseError(t *testing.T) {
	color.NoColor = true
	src := "entry e;\nsealed ;"
	_, err := grammar.ParseString("bad.ssa", src)
	require.Error(t, err)

	var out bytes.Buffer
	grammar.ReportParseError(&out, src, err)
	assert.Contains(t, out.String(), "Syntax error in bad.ssa at line 2, column 8")
	assert.Contains(t, out.String(), "sealed ;\n       ^\n")
}

func TestParseFileMissing(t *testing.T) {
	_, _, err := grammar.ParseFile("does-not-exist.ssa")
	assert.ErrorContains(t, err, "failed to read file")
}
