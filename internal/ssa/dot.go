package ssa

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"

	"ssagraph/internal/arena"
)

// attrs is a fixed DOT attribute list.
type attrs []encoding.Attribute

func (a attrs) Attributes() []encoding.Attribute { return a }

// dotGraph carries the graph-wide DOT defaults. A multigraph is needed
// because a block may reach the same block through both edges, or through
// an edge and its dominator.
type dotGraph struct {
	*multi.DirectedGraph
}

func (dotGraph) DOTAttributers() (g, n, e encoding.Attributer) {
	return attrs{{Key: "rankdir", Value: "TB"}},
		attrs{{Key: "shape", Value: "box"}, {Key: "fontname", Value: `"Courier"`}},
		attrs{}
}

type dotNode struct {
	id    BlockID
	attrs attrs
}

func (n dotNode) ID() int64                        { return arena.Index(n.id).Int64() }
func (n dotNode) DOTID() string                    { return n.id.String() }
func (n dotNode) Attributes() []encoding.Attribute { return n.attrs }

type dotLine struct {
	from, to graph.Node
	id       int64
	attrs    attrs
}

func (l dotLine) From() graph.Node                 { return l.from }
func (l dotLine) To() graph.Node                   { return l.to }
func (l dotLine) ID() int64                        { return l.id }
func (l dotLine) Attributes() []encoding.Attribute { return l.attrs }

func (l dotLine) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}

var (
	rightEdge     = attrs{{Key: "style", Value: "dashed"}}
	dominatorEdge = attrs{
		{Key: "style", Value: "dotted"},
		{Key: "color", Value: "gray"},
		{Key: "constraint", Value: "false"},
	}
)

// WriteDot writes a Graphviz DOT representation of the CFG. Solid edges are
// left successors, dashed edges right successors and dotted edges point from
// a block to its recorded dominator. Edges to blocks that do not resolve are
// left out.
func WriteDot(w io.Writer, ctx *Context) error {
	g := dotGraph{multi.NewDirectedGraph()}
	nodes := make(map[BlockID]graph.Node)
	for b := range ctx.Blocks() {
		a := attrs{{
			Key:   "label",
			Value: fmt.Sprintf(`"%s\n%s, %s\n%d instructions"`, b.ID, b.Kind, ctx.SealState(b.ID), len(b.Instructions)),
		}}
		if b.ID == ctx.FirstBlock {
			a = append(a, encoding.Attribute{Key: "style", Value: "bold"})
		}
		n := dotNode{id: b.ID, attrs: a}
		nodes[b.ID] = n
		g.AddNode(n)
	}

	var lines int64
	addLine := func(from, to BlockID, a attrs) {
		t, ok := nodes[to]
		if to.IsNone() || !ok {
			return
		}
		g.SetLine(dotLine{from: nodes[from], to: t, id: lines, attrs: a})
		lines++
	}
	for b := range ctx.Blocks() {
		addLine(b.ID, b.Left, nil)
		addLine(b.ID, b.Right, rightEdge)
		addLine(b.ID, b.Dominator, dominatorEdge)
	}

	out, err := dot.MarshalMulti(g, "CFG", "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cfg: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return err
	}
	return nil
}
