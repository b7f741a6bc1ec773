package ssa

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"

	"ssagraph/internal/arena"
)

// cfgGraph is a read-only graph.Directed view of the left/right edges of a
// Context. Successors are always reported left first, so traversals over it
// are deterministic. Edges to blocks that do not resolve are hidden.
type cfgGraph struct {
	ctx *Context
}

var _ graph.Directed = cfgGraph{}

func nodeOf(id BlockID) graph.Node {
	return simple.Node(arena.Index(id).Int64())
}

func blockOf(n graph.Node) BlockID {
	return BlockID(arena.FromInt64(n.ID()))
}

func (g cfgGraph) resolve(id int64) (*BasicBlock, bool) {
	return g.ctx.TryBlock(BlockID(arena.FromInt64(id)))
}

func (g cfgGraph) Node(id int64) graph.Node {
	if _, ok := g.resolve(id); !ok {
		return nil
	}
	return simple.Node(id)
}

func (g cfgGraph) Nodes() graph.Nodes {
	var nodes []graph.Node
	for b := range g.ctx.Blocks() {
		nodes = append(nodes, nodeOf(b.ID))
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g cfgGraph) successors(b *BasicBlock) []graph.Node {
	var nodes []graph.Node
	for _, s := range b.Successors() {
		if _, ok := g.ctx.TryBlock(s); ok {
			nodes = append(nodes, nodeOf(s))
		}
	}
	return nodes
}

func (g cfgGraph) From(id int64) graph.Nodes {
	b, ok := g.resolve(id)
	if !ok {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(g.successors(b))
}

func (g cfgGraph) To(id int64) graph.Nodes {
	target := BlockID(arena.FromInt64(id))
	if _, ok := g.ctx.TryBlock(target); !ok {
		return graph.Empty
	}
	var nodes []graph.Node
	for b := range g.ctx.Blocks() {
		if b.Left == target || b.Right == target {
			nodes = append(nodes, nodeOf(b.ID))
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g cfgGraph) HasEdgeFromTo(uid, vid int64) bool {
	u, ok := g.resolve(uid)
	if !ok {
		return false
	}
	if _, ok := g.resolve(vid); !ok {
		return false
	}
	v := BlockID(arena.FromInt64(vid))
	return u.Left == v || u.Right == v
}

func (g cfgGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.HasEdgeFromTo(xid, yid) || g.HasEdgeFromTo(yid, xid)
}

func (g cfgGraph) Edge(uid, vid int64) graph.Edge {
	if !g.HasEdgeFromTo(uid, vid) {
		return nil
	}
	return simple.Edge{F: simple.Node(uid), T: simple.Node(vid)}
}
