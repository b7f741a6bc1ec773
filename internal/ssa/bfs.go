package ssa

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"
)

// BFS walks the left/right edges breadth-first from start and returns every
// block reached without passing through stop, start first. Each block is
// listed once, so cycles terminate; stop itself is only included when it
// is start. This is how the blocks of a region are collected up to, but
// excluding, its merge point.
func (c *Context) BFS(start, stop BlockID) []BlockID {
	result := []BlockID{start}
	if _, ok := c.TryBlock(start); !ok {
		return result
	}

	g := cfgGraph{ctx: c}
	stopID := nodeOf(stop).ID()
	startID := nodeOf(start).ID()
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			return e.To().ID() != stopID
		},
		Visit: func(n graph.Node) {
			if n.ID() != startID {
				result = append(result, blockOf(n))
			}
		},
	}
	bf.Walk(g, nodeOf(start), nil)
	return result
}
