package ssa

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/flow"
)

// Verify checks the structural integrity of the graph held by c. It returns
// an error listing every violation found, or nil. The Dominated check assumes
// ComputeDom has run since the last dominator change.
func (c *Context) Verify() error {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if c.FirstBlock.IsNone() {
		if c.NumBlocks() > 0 {
			add("graph has %d blocks but no entry block", c.NumBlocks())
		}
		return combineErrors(errs)
	}

	entry, ok := c.TryBlock(c.FirstBlock)
	if !ok {
		add("entry block %s does not resolve", c.FirstBlock)
		return combineErrors(errs)
	}
	if !entry.Dominator.IsNone() {
		add("entry block %s has dominator %s", entry.ID, entry.Dominator)
	}
	if len(entry.Predecessor) != 0 {
		add("entry block %s has %d predecessors, want 0", entry.ID, len(entry.Predecessor))
	}

	if _, ok := c.TryBlock(c.CurrentBlock); !ok {
		add("current block %s does not resolve", c.CurrentBlock)
	}

	reachable := make(map[BlockID]bool)
	for _, id := range c.BFS(c.FirstBlock, NoBlock) {
		reachable[id] = true
	}

	// children[d] counts how often each block is listed under d.
	children := make(map[BlockID]map[BlockID]int)

	for b := range c.Blocks() {
		for _, edge := range []struct {
			name string
			id   BlockID
		}{{"left", b.Left}, {"right", b.Right}, {"dominator", b.Dominator}} {
			if edge.id.IsNone() {
				continue
			}
			if _, ok := c.TryBlock(edge.id); !ok {
				add("%s: %s %s does not resolve", b.ID, edge.name, edge.id)
			}
		}
		if b.ID != c.FirstBlock && b.Dominator.IsNone() && reachable[b.ID] {
			add("%s: reachable block has no dominator", b.ID)
		}

		m := make(map[BlockID]int, len(b.Dominated))
		for _, d := range b.Dominated {
			m[d]++
		}
		children[b.ID] = m
	}

	for b := range c.Blocks() {
		reported := make(map[BlockID]bool)
		for _, child := range b.Dominated {
			if reported[child] {
				continue
			}
			reported[child] = true
			if n := children[b.ID][child]; n > 1 {
				add("%s: %s listed %d times in dominated", b.ID, child, n)
			}
			cb, ok := c.TryBlock(child)
			if !ok {
				add("%s: dominated block %s does not resolve", b.ID, child)
				continue
			}
			if cb.Dominator != b.ID {
				add("%s: lists %s as dominated but its dominator is %s", b.ID, child, cb.Dominator)
			}
		}
		if b.Dominator.IsNone() {
			continue
		}
		if _, ok := c.TryBlock(b.Dominator); ok && children[b.Dominator][b.ID] == 0 {
			add("%s: missing from dominated list of %s", b.ID, b.Dominator)
		}
	}

	for _, id := range c.SealedBlocks() {
		if _, ok := c.TryBlock(id); !ok {
			add("sealed block %s does not resolve", id)
		}
	}

	return combineErrors(errs)
}

// DominatorMismatch records a block whose recorded immediate dominator
// differs from the one implied by the current left/right edges.
type DominatorMismatch struct {
	Block    BlockID
	Recorded BlockID
	Computed BlockID
}

func (m DominatorMismatch) String() string {
	return fmt.Sprintf("%s: recorded dominator %s, edges imply %s", m.Block, m.Recorded, m.Computed)
}

// CheckDominators recomputes immediate dominators from the edges reachable
// from the entry block and reports every block whose recorded Dominator
// disagrees. Graphs under construction legitimately disagree until linking
// has finished, so callers should treat the result as advisory.
func (c *Context) CheckDominators() []DominatorMismatch {
	if _, ok := c.TryBlock(c.FirstBlock); !ok {
		return nil
	}

	g := cfgGraph{ctx: c}
	tree := flow.Dominators(nodeOf(c.FirstBlock), g)

	var mismatches []DominatorMismatch
	for _, id := range c.BFS(c.FirstBlock, NoBlock) {
		if id == c.FirstBlock {
			continue
		}
		computed := NoBlock
		if n := tree.DominatorOf(nodeOf(id).ID()); n != nil {
			computed = blockOf(n)
		}
		b := c.Block(id)
		if b.Dominator != computed {
			mismatches = append(mismatches, DominatorMismatch{
				Block:    id,
				Recorded: b.Dominator,
				Computed: computed,
			})
		}
	}
	return mismatches
}

func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, "\n"))
}
