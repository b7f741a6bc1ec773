package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeDomChain verifies: E -> C1 -> C2
func TestComputeDomChain(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	c1 := ctx.NewSealedBlock(BlockNormal)
	c2 := ctx.NewSealedBlock(BlockNormal)

	ctx.ComputeDom()

	assert.Equal(t, []BlockID{c1}, ctx.Block(e).Dominated)
	assert.Equal(t, []BlockID{c2}, ctx.Block(c1).Dominated)
	assert.Empty(t, ctx.Block(c2).Dominated)
}

func TestComputeDomIsInverseOfDominator(t *testing.T) {
	ctx := diamond(t)
	ctx.ComputeDom()

	for b := range ctx.Blocks() {
		if !b.Dominator.IsNone() {
			count := 0
			for _, child := range ctx.Block(b.Dominator).Dominated {
				if child == b.ID {
					count++
				}
			}
			assert.Equal(t, 1, count, "%s listed once under %s", b.ID, b.Dominator)
		}
		for _, child := range b.Dominated {
			assert.Equal(t, b.ID, ctx.Block(child).Dominator)
		}
	}
}

func TestComputeDomRerunIsIdempotent(t *testing.T) {
	ctx := diamond(t)
	ctx.ComputeDom()
	first := ctx.Block(ctx.FirstBlock).Dominated

	ctx.ComputeDom()
	assert.Equal(t, first, ctx.Block(ctx.FirstBlock).Dominated)
	assert.NoError(t, ctx.Verify())
}

func TestComputeDomAfterRelink(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	b := ctx.NewSealedBlock(BlockNormal)
	ctx.ComputeDom()
	assert.Equal(t, []BlockID{b}, ctx.Block(a).Dominated)

	ctx.LinkWithTarget(e, a, b)
	ctx.ComputeDom()
	assert.Equal(t, []BlockID{a, b}, ctx.Block(e).Dominated)
	assert.Empty(t, ctx.Block(a).Dominated)
}

func TestComputeDomLeavesEarlierListsIntact(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	b := ctx.NewSealedBlock(BlockNormal)
	ctx.LinkWithTarget(e, a, b)
	ctx.ComputeDom()
	earlier := ctx.Block(e).Dominated
	require.Equal(t, []BlockID{a, b}, earlier)

	ctx.LinkWithTarget(b, a, NoBlock)
	ctx.ComputeDom()
	assert.Equal(t, []BlockID{b}, ctx.Block(e).Dominated)
	assert.Equal(t, []BlockID{a, b}, earlier)
}

func TestComputeDomSkipsRemovedDominator(t *testing.T) {
	ctx := NewContext()
	ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	b := ctx.NewSealedBlock(BlockNormal)
	ctx.RemoveBlock(a)

	assert.NotPanics(t, ctx.ComputeDom)
	assert.Equal(t, a, ctx.Block(b).Dominator)
}

func TestDominates(t *testing.T) {
	ctx := diamond(t)
	e := ctx.FirstBlock
	then, other, merge := blockNamed(t, ctx, 1), blockNamed(t, ctx, 2), blockNamed(t, ctx, 3)

	assert.True(t, ctx.Dominates(e, merge))
	assert.True(t, ctx.Dominates(e, then))
	assert.True(t, ctx.Dominates(merge, merge))
	assert.False(t, ctx.Dominates(then, merge))
	assert.False(t, ctx.Dominates(other, then))
	assert.False(t, ctx.Dominates(merge, e))
}

func TestDomSubtree(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	b := ctx.NewSealedBlock(BlockNormal)
	ctx.SetCurrent(e)
	c := ctx.NewUnsealedBlock(BlockNormal, EdgeRight)
	ctx.ComputeDom()

	assert.Equal(t, []BlockID{e, a, b, c}, ctx.DomSubtree(e))
	assert.Equal(t, []BlockID{a, b}, ctx.DomSubtree(a))
	assert.Equal(t, []BlockID{c}, ctx.DomSubtree(c))
	assert.Nil(t, ctx.DomSubtree(DummyBlock()))
}

// diamond builds
//
//	  E
//	 / \
//	T   O
//	 \ /
//	  M
//
// with T the left and O the right successor of E.
func diamond(t *testing.T) *Context {
	t.Helper()
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	then := ctx.NewSealedBlock(BlockNormal)
	ctx.SetCurrent(e)
	other := ctx.NewUnsealedBlock(BlockNormal, EdgeRight)
	merge := ctx.NewUnsealedBlock(BlockNormal, EdgeLeft)
	ctx.AddPredecessor(merge, then)
	ctx.LinkWithTarget(then, merge, NoBlock)
	ctx.LinkWithTarget(e, then, other)
	ctx.Block(merge).Dominator = e
	ctx.Seal(merge)
	return ctx
}

// blockNamed returns the n-th block in arena order.
func blockNamed(t *testing.T, ctx *Context, n int) BlockID {
	t.Helper()
	i := 0
	for b := range ctx.Blocks() {
		if i == n {
			return b.ID
		}
		i++
	}
	t.Fatalf("no block at position %d", n)
	return NoBlock
}
