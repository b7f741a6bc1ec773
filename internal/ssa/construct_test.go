package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFirstBlock(t *testing.T) {
	ctx := NewContext()
	entry := ctx.CreateFirstBlock()

	assert.Equal(t, entry, ctx.FirstBlock)
	assert.Equal(t, entry, ctx.CurrentBlock)

	b := ctx.Block(entry)
	assert.Equal(t, entry, b.ID)
	assert.True(t, b.Dominator.IsNone(), "entry has no dominator")
	assert.Empty(t, b.Predecessor, "entry has no predecessor")
	assert.Len(t, b.Instructions, 1)
	assert.Equal(t, BlockNormal, b.Kind)
}

func TestNewSealedBlock(t *testing.T) {
	ctx := NewContext()
	entry := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)

	assert.Equal(t, a, ctx.CurrentBlock, "sealed block becomes current")
	assert.True(t, ctx.IsSealed(a))
	assert.Equal(t, Sealed, ctx.SealState(a))

	b := ctx.Block(a)
	assert.Equal(t, entry, b.Dominator)
	assert.Equal(t, []BlockID{entry}, b.Predecessor)
	assert.NotEmpty(t, b.Instructions)
	assert.Equal(t, a, ctx.Block(entry).Left)
	assert.True(t, ctx.Block(entry).Right.IsNone())
}

func TestNewUnsealedBlock(t *testing.T) {
	for _, tt := range []struct {
		name string
		edge Edge
	}{
		{"left", EdgeLeft},
		{"right", EdgeRight},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			entry := ctx.CreateFirstBlock()
			u := ctx.NewUnsealedBlock(BlockForJoin, tt.edge)

			assert.Equal(t, u, ctx.CurrentBlock)
			assert.False(t, ctx.IsSealed(u), "unsealed block must not be sealed")
			assert.Equal(t, Unsealed, ctx.SealState(u))

			b := ctx.Block(u)
			assert.Equal(t, entry, b.Dominator)
			assert.Equal(t, []BlockID{entry}, b.Predecessor)
			assert.True(t, b.IsJoin())
			assert.NotEmpty(t, b.Instructions)

			e := ctx.Block(entry)
			if tt.edge == EdgeLeft {
				assert.Equal(t, u, e.Left)
				assert.True(t, e.Right.IsNone())
			} else {
				assert.Equal(t, u, e.Right)
				assert.True(t, e.Left.IsNone())
			}
		})
	}
}

func TestCreateBlockIsBare(t *testing.T) {
	ctx := NewContext()
	entry := ctx.CreateFirstBlock()
	bare := ctx.CreateBlock(BlockNormal)

	assert.Equal(t, entry, ctx.CurrentBlock, "bare creation leaves the cursor alone")
	assert.Equal(t, []BlockID{entry}, bare.Predecessor)
	assert.True(t, bare.Dominator.IsNone())
	assert.Empty(t, bare.Instructions)
	assert.False(t, ctx.IsSealed(bare.ID))
	assert.True(t, ctx.Block(entry).Left.IsNone())
	assert.Equal(t, 2, ctx.NumBlocks())
}

func TestDominatorIsCurrentAtCreation(t *testing.T) {
	ctx := NewContext()
	ctx.CreateFirstBlock()

	for i := range 6 {
		prev := ctx.CurrentBlock
		var id BlockID
		if i%2 == 0 {
			id = ctx.NewSealedBlock(BlockNormal)
		} else {
			id = ctx.NewUnsealedBlock(BlockNormal, EdgeRight)
		}
		assert.Equal(t, prev, ctx.Block(id).Dominator)
	}
}

func TestEveryConstructedBlockHasInstructions(t *testing.T) {
	ctx := NewContext()
	ids := []BlockID{ctx.CreateFirstBlock()}
	ids = append(ids, ctx.NewSealedBlock(BlockNormal))
	ids = append(ids, ctx.NewUnsealedBlock(BlockForJoin, EdgeLeft))
	ids = append(ids, ctx.NewSealedBlock(BlockNormal))

	for _, id := range ids {
		assert.NotPanics(t, func() { ctx.Block(id).FirstInstruction() }, "block %s", id)
	}
}

func TestSealedSetMembership(t *testing.T) {
	ctx := NewContext()
	ctx.CreateFirstBlock()
	s1 := ctx.NewSealedBlock(BlockNormal)
	u := ctx.NewUnsealedBlock(BlockNormal, EdgeLeft)
	s2 := ctx.NewSealedBlock(BlockNormal)

	assert.Equal(t, []BlockID{s1, s2}, ctx.SealedBlocks())
	assert.False(t, ctx.IsSealed(u))
}

func TestAddPredecessorAndSeal(t *testing.T) {
	ctx := NewContext()
	entry := ctx.CreateFirstBlock()
	header := ctx.NewUnsealedBlock(BlockForJoin, EdgeLeft)
	body := ctx.NewSealedBlock(BlockNormal)

	// back edge discovered: body -> header
	ctx.Block(body).Right = header
	require.True(t, ctx.AddPredecessor(header, body))
	assert.False(t, ctx.AddPredecessor(header, body), "duplicate predecessor is ignored")
	assert.False(t, ctx.AddPredecessor(header, DummyBlock()))
	assert.False(t, ctx.AddPredecessor(DummyBlock(), body))
	assert.Equal(t, []BlockID{entry, body}, ctx.Block(header).Predecessor)

	require.True(t, ctx.Seal(header))
	assert.True(t, ctx.IsSealed(header))
	assert.False(t, ctx.Seal(DummyBlock()))
}

func TestSetCurrent(t *testing.T) {
	ctx := NewContext()
	entry := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)

	require.True(t, ctx.SetCurrent(entry))
	assert.Equal(t, entry, ctx.CurrentBlock)

	assert.False(t, ctx.SetCurrent(DummyBlock()))
	assert.Equal(t, entry, ctx.CurrentBlock)

	ctx.NewInstruction(DummyNode(), DummyNode(), OpJump, TypeNotAnObject)
	assert.Len(t, ctx.Block(entry).Instructions, 2)
	assert.Len(t, ctx.Block(a).Instructions, 1)
}

func TestRemoveBlock(t *testing.T) {
	ctx := NewContext()
	ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	ctx.SetCurrent(ctx.FirstBlock)

	require.True(t, ctx.RemoveBlock(a))
	assert.False(t, ctx.RemoveBlock(a))
	assert.False(t, ctx.IsSealed(a))
	_, ok := ctx.TryBlock(a)
	assert.False(t, ok)

	b := ctx.NewSealedBlock(BlockNormal)
	assert.NotEqual(t, a, b, "handles are never reused")
}

func TestBlockPanicsOnMissingHandle(t *testing.T) {
	ctx := NewContext()
	assert.Panics(t, func() { ctx.Block(DummyBlock()) })
	assert.Panics(t, func() { ctx.Current() })
}
