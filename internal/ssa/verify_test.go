package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmptyContext(t *testing.T) {
	assert.NoError(t, NewContext().Verify())
}

func TestVerifyValidGraph(t *testing.T) {
	ctx := diamond(t)
	ctx.ComputeDom()
	assert.NoError(t, ctx.Verify())
}

func TestVerifyMissingDomComputation(t *testing.T) {
	ctx := NewContext()
	ctx.CreateFirstBlock()
	ctx.NewSealedBlock(BlockNormal)

	err := ctx.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from dominated list")

	ctx.ComputeDom()
	assert.NoError(t, ctx.Verify())
}

func TestVerifyReportsDanglingEdges(t *testing.T) {
	ctx := NewContext()
	ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	ctx.NewSealedBlock(BlockNormal)
	ctx.ComputeDom()
	ctx.RemoveBlock(a)

	err := ctx.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left b1 does not resolve")
	assert.Contains(t, err.Error(), "dominator b1 does not resolve")
	assert.Contains(t, err.Error(), "dominated block b1 does not resolve")
}

func TestVerifyStaleDominatedList(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	b := ctx.NewSealedBlock(BlockNormal)
	ctx.ComputeDom()

	ctx.LinkWithTarget(e, a, b)
	err := ctx.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lists b2 as dominated but its dominator is b0")
}

func TestVerifyReachableBlockWithoutDominator(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	bare := ctx.CreateBlock(BlockNormal)
	ctx.Block(e).Left = bare.ID

	err := ctx.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reachable block has no dominator")
}

func TestVerifyEntryWithDominator(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	a := ctx.NewSealedBlock(BlockNormal)
	ctx.Block(e).Dominator = a
	ctx.ComputeDom()

	err := ctx.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry block b0 has dominator b1")
}

func TestCheckDominatorsDiamond(t *testing.T) {
	ctx := diamond(t)
	assert.Empty(t, ctx.CheckDominators())

	merge := blockNamed(t, ctx, 3)
	then := blockNamed(t, ctx, 1)
	ctx.Block(merge).Dominator = then

	mismatches := ctx.CheckDominators()
	require.Len(t, mismatches, 1)
	assert.Equal(t, merge, mismatches[0].Block)
	assert.Equal(t, then, mismatches[0].Recorded)
	assert.Equal(t, ctx.FirstBlock, mismatches[0].Computed)
	assert.Equal(t, "b3: recorded dominator b1, edges imply b0", mismatches[0].String())
}

func TestCheckDominatorsLoop(t *testing.T) {
	ctx := NewContext()
	e := ctx.CreateFirstBlock()
	h := ctx.NewUnsealedBlock(BlockForJoin, EdgeLeft)
	body := ctx.NewSealedBlock(BlockNormal)
	ctx.Block(body).Left = h

	assert.Empty(t, ctx.CheckDominators())
	assert.Equal(t, e, ctx.Block(h).Dominator)
}

func TestCheckDominatorsWithoutEntry(t *testing.T) {
	assert.Nil(t, NewContext().CheckDominators())
}
