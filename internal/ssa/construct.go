package ssa

// Edge selects which successor slot of the current block a new block takes.
type Edge int

const (
	EdgeLeft  Edge = iota // sequential successor
	EdgeRight             // jump successor
)

func (e Edge) String() string {
	if e == EdgeRight {
		return "right"
	}
	return "left"
}

// CreateFirstBlock creates the entry block of the compilation unit and makes
// it both the first and the current block.
func (c *Context) CreateFirstBlock() BlockID {
	first := c.InsertBlock(NewBasicBlock(DummyBlock(), BlockNormal))
	first.Predecessor = nil
	c.FirstBlock = first.ID
	c.CurrentBlock = first.ID
	c.addPlaceholder()
	logger().Debugf("created entry block %s", first.ID)
	return first.ID
}

// NewSealedBlock creates a block whose predecessors are all known: the
// current block becomes its only predecessor and its immediate dominator, it
// takes the current block's left edge, and it becomes the current block.
// It is not suitable for the entry block.
func (c *Context) NewSealedBlock(kind BlockKind) BlockID {
	prev := c.CurrentBlock
	b := c.InsertBlock(NewBasicBlock(prev, kind))
	b.Dominator = prev
	c.sealed[b.ID] = struct{}{}

	c.Current().Left = b.ID
	c.CurrentBlock = b.ID
	c.addPlaceholder()
	logger().Debugf("created sealed %s block %s after %s", kind, b.ID, prev)
	return b.ID
}

// NewUnsealedBlock creates a block whose predecessor set is not final yet,
// e.g. a loop header before its back edge is known. The current block
// dominates it and points at it through edge. The block stays out of the
// sealed set until the caller widens its predecessors and calls Seal.
func (c *Context) NewUnsealedBlock(kind BlockKind, edge Edge) BlockID {
	prev := c.CurrentBlock
	b := c.CreateBlock(kind)
	b.Dominator = prev

	cur := c.Current()
	if edge == EdgeLeft {
		cur.Left = b.ID
	} else {
		cur.Right = b.ID
	}

	c.CurrentBlock = b.ID
	c.addPlaceholder()
	logger().Debugf("created unsealed %s block %s on the %s edge of %s", kind, b.ID, edge, prev)
	return b.ID
}

// CreateBlock inserts a block whose only predecessor is the current block. It
// does not move the cursor, wire any edge, set the dominator or add the
// placeholder instruction; callers own the rest of the wiring.
func (c *Context) CreateBlock(kind BlockKind) *BasicBlock {
	return c.InsertBlock(NewBasicBlock(c.CurrentBlock, kind))
}

// addPlaceholder appends the no-op marker every constructed block starts with.
func (c *Context) addPlaceholder() {
	c.NewInstruction(DummyNode(), DummyNode(), OpNop, TypeNotAnObject)
}
