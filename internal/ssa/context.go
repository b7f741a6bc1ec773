package ssa

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tliron/commonlog"

	"ssagraph/internal/arena"
)

// logger is resolved on use so that it picks up the backend configured by the
// binary after package initialization.
func logger() commonlog.Logger {
	return commonlog.GetLogger("ssagraph.ssa")
}

// SealState tells whether a block's predecessor set is final.
type SealState int

const (
	Unsealed SealState = iota // predecessors may still be added, defer variable resolution
	Sealed                    // predecessors are complete
)

func (s SealState) String() string {
	if s == Sealed {
		return "sealed"
	}
	return "unsealed"
}

// Context is the construction context of one compilation unit. It owns every
// block and instruction node, and carries the first/current block cursors and
// the sealed set. It is not safe for concurrent use.
type Context struct {
	blocks *arena.Arena[BasicBlock]
	nodes  *arena.Arena[Instruction]
	sealed map[BlockID]struct{}

	FirstBlock   BlockID
	CurrentBlock BlockID
}

// NewContext returns an empty construction context.
func NewContext() *Context {
	return &Context{
		blocks: arena.New[BasicBlock](),
		nodes:  arena.New[Instruction](),
		sealed: make(map[BlockID]struct{}),
	}
}

// InsertBlock stores b, assigns its ID and returns the stored block.
func (c *Context) InsertBlock(b *BasicBlock) *BasicBlock {
	c.blocks.InsertWith(func(idx arena.Index) *BasicBlock {
		b.ID = BlockID(idx)
		return b
	})
	return b
}

// Block returns the block for id and panics if it does not resolve. Use it
// for handles that are valid by construction, such as the current block.
func (c *Context) Block(id BlockID) *BasicBlock {
	b, ok := c.blocks.Get(arena.Index(id))
	if !ok {
		panic(fmt.Sprintf("ssa: block %s does not exist", id))
	}
	return b
}

// TryBlock returns the block for id, or false if the handle is absent, stale
// or was never materialized.
func (c *Context) TryBlock(id BlockID) (*BasicBlock, bool) {
	return c.blocks.Get(arena.Index(id))
}

// Current returns the block under the current-block cursor.
func (c *Context) Current() *BasicBlock {
	return c.Block(c.CurrentBlock)
}

// SetCurrent moves the current-block cursor. It reports false and leaves the
// cursor untouched if id does not resolve.
func (c *Context) SetCurrent(id BlockID) bool {
	if _, ok := c.TryBlock(id); !ok {
		return false
	}
	c.CurrentBlock = id
	return true
}

// Blocks yields every stored block in arena order.
func (c *Context) Blocks() iter.Seq[*BasicBlock] {
	return func(yield func(*BasicBlock) bool) {
		for _, b := range c.blocks.All() {
			if !yield(b) {
				return
			}
		}
	}
}

// NumBlocks returns the number of stored blocks.
func (c *Context) NumBlocks() int {
	return c.blocks.Len()
}

// RemoveBlock deletes a block from the arena. Handles to it stop resolving;
// edges in other blocks that point at it are left as they are.
func (c *Context) RemoveBlock(id BlockID) bool {
	if _, ok := c.blocks.Remove(arena.Index(id)); !ok {
		return false
	}
	delete(c.sealed, id)
	logger().Debugf("removed block %s", id)
	return true
}

// Seal records that the predecessor set of id is final.
func (c *Context) Seal(id BlockID) bool {
	if _, ok := c.TryBlock(id); !ok {
		return false
	}
	c.sealed[id] = struct{}{}
	return true
}

// IsSealed reports whether id is in the sealed set.
func (c *Context) IsSealed(id BlockID) bool {
	_, ok := c.sealed[id]
	return ok
}

// SealState returns the two-state seal tag of id.
func (c *Context) SealState(id BlockID) SealState {
	if c.IsSealed(id) {
		return Sealed
	}
	return Unsealed
}

// SealedBlocks returns the sealed set in arena order.
func (c *Context) SealedBlocks() []BlockID {
	ids := make([]BlockID, 0, len(c.sealed))
	for id := range c.sealed {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b BlockID) int {
		return int(arena.Index(a).Slot()) - int(arena.Index(b).Slot())
	})
	return ids
}

// AddPredecessor widens the predecessor list of an unsealed block once an
// additional incoming edge is discovered. It reports false if either handle
// does not resolve or pred is already recorded.
func (c *Context) AddPredecessor(block, pred BlockID) bool {
	b, ok := c.TryBlock(block)
	if !ok {
		return false
	}
	if _, ok := c.TryBlock(pred); !ok {
		return false
	}
	if b.HasPredecessor(pred) {
		return false
	}
	if c.IsSealed(block) {
		logger().Warningf("adding predecessor %s to sealed block %s", pred, block)
	}
	b.Predecessor = append(b.Predecessor, pred)
	return true
}

// NewInstruction creates an instruction and appends it to the current block.
func (c *Context) NewInstruction(lhs, rhs NodeID, op Operation, typ ObjectType) NodeID {
	cur := c.Current()
	idx := c.nodes.InsertWith(func(idx arena.Index) *Instruction {
		return &Instruction{
			ID:    NodeID(idx),
			Lhs:   lhs,
			Rhs:   rhs,
			Op:    op,
			Type:  typ,
			Block: cur.ID,
		}
	})
	cur.Instructions = append(cur.Instructions, NodeID(idx))
	return NodeID(idx)
}

// NewVariable creates a detached node standing for a source variable. Its id
// is the key used in BasicBlock.ValueMap.
func (c *Context) NewVariable(name string) NodeID {
	idx := c.nodes.InsertWith(func(idx arena.Index) *Instruction {
		return &Instruction{
			ID:   NodeID(idx),
			Lhs:  DummyNode(),
			Rhs:  DummyNode(),
			Op:   OpVariable,
			Type: TypeNativeField,
			Name: name,
		}
	})
	return NodeID(idx)
}

// Instruction looks up a node by id.
func (c *Context) Instruction(id NodeID) (*Instruction, bool) {
	return c.nodes.Get(arena.Index(id))
}
