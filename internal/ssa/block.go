package ssa

import (
	"errors"
	"fmt"

	"ssagraph/internal/arena"
)

// BlockID identifies a BasicBlock stored in a Context. The zero BlockID means
// "no block".
type BlockID arena.Index

// NoBlock is the absent block handle.
var NoBlock BlockID

// DummyBlock returns the placeholder handle used before a block is inserted.
func DummyBlock() BlockID {
	return BlockID(arena.Dummy())
}

// IsNone reports whether id is absent.
func (id BlockID) IsNone() bool {
	return arena.Index(id).IsNone()
}

func (id BlockID) String() string {
	idx := arena.Index(id)
	if idx.IsNone() {
		return "-"
	}
	if idx.IsDummy() {
		return "b?"
	}
	return "b" + idx.String()
}

// BlockKind labels a block for passes that treat loop joins specially.
type BlockKind int

const (
	BlockNormal  BlockKind = iota
	BlockForJoin           // convergence point of a loop's iterations
)

func (k BlockKind) String() string {
	switch k {
	case BlockNormal:
		return "normal"
	case BlockForJoin:
		return "join"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// BasicBlock is a node of the control flow graph. Left is the sequential
// successor and Right the jump successor.
type BasicBlock struct {
	ID           BlockID
	Kind         BlockKind
	Dominator    BlockID   // immediate dominator, NoBlock for the entry block
	Dominated    []BlockID // dominator tree children, rebuilt by ComputeDom
	Predecessor  []BlockID
	Left         BlockID
	Right        BlockID
	Instructions []NodeID
	ValueMap     map[NodeID]NodeID // source variable -> current SSA value
}

// NewBasicBlock returns a block whose only predecessor is prev. The id is
// assigned when the block is inserted into a Context.
func NewBasicBlock(prev BlockID, kind BlockKind) *BasicBlock {
	return &BasicBlock{
		ID:          DummyBlock(),
		Kind:        kind,
		Predecessor: []BlockID{prev},
		ValueMap:    make(map[NodeID]NodeID),
	}
}

// CurrentValue returns the SSA value bound to variable at the end of b.
func (b *BasicBlock) CurrentValue(variable NodeID) (NodeID, bool) {
	v, ok := b.ValueMap[variable]
	return v, ok
}

// UpdateVariable binds variable to a freshly renamed value.
func (b *BasicBlock) UpdateVariable(variable, value NodeID) {
	if b.ValueMap == nil {
		b.ValueMap = make(map[NodeID]NodeID)
	}
	b.ValueMap[variable] = value
}

// FirstInstruction returns the first instruction of b. Blocks built through
// the first, sealed or unsealed constructors always have one; calling this on
// an empty bare block is a programming error and panics with a
// *PreconditionError.
func (b *BasicBlock) FirstInstruction() NodeID {
	if len(b.Instructions) == 0 {
		panic(&PreconditionError{Block: b.ID, Err: ErrEmptyBlock})
	}
	return b.Instructions[0]
}

// IsJoin reports whether b is a loop join block.
func (b *BasicBlock) IsJoin() bool {
	return b.Kind == BlockForJoin
}

// HasPredecessor reports whether pred is already recorded as a predecessor.
func (b *BasicBlock) HasPredecessor(pred BlockID) bool {
	for _, p := range b.Predecessor {
		if p == pred {
			return true
		}
	}
	return false
}

// Successors returns the present successor edges, left first.
func (b *BasicBlock) Successors() []BlockID {
	var succs []BlockID
	if !b.Left.IsNone() {
		succs = append(succs, b.Left)
	}
	if !b.Right.IsNone() && b.Right != b.Left {
		succs = append(succs, b.Right)
	}
	return succs
}

// ErrEmptyBlock is wrapped by the PreconditionError raised when the first
// instruction of a block without instructions is requested.
var ErrEmptyBlock = errors.New("block has no instructions")

// PreconditionError is the panic value for caller bugs detected by the block
// core.
type PreconditionError struct {
	Block BlockID
	Err   error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated on %s: %v", e.Block, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
