package ssa

import (
	"fmt"

	"ssagraph/internal/arena"
)

// NodeID identifies an instruction or variable node owned by a Context.
type NodeID arena.Index

// DummyNode returns the placeholder node id used for unused operands.
func DummyNode() NodeID {
	return NodeID(arena.Dummy())
}

// IsNone reports whether id is the zero (absent) node.
func (id NodeID) IsNone() bool {
	return arena.Index(id).IsNone()
}

func (id NodeID) String() string {
	idx := arena.Index(id)
	if idx.IsNone() || idx.IsDummy() {
		return "_"
	}
	return "%" + idx.String()
}

// Operation is the opcode of an instruction.
type Operation int

const (
	OpNop      Operation = iota // block-entry placeholder
	OpVariable                  // source variable, never attached to a block
	OpAssign                    // lhs := rhs
	OpConst
	OpJump
)

var operationNames = [...]string{
	OpNop:      "nop",
	OpVariable: "var",
	OpAssign:   "assign",
	OpConst:    "const",
	OpJump:     "jmp",
}

func (op Operation) String() string {
	if int(op) < len(operationNames) {
		return operationNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// ObjectType is the type of the value an instruction produces.
type ObjectType int

const (
	TypeNotAnObject ObjectType = iota
	TypeBoolean
	TypeNativeField
	TypeUnsigned
)

var objectTypeNames = [...]string{
	TypeNotAnObject: "-",
	TypeBoolean:     "bool",
	TypeNativeField: "field",
	TypeUnsigned:    "uint",
}

func (t ObjectType) String() string {
	if int(t) < len(objectTypeNames) {
		return objectTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Instruction is the minimal instruction record the block core needs: an id
// it can list in a block and the opcode used by printers.
type Instruction struct {
	ID    NodeID
	Lhs   NodeID
	Rhs   NodeID
	Op    Operation
	Type  ObjectType
	Block BlockID // zero for detached nodes such as variables
	Name  string  // set for OpVariable
}

func (i *Instruction) String() string {
	switch i.Op {
	case OpNop:
		return fmt.Sprintf("%s = nop", i.ID)
	case OpVariable:
		return fmt.Sprintf("%s = var %s", i.ID, i.Name)
	default:
		return fmt.Sprintf("%s = %s %s, %s : %s", i.ID, i.Op, i.Lhs, i.Rhs, i.Type)
	}
}
