package ssa

import (
	"fmt"
	"slices"
	"strings"
)

// Printer provides pretty-printing for a construction context
type Printer struct {
	indent int
	output strings.Builder
	ctx    *Context
	names  map[NodeID]string
}

// NewPrinter creates a new printer for ctx
func NewPrinter(ctx *Context) *Printer {
	p := &Printer{ctx: ctx, names: make(map[NodeID]string)}
	return p
}

// Print returns the string representation of every block in ctx
func Print(ctx *Context) string {
	p := NewPrinter(ctx)
	p.printGraph()
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printGraph() {
	p.writeLine("CFG entry=%s current=%s blocks=%d", p.ctx.FirstBlock, p.ctx.CurrentBlock, p.ctx.NumBlocks())
	for b := range p.ctx.Blocks() {
		p.printBlock(b)
	}
}

func (p *Printer) printBlock(b *BasicBlock) {
	p.writeLine("")
	p.writeLine("%s: ; %s, %s", b.ID, b.Kind, p.ctx.SealState(b.ID))
	p.indent++
	defer func() { p.indent-- }()

	p.writeLine("; preds: %s", joinIDs(b.Predecessor))
	p.writeLine("; idom: %s  dominates: %s", b.Dominator, joinIDs(b.Dominated))
	p.writeLine("; left: %s  right: %s", b.Left, b.Right)

	for _, id := range b.Instructions {
		if inst, ok := p.ctx.Instruction(id); ok {
			p.writeLine("%s", inst)
		} else {
			p.writeLine("%s = <missing>", id)
		}
	}

	if len(b.ValueMap) == 0 {
		return
	}
	vars := make([]string, 0, len(b.ValueMap))
	for v, cur := range b.ValueMap {
		vars = append(vars, fmt.Sprintf("%s -> %s", p.variableName(v), cur))
	}
	slices.Sort(vars)
	p.writeLine("; values: %s", strings.Join(vars, ", "))
}

func (p *Printer) variableName(id NodeID) string {
	if name, ok := p.names[id]; ok {
		return name
	}
	name := id.String()
	if inst, ok := p.ctx.Instruction(id); ok && inst.Op == OpVariable {
		name = inst.Name
	}
	p.names[id] = name
	return name
}

func joinIDs(ids []BlockID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
