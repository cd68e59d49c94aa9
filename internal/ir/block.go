package ir

// BasicBlock is a maximal straight-line instruction sequence headed by
// exactly one label instruction. Predecessor/successor structure lives in
// the owning ControlFlowGraph, not here; a BasicBlock only owns its own
// instruction list.
type BasicBlock struct {
	Label        *Local
	Instructions []*Instruction
}

// NewBasicBlock creates a block whose first instruction is its label.
func NewBasicBlock(label *Local) *BasicBlock {
	return &BasicBlock{
		Label:        label,
		Instructions: []*Instruction{NewLabel(label)},
	}
}

// ID returns the block's identity, taken from its label local's name. Two
// blocks with the same label Local pointer are the same block.
func (b *BasicBlock) ID() string {
	if b == nil || b.Label == nil {
		return "<nil block>"
	}
	return b.Label.Name
}

// LastNonLabelInstruction returns the last instruction in the block that is
// not the leading label, or nil if the block is empty beyond its label.
func (b *BasicBlock) LastNonLabelInstruction() *Instruction {
	for i := len(b.Instructions) - 1; i >= 0; i-- {
		if b.Instructions[i].Kind != KindLabel {
			return b.Instructions[i]
		}
	}
	return nil
}

// Terminator returns the trailing Branch instruction of this block, if its
// last non-label instruction is one.
func (b *BasicBlock) Terminator() *Instruction {
	last := b.LastNonLabelInstruction()
	if last != nil && last.Kind == KindBranch {
		return last
	}
	return nil
}

// FallsThrough reports whether control can fall through the bottom of this
// block to whatever block follows it textually: true unless the block ends
// in an unconditional branch (spec §4.1 — a conditional branch still
// leaves a fall-through edge, since the branch didn't necessarily fire).
func (b *BasicBlock) FallsThrough() bool {
	term := b.Terminator()
	if term == nil {
		return true
	}
	return term.Header.Conditional != CondAlways
}

// Append adds an instruction to the end of the block.
func (b *BasicBlock) Append(instr *Instruction) {
	b.Instructions = append(b.Instructions, instr)
}
