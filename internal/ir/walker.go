package ir

// Walker is a cursor into a Method's instruction stream that can traverse
// within a block or across blocks, and supports mid-traversal insertion and
// removal. It is the language-neutral rendering of the source's iterator
// idiom described in spec §9: an explicit (blockIndex, instructionIndex)
// pair plus a Method reference. Mutating operations change the block's
// instruction list in place and return a new Walker to continue from; an
// older Walker keeps its old indices, which after such a mutation may refer
// to a different instruction.
type Walker struct {
	method   *Method
	blockIdx int
	instrIdx int
}

// NewWalker returns a Walker positioned at the first instruction of the
// method's first block.
func NewWalker(m *Method) Walker {
	return Walker{method: m}
}

// AtWalker returns a Walker positioned at a specific block/instruction pair.
func AtWalker(m *Method, blockIdx, instrIdx int) Walker {
	return Walker{method: m, blockIdx: blockIdx, instrIdx: instrIdx}
}

// Valid reports whether the cursor currently names a real instruction.
func (w Walker) Valid() bool {
	if w.method == nil || w.blockIdx < 0 || w.blockIdx >= len(w.method.Blocks) {
		return false
	}
	b := w.method.Blocks[w.blockIdx]
	return w.instrIdx >= 0 && w.instrIdx < len(b.Instructions)
}

// Block returns the block the cursor currently sits in.
func (w Walker) Block() *BasicBlock {
	if w.method == nil || w.blockIdx < 0 || w.blockIdx >= len(w.method.Blocks) {
		return nil
	}
	return w.method.Blocks[w.blockIdx]
}

// Get returns the instruction the cursor currently names, or nil.
func (w Walker) Get() *Instruction {
	if !w.Valid() {
		return nil
	}
	return w.Block().Instructions[w.instrIdx]
}

// NextInBlock advances the cursor by one instruction within the current
// block. Advancing past the end yields an invalid Walker.
func (w Walker) NextInBlock() Walker {
	return Walker{method: w.method, blockIdx: w.blockIdx, instrIdx: w.instrIdx + 1}
}

// PrevInBlock moves the cursor back by one instruction within the current
// block.
func (w Walker) PrevInBlock() Walker {
	return Walker{method: w.method, blockIdx: w.blockIdx, instrIdx: w.instrIdx - 1}
}

// DistanceInBlock returns the number of instructions between w and other
// when both are in the same block, or -1 if they are not.
func (w Walker) DistanceInBlock(other Walker) int {
	if w.method != other.method || w.blockIdx != other.blockIdx {
		return -1
	}
	d := other.instrIdx - w.instrIdx
	if d < 0 {
		d = -d
	}
	return d
}

// SameBlock reports whether two walkers point into the same block.
func (w Walker) SameBlock(other Walker) bool {
	return w.method == other.method && w.blockIdx == other.blockIdx
}

// InsertBefore inserts instr immediately before the cursor's instruction,
// returning a new Walker positioned on the newly inserted instruction.
func (w Walker) InsertBefore(instr *Instruction) Walker {
	b := w.Block()
	b.Instructions = append(b.Instructions, nil)
	copy(b.Instructions[w.instrIdx+1:], b.Instructions[w.instrIdx:])
	b.Instructions[w.instrIdx] = instr
	return Walker{method: w.method, blockIdx: w.blockIdx, instrIdx: w.instrIdx}
}

// InsertAfter inserts instr immediately after the cursor's instruction,
// returning a new Walker positioned on the newly inserted instruction.
func (w Walker) InsertAfter(instr *Instruction) Walker {
	return w.NextInBlock().InsertBefore(instr)
}

// Replace substitutes the instruction at the cursor with instr, returning a
// Walker positioned on the replacement.
func (w Walker) Replace(instr *Instruction) Walker {
	b := w.Block()
	b.Instructions[w.instrIdx] = instr
	return w
}

// Erase removes the instruction at the cursor, returning a Walker
// positioned where that instruction used to be (now naming whatever
// instruction, if any, shifted into its place).
func (w Walker) Erase() Walker {
	b := w.Block()
	b.Instructions = append(b.Instructions[:w.instrIdx], b.Instructions[w.instrIdx+1:]...)
	return Walker{method: w.method, blockIdx: w.blockIdx, instrIdx: w.instrIdx}
}
