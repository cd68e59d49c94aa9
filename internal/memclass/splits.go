package memclass

import (
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
)

// maxReadThenWriteDistance bounds how many instructions may separate a READ
// from its sole WRITE reader for the copy rewrite to fire (spec §4.4). A
// var, not a const, so it can be retuned by the driver's preference-matrix
// config; see SetMaxReadThenWriteDistance, which config's
// PreferenceMatrix.Apply calls.
var maxReadThenWriteDistance = 16

// SetMaxReadThenWriteDistance overrides the copy-rewrite distance bound.
// Intended to be called once at driver startup from the loaded preference
// matrix, before any TryCopyRewrite call.
func SetMaxReadThenWriteDistance(n int) {
	if n > 0 {
		maxReadThenWriteDistance = n
	}
}

// SplitWrite64 implements spec §4.4's write-splitting rule: a write of a
// 64-bit source whose upper word is provably zero is lowered to two
// consecutive 32-bit writes at offsets 0 and 4 from the target address,
// both guarded by the same mutex pair as the original and carrying the same
// decorations and condition code. Returns ok=false if write is not subject
// to the rule (not 64-bit, or the upper word is not provably zero).
func SplitWrite64(write *ir.Instruction) (lo, hi *ir.Instruction, ok bool) {
	if write.Kind != ir.KindMemory || write.Memory == nil || write.Memory.Op != ir.MemoryWrite {
		return nil, nil, false
	}
	src := write.Memory.Source
	if src.Type.BitWidth() != 64 {
		return nil, nil, false
	}
	if !upperWordProvablyZero(src) {
		return nil, nil, false
	}

	loType := ir.Scalar(32, src.Type.Signed)
	loSrc := ir.NewLiteral(loType, src.Literal&0xFFFFFFFF)
	if !src.IsLiteral() {
		loSrc = src
		loSrc.Type = loType
		loSrc.Decorations = ir.DecorationNone
	}
	hiSrc := ir.NewLiteral(loType, 0)

	loWrite := ir.NewMemoryInstruction(ir.MemoryWrite, loSrc, write.Memory.Destination, 1, write.Memory.GuardedByMutex)
	hiDest := offsetDestination(write.Memory.Destination, 4)
	hiWrite := ir.NewMemoryInstruction(ir.MemoryWrite, hiSrc, hiDest, 1, write.Memory.GuardedByMutex)

	loWrite.Header = write.Header
	hiWrite.Header = write.Header

	return loWrite, hiWrite, true
}

// upperWordProvablyZero reports whether a 64-bit value's upper 32 bits are
// known to be zero: either a literal whose high word is zero, or a 64-bit
// value carrying ir.DecorationZeroExtended32 -- the upstream front end's
// marker that this value was produced by zero-extending a 32-bit value into
// a 64-bit operand.
func upperWordProvablyZero(v ir.Value) bool {
	if v.IsLiteral() {
		return (v.Literal>>32)&0xFFFFFFFF == 0
	}
	return v.Type.BitWidth() == 64 && v.Decorations.Has(ir.DecorationZeroExtended32)
}

// offsetDestination returns a copy of dest with its address local redirected
// to a +byteOffset reference -- used to place the high word 4 bytes past the
// low word's address without mutating the original destination Value.
func offsetDestination(dest ir.Value, byteOffset int) ir.Value {
	if base := dest.AsLocal(); base != nil {
		offsetLocal := &ir.Local{
			Name:   base.Name + "+4",
			Type:   base.Type,
			Origin: base.Origin,
			Reference: &ir.LocalReference{
				Base:         base,
				ElementIndex: byteOffset,
			},
		}
		return ir.NewLocalRef(offsetLocal)
	}
	return dest
}

// ReadReaderKind classifies how a 64-bit read's destination is consumed,
// for the read-splitting rule.
type ReadReaderKind int

const (
	ReaderTruncatingMove ReadReaderKind = iota
	ReaderShiftRight32
	ReaderWrite64
	ReaderUnsupported
)

// ClassifyReader determines which ReadReaderKind an instruction represents
// when it reads the destination of a 64-bit READ from a struct-pointer
// alias (spec §4.4's read-splitting rule).
func ClassifyReader(instr *ir.Instruction) ReadReaderKind {
	switch instr.Kind {
	case ir.KindMove:
		if instr.Output != nil && instr.Output.Type.BitWidth() == 32 {
			return ReaderTruncatingMove
		}
	case ir.KindALUOperation:
		if instr.Opcode == "shr" && len(instr.Inputs) == 2 {
			if shiftAmount, ok := literalValue(instr.Inputs[1]); ok && shiftAmount == 32 {
				return ReaderShiftRight32
			}
		}
	case ir.KindMemory:
		if instr.Memory != nil && instr.Memory.Op == ir.MemoryWrite {
			return ReaderWrite64
		}
	}
	return ReaderUnsupported
}

func literalValue(v ir.Value) (int64, bool) {
	if v.IsLiteral() {
		return v.Literal, true
	}
	return 0, false
}

// SplitRead64 implements spec §4.4's read-splitting rule for a 64-bit READ
// whose source is a pointer to a struct: it fires only if every reader of
// the read's destination is recognized (ReaderTruncatingMove,
// ReaderShiftRight32, or ReaderWrite64). Any unrecognized reader aborts the
// split with no partial mutation -- this is a recoverable outcome
// (compileerr.RecoveredSplitAborted), never a fatal error: the 64-bit op is
// simply left un-split and downstream must handle it (spec §7).
func SplitRead64(read *ir.Instruction, readers []*ir.Instruction) (lo, hi *ir.Instruction, recovered compileerr.RecoveredKind) {
	if read.Kind != ir.KindMemory || read.Memory == nil || read.Memory.Op != ir.MemoryRead {
		return nil, nil, compileerr.RecoveredNone
	}
	if !read.Memory.Source.Type.IsPointer() || !read.Memory.Source.Type.Pointer.Elem.IsStruct() {
		return nil, nil, compileerr.RecoveredNone
	}
	if read.Output == nil || read.Output.Type.BitWidth() != 64 {
		return nil, nil, compileerr.RecoveredNone
	}

	for _, reader := range readers {
		if ClassifyReader(reader) == ReaderUnsupported {
			return nil, nil, compileerr.RecoveredSplitAborted
		}
	}

	loDest := *read.Output
	loDest.Type = ir.Scalar(32, loDest.Type.Signed)
	loRead := ir.NewMemoryInstruction(ir.MemoryRead, read.Memory.Source, ir.Value{}, 1, read.Memory.GuardedByMutex)
	loRead.Output = &loDest

	hiSrc := offsetDestination(read.Memory.Source, 4)
	hiDest := loDest
	hiRead := ir.NewMemoryInstruction(ir.MemoryRead, hiSrc, ir.Value{}, 1, read.Memory.GuardedByMutex)
	hiRead.Output = &hiDest

	loRead.Header = read.Header
	hiRead.Header = read.Header

	return loRead, hiRead, compileerr.RecoveredNone
}

// CopyRewriteCandidate is a READ/WRITE pair eligible for the copy rewrite.
type CopyRewriteCandidate struct {
	Read  *ir.Instruction
	Write *ir.Instruction
}

// TryCopyRewrite implements spec §4.4's read-then-write -> copy rewrite. It
// requires: write's source is read's destination local and that local's
// sole reader anywhere in block is write; write is unconditional; both
// operate on matching element sizes; they are within the same block, at
// most maxReadThenWriteDistance instructions apart; and nothing between
// them is a fence (MemoryBarrier/Branch/MutexLock/SemaphoreAdjustment) or
// another writer of the read's source area. block is the owning block's
// instruction list (already in program order).
func TryCopyRewrite(block []*ir.Instruction, readIdx, writeIdx int) (*ir.Instruction, bool) {
	if readIdx < 0 || writeIdx < 0 || readIdx >= len(block) || writeIdx >= len(block) {
		return nil, false
	}
	read := block[readIdx]
	write := block[writeIdx]
	if read.Kind != ir.KindMemory || read.Memory == nil || read.Memory.Op != ir.MemoryRead {
		return nil, false
	}
	if write.Kind != ir.KindMemory || write.Memory == nil || write.Memory.Op != ir.MemoryWrite {
		return nil, false
	}
	if write.Header.Conditional != ir.CondAlways {
		return nil, false
	}
	if read.Output == nil || read.Output.Type.BitWidth() != write.Memory.Source.Type.BitWidth() {
		return nil, false
	}

	dest := read.Output.AsLocal()
	if dest == nil {
		return nil, false
	}
	if writeSrc := write.Memory.Source.AsLocal(); writeSrc == nil || writeSrc != dest {
		return nil, false
	}
	for i, instr := range block {
		if i == readIdx || i == writeIdx {
			continue
		}
		for _, used := range instr.UsedLocals() {
			if used == dest {
				return nil, false
			}
		}
	}

	lo, hi := readIdx, writeIdx
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi-lo > maxReadThenWriteDistance {
		return nil, false
	}

	readBase := read.Memory.Source.AsLocal()
	for i := lo + 1; i < hi; i++ {
		between := block[i]
		if between.IsFence() {
			return nil, false
		}
		if between.Kind == ir.KindMemory && between.Memory != nil &&
			(between.Memory.Op == ir.MemoryWrite || between.Memory.Op == ir.MemoryCopy || between.Memory.Op == ir.MemoryFill) {
			if dst := between.Memory.Destination.AsLocal(); dst != nil && readBase != nil && dst.BaseLocal() == readBase.BaseLocal() {
				return nil, false
			}
		}
	}

	copyInstr := ir.NewMemoryInstruction(ir.MemoryCopy, read.Memory.Source, write.Memory.Destination, 1, write.Memory.GuardedByMutex)
	copyInstr.Header = write.Header
	return copyInstr, true
}
