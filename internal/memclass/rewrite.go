package memclass

import (
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
)

// RewriteResult tallies what ApplyRewrites actually changed in a method's
// instruction stream.
type RewriteResult struct {
	WritesSplit     int
	ReadsSplit      int
	CopiesRewritten int
	// Recovered collects a compileerr.RecoveredSplitAborted entry for every
	// 64-bit read that qualified for the read-splitting rule but had to be
	// left un-split because one of its readers wasn't recognized.
	Recovered []compileerr.RecoveredKind
}

// ApplyRewrites walks every block of method with an ir.Walker and fires
// TryCopyRewrite, SplitWrite64, and SplitRead64 wherever their preconditions
// hold. Classify only decides a base's realization; this is the pass that
// actually mutates the instruction stream. It runs once per method, before
// any base is classified, and does not consult realizations.
func ApplyRewrites(method *ir.Method) RewriteResult {
	var result RewriteResult
	for blockIdx := range method.Blocks {
		applyCopyRewrites(method, blockIdx, &result)
		applyWriteSplits(method, blockIdx, &result)
		applyReadSplits(method, blockIdx, &result)
	}
	return result
}

// applyCopyRewrites repeatedly finds a READ/WRITE pair TryCopyRewrite
// accepts and folds it into a single MemoryCopy, until no candidate
// remains. A read that fails TryCopyRewrite (e.g. it has another reader, or
// the pair is too far apart) is recorded in skip so it is never retried.
func applyCopyRewrites(method *ir.Method, blockIdx int, result *RewriteResult) {
	skip := map[*ir.Instruction]bool{}
	for {
		instrs := method.Blocks[blockIdx].Instructions
		readIdx, writeIdx, found := findCopyRewriteCandidate(instrs, skip)
		if !found {
			return
		}
		copyInstr, ok := TryCopyRewrite(instrs, readIdx, writeIdx)
		if !ok {
			skip[instrs[readIdx]] = true
			continue
		}
		ir.AtWalker(method, blockIdx, writeIdx).Replace(copyInstr)
		ir.AtWalker(method, blockIdx, readIdx).Erase()
		result.CopiesRewritten++
	}
}

// findCopyRewriteCandidate looks for a READ whose destination is also the
// source of some WRITE in the same block -- the shape TryCopyRewrite then
// validates in full (sole reader, distance, fences, conditional).
func findCopyRewriteCandidate(instrs []*ir.Instruction, skip map[*ir.Instruction]bool) (readIdx, writeIdx int, ok bool) {
	for i, read := range instrs {
		if skip[read] || read.Kind != ir.KindMemory || read.Memory == nil || read.Memory.Op != ir.MemoryRead || read.Output == nil {
			continue
		}
		dest := read.Output.AsLocal()
		if dest == nil {
			continue
		}
		for j, candidate := range instrs {
			if j == i || candidate.Kind != ir.KindMemory || candidate.Memory == nil || candidate.Memory.Op != ir.MemoryWrite {
				continue
			}
			if srcLocal := candidate.Memory.Source.AsLocal(); srcLocal == dest {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// applyWriteSplits replaces every WRITE SplitWrite64 accepts with its lo/hi
// pair, in place, via a Walker positioned at the original write.
func applyWriteSplits(method *ir.Method, blockIdx int, result *RewriteResult) {
	skip := map[*ir.Instruction]bool{}
	for {
		instrs := method.Blocks[blockIdx].Instructions
		idx := -1
		for i, instr := range instrs {
			if !skip[instr] && instr.Kind == ir.KindMemory && instr.Memory != nil && instr.Memory.Op == ir.MemoryWrite {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		write := instrs[idx]
		lo, hi, ok := SplitWrite64(write)
		if !ok {
			skip[write] = true
			continue
		}
		ir.AtWalker(method, blockIdx, idx).Replace(lo).InsertAfter(hi)
		result.WritesSplit++
	}
}

// applyReadSplits replaces every READ SplitRead64 accepts with its lo/hi
// pair. A read that SplitRead64 aborts (RecoveredSplitAborted, because some
// reader of its destination isn't recognized) is recorded and left alone.
func applyReadSplits(method *ir.Method, blockIdx int, result *RewriteResult) {
	skip := map[*ir.Instruction]bool{}
	for {
		instrs := method.Blocks[blockIdx].Instructions
		idx := -1
		for i, instr := range instrs {
			if !skip[instr] && instr.Kind == ir.KindMemory && instr.Memory != nil && instr.Memory.Op == ir.MemoryRead {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		read := instrs[idx]
		readers := readerInstructions(instrs, idx, readOutputLocal(read))
		lo, hi, recovered := SplitRead64(read, readers)
		if recovered == compileerr.RecoveredSplitAborted {
			result.Recovered = append(result.Recovered, recovered)
		}
		if lo == nil || hi == nil {
			skip[read] = true
			continue
		}
		ir.AtWalker(method, blockIdx, idx).Replace(lo).InsertAfter(hi)
		result.ReadsSplit++
	}
}

func readOutputLocal(instr *ir.Instruction) *ir.Local {
	if instr.Output == nil {
		return nil
	}
	return instr.Output.AsLocal()
}

// readerInstructions returns every instruction in instrs, other than the
// one at skipIdx, that uses local as an operand.
func readerInstructions(instrs []*ir.Instruction, skipIdx int, local *ir.Local) []*ir.Instruction {
	if local == nil {
		return nil
	}
	var readers []*ir.Instruction
	for i, instr := range instrs {
		if i == skipIdx {
			continue
		}
		for _, used := range instr.UsedLocals() {
			if used == local {
				readers = append(readers, instr)
				break
			}
		}
	}
	return readers
}
