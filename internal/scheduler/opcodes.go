package scheduler

import "github.com/doe300/vc4c-go/internal/ir"

// addALUOpcodes and mulALUOpcodes are the VideoCore IV QPU's two fixed
// functional-unit opcode sets (spec §4.5's "individually dispatchable one on
// the ADD-ALU and one on the MUL-ALU"). A handful of opcodes ("v8adds",
// "v8subs", "nop", "mov") are dispatchable on either unit and appear in
// both sets. "rotate" appears in neither set.
var addALUOpcodes = map[string]bool{
	"nop": true, "fadd": true, "fsub": true, "fmin": true, "fmax": true,
	"fminabs": true, "fmaxabs": true, "ftoi": true, "itof": true,
	"add": true, "sub": true, "shr": true, "asr": true, "ror": true, "shl": true,
	"min": true, "max": true, "and": true, "or": true, "xor": true, "not": true,
	"clz": true, "v8adds": true, "v8subs": true, "mov": true,
}

var mulALUOpcodes = map[string]bool{
	"nop": true, "fmul": true, "mul24": true, "v8muld": true,
	"v8min": true, "v8max": true, "v8adds": true, "v8subs": true, "mov": true,
}

// vectorRotationOpcodes names opcodes that consume the QPU's single
// vector-rotation signal; two roots that both rotate cannot be combined in
// the same bundle (spec §4.5's "vector-rotation signal incompatible").
var vectorRotationOpcodes = map[string]bool{
	"rotate": true,
}

func isAddALUDispatchable(opcode string) bool { return addALUOpcodes[opcode] }
func isMulALUDispatchable(opcode string) bool { return mulALUOpcodes[opcode] }
func usesVectorRotation(opcode string) bool   { return vectorRotationOpcodes[opcode] }

// isOperation reports whether instr is an Operation in the scheduler's sense:
// an ALU op or a Move, the only kinds eligible for dual-issue pairing. Memory,
// Branch, MutexLock, Semaphore and MemoryBarrier instructions are fences and
// never participate in pairing (spec §4.5, §5).
func isOperation(instr *ir.Instruction) bool {
	return instr.Kind == ir.KindALUOperation || instr.Kind == ir.KindMove
}
