package scheduler

import "github.com/doe300/vc4c-go/internal/ir"

// canBeCombined implements spec §4.5's pairing rule for two distinct root
// Operations: individually ADD/MUL-ALU dispatchable (in either order),
// compatible vector-rotation usage, and no register-file port conflict.
func canBeCombined(a, b *ir.Instruction) bool {
	if a == b || !isOperation(a) || !isOperation(b) {
		return false
	}
	if !dispatchableAsPair(a, b) {
		return false
	}
	if usesVectorRotation(a.Opcode) && usesVectorRotation(b.Opcode) {
		return false
	}
	return !hasRegisterFilePortConflict(a, b)
}

// dispatchableAsPair reports whether one of a, b can run on the ADD-ALU
// while the other runs on the MUL-ALU, in either assignment.
func dispatchableAsPair(a, b *ir.Instruction) bool {
	if isAddALUDispatchable(a.Opcode) && isMulALUDispatchable(b.Opcode) {
		return true
	}
	if isAddALUDispatchable(b.Opcode) && isMulALUDispatchable(a.Opcode) {
		return true
	}
	return false
}

// hasRegisterFilePortConflict models the QPU's two-read-per-cycle register
// file: file A and file B each serve a single address per cycle, shared by
// both ALUs via input muxes. A combined bundle can therefore reference at
// most two distinct physical registers across both operations' reads.
func hasRegisterFilePortConflict(a, b *ir.Instruction) bool {
	seen := map[string]bool{}
	for _, instr := range [...]*ir.Instruction{a, b} {
		for _, in := range instr.Inputs {
			if in.Kind == ir.ValueRegister {
				seen[in.Register] = true
			}
		}
	}
	return len(seen) > 2
}

// assignRoles resolves which of a, b takes the ADD-ALU slot and which takes
// the MUL-ALU slot. Both were already confirmed pairable by canBeCombined.
// It returns true if a is the ADD-ALU operand.
func assignRoles(a, b *ir.Instruction) bool {
	return isAddALUDispatchable(a.Opcode) && isMulALUDispatchable(b.Opcode)
}
