package encode

import "github.com/doe300/vc4c-go/internal/ir"

// condCode maps an ir.ConditionCode to its 3-bit hardware encoding.
var condCode = map[ir.ConditionCode]uint8{
	ir.CondAlways:       0,
	ir.CondZero:         1,
	ir.CondNonZero:      2,
	ir.CondNegative:     3,
	ir.CondNonNegative:  4,
}

// FromCombined builds the ALUWord for a scheduled dual-issue bundle. addOp
// and mulOp are the CombinedOperation's two source instructions, already
// resolved to their ADD-ALU/MUL-ALU roles by the scheduler.
func FromCombined(addOp, mulOp *ir.Instruction, addOpcodeNum, mulOpcodeNum uint8) ALUWord {
	w := ALUWord{
		AddCond:   condCode[addOp.Header.Conditional],
		MulCond:   condCode[mulOp.Header.Conditional],
		SetFlags:  addOp.Header.SetFlags || mulOp.Header.SetFlags,
		AddOpcode: addOpcodeNum,
		MulOpcode: mulOpcodeNum,
	}
	return w
}

// FromSingle builds the ALUWord for a single (non-combined) Operation
// dispatched on its native ALU. isAdd selects whether opcodeNum occupies the
// add-opcode or mul-opcode field; the other ALU's opcode field is left at
// its reset/nop encoding.
func FromSingle(op *ir.Instruction, opcodeNum uint8, isAdd bool) ALUWord {
	w := ALUWord{
		SetFlags: op.Header.SetFlags,
	}
	if isAdd {
		w.AddCond = condCode[op.Header.Conditional]
		w.AddOpcode = opcodeNum
	} else {
		w.MulCond = condCode[op.Header.Conditional]
		w.MulOpcode = opcodeNum
	}
	return w
}
