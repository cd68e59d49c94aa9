package scheduler

import (
	"testing"

	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func local(name string) *ir.Local {
	return &ir.Local{Name: name, Type: ir.Scalar(32, true)}
}

func reg(name string) ir.Value {
	return ir.NewRegister(ir.Scalar(32, true), name)
}

// TestSchedule_CombinesIndependentAddAndMul builds two independent roots, one
// ADD-ALU-only ("add") and one MUL-ALU-only ("fmul"), reading distinct
// locals (no physical register, so no register-file port is contended), and
// expects a single combined instruction (spec §8 scenario 4 / invariant 7).
func TestSchedule_CombinesIndependentAddAndMul(t *testing.T) {
	addOut := ir.NewLocalRef(local("a"))
	mulOut := ir.NewLocalRef(local("b"))

	addInstr := ir.NewALUOperation("add", addOut, ir.NewLocalRef(local("c")), ir.NewLocalRef(local("d")))
	mulInstr := ir.NewALUOperation("fmul", mulOut, ir.NewLocalRef(local("e")), ir.NewLocalRef(local("f")))

	out := Schedule([]*ir.Instruction{addInstr, mulInstr}, SchedulingModeSinglePair)
	require.Len(t, out, 1)
	assert.Equal(t, ir.KindCombined, out[0].Kind)
	assert.Equal(t, addInstr, out[0].Combined.AddOp)
	assert.Equal(t, mulInstr, out[0].Combined.MulOp)
}

// TestSchedule_DependentOpsAreNotCombined checks that a true data dependency
// (the mul reads the add's output) prevents the pair: the add's output is
// never a root alongside its own consumer.
func TestSchedule_DependentOpsAreNotCombined(t *testing.T) {
	aLocal := local("a")
	addOut := ir.NewLocalRef(aLocal)
	addInstr := ir.NewALUOperation("add", addOut, reg("ra0"), reg("ra1"))

	mulOut := ir.NewLocalRef(local("b"))
	mulInstr := ir.NewALUOperation("fmul", mulOut, ir.NewLocalRef(aLocal), reg("rb1"))

	out := Schedule([]*ir.Instruction{addInstr, mulInstr}, SchedulingModeSinglePair)
	require.Len(t, out, 2)
	assert.Equal(t, ir.KindALUOperation, out[0].Kind)
	assert.Equal(t, ir.KindALUOperation, out[1].Kind)
}

// TestSchedule_TwoAddALUOpsCannotPair verifies two instructions that are
// both only ADD-ALU-dispatchable (neither is MUL-ALU-dispatchable) are
// emitted singly, never combined.
func TestSchedule_TwoAddALUOpsCannotPair(t *testing.T) {
	i1 := ir.NewALUOperation("and", ir.NewLocalRef(local("a")), reg("ra0"), reg("ra1"))
	i2 := ir.NewALUOperation("or", ir.NewLocalRef(local("b")), reg("rb0"), reg("rb1"))

	out := Schedule([]*ir.Instruction{i1, i2}, SchedulingModeSinglePair)
	require.Len(t, out, 2)
	for _, instr := range out {
		assert.Equal(t, ir.KindALUOperation, instr.Kind)
	}
}

// TestSchedule_RegisterFilePortConflictBlocksPairing checks that combining
// two otherwise-pairable roots is rejected once they collectively reference
// more than two distinct physical registers.
func TestSchedule_RegisterFilePortConflictBlocksPairing(t *testing.T) {
	addInstr := ir.NewALUOperation("add", ir.NewLocalRef(local("a")), reg("r0"), reg("r1"))
	mulInstr := ir.NewALUOperation("fmul", ir.NewLocalRef(local("b")), reg("r2"), reg("r3"))

	out := Schedule([]*ir.Instruction{addInstr, mulInstr}, SchedulingModeSinglePair)
	require.Len(t, out, 2, "four distinct registers exceed the two-read-per-cycle register file")
}

// TestSchedule_FencesStayInProgramOrder checks that Memory/Branch
// instructions are never reordered relative to each other or combined with
// anything (spec §4.5, §5).
func TestSchedule_FencesStayInProgramOrder(t *testing.T) {
	dest := ir.NewLocalRef(local("p"))
	read1 := ir.NewMemoryInstruction(ir.MemoryRead, dest, ir.Value{}, 1, false)
	read2 := ir.NewMemoryInstruction(ir.MemoryRead, dest, ir.Value{}, 1, false)

	out := Schedule([]*ir.Instruction{read1, read2}, SchedulingModeSinglePair)
	require.Len(t, out, 2)
	assert.Same(t, read1, out[0])
	assert.Same(t, read2, out[1])
}

// TestSchedule_PreservesLeadingLabel checks the block's label instruction is
// kept at the front of the schedule, untouched.
func TestSchedule_PreservesLeadingLabel(t *testing.T) {
	label := ir.NewLabel(local("block0"))
	addInstr := ir.NewALUOperation("add", ir.NewLocalRef(local("a")), reg("ra0"), reg("ra1"))

	out := Schedule([]*ir.Instruction{label, addInstr}, SchedulingModeSinglePair)
	require.Len(t, out, 2)
	assert.Same(t, label, out[0])
}

// TestSchedule_TiesBrokenByProgramOrder checks that when no pair is
// available, roots are emitted in ascending original program order.
func TestSchedule_TiesBrokenByProgramOrder(t *testing.T) {
	i1 := ir.NewALUOperation("and", ir.NewLocalRef(local("a")), reg("r0"))
	i2 := ir.NewALUOperation("or", ir.NewLocalRef(local("b")), reg("r1"))
	i3 := ir.NewALUOperation("xor", ir.NewLocalRef(local("c")), reg("r2"))

	out := Schedule([]*ir.Instruction{i1, i2, i3}, SchedulingModeSinglePair)
	require.Len(t, out, 3)
	assert.Same(t, i1, out[0])
	assert.Same(t, i2, out[1])
	assert.Same(t, i3, out[2])
}

func TestCanBeCombined_VectorRotationConflict(t *testing.T) {
	a := ir.NewALUOperation("rotate", ir.NewLocalRef(local("a")), reg("r0"))
	b := ir.NewALUOperation("rotate", ir.NewLocalRef(local("b")), reg("r1"))
	assert.False(t, canBeCombined(a, b))
}
