package pipeline

import (
	"errors"
	"testing"

	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/doe300/vc4c-go/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSingleBlockKernel builds a kernel whose entry block writes a literal
// to a stack-allocated scalar local and then branches unconditionally to a
// separate, empty exit block (the single sink, satisfying
// GetEndOfControlFlow's invariant).
func buildSingleBlockKernel(t *testing.T) *ir.Method {
	t.Helper()
	m := ir.NewMethod("kernel", true)

	entryLabel := m.Locals.AddNewLocal(ir.DataType{}, "entry")
	exitLabel := m.Locals.AddNewLocal(ir.DataType{}, "exit")

	base := m.Locals.AddNewLocal(ir.Scalar(32, false), "buf")
	base.Origin = ir.OriginStackAllocation

	entry := ir.NewBasicBlock(entryLabel)
	write := ir.NewMemoryInstruction(ir.MemoryWrite, ir.NewLiteral(ir.Scalar(32, false), 7), ir.NewLocalRef(base), 1, false)
	entry.Append(write)
	entry.Append(ir.NewBranch(exitLabel))

	exit := ir.NewBasicBlock(exitLabel)

	m.AddBlock(entry)
	m.AddBlock(exit)

	return m
}

func TestCompile_ClassifiesMemoryBasesAndSchedulesBlocks(t *testing.T) {
	m := buildSingleBlockKernel(t)

	result, cerr := Compile(m, DefaultOptions())
	require.Nil(t, cerr)
	require.NotNil(t, result)

	assert.Len(t, result.MemoryInfo, 1)
	assert.Len(t, result.Scheduled, 2)
}

func TestCompile_ExhaustiveModeStillProducesSchedule(t *testing.T) {
	m := buildSingleBlockKernel(t)
	opts := DefaultOptions()
	opts.SchedulingMode = scheduler.SchedulingModeExhaustive

	result, cerr := Compile(m, opts)
	require.Nil(t, cerr)
	assert.NotEmpty(t, result.Scheduled)
}

func TestCompile_AmbiguousExitReturnsFatalError(t *testing.T) {
	m := ir.NewMethod("no_exit", true)
	aLabel := m.Locals.AddNewLocal(ir.DataType{}, "a")
	bLabel := m.Locals.AddNewLocal(ir.DataType{}, "b")

	a := ir.NewBasicBlock(aLabel)
	a.Append(ir.NewBranch(bLabel))
	b := ir.NewBasicBlock(bLabel)
	b.Append(ir.NewBranch(aLabel))

	m.AddBlock(a)
	m.AddBlock(b)

	_, cerr := Compile(m, DefaultOptions())
	require.NotNil(t, cerr)
	assert.True(t, errors.Is(cerr, compileerr.ErrAmbiguousExit))
}
