package memclass

import (
	"testing"

	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMethodWithBlock(instrs ...*ir.Instruction) (*ir.Method, *ir.BasicBlock) {
	m := ir.NewMethod("k", true)
	label := &ir.Local{Name: "entry"}
	block := ir.NewBasicBlock(label)
	block.Instructions = append(block.Instructions, instrs...)
	m.AddBlock(block)
	return m, block
}

func TestApplyRewrites_SplitsWriteOfZeroExtendedValue(t *testing.T) {
	destBase := &ir.Local{Name: "out", Type: ir.Pointer(ir.Scalar(64, false), ir.AddressSpaceGlobal)}
	dest := ir.NewLocalRef(destBase)
	src := ir.NewLiteral(ir.Scalar(64, false), 0xFFFFFFFF)
	write := ir.NewMemoryInstruction(ir.MemoryWrite, src, dest, 1, false)

	m, block := newMethodWithBlock(write)
	result := ApplyRewrites(m)

	assert.Equal(t, 1, result.WritesSplit)
	require.Len(t, block.Instructions, 3) // label + lo + hi
	assert.Equal(t, ir.MemoryWrite, block.Instructions[1].Memory.Op)
	assert.Equal(t, ir.MemoryWrite, block.Instructions[2].Memory.Op)
	assert.Equal(t, 32, block.Instructions[1].Memory.Source.Type.BitWidth())
}

func TestApplyRewrites_LeavesNonQualifyingWriteAlone(t *testing.T) {
	destBase := &ir.Local{Name: "out", Type: ir.Pointer(ir.Scalar(32, true), ir.AddressSpaceGlobal)}
	dest := ir.NewLocalRef(destBase)
	src := ir.NewLiteral(ir.Scalar(32, true), 7)
	write := ir.NewMemoryInstruction(ir.MemoryWrite, src, dest, 1, false)

	m, block := newMethodWithBlock(write)
	result := ApplyRewrites(m)

	assert.Equal(t, 0, result.WritesSplit)
	require.Len(t, block.Instructions, 2)
	assert.Same(t, write, block.Instructions[1])
}

func TestApplyRewrites_RewritesReadThenWriteIntoCopy(t *testing.T) {
	src := ir.NewLocalRef(&ir.Local{Name: "src", Type: ir.Pointer(ir.Scalar(32, true), ir.AddressSpaceGlobal)})
	dst := ir.NewLocalRef(&ir.Local{Name: "dst", Type: ir.Pointer(ir.Scalar(32, true), ir.AddressSpaceGlobal)})
	tmp := ir.NewLocalRef(&ir.Local{Name: "tmp", Type: ir.Scalar(32, true)})

	read := ir.NewMemoryInstruction(ir.MemoryRead, src, ir.Value{}, 1, false)
	read.Output = &tmp
	write := ir.NewMemoryInstruction(ir.MemoryWrite, tmp, dst, 1, false)

	m, block := newMethodWithBlock(read, write)
	result := ApplyRewrites(m)

	require.Equal(t, 1, result.CopiesRewritten)
	require.Len(t, block.Instructions, 2) // label + copy
	assert.Equal(t, ir.MemoryCopy, block.Instructions[1].Memory.Op)
}

func TestApplyRewrites_ReadSplitAbortsOnUnsupportedReaderAndIsRecovered(t *testing.T) {
	structType := ir.StructOf([]ir.DataType{ir.Scalar(32, true), ir.Scalar(32, true)}, false)
	srcBase := &ir.Local{Name: "in", Type: ir.Pointer(structType, ir.AddressSpaceGlobal)}
	src := ir.NewLocalRef(srcBase)
	dest := ir.NewLocalRef(&ir.Local{Name: "wide", Type: ir.Scalar(64, true)})

	read := ir.NewMemoryInstruction(ir.MemoryRead, src, ir.Value{}, 1, false)
	read.Output = &dest

	// A 64-bit ALU add reading the destination is not a recognized reader
	// kind (truncating move, shift-right-32, or a 64-bit write).
	unsupported := ir.NewALUOperation("add", ir.NewLocalRef(&ir.Local{Name: "r", Type: ir.Scalar(64, true)}), dest, dest)

	m, block := newMethodWithBlock(read, unsupported)
	result := ApplyRewrites(m)

	assert.Equal(t, 0, result.ReadsSplit)
	require.Len(t, result.Recovered, 1)
	require.Len(t, block.Instructions, 3) // label + read + unsupported, unchanged
	assert.Same(t, read, block.Instructions[1])
}

func TestApplyRewrites_SplitsReadWithRecognizedReaders(t *testing.T) {
	structType := ir.StructOf([]ir.DataType{ir.Scalar(32, true), ir.Scalar(32, true)}, false)
	srcBase := &ir.Local{Name: "in", Type: ir.Pointer(structType, ir.AddressSpaceGlobal)}
	src := ir.NewLocalRef(srcBase)
	dest := ir.NewLocalRef(&ir.Local{Name: "wide", Type: ir.Scalar(64, true)})

	read := ir.NewMemoryInstruction(ir.MemoryRead, src, ir.Value{}, 1, false)
	read.Output = &dest

	truncOut := ir.NewLocalRef(&ir.Local{Name: "lo32", Type: ir.Scalar(32, true)})
	trunc := ir.NewMove(truncOut, dest)

	m, block := newMethodWithBlock(read, trunc)
	result := ApplyRewrites(m)

	assert.Equal(t, 1, result.ReadsSplit)
	assert.Empty(t, result.Recovered)
	require.Len(t, block.Instructions, 4) // label + lo read + hi read + trunc
	assert.Equal(t, ir.MemoryRead, block.Instructions[1].Memory.Op)
	assert.Equal(t, ir.MemoryRead, block.Instructions[2].Memory.Op)
}
