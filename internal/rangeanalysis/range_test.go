package rangeanalysis

import (
	"testing"

	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose_LiteralsAreUniform(t *testing.T) {
	a := NewAnalyzer(0)
	buf := &ir.Local{Name: "buf", Origin: ir.OriginStackAllocation}
	instr := ir.NewNop()

	addr := []ir.Value{ir.NewLiteral(ir.Scalar(32, true), 8)}
	r := a.Decompose(buf, instr, addr, nil)

	assert.Empty(t, r.Uniform)
	assert.Empty(t, r.Dynamic)
	assert.Equal(t, int64(8), r.Min)
	assert.Equal(t, int64(8), r.Max)
}

func TestDecompose_UniformDecoratedLocal(t *testing.T) {
	a := NewAnalyzer(0)
	buf := &ir.Local{Name: "buf", Origin: ir.OriginStackAllocation}
	groupOffset := &ir.Local{Name: "group_offset", Origin: ir.OriginTransient}
	instr := ir.NewNop()

	addr := []ir.Value{ir.NewLocalRef(groupOffset)}
	r := a.Decompose(buf, instr, addr, []ir.Decoration{ir.DecorationWorkGroupUniform})

	require.Len(t, r.Uniform, 1)
	assert.Empty(t, r.Dynamic)
	assert.Equal(t, groupOffset, r.Uniform[0].Value.AsLocal())
}

func TestDecompose_DynamicWithKnownRange(t *testing.T) {
	a := NewAnalyzer(0)
	buf := &ir.Local{Name: "buf", Origin: ir.OriginStackAllocation}
	tid := &ir.Local{Name: "tid", Origin: ir.OriginTransient}
	a.SetKnownRange(tid, KnownValueRange{Min: 0, Max: 7})
	instr := ir.NewNop()

	addr := []ir.Value{ir.NewLocalRef(tid), ir.NewLiteral(ir.Scalar(32, true), 1)}
	r := a.Decompose(buf, instr, addr, []ir.Decoration{ir.DecorationNone, ir.DecorationNone})

	require.Len(t, r.Dynamic, 1)
	assert.Equal(t, int64(1), r.Min)
	assert.Equal(t, int64(8), r.Max)
}

func TestDecompose_CachesByInstruction(t *testing.T) {
	a := NewAnalyzer(8)
	buf := &ir.Local{Name: "buf", Origin: ir.OriginStackAllocation}
	instr := ir.NewNop()

	first := a.Decompose(buf, instr, []ir.Value{ir.NewLiteral(ir.Scalar(32, true), 1)}, nil)
	second := a.Decompose(buf, instr, []ir.Value{ir.NewLiteral(ir.Scalar(32, true), 99)}, nil)

	assert.Same(t, first, second)
}

func TestUniformKey_MatchesForIdenticalUniformSets(t *testing.T) {
	a := NewAnalyzer(0)
	buf := &ir.Local{Name: "buf", Origin: ir.OriginStackAllocation}
	u := &ir.Local{Name: "u", Origin: ir.OriginTransient}

	r1 := a.Decompose(buf, ir.NewNop(), []ir.Value{ir.NewLocalRef(u)}, []ir.Decoration{ir.DecorationWorkGroupUniform})
	r2 := a.Decompose(buf, ir.NewNop(), []ir.Value{ir.NewLocalRef(u)}, []ir.Decoration{ir.DecorationWorkGroupUniform})

	assert.Equal(t, r1.UniformKey(), r2.UniformKey())
}
