package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPool_AddNewLocal(t *testing.T) {
	pool := NewLocalPool()
	l1 := pool.AddNewLocal(Scalar(32, true), "x")
	l2 := pool.AddNewLocal(Scalar(32, true), "x")

	assert.NotEqual(t, l1.ID, l2.ID)
	assert.Len(t, pool.All(), 2)
	assert.Equal(t, OriginTransient, l1.Origin)
}

func TestDataType_Equal(t *testing.T) {
	a := Pointer(Scalar(32, true), AddressSpaceGlobal)
	b := Pointer(Scalar(32, true), AddressSpaceGlobal)
	c := Pointer(Scalar(32, true), AddressSpaceLocal)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSmallArrayLowering_ElementsAndWidth(t *testing.T) {
	arr := ArrayOf(Scalar(32, true), 4)
	require.True(t, arr.IsArray())
	assert.Equal(t, 4, arr.Array.Size)
	assert.Equal(t, 32, arr.Array.Elem.ScalarBitWidth)
}

func TestValue_AllLanesEqual(t *testing.T) {
	v := Value{Kind: ValueVector, Type: Vector(32, true, 16)}
	lit := int64(7)
	for i := range v.Vector {
		l := lit
		v.Vector[i].Literal = &l
	}
	got, ok := v.AllLanesEqual()
	assert.True(t, ok)
	assert.Equal(t, int64(7), got)

	other := lit + 1
	v.Vector[3].Literal = &other
	_, ok = v.AllLanesEqual()
	assert.False(t, ok)
}

func TestWalker_InsertAndErase(t *testing.T) {
	m := NewMethod("test", false)
	label := m.Locals.AddNewLocal(DataType{}, "block0")
	block := NewBasicBlock(label)
	m.AddBlock(block)

	out := NewLocalRef(m.Locals.AddNewLocal(Scalar(32, true), "out"))
	block.Append(NewALUOperation("add", out, NewLiteral(Scalar(32, true), 1), NewLiteral(Scalar(32, true), 2)))

	w := AtWalker(m, 0, 1)
	require.True(t, w.Valid())
	assert.Equal(t, "add", w.Get().Opcode)

	w2 := w.InsertBefore(NewNop())
	assert.Equal(t, KindNop, w2.Get().Kind)
	assert.Len(t, block.Instructions, 3)

	w3 := w2.Erase()
	assert.Equal(t, KindALUOperation, w3.Get().Kind)
	assert.Len(t, block.Instructions, 2)
}

func TestLocal_BaseLocal(t *testing.T) {
	base := &Local{Name: "arr", Origin: OriginGlobal}
	derived := &Local{Name: "arr_2", Reference: &LocalReference{Base: base, ElementIndex: 2}}

	assert.Equal(t, base, derived.BaseLocal())
	assert.Equal(t, base, base.BaseLocal())
}
