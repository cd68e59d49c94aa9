package encode

import (
	"testing"

	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/stretchr/testify/assert"
)

// TestEncodeDecode_RoundTrip checks spec §8's round-trip law: encoding then
// decoding an ALU word reproduces every field exactly.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	w := ALUWord{
		Signaling: SignalNormal,
		Unpack:    0xA,
		Pack:      0x9,
		AddCond:   5,
		MulCond:   3,
		SetFlags:  true,
		WriteSwap: true,
		AddOut:    0x2B,
		MulOut:    0x15,
		MulOpcode: 6,
		AddOpcode: 17,
		InputA:    0x3F,
		InputB:    0x07,
		AddMuxA:   5,
		AddMuxB:   2,
		MulMuxA:   1,
		MulMuxB:   7 & 0x7,
	}
	decoded := Decode(Encode(w))
	assert.Equal(t, w, decoded)
}

func TestEncodeDecode_FieldsDoNotOverlap(t *testing.T) {
	w := ALUWord{AddOpcode: 0x1F, MulOpcode: 0}
	word := Encode(w)
	decoded := Decode(word)
	assert.Equal(t, uint8(0x1F), decoded.AddOpcode)
	assert.Equal(t, uint8(0), decoded.MulOpcode)
}

func TestEncode_SignalingBitsAtTop(t *testing.T) {
	word := Encode(ALUWord{Signaling: SignalBranch})
	assert.Equal(t, uint64(SignalBranch), (word>>60)&0xF)
}

func TestEncodeDecodeLoadImmediate_RoundTrip(t *testing.T) {
	w := LoadImmediateWord{
		Kind:      LoadSignedShorts,
		Payload:   0xDEADBEEF,
		Pack:      0x5,
		AddCond:   2,
		MulCond:   1,
		SetFlags:  true,
		WriteSwap: false,
		AddOut:    0x3F,
		MulOut:    0x01,
	}
	decoded := DecodeLoadImmediate(EncodeLoadImmediate(w))
	assert.Equal(t, w, decoded)
}

func TestEncodeLoadImmediate_SignalingDistinguishesFromALU(t *testing.T) {
	word := EncodeLoadImmediate(LoadImmediateWord{Payload: 42})
	assert.Equal(t, uint64(SignalLoadImmediate), (word>>60)&0xF)
}

func TestFromCombined_CarriesBothConditions(t *testing.T) {
	add := &ir.Instruction{Header: ir.Header{Conditional: ir.CondZero}}
	mul := &ir.Instruction{Header: ir.Header{Conditional: ir.CondNegative}}

	w := FromCombined(add, mul, 4, 2)
	assert.Equal(t, condCode[ir.CondZero], w.AddCond)
	assert.Equal(t, condCode[ir.CondNegative], w.MulCond)
	assert.Equal(t, uint8(4), w.AddOpcode)
	assert.Equal(t, uint8(2), w.MulOpcode)
}

func TestFromSingle_AddSlot(t *testing.T) {
	op := &ir.Instruction{Header: ir.Header{Conditional: ir.CondNonZero, SetFlags: true}}
	w := FromSingle(op, 9, true)
	assert.Equal(t, uint8(9), w.AddOpcode)
	assert.Equal(t, uint8(0), w.MulOpcode)
	assert.True(t, w.SetFlags)
}
