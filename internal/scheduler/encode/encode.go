// Package encode packs a scheduled CombinedOperation or single Operation
// into the 64-bit QPU instruction word described by spec §4.6, and decodes a
// word back into the same field values for round-trip testing.
package encode

// Field bit offsets and widths, spec §4.6.
const (
	signalingOffset   = 60
	signalingWidth    = 4
	unpackOffset      = 56
	unpackWidth       = 4
	packOffset        = 52
	packWidth         = 4
	addCondOffset     = 49
	addCondWidth      = 3
	mulCondOffset     = 46
	mulCondWidth      = 3
	setFlagsOffset    = 45
	writeSwapOffset   = 44
	addOutOffset      = 38
	addOutWidth       = 6
	mulOutOffset      = 32
	mulOutWidth       = 6
	mulOpcodeOffset   = 29
	mulOpcodeWidth    = 3
	addOpcodeOffset   = 24
	addOpcodeWidth    = 5
	inputAOffset      = 18
	inputAWidth       = 6
	inputBOffset      = 12
	inputBWidth       = 6
	addMuxAOffset     = 9
	addMuxAWidth      = 3
	addMuxBOffset     = 6
	addMuxBWidth      = 3
	mulMuxAOffset     = 3
	mulMuxAWidth      = 3
	mulMuxBOffset     = 0
	mulMuxBWidth      = 3
)

// Signaling is the 4-bit top signaling field distinguishing ALU, branch and
// load-immediate word shapes.
type Signaling uint8

const (
	SignalNormal Signaling = iota
	SignalLoadImmediate
	SignalBranch
)

// ALUWord holds every field of one 64-bit ALU instruction word, unpacked.
type ALUWord struct {
	Signaling Signaling
	Unpack    uint8
	Pack      uint8
	AddCond   uint8
	MulCond   uint8
	SetFlags  bool
	WriteSwap bool
	AddOut    uint8
	MulOut    uint8
	MulOpcode uint8
	AddOpcode uint8
	InputA    uint8
	InputB    uint8
	AddMuxA   uint8
	AddMuxB   uint8
	MulMuxA   uint8
	MulMuxB   uint8
}

func mask(width int) uint64 { return (uint64(1) << uint(width)) - 1 }

func putField(word *uint64, offset, width int, value uint64) {
	*word &^= mask(width) << uint(offset)
	*word |= (value & mask(width)) << uint(offset)
}

func getField(word uint64, offset, width int) uint64 {
	return (word >> uint(offset)) & mask(width)
}

// Encode packs w into its 64-bit big-endian-ordered word value. "Big-endian"
// here describes the word's transmission byte order (spec §6); the returned
// uint64 holds the field values as specified by §4.6's bit numbering,
// byte-swapped by the caller at the point of writing to the output stream.
func Encode(w ALUWord) uint64 {
	var word uint64
	putField(&word, signalingOffset, signalingWidth, uint64(w.Signaling))
	putField(&word, unpackOffset, unpackWidth, uint64(w.Unpack))
	putField(&word, packOffset, packWidth, uint64(w.Pack))
	putField(&word, addCondOffset, addCondWidth, uint64(w.AddCond))
	putField(&word, mulCondOffset, mulCondWidth, uint64(w.MulCond))
	putField(&word, setFlagsOffset, 1, boolBit(w.SetFlags))
	putField(&word, writeSwapOffset, 1, boolBit(w.WriteSwap))
	putField(&word, addOutOffset, addOutWidth, uint64(w.AddOut))
	putField(&word, mulOutOffset, mulOutWidth, uint64(w.MulOut))
	putField(&word, mulOpcodeOffset, mulOpcodeWidth, uint64(w.MulOpcode))
	putField(&word, addOpcodeOffset, addOpcodeWidth, uint64(w.AddOpcode))
	putField(&word, inputAOffset, inputAWidth, uint64(w.InputA))
	putField(&word, inputBOffset, inputBWidth, uint64(w.InputB))
	putField(&word, addMuxAOffset, addMuxAWidth, uint64(w.AddMuxA))
	putField(&word, addMuxBOffset, addMuxBWidth, uint64(w.AddMuxB))
	putField(&word, mulMuxAOffset, mulMuxAWidth, uint64(w.MulMuxA))
	putField(&word, mulMuxBOffset, mulMuxBWidth, uint64(w.MulMuxB))
	return word
}

// Decode unpacks a 64-bit word (in the §4.6 bit-numbering, pre-byte-swap) back
// into its field values.
func Decode(word uint64) ALUWord {
	return ALUWord{
		Signaling: Signaling(getField(word, signalingOffset, signalingWidth)),
		Unpack:    uint8(getField(word, unpackOffset, unpackWidth)),
		Pack:      uint8(getField(word, packOffset, packWidth)),
		AddCond:   uint8(getField(word, addCondOffset, addCondWidth)),
		MulCond:   uint8(getField(word, mulCondOffset, mulCondWidth)),
		SetFlags:  getField(word, setFlagsOffset, 1) != 0,
		WriteSwap: getField(word, writeSwapOffset, 1) != 0,
		AddOut:    uint8(getField(word, addOutOffset, addOutWidth)),
		MulOut:    uint8(getField(word, mulOutOffset, mulOutWidth)),
		MulOpcode: uint8(getField(word, mulOpcodeOffset, mulOpcodeWidth)),
		AddOpcode: uint8(getField(word, addOpcodeOffset, addOpcodeWidth)),
		InputA:    uint8(getField(word, inputAOffset, inputAWidth)),
		InputB:    uint8(getField(word, inputBOffset, inputBWidth)),
		AddMuxA:   uint8(getField(word, addMuxAOffset, addMuxAWidth)),
		AddMuxB:   uint8(getField(word, addMuxBOffset, addMuxBWidth)),
		MulMuxA:   uint8(getField(word, mulMuxAOffset, mulMuxAWidth)),
		MulMuxB:   uint8(getField(word, mulMuxBOffset, mulMuxBWidth)),
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// LoadImmediateWord holds the fields of a load-immediate instruction word: a
// 32-bit payload whose interpretation depends on Kind, plus the shared
// condition/output/pack fields a load-immediate still carries.
type LoadImmediateKind uint8

const (
	LoadFullWidth LoadImmediateKind = iota
	LoadSignedShorts
	LoadUnsignedShorts
)

type LoadImmediateWord struct {
	Kind      LoadImmediateKind
	Payload   uint32
	Pack      uint8
	AddCond   uint8
	MulCond   uint8
	SetFlags  bool
	WriteSwap bool
	AddOut    uint8
	MulOut    uint8
}

// EncodeLoadImmediate packs a load-immediate word. A load-immediate replaces
// the opcode and operand-address fields with a 32-bit payload (spec §4.6);
// the payload occupies bits 0-31 and the Kind occupies the unpack field
// (bits 56-59), which a load-immediate does not otherwise use.
func EncodeLoadImmediate(w LoadImmediateWord) uint64 {
	var word uint64
	putField(&word, signalingOffset, signalingWidth, uint64(SignalLoadImmediate))
	putField(&word, packOffset, packWidth, uint64(w.Pack))
	putField(&word, addCondOffset, addCondWidth, uint64(w.AddCond))
	putField(&word, mulCondOffset, mulCondWidth, uint64(w.MulCond))
	putField(&word, setFlagsOffset, 1, boolBit(w.SetFlags))
	putField(&word, writeSwapOffset, 1, boolBit(w.WriteSwap))
	putField(&word, addOutOffset, addOutWidth, uint64(w.AddOut))
	putField(&word, mulOutOffset, mulOutWidth, uint64(w.MulOut))
	putField(&word, unpackOffset, unpackWidth, uint64(w.Kind))
	putField(&word, 0, 32, uint64(w.Payload))
	return word
}

// DecodeLoadImmediate reverses EncodeLoadImmediate.
func DecodeLoadImmediate(word uint64) LoadImmediateWord {
	return LoadImmediateWord{
		Kind:      LoadImmediateKind(getField(word, unpackOffset, unpackWidth)),
		Payload:   uint32(getField(word, 0, 32)),
		Pack:      uint8(getField(word, packOffset, packWidth)),
		AddCond:   uint8(getField(word, addCondOffset, addCondWidth)),
		MulCond:   uint8(getField(word, mulCondOffset, mulCondWidth)),
		SetFlags:  getField(word, setFlagsOffset, 1) != 0,
		WriteSwap: getField(word, writeSwapOffset, 1) != 0,
		AddOut:    uint8(getField(word, addOutOffset, addOutWidth)),
		MulOut:    uint8(getField(word, mulOutOffset, mulOutWidth)),
	}
}
