package memclass

import (
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
)

// smallArrayMaxElements bounds the register-lowering rule: an array type is
// only register-lowerable up to this many scalar lanes (spec §4.4). A var,
// not a const, so the driver's preference-matrix config can retune it
// per-target; see SetSmallArrayMaxElements, which config's
// PreferenceMatrix.Apply calls.
var smallArrayMaxElements = 16

// SetSmallArrayMaxElements overrides the small-array register-lowering
// threshold. Intended to be called once at driver startup from the loaded
// preference matrix, before any Classify call.
func SetSmallArrayMaxElements(n int) {
	if n > 0 {
		smallArrayMaxElements = n
	}
}

// assignPreference implements the exhaustive per-kind rules of spec §4.4,
// filling in access.Preferred/Fallback for a single base Local. It reads the
// base's own Type/Origin/AddressSpace/ReadOnly/ConstantInitializer/Reference
// fields and, for a GLOBAL pointer parameter, scans access.Instructions for
// a direct write (isMemoryOnlyRead); per-access range data is consulted
// later, only by canMapToDMAReadWrite.
func assignPreference(base *ir.Local, access *MemoryAccess) error {
	switch base.Origin {
	case ir.OriginParameter:
		return assignParameterPreference(base, access)
	case ir.OriginStackAllocation:
		assignStackAllocationPreference(base, access)
		return nil
	case ir.OriginGlobal:
		assignGlobalPreference(base, access)
		return nil
	default:
		// Any other local used as a memory base is rejected here as
		// UnmappablePhi. Phi-joins of previously-classified bases are
		// resolved by Classifier.ClassifyPhi, which does not go through
		// this function.
		return compileerr.NewUnmappablePhi(base)
	}
}

func assignParameterPreference(base *ir.Local, access *MemoryAccess) error {
	if !base.Type.IsPointer() {
		return nil
	}
	switch base.Type.Pointer.AddressSpace {
	case ir.AddressSpaceConstant:
		access.Preferred = RAMLoadTMU
		access.Fallback = RAMReadWriteVPM
	case ir.AddressSpaceGlobal:
		if base.ReadOnly || isMemoryOnlyRead(base, access.Instructions) {
			access.Preferred = RAMLoadTMU
			access.Fallback = RAMReadWriteVPM
		} else {
			access.Preferred = RAMReadWriteVPM
			access.Fallback = RAMReadWriteVPM
		}
	case ir.AddressSpaceLocal:
		access.Preferred = RAMReadWriteVPM
		access.Fallback = RAMReadWriteVPM
	default:
		return compileerr.NewInvalidAddressSpace(base, base.Type.Pointer.AddressSpace)
	}
	return nil
}

func assignStackAllocationPreference(base *ir.Local, access *MemoryAccess) {
	t := underlyingStorageType(base.Type)
	if t.IsStruct() {
		access.Preferred = RAMReadWriteVPM
		access.Fallback = RAMReadWriteVPM
		return
	}
	if t.IsSimpleType() && t.BitWidth() <= registerBitWidth {
		access.Preferred = QPURegisterReadWrite
		access.Fallback = VPMPerQPU
		return
	}
	if t.IsArray() {
		if _, ok := convertSmallArrayToRegister(base); ok {
			access.Preferred = QPURegisterReadWrite
			access.Fallback = RAMReadWriteVPM
			return
		}
		access.Preferred = VPMPerQPU
		access.Fallback = RAMReadWriteVPM
		return
	}
	access.Preferred = VPMPerQPU
	access.Fallback = RAMReadWriteVPM
}

func assignGlobalPreference(base *ir.Local, access *MemoryAccess) {
	if base.ReadOnly && base.ConstantInitializer != nil {
		init := *base.ConstantInitializer
		if init.IsLiteral() {
			access.Preferred = QPURegisterReadOnly
			access.Fallback = RAMLoadTMU
			return
		}
		if base.Reference != nil && base.Reference.ElementIndex >= 0 {
			access.Preferred = QPURegisterReadOnly
			access.Fallback = RAMLoadTMU
			return
		}
		if _, ok := init.AllLanesEqual(); ok {
			access.Preferred = QPURegisterReadOnly
			access.Fallback = RAMLoadTMU
			return
		}
		if t := underlyingStorageType(base.Type); t.IsArray() {
			if _, ok := convertSmallArrayToRegister(base); ok {
				access.Preferred = QPURegisterReadOnly
				access.Fallback = RAMLoadTMU
				return
			}
		}
		access.Preferred = RAMLoadTMU
		access.Fallback = RAMReadWriteVPM
		return
	}
	if underlyingStorageType(base.Type).IsStruct() {
		access.Preferred = RAMReadWriteVPM
		access.Fallback = RAMReadWriteVPM
		return
	}
	access.Preferred = VPMSharedAccess
	access.Fallback = RAMReadWriteVPM
}

// registerBitWidth is the width of a single VideoCore IV SIMD register lane
// times the 16-wide vector, i.e. what "fits into a single register" means
// for the stack-allocation rule.
const registerBitWidth = 32 * 16

// underlyingStorageType strips a pointer wrapper to reach the pointee type
// a base Local's Type actually allocates storage for.
func underlyingStorageType(t ir.DataType) ir.DataType {
	if t.IsPointer() {
		return t.Pointer.Elem
	}
	return t
}

// convertSmallArrayToRegister implements spec §4.4's small-array lowering
// rule: an array of <=16 scalar elements each <=32 bits becomes vec<N×elem>.
// Idempotent: calling it again on the already-lowered vector type (which is
// a plain scalar/vector DataType, not an array) simply fails to match and
// the caller keeps the type unchanged -- satisfying the round-trip law of
// spec §8.
func convertSmallArrayToRegister(base *ir.Local) (ir.DataType, bool) {
	t := underlyingStorageType(base.Type)
	if !t.IsArray() {
		return ir.DataType{}, false
	}
	arr := t.Array
	if arr.Size > smallArrayMaxElements || !arr.Elem.IsSimpleType() || arr.Elem.VectorWidth > 1 || arr.Elem.ScalarBitWidth > 32 {
		return ir.DataType{}, false
	}
	return ir.Vector(arr.Elem.ScalarBitWidth, arr.Elem.Signed, arr.Size), true
}

// isMemoryOnlyRead conservatively scans the access's own instruction list
// for a WRITE, COPY or FILL whose destination resolves to base through its
// Reference chain (BaseLocal); it does not look through phi joins or other
// aliases to find transitive writers, matching the documented limitation
// preserved as an open-question decision (spec §9a, DESIGN.md).
func isMemoryOnlyRead(base *ir.Local, instrs []*ir.Instruction) bool {
	for _, instr := range instrs {
		if instr.Kind != ir.KindMemory || instr.Memory == nil {
			continue
		}
		if instr.Memory.Op != ir.MemoryWrite && instr.Memory.Op != ir.MemoryCopy && instr.Memory.Op != ir.MemoryFill {
			continue
		}
		if dst := instr.Memory.Destination.AsLocal(); dst != nil && dst.BaseLocal() == base {
			return false
		}
	}
	return true
}
