// Package memclass assigns every memory-access base Local a realization on
// the VideoCore IV target and rewrites the instructions that touch it: the
// split/copy rewrites of spec §4.4 and the six-tag preference dispatch
// table that mirrors VC4C's MemoryMapChecks.cpp CHECKS array.
package memclass

import (
	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/doe300/vc4c-go/internal/rangeanalysis"
)

// RealizationType is the closed set of ways a base Local can be realized on
// the target (spec §4.4).
type RealizationType int

const (
	QPURegisterReadOnly RealizationType = iota
	QPURegisterReadWrite
	VPMPerQPU
	VPMSharedAccess
	RAMLoadTMU
	RAMReadWriteVPM
)

func (t RealizationType) String() string {
	switch t {
	case QPURegisterReadOnly:
		return "QPU_REGISTER_READONLY"
	case QPURegisterReadWrite:
		return "QPU_REGISTER_READWRITE"
	case VPMPerQPU:
		return "VPM_PER_QPU"
	case VPMSharedAccess:
		return "VPM_SHARED_ACCESS"
	case RAMLoadTMU:
		return "RAM_LOAD_TMU"
	case RAMReadWriteVPM:
		return "RAM_READ_WRITE_VPM"
	default:
		return "unknown"
	}
}

// MemoryAccess groups everything the classifier needs about one base
// Local's accesses: the preferred/fallback realization pair chosen by the
// per-kind rules, and the instructions that touch it.
type MemoryAccess struct {
	Preferred    RealizationType
	Fallback     RealizationType
	Instructions []*ir.Instruction
	// Ranges holds one AccessRangeAnalyzer decomposition per instruction
	// that touches this base, precomputed by the caller (spec §4.3 feeds
	// §4.4). Only consulted by canMapToDMAReadWrite's cache-in-VPM check.
	Ranges []*rangeanalysis.MemoryAccessRange
}

// MemoryInfo is the final, immutable decision the classifier emits for one
// base Local (spec §6's memory-lowering handoff record).
type MemoryInfo struct {
	Base             *ir.Local
	Realization      RealizationType
	Area             *ir.VPMArea
	CachedRanges     []*rangeanalysis.MemoryAccessRange
	PrecomputedValue *ir.Value
	LoweredType      *ir.DataType
	TMUIndex         int
	Recovered        RecoveredOutcome
}

// RecoveredOutcome records which recoverable condition, if any, caused the
// classifier to fall back from its first-choice realization (spec §7).
type RecoveredOutcome int

const (
	RecoveredNone RecoveredOutcome = iota
	RecoveredRangeTooWide
	RecoveredUniformMismatch
)

func (o RecoveredOutcome) String() string {
	switch o {
	case RecoveredRangeTooWide:
		return "RangeTooWide"
	case RecoveredUniformMismatch:
		return "UniformMismatch"
	default:
		return "none"
	}
}
