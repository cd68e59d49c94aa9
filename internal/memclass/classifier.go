package memclass

import (
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/doe300/vc4c-go/internal/rangeanalysis"
)

// mappingCheck is one entry of the CHECKS dispatch table, indexed by
// RealizationType -- the Go analogue of VC4C's `MappingCheck CHECKS[6]`
// function-pointer array.
type mappingCheck func(c *Classifier, base *ir.Local, access *MemoryAccess) MemoryInfo

var checks = [6]mappingCheck{
	QPURegisterReadOnly:  (*Classifier).canLowerToRegisterReadOnly,
	QPURegisterReadWrite: (*Classifier).canLowerToRegisterReadWrite,
	VPMPerQPU:            (*Classifier).canLowerToPrivateVPMArea,
	VPMSharedAccess:      (*Classifier).canLowerToSharedVPMArea,
	RAMLoadTMU:           (*Classifier).canMapToTMUReadOnly,
	RAMReadWriteVPM:      (*Classifier).canMapToDMAReadWrite,
}

// Classifier assigns realizations to every memory base Local of a single
// method. It owns the method's VPMManager and the access-range analyzer and
// is not safe for concurrent use across methods (spec §5 -- each method
// owns its VPM manager exclusively).
type Classifier struct {
	VPM      *ir.VPMManager
	Analyzer *rangeanalysis.Analyzer

	nextTMU int // alternates 0/1 on each TMU assignment (spec §4.4)

	results map[*ir.Local]MemoryInfo
}

// NewClassifier builds a classifier bound to a single method's VPM manager.
func NewClassifier(vpm *ir.VPMManager, analyzer *rangeanalysis.Analyzer) *Classifier {
	return &Classifier{VPM: vpm, Analyzer: analyzer, results: map[*ir.Local]MemoryInfo{}}
}

// Classify assigns a realization to base and returns the resulting
// MemoryInfo. ranges is the AccessRangeAnalyzer's decomposition of every
// instruction in instrs that addresses base (spec §4.3 feeds §4.4); it may
// be nil for realizations that never need range data. If base is a phi-join
// (its instructions reference more than one previously classified base),
// use ClassifyPhi instead.
func (c *Classifier) Classify(base *ir.Local, instrs []*ir.Instruction, ranges []*rangeanalysis.MemoryAccessRange) (MemoryInfo, error) {
	access := &MemoryAccess{Instructions: instrs, Ranges: ranges}
	if err := assignPreference(base, access); err != nil {
		return MemoryInfo{}, err
	}
	info := checks[access.Preferred](c, base, access)
	c.results[base] = info
	return info, nil
}

// ClassifyPhi resolves a memory base that is a phi-join of previously
// classified sourceBases. It succeeds only if every source base was
// classified to the same RealizationType (spec §4.4's "Other locals" rule).
func (c *Classifier) ClassifyPhi(phi *ir.Local, sourceBases []*ir.Local) (MemoryInfo, error) {
	if len(sourceBases) == 0 {
		return MemoryInfo{}, compileerr.NewUnmappablePhi(phi)
	}
	first, ok := c.results[sourceBases[0]]
	if !ok {
		return MemoryInfo{}, compileerr.NewUnmappablePhi(phi)
	}
	for _, src := range sourceBases[1:] {
		info, ok := c.results[src]
		if !ok || info.Realization != first.Realization {
			return MemoryInfo{}, compileerr.NewUnmappablePhi(phi)
		}
	}
	merged := first
	merged.Base = phi
	c.results[phi] = merged
	return merged, nil
}

// Result returns the previously computed MemoryInfo for base, if any.
func (c *Classifier) Result(base *ir.Local) (MemoryInfo, bool) {
	info, ok := c.results[base]
	return info, ok
}

func (c *Classifier) canLowerToRegisterReadOnly(base *ir.Local, access *MemoryAccess) MemoryInfo {
	if base.ConstantInitializer != nil {
		v := *base.ConstantInitializer
		if v.IsLiteral() {
			return MemoryInfo{Base: base, Realization: QPURegisterReadOnly, PrecomputedValue: &v}
		}
		if lit, ok := v.AllLanesEqual(); ok {
			scalar := ir.NewLiteral(ir.Scalar(v.Type.ScalarBitWidth, v.Type.Signed), lit)
			return MemoryInfo{Base: base, Realization: QPURegisterReadOnly, PrecomputedValue: &scalar}
		}
	}
	if lowered, ok := convertSmallArrayToRegister(base); ok {
		return MemoryInfo{Base: base, Realization: QPURegisterReadOnly, LoweredType: &lowered}
	}
	return c.fallback(base, access, RecoveredNone)
}

func (c *Classifier) canLowerToRegisterReadWrite(base *ir.Local, access *MemoryAccess) MemoryInfo {
	if lowered, ok := convertSmallArrayToRegister(base); ok {
		return MemoryInfo{Base: base, Realization: QPURegisterReadWrite, LoweredType: &lowered}
	}
	if underlyingStorageType(base.Type).IsSimpleType() {
		return MemoryInfo{Base: base, Realization: QPURegisterReadWrite}
	}
	return c.fallback(base, access, RecoveredNone)
}

func (c *Classifier) canLowerToPrivateVPMArea(base *ir.Local, access *MemoryAccess) MemoryInfo {
	t := underlyingStorageType(base.Type)
	area := c.VPM.AddArea(base, t, false, vpmSizeOf(t), 0)
	if area == nil {
		return c.fallback(base, access, RecoveredNone)
	}
	info := MemoryInfo{Base: base, Realization: VPMPerQPU, Area: area}
	if lowered, ok := convertSmallArrayToRegister(base); ok {
		info.LoweredType = &lowered
	}
	return info
}

func (c *Classifier) canLowerToSharedVPMArea(base *ir.Local, access *MemoryAccess) MemoryInfo {
	t := underlyingStorageType(base.Type)
	area := c.VPM.AddArea(base, t, true, vpmSizeOf(t), 0)
	if area == nil {
		return c.fallback(base, access, RecoveredNone)
	}
	info := MemoryInfo{Base: base, Realization: VPMSharedAccess, Area: area}
	if lowered, ok := convertSmallArrayToRegister(base); ok {
		info.LoweredType = &lowered
	}
	return info
}

func (c *Classifier) canMapToTMUReadOnly(base *ir.Local, _ *MemoryAccess) MemoryInfo {
	tmu := c.nextTMU
	c.nextTMU = (c.nextTMU + 1) % 2
	return MemoryInfo{Base: base, Realization: RAMLoadTMU, TMUIndex: tmu}
}

func (c *Classifier) canMapToDMAReadWrite(base *ir.Local, access *MemoryAccess) MemoryInfo {
	ranges := access.Ranges
	if len(ranges) > 0 && base.Type.IsPointer() && base.Type.Pointer.AddressSpace == ir.AddressSpaceLocal {
		if area, cached, recovered := c.checkCacheMemoryAccessRanges(base, ranges); area != nil {
			return MemoryInfo{Base: base, Realization: VPMSharedAccess, Area: area, CachedRanges: cached}
		} else if recovered != RecoveredNone {
			return MemoryInfo{Base: base, Realization: RAMReadWriteVPM, Recovered: recovered}
		}
	}
	return MemoryInfo{Base: base, Realization: RAMReadWriteVPM}
}

// fallback re-dispatches to access.Fallback, the non-recursive single-level
// fallback spec §4.4 describes for each per-kind rule.
func (c *Classifier) fallback(base *ir.Local, access *MemoryAccess, recovered RecoveredOutcome) MemoryInfo {
	info := checks[access.Fallback](c, base, access)
	if recovered != RecoveredNone {
		info.Recovered = recovered
	}
	return info
}

func vpmSizeOf(t ir.DataType) int {
	if t.IsArray() {
		elemWidth := t.Array.Elem.BitWidth()
		if elemWidth <= 0 {
			elemWidth = 32
		}
		vectorsPerElem := (elemWidth + 511) / 512
		if vectorsPerElem < 1 {
			vectorsPerElem = 1
		}
		return t.Array.Size * vectorsPerElem
	}
	width := t.BitWidth()
	if width <= 0 {
		width = 32
	}
	return (width + 511) / 512
}
