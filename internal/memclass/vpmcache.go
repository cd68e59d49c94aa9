package memclass

import (
	"strconv"

	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/doe300/vc4c-go/internal/rangeanalysis"
)

// checkCacheMemoryAccessRanges implements spec §4.4's cache-in-VPM check:
// require identical uniform-part sets across every access (folding literal
// differences into the dynamic range and retrying once), require the
// resulting range to fit within maxCacheVectors, then request a VPM area
// sized to the range. Returns the allocated area and the (possibly
// literal-folded) range list on success, or a RecoveredOutcome describing
// why it fell back.
func (c *Classifier) checkCacheMemoryAccessRanges(base *ir.Local, ranges []*rangeanalysis.MemoryAccessRange) (*ir.VPMArea, []*rangeanalysis.MemoryAccessRange, RecoveredOutcome) {
	ok, lo, hi, folded := foldUniformParts(ranges)
	if !ok {
		return nil, nil, RecoveredUniformMismatch
	}

	maxVectors := ir.MaxCacheVectorsPerType(ir.Scalar(32, true))
	size := hi - lo + 1
	if hi < lo || size > int64(maxVectors) {
		return nil, nil, RecoveredRangeTooWide
	}

	elem := scalarElementType(base.Type)
	arrType := ir.ArrayOf(elem, int(size))
	area := c.VPM.AddArea(base, arrType, false, int(size), 0)
	if area == nil {
		return nil, nil, RecoveredRangeTooWide
	}
	return area, folded, RecoveredNone
}

// scalarElementType returns the scalar/vector type one DMA-accessed vector
// actually holds: an array pointee's element type, or the pointee itself
// when it is already a plain scalar/vector.
func scalarElementType(t ir.DataType) ir.DataType {
	pointee := underlyingStorageType(t)
	if pointee.IsArray() {
		return pointee.Array.Elem
	}
	return pointee
}

// foldUniformParts requires every range's uniform-part set to be identical.
// If not, and every differing uniform part is a literal, those literal
// parts are folded into each range's dynamic offset and the check retries
// once (spec §4.4 step 1). Returns the merged [min,max] offset bound across
// all (possibly folded) ranges.
func foldUniformParts(ranges []*rangeanalysis.MemoryAccessRange) (bool, int64, int64, []*rangeanalysis.MemoryAccessRange) {
	if len(ranges) == 0 {
		return true, 0, -1, ranges
	}

	firstKey := ranges[0].UniformKey()
	allEqual := true
	for _, r := range ranges[1:] {
		if r.UniformKey() != firstKey {
			allEqual = false
			break
		}
	}

	if !allEqual {
		if !allDifferencesAreLiteral(ranges) {
			return false, 0, 0, nil
		}
		folded := foldLiteralUniformParts(ranges)
		return foldUniformParts(folded)
	}

	lo, hi := ranges[0].Min, ranges[0].Max
	for _, r := range ranges[1:] {
		if r.Min < lo {
			lo = r.Min
		}
		if r.Max > hi {
			hi = r.Max
		}
	}
	return true, lo, hi, ranges
}

func allDifferencesAreLiteral(ranges []*rangeanalysis.MemoryAccessRange) bool {
	union := map[string]ir.Value{}
	seenIn := map[string]int{}
	for _, r := range ranges {
		for _, p := range r.Uniform {
			k := describeForFold(p.Value)
			union[k] = p.Value
			seenIn[k]++
		}
	}
	for k, v := range union {
		if seenIn[k] == len(ranges) {
			continue // present in every access: not a differing part
		}
		if !v.IsLiteral() {
			return false
		}
	}
	return true
}

// describeForFold keys a uniform part by its actual value, not just its
// shape: two literals with different values must compare unequal or they'd
// wrongly count as "present in every access" and never fold into the
// dynamic range (mirrors rangeanalysis's describeValue).
func describeForFold(v ir.Value) string {
	if v.IsLiteral() {
		return "lit:" + strconv.FormatInt(v.Literal, 10)
	}
	if l := v.AsLocal(); l != nil {
		return "local:" + l.Name
	}
	return "other"
}

// foldLiteralUniformParts moves every literal uniform part that does not
// appear in all accesses into that access's dynamic offset range, then
// drops it from the uniform set.
func foldLiteralUniformParts(ranges []*rangeanalysis.MemoryAccessRange) []*rangeanalysis.MemoryAccessRange {
	counts := map[string]int{}
	for _, r := range ranges {
		for _, p := range r.Uniform {
			counts[describeForFold(p.Value)]++
		}
	}

	out := make([]*rangeanalysis.MemoryAccessRange, len(ranges))
	for i, r := range ranges {
		nr := *r
		var kept []rangeanalysis.AddressPart
		for _, p := range r.Uniform {
			k := describeForFold(p.Value)
			if counts[k] == len(ranges) {
				kept = append(kept, p)
				continue
			}
			nr.Dynamic = append(append([]rangeanalysis.AddressPart{}, nr.Dynamic...), p)
			nr.Min += p.Value.Literal
			nr.Max += p.Value.Literal
		}
		nr.Uniform = kept
		out[i] = &nr
	}
	return out
}
