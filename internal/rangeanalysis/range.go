// Package rangeanalysis decomposes memory-address expressions into their
// work-group-uniform and per-work-item dynamic parts and computes the
// closed signed-integer offset range touched by each access (spec §4.3).
package rangeanalysis

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/doe300/vc4c-go/internal/ir"
)

// AddressPart is one summand of a decomposed address expression.
type AddressPart struct {
	Value       ir.Value
	Decorations ir.Decoration
}

// MemoryAccessRange is the decomposition of one instruction's address
// expression: base + Σuniform + Σdynamic + const, plus the closed signed
// offset range the dynamic/const parts can take.
type MemoryAccessRange struct {
	Base        *ir.Local
	Instruction *ir.Instruction
	Uniform     []AddressPart
	Dynamic     []AddressPart
	Min, Max    int64
}

// UniformKey returns a comparable key summarizing this range's uniform-part
// set, for the cache-in-VPM check's "every access's uniform-part set is
// identical" requirement (spec §4.4).
func (r *MemoryAccessRange) UniformKey() string {
	key := ""
	for _, p := range r.Uniform {
		key += describeValue(p.Value) + ";"
	}
	return key
}

func describeValue(v ir.Value) string {
	switch v.Kind {
	case ir.ValueLiteral:
		return "lit:" + itoa(v.Literal)
	case ir.ValueLocalRef:
		if v.Local != nil {
			return "local:" + v.Local.Name
		}
		return "local:<nil>"
	case ir.ValueRegister:
		return "reg:" + v.Register
	case ir.ValueSmallImmediate:
		return "imm:" + itoa(int64(v.SmallImmediate))
	default:
		return "vec"
	}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// KnownValueRange describes a statically known closed range for a dynamic
// value, such as get_local_id(0) ∈ [0, local_size-1] (spec §4.3).
type KnownValueRange struct {
	Min, Max int64
}

// Analyzer decomposes address expressions for a single method. It trusts
// upstream SSA decorations to determine work-group-uniformity and consults
// a caller-supplied table of statically known dynamic-value ranges.
type Analyzer struct {
	knownRanges map[*ir.Local]KnownValueRange
	cache       *lru.Cache[*ir.Instruction, *MemoryAccessRange]
}

// NewAnalyzer builds an analyzer. cacheSize bounds the decomposition memo
// (spec §9's cache of range decompositions); 0 disables caching.
func NewAnalyzer(cacheSize int) *Analyzer {
	a := &Analyzer{knownRanges: map[*ir.Local]KnownValueRange{}}
	if cacheSize > 0 {
		c, err := lru.New[*ir.Instruction, *MemoryAccessRange](cacheSize)
		if err == nil {
			a.cache = c
		}
	}
	return a
}

// SetKnownRange registers a statically known range for a dynamic local,
// e.g. the result of get_local_id(0).
func (a *Analyzer) SetKnownRange(l *ir.Local, r KnownValueRange) {
	a.knownRanges[l] = r
}

// Decompose computes the MemoryAccessRange for a single address expression,
// rooted at addr and relative to base. addr is the flattened operand list
// of a sum-of-products address computation: each element is either a
// literal constant, a work-group-uniform value, or a dynamic per-work-item
// value.
func (a *Analyzer) Decompose(base *ir.Local, instr *ir.Instruction, addr []ir.Value, decorations []ir.Decoration) *MemoryAccessRange {
	if a.cache != nil {
		if cached, ok := a.cache.Get(instr); ok {
			return cached
		}
	}

	r := &MemoryAccessRange{Base: base, Instruction: instr}
	var constSum int64
	var dynMin, dynMax int64

	for i, v := range addr {
		var dec ir.Decoration
		if i < len(decorations) {
			dec = decorations[i]
		}
		if v.IsLiteral() {
			constSum += v.Literal
			continue
		}
		if a.isWorkGroupUniform(v, dec) {
			r.Uniform = append(r.Uniform, AddressPart{Value: v, Decorations: dec})
			continue
		}
		r.Dynamic = append(r.Dynamic, AddressPart{Value: v, Decorations: dec})
		lo, hi := a.rangeOf(v)
		dynMin += lo
		dynMax += hi
	}

	r.Min = addClampInt64(constSum, dynMin)
	r.Max = addClampInt64(constSum, dynMax)

	if a.cache != nil {
		a.cache.Add(instr, r)
	}
	return r
}

// isWorkGroupUniform decides uniformity per spec §4.3: trust upstream SSA
// decorations, and also treat a read-only GLOBAL local as uniform; anything
// else is dynamic. Pure literals are handled by the caller before this is
// consulted.
func (a *Analyzer) isWorkGroupUniform(v ir.Value, dec ir.Decoration) bool {
	if dec.Has(ir.DecorationWorkGroupUniform) {
		return true
	}
	if l := v.AsLocal(); l != nil {
		return l.Origin == ir.OriginGlobal && l.ReadOnly
	}
	return false
}

func (a *Analyzer) rangeOf(v ir.Value) (int64, int64) {
	if l := v.AsLocal(); l != nil {
		if kr, ok := a.knownRanges[l]; ok {
			return kr.Min, kr.Max
		}
	}
	// No statically known range: treat as unbounded within the scheduler's
	// signed 32-bit address domain, the widest the classifier reasons about.
	return math.MinInt32, math.MaxInt32
}

func addClampInt64(a, b int64) int64 {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return sum
}
