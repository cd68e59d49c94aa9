// Package pipeline drives a single Method through the full backend: CFG
// construction, loop discovery, memory-access rewriting (split/copy),
// per-base memory classification, and per-block instruction scheduling. The
// scheduled blocks are returned as instruction lists; they are not encoded
// into ALU words here. It is the one place that calls every other internal
// package in sequence, in the same ordered-function-call style as a
// call-graph build (cfg -> registry -> callgraph, run once per translation
// unit).
package pipeline

import (
	"github.com/doe300/vc4c-go/internal/cfg"
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/doe300/vc4c-go/internal/loop"
	"github.com/doe300/vc4c-go/internal/memclass"
	"github.com/doe300/vc4c-go/internal/rangeanalysis"
	"github.com/doe300/vc4c-go/internal/scheduler"
)

// Options controls a single Compile call.
type Options struct {
	SchedulingMode  scheduler.Mode
	RangeCacheSize  int
	IncludeSelfLoop bool
}

// DefaultOptions returns the conservative defaults: single-pair scheduling
// and a 64-entry range cache.
func DefaultOptions() Options {
	return Options{
		SchedulingMode:  scheduler.SchedulingModeSinglePair,
		RangeCacheSize:  64,
		IncludeSelfLoop: false,
	}
}

// Result holds everything produced for one Method.
type Result struct {
	Method     *ir.Method
	CFG        *cfg.ControlFlowGraph
	Loops      []loop.ControlFlowLoop
	Rewrites   memclass.RewriteResult
	MemoryInfo map[*ir.Local]memclass.MemoryInfo
	Scheduled  map[*ir.BasicBlock][]*ir.Instruction
}

// Compile runs the backend over a single method. It returns the partial
// Result gathered so far alongside the first fatal *compileerr.CompileError
// encountered; a method with no fatal errors returns a nil error.
func Compile(method *ir.Method, opts Options) (*Result, *compileerr.CompileError) {
	graph := cfg.Build(method)
	finder := loop.NewLoopFinder(graph)
	loops := finder.FindLoops(true, opts.IncludeSelfLoop)

	if _, err := graph.GetEndOfControlFlow(); err != nil {
		if ce, ok := err.(*compileerr.CompileError); ok {
			return &Result{Method: method, CFG: graph, Loops: loops}, ce
		}
	}

	rewrites := memclass.ApplyRewrites(method)

	analyzer := rangeanalysis.NewAnalyzer(opts.RangeCacheSize)
	classifier := memclass.NewClassifier(method.VPM, analyzer)

	result := &Result{
		Method:     method,
		CFG:        graph,
		Loops:      loops,
		Rewrites:   rewrites,
		MemoryInfo: make(map[*ir.Local]memclass.MemoryInfo),
		Scheduled:  make(map[*ir.BasicBlock][]*ir.Instruction),
	}

	accesses := groupMemoryAccesses(method, analyzer)
	for base, access := range accesses {
		info, err := classifier.Classify(base, access.Instructions, access.Ranges)
		if err != nil {
			if ce, ok := err.(*compileerr.CompileError); ok {
				return result, ce
			}
		}
		result.MemoryInfo[base] = info
	}

	for _, block := range method.Blocks {
		result.Scheduled[block] = scheduler.Schedule(block.Instructions, opts.SchedulingMode)
	}

	return result, nil
}

// groupMemoryAccesses walks every instruction in the method and buckets the
// memory ones by the base Local their address ultimately refers to, one
// memclass.MemoryAccess per base, with a parallel range decomposition for
// each touching instruction (spec §4.3 feeding §4.4).
func groupMemoryAccesses(method *ir.Method, analyzer *rangeanalysis.Analyzer) map[*ir.Local]*memclass.MemoryAccess {
	accesses := make(map[*ir.Local]*memclass.MemoryAccess)
	for _, block := range method.Blocks {
		for _, instr := range block.Instructions {
			if instr.Kind != ir.KindMemory || instr.Memory == nil {
				continue
			}
			base := memoryBase(instr)
			if base == nil {
				continue
			}
			access, ok := accesses[base]
			if !ok {
				access = &memclass.MemoryAccess{}
				accesses[base] = access
			}
			access.Instructions = append(access.Instructions, instr)
			addr := memoryAddress(instr)
			r := analyzer.Decompose(base, instr, addr, nil)
			access.Ranges = append(access.Ranges, r)
		}
	}
	return accesses
}

func memoryBase(instr *ir.Instruction) *ir.Local {
	if l := instr.Memory.Source.AsLocal(); l != nil {
		return l.BaseLocal()
	}
	if l := instr.Memory.Destination.AsLocal(); l != nil {
		return l.BaseLocal()
	}
	return nil
}

func memoryAddress(instr *ir.Instruction) []ir.Value {
	var addr []ir.Value
	if instr.Memory.Source.AsLocal() != nil {
		addr = append(addr, instr.Memory.Source)
	}
	if instr.Memory.Destination.AsLocal() != nil {
		addr = append(addr, instr.Memory.Destination)
	}
	return addr
}
