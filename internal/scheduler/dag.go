// Package scheduler reorders a basic block's instructions to maximize
// dual-issue ADD-ALU/MUL-ALU bundling, building a dependency DAG in reverse
// program order and greedily pairing/emitting roots (spec §4.5).
package scheduler

import (
	"github.com/doe300/vc4c-go/internal/ir"
)

// dagNode is one instruction's position in the dependency DAG: Deps are the
// not-yet-scheduled prerequisites this instruction's inputs still need.
type dagNode struct {
	instr    *ir.Instruction
	order    int // original program position, for tie-breaking
	deps     map[*dagNode]bool
	numPreds int // count of nodes given a dependency on this one by buildDAG
}

// instructionDAG is the per-block dependency graph. It is mutated as
// instructions are emitted: emitting a node removes it and drops it from
// every remaining node's deps, which may create new roots.
type instructionDAG struct {
	nodes []*dagNode
}

// buildDAG constructs the dependency DAG for a single block's instruction
// list, per spec §4.5: iterate in reverse, remembering for each local the
// instructions that read it; when the instruction defining that local is
// reached, each remembered reader gets a dependency edge to it. Every
// instruction thus depends on the most-recent earlier definer of each of
// its inputs. Nops and labels are dropped before the DAG is built.
func buildDAG(instrs []*ir.Instruction) *instructionDAG {
	dag := &instructionDAG{}
	readers := map[*ir.Local][]*dagNode{}

	filtered := make([]*ir.Instruction, 0, len(instrs))
	for _, instr := range instrs {
		if instr.Kind == ir.KindNop || instr.Kind == ir.KindLabel {
			continue
		}
		filtered = append(filtered, instr)
	}

	nodeOf := make(map[*ir.Instruction]*dagNode, len(filtered))
	for i := len(filtered) - 1; i >= 0; i-- {
		instr := filtered[i]
		n := &dagNode{instr: instr, order: i, deps: map[*dagNode]bool{}}
		nodeOf[instr] = n
		dag.nodes = append(dag.nodes, n)

		if out := instr.DefinedLocal(); out != nil {
			for _, r := range readers[out] {
				if !r.deps[n] {
					r.deps[n] = true
					n.numPreds++
				}
			}
			delete(readers, out)
		}
		for _, l := range instr.UsedLocals() {
			readers[l] = append(readers[l], n)
		}
	}

	// dag.nodes was appended in reverse-iteration order (last instruction
	// first); restore original program order for deterministic tie-breaks.
	for i, j := 0, len(dag.nodes)-1; i < j; i, j = i+1, j-1 {
		dag.nodes[i], dag.nodes[j] = dag.nodes[j], dag.nodes[i]
	}

	return dag
}

// roots returns every node with no remaining (unscheduled) dependency,
// ordered by original program position.
func (d *instructionDAG) roots() []*dagNode {
	var out []*dagNode
	for _, n := range d.nodes {
		if len(n.deps) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// remove deletes n from the DAG and drops the dependency edge from every
// node that still lists n as a prerequisite.
func (d *instructionDAG) remove(n *dagNode) {
	for _, other := range d.nodes {
		if other == n {
			continue
		}
		if other.deps[n] {
			delete(other.deps, n)
		}
	}
	for i, cur := range d.nodes {
		if cur == n {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			break
		}
	}
}

func (d *instructionDAG) empty() bool { return len(d.nodes) == 0 }
