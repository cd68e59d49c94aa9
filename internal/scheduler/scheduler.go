package scheduler

import "github.com/doe300/vc4c-go/internal/ir"

// Mode selects how aggressively the scheduler searches for pairs at each
// emission step. Both modes emit at most one combined instruction per step
// (spec §4.5); they differ only in how that pair is chosen.
type Mode int

const (
	// SchedulingModeSinglePair mirrors the upstream scheduler: the first
	// combinable root pair found by a single linear scan is emitted, with
	// no attempt to find a "better" pairing among the remaining roots.
	SchedulingModeSinglePair Mode = iota
	// SchedulingModeExhaustive scans every root pair and emits the one
	// whose two original program positions sum lowest, preferring to
	// retire the earliest-available work first.
	SchedulingModeExhaustive
)

// Schedule reorders a single basic block's instructions to maximize
// dual-issue bundling (spec §4.5). The block's leading label, if present, is
// preserved at the front of the result; fence instructions (Memory, Branch,
// MutexLock, Semaphore, MemoryBarrier) are left in their relative program
// order and never combined.
func Schedule(instrs []*ir.Instruction, mode Mode) []*ir.Instruction {
	var label *ir.Instruction
	body := instrs
	if len(instrs) > 0 && instrs[0].Kind == ir.KindLabel {
		label = instrs[0]
		body = instrs[1:]
	}

	dag := buildDAG(body)
	out := make([]*ir.Instruction, 0, len(body)+1)
	if label != nil {
		out = append(out, label)
	}

	for !dag.empty() {
		roots := dag.roots()
		if addNode, mulNode := findPair(roots, mode); addNode != nil {
			combined := &ir.Instruction{
				Kind:     ir.KindCombined,
				Combined: &ir.CombinedData{AddOp: addNode.instr, MulOp: mulNode.instr},
			}
			out = append(out, combined)
			dag.remove(addNode)
			dag.remove(mulNode)
			continue
		}

		next := lowestOrderRoot(roots)
		out = append(out, next.instr)
		dag.remove(next)
	}

	return out
}

// findPair locates a combinable pair of root nodes. SchedulingModeSinglePair
// returns the first pair found by a single scan over all (i,j) root pairs,
// matching the upstream scheduler's behavior exactly. SchedulingModeExhaustive
// considers every combinable pair and returns the one with the lowest sum of
// original program positions.
func findPair(roots []*dagNode, mode Mode) (addNode, mulNode *dagNode) {
	var bestA, bestB *dagNode
	bestOrder := -1

	for i, a := range roots {
		for _, b := range roots[i+1:] {
			if !isOperation(a.instr) || !isOperation(b.instr) {
				continue
			}
			if !canBeCombined(a.instr, b.instr) {
				continue
			}

			ra, rb := a, b
			if !assignRoles(a.instr, b.instr) {
				ra, rb = b, a
			}

			if mode == SchedulingModeSinglePair {
				return ra, rb
			}

			sum := a.order + b.order
			if bestA == nil || sum < bestOrder {
				bestA, bestB, bestOrder = ra, rb, sum
			}
		}
	}
	return bestA, bestB
}

// lowestOrderRoot returns the root with the smallest original program
// position, breaking ties deterministically (spec §4.5's "ties broken by
// original program order").
func lowestOrderRoot(roots []*dagNode) *dagNode {
	best := roots[0]
	for _, n := range roots[1:] {
		if n.order < best.order {
			best = n
		}
	}
	return best
}
