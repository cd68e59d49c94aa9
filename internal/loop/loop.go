// Package loop discovers natural loops in a control-flow graph using a
// Tarjan-style strongly-connected-components pass keyed by DFS discovery
// time and lowest-reachable ancestor (spec §4.2).
package loop

import (
	"github.com/doe300/vc4c-go/internal/cfg"
)

// ControlFlowLoop is a strongly connected subgraph with at least one node,
// reachable from the method's entry. Nodes are listed in the order they
// were popped off the SCC stack; Root is the earliest-discovered member and
// also the loop's header/latch node for back-edge purposes.
type ControlFlowLoop struct {
	Nodes []*cfg.CFGNode
	Root  *cfg.CFGNode
}

// Contains reports whether n is part of this loop's body.
func (l *ControlFlowLoop) Contains(n *cfg.CFGNode) bool {
	for _, m := range l.Nodes {
		if m == n {
			return true
		}
	}
	return false
}

// LoopFinder enumerates natural loops in a ControlFlowGraph via Tarjan SCC.
type LoopFinder struct {
	graph *cfg.ControlFlowGraph
}

// NewLoopFinder builds a finder over the given graph.
func NewLoopFinder(g *cfg.ControlFlowGraph) *LoopFinder {
	return &LoopFinder{graph: g}
}

type tarjanState struct {
	discoveryTimes  map[*cfg.CFGNode]int
	lowestReachable map[*cfg.CFGNode]int
	onStack         map[*cfg.CFGNode]bool
	stack           []*cfg.CFGNode
	time            int
	loops           []ControlFlowLoop
}

// FindLoops enumerates every natural loop reachable from the graph's entry
// block. When recursive is false, a one-block self-loop is only included if
// includeTrivialSelfLoops is true — the non-recursive finder's historical
// default is to skip it (spec §9 open question b). When recursive is true,
// after an outer SCC is identified the finder recurses into the subgraph
// induced by removing that SCC's back edge, surfacing nested loops; in that
// mode one-block SCCs are always included regardless of
// includeTrivialSelfLoops, matching the recursive finder's contract.
func (f *LoopFinder) FindLoops(recursive bool, includeTrivialSelfLoops bool) []ControlFlowLoop {
	start := f.graph.GetStartOfControlFlow()
	if start == nil {
		return nil
	}
	st := &tarjanState{
		discoveryTimes:  map[*cfg.CFGNode]int{},
		lowestReachable: map[*cfg.CFGNode]int{},
		onStack:         map[*cfg.CFGNode]bool{},
	}
	f.findLoopsHelper(start, st, recursive, includeTrivialSelfLoops)
	return st.loops
}

// findLoopsHelper is the recursive Tarjan walk. It mutates st.loops with
// every non-trivial SCC found rooted at or below node, observing the
// recursive/includeTrivialSelfLoops policy described on FindLoops.
func (f *LoopFinder) findLoopsHelper(node *cfg.CFGNode, st *tarjanState, recursive bool, includeTrivialSelfLoops bool) {
	st.discoveryTimes[node] = st.time
	st.lowestReachable[node] = st.time
	st.time++
	st.stack = append(st.stack, node)
	st.onStack[node] = true

	for _, e := range node.Successors {
		succ := e.Target
		if _, seen := st.discoveryTimes[succ]; !seen {
			f.findLoopsHelper(succ, st, recursive, includeTrivialSelfLoops)
			if st.lowestReachable[succ] < st.lowestReachable[node] {
				st.lowestReachable[node] = st.lowestReachable[succ]
			}
		} else if st.onStack[succ] {
			if st.discoveryTimes[succ] < st.lowestReachable[node] {
				st.lowestReachable[node] = st.discoveryTimes[succ]
			}
		}
	}

	if st.lowestReachable[node] != st.discoveryTimes[node] {
		return
	}

	// node is the root of an SCC: pop members off the stack down to it.
	var members []*cfg.CFGNode
	for {
		top := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]
		st.onStack[top] = false
		members = append(members, top)
		if top == node {
			break
		}
	}

	isTrivialSelfLoop := len(members) == 1 && !hasSelfEdge(node)
	if isTrivialSelfLoop {
		// A singleton SCC with no self-edge is not a loop at all.
		return
	}
	if len(members) == 1 && !recursive && !includeTrivialSelfLoops {
		return
	}

	l := ControlFlowLoop{Nodes: members, Root: node}
	st.loops = append(st.loops, l)

	if recursive {
		f.recurseIntoNestedLoops(l, st, includeTrivialSelfLoops)
	}
}

// recurseIntoNestedLoops removes the outer loop's back edge (the edge from
// its root's in-loop predecessor into the root) and re-runs Tarjan over the
// subgraph induced by the loop's own members, surfacing any nested loop
// that was only hidden by that one back edge.
func (f *LoopFinder) recurseIntoNestedLoops(outer ControlFlowLoop, parent *tarjanState, includeTrivialSelfLoops bool) {
	memberSet := map[*cfg.CFGNode]bool{}
	for _, n := range outer.Nodes {
		memberSet[n] = true
	}

	var backEdgeSource *cfg.CFGNode
	for _, e := range outer.Root.Predecessors {
		if memberSet[e.Source] {
			backEdgeSource = e.Source
			break
		}
	}

	sub := &tarjanState{
		discoveryTimes:  map[*cfg.CFGNode]int{},
		lowestReachable: map[*cfg.CFGNode]int{},
		onStack:         map[*cfg.CFGNode]bool{},
	}
	visit := func(node *cfg.CFGNode) {
		f.findLoopsHelperWithinSubgraph(node, sub, memberSet, backEdgeSource, outer.Root, includeTrivialSelfLoops)
	}
	// Visit in the outer loop's own discovery order for a deterministic
	// nested-loop ordering.
	order := append([]*cfg.CFGNode{}, outer.Nodes...)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	for _, n := range order {
		if _, seen := sub.discoveryTimes[n]; !seen {
			visit(n)
		}
	}
	parent.loops = append(parent.loops, sub.loops...)
}

func (f *LoopFinder) findLoopsHelperWithinSubgraph(node *cfg.CFGNode, st *tarjanState, member map[*cfg.CFGNode]bool, removedEdgeSource, removedEdgeTarget *cfg.CFGNode, includeTrivialSelfLoops bool) {
	st.discoveryTimes[node] = st.time
	st.lowestReachable[node] = st.time
	st.time++
	st.stack = append(st.stack, node)
	st.onStack[node] = true

	for _, e := range node.Successors {
		succ := e.Target
		if !member[succ] {
			continue
		}
		if node == removedEdgeSource && succ == removedEdgeTarget {
			continue
		}
		if _, seen := st.discoveryTimes[succ]; !seen {
			f.findLoopsHelperWithinSubgraph(succ, st, member, removedEdgeSource, removedEdgeTarget, includeTrivialSelfLoops)
			if st.lowestReachable[succ] < st.lowestReachable[node] {
				st.lowestReachable[node] = st.lowestReachable[succ]
			}
		} else if st.onStack[succ] {
			if st.discoveryTimes[succ] < st.lowestReachable[node] {
				st.lowestReachable[node] = st.discoveryTimes[succ]
			}
		}
	}

	if st.lowestReachable[node] != st.discoveryTimes[node] {
		return
	}

	var members []*cfg.CFGNode
	for {
		top := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]
		st.onStack[top] = false
		members = append(members, top)
		if top == node {
			break
		}
	}

	if len(members) == 1 && (!hasSelfEdge(node) || (node == removedEdgeSource && node == removedEdgeTarget)) {
		return
	}
	// A singleton whose only self edge is the removed back edge is the
	// outer loop itself, already reported. Nested recursion always includes trivial self-loops (spec §4.2's
	// "one-block SCCs are then included"), so includeTrivialSelfLoops is
	// not consulted here.

	st.loops = append(st.loops, ControlFlowLoop{Nodes: members, Root: node})
}

func hasSelfEdge(n *cfg.CFGNode) bool {
	for _, e := range n.Successors {
		if e.Target == n {
			return true
		}
	}
	return false
}
