// Package cfg builds and incrementally maintains the control-flow graph of
// a method: which basic block can transition to which, and what terminator
// (if any) drives that transition.
package cfg

import (
	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/doe300/vc4c-go/internal/ir"
)

// CFGEdge records a transition between two blocks. A Branch terminator
// means the edge is taken only when that branch fires; Terminator == nil
// means the edge is a fall-through (spec §3, §4.1).
type CFGEdge struct {
	Source      *CFGNode
	Target      *CFGNode
	Terminator  *ir.Instruction // nil => fall-through
	IsBackEdge  bool
}

// CFGNode wraps a single basic block and its incident edges.
type CFGNode struct {
	Block        *ir.BasicBlock
	Successors   []*CFGEdge
	Predecessors []*CFGEdge
}

// ID returns the node's identity, taken from its block's label.
func (n *CFGNode) ID() string { return n.Block.ID() }

// ControlFlowGraph is the per-method graph of basic-block transitions. It
// supports incremental maintenance: inserting/removing a block or branch
// only touches the affected node and its neighbors — a full rebuild is
// never required after a mutation (spec §3 Lifecycle).
type ControlFlowGraph struct {
	Method *ir.Method
	nodes  map[*ir.BasicBlock]*CFGNode
	order  []*ir.BasicBlock // insertion order, for deterministic iteration
}

// Build constructs the CFG for method from scratch: for each block, it
// inspects the trailing branch and fall-through policy (spec §4.1) and adds
// edges for every reachable successor.
func Build(method *ir.Method) *ControlFlowGraph {
	g := &ControlFlowGraph{
		Method: method,
		nodes:  make(map[*ir.BasicBlock]*CFGNode, len(method.Blocks)),
	}
	for _, b := range method.Blocks {
		g.addNodeLocked(b)
	}
	for _, b := range method.Blocks {
		g.wireBlock(b)
	}
	g.classifyBackEdges()
	return g
}

func (g *ControlFlowGraph) addNodeLocked(b *ir.BasicBlock) *CFGNode {
	if n, ok := g.nodes[b]; ok {
		return n
	}
	n := &CFGNode{Block: b}
	g.nodes[b] = n
	g.order = append(g.order, b)
	return n
}

// wireBlock adds edges for one block's terminator and fall-through. A
// block's transitions are keyed by destination: if the taken branch target
// and the textual fall-through target happen to coincide, that is a single
// CFG edge (carrying the branch as its terminator), not two — spec §3's
// invariant is one terminator-or-empty entry per source block reaching a
// given target. Distinct targets each get their own edge (spec §4.1's
// "two outgoing edges" edge case for conditional branches).
func (g *ControlFlowGraph) wireBlock(b *ir.BasicBlock) {
	type transition struct {
		target     *ir.BasicBlock
		terminator *ir.Instruction
	}
	var transitions []transition
	add := func(target *ir.BasicBlock, terminator *ir.Instruction) {
		for i, t := range transitions {
			if t.target == target {
				if terminator != nil && t.terminator == nil {
					transitions[i].terminator = terminator
				}
				return
			}
		}
		transitions = append(transitions, transition{target, terminator})
	}

	term := b.Terminator()
	if term != nil && term.Branch != nil && term.Branch.Target != nil {
		if target := g.Method.FindBlock(term.Branch.Target); target != nil {
			add(target, term)
		}
	}
	if b.FallsThrough() {
		if next := g.textuallyNextBlock(b); next != nil {
			add(next, nil)
		}
	}

	for _, t := range transitions {
		g.addEdge(b, t.target, t.terminator)
	}
}

func (g *ControlFlowGraph) textuallyNextBlock(b *ir.BasicBlock) *ir.BasicBlock {
	for i, cur := range g.Method.Blocks {
		if cur == b {
			if i+1 < len(g.Method.Blocks) {
				return g.Method.Blocks[i+1]
			}
			return nil
		}
	}
	return nil
}

// addEdge ensures exactly one edge exists from source to target, keyed by
// the (source,target) pair; if one already exists, a non-nil terminator
// supersedes a previously recorded fall-through (nil) terminator.
func (g *ControlFlowGraph) addEdge(source, target *ir.BasicBlock, terminator *ir.Instruction) *CFGEdge {
	sn := g.addNodeLocked(source)
	tn := g.addNodeLocked(target)
	for _, e := range sn.Successors {
		if e.Target == tn {
			if terminator != nil && e.Terminator == nil {
				e.Terminator = terminator
			}
			return e
		}
	}
	edge := &CFGEdge{Source: sn, Target: tn, Terminator: terminator}
	sn.Successors = append(sn.Successors, edge)
	tn.Predecessors = append(tn.Predecessors, edge)
	return edge
}

// GetNode returns the node for a block, if the block is part of this CFG.
func (g *ControlFlowGraph) GetNode(b *ir.BasicBlock) *CFGNode { return g.nodes[b] }

// Nodes returns every node in build/insertion order.
func (g *ControlFlowGraph) Nodes() []*CFGNode {
	out := make([]*CFGNode, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, g.nodes[b])
	}
	return out
}

// GetStartOfControlFlow returns the node for the method's first block.
func (g *ControlFlowGraph) GetStartOfControlFlow() *CFGNode {
	if len(g.Method.Blocks) == 0 {
		return nil
	}
	return g.nodes[g.Method.Blocks[0]]
}

// GetEndOfControlFlow returns the unique sink node (no outgoing edges). It
// fails with AmbiguousExit unless exactly one block has no outgoing edge
// (none at all, or more than one) —
// expected for kernel methods, which always have exactly one exit; non-
// kernel methods may have several and querying "the" exit is an error
// (spec §3 Invariants).
func (g *ControlFlowGraph) GetEndOfControlFlow() (*CFGNode, error) {
	var sinks []*CFGNode
	for _, b := range g.order {
		n := g.nodes[b]
		if len(n.Successors) == 0 {
			sinks = append(sinks, n)
		}
	}
	if len(sinks) != 1 {
		ids := make([]string, len(sinks))
		for i, s := range sinks {
			ids[i] = s.ID()
		}
		return nil, compileerr.NewAmbiguousExit(g.Method.Name, ids)
	}
	return sinks[0], nil
}

// UpdateOnBlockInsertion adds a node for a newly inserted block. Edges must
// be added separately via UpdateOnBranchInsertion / a fall-through re-wire;
// this only registers the node itself.
func (g *ControlFlowGraph) UpdateOnBlockInsertion(b *ir.BasicBlock) {
	g.addNodeLocked(b)
}

// UpdateOnBlockRemoval removes a block's node and every edge incident to it.
func (g *ControlFlowGraph) UpdateOnBlockRemoval(b *ir.BasicBlock) {
	n, ok := g.nodes[b]
	if !ok {
		return
	}
	for _, e := range append([]*CFGEdge{}, n.Successors...) {
		g.removeEdge(e)
	}
	for _, e := range append([]*CFGEdge{}, n.Predecessors...) {
		g.removeEdge(e)
	}
	delete(g.nodes, b)
	for i, cur := range g.order {
		if cur == b {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// UpdateOnBranchInsertion adds the edge implied by inserting a branch
// instruction at the trailing position of source, targeting target.
func (g *ControlFlowGraph) UpdateOnBranchInsertion(source, target *ir.BasicBlock, branch *ir.Instruction) *CFGEdge {
	return g.addEdge(source, target, branch)
}

// UpdateOnBranchRemoval removes the edge that was carrying the given
// terminator instruction out of source.
func (g *ControlFlowGraph) UpdateOnBranchRemoval(source *ir.BasicBlock, branch *ir.Instruction) {
	sn, ok := g.nodes[source]
	if !ok {
		return
	}
	for _, e := range append([]*CFGEdge{}, sn.Successors...) {
		if e.Terminator == branch {
			g.removeEdge(e)
		}
	}
}

func (g *ControlFlowGraph) removeEdge(e *CFGEdge) {
	e.Source.Successors = removeEdgeFromSlice(e.Source.Successors, e)
	e.Target.Predecessors = removeEdgeFromSlice(e.Target.Predecessors, e)
}

func removeEdgeFromSlice(edges []*CFGEdge, target *CFGEdge) []*CFGEdge {
	out := edges[:0]
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of the CFG preserving block identity (the
// cloned graph still points at the same *ir.BasicBlock values — only the
// node/edge structures are copied).
func (g *ControlFlowGraph) Clone() *ControlFlowGraph {
	clone := &ControlFlowGraph{
		Method: g.Method,
		nodes:  make(map[*ir.BasicBlock]*CFGNode, len(g.nodes)),
		order:  append([]*ir.BasicBlock{}, g.order...),
	}
	for _, b := range g.order {
		clone.nodes[b] = &CFGNode{Block: b}
	}
	for _, b := range g.order {
		orig := g.nodes[b]
		cn := clone.nodes[b]
		for _, e := range orig.Successors {
			ce := &CFGEdge{
				Source:     cn,
				Target:     clone.nodes[e.Target.Block],
				Terminator: e.Terminator,
				IsBackEdge: e.IsBackEdge,
			}
			cn.Successors = append(cn.Successors, ce)
			clone.nodes[e.Target.Block].Predecessors = append(clone.nodes[e.Target.Block].Predecessors, ce)
		}
	}
	return clone
}

// classifyBackEdges marks every edge (u -> v) where v dominates u in a DFS
// from the entry as a back edge, per spec §4.1's back-edge policy.
func (g *ControlFlowGraph) classifyBackEdges() {
	start := g.GetStartOfControlFlow()
	if start == nil {
		return
	}
	visiting := map[*CFGNode]bool{}
	visited := map[*CFGNode]bool{}
	var dfs func(n *CFGNode)
	dfs = func(n *CFGNode) {
		visiting[n] = true
		for _, e := range n.Successors {
			if visiting[e.Target] {
				e.IsBackEdge = true
				continue
			}
			if !visited[e.Target] {
				dfs(e.Target)
			}
		}
		visiting[n] = false
		visited[n] = true
	}
	dfs(start)
}
