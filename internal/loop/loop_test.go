package loop

import (
	"testing"

	"github.com/doe300/vc4c-go/internal/cfg"
	"github.com/doe300/vc4c-go/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleLoop builds: entry -> head -> body -> head (back edge), head -> exit.
func buildSimpleLoop(t *testing.T) (*ir.Method, *cfg.ControlFlowGraph, *ir.BasicBlock, *ir.BasicBlock) {
	t.Helper()
	m := ir.NewMethod("simple_loop", true)

	entryLabel := m.Locals.AddNewLocal(ir.DataType{}, "entry")
	headLabel := m.Locals.AddNewLocal(ir.DataType{}, "head")
	bodyLabel := m.Locals.AddNewLocal(ir.DataType{}, "body")
	exitLabel := m.Locals.AddNewLocal(ir.DataType{}, "exit")

	entry := ir.NewBasicBlock(entryLabel)
	head := ir.NewBasicBlock(headLabel)
	body := ir.NewBasicBlock(bodyLabel)
	exit := ir.NewBasicBlock(exitLabel)

	// entry falls through to head.
	headBranch := ir.NewBranch(exitLabel)
	headBranch.Header.Conditional = ir.CondZero
	head.Append(headBranch) // head -> exit (terminator), head -> body (fall-through)

	bodyBranch := ir.NewBranch(headLabel)
	body.Append(bodyBranch) // body -> head (unconditional, back edge)

	m.AddBlock(entry)
	m.AddBlock(head)
	m.AddBlock(body)
	m.AddBlock(exit)

	g := cfg.Build(m)
	return m, g, head, body
}

func TestFindLoops_SimpleLoop(t *testing.T) {
	_, g, head, body := buildSimpleLoop(t)
	f := NewLoopFinder(g)

	loops := f.FindLoops(false, false)
	require.Len(t, loops, 1)
	l := loops[0]
	assert.True(t, l.Contains(g.GetNode(head)))
	assert.True(t, l.Contains(g.GetNode(body)))
	assert.Len(t, l.Nodes, 2)
}

func TestFindLoops_SelfLoopSkippedByDefault(t *testing.T) {
	m := ir.NewMethod("self_loop", true)
	headLabel := m.Locals.AddNewLocal(ir.DataType{}, "head")
	head := ir.NewBasicBlock(headLabel)
	branch := ir.NewBranch(headLabel)
	branch.Header.Conditional = ir.CondNonZero
	head.Append(branch)
	m.AddBlock(head)

	g := cfg.Build(m)
	f := NewLoopFinder(g)

	nonRecursive := f.FindLoops(false, false)
	assert.Empty(t, nonRecursive, "non-recursive finder skips one-block loops unless opted in")

	withFlag := f.FindLoops(false, true)
	require.Len(t, withFlag, 1)
	assert.Len(t, withFlag[0].Nodes, 1)

	recursive := f.FindLoops(true, false)
	require.Len(t, recursive, 1, "recursive finder always includes one-block loops")
}

func TestFindLoops_AcyclicHasNoLoops(t *testing.T) {
	m := ir.NewMethod("acyclic", true)
	l1 := m.Locals.AddNewLocal(ir.DataType{}, "b1")
	l2 := m.Locals.AddNewLocal(ir.DataType{}, "b2")
	b1 := ir.NewBasicBlock(l1)
	b2 := ir.NewBasicBlock(l2)
	m.AddBlock(b1)
	m.AddBlock(b2)

	g := cfg.Build(m)
	f := NewLoopFinder(g)
	assert.Empty(t, f.FindLoops(true, true))
}

// buildNestedLoop builds an outer loop head -> mid -> tail -> head, with an
// inner self-loop on mid (mid -> mid, via mid's conditional terminator) that
// is only exposed once the outer loop's back edge (tail -> head) is removed.
func buildNestedLoop(t *testing.T) *cfg.ControlFlowGraph {
	t.Helper()
	m := ir.NewMethod("nested_loop", true)

	entryLabel := m.Locals.AddNewLocal(ir.DataType{}, "entry")
	headLabel := m.Locals.AddNewLocal(ir.DataType{}, "head")
	midLabel := m.Locals.AddNewLocal(ir.DataType{}, "mid")
	tailLabel := m.Locals.AddNewLocal(ir.DataType{}, "tail")
	exitLabel := m.Locals.AddNewLocal(ir.DataType{}, "exit")

	entry := ir.NewBasicBlock(entryLabel)
	head := ir.NewBasicBlock(headLabel)
	mid := ir.NewBasicBlock(midLabel)
	tail := ir.NewBasicBlock(tailLabel)
	exit := ir.NewBasicBlock(exitLabel)

	headBranch := ir.NewBranch(exitLabel)
	headBranch.Header.Conditional = ir.CondZero
	head.Append(headBranch) // head -> exit (terminator), head -> mid (fall-through)

	midSelfBranch := ir.NewBranch(midLabel)
	midSelfBranch.Header.Conditional = ir.CondNonZero
	mid.Append(midSelfBranch) // mid -> mid (terminator), mid -> tail (fall-through)

	tailBranch := ir.NewBranch(headLabel)
	tail.Append(tailBranch) // tail -> head (unconditional, outer back edge)

	m.AddBlock(entry)
	m.AddBlock(head)
	m.AddBlock(mid)
	m.AddBlock(tail)
	m.AddBlock(exit)

	return cfg.Build(m)
}

func TestFindLoops_Recursive_FindsNestedLoop(t *testing.T) {
	g := buildNestedLoop(t)
	f := NewLoopFinder(g)

	loops := f.FindLoops(true, false)
	assert.GreaterOrEqual(t, len(loops), 1)
	require.Len(t, loops, 2, "outer head/mid/tail loop plus the nested mid self-loop")
	assert.Len(t, loops[1].Nodes, 1)
}
