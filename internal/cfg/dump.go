package cfg

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// DumpOptions controls what dumpGraph renders beyond the bare block graph:
// optional per-node memory realization annotations for a human debugging
// the memory planner. Back edges are always drawn in their own style.
// IncludeConstantLoads is not read by the renderer; the output is the same
// whichever value it holds.
type DumpOptions struct {
	IncludeConstantLoads bool
	// Realizations optionally labels each node with its chosen memory
	// realization tag, keyed by block ID, for a human debugging the
	// memory planner via the CFG dump. Nil disables the annotation.
	Realizations map[string]string
}

// DumpGraph writes a GraphViz "dot" rendering of the CFG to path. Back
// edges are drawn with a distinct style so loop latches are visually
// obvious.
func (g *ControlFlowGraph) DumpGraph(path string, opts DumpOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.writeDot(f, opts)
}

// WriteDot renders the same output as DumpGraph to an arbitrary writer,
// used when no file path is given (the ambient logger's writer, typically).
func (g *ControlFlowGraph) WriteDot(w io.Writer, opts DumpOptions) error {
	return g.writeDot(w, opts)
}

func (g *ControlFlowGraph) writeDot(w io.Writer, opts DumpOptions) error {
	fmt.Fprintf(w, "digraph %q {\n", g.Method.Name)

	ids := make([]string, 0, len(g.order))
	for _, b := range g.order {
		ids = append(ids, b.ID())
	}
	sort.Strings(ids)

	reachable := g.reachableFromEntry()

	for _, b := range g.order {
		n := g.nodes[b]
		label := n.ID()
		if opts.Realizations != nil {
			if tag, ok := opts.Realizations[n.ID()]; ok {
				label = fmt.Sprintf("%s\\n%s", n.ID(), tag)
			}
		}
		attrs := fmt.Sprintf(`label=%q`, label)
		if !reachable[n] {
			attrs += `, style=dashed, comment="unreachable"`
		}
		fmt.Fprintf(w, "  %q [%s];\n", n.ID(), attrs)
	}

	for _, b := range g.order {
		n := g.nodes[b]
		for _, e := range n.Successors {
			style := "solid"
			if e.IsBackEdge {
				style = "bold,color=red"
			}
			fallthroughNote := ""
			if e.Terminator == nil {
				fallthroughNote = " (fall-through)"
			}
			fmt.Fprintf(w, "  %q -> %q [style=%q, label=%q];\n", n.ID(), e.Target.ID(), style, fallthroughNote)
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}

func (g *ControlFlowGraph) reachableFromEntry() map[*CFGNode]bool {
	reachable := map[*CFGNode]bool{}
	start := g.GetStartOfControlFlow()
	if start == nil {
		return reachable
	}
	var stack []*CFGNode
	stack = append(stack, start)
	reachable[start] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range n.Successors {
			if !reachable[e.Target] {
				reachable[e.Target] = true
				stack = append(stack, e.Target)
			}
		}
	}
	return reachable
}
