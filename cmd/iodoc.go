package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/doe300/vc4c-go/internal/ir"
)

// methodDoc is the JSON interchange shape a method arrives in from the
// upstream IR producer (spec §1/§6 names the IR model an external
// collaborator; this is the thin boundary that deserializes it). It covers
// exactly the instruction kinds the backend passes touch.
type methodDoc struct {
	Name     string     `json:"name"`
	IsKernel bool       `json:"isKernel"`
	Locals   []localDoc `json:"locals"`
	Blocks   []blockDoc `json:"blocks"`
}

type localDoc struct {
	Name     string `json:"name"`
	BitWidth int    `json:"bitWidth"`
	Signed   bool   `json:"signed"`
	Origin   string `json:"origin"`
	ReadOnly bool   `json:"readOnly"`
}

type blockDoc struct {
	Label        string           `json:"label"`
	Instructions []instructionDoc `json:"instructions"`
}

type instructionDoc struct {
	Kind         string     `json:"kind"`
	Opcode       string     `json:"opcode,omitempty"`
	Output       string     `json:"output,omitempty"`
	Inputs       []valueDoc `json:"inputs,omitempty"`
	MemOp        string     `json:"memOp,omitempty"`
	MemSource    *valueDoc  `json:"memSource,omitempty"`
	MemDest      *valueDoc  `json:"memDest,omitempty"`
	BranchTarget string     `json:"branchTarget,omitempty"`
	Conditional  string     `json:"conditional,omitempty"`
}

type valueDoc struct {
	Kind     string `json:"kind"`
	Literal  int64  `json:"literal,omitempty"`
	Local    string `json:"local,omitempty"`
	BitWidth int    `json:"bitWidth,omitempty"`
	Signed   bool   `json:"signed,omitempty"`
}

// loadMethodDoc reads and parses a method document from path.
func loadMethodDoc(path string) (*methodDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc methodDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

var originByName = map[string]ir.LocalOrigin{
	"transient": ir.OriginTransient,
	"parameter": ir.OriginParameter,
	"stack":     ir.OriginStackAllocation,
	"global":    ir.OriginGlobal,
}

var condByName = map[string]ir.ConditionCode{
	"always":      ir.CondAlways,
	"zero":        ir.CondZero,
	"nonzero":     ir.CondNonZero,
	"negative":    ir.CondNegative,
	"nonnegative": ir.CondNonNegative,
}

var memOpByName = map[string]ir.MemoryOp{
	"read":  ir.MemoryRead,
	"write": ir.MemoryWrite,
	"copy":  ir.MemoryCopy,
	"fill":  ir.MemoryFill,
}

// buildMethod converts a parsed methodDoc into an *ir.Method, minting one
// fresh Local per declared local name and resolving every block-label and
// value reference against that table.
func buildMethod(doc *methodDoc) (*ir.Method, error) {
	m := ir.NewMethod(doc.Name, doc.IsKernel)

	locals := make(map[string]*ir.Local, len(doc.Locals))
	for _, ld := range doc.Locals {
		origin, ok := originByName[ld.Origin]
		if !ok && ld.Origin != "" {
			return nil, fmt.Errorf("unknown local origin %q for %q", ld.Origin, ld.Name)
		}
		local := m.Locals.AddNewLocal(ir.Scalar(ld.BitWidth, ld.Signed), ld.Name)
		local.Origin = origin
		local.ReadOnly = ld.ReadOnly
		locals[ld.Name] = local
	}

	labels := make(map[string]*ir.Local, len(doc.Blocks))
	for _, bd := range doc.Blocks {
		label := m.Locals.AddNewLocal(ir.DataType{}, bd.Label)
		labels[bd.Label] = label
		locals[bd.Label] = label
	}

	resolveValue := func(v *valueDoc) (ir.Value, error) {
		if v == nil {
			return ir.Value{}, nil
		}
		switch v.Kind {
		case "literal":
			return ir.NewLiteral(ir.Scalar(v.BitWidth, v.Signed), v.Literal), nil
		case "local":
			l, ok := locals[v.Local]
			if !ok {
				return ir.Value{}, fmt.Errorf("unknown local %q", v.Local)
			}
			return ir.NewLocalRef(l), nil
		default:
			return ir.Value{}, fmt.Errorf("unknown value kind %q", v.Kind)
		}
	}

	for _, bd := range doc.Blocks {
		block := ir.NewBasicBlock(labels[bd.Label])
		for _, id := range bd.Instructions {
			instr, err := buildInstruction(id, locals, resolveValue)
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", bd.Label, err)
			}
			block.Append(instr)
		}
		m.AddBlock(block)
	}

	return m, nil
}

func buildInstruction(id instructionDoc, locals map[string]*ir.Local, resolveValue func(*valueDoc) (ir.Value, error)) (*ir.Instruction, error) {
	switch id.Kind {
	case "memory":
		op, ok := memOpByName[id.MemOp]
		if !ok {
			return nil, fmt.Errorf("unknown memory op %q", id.MemOp)
		}
		src, err := resolveValue(id.MemSource)
		if err != nil {
			return nil, err
		}
		dst, err := resolveValue(id.MemDest)
		if err != nil {
			return nil, err
		}
		instr := ir.NewMemoryInstruction(op, src, dst, 1, false)
		applyConditional(instr, id.Conditional)
		return instr, nil
	case "branch":
		target, ok := locals[id.BranchTarget]
		if !ok {
			return nil, fmt.Errorf("unknown branch target %q", id.BranchTarget)
		}
		instr := ir.NewBranch(target)
		applyConditional(instr, id.Conditional)
		return instr, nil
	case "alu", "move":
		inputs := make([]ir.Value, 0, len(id.Inputs))
		for i := range id.Inputs {
			v, err := resolveValue(&id.Inputs[i])
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, v)
		}
		var output ir.Value
		if id.Output != "" {
			l, ok := locals[id.Output]
			if !ok {
				return nil, fmt.Errorf("unknown output local %q", id.Output)
			}
			output = ir.NewLocalRef(l)
		}

		var instr *ir.Instruction
		if id.Kind == "move" {
			if len(inputs) != 1 {
				return nil, fmt.Errorf("move instruction requires exactly one input, got %d", len(inputs))
			}
			instr = ir.NewMove(output, inputs[0])
		} else {
			instr = ir.NewALUOperation(id.Opcode, output, inputs...)
		}
		applyConditional(instr, id.Conditional)
		return instr, nil
	default:
		return nil, fmt.Errorf("unknown instruction kind %q", id.Kind)
	}
}

func applyConditional(instr *ir.Instruction, conditional string) {
	if conditional == "" {
		return
	}
	if cc, ok := condByName[conditional]; ok {
		instr.Header.Conditional = cc
	}
}
