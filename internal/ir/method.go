package ir

// Method is a single kernel or helper function: an ordered list of basic
// blocks, its parameter list, a per-method local pool, and its VPM manager.
// Everything reachable from a Method is owned exclusively by it (spec §5) —
// no state is shared between methods being compiled concurrently.
type Method struct {
	Name       string
	IsKernel   bool
	Blocks     []*BasicBlock
	Parameters []*Local
	Locals     *LocalPool
	VPM        *VPMManager
}

// NewMethod creates an empty method with a fresh local pool and VPM manager.
func NewMethod(name string, isKernel bool) *Method {
	return &Method{
		Name:     name,
		IsKernel: isKernel,
		Locals:   NewLocalPool(),
		VPM:      NewVPMManager(),
	}
}

// AddBlock appends a block to the method's block list.
func (m *Method) AddBlock(b *BasicBlock) {
	m.Blocks = append(m.Blocks, b)
}

// FindBlock returns the block with the given label local, if present.
func (m *Method) FindBlock(label *Local) *BasicBlock {
	for _, b := range m.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// AllInstructions returns every instruction across every block, in block
// and then intra-block order.
func (m *Method) AllInstructions() []*Instruction {
	var out []*Instruction
	for _, b := range m.Blocks {
		out = append(out, b.Instructions...)
	}
	return out
}
