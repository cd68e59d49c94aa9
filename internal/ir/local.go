package ir

import "github.com/google/uuid"

// LocalOrigin classifies where a Local came from, which drives the memory
// classifier's per-kind rules.
type LocalOrigin int

const (
	// OriginTransient is a compiler-introduced SSA local with no storage
	// identity of its own (e.g. the destination of an ALU op).
	OriginTransient LocalOrigin = iota
	OriginParameter
	OriginGlobal
	OriginStackAllocation
)

func (o LocalOrigin) String() string {
	switch o {
	case OriginParameter:
		return "parameter"
	case OriginGlobal:
		return "global"
	case OriginStackAllocation:
		return "stack-allocation"
	default:
		return "transient"
	}
}

// LocalReference marks a Local as derived from a base Local plus a constant
// element index, e.g. the result of indexing into an array-typed parameter.
type LocalReference struct {
	Base         *Local
	ElementIndex int
}

// Local is an immutable identity shared by reference throughout a Method.
// Two Locals are the same local iff they are the same pointer; Locals are
// never copied by value once minted.
type Local struct {
	ID   uuid.UUID
	Name string
	Type DataType

	Origin LocalOrigin

	// AddressSpace is meaningful when Type is a pointer (parameters) or
	// when Origin is OriginGlobal/OriginStackAllocation.
	AddressSpace AddressSpace

	// ReadOnly records whether this local is provably never written. For
	// OriginParameter this corresponds to the `__constant` / READ_ONLY
	// qualifier or to an is-only-read proof (see memclass.isMemoryOnlyRead).
	ReadOnly bool

	// Reference is non-nil when this Local is a derived reference to
	// Base+ElementIndex (e.g. a PHI source redirection target, or an
	// element access used by the constant-index global rule).
	Reference *LocalReference

	// ConstantInitializer holds the compile-time-known value of a global
	// constant, when known. Nil otherwise.
	ConstantInitializer *Value
}

// Describe renders a short human-readable description of the local, used
// in compile diagnostics (spec §6).
func (l *Local) Describe() string {
	if l == nil {
		return "<nil local>"
	}
	name := l.Name
	if name == "" {
		name = l.ID.String()
	}
	return name + ": " + l.Origin.String()
}

// BaseLocal follows Reference chains to the root Local that owns storage.
// Memory bases that are PHI-joined locals are redirected to this root by
// the memory classifier (spec §7, UnmappablePhi).
func (l *Local) BaseLocal() *Local {
	cur := l
	for cur != nil && cur.Reference != nil && cur.Reference.Base != nil {
		cur = cur.Reference.Base
	}
	return cur
}

// LocalPool mints fresh Locals for a single Method. References obtained
// from it remain valid for the method's entire lifetime; the pool never
// recycles identities.
type LocalPool struct {
	locals  []*Local
	counter int
}

// NewLocalPool creates an empty per-method local pool.
func NewLocalPool() *LocalPool {
	return &LocalPool{}
}

// AddNewLocal mints a fresh Local of the given type named nameHint ("tmp"
// when empty). The Local's ID is unique; the name is used as given and may
// repeat within the pool.
func (p *LocalPool) AddNewLocal(t DataType, nameHint string) *Local {
	p.counter++
	if nameHint == "" {
		nameHint = "tmp"
	}
	l := &Local{
		ID:     uuid.New(),
		Name:   nameHint,
		Type:   t,
		Origin: OriginTransient,
	}
	p.locals = append(p.locals, l)
	return l
}

// All returns every local minted by this pool, in minting order.
func (p *LocalPool) All() []*Local {
	return p.locals
}
