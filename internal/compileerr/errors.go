// Package compileerr defines the closed set of compile-error kinds the
// memory planner and CFG can raise (spec §7). Fatal kinds abort the current
// method; recoverable kinds are never returned as an error — the pass that
// can recover from them does so internally and only ever returns a decision.
package compileerr

import (
	"errors"
	"fmt"
)

// Stage is always NORMALIZER for diagnostics raised by this module (spec §6).
const Stage = "NORMALIZER"

// Sentinel errors for use with errors.Is. Each concrete error below wraps
// exactly one of these.
var (
	ErrInvalidAddressSpace = errors.New("invalid address space")
	ErrAmbiguousExit       = errors.New("ambiguous control-flow exit")
	ErrUnmappablePhi       = errors.New("unmappable phi-joined memory base")
)

// localDescriber is satisfied by *ir.Local without importing the ir package
// here, avoiding an import cycle between compileerr and ir/cfg/memclass.
type localDescriber interface {
	Describe() string
}

// CompileError is the common shape of every fatal diagnostic: a stage tag,
// a message, and the offending local's description (spec §6).
type CompileError struct {
	stageErr error
	Message  string
	Local    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", Stage, e.Message, e.Local)
}

func (e *CompileError) Unwrap() error { return e.stageErr }

// NewInvalidAddressSpace reports a pointer parameter whose address space is
// not GLOBAL/LOCAL/CONSTANT.
func NewInvalidAddressSpace(local localDescriber, space fmt.Stringer) *CompileError {
	return &CompileError{
		stageErr: ErrInvalidAddressSpace,
		Message:  fmt.Sprintf("invalid address space %q for pointer parameter", space.String()),
		Local:    describe(local),
	}
}

// NewAmbiguousExit reports that getEndOfControlFlow was called on a method
// with more than one terminal block.
func NewAmbiguousExit(methodName string, exitBlockIDs []string) *CompileError {
	return &CompileError{
		stageErr: ErrAmbiguousExit,
		Message:  fmt.Sprintf("method %q has %d terminal blocks, expected exactly one: %v", methodName, len(exitBlockIDs), exitBlockIDs),
		Local:    methodName,
	}
}

// NewUnmappablePhi reports a memory base that is a PHI whose source bases
// disagree on realization.
func NewUnmappablePhi(local localDescriber) *CompileError {
	return &CompileError{
		stageErr: ErrUnmappablePhi,
		Message:  "phi-joined memory base's sources disagree on realization",
		Local:    describe(local),
	}
}

func describe(l localDescriber) string {
	if l == nil {
		return "<nil local>"
	}
	return l.Describe()
}

// RecoveredKind enumerates the recoverable outcomes of spec §7. These are
// never returned as Go errors; they're produced as a plain value alongside
// the decision that recovered from them, so callers can log why a fallback
// was taken without treating it as failure.
type RecoveredKind int

const (
	RecoveredNone RecoveredKind = iota
	RecoveredRangeTooWide
	RecoveredUniformMismatch
	RecoveredSplitAborted
)

func (k RecoveredKind) String() string {
	switch k {
	case RecoveredRangeTooWide:
		return "RangeTooWide"
	case RecoveredUniformMismatch:
		return "UniformMismatch"
	case RecoveredSplitAborted:
		return "SplitAborted"
	default:
		return "none"
	}
}
