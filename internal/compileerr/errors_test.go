package compileerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLocal struct{ name string }

func (f fakeLocal) Describe() string { return f.name }

type fakeSpace string

func (f fakeSpace) String() string { return string(f) }

func TestNewInvalidAddressSpace(t *testing.T) {
	err := NewInvalidAddressSpace(fakeLocal{"p"}, fakeSpace("private"))
	assert.True(t, errors.Is(err, ErrInvalidAddressSpace))
	assert.Contains(t, err.Error(), "NORMALIZER")
	assert.Contains(t, err.Error(), "private")
}

func TestNewAmbiguousExit(t *testing.T) {
	err := NewAmbiguousExit("kernel", []string{"b1", "b2"})
	assert.True(t, errors.Is(err, ErrAmbiguousExit))
	assert.Contains(t, err.Error(), "kernel")
}

func TestNewUnmappablePhi(t *testing.T) {
	err := NewUnmappablePhi(fakeLocal{"phi1"})
	assert.True(t, errors.Is(err, ErrUnmappablePhi))
	assert.Contains(t, err.Error(), "phi1")
}

func TestRecoveredKind_String(t *testing.T) {
	assert.Equal(t, "RangeTooWide", RecoveredRangeTooWide.String())
	assert.Equal(t, "none", RecoveredNone.String())
}
