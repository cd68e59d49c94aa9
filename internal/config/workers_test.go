package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimalWorkerCount_RespectsEnvOverride(t *testing.T) {
	t.Setenv("QPUC_MAX_WORKERS", "5")
	assert.Equal(t, 5, OptimalWorkerCount())
}

func TestOptimalWorkerCount_CapsEnvOverrideAt32(t *testing.T) {
	t.Setenv("QPUC_MAX_WORKERS", "999")
	assert.Equal(t, 32, OptimalWorkerCount())
}

func TestOptimalWorkerCount_WithinBoundsWithoutOverride(t *testing.T) {
	t.Setenv("QPUC_MAX_WORKERS", "")
	count := OptimalWorkerCount()
	assert.GreaterOrEqual(t, count, 2)
	assert.LessOrEqual(t, count, 16)
}
