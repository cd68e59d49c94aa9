package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_ProgressHiddenAtDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	l.Progress("building %s", "kernel")
	assert.Empty(t, buf.String())
}

func TestLogger_ProgressShownAtVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityVerbose, &buf)
	l.Progress("building %s", "kernel")
	assert.Contains(t, buf.String(), "building kernel")
}

func TestLogger_DebugHasElapsedPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDebug, &buf)
	l.Debug("scheduling block %d", 3)
	assert.True(t, strings.HasPrefix(buf.String(), "["))
	assert.Contains(t, buf.String(), "scheduling block 3")
}

func TestLogger_WarningAlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityDefault, &buf)
	l.Warning("range too wide for %s", "buf")
	assert.Contains(t, buf.String(), "Warning: range too wide for buf")
}

func TestLogger_TimingRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(VerbosityVerbose, &buf)
	done := l.StartTiming("classify")
	done()
	assert.GreaterOrEqual(t, l.GetTiming("classify").Nanoseconds(), int64(0))
}
