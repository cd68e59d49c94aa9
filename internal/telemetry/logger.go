package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Logger provides structured, verbosity-gated logging for the compile
// driver. Output goes to stderr by default, keeping stdout free for
// bytecode/diagnostic output.
type Logger struct {
	verbosity    VerbosityLevel
	writer       io.Writer
	startTime    time.Time
	timings      map[string]time.Duration
	isTTY        bool
	showProgress bool
	progressBar  *progressbar.ProgressBar
}

// NewLogger creates a logger writing to stderr.
func NewLogger(verbosity VerbosityLevel) *Logger {
	return NewLoggerWithWriter(verbosity, os.Stderr)
}

// NewLoggerWithWriter creates a logger with a custom writer, primarily for
// tests.
func NewLoggerWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	isTTY := IsTTY(w)
	return &Logger{
		verbosity:    verbosity,
		writer:       w,
		startTime:    time.Now(),
		timings:      make(map[string]time.Duration),
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

// Progress logs a high-level progress message, shown at Verbose and above.
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Statistic logs a count/metric, shown at Verbose and above.
func (l *Logger) Statistic(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs a diagnostic with an elapsed-time prefix, shown only at Debug.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		fmt.Fprintf(l.writer, "[%s] %s\n", formatDuration(time.Since(l.startTime)), fmt.Sprintf(format, args...))
	}
}

// Warning always prints.
func (l *Logger) Warning(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Error always prints.
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Error: %s\n", fmt.Sprintf(format, args...))
}

// StartTiming begins timing a named operation, e.g. a method's compile
// pass; the returned func records the elapsed duration when called.
func (l *Logger) StartTiming(name string) func() {
	start := time.Now()
	return func() {
		l.timings[name] = time.Since(start)
	}
}

// GetTiming returns the recorded duration for name, zero if never timed.
func (l *Logger) GetTiming(name string) time.Duration {
	return l.timings[name]
}

// PrintTimingSummary prints every recorded timing, Verbose and above only.
func (l *Logger) PrintTimingSummary() {
	if l.verbosity < VerbosityVerbose {
		return
	}
	fmt.Fprintln(l.writer, "\nTiming Summary:")
	for name, duration := range l.timings {
		fmt.Fprintf(l.writer, "  %s: %s\n", name, duration.Round(time.Millisecond))
	}
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// Verbosity returns the configured level.
func (l *Logger) Verbosity() VerbosityLevel { return l.verbosity }

// IsTTY reports whether the logger's writer is a terminal.
func (l *Logger) IsTTY() bool { return l.isTTY }

// GetWriter returns the underlying writer.
func (l *Logger) GetWriter() io.Writer { return l.writer }

// StartProgress begins a progress bar for compiling total kernels; total<0
// shows an indeterminate spinner. In non-TTY mode it falls back to a single
// printed line.
func (l *Logger) StartProgress(description string, total int) {
	if !l.showProgress {
		l.Progress("%s...", description)
		return
	}
	if l.progressBar != nil {
		_ = l.progressBar.Finish()
	}
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(l.writer) }),
	}
	if total < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
		l.progressBar = progressbar.NewOptions(-1, opts...)
		return
	}
	opts = append(opts, progressbar.OptionShowCount(), progressbar.OptionSetRenderBlankState(true))
	l.progressBar = progressbar.NewOptions(total, opts...)
}

// AdvanceProgress increments the active progress bar by delta kernels.
func (l *Logger) AdvanceProgress(delta int) {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Add(delta)
}

// FinishProgress completes and clears the active progress bar.
func (l *Logger) FinishProgress() {
	if l.progressBar == nil {
		return
	}
	_ = l.progressBar.Finish()
	l.progressBar = nil
}
