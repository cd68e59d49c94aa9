// Package telemetry carries the compiler driver's ambient concerns: a
// verbosity-gated logger, a startup banner, TTY detection, fire-and-forget
// usage events, and a compile progress bar.
package telemetry

// VerbosityLevel controls how much the Logger prints.
type VerbosityLevel int

const (
	// VerbosityDefault shows warnings and errors only.
	VerbosityDefault VerbosityLevel = iota
	// VerbosityVerbose adds per-method progress and statistics.
	VerbosityVerbose
	// VerbosityDebug adds elapsed-time-prefixed diagnostics.
	VerbosityDebug
)
