// Package diagnostic renders compile errors to the console and to a SARIF
// report file, for driver-level consumption (spec §6).
package diagnostic

import (
	"fmt"
	"io"

	"github.com/doe300/vc4c-go/internal/compileerr"
)

// PrintConsoleReport writes a short human-readable summary of one fatal
// compile error, matching the plain `[STAGE] message: local` shape carried
// by CompileError.Error().
func PrintConsoleReport(w io.Writer, methodName string, err *compileerr.CompileError) {
	fmt.Fprintln(w, "===============================================================================")
	fmt.Fprintf(w, "COMPILE ERROR in %q\n", methodName)
	fmt.Fprintln(w, "===============================================================================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stage:   %s\n", compileerr.Stage)
	fmt.Fprintf(w, "Message: %s\n", err.Message)
	fmt.Fprintf(w, "Local:   %s\n", err.Local)
	fmt.Fprintln(w)
}

// PrintRecoveredSummary logs a short line for a recoverable outcome (spec
// §7's RangeTooWide/UniformMismatch/SplitAborted), shown at Verbose and
// above by the caller's logger.
func PrintRecoveredSummary(w io.Writer, baseDescription string, kind compileerr.RecoveredKind) {
	if kind == compileerr.RecoveredNone {
		return
	}
	fmt.Fprintf(w, "recovered (%s): %s\n", kind, baseDescription)
}
