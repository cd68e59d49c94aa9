package diagnostic

import (
	"encoding/json"
	"errors"
	"io"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/doe300/vc4c-go/internal/compileerr"
)

// WriteSARIF exports every fatal compile error collected across a driver
// run as a single SARIF 2.1.0 log, one result per error, tagged by the
// error's wrapped sentinel (InvalidAddressSpace/AmbiguousExit/UnmappablePhi).
func WriteSARIF(w io.Writer, methodName string, errs []*compileerr.CompileError) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("vc4c-go", "https://github.com/doe300/vc4c-go")
	seen := map[string]bool{}

	for _, e := range errs {
		ruleID := ruleIDFor(e)
		if !seen[ruleID] {
			seen[ruleID] = true
			run.AddRule(ruleID).
				WithDescription(e.Message).
				WithName(ruleID).
				WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel("error"))
		}

		result := run.CreateResultForRule(ruleID).
			WithMessage(sarif.NewTextMessage(e.Error()))
		result.AddLocation(sarif.NewLocation().
			WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(methodName)),
			))
	}

	report.AddRun(run)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func ruleIDFor(e *compileerr.CompileError) string {
	switch {
	case errors.Is(e, compileerr.ErrInvalidAddressSpace):
		return "InvalidAddressSpace"
	case errors.Is(e, compileerr.ErrAmbiguousExit):
		return "AmbiguousExit"
	case errors.Is(e, compileerr.ErrUnmappablePhi):
		return "UnmappablePhi"
	default:
		return "CompileError"
	}
}
