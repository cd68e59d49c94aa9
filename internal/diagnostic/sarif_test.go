package diagnostic

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/doe300/vc4c-go/internal/compileerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSARIF_ProducesValidJSONWithOneRulePerKind(t *testing.T) {
	errs := []*compileerr.CompileError{
		compileerr.NewAmbiguousExit("kernel0", []string{"b1", "b2"}),
		compileerr.NewAmbiguousExit("kernel0", []string{"b3", "b4"}),
	}
	var buf bytes.Buffer
	err := WriteSARIF(&buf, "kernel0", errs)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "AmbiguousExit")
	assert.Contains(t, buf.String(), "kernel0")

	var doc struct {
		Runs []struct {
			Tool struct {
				Driver struct {
					Rules []json.RawMessage `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []json.RawMessage `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Runs, 1)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 1, "two errors of one kind share one rule")
	assert.Len(t, doc.Runs[0].Results, 2)
}

func TestPrintConsoleReport_IncludesStageAndLocal(t *testing.T) {
	err := compileerr.NewAmbiguousExit("kernel0", []string{"b1", "b2"})
	var buf bytes.Buffer
	PrintConsoleReport(&buf, "kernel0", err)
	assert.Contains(t, buf.String(), compileerr.Stage)
	assert.Contains(t, buf.String(), "kernel0")
}
