package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doe300/vc4c-go/internal/memclass"
)

// PreferenceMatrix holds the memory classifier's tunable thresholds,
// loadable from a YAML file so a target board's VPM/register budget can be
// adjusted without a rebuild.
type PreferenceMatrix struct {
	SmallArrayMaxElements  int `yaml:"smallArrayMaxElements"`
	MaxReadThenWriteDist   int `yaml:"maxReadThenWriteDistance"`
	SchedulingModeExhaustive bool `yaml:"schedulingModeExhaustive"`
}

// DefaultPreferenceMatrix matches the hardcoded defaults used when no
// config file is given.
func DefaultPreferenceMatrix() PreferenceMatrix {
	return PreferenceMatrix{
		SmallArrayMaxElements:    16,
		MaxReadThenWriteDist:     16,
		SchedulingModeExhaustive: false,
	}
}

// LoadPreferenceMatrix reads and parses a YAML preference-matrix file.
func LoadPreferenceMatrix(path string) (PreferenceMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PreferenceMatrix{}, err
	}
	m := DefaultPreferenceMatrix()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return PreferenceMatrix{}, err
	}
	return m, nil
}

// Apply pushes the matrix's thresholds into the memclass package's tunable
// vars. Call once at driver startup, before compiling any method.
func (m PreferenceMatrix) Apply() {
	memclass.SetSmallArrayMaxElements(m.SmallArrayMaxElements)
	memclass.SetMaxReadThenWriteDistance(m.MaxReadThenWriteDist)
}
