package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPreferenceMatrix_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("smallArrayMaxElements: 8\nmaxReadThenWriteDistance: 4\n"), 0o644))

	m, err := LoadPreferenceMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, 8, m.SmallArrayMaxElements)
	assert.Equal(t, 4, m.MaxReadThenWriteDist)
}

func TestDefaultPreferenceMatrix_MatchesHardcodedDefaults(t *testing.T) {
	m := DefaultPreferenceMatrix()
	assert.Equal(t, 16, m.SmallArrayMaxElements)
	assert.Equal(t, 16, m.MaxReadThenWriteDist)
}
