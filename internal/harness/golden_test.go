package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario file against its golden snapshot.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_OmitsBookkeeping(t *testing.T) {
	r := NewResult()
	r.AddError("ignored")
	r.ErrorKind = ErrorDecode

	snap := r.snapshot("x")
	assert.Equal(t, map[string]any{"scenario": "x", "error": ErrorDecode}, snap)
}
