package varfile

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	vars, err := Parse([]byte("x: 4\nyy: -1.5e3\nbig: .inf\n_under: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 4.0, vars["x"])
	assert.Equal(t, -1500.0, vars["yy"])
	assert.True(t, math.IsInf(vars["big"], 1))
	assert.Contains(t, vars, "_under")
	assert.Len(t, vars, 4)
}

func TestParse_Empty(t *testing.T) {
	vars, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestParse_NotMapping(t *testing.T) {
	_, err := Parse([]byte("- 1\n- 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapping")
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("x: [1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding variables")
}

func TestParse_AllProblemsReported(t *testing.T) {
	src := "x: 1\na-b: 2\nsqrt: 3\ny: abc\ninf: 4\nx: 5\n"
	_, err := Parse([]byte(src))
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "error %#v is not a multierror", err)
	require.Len(t, merr.Errors, 5)
	assert.Contains(t, merr.Errors[0].Error(), "line 2")
	assert.Contains(t, merr.Errors[1].Error(), "operator")
	assert.Contains(t, merr.Errors[2].Error(), "not a number")
	assert.Contains(t, merr.Errors[3].Error(), "is a number")
	assert.Contains(t, merr.Errors[4].Error(), "duplicate")
}

func TestParse_NaN(t *testing.T) {
	_, err := Parse([]byte("x: .nan\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NaN")
}

func TestCheckName(t *testing.T) {
	for _, name := range []string{"x", "xz", "_1", "π", "sqrt4", "1x", "2e"} {
		assert.NoError(t, CheckName(name), name)
	}
	for _, name := range []string{"", "x-y", "x y", "+", "ln", "pow", "Inf", "1e5", "1.x"} {
		assert.Error(t, CheckName(name), name)
	}
	assert.Contains(t, CheckName("1e5").Error(), "is a number")
	assert.Contains(t, CheckName("1.x").Error(), "not a valid variable name")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xz: 4\nyy: 1\n"), 0o644))
	vars, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"xz": 4, "yy": 1}, vars)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading variable file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("x: y\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
