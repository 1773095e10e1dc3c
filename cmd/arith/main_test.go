package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_Args(t *testing.T) {
	out, _, err := execute(t, "", "--given", "x=4", "--given", "y = 1", "(x + 3) * 4 + (4 + y)", "3 + sqrt 4 * 2")
	require.NoError(t, err)
	assert.Equal(t, "33\n7\n", out)
}

func TestRoot_GivenExpressions(t *testing.T) {
	out, _, err := execute(t, "", "--given", "x=2*2", "--given", "y=x-3", "x * y")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestRoot_Stdin(t *testing.T) {
	out, _, err := execute(t, "1+1\n\n  2*3  \n")
	require.NoError(t, err)
	assert.Equal(t, "2\n6\n", out)
}

func TestRoot_EchoAndFormat(t *testing.T) {
	out, _, err := execute(t, "", "--echo", "--fmt", "%.1f", "1+2")
	require.NoError(t, err)
	assert.Equal(t, "((1) + (2)) : 3.0\n", out)
}

func TestRoot_EvalErrorContinues(t *testing.T) {
	out, _, err := execute(t, "", "x", "2")
	require.NoError(t, err)
	assert.Equal(t, "undefined variable: \"x\"\n2\n", out)
}

func TestRoot_Prec(t *testing.T) {
	out, _, err := execute(t, "", "-p", "128", "--fmt", "%.20f", "sqrt 2")
	require.NoError(t, err)
	assert.Equal(t, "1.41421356237309504880\n", out)

	out, _, err = execute(t, "", "-p", "64", "--given", "x=3", "sqrt(x - 5)", "x * 2")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "outside domain of sqrt")
	assert.Equal(t, "6", lines[1])
}

func TestRoot_ParseError(t *testing.T) {
	_, stderr, err := execute(t, "", "1 +")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parsing "1 +"`)
	assert.Contains(t, stderr, "malformed")
}

func TestRoot_MaxDepth(t *testing.T) {
	_, _, err := execute(t, "", "--max-depth", "1", "((1))")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested deeper")

	_, _, err = execute(t, "", "--max-depth", "-1", "1")
	require.Error(t, err)
}

func TestRoot_BadGiven(t *testing.T) {
	_, _, err := execute(t, "", "--given", "x", "--given", "sqrt=1", "--given", "y=1", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"name=value"`)
	assert.Contains(t, err.Error(), "operator")

	_, _, err = execute(t, "", "--given", "y=z", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting y")
}

func TestRoot_VarsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xz: 4\nyy: 1\n"), 0o644))
	src := "3 + 4 * (2 + yy / (3-xz) * ((5)))"
	out, _, err := execute(t, "", "--vars", path, src)
	require.NoError(t, err)
	assert.Equal(t, "-9\n", out)

	// --given overrides the file.
	out, _, err = execute(t, "", "--vars", path, "--given", "yy=0", "-p", "64", src)
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)

	_, _, err = execute(t, "", "--vars", filepath.Join(t.TempDir(), "none.yaml"), "1")
	require.Error(t, err)
}

func TestRoot_Verbose(t *testing.T) {
	_, stderr, err := execute(t, "", "-v", "--given", "x=1", "x + 1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "parsed")
	assert.Contains(t, stderr, "defined")

	_, stderr, err = execute(t, "", "x + 1", "--given", "x=1")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "parsed")
}

func TestRepl(t *testing.T) {
	out, _, err := execute(t, "x + y\ny 2\nx * \n", "repl", "--given", "x=1")
	require.NoError(t, err)
	assert.Equal(t, "Result is: 3\nError: 3: malformed expression: 2 terms do not reduce to one value\n", out)

	out, _, err = execute(t, "1\n\n", "repl", "--prompt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Enter expression."), out)
	assert.Contains(t, out, "Result is: 1\n")

	_, _, err = execute(t, "", "repl", "extra")
	require.Error(t, err)
}
