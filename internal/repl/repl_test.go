package repl

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/arith"
)

func run(t *testing.T, input string, opts Options) string {
	var out bytes.Buffer
	opts.Logger = zerolog.Nop()
	require.NoError(t, Run(strings.NewReader(input), &out, opts))
	return out.String()
}

func TestRun_Rounds(t *testing.T) {
	input := "(x + 3) * 4 + (4 + y)\nx 4 y 1\n" +
		"3 * sqrt 4 - 2 * x + +(2,3)\nx 3\n" +
		"* (3 + x*2, sqrt y - 1)\n x  3   y 9 \n" +
		"3 + sqrt 4 * 2\n\n"
	want := "Result is: 33\nResult is: 5\nResult is: 18\nResult is: 7\n"
	assert.Equal(t, want, run(t, input, Options{}))
}

func TestRun_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"parse", "(x\n1\n\n", "Error: 1: unbalanced parenthesis: ( with no close parenthesis\nResult is: 1\n"},
		{"empty", "\n", "Error: 1: no expression\n"},
		{"undefined", "x * y\nx 2\n", "Error: undefined variable: \"y\"\n"},
		{"odd", "x\nx 1 y\n", "Error: variable \"y\" has no value\n"},
		{"number", "x\nx one y two\n", "Error: value \"one\" for x is not a number; value \"two\" for y is not a number\n"},
		{"recover", "x\nx\nx\nx 2\n", "Error: variable \"x\" has no value\nResult is: 2\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, run(t, c.input, Options{}))
		})
	}
}

func TestRun_Prompts(t *testing.T) {
	got := run(t, "1 + 1\n\n", Options{Prompt: true})
	want := exprPrompt + "\n" + varsPrompt + "\nResult is: 2\n" + exprPrompt + "\n"
	assert.Equal(t, want, got)
}

func TestRun_Color(t *testing.T) {
	got := run(t, "1 +\n", Options{Color: true})
	assert.Contains(t, got, "\x1b[31m")
	assert.Contains(t, got, "malformed")
	got = run(t, "1 +\n", Options{})
	assert.NotContains(t, got, "\x1b[")
}

func TestRun_Options(t *testing.T) {
	opts := Options{
		Defaults:  map[string]float64{"x": 1, "sqrt": 5},
		ParseOpts: []arith.ParseOption{arith.DisableOps(arith.OpSqrt)},
		Format:    "%.2f",
	}
	got := run(t, "x + y + sqrt\ny 2\nx\nx 3\n", opts)
	assert.Equal(t, "Result is: 8.00\nResult is: 3.00\n", got)
	// The defaults are not modified by bindings.
	assert.Equal(t, 1.0, opts.Defaults["x"])
}

func TestRun_ReadError(t *testing.T) {
	var out bytes.Buffer
	err := Run(iotest.ErrReader(errors.New("boom")), &out, Options{Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading input")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRun_WriteError(t *testing.T) {
	err := Run(strings.NewReader("1\n\n1\n\n"), failWriter{}, Options{Logger: zerolog.Nop(), Prompt: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing output")
}

func TestBindings(t *testing.T) {
	vars, err := Bindings("x 1 y -2.5e1", map[string]float64{"z": 3, "x": 0})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"x": 1, "y": -25, "z": 3}, vars)

	vars, err = Bindings("   ", nil)
	require.NoError(t, err)
	assert.Empty(t, vars)

	_, err = Bindings("x", nil)
	require.Error(t, err)
}
