//go:build go1.18
// +build go1.18

package arith_test

import (
	"testing"

	"github.com/zephyrtronium/arith"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("* (3 + x*2, sqrt y - 1)")
	f.Add("3 + 4 * (2 + yy / (3-xz) * ((5)))")
	vars := map[string]float64{"x": 3, "y": 9}
	f.Fuzz(func(t *testing.T, s string) {
		arith.EvalString(s, vars)
	})
}
