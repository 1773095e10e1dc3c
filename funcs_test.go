package arith

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestBigcallEdges(t *testing.T) {
	inf := math.Inf(1)
	cases := []struct {
		name string
		op   Op
		args []float64
		want float64
	}{
		{"exp-neginf", OpExp, []float64{-inf}, 0},
		{"exp-inf", OpExp, []float64{inf}, inf},
		{"exp-zero", OpExp, []float64{0}, 1},
		{"ln-zero", OpLn, []float64{0}, -inf},
		{"ln-inf", OpLn, []float64{inf}, inf},
		{"ln-one", OpLn, []float64{1}, 0},
		{"pow-zero-exp", OpPow, []float64{5, 0}, 1},
		{"pow-zero-neg", OpPow, []float64{0, -1}, inf},
		{"pow-zero-pos", OpPow, []float64{0, 2}, 0},
		{"sqrt-zero", OpSqrt, []float64{0}, 0},
		{"div-inf", OpDiv, []float64{1, inf}, 0},
		{"div-zero", OpDiv, []float64{-1, 0}, -inf},
		{"add-many", OpAdd, []float64{1, 2, 3, 4, 5}, 15},
		{"neg", OpSub, []float64{3}, -3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			invoc := make([]*big.Float, len(c.args))
			for i, x := range c.args {
				invoc[i] = new(big.Float).SetPrec(64).SetFloat64(x)
			}
			if err := bigcall(c.op, invoc); err != nil {
				t.Fatalf("%v%v: %v", c.op, c.args, err)
			}
			if got, _ := invoc[0].Float64(); got != c.want {
				t.Errorf("%v%v: want %g, got %g", c.op, c.args, c.want, got)
			}
		})
	}
}

func TestBigcallDomain(t *testing.T) {
	cases := []struct {
		name string
		op   Op
		args []float64
		arg  int
	}{
		{"sqrt", OpSqrt, []float64{-4}, 1},
		{"ln", OpLn, []float64{-1}, 1},
		{"pow", OpPow, []float64{-2, 2}, 1},
		{"div", OpDiv, []float64{0, 0}, 2},
		{"sub", OpSub, []float64{math.Inf(1), math.Inf(1)}, 0},
		{"mul", OpMul, []float64{0, math.Inf(-1)}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			invoc := make([]*big.Float, len(c.args))
			for i, x := range c.args {
				invoc[i] = new(big.Float).SetPrec(64).SetFloat64(x)
			}
			err := bigcall(c.op, invoc)
			var d *DomainError
			if !errors.As(err, &d) {
				t.Fatalf("%v%v gave %#v, not *DomainError", c.op, c.args, err)
			}
			if d.Arg != c.arg {
				t.Errorf("wrong operand index in %v", d)
			}
			if d.Func != c.op.String() {
				t.Errorf("wrong function in %v", d)
			}
		})
	}
}

func TestBigcallArity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic calling sqrt with two operands")
		}
	}()
	bigcall(OpSqrt, []*big.Float{new(big.Float), new(big.Float)})
}
