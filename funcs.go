package arith

import (
	"errors"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// bigcall computes op on its operands to the precision of the first, storing
// the result in invoc[0]. invoc has a length for which op.CanCall returned
// true. Operations that would produce NaN result in a *DomainError.
func bigcall(op Op, invoc []*big.Float) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error) // panic if not error
		if !ok {
			panic(r)
		}
		var nan big.ErrNaN
		if errors.As(e, &nan) {
			err = &DomainError{X: invoc[0], Func: op.String()}
			return
		}
		panic(r)
	}()
	if !op.CanCall(len(invoc)) {
		panic("arith: " + op.String() + " applied to " + strconv.Itoa(len(invoc)) + " operands (bad AST?)")
	}
	r := invoc[0]
	switch op {
	case OpAdd:
		for _, x := range invoc[1:] {
			r.Add(r, x)
		}
	case OpSub:
		if len(invoc) == 1 {
			r.Neg(r)
			break
		}
		r.Sub(r, invoc[1])
	case OpMul:
		r.Mul(r, invoc[1])
	case OpDiv:
		x := invoc[1]
		// Guard against invalid divisions, 0/0 or inf/inf.
		if r.Sign() == 0 && x.Sign() == 0 || r.IsInf() && x.IsInf() {
			return &DomainError{X: x, Arg: 2, Func: op.String()}
		}
		r.Quo(r, x)
	case OpSqrt:
		if r.Signbit() && r.Sign() != 0 {
			return &DomainError{X: r, Arg: 1, Func: op.String()}
		}
		r.Sqrt(r)
	case OpExp:
		switch {
		case r.IsInf() && r.Signbit():
			r.SetInt64(0)
		case r.IsInf(): // exp(inf) = inf
		case r.Sign() == 0:
			r.SetInt64(1)
		default:
			bigfloat.Exp(r, new(big.Float).Copy(r))
		}
	case OpLn:
		switch {
		case r.Sign() < 0:
			return &DomainError{X: r, Arg: 1, Func: op.String()}
		case r.Sign() == 0:
			r.SetInf(true)
		case r.IsInf(): // ln(inf) = inf
		case r.Cmp(bigOne) == 0:
			r.SetInt64(0)
		default:
			bigfloat.Log(r, new(big.Float).Copy(r))
		}
	case OpPow:
		// Guard against invalid exponentiations, i.e. negative base.
		if r.Signbit() && r.Sign() != 0 {
			return &DomainError{X: r, Arg: 1, Func: op.String()}
		}
		y := invoc[1]
		switch {
		case y.Sign() == 0:
			r.SetInt64(1)
		case r.Sign() == 0 && y.Sign() < 0:
			r.SetInf(false)
		case r.Sign() == 0: // 0^y = 0
		default:
			bigfloat.Pow(r, new(big.Float).Copy(r), y)
		}
	default:
		panic("arith: no big arithmetic for operator " + op.String())
	}
	return nil
}

var bigOne = big.NewFloat(1)

// DomainError is an error returned when an operator is applied to operands
// outside its domain during precise evaluation. DomainError unwraps to
// big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain operand.
	X *big.Float
	// Arg is the 1-based index of the operand, or 0 if it is unknown.
	Arg int
	// Func is a name identifying the operator.
	Func string
}

func (err DomainError) Error() string {
	r := "value outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (operand " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err DomainError) Unwrap() error {
	return big.ErrNaN{}
}
