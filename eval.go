package arith

import (
	"strconv"
)

// Eval evaluates the expression with the given variable values. The only
// error is a *NameError for a variable the expression uses which is not in
// vars; variables in vars that the expression does not use are ignored.
//
// Arithmetic follows IEEE-754: division by zero gives an infinity or NaN, and
// sqrt or ln of a negative number gives NaN. Eval does not modify e, so it is
// safe to call concurrently with different (or the same) variables.
func (e *Expr) Eval(vars map[string]float64) (float64, error) {
	return e.n.eval(vars)
}

// eval computes the node's value, evaluating operands first in order.
func (n *node) eval(vars map[string]float64) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		v, ok := vars[n.name]
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return v, nil
	case nodeOp:
		var buf [4]float64
		args := buf[:0]
		for _, a := range n.args {
			v, err := a.eval(vars)
			if err != nil {
				return 0, err
			}
			args = append(args, v)
		}
		return n.op.apply(args), nil
	default:
		panic("arith: invalid AST node " + n.kind.String())
	}
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, vars map[string]float64, opts ...ParseOption) (float64, error) {
	a, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return a.Eval(vars)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation variables.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}
