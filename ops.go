package arith

import (
	"math"
	"strconv"
)

// Op is an arithmetic operator. Every operator can be written in prefix form,
// e.g. "+(1, 2, 3)" or "sqrt 4", and operators accepting two operands can
// also be written infix, e.g. "1 + 2".
type Op int8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpSqrt
	OpExp
	OpLn
	OpPow

	numOps
)

type opinfo struct {
	sym string
	// prec is the precedence. Higher is more binding. Word-form operators
	// are the most binding so that "2 * sqrt 4" only ever applies sqrt to 4.
	prec int8
	// min and max bound the number of operands. max < 0 means unbounded.
	min, max int
	f        func(args []float64) float64
}

// optab is the operator registry, indexed by Op.
var optab = [numOps]opinfo{
	OpAdd: {"+", 0, 1, -1, func(args []float64) float64 {
		var r float64
		for _, x := range args {
			r += x
		}
		return r
	}},
	OpSub: {"-", 0, 1, 2, func(args []float64) float64 {
		if len(args) == 1 {
			return -args[0]
		}
		return args[0] - args[1]
	}},
	OpMul:  {"*", 1, 2, 2, func(args []float64) float64 { return args[0] * args[1] }},
	OpDiv:  {"/", 1, 2, 2, func(args []float64) float64 { return args[0] / args[1] }},
	OpSqrt: {"sqrt", 2, 1, 1, func(args []float64) float64 { return math.Sqrt(args[0]) }},
	OpExp:  {"exp", 2, 1, 1, func(args []float64) float64 { return math.Exp(args[0]) }},
	OpLn:   {"ln", 2, 1, 1, func(args []float64) float64 { return math.Log(args[0]) }},
	OpPow:  {"pow", 2, 2, 2, func(args []float64) float64 { return math.Pow(args[0], args[1]) }},
}

// Operators contains the runes which are single-character operators.
const Operators = "+-*/"

// Ops returns all operators in registry order.
func Ops() []Op {
	r := make([]Op, numOps)
	for i := range r {
		r[i] = Op(i)
	}
	return r
}

// LookupOp finds the operator with the given symbol, e.g. "+" or "sqrt".
func LookupOp(sym string) (Op, bool) {
	for i := range optab {
		if optab[i].sym == sym {
			return Op(i), true
		}
	}
	return -1, false
}

func (op Op) valid() bool {
	return 0 <= op && op < numOps
}

func (op Op) info() *opinfo {
	if !op.valid() {
		panic("arith: invalid operator " + strconv.Itoa(int(op)))
	}
	return &optab[op]
}

// String returns the operator's symbol.
func (op Op) String() string {
	if !op.valid() {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return optab[op].sym
}

// Prec returns the operator's precedence. Higher binds tighter.
func (op Op) Prec() int {
	return int(op.info().prec)
}

// CanCall returns whether the operator accepts n operands. No operator
// accepts zero operands.
func (op Op) CanCall(n int) bool {
	p := op.info()
	if n < 1 || n < p.min {
		return false
	}
	return p.max < 0 || n <= p.max
}

// Word returns whether the operator is written as a word rather than a single
// symbol character.
func (op Op) Word() bool {
	return len(op.info().sym) > 1
}

// apply computes the operator on already evaluated operands. The caller must
// ensure CanCall(len(args)).
func (op Op) apply(args []float64) float64 {
	if !op.CanCall(len(args)) {
		panic("arith: " + op.String() + " applied to " + strconv.Itoa(len(args)) + " operands (bad AST?)")
	}
	return op.info().f(args)
}
