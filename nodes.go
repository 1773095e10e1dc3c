package arith

import (
	"math"
	"strconv"
	"strings"
)

// node is a node in the tree of an expression. A node exclusively owns its
// operands and is never modified once built.
type node struct {
	kind nodeKind

	// name is the source text of a number or the name of a variable.
	name string
	num  float64

	op   Op
	args []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // num
	nodeName // lookup(name)
	nodeOp   // op(args...)
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeName:
		return "Name"
	case nodeOp:
		return "Op"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// newop creates an operator node, checking that op accepts the operands. col
// is the position reported in the error.
func newop(op Op, args []*node, col int) (*node, error) {
	if !op.CanCall(len(args)) {
		return nil, &CallError{Col: col, Op: op, Len: len(args)}
	}
	return &node{kind: nodeOp, op: op, args: args}, nil
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node fully parenthesized. Operators with two operands and a
// symbol are written infix; all others are written as calls.
func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$#$")
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeOp:
		if len(n.args) == 2 && !n.op.Word() {
			n.args[0].fmt(b)
			b.WriteByte(' ')
			b.WriteString(n.op.String())
			b.WriteByte(' ')
			n.args[1].fmt(b)
			return
		}
		b.WriteString(n.op.String())
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	default:
		panic("arith: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// addnames adds the variable names used in the tree to m.
func (n *node) addnames(m map[string]bool) {
	switch n.kind {
	case nodeName:
		m[n.name] = true
	case nodeOp:
		for _, a := range n.args {
			a.addnames(m)
		}
	}
}

// Num creates an expression of a constant.
func Num(v float64) *Expr {
	var s string
	switch {
	case math.IsInf(v, 1):
		s = "inf"
	case math.IsNaN(v):
		// Formatted inside parentheses, this parses back to a NaN.
		s = "0/0"
	default:
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return &Expr{n: &node{kind: nodeNum, name: s, num: v}}
}

// Var creates an expression which looks up a variable.
func Var(name string) *Expr {
	return &Expr{
		n:     &node{kind: nodeName, name: name},
		names: []string{name},
	}
}

// Apply creates an expression applying an operator to operands. The result
// is a *CallError if the operator does not accept that many operands. The
// operand expressions are shared with the result, which is safe because
// expressions are never modified.
func Apply(op Op, args ...*Expr) (*Expr, error) {
	if !op.valid() {
		return nil, &CallError{Op: op, Len: len(args)}
	}
	v := make([]*node, len(args))
	for i, a := range args {
		if a == nil || a.n == nil {
			return nil, &CallError{Op: op, Len: len(args), Arg: i + 1}
		}
		v[i] = a.n
	}
	n, err := newop(op, v, 0)
	if err != nil {
		return nil, err
	}
	return newexpr(n), nil
}

// newexpr wraps a tree in an Expr with its sorted variable names.
func newexpr(n *node) *Expr {
	m := make(map[string]bool)
	n.addnames(m)
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(m)),
	}
	for k := range m {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
