package arith

import (
	"errors"
	"strconv"
	"strings"
)

// Expr = num | name | Infix | Prefix | Group
// Infix = Expr op Expr
// Prefix = op Expr | op Group
// Group = '(' Expr { ',' Expr } ')'
//
// A group with several comma-separated expressions supplies each of them as
// an operand to the operator before it, as in "+(1, 2, 3)" or
// "* (a, b + c)".

// Expr is a parsed expression. An Expr is never modified after it is created,
// so it is safe to evaluate concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// Parse parses an expression so it can be evaluated. The given options are
// applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := parsectx{words: globalwords}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	toks, err := tokenize(src, p.words)
	if err != nil {
		// Unbalanced parentheses take priority over lexical errors.
		if berr := balanced(parens(src)); berr != nil {
			return nil, berr
		}
		return nil, err
	}
	end := toks[len(toks)-1]
	toks = toks[:len(toks)-1]
	// Report unbalanced parentheses before anything else can go wrong.
	if err := balanced(toks); err != nil {
		return nil, err
	}
	n, err := p.build(toks, 0, end)
	if err != nil {
		return nil, err
	}
	return newexpr(n), nil
}

// item is an element of the reduction stack, either an operand or an
// operator.
type item struct {
	// n is the operand, or nil if the item is an operator.
	n   *node
	op  Op
	pos int
}

func (it item) isop() bool {
	return it.n == nil
}

// build parses a complete sequence of tokens. end is the token which follows
// the sequence, used to report empty sequences.
func (p *parsectx) build(toks []lexToken, depth int, end lexToken) (*node, error) {
	if len(toks) == 0 {
		return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	items, err := p.group(toks, depth)
	if err != nil {
		return nil, err
	}
	stack := make([]item, 0, len(items))
	for _, it := range items {
		if !it.isop() {
			stack = append(stack, it)
			continue
		}
		stack, err = reduce(stack, it.op.Prec())
		if err != nil {
			return nil, err
		}
		stack = append(stack, it)
	}
	stack, err = reduce(stack, 0)
	if err != nil {
		return nil, err
	}
	switch {
	case len(stack) == 1 && !stack[0].isop():
		return stack[0].n, nil
	case len(stack) == 1:
		// Lone operator, e.g. "(-)".
		return nil, &MalformedError{Col: stack[0].pos, Terms: 1}
	default:
		return nil, &MalformedError{Col: stack[1].pos, Terms: len(stack)}
	}
}

// group replaces each parenthesized span of toks with the operands it
// contains and classifies the remaining tokens as operands or operators.
func (p *parsectx) group(toks []lexToken, depth int) ([]item, error) {
	items := make([]item, 0, len(toks))
	for i := 0; i < len(toks); {
		tok := toks[i]
		switch tok.kind {
		case tokenOpen:
			if p.maxdepth > 0 && depth >= p.maxdepth {
				return nil, &DepthError{Col: tok.pos, Max: p.maxdepth}
			}
			j := closing(toks, i)
			if j < 0 {
				return nil, &BracketError{Col: tok.pos, Open: true}
			}
			args, err := p.args(toks[i+1:j], depth+1, toks[j])
			if err != nil {
				return nil, err
			}
			for _, a := range args {
				items = append(items, item{n: a, pos: tok.pos})
			}
			i = j + 1
			continue
		case tokenClose:
			return nil, &BracketError{Col: tok.pos}
		case tokenSep:
			return nil, &SeparatorError{Col: tok.pos}
		case tokenNum:
			v, err := strconv.ParseFloat(tok.text, 64)
			// Out of range values are already rounded to zero or infinity.
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
			}
			items = append(items, item{n: &node{kind: nodeNum, name: tok.text, num: v}, pos: tok.pos})
		case tokenIdent:
			items = append(items, item{n: &node{kind: nodeName, name: tok.text}, pos: tok.pos})
		case tokenOp:
			op, ok := LookupOp(tok.text)
			if !ok {
				panic("arith: lexed unknown operator " + strconv.Quote(tok.text))
			}
			items = append(items, item{op: op, pos: tok.pos})
		default:
			panic("arith: unknown token: " + tok.String())
		}
		i++
	}
	return items, nil
}

// args parses the comma-separated expressions inside a group. end is the
// closing parenthesis.
func (p *parsectx) args(toks []lexToken, depth int, end lexToken) ([]*node, error) {
	var r []*node
	d, start := 0, 0
	for k, tok := range toks {
		switch tok.kind {
		case tokenOpen:
			d++
		case tokenClose:
			d--
		case tokenSep:
			if d != 0 {
				continue
			}
			n, err := p.build(toks[start:k], depth, tok)
			if err != nil {
				return nil, err
			}
			r = append(r, n)
			start = k + 1
		}
	}
	n, err := p.build(toks[start:], depth, end)
	if err != nil {
		return nil, err
	}
	return append(r, n), nil
}

// closing finds the index of the parenthesis closing the one at toks[i], or
// -1 if there is none.
func closing(toks []lexToken, i int) int {
	d := 0
	for k := i; k < len(toks); k++ {
		switch toks[k].kind {
		case tokenOpen:
			d++
		case tokenClose:
			d--
			if d == 0 {
				return k
			}
		}
	}
	return -1
}

// balanced checks that every parenthesis in toks is matched.
func balanced(toks []lexToken) error {
	var open []int
	for _, tok := range toks {
		switch tok.kind {
		case tokenOpen:
			open = append(open, tok.pos)
		case tokenClose:
			if len(open) == 0 {
				return &BracketError{Col: tok.pos}
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) != 0 {
		return &BracketError{Col: open[len(open)-1], Open: true}
	}
	return nil
}

// parens returns the parenthesis tokens of src without lexing anything else.
func parens(src string) []lexToken {
	var toks []lexToken
	col := 0
	for _, r := range src {
		col++
		switch r {
		case '(':
			toks = append(toks, lexToken{text: "(", kind: tokenOpen, pos: col})
		case ')':
			toks = append(toks, lexToken{text: ")", kind: tokenClose, pos: col})
		}
	}
	return toks
}

// reduce combines operators on the stack with their operands as far as
// possible without combining infix operators less binding than minprec.
func reduce(stack []item, minprec int) ([]item, error) {
	for {
		k := len(stack)
		var err error
		stack, err = reducecall(stack)
		if err != nil {
			return nil, err
		}
		stack, err = reduceinfix(stack, minprec)
		if err != nil {
			return nil, err
		}
		if len(stack) == k {
			return stack, nil
		}
	}
}

// reducecall applies the last operator on the stack to every operand after it
// if that operator is in prefix position, i.e. it is first or follows another
// operator. An operator with no operands after it yet is left alone.
func reducecall(stack []item) ([]item, error) {
	i := len(stack) - 1
	for i >= 0 && !stack[i].isop() {
		i--
	}
	if i < 0 || i > 0 && !stack[i-1].isop() {
		return stack, nil
	}
	if i == len(stack)-1 {
		return stack, nil
	}
	args := make([]*node, 0, len(stack)-i-1)
	for _, it := range stack[i+1:] {
		args = append(args, it.n)
	}
	op := stack[i]
	n, err := newop(op.op, args, op.pos)
	if err != nil {
		return nil, err
	}
	return append(stack[:i], item{n: n, pos: op.pos}), nil
}

// reduceinfix combines operand-operator-operand sequences at the top of the
// stack while the operator is at least as binding as minprec. Reducing as soon
// as each operator arrives makes operators of equal precedence associate left.
func reduceinfix(stack []item, minprec int) ([]item, error) {
	for len(stack) >= 3 {
		l, o, r := stack[len(stack)-3], stack[len(stack)-2], stack[len(stack)-1]
		if l.isop() || !o.isop() || r.isop() {
			break
		}
		if o.op.Prec() < minprec {
			break
		}
		if !o.op.CanCall(2) {
			return nil, &CallError{Col: o.pos, Op: o.op, Len: 2, Infix: true}
		}
		n, err := newop(o.op, []*node{l.n, r.n}, o.pos)
		if err != nil {
			return nil, err
		}
		stack = append(stack[:len(stack)-3], item{n: n, pos: l.pos})
	}
	return stack, nil
}

// Vars returns the variable names used when evaluating the expression, sorted.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression with every
// term parenthesized. Parsing the result gives an equivalent expression.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b)
	return b.String()
}
