package arith

import "strconv"

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt   int
	disableopt []Op
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// words is the set of word-form operators which the lexer recognizes.
	words map[string]Op
	// maxdepth is the maximum nesting depth of parentheses, or 0 for no limit.
	maxdepth int
	// owned indicates that words is a copy which options may modify.
	owned bool
}

// globalwords is the default set of word-form operators.
var globalwords = func() map[string]Op {
	m := make(map[string]Op)
	for _, op := range Ops() {
		if op.Word() {
			m[op.String()] = op
		}
	}
	return m
}()

// MaxDepth limits the nesting depth of parentheses. Deeper inputs fail to
// parse with a *DepthError. A limit of 0 means no limit, which is the default.
// Each level of nesting uses a level of recursion in the parser.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		panic("arith: negative max depth " + strconv.Itoa(n))
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// DisableOps disables parsing word-form operators such as sqrt. Their names
// will be parsed as variables instead. Symbol operators cannot be disabled.
func DisableOps(ops ...Op) ParseOption {
	for _, op := range ops {
		if !op.valid() || !op.Word() {
			panic("arith: cannot disable operator " + op.String())
		}
	}
	return disableopt(ops)
}

func (o disableopt) parseOption(p parsectx) parsectx {
	if !p.owned {
		// Always make a copy.
		m := make(map[string]Op, len(p.words))
		for k, v := range p.words {
			m[k] = v
		}
		p.words = m
		p.owned = true
	}
	for _, op := range o {
		delete(p.words, op.String())
	}
	return p
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := parsectx{words: globalwords}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	// Options applied after the preset must copy again.
	p.owned = false
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.owned || p.maxdepth != 0 {
		panic("arith: preset applied to non-default parse config")
	}
	return *o
}
