package arith

import "strconv"

// BracketError is an error indicating unbalanced parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Open is true if the unmatched parenthesis is an open parenthesis.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "unbalanced parenthesis: ( with no close parenthesis")
	}
	return errpos(err.Col, "unbalanced parenthesis: ) with no open parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside of a parenthesized
// argument list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, `invalid occurrence of separator ","`)
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating an operator applied to a number of
// operands it does not accept. It implements InputError.
type CallError struct {
	// Col is the position of the operator. It is 0 for expressions built with
	// Apply.
	Col int
	// Op is the operator.
	Op Op
	// Len is the number of operands the operator was given.
	Len int
	// Infix indicates that the operator appeared between two operands but
	// does not accept two.
	Infix bool
	// Arg is the 1-based index of a nil operand passed to Apply, or 0.
	Arg int
}

func (err *CallError) Error() string {
	if err.Arg > 0 {
		return errpos(err.Col, "nil operand "+strconv.Itoa(err.Arg)+" to "+strconv.Quote(err.Op.String()))
	}
	if err.Infix {
		return errpos(err.Col, strconv.Quote(err.Op.String())+" is not an infix operator")
	}
	return errpos(err.Col, "arity mismatch: cannot call "+strconv.Quote(err.Op.String())+" with "+strconv.Itoa(err.Len)+" operands")
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty expression, group, or
// argument.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "empty group up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// MalformedError is an error indicating a sequence of terms which does not
// reduce to a single expression, e.g. adjacent operands or a trailing
// operator. It implements InputError.
type MalformedError struct {
	// Col is the position of the first term that was left over.
	Col int
	// Terms is the number of operands and operators left over.
	Terms int
}

func (err *MalformedError) Error() string {
	return errpos(err.Col, "malformed expression: "+strconv.Itoa(err.Terms)+" terms do not reduce to one value")
}

func (err *MalformedError) Pos() int {
	return err.Col
}

// DepthError is an error indicating parentheses nested more deeply than
// allowed by MaxDepth. It implements InputError.
type DepthError struct {
	// Col is the position of the parenthesis that exceeded the limit.
	Col int
	// Max is the limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "parentheses nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input to Parse implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*MalformedError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LexError)(nil)
)
