// Package arith parses and evaluates arithmetic expressions over variables.
//
// Operators can be written infix, "1 + 2", or in front of their operands,
// "+(1, 2, 3)" or "sqrt 4". A parenthesized group of comma-separated
// expressions gives several operands to the operator before it, so
// "* (a, b + c)" is the same as "a * (b + c)". "*" and "/" bind tighter than
// "+" and "-", and word operators like sqrt bind tightest of all. Operators of
// equal precedence associate to the left: "8 - 3 - 2" is 3.
//
// Parse an expression once and evaluate it for many inputs with Eval, which
// uses float64 arithmetic, or to arbitrary precision with a Context.
//
package arith
