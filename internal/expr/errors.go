package expr

import "errors"

// Evaluation-side failures. Callers match them with errors.Is; the returned
// errors usually wrap one of these with position or operand detail.
var (
	ErrEmptyExpression     = errors.New("empty expression")
	ErrTokenize            = errors.New("tokenize error")
	ErrUnmatchedParen      = errors.New("unmatched parenthesis")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrMalformedExpression = errors.New("malformed expression")
)
