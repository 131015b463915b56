package expr

import "fmt"

var precedence = map[byte]int{
	'+': 1,
	'-': 1,
	'*': 2,
	'/': 2,
}

// evaluator holds the two transient stacks of one Evaluate call.
type evaluator struct {
	ops    []Token
	values []float64
}

// Evaluate reduces a token stream to a single value using operator-precedence
// (shunting-yard) evaluation. Operators are left associative.
//
// The stream need not come from Tokenize; any sequence is accepted and
// streams that cannot be reduced to exactly one value yield
// ErrMalformedExpression.
func Evaluate(tokens []Token) (float64, error) {
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: no tokens", ErrMalformedExpression)
	}

	ev := &evaluator{}
	for _, tok := range tokens {
		switch tok.Kind {
		case Number:
			ev.values = append(ev.values, tok.Value)

		case LeftParen:
			ev.ops = append(ev.ops, tok)

		case RightParen:
			matched := false
			for len(ev.ops) > 0 {
				top := ev.ops[len(ev.ops)-1]
				if top.Kind == LeftParen {
					ev.ops = ev.ops[:len(ev.ops)-1]
					matched = true
					break
				}
				if err := ev.apply(); err != nil {
					return 0, err
				}
			}
			if !matched {
				return 0, fmt.Errorf("%w: ')' without '('", ErrUnmatchedParen)
			}

		case Operator:
			p, ok := precedence[tok.Op]
			if !ok {
				return 0, fmt.Errorf("%w: unknown operator %q", ErrMalformedExpression, tok.Op)
			}
			for len(ev.ops) > 0 {
				top := ev.ops[len(ev.ops)-1]
				if top.Kind == LeftParen || precedence[top.Op] < p {
					break
				}
				if err := ev.apply(); err != nil {
					return 0, err
				}
			}
			ev.ops = append(ev.ops, tok)

		default:
			return 0, fmt.Errorf("%w: unknown token kind %d", ErrMalformedExpression, tok.Kind)
		}
	}

	for len(ev.ops) > 0 {
		if ev.ops[len(ev.ops)-1].Kind == LeftParen {
			return 0, fmt.Errorf("%w: '(' never closed", ErrUnmatchedParen)
		}
		if err := ev.apply(); err != nil {
			return 0, err
		}
	}

	if len(ev.values) != 1 {
		return 0, fmt.Errorf("%w: %d values left after evaluation", ErrMalformedExpression, len(ev.values))
	}
	return ev.values[0], nil
}

// apply pops one operator and two values (right operand first) and pushes
// the result.
func (ev *evaluator) apply() error {
	op := ev.ops[len(ev.ops)-1]
	ev.ops = ev.ops[:len(ev.ops)-1]

	if len(ev.values) < 2 {
		return fmt.Errorf("%w: operator %q needs two operands", ErrMalformedExpression, op.Op)
	}
	right := ev.values[len(ev.values)-1]
	left := ev.values[len(ev.values)-2]
	ev.values = ev.values[:len(ev.values)-2]

	var v float64
	switch op.Op {
	case '+':
		v = left + right
	case '-':
		v = left - right
	case '*':
		v = left * right
	case '/':
		if right == 0 {
			return fmt.Errorf("%w: %g / 0", ErrDivisionByZero, left)
		}
		v = left / right
	}
	ev.values = append(ev.values, v)
	return nil
}

// Compute sanitizes raw text, tokenizes it and evaluates it. It returns the
// sanitized expression alongside the result so callers can display and
// record it.
func Compute(raw string) (expression string, result float64, err error) {
	clean, err := Sanitize(raw)
	if err != nil {
		return "", 0, err
	}
	tokens, err := Tokenize(clean)
	if err != nil {
		return clean, 0, err
	}
	result, err = Evaluate(tokens)
	if err != nil {
		return clean, 0, err
	}
	return clean, result, nil
}
