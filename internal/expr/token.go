// Package expr sanitizes recognized text, tokenizes it and evaluates the
// resulting arithmetic expression.
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// AllowedChars is the set of characters an arithmetic expression may contain.
const AllowedChars = "0123456789+-*/()."

// Kind classifies a Token.
type Kind int

const (
	Number Kind = iota
	Operator
	LeftParen
	RightParen
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case LeftParen:
		return "LeftParen"
	case RightParen:
		return "RightParen"
	default:
		return "Unknown"
	}
}

// Token is one classified unit of a sanitized expression.
type Token struct {
	Kind  Kind
	Value float64 // set for Number
	Op    byte    // one of + - * / for Operator
}

// Num returns a Number token.
func Num(v float64) Token { return Token{Kind: Number, Value: v} }

// Op returns an Operator token.
func Op(op byte) Token { return Token{Kind: Operator, Op: op} }

// LParen returns a LeftParen token.
func LParen() Token { return Token{Kind: LeftParen} }

// RParen returns a RightParen token.
func RParen() Token { return Token{Kind: RightParen} }

func (t Token) String() string {
	switch t.Kind {
	case Number:
		return fmt.Sprintf("Number(%s)", strconv.FormatFloat(t.Value, 'g', -1, 64))
	case Operator:
		return fmt.Sprintf("Operator(%c)", t.Op)
	default:
		return t.Kind.String()
	}
}

// Sanitize removes every character outside AllowedChars and trims the result.
// An empty result yields ErrEmptyExpression.
func Sanitize(raw string) (string, error) {
	clean := strings.Map(func(r rune) rune {
		if r < 128 && strings.IndexByte(AllowedChars, byte(r)) >= 0 {
			return r
		}
		return -1
	}, raw)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "", ErrEmptyExpression
	}
	return clean, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/'
}

// Tokenize splits sanitized text into tokens.
//
// Numbers follow the grammar digits ('.' digits)? and are matched greedily.
// Operands (numbers, parenthesized groups) and binary operators must
// alternate: "1++2", "()", "2(3)" and a trailing operator are rejected here
// so the evaluator never sees a stream it cannot reduce to one value.
// Parenthesis balance is left to the evaluator.
func Tokenize(clean string) ([]Token, error) {
	var tokens []Token
	expectOperand := true

	for i := 0; i < len(clean); {
		c := clean[i]
		switch {
		case isDigit(c):
			if !expectOperand {
				return nil, fmt.Errorf("%w: unexpected number at %d", ErrTokenize, i)
			}
			end, err := scanNumber(clean, i)
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseFloat(clean[i:end], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q: %v", ErrTokenize, clean[i:end], err)
			}
			tokens = append(tokens, Num(v))
			expectOperand = false
			i = end

		case isOperator(c):
			if expectOperand {
				return nil, fmt.Errorf("%w: unexpected operator %q at %d", ErrTokenize, c, i)
			}
			tokens = append(tokens, Op(c))
			expectOperand = true
			i++

		case c == '(':
			if !expectOperand {
				return nil, fmt.Errorf("%w: unexpected '(' at %d", ErrTokenize, i)
			}
			tokens = append(tokens, LParen())
			i++

		case c == ')':
			if expectOperand {
				return nil, fmt.Errorf("%w: unexpected ')' at %d", ErrTokenize, i)
			}
			tokens = append(tokens, RParen())
			i++

		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrTokenize, c, i)
		}
	}

	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrTokenize)
	}
	if expectOperand {
		return nil, fmt.Errorf("%w: expression ends with an operator", ErrTokenize)
	}
	return tokens, nil
}

// scanNumber returns the end offset of the numeric literal starting at i.
func scanNumber(s string, i int) (int, error) {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '.' {
		k := j + 1
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k == j+1 {
			return 0, fmt.Errorf("%w: malformed number %q at %d", ErrTokenize, s[i:k], i)
		}
		j = k
	}
	if j < len(s) && s[j] == '.' {
		return 0, fmt.Errorf("%w: malformed number %q at %d", ErrTokenize, s[i:j+1], i)
	}
	return j, nil
}
