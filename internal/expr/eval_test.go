package expr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12+3*(4-1)", 21},
		{"2+3", 5},
		{"7", 7},
		{"10-4-3", 3},   // left associative
		{"64/4/2", 8},   // left associative
		{"2*3+4*5", 26}, // precedence
		{"2*(3+4)*5", 70},
		{"((2))", 2},
		{"1.5*4", 6},
		{"1/4", 0.25},
		{"0/5", 0},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(tt.in)
		require.NoError(t, err, tt.in)
		got, err := Evaluate(tokens)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, tt.in)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, _, err := Compute("8/0")
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, _, err = Compute("8/(2-2)")
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvaluateUnmatchedParen(t *testing.T) {
	for _, in := range []string{"(1+2", "1+2)", "((1)", "(1+(2*3)"} {
		_, _, err := Compute(in)
		assert.ErrorIs(t, err, ErrUnmatchedParen, in)
	}
}

func TestEvaluateMalformedSyntheticStreams(t *testing.T) {
	tests := map[string][]Token{
		"two numbers":      {Num(1), Num(2)},
		"lone operator":    {Op('+')},
		"missing operand":  {Num(1), Op('*')},
		"empty stream":     nil,
		"only parentheses": {LParen(), RParen()},
		"unknown operator": {Num(1), Op('%'), Num(2)},
	}
	for name, tokens := range tests {
		_, err := Evaluate(tokens)
		assert.ErrorIs(t, err, ErrMalformedExpression, name)
	}
}

func TestCompute(t *testing.T) {
	expression, result, err := Compute("I2+3 ")
	require.NoError(t, err)
	assert.Equal(t, "2+3", expression)
	assert.Equal(t, 5.0, result)

	_, _, err = Compute("hello")
	assert.ErrorIs(t, err, ErrEmptyExpression)
	assert.NotErrorIs(t, err, ErrTokenize)

	expression, _, err = Compute("1+*2")
	assert.ErrorIs(t, err, ErrTokenize)
	assert.Equal(t, "1+*2", expression)
}

// randomExpression builds a well-formed expression with balanced
// parentheses and no division.
func randomExpression(r *rand.Rand, depth int) string {
	if depth == 0 || r.Intn(3) == 0 {
		return []string{"1", "2", "3.5", "10", "0.25"}[r.Intn(5)]
	}
	ops := []string{"+", "-", "*"}
	left := randomExpression(r, depth-1)
	right := randomExpression(r, depth-1)
	s := left + ops[r.Intn(len(ops))] + right
	if r.Intn(2) == 0 {
		s = "(" + s + ")"
	}
	return s
}

func TestEvaluateValidStreamsAlwaysReduce(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		in := randomExpression(r, 4)
		tokens, err := Tokenize(in)
		require.NoError(t, err, in)
		_, err = Evaluate(tokens)
		require.NoError(t, err, in)
	}
}
