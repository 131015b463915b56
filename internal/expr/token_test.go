package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"I2+3 ", "2+3"},
		{"  12 + 3\n", "12+3"},
		{"x=(4-1)*2?", "(4-1)*2"},
		{"7÷2", "72"},
		{"1.5*2", "1.5*2"},
	}
	for _, tt := range tests {
		got, err := Sanitize(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestSanitizeEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc\n", "§§"} {
		_, err := Sanitize(raw)
		assert.ErrorIs(t, err, ErrEmptyExpression, raw)
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("12+3*(4-1)")
	require.NoError(t, err)
	assert.Equal(t, []Token{
		Num(12), Op('+'), Num(3), Op('*'),
		LParen(), Num(4), Op('-'), Num(1), RParen(),
	}, tokens)
}

func TestTokenizeDecimals(t *testing.T) {
	tokens, err := Tokenize("0.25/12.5")
	require.NoError(t, err)
	assert.Equal(t, []Token{Num(0.25), Op('/'), Num(12.5)}, tokens)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []string{
		"1++2",  // consecutive operators
		"*2",    // leading operator
		"2-",    // trailing operator
		"1.",    // decimal point without fraction
		".5",    // fraction without integer part
		"1.2.3", // second decimal point
		"()",    // empty group
		"2(3)",  // implicit multiplication
		"(1)2",  // operand after group
		"1 2",   // unsanitized space
		"",      // nothing at all
	}
	for _, in := range tests {
		_, err := Tokenize(in)
		assert.ErrorIs(t, err, ErrTokenize, in)
	}
}

func TestTokenizeLeavesParenBalanceToEvaluator(t *testing.T) {
	tokens, err := Tokenize("(1+2")
	require.NoError(t, err)
	assert.Len(t, tokens, 4)

	tokens, err = Tokenize("1+2)")
	require.NoError(t, err)
	assert.Len(t, tokens, 4)
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "Number(12)", Num(12).String())
	assert.Equal(t, "Operator(+)", Op('+').String())
	assert.Equal(t, "LeftParen", LParen().String())
}
