package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	input := []byte(` {"a" : [1, -2.5e3, true, false, null, "x\"y"]} `)
	tokens, err := Tokenize(input, nil)
	require.NoError(t, err)

	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	assert.Equal(t, []TokenType{
		TokenObjectBegin, TokenString, TokenColon, TokenArrayBegin,
		TokenNumber, TokenComma, TokenNumber, TokenComma,
		TokenTrue, TokenComma, TokenFalse, TokenComma, TokenNull, TokenComma,
		TokenString, TokenArrayEnd, TokenObjectEnd,
	}, types)

	assert.Equal(t, `"a"`, string(input[tokens[1].Start:tokens[1].End]))
	assert.Equal(t, `-2.5e3`, string(input[tokens[6].Start:tokens[6].End]))
	assert.Equal(t, `"x\"y"`, string(input[tokens[14].Start:tokens[14].End]))
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"leading zero", "012"},
		{"bare minus", "-"},
		{"dangling dot", "1."},
		{"dangling exponent", "1e"},
		{"truncated literal", "nul"},
		{"literal suffix", "truex"},
		{"bad escape", `"\q"`},
		{"short unicode", `"\u12"`},
		{"bad hex", `"\u12g4"`},
		{"raw newline", "\"a\nb\""},
		{"unterminated", `"abc`},
		{"stray byte", "@"},
		{"stray backslash", `\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.input), nil)
			assert.Error(t, err)
		})
	}
}

func TestTokenPool(t *testing.T) {
	tokens := GetTokens()
	assert.Empty(t, tokens)

	tokens, err := Tokenize([]byte("[1,2,3]"), tokens)
	require.NoError(t, err)
	assert.Len(t, tokens, 7)
	PutTokens(tokens)

	assert.Empty(t, GetTokens())
}
