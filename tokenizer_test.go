package hocon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizeAll(t *testing.T, input string) []*Token {
	t.Helper()
	tk := newTokenizer(NewOrigin("test"), input)
	var tokens []*Token
	for {
		tok := tk.next()
		tokens = append(tokens, tok)
		if tok.tokenType == TokenEnd {
			return tokens
		}
	}
}

func tokenTypes(tokens []*Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.tokenType)
	}
	return types
}

// TestTokenRoundTrip checks that concatenating every token's text reproduces
// the input exactly, for inputs exercising every token kind.
func TestTokenRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a = 1",
		"a : b\nc = d,e=f",
		"# comment\n// another\nfoo = bar  ",
		"a = \"quoted \\\"string\\\"\"\n",
		"nums = [1, -2.5, 3e4, 0.5]",
		"obj { nested { deep = true } }",
		"m = \"\"\"multi\nline \"quotes\" inside\"\"\"",
		"sub = ${a.b.c} and ${?optional.path}",
		"append += value",
		"tabs\t=\tspaces   ",
		"unicode = éè café",
		"weird//comment\n",
	}
	for _, input := range inputs {
		t.Run(strings.ReplaceAll(input, "\n", "\\n"), func(t *testing.T) {
			tokens := tokenizeAll(t, input)
			var sb strings.Builder
			for _, tok := range tokens {
				sb.WriteString(tok.Text())
			}
			assert.Equal(t, input, sb.String())
		})
	}
}

func TestTokenizerKinds(t *testing.T) {
	tokens := tokenizeAll(t, "a = 1\n")
	require.Equal(t, []TokenType{
		TokenStart, TokenUnquotedText, TokenIgnoredWhitespace, TokenEquals,
		TokenIgnoredWhitespace, TokenValue, TokenNewline, TokenEnd,
	}, tokenTypes(tokens))
	assert.Equal(t, int64(1), tokens[5].value.(*intValue).v)
}

func TestTokenizerLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"True", "true", true},
		{"False", "false", false},
		{"Null", "null", nil},
		{"Int", "42", int64(42)},
		{"NegativeInt", "-7", int64(-7)},
		{"Double", "3.14", 3.14},
		{"Exponent", "1e3", 1000.0},
		{"NegativeExponent", "2.5e-2", 0.025},
		{"QuotedString", `"hello"`, "hello"},
		{"EscapedString", `"a\nb\tA"`, "a\nb\tA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenizeAll(t, tt.input)
			require.Equal(t, TokenValue, tokens[1].tokenType, "token: %s", tokens[1])
			assert.Equal(t, tt.expected, tokens[1].value.Unwrapped())
		})
	}
}

func TestTokenizerUnquotedFallbacks(t *testing.T) {
	// Runs that look numeric but are not stay unquoted text.
	for _, input := range []string{"1.2.3", "10foo", "truest", "nullable", "-abc"} {
		t.Run(input, func(t *testing.T) {
			tokens := tokenizeAll(t, input)
			require.Equal(t, TokenUnquotedText, tokens[1].tokenType)
			assert.Equal(t, input, tokens[1].text)
		})
	}
}

func TestTokenizerComments(t *testing.T) {
	tokens := tokenizeAll(t, "a = 1 # trailing\n// whole line\nb = 2")
	var comments []string
	for _, tok := range tokens {
		if tok.tokenType == TokenComment {
			comments = append(comments, tok.text)
		}
	}
	assert.Equal(t, []string{"# trailing", "// whole line"}, comments)
}

func TestTokenizerMultiline(t *testing.T) {
	t.Run("NoEscapeProcessing", func(t *testing.T) {
		tokens := tokenizeAll(t, `"""a\nb"""`)
		require.Equal(t, TokenValue, tokens[1].tokenType)
		assert.Equal(t, `a\nb`, tokens[1].value.Unwrapped())
	})

	t.Run("ExtraQuotesBelongToContent", func(t *testing.T) {
		tokens := tokenizeAll(t, `"""content""""`)
		require.Equal(t, TokenValue, tokens[1].tokenType)
		assert.Equal(t, `content"`, tokens[1].value.Unwrapped())
	})

	t.Run("Unterminated", func(t *testing.T) {
		tokens := tokenizeAll(t, `"""never ends`)
		require.Equal(t, TokenProblem, tokens[1].tokenType)
	})
}

func TestTokenizerSubstitution(t *testing.T) {
	t.Run("Required", func(t *testing.T) {
		tokens := tokenizeAll(t, "${a.b}")
		require.Equal(t, TokenSubstitution, tokens[1].tokenType)
		assert.False(t, tokens[1].optional)
		assert.Equal(t, "${a.b}", tokens[1].Text())
	})

	t.Run("Optional", func(t *testing.T) {
		tokens := tokenizeAll(t, "${?a.b}")
		require.Equal(t, TokenSubstitution, tokens[1].tokenType)
		assert.True(t, tokens[1].optional)
		assert.Equal(t, "${?a.b}", tokens[1].Text())
	})

	t.Run("Unclosed", func(t *testing.T) {
		tokens := tokenizeAll(t, "${a.b")
		assert.Equal(t, TokenProblem, tokens[1].tokenType)
	})

	t.Run("NewlineInside", func(t *testing.T) {
		tokens := tokenizeAll(t, "${a\n}")
		assert.Equal(t, TokenProblem, tokens[1].tokenType)
	})
}

func TestTokenizerProblems(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ReservedDollar", "$x"},
		{"ReservedPlus", "+x"},
		{"ReservedBacktick", "`x"},
		{"UnterminatedString", `"never`},
		{"BadEscape", `"\q"`},
		{"NewlineInString", "\"broken\nstring\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenizeAll(t, tt.input)
			found := false
			for _, tok := range tokens {
				if tok.tokenType == TokenProblem {
					found = true
				}
			}
			assert.True(t, found, "expected a problem token in %q", tt.input)
		})
	}
}

func TestTokenizerLineNumbers(t *testing.T) {
	tokens := tokenizeAll(t, "a = 1\nb = 2\n\nc = 3")
	byText := make(map[string]int)
	for _, tok := range tokens {
		if tok.tokenType == TokenUnquotedText {
			byText[tok.text] = tok.origin.Line()
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 4}, byText)
}
