package hocon

import "strings"

// TokenType enumerates every kind of token the tokenizer can produce.
type TokenType int

const (
	TokenStart TokenType = iota
	TokenEnd
	TokenComma
	TokenEquals
	TokenColon
	TokenPlusEquals
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenSquare
	TokenCloseSquare
	TokenValue
	TokenNewline
	TokenUnquotedText
	TokenIgnoredWhitespace
	TokenSubstitution
	TokenComment
	TokenProblem
)

func (t TokenType) String() string {
	switch t {
	case TokenStart:
		return "start of file"
	case TokenEnd:
		return "end of file"
	case TokenComma:
		return "','"
	case TokenEquals:
		return "'='"
	case TokenColon:
		return "':'"
	case TokenPlusEquals:
		return "'+='"
	case TokenOpenCurly:
		return "'{'"
	case TokenCloseCurly:
		return "'}'"
	case TokenOpenSquare:
		return "'['"
	case TokenCloseSquare:
		return "']'"
	case TokenValue:
		return "value"
	case TokenNewline:
		return "newline"
	case TokenUnquotedText:
		return "unquoted text"
	case TokenIgnoredWhitespace:
		return "whitespace"
	case TokenSubstitution:
		return "substitution"
	case TokenComment:
		return "comment"
	case TokenProblem:
		return "problem"
	}
	return "unknown token"
}

// Token is one lexical unit of a document. It always keeps the exact source
// text it was produced from, so concatenating the text of every token of a
// document reproduces the input byte for byte.
type Token struct {
	tokenType TokenType
	origin    *Origin
	text      string

	// TokenValue only: the literal the token denotes.
	value Value

	// TokenSubstitution only: the tokens between ${ and }, and whether the
	// substitution was written ${?path}.
	expression []*Token
	optional   bool

	// TokenProblem only.
	problem string
}

// Type returns the token kind.
func (t *Token) Type() TokenType {
	return t.tokenType
}

// Origin returns the source location of the token.
func (t *Token) Origin() *Origin {
	return t.origin
}

// Text returns the exact source text of the token. For substitutions this
// includes the ${ } delimiters and the expression body.
func (t *Token) Text() string {
	if t.tokenType == TokenSubstitution {
		var sb strings.Builder
		if t.optional {
			sb.WriteString("${?")
		} else {
			sb.WriteString("${")
		}
		for _, inner := range t.expression {
			sb.WriteString(inner.Text())
		}
		sb.WriteString("}")
		return sb.String()
	}
	return t.text
}

func (t *Token) String() string {
	if t.tokenType == TokenProblem {
		return "problem: " + t.problem
	}
	if t.text != "" || t.tokenType == TokenSubstitution {
		return "'" + t.Text() + "'"
	}
	return t.tokenType.String()
}

// isValue reports whether the token can begin or continue a value:
// literals, unquoted text, and substitutions all qualify.
func (t *Token) isValue() bool {
	switch t.tokenType {
	case TokenValue, TokenUnquotedText, TokenSubstitution:
		return true
	}
	return false
}

// isNewlineOrEnd is used by the parser when deciding whether a field has been
// terminated without an explicit comma.
func (t *Token) isNewlineOrEnd() bool {
	return t.tokenType == TokenNewline || t.tokenType == TokenEnd
}

func newToken(tokenType TokenType, origin *Origin, text string) *Token {
	return &Token{tokenType: tokenType, origin: origin, text: text}
}

func newValueToken(origin *Origin, text string, value Value) *Token {
	return &Token{tokenType: TokenValue, origin: origin, text: text, value: value}
}

func newSubstitutionToken(origin *Origin, optional bool, expression []*Token) *Token {
	return &Token{tokenType: TokenSubstitution, origin: origin, optional: optional, expression: expression}
}

func newProblemToken(origin *Origin, text, problem string) *Token {
	return &Token{tokenType: TokenProblem, origin: origin, text: text, problem: problem}
}
