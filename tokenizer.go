package hocon

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenizer turns a document into a token stream. It never fails: malformed
// input produces TokenProblem tokens so the parser can report a precise
// diagnostic. Every token keeps its exact source text, so the concatenated
// text of the stream reproduces the input.
type tokenizer struct {
	origin *Origin
	input  string
	pos    int
	line   int
	done   bool
	queued []*Token
}

func newTokenizer(origin *Origin, input string) *tokenizer {
	t := &tokenizer{origin: origin, input: input, line: 1}
	t.queued = append(t.queued, newToken(TokenStart, origin.WithLine(1), ""))
	return t
}

// tokenizeString runs the tokenizer to completion. The returned slice starts
// with TokenStart and ends with TokenEnd; problem tokens are converted to a
// parse error here since callers of this helper want a clean stream.
func tokenizeString(origin *Origin, input string) ([]*Token, error) {
	t := newTokenizer(origin, input)
	var tokens []*Token
	for {
		tok := t.next()
		if tok.tokenType == TokenProblem {
			return nil, parseError(tok.origin, "%s", tok.problem)
		}
		tokens = append(tokens, tok)
		if tok.tokenType == TokenEnd {
			return tokens, nil
		}
	}
}

// next returns the next token in the stream. After TokenEnd it keeps
// returning TokenEnd.
func (t *tokenizer) next() *Token {
	if len(t.queued) > 0 {
		tok := t.queued[0]
		t.queued = t.queued[1:]
		return tok
	}
	if t.pos >= len(t.input) {
		t.done = true
		return newToken(TokenEnd, t.tokenOrigin(), "")
	}
	return t.pullToken()
}

func (t *tokenizer) tokenOrigin() *Origin {
	return t.origin.WithLine(t.line)
}

func (t *tokenizer) peekByte() byte {
	return t.input[t.pos]
}

func (t *tokenizer) peekByteAt(offset int) (byte, bool) {
	if t.pos+offset >= len(t.input) {
		return 0, false
	}
	return t.input[t.pos+offset], true
}

func (t *tokenizer) pullToken() *Token {
	origin := t.tokenOrigin()
	c := t.peekByte()

	switch c {
	case '\n':
		t.pos++
		t.line++
		return newToken(TokenNewline, origin, "\n")
	case '{':
		t.pos++
		return newToken(TokenOpenCurly, origin, "{")
	case '}':
		t.pos++
		return newToken(TokenCloseCurly, origin, "}")
	case '[':
		t.pos++
		return newToken(TokenOpenSquare, origin, "[")
	case ']':
		t.pos++
		return newToken(TokenCloseSquare, origin, "]")
	case ',':
		t.pos++
		return newToken(TokenComma, origin, ",")
	case '=':
		t.pos++
		return newToken(TokenEquals, origin, "=")
	case ':':
		t.pos++
		return newToken(TokenColon, origin, ":")
	case '+':
		if b, ok := t.peekByteAt(1); ok && b == '=' {
			t.pos += 2
			return newToken(TokenPlusEquals, origin, "+=")
		}
		t.pos++
		return newProblemToken(origin, "+", "'+' not followed by '=' (reserved character '+' is not allowed outside quotes)")
	case '"':
		return t.pullQuotedString(origin)
	case '$':
		return t.pullSubstitution(origin)
	case '#':
		return t.pullComment(origin, 1)
	case '/':
		if b, ok := t.peekByteAt(1); ok && b == '/' {
			return t.pullComment(origin, 2)
		}
	}

	r, size := utf8.DecodeRuneInString(t.input[t.pos:])
	if isHoconWhitespace(r) {
		return t.pullWhitespace(origin)
	}
	if c == '-' || (c >= '0' && c <= '9') {
		return t.pullNumber(origin)
	}
	if isReservedChar(r) {
		t.pos += size
		return newProblemToken(origin, string(r), "reserved character '"+string(r)+"' is not allowed outside quotes")
	}
	return t.pullUnquotedText(origin)
}

// pullWhitespace consumes a run of non-newline whitespace.
func (t *tokenizer) pullWhitespace(origin *Origin) *Token {
	start := t.pos
	for t.pos < len(t.input) {
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if !isHoconWhitespace(r) {
			break
		}
		t.pos += size
	}
	return newToken(TokenIgnoredWhitespace, origin, t.input[start:t.pos])
}

// pullComment consumes "#..." or "//..." to end of line, excluding the
// newline itself.
func (t *tokenizer) pullComment(origin *Origin, markerLen int) *Token {
	start := t.pos
	t.pos += markerLen
	for t.pos < len(t.input) && t.input[t.pos] != '\n' {
		t.pos++
	}
	return newToken(TokenComment, origin, t.input[start:t.pos])
}

// pullUnquotedText consumes a run of characters allowed outside quotes. The
// run ends at whitespace or any reserved character. Runs exactly matching
// true/false/null become literal value tokens.
func (t *tokenizer) pullUnquotedText(origin *Origin) *Token {
	start := t.pos
	for t.pos < len(t.input) {
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if isHoconWhitespace(r) || r == '\n' || isReservedChar(r) {
			break
		}
		if r == '/' {
			if b, ok := t.peekByteAt(1); ok && b == '/' {
				break
			}
		}
		t.pos += size
	}
	text := t.input[start:t.pos]
	switch text {
	case "true":
		return newValueToken(origin, text, newBool(origin, true))
	case "false":
		return newValueToken(origin, text, newBool(origin, false))
	case "null":
		return newValueToken(origin, text, newNull(origin))
	}
	return newToken(TokenUnquotedText, origin, text)
}

// pullNumber consumes a JSON number. A sign is only valid leading or after
// an exponent marker. If the consumed run fails to parse as a number but
// contains only characters legal in unquoted text, the run continues as
// unquoted text instead (e.g. "1.2.3" or "10foo").
func (t *tokenizer) pullNumber(origin *Origin) *Token {
	start := t.pos
	sawDotOrExp := false
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == 'e' || c == 'E':
			sawDotOrExp = true
		case c == '-' || c == '+':
			if t.pos != start {
				prev := t.input[t.pos-1]
				if prev != 'e' && prev != 'E' {
					goto done
				}
			}
		default:
			goto done
		}
		t.pos++
	}
done:
	// A number immediately followed by more unquoted characters is one
	// unquoted text run, e.g. "10foo" or "127.0.0.1a".
	if t.pos < len(t.input) {
		r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
		if !isHoconWhitespace(r) && r != '\n' && !isReservedChar(r) && !(r == '/' && t.hasLineComment()) {
			t.pos = start
			return t.pullUnquotedText(origin)
		}
	}
	text := t.input[start:t.pos]
	if sawDotOrExp {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return newValueToken(origin, text, newDouble(origin, f))
		}
	} else {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return newValueToken(origin, text, newInt(origin, i))
		}
		// Integers wider than 64 bits keep their digits as a double.
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return newValueToken(origin, text, newDouble(origin, f))
		}
	}
	// Not a valid number: fall back to unquoted text if legal.
	for _, r := range text {
		if isReservedChar(r) {
			return newProblemToken(origin, text, "invalid number: '"+text+"'")
		}
	}
	t.pos = start
	return t.pullUnquotedText(origin)
}

func (t *tokenizer) hasLineComment() bool {
	b, ok := t.peekByteAt(1)
	return ok && b == '/'
}

// pullQuotedString consumes a "..." string with JSON escapes, or a
// triple-quoted multiline string copied verbatim.
func (t *tokenizer) pullQuotedString(origin *Origin) *Token {
	if b1, ok1 := t.peekByteAt(1); ok1 && b1 == '"' {
		if b2, ok2 := t.peekByteAt(2); ok2 && b2 == '"' {
			return t.pullMultilineString(origin)
		}
	}
	start := t.pos
	t.pos++ // opening quote
	var sb strings.Builder
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == '"' {
			t.pos++
			return newValueToken(origin, t.input[start:t.pos], newString(origin, sb.String()))
		}
		if c == '\n' {
			break
		}
		if c == '\\' {
			t.pos++
			if t.pos >= len(t.input) {
				break
			}
			esc := t.input[t.pos]
			t.pos++
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				if t.pos+4 > len(t.input) {
					return newProblemToken(origin, t.input[start:t.pos], "truncated \\u escape in quoted string")
				}
				code, err := strconv.ParseUint(t.input[t.pos:t.pos+4], 16, 32)
				if err != nil {
					return newProblemToken(origin, t.input[start:t.pos+4], "malformed \\u escape in quoted string")
				}
				t.pos += 4
				sb.WriteRune(rune(code))
			default:
				return newProblemToken(origin, t.input[start:t.pos], "invalid escape sequence '\\"+string(esc)+"' in quoted string")
			}
			continue
		}
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		sb.WriteRune(r)
		t.pos += size
	}
	return newProblemToken(origin, t.input[start:t.pos], "unterminated quoted string")
}

// pullMultilineString consumes """...""" with no escape processing. Any
// quotes beyond the closing three belong to the string content.
func (t *tokenizer) pullMultilineString(origin *Origin) *Token {
	start := t.pos
	t.pos += 3
	contentStart := t.pos
	idx := strings.Index(t.input[t.pos:], `"""`)
	if idx < 0 {
		t.pos = len(t.input)
		return newProblemToken(origin, t.input[start:], "unterminated multiline string")
	}
	end := t.pos + idx + 3
	// Trailing extra quotes extend the content.
	for end < len(t.input) && t.input[end] == '"' {
		end++
	}
	content := t.input[contentStart : end-3]
	t.line += strings.Count(t.input[start:end], "\n")
	t.pos = end
	return newValueToken(origin, t.input[start:end], newString(origin, content))
}

// pullSubstitution consumes ${path} or ${?path}. The body is tokenized with
// the same rules as the surrounding document and stored on the token for the
// parser to assemble into a path.
func (t *tokenizer) pullSubstitution(origin *Origin) *Token {
	if b, ok := t.peekByteAt(1); !ok || b != '{' {
		t.pos++
		return newProblemToken(origin, "$", "'$' not followed by '{' (reserved character '$' is not allowed outside quotes)")
	}
	t.pos += 2
	optional := false
	if b, ok := t.peekByteAt(0); ok && b == '?' {
		optional = true
		t.pos++
	}
	var expression []*Token
	for {
		if t.pos >= len(t.input) {
			return newProblemToken(origin, "", "substitution ${ is missing its closing '}'")
		}
		if t.peekByte() == '}' {
			t.pos++
			return newSubstitutionToken(origin, optional, expression)
		}
		if t.peekByte() == '\n' {
			return newProblemToken(origin, "", "newline inside substitution ${ } expression")
		}
		inner := t.pullToken()
		if inner.tokenType == TokenProblem {
			return inner
		}
		expression = append(expression, inner)
	}
}

// isHoconWhitespace reports non-newline whitespace. Newlines are significant
// separators and get their own token kind.
func isHoconWhitespace(r rune) bool {
	return r != '\n' && (unicode.IsSpace(r) || r == '\uFEFF')
}

// isReservedChar reports characters forbidden in unquoted text.
func isReservedChar(r rune) bool {
	switch r {
	case '$', '"', '{', '}', '[', ']', ':', '=', ',', '+', '#', '`', '^', '?', '!', '@', '*', '&', '\\':
		return true
	}
	return false
}
