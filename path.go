package hocon

import (
	"strconv"
	"strings"
)

// Path is an ordered sequence of key segments addressing a value inside
// nested objects. Paths are parsed from dotted key notation where quoted
// segments keep their dots: a.b."c.d".e has four segments.
type Path []string

// NewPath builds a path from explicit segments.
func NewPath(segments ...string) Path {
	return Path(segments)
}

// ParsePath parses dotted key-path notation into a Path. Quoted segments are
// taken literally; numeric-looking segments stay strings.
func ParsePath(s string) (Path, error) {
	origin := NewOrigin("path parameter")
	tokens, err := tokenizeString(origin, s)
	if err != nil {
		return nil, err
	}
	return pathFromTokens(origin, tokens)
}

// MustParsePath is ParsePath, panicking on malformed input.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// pathFromTokens assembles a path from a token run, typically a substitution
// expression body or a field key. Dots inside unquoted text separate
// segments; a quoted string is always a single literal segment.
func pathFromTokens(origin *Origin, tokens []*Token) (Path, error) {
	var segments []string
	var current strings.Builder
	hadContent := false
	var pendingWhitespace string

	closeSegment := func(tok *Token) error {
		if !hadContent {
			return parseError(origin, "path has a leading, trailing, or doubled '.' near %s", tok)
		}
		segments = append(segments, current.String())
		current.Reset()
		hadContent = false
		pendingWhitespace = ""
		return nil
	}

	appendText := func(text string) {
		if hadContent && pendingWhitespace != "" {
			current.WriteString(pendingWhitespace)
		}
		pendingWhitespace = ""
		current.WriteString(text)
		hadContent = true
	}

	for _, tok := range tokens {
		switch tok.tokenType {
		case TokenStart, TokenEnd, TokenNewline:
			continue
		case TokenIgnoredWhitespace:
			// Interior whitespace joins adjacent pieces of a segment;
			// leading and trailing whitespace is dropped.
			if hadContent {
				pendingWhitespace += tok.text
			}
		case TokenValue:
			if s, ok := tok.value.(*stringValue); ok && strings.HasPrefix(tok.text, `"`) {
				// Quoted: one literal segment piece, dots and all.
				appendText(s.v)
				continue
			}
			// Numbers, booleans, and null act like unquoted text in a path.
			if err := splitOnDots(tok, tok.Text(), appendText, closeSegment); err != nil {
				return nil, err
			}
		case TokenUnquotedText:
			if err := splitOnDots(tok, tok.text, appendText, closeSegment); err != nil {
				return nil, err
			}
		default:
			return nil, parseError(tok.origin, "token not allowed in path expression: %s", tok)
		}
	}
	if err := closeSegment(newToken(TokenEnd, origin, "")); err != nil {
		return nil, err
	}
	return Path(segments), nil
}

func splitOnDots(tok *Token, text string, appendText func(string), closeSegment func(*Token) error) error {
	for {
		i := strings.IndexByte(text, '.')
		if i < 0 {
			if text != "" {
				appendText(text)
			}
			return nil
		}
		if i > 0 {
			appendText(text[:i])
		}
		if err := closeSegment(tok); err != nil {
			return err
		}
		text = text[i+1:]
	}
}

// String renders the canonical form: segments joined with dots, quoting any
// segment that contains reserved characters.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		if needsQuotes(seg) {
			sb.WriteString(strconv.Quote(seg))
		} else {
			sb.WriteString(seg)
		}
	}
	return sb.String()
}

// needsQuotes reports whether a segment must be quoted in canonical form.
func needsQuotes(segment string) bool {
	if segment == "" || segment == "true" || segment == "false" || segment == "null" {
		return true
	}
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return true
		}
	}
	return false
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// StartsWith reports whether prefix is a (possibly equal) prefix of p.
func (p Path) StartsWith(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// First returns the first segment.
func (p Path) First() string {
	return p[0]
}

// Rest returns the path without its first segment.
func (p Path) Rest() Path {
	return p[1:]
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	return p[:len(p)-1]
}

// Last returns the final segment.
func (p Path) Last() string {
	return p[len(p)-1]
}

// Child returns p extended with the given segment.
func (p Path) Child(segment string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, segment)
}
