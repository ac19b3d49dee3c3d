package hocon

import "strings"

// documentParser builds the formatting-preserving AST from a token stream by
// top-down recursive descent. Semantic values are extracted from the AST in
// a second phase (valueExtractor in extract.go) so that a parsed document can be
// rendered byte-identically or handed to the include engine and resolver.
type documentParser struct {
	tokens []*Token
	pos    int
	syntax Syntax
	origin *Origin
}

func parseDocumentTokens(origin *Origin, tokens []*Token, syntax Syntax) (*rootNode, error) {
	p := &documentParser{tokens: tokens, syntax: syntax, origin: origin}
	return p.parseRoot()
}

func (p *documentParser) peek() *Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *documentParser) next() *Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// peekMeaningful looks past whitespace, newlines, and comments without
// consuming anything.
func (p *documentParser) peekMeaningful() *Token {
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].tokenType {
		case TokenIgnoredWhitespace, TokenNewline, TokenComment:
			continue
		default:
			return p.tokens[i]
		}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *documentParser) json() bool {
	return p.syntax == SyntaxJSON
}

func (p *documentParser) checkComment(tok *Token) error {
	if p.json() && tok.tokenType == TokenComment {
		return parseError(tok.origin, "comments are not allowed in JSON")
	}
	return nil
}

// parseRoot parses a whole document. The top level is an object body whose
// braces are optional, or an array. JSON requires the braces.
func (p *documentParser) parseRoot() (*rootNode, error) {
	root := &rootNode{origin: p.origin}
	sawContent := false
	for {
		tok := p.next()
		switch tok.tokenType {
		case TokenStart:
			continue
		case TokenEnd:
			if !sawContent {
				// An empty document is an empty object.
				obj := &objectNode{origin: p.origin}
				root.append(obj)
			}
			return root, nil
		case TokenIgnoredWhitespace, TokenNewline, TokenComment:
			if err := p.checkComment(tok); err != nil {
				return nil, err
			}
			root.appendToken(tok)
		case TokenOpenCurly:
			if sawContent {
				return nil, parseError(tok.origin, "document has text after the root value")
			}
			obj, err := p.parseObjectBody(tok)
			if err != nil {
				return nil, err
			}
			root.append(obj)
			root.braced = true
			sawContent = true
		case TokenOpenSquare:
			if sawContent {
				return nil, parseError(tok.origin, "document has text after the root value")
			}
			arr, err := p.parseArray(tok)
			if err != nil {
				return nil, err
			}
			root.append(arr)
			root.braced = true
			root.array = true
			sawContent = true
		case TokenProblem:
			return nil, parseError(tok.origin, "%s", tok.problem)
		default:
			if sawContent {
				return nil, parseError(tok.origin, "document has text after the root value")
			}
			if p.json() {
				return nil, parseError(tok.origin, "JSON document must start with '{' or '[', got %s", tok)
			}
			// Unbraced top-level object body.
			p.pos--
			obj, err := p.parseUnbracedObject()
			if err != nil {
				return nil, err
			}
			root.append(obj)
			sawContent = true
		}
	}
}

// parseUnbracedObject parses top-level fields with no surrounding braces,
// running to end of input.
func (p *documentParser) parseUnbracedObject() (*objectNode, error) {
	obj := &objectNode{origin: p.origin}
	return obj, p.parseObjectContent(obj, false)
}

// parseObjectBody parses from an already-consumed '{' through the matching
// '}'.
func (p *documentParser) parseObjectBody(open *Token) (*objectNode, error) {
	obj := &objectNode{origin: open.origin}
	obj.appendToken(open)
	return obj, p.parseObjectContent(obj, true)
}

// parseObjectContent parses fields until '}' (braced) or end of input.
func (p *documentParser) parseObjectContent(obj *objectNode, braced bool) error {
	afterField := false
	afterComma := false
	for {
		tok := p.next()
		switch tok.tokenType {
		case TokenIgnoredWhitespace, TokenComment:
			if err := p.checkComment(tok); err != nil {
				return err
			}
			obj.appendToken(tok)
		case TokenNewline:
			obj.appendToken(tok)
			afterField = false
		case TokenComma:
			if !afterField {
				return parseError(tok.origin, "unexpected comma: expecting a field, '}', or a value here")
			}
			obj.appendToken(tok)
			afterField = false
			afterComma = true
		case TokenCloseCurly:
			if !braced {
				return parseError(tok.origin, "unbalanced '}' with no matching '{'")
			}
			if p.json() && afterComma {
				return parseError(tok.origin, "trailing comma before '}' is not allowed in JSON")
			}
			obj.appendToken(tok)
			return nil
		case TokenEnd:
			if braced {
				return parseError(tok.origin, "object is missing its closing '}'")
			}
			return nil
		case TokenProblem:
			return parseError(tok.origin, "%s", tok.problem)
		default:
			if afterField {
				return parseError(tok.origin, "expecting a comma or newline after a field's value, got %s", tok)
			}
			if p.json() && !afterComma && len(childFields(obj)) > 0 {
				return parseError(tok.origin, "JSON object fields must be separated by commas")
			}
			if p.isIncludeKeyword(tok) {
				inc, err := p.parseInclude(tok)
				if err != nil {
					return err
				}
				obj.append(inc)
			} else {
				field, err := p.parseField(tok)
				if err != nil {
					return err
				}
				obj.append(field)
			}
			afterField = true
			afterComma = false
		}
	}
}

func childFields(obj *objectNode) []*fieldNode {
	var out []*fieldNode
	for _, c := range obj.children {
		if f, ok := c.(*fieldNode); ok {
			out = append(out, f)
		}
	}
	return out
}

// isIncludeKeyword reports whether an unquoted "include" token starts an
// include directive rather than a field named include. It does when the next
// meaningful token could be an include argument: a quoted string or an
// unquoted file(/url(/classpath(/required( form.
func (p *documentParser) isIncludeKeyword(tok *Token) bool {
	if p.json() || tok.tokenType != TokenUnquotedText || tok.text != "include" {
		return false
	}
	nxt := p.peekMeaningful()
	switch nxt.tokenType {
	case TokenValue:
		_, isString := nxt.value.(*stringValue)
		return isString && strings.HasPrefix(nxt.text, `"`)
	case TokenUnquotedText:
		for _, prefix := range []string{"file(", "url(", "classpath(", "required("} {
			if strings.HasPrefix(nxt.text, prefix) {
				return true
			}
		}
	}
	return false
}

// parseInclude parses an include directive. The argument forms are a bare
// quoted string, file("..."), url("..."), classpath("..."), and
// required(...) wrapping any of the others.
func (p *documentParser) parseInclude(keyword *Token) (*includeNode, error) {
	inc := &includeNode{origin: keyword.origin}
	inc.appendToken(keyword)

	var prefix, suffix strings.Builder
	var nameTok *Token
	for {
		tok := p.peek()
		if tok.isNewlineOrEnd() || tok.tokenType == TokenComma ||
			tok.tokenType == TokenCloseCurly || tok.tokenType == TokenComment {
			break
		}
		p.next()
		inc.appendToken(tok)
		switch tok.tokenType {
		case TokenIgnoredWhitespace:
			continue
		case TokenValue:
			s, ok := tok.value.(*stringValue)
			if !ok || nameTok != nil {
				return nil, parseError(tok.origin, "include requires a single quoted string argument, got %s", tok)
			}
			nameTok = tok
			inc.name = s.v
		case TokenUnquotedText:
			if nameTok == nil {
				prefix.WriteString(tok.text)
			} else {
				suffix.WriteString(tok.text)
			}
		default:
			return nil, parseError(tok.origin, "unexpected token in include directive: %s", tok)
		}
	}
	if nameTok == nil {
		return nil, parseError(keyword.origin, "include directive is missing its quoted argument")
	}

	pre := prefix.String()
	if rest, ok := strings.CutPrefix(pre, "required("); ok {
		inc.required = true
		pre = rest
	}
	expectedSuffix := ")"
	switch pre {
	case "":
		inc.kind = includeHeuristic
		if !inc.required {
			expectedSuffix = ""
		}
	case "file(":
		inc.kind = includeFile
	case "url(":
		inc.kind = includeURL
	case "classpath(":
		inc.kind = includeClasspath
	default:
		return nil, parseError(keyword.origin, "invalid include argument form 'include %s...'", prefix.String())
	}
	if inc.required && pre != "" {
		expectedSuffix = "))"
	}
	if suffix.String() != expectedSuffix {
		return nil, parseError(keyword.origin, "include argument has mismatched parentheses")
	}
	return inc, nil
}

// parseField parses one key/value entry starting at the first key token.
func (p *documentParser) parseField(first *Token) (*fieldNode, error) {
	field := &fieldNode{origin: first.origin}

	// Collect the key path: value/unquoted-text tokens with any interior
	// whitespace, up to a separator or an open brace.
	var pathTokens []*Token
	tok := first
	for {
		switch tok.tokenType {
		case TokenValue, TokenUnquotedText, TokenIgnoredWhitespace:
			if p.json() && tok.tokenType == TokenUnquotedText {
				return nil, parseError(tok.origin, "JSON object keys must be quoted strings")
			}
			pathTokens = append(pathTokens, tok)
		default:
			return nil, parseError(tok.origin, "invalid token in object key: %s", tok)
		}
		nxt := p.peek()
		if nxt.tokenType == TokenEquals || nxt.tokenType == TokenColon ||
			nxt.tokenType == TokenPlusEquals || nxt.tokenType == TokenOpenCurly {
			break
		}
		if nxt.isNewlineOrEnd() || nxt.tokenType == TokenComma || nxt.tokenType == TokenCloseCurly {
			return nil, parseError(nxt.origin, "key '%s' is not followed by a value or separator", renderTokens(pathTokens))
		}
		tok = p.next()
	}

	path, err := pathFromTokens(first.origin, pathTokens)
	if err != nil {
		return nil, err
	}
	field.path = &pathNode{tokens: pathTokens, path: path}
	field.append(field.path)
	if p.json() && len(path) != 1 {
		return nil, parseError(first.origin, "JSON object keys cannot be paths: %q", path.String())
	}

	// Separator, or an object value with no separator.
	sep := p.peek()
	switch sep.tokenType {
	case TokenEquals, TokenColon, TokenPlusEquals:
		if p.json() && sep.tokenType != TokenColon {
			return nil, parseError(sep.origin, "JSON requires ':' between key and value, got %s", sep)
		}
		p.next()
		field.sep = sep.tokenType
		field.appendToken(sep)
	case TokenOpenCurly:
		// a { ... } form; parseFieldValue consumes the brace.
		if p.json() {
			return nil, parseError(sep.origin, "JSON requires ':' between key and value, got %s", sep)
		}
	default:
		return nil, parseError(sep.origin, "expecting '=', ':', '+=', or '{' after key '%s', got %s", path.String(), sep)
	}

	value, trailing, err := p.parseFieldValue(field, path)
	if err != nil {
		return nil, err
	}
	field.value = value
	field.append(value)
	for _, ws := range trailing {
		field.appendToken(ws)
	}
	return field, nil
}

// parseFieldValue parses a field's value: one or more adjacent value parts
// on the same logical line. More than one part becomes a concatenation node.
// Leading whitespace attaches to the field, trailing whitespace stays for
// the caller, whitespace between parts belongs to the concatenation.
func (p *documentParser) parseFieldValue(field *fieldNode, path Path) (Node, []*Token, error) {
	var parts []Node
	var pendingWs []*Token
	for {
		tok := p.peek()
		switch tok.tokenType {
		case TokenIgnoredWhitespace:
			p.next()
			if len(parts) == 0 {
				field.appendToken(tok)
			} else {
				pendingWs = append(pendingWs, tok)
			}
			continue
		case TokenValue, TokenUnquotedText, TokenSubstitution:
			if p.json() {
				if tok.tokenType != TokenValue {
					return nil, nil, parseError(tok.origin, "%s is not allowed in JSON", tok.tokenType)
				}
				if len(parts) > 0 {
					return nil, nil, parseError(tok.origin, "value concatenation is not allowed in JSON")
				}
			}
			p.next()
			parts = flushWhitespace(parts, &pendingWs)
			parts = append(parts, &valueNode{tok: tok})
			continue
		case TokenOpenCurly:
			if p.json() && len(parts) > 0 {
				return nil, nil, parseError(tok.origin, "value concatenation is not allowed in JSON")
			}
			p.next()
			obj, err := p.parseObjectBody(tok)
			if err != nil {
				return nil, nil, err
			}
			parts = flushWhitespace(parts, &pendingWs)
			parts = append(parts, obj)
			continue
		case TokenOpenSquare:
			if p.json() && len(parts) > 0 {
				return nil, nil, parseError(tok.origin, "value concatenation is not allowed in JSON")
			}
			p.next()
			arr, err := p.parseArray(tok)
			if err != nil {
				return nil, nil, err
			}
			parts = flushWhitespace(parts, &pendingWs)
			parts = append(parts, arr)
			continue
		case TokenProblem:
			return nil, nil, parseError(tok.origin, "%s", tok.problem)
		}
		break
	}
	switch len(parts) {
	case 0:
		return nil, nil, parseError(p.peek().origin, "expecting a value for key '%s', got %s", path.String(), p.peek())
	case 1:
		return parts[0], pendingWs, nil
	default:
		concat := &concatNode{origin: firstNodeOrigin(parts)}
		concat.children = parts
		return concat, pendingWs, nil
	}
}

// flushWhitespace moves held whitespace tokens into the part list; used so
// whitespace between concatenation parts is preserved inside the
// concatenation.
func flushWhitespace(parts []Node, pendingWs *[]*Token) []Node {
	for _, ws := range *pendingWs {
		parts = append(parts, &tokenNode{tok: ws})
	}
	*pendingWs = nil
	return parts
}

func firstNodeOrigin(parts []Node) *Origin {
	for _, part := range parts {
		switch n := part.(type) {
		case *valueNode:
			return n.tok.origin
		case *objectNode:
			return n.origin
		case *arrayNode:
			return n.origin
		}
	}
	return nil
}

// parseArray parses from an already-consumed '[' through the matching ']'.
func (p *documentParser) parseArray(open *Token) (*arrayNode, error) {
	arr := &arrayNode{origin: open.origin}
	arr.appendToken(open)
	afterElement := false
	afterComma := false
	for {
		tok := p.peek()
		switch tok.tokenType {
		case TokenIgnoredWhitespace, TokenComment:
			if err := p.checkComment(tok); err != nil {
				return nil, err
			}
			p.next()
			arr.appendToken(tok)
		case TokenNewline:
			p.next()
			arr.appendToken(tok)
			afterElement = false
		case TokenComma:
			if !afterElement {
				return nil, parseError(tok.origin, "unexpected comma in array: expecting a value or ']'")
			}
			p.next()
			arr.appendToken(tok)
			afterElement = false
			afterComma = true
		case TokenCloseSquare:
			if p.json() && afterComma {
				return nil, parseError(tok.origin, "trailing comma before ']' is not allowed in JSON")
			}
			p.next()
			arr.appendToken(tok)
			return arr, nil
		case TokenEnd:
			return nil, parseError(tok.origin, "array is missing its closing ']'")
		case TokenProblem:
			return nil, parseError(tok.origin, "%s", tok.problem)
		case TokenValue, TokenUnquotedText, TokenSubstitution, TokenOpenCurly, TokenOpenSquare:
			if afterElement {
				return nil, parseError(tok.origin, "array elements must be separated by a comma or newline, got %s", tok)
			}
			if p.json() && !afterComma && len(arrayElements(arr)) > 0 {
				return nil, parseError(tok.origin, "JSON array elements must be separated by commas")
			}
			element, err := p.parseArrayElement()
			if err != nil {
				return nil, err
			}
			arr.append(element)
			afterElement = true
			afterComma = false
		default:
			return nil, parseError(tok.origin, "unexpected token in array: %s", tok)
		}
	}
}

func arrayElements(arr *arrayNode) []Node {
	var out []Node
	for _, c := range arr.children {
		if _, isToken := c.(*tokenNode); !isToken {
			out = append(out, c)
		}
	}
	return out
}

// parseArrayElement parses one array element, which like a field value may
// be a concatenation of adjacent parts on one line.
func (p *documentParser) parseArrayElement() (Node, error) {
	var parts []Node
	var pendingWs []*Token
	for {
		tok := p.peek()
		switch tok.tokenType {
		case TokenIgnoredWhitespace:
			if len(parts) == 0 {
				return nil, bugError("array element starts with whitespace")
			}
			p.next()
			pendingWs = append(pendingWs, tok)
			continue
		case TokenValue, TokenUnquotedText, TokenSubstitution:
			if p.json() {
				if tok.tokenType != TokenValue {
					return nil, parseError(tok.origin, "%s is not allowed in JSON", tok.tokenType)
				}
				if len(parts) > 0 {
					return nil, parseError(tok.origin, "value concatenation is not allowed in JSON")
				}
			}
			p.next()
			parts = flushWhitespace(parts, &pendingWs)
			parts = append(parts, &valueNode{tok: tok})
			continue
		case TokenOpenCurly:
			if p.json() && len(parts) > 0 {
				return nil, parseError(tok.origin, "value concatenation is not allowed in JSON")
			}
			p.next()
			obj, err := p.parseObjectBody(tok)
			if err != nil {
				return nil, err
			}
			parts = flushWhitespace(parts, &pendingWs)
			parts = append(parts, obj)
			continue
		case TokenOpenSquare:
			if p.json() && len(parts) > 0 {
				return nil, parseError(tok.origin, "value concatenation is not allowed in JSON")
			}
			p.next()
			inner, err := p.parseArray(tok)
			if err != nil {
				return nil, err
			}
			parts = flushWhitespace(parts, &pendingWs)
			parts = append(parts, inner)
			continue
		}
		break
	}
	// Un-consume trailing whitespace back onto the element's parent by
	// rewinding; simplest is to keep it inside the element, which still
	// renders identically.
	parts = flushWhitespace(parts, &pendingWs)
	if len(parts) == 1 {
		return parts[0], nil
	}
	concat := &concatNode{origin: firstNodeOrigin(parts)}
	concat.children = parts
	return concat, nil
}

func renderTokens(tokens []*Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text())
	}
	return strings.TrimSpace(sb.String())
}
