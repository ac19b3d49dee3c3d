package hocon

import "strings"

// Node is one node of the formatting-preserving syntax tree. Every token
// consumed by the parser is attached to exactly one node, so rendering the
// root reproduces the document byte for byte.
type Node interface {
	render(sb *strings.Builder)
}

// tokenNode wraps a single token: whitespace, newline, comment, punctuation,
// or a literal value.
type tokenNode struct {
	tok *Token
}

func (n *tokenNode) render(sb *strings.Builder) {
	sb.WriteString(n.tok.Text())
}

// pathNode is a field key: the raw tokens plus the parsed path.
type pathNode struct {
	tokens []*Token
	path   Path
}

func (n *pathNode) render(sb *strings.Builder) {
	for _, tok := range n.tokens {
		sb.WriteString(tok.Text())
	}
}

// containerNode renders an ordered list of children. It backs the root,
// object, array, field, and concatenation variants.
type containerNode struct {
	children []Node
}

func (n *containerNode) render(sb *strings.Builder) {
	for _, c := range n.children {
		c.render(sb)
	}
}

func (n *containerNode) append(c Node) {
	n.children = append(n.children, c)
}

func (n *containerNode) appendToken(tok *Token) {
	n.children = append(n.children, &tokenNode{tok: tok})
}

// rootNode is the whole document: leading trivia, the top-level object or
// array content, trailing trivia.
type rootNode struct {
	containerNode
	origin *Origin
	// braced is true when the top level was written with explicit { } or [ ].
	braced bool
	// array is true when the top level is an array rather than an object.
	array bool
}

// objectNode is a { } object body, or the synthetic top-level object of an
// unbraced document.
type objectNode struct {
	containerNode
	origin *Origin
}

// arrayNode is a [ ] array.
type arrayNode struct {
	containerNode
	origin *Origin
}

// fieldNode is one key/value entry of an object, including its separator and
// surrounding same-line trivia.
type fieldNode struct {
	containerNode
	origin *Origin
	path   *pathNode
	// sep is TokenEquals, TokenColon, or TokenPlusEquals; zero when the
	// value is an object written without a separator (a { b = 1 }).
	sep TokenType
	// value is the objectNode, arrayNode, concatNode, or valueNode holding
	// the field's value.
	value Node
}

// valueNode is a single simple value: a literal token or a substitution.
type valueNode struct {
	tok *Token
}

func (n *valueNode) render(sb *strings.Builder) {
	sb.WriteString(n.tok.Text())
}

// concatNode is a run of adjacent values with the whitespace between them.
type concatNode struct {
	containerNode
	origin *Origin
}

// includeKind distinguishes the include argument forms.
type includeKind int

const (
	includeHeuristic includeKind = iota
	includeFile
	includeURL
	includeClasspath
)

// includeNode is an `include` directive inside an object body.
type includeNode struct {
	containerNode
	origin   *Origin
	kind     includeKind
	name     string
	required bool
}

// renderNode renders any node to a string.
func renderNode(n Node) string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}
