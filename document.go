package hocon

import "strings"

// Document is a parsed configuration document that preserves all original
// formatting: whitespace, comments, and the exact spelling of every value.
// Rendering an unmodified Document reproduces the input byte for byte. Edit
// operations return new Documents; nodes are immutable and shared by
// reference between versions.
type Document struct {
	root   *rootNode
	syntax Syntax
}

// ParseDocumentString parses an in-memory document with the given options.
func ParseDocumentString(text string, opts ParseOptions) (*Document, error) {
	return ParseableString(text, opts).ParseDocument()
}

// ParseDocumentFile parses the named file into a document.
func ParseDocumentFile(filePath string, opts ParseOptions) (*Document, error) {
	return ParseableFile(filePath, opts).ParseDocument()
}

// Render reproduces the document text, including all whitespace and
// comments.
func (d *Document) Render() string {
	return renderNode(d.root)
}

// Value extracts the document's semantic value tree without evaluating
// includes or substitutions.
func (d *Document) Value() (Value, error) {
	extractor := &valueExtractor{}
	return extractor.extractRoot(d.root)
}

func (d *Document) topObject() *objectNode {
	for _, child := range d.root.children {
		if obj, ok := child.(*objectNode); ok {
			return obj
		}
	}
	return nil
}

// HasValue reports whether a field exists at the path, by syntax alone.
func (d *Document) HasValue(pathStr string) bool {
	path, err := ParsePath(pathStr)
	if err != nil {
		return false
	}
	obj := d.topObject()
	return obj != nil && findFieldNode(obj, path) != nil
}

func findFieldNode(obj *objectNode, path Path) *fieldNode {
	for _, child := range obj.children {
		field, ok := child.(*fieldNode)
		if !ok {
			continue
		}
		if field.path.path.Equal(path) {
			return field
		}
		if path.StartsWith(field.path.path) {
			if inner, ok := field.value.(*objectNode); ok {
				if found := findFieldNode(inner, path[len(field.path.path):]); found != nil {
					return found
				}
			}
		}
	}
	return nil
}

// SetValue returns a new document with the field at path replaced by the
// given configuration text, or appended at the end if absent. The text may
// be any value expression, including objects and substitutions.
func (d *Document) SetValue(pathStr, configText string) (*Document, error) {
	if d.root.array {
		return nil, wrongTypeError(d.root.origin, pathStr, "object document", "array document")
	}
	path, err := ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	replacement, err := parseValueText(d.root.origin, configText, d.syntax)
	if err != nil {
		return nil, err
	}

	obj := d.topObject()
	if obj == nil {
		obj = &objectNode{origin: d.root.origin}
	}
	newObj, replaced, err := replaceInObject(obj, path, replacement)
	if err != nil {
		return nil, err
	}
	if !replaced {
		newObj, err = d.appendField(newObj, path, configText)
		if err != nil {
			return nil, err
		}
	}
	return d.withTopObject(newObj), nil
}

// RemoveValue returns a new document with the field at path removed; same
// content if the path is absent.
func (d *Document) RemoveValue(pathStr string) (*Document, error) {
	path, err := ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	obj := d.topObject()
	if obj == nil {
		return d, nil
	}
	return d.withTopObject(removeFromObject(obj, path)), nil
}

func (d *Document) withTopObject(obj *objectNode) *Document {
	newRoot := &rootNode{origin: d.root.origin, braced: d.root.braced}
	replaced := false
	for _, child := range d.root.children {
		if _, isObj := child.(*objectNode); isObj && !replaced {
			newRoot.append(obj)
			replaced = true
			continue
		}
		newRoot.append(child)
	}
	if !replaced {
		newRoot.append(obj)
	}
	return &Document{root: newRoot, syntax: d.syntax}
}

// replaceInObject swaps the value of an existing field matching path,
// descending into nested object values when a declared key path is a prefix
// of the target.
func replaceInObject(obj *objectNode, path Path, value Node) (*objectNode, bool, error) {
	newObj := &objectNode{origin: obj.origin}
	replaced := false
	for _, child := range obj.children {
		field, isField := child.(*fieldNode)
		if !isField || replaced {
			newObj.append(child)
			continue
		}
		switch {
		case field.path.path.Equal(path):
			newObj.append(replaceFieldValue(field, value))
			replaced = true
		case path.StartsWith(field.path.path):
			inner, isObj := field.value.(*objectNode)
			if !isObj {
				newObj.append(child)
				continue
			}
			newInner, ok, err := replaceInObject(inner, path[len(field.path.path):], value)
			if err != nil {
				return nil, false, err
			}
			if ok {
				newObj.append(replaceFieldValue(field, newInner))
				replaced = true
			} else {
				newObj.append(child)
			}
		default:
			newObj.append(child)
		}
	}
	return newObj, replaced, nil
}

func replaceFieldValue(field *fieldNode, value Node) *fieldNode {
	newField := &fieldNode{origin: field.origin, path: field.path, sep: field.sep, value: value}
	for _, child := range field.children {
		if child == field.value {
			newField.append(value)
		} else {
			newField.append(child)
		}
	}
	return newField
}

func removeFromObject(obj *objectNode, path Path) *objectNode {
	newObj := &objectNode{origin: obj.origin}
	removed := false
	skipNewline := false
	for _, child := range obj.children {
		if skipNewline {
			skipNewline = false
			if tn, isToken := child.(*tokenNode); isToken && tn.tok.tokenType == TokenNewline {
				continue
			}
		}
		field, isField := child.(*fieldNode)
		if !isField || removed {
			newObj.append(child)
			continue
		}
		switch {
		case field.path.path.Equal(path):
			removed = true
			skipNewline = true
		case path.StartsWith(field.path.path):
			if inner, isObj := field.value.(*objectNode); isObj {
				newObj.append(replaceFieldValue(field, removeFromObject(inner, path[len(field.path.path):])))
				removed = true
			} else {
				newObj.append(child)
			}
		default:
			newObj.append(child)
		}
	}
	return newObj
}

// parseValueText parses a standalone value expression by wrapping it in a
// synthetic field and extracting the value node.
func parseValueText(origin *Origin, configText string, syntax Syntax) (Node, error) {
	doc := "x = " + configText
	if syntax == SyntaxJSON {
		doc = "{\"x\" : " + configText + "}"
	}
	tokens, err := tokenizeString(NewOrigin("value text"), doc)
	if err != nil {
		return nil, err
	}
	root, err := parseDocumentTokens(NewOrigin("value text"), tokens, syntax)
	if err != nil {
		return nil, err
	}
	var field *fieldNode
	for _, child := range root.children {
		if obj, isObj := child.(*objectNode); isObj {
			fields := childFields(obj)
			if len(fields) == 1 {
				field = fields[0]
			}
		}
	}
	if field == nil {
		return nil, parseError(origin, "%q does not parse as a single value", configText)
	}
	return field.value, nil
}

// appendField adds a new field at the end of the top-level object,
// preserving the document's trailing shape.
func (d *Document) appendField(obj *objectNode, path Path, configText string) (*objectNode, error) {
	sep := " = "
	if d.syntax == SyntaxJSON {
		sep = " : "
	}
	text := path.String() + sep + configText
	tokens, err := tokenizeString(d.root.origin, text)
	if err != nil {
		return nil, err
	}
	// Parse the synthetic line as CONF so path keys work, then splice the
	// field node in before the closing brace if there is one.
	root, err := parseDocumentTokens(d.root.origin, tokens, SyntaxCONF)
	if err != nil {
		return nil, err
	}
	var field *fieldNode
	for _, child := range root.children {
		if inner, isObj := child.(*objectNode); isObj {
			fields := childFields(inner)
			if len(fields) == 1 {
				field = fields[0]
			}
		}
	}
	if field == nil {
		return nil, parseError(d.root.origin, "%q does not parse as a single field", text)
	}

	newObj := &objectNode{origin: obj.origin}
	inserted := false
	for i, child := range obj.children {
		if tn, isToken := child.(*tokenNode); isToken && tn.tok.tokenType == TokenCloseCurly && i == lastCloseCurly(obj) {
			newObj.appendToken(newToken(TokenNewline, d.root.origin, "\n"))
			newObj.append(field)
			newObj.appendToken(newToken(TokenNewline, d.root.origin, "\n"))
			newObj.append(child)
			inserted = true
			continue
		}
		newObj.append(child)
	}
	if !inserted {
		if needsLeadingNewline(obj) {
			newObj.appendToken(newToken(TokenNewline, d.root.origin, "\n"))
		}
		newObj.append(field)
		newObj.appendToken(newToken(TokenNewline, d.root.origin, "\n"))
	}
	return newObj, nil
}

func lastCloseCurly(obj *objectNode) int {
	last := -1
	for i, child := range obj.children {
		if tn, isToken := child.(*tokenNode); isToken && tn.tok.tokenType == TokenCloseCurly {
			last = i
		}
	}
	return last
}

func needsLeadingNewline(obj *objectNode) bool {
	if len(obj.children) == 0 {
		return false
	}
	text := renderNode(obj)
	return !strings.HasSuffix(text, "\n")
}
