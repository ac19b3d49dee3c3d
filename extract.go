package hocon

// valueExtractor walks the AST and produces the semantic value tree.
// Substitutions stay unevaluated; includes are spliced in by asking the
// include engine, which recursively re-enters the parse pipeline.
type valueExtractor struct {
	// include is called for every include directive; nil makes includes a
	// parse error (used when extracting detached documents).
	include func(*includeNode) (*Object, error)
}

// extractRoot converts a parsed document into its root value: an *Object for
// object documents, a *List for array documents.
func (e *valueExtractor) extractRoot(root *rootNode) (Value, error) {
	for _, child := range root.children {
		switch n := child.(type) {
		case *objectNode:
			return e.extractObject(n, nil)
		case *arrayNode:
			return e.extractArray(n, nil)
		}
	}
	return NewObject(root.origin), nil
}

// extractObject builds an object from an object node. prefix is the full
// path of the object from the document root, needed for the += rewrite.
// Duplicate keys merge with the later occurrence winning, per the standard
// merge rules.
func (e *valueExtractor) extractObject(obj *objectNode, prefix Path) (*Object, error) {
	var keys []string
	fields := make(map[string]Value)

	addValue := func(key string, v Value) {
		if existing, ok := fields[key]; ok {
			fields[key] = mergeValues(v, existing)
		} else {
			keys = append(keys, key)
			fields[key] = v
		}
	}

	for _, child := range obj.children {
		switch n := child.(type) {
		case *fieldNode:
			fieldPath := n.path.path
			fullPath := append(append(Path{}, prefix...), fieldPath...)
			v, err := e.extractNode(n.value, fullPath)
			if err != nil {
				return nil, err
			}
			if n.sep == TokenPlusEquals {
				// key += value is key = ${?key} [value]: a self-referential
				// append that works whether or not the key pre-exists.
				selfRef := newSubstitution(n.origin, fullPath, true)
				appended := NewList(v.Origin(), []Value{v})
				v = newConcat(n.origin, []Value{selfRef, appended})
			}
			// A path key like a.b.c expands to nested objects.
			for i := len(fieldPath) - 1; i >= 1; i-- {
				inner := v
				v = newObjectWithFields(n.origin, []string{fieldPath[i]}, map[string]Value{fieldPath[i]: inner})
			}
			addValue(fieldPath[0], v)
		case *includeNode:
			if e.include == nil {
				return nil, parseError(n.origin, "include directives are not supported in this context")
			}
			included, err := e.include(n)
			if err != nil {
				return nil, err
			}
			for _, key := range included.keys {
				addValue(key, included.fields[key])
			}
		}
	}
	return newObjectWithFields(obj.origin, keys, fields), nil
}

func (e *valueExtractor) extractArray(arr *arrayNode, prefix Path) (*List, error) {
	var items []Value
	for _, child := range arr.children {
		if _, isToken := child.(*tokenNode); isToken {
			continue
		}
		v, err := e.extractNode(child, prefix)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return NewList(arr.origin, items), nil
}

func (e *valueExtractor) extractNode(n Node, prefix Path) (Value, error) {
	switch node := n.(type) {
	case *valueNode:
		return e.extractSimple(node.tok)
	case *objectNode:
		obj, err := e.extractObject(node, prefix)
		if err != nil {
			return nil, err
		}
		return obj, nil
	case *arrayNode:
		list, err := e.extractArray(node, prefix)
		if err != nil {
			return nil, err
		}
		return list, nil
	case *concatNode:
		return e.extractConcat(node, prefix)
	default:
		return nil, bugError("unexpected AST node %T in value position", n)
	}
}

func (e *valueExtractor) extractSimple(tok *Token) (Value, error) {
	switch tok.tokenType {
	case TokenValue:
		return tok.value, nil
	case TokenUnquotedText:
		return newString(tok.origin, tok.text), nil
	case TokenSubstitution:
		path, err := pathFromTokens(tok.origin, tok.expression)
		if err != nil {
			return nil, err
		}
		return newSubstitution(tok.origin, path, tok.optional), nil
	default:
		return nil, bugError("token %s is not a simple value", tok)
	}
}

// extractConcat builds a concatenation from adjacent parts. Whitespace
// between parts becomes synthetic string parts so an all-string join
// preserves it. Joining an object or list with a string is rejected here
// when both sides are already concrete.
func (e *valueExtractor) extractConcat(concat *concatNode, prefix Path) (Value, error) {
	var parts []Value
	for _, child := range concat.children {
		if tn, isToken := child.(*tokenNode); isToken {
			parts = append(parts, newWhitespaceString(tn.tok.origin, tn.tok.Text()))
			continue
		}
		v, err := e.extractNode(child, prefix)
		if err != nil {
			return nil, err
		}
		parts = append(parts, v)
	}

	// Leading and trailing whitespace is trivia, not content.
	for len(parts) > 0 {
		if s, ok := parts[0].(*stringValue); ok && s.fromWhitespace {
			parts = parts[1:]
			continue
		}
		break
	}
	for len(parts) > 0 {
		if s, ok := parts[len(parts)-1].(*stringValue); ok && s.fromWhitespace {
			parts = parts[:len(parts)-1]
			continue
		}
		break
	}

	if err := checkConcatKinds(concat.origin, parts); err != nil {
		return nil, err
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return newConcat(concat.origin, parts), nil
}

// checkConcatKinds rejects concatenations that can never resolve: mixing
// concrete objects or lists with concrete scalars, or including null.
func checkConcatKinds(origin *Origin, parts []Value) error {
	sawContainer := false
	sawScalar := false
	for _, p := range parts {
		switch v := p.(type) {
		case *Object, *List:
			sawContainer = true
		case *nullValue:
			if len(parts) > 1 {
				return parseError(origin, "cannot concatenate null with other values")
			}
		case *stringValue:
			if !v.fromWhitespace {
				sawScalar = true
			}
		case *intValue, *doubleValue, *boolValue:
			sawScalar = true
		}
	}
	if sawContainer && sawScalar {
		return parseError(origin, "cannot concatenate an object or list with a string; wrap the value in quotes if a string was intended")
	}
	return nil
}
