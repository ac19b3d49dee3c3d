package hocon

import (
	"os"
	"strconv"
	"strings"
)

// resolveContext carries the state of one resolve pass: the root for
// substitution lookup, a memo of already-resolved nodes, the set of
// substitutions on the active call chain for cycle detection, and the
// self-reference binding established by delayed merges.
type resolveContext struct {
	root *Object
	opts ResolveOptions

	// memo caches resolved nodes by identity so diamond references do not
	// recompute. Entries are only written outside self-reference contexts.
	memo map[Value]Value

	// resolving is the set of substitution expressions currently being
	// evaluated on the call chain; re-entering one is a cycle.
	resolving map[*substitutionValue]bool

	// path is the key path of the field currently being resolved.
	path Path

	// suspensions counts cycle suspensions (optional substitutions resolved
	// to absent because they were already on the call chain); results
	// computed under a suspension are not memoized.
	suspensions int

	// self, when non-nil, is the resolved merge of the lower-precedence
	// entries of the delayed merge at selfPath. Substitutions whose path is
	// a prefix of the current field path resolve against it instead of the
	// in-progress definition.
	self     Value
	selfPath Path
}

// resolveObject fully resolves a root object according to the options,
// producing a new tree and never mutating the input.
func resolveObject(root *Object, opts ResolveOptions) (*Object, error) {
	ctx := &resolveContext{
		root:      root,
		opts:      opts,
		memo:      make(map[Value]Value),
		resolving: make(map[*substitutionValue]bool),
	}
	v, err := ctx.resolve(root)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return NewObject(root.origin), nil
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, bugError("root resolved to %s instead of an object", v.ValueType())
	}
	if !opts.allowUnresolved && obj.ResolveStatus() != StatusResolved {
		return nil, unresolvedError(obj.Origin(), "root")
	}
	return obj, nil
}

// resolve evaluates one value. A nil result with nil error means the value
// was erased (an optional substitution that resolved to nothing).
func (ctx *resolveContext) resolve(v Value) (Value, error) {
	if v.ResolveStatus() == StatusResolved {
		return v, nil
	}
	if ctx.self == nil {
		if cached, ok := ctx.memo[v]; ok {
			return cached, nil
		}
	}
	before := ctx.suspensions
	resolved, err := ctx.resolveUncached(v)
	if err != nil {
		return nil, err
	}
	if ctx.self == nil && ctx.suspensions == before {
		ctx.memo[v] = resolved
	}
	return resolved, nil
}

func (ctx *resolveContext) resolveUncached(v Value) (Value, error) {
	switch value := v.(type) {
	case *Object:
		return ctx.resolveObjectFields(value)
	case *List:
		return ctx.resolveList(value)
	case *concatValue:
		return ctx.resolveConcat(value)
	case *substitutionValue:
		return ctx.resolveSubstitution(value)
	case *delayedMerge:
		return ctx.resolveDelayedMerge(value)
	default:
		return v, nil
	}
}

func (ctx *resolveContext) resolveObjectFields(obj *Object) (Value, error) {
	keys := make([]string, 0, len(obj.keys))
	fields := make(map[string]Value, len(obj.fields))
	for _, key := range obj.keys {
		ctx.path = ctx.path.Child(key)
		rv, err := ctx.resolve(obj.fields[key])
		ctx.path = ctx.path.Parent()
		if err != nil {
			return nil, err
		}
		if rv == nil {
			// Optional-not-found erases the field entirely.
			continue
		}
		keys = append(keys, key)
		fields[key] = rv
	}
	return newObjectWithFields(obj.origin, keys, fields), nil
}

func (ctx *resolveContext) resolveList(list *List) (Value, error) {
	items := make([]Value, 0, len(list.items))
	for _, item := range list.items {
		rv, err := ctx.resolve(item)
		if err != nil {
			return nil, err
		}
		if rv == nil {
			continue
		}
		items = append(items, rv)
	}
	return NewList(list.origin, items), nil
}

// resolveSubstitution evaluates ${path} / ${?path}: self-reference against
// the previous value where applicable, then root lookup, then environment
// variables, then optional erasure or an error.
func (ctx *resolveContext) resolveSubstitution(s *substitutionValue) (Value, error) {
	if ctx.resolving[s] {
		if s.optional {
			ctx.suspensions++
			return nil, nil
		}
		return nil, cycleError(s.origin, ctx.cycleTrace(s))
	}

	// A substitution whose path is a prefix of the path being defined is a
	// self-reference: it sees the previous value at that path (bound by the
	// enclosing delayed merge), never the in-progress definition.
	if len(s.path) <= len(ctx.path) && ctx.path.StartsWith(s.path) {
		if ctx.self != nil && s.path.StartsWith(ctx.selfPath) {
			if target := descendValue(ctx.self, s.path[len(ctx.selfPath):]); target != nil {
				return target, nil
			}
		}
		return ctx.substitutionFallback(s)
	}

	ctx.resolving[s] = true
	defer delete(ctx.resolving, s)

	found, err := ctx.lookup(s.path)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return ctx.substitutionFallback(s)
	}

	savedPath, savedSelf, savedSelfPath := ctx.path, ctx.self, ctx.selfPath
	ctx.path, ctx.self, ctx.selfPath = s.path, nil, nil
	rv, err := ctx.resolve(found)
	ctx.path, ctx.self, ctx.selfPath = savedPath, savedSelf, savedSelfPath
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return ctx.substitutionFallback(s)
	}
	if _, isNull := rv.(*nullValue); isNull && s.optional {
		// ${?path} to an explicit null erases like a missing path.
		return nil, nil
	}
	return rv, nil
}

// substitutionFallback handles a substitution whose path has no value in the
// configuration: environment variables, then optional erasure, then error.
func (ctx *resolveContext) substitutionFallback(s *substitutionValue) (Value, error) {
	if ctx.opts.useSystemEnvironment {
		for _, name := range []string{strings.Join(s.path, "."), strings.Join(s.path, "_")} {
			if env, found := os.LookupEnv(name); found {
				return newString(NewOrigin("env variable "+name), env), nil
			}
		}
	}
	if s.optional {
		return nil, nil
	}
	if ctx.opts.allowUnresolved {
		return s, nil
	}
	return nil, newError(ErrUnresolved, s.origin, "could not resolve substitution to a value: %s", s.text())
}

// lookup walks the unresolved root along path, resolving intermediate nodes
// just enough to descend through them. Returns nil when the path is absent
// or passes through a non-object.
func (ctx *resolveContext) lookup(path Path) (Value, error) {
	current := Value(ctx.root)
	walked := Path{}
	for _, key := range path {
		obj, err := ctx.materializeObject(current, walked)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, nil
		}
		current = obj.fields[key]
		if current == nil {
			return nil, nil
		}
		walked = walked.Child(key)
	}
	return current, nil
}

// materializeObject reduces a value to a concrete object, resolving it if
// necessary. Returns nil when the value cannot become an object.
func (ctx *resolveContext) materializeObject(v Value, at Path) (*Object, error) {
	for {
		switch value := v.(type) {
		case *Object:
			return value, nil
		case *substitutionValue, *concatValue, *delayedMerge:
			savedPath, savedSelf, savedSelfPath := ctx.path, ctx.self, ctx.selfPath
			ctx.path, ctx.self, ctx.selfPath = at, nil, nil
			rv, err := ctx.resolve(value)
			ctx.path, ctx.self, ctx.selfPath = savedPath, savedSelf, savedSelfPath
			if err != nil {
				return nil, err
			}
			if rv == nil || rv == v {
				return nil, nil
			}
			v = rv
		default:
			return nil, nil
		}
	}
}

// resolveDelayedMerge folds the stack from the lowest-precedence entry up,
// binding each partial merge as the self value for the entry above so that
// self-references append to the previous definition.
func (ctx *resolveContext) resolveDelayedMerge(dm *delayedMerge) (Value, error) {
	var acc Value
	for i := len(dm.stack) - 1; i >= 0; i-- {
		savedSelf, savedSelfPath := ctx.self, ctx.selfPath
		if acc != nil {
			ctx.self, ctx.selfPath = acc, ctx.path
		}
		rv, err := ctx.resolve(dm.stack[i])
		ctx.self, ctx.selfPath = savedSelf, savedSelfPath
		if err != nil {
			return nil, err
		}
		if rv == nil {
			continue
		}
		if rv.ResolveStatus() == StatusUnresolved {
			// Only possible under allowUnresolved; keep the merge delayed.
			return dm, nil
		}
		if acc == nil {
			acc = rv
		} else {
			acc = mergeValues(rv, acc)
		}
	}
	return acc, nil
}

// resolveConcat substitutes each part and joins the results: all strings
// join with preserved whitespace, all lists concatenate, all objects merge
// with later parts winning, and a single surviving value stands alone.
func (ctx *resolveContext) resolveConcat(concat *concatValue) (Value, error) {
	parts := make([]Value, 0, len(concat.parts))
	unresolved := false
	for _, part := range concat.parts {
		rv, err := ctx.resolve(part)
		if err != nil {
			return nil, err
		}
		if rv == nil {
			continue
		}
		if rv.ResolveStatus() == StatusUnresolved {
			unresolved = true
		}
		parts = append(parts, rv)
	}
	if unresolved {
		// Only possible under allowUnresolved.
		return newConcat(concat.origin, parts), nil
	}
	return joinConcat(concat.origin, parts)
}

func joinConcat(origin *Origin, parts []Value) (Value, error) {
	// Whitespace-only filler is dropped when joining containers.
	containers := 0
	scalars := 0
	for _, p := range parts {
		switch v := p.(type) {
		case *Object, *List:
			containers++
		case *stringValue:
			if !v.fromWhitespace {
				scalars++
			}
		default:
			scalars++
		}
	}
	if containers > 0 && scalars > 0 {
		return nil, newError(ErrWrongType, origin, "cannot concatenate an object or list with a string")
	}
	if containers > 0 {
		kept := parts[:0]
		for _, p := range parts {
			if s, ok := p.(*stringValue); ok && s.fromWhitespace {
				continue
			}
			kept = append(kept, p)
		}
		parts = kept
	}

	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return parts[0], nil
	}

	if containers > 0 {
		if _, isList := parts[0].(*List); isList {
			var items []Value
			origins := make([]*Origin, 0, len(parts))
			for _, p := range parts {
				list, ok := p.(*List)
				if !ok {
					return nil, newError(ErrWrongType, origin, "cannot concatenate a list with %s", p.ValueType())
				}
				items = append(items, list.items...)
				origins = append(origins, list.origin)
			}
			return NewList(mergeOrigins(origins...), items), nil
		}
		// Objects: later parts win, like duplicate keys.
		acc := parts[0]
		for _, p := range parts[1:] {
			if _, ok := p.(*Object); !ok {
				return nil, newError(ErrWrongType, origin, "cannot concatenate an object with %s", p.ValueType())
			}
			acc = mergeValues(p, acc)
		}
		return acc, nil
	}

	// All scalars: join as a string.
	var sb strings.Builder
	for _, p := range parts {
		text, err := scalarText(p)
		if err != nil {
			return nil, err
		}
		sb.WriteString(text)
	}
	return newString(origin, sb.String()), nil
}

// scalarText renders a scalar for string concatenation.
func scalarText(v Value) (string, error) {
	switch value := v.(type) {
	case *stringValue:
		return value.v, nil
	case *intValue:
		return strconv.FormatInt(value.v, 10), nil
	case *doubleValue:
		return strconv.FormatFloat(value.v, 'g', -1, 64), nil
	case *boolValue:
		return strconv.FormatBool(value.v), nil
	case *nullValue:
		return "", newError(ErrWrongType, value.origin, "cannot concatenate null with a string")
	default:
		return "", newError(ErrWrongType, v.Origin(), "cannot concatenate %s with a string", v.ValueType())
	}
}

// descendValue walks already-resolved values; nil when absent.
func descendValue(v Value, path Path) Value {
	current := v
	for _, key := range path {
		obj, ok := current.(*Object)
		if !ok {
			return nil
		}
		current = obj.fields[key]
		if current == nil {
			return nil
		}
	}
	return current
}

// cycleTrace names the substitutions involved in a cycle for diagnostics.
func (ctx *resolveContext) cycleTrace(last *substitutionValue) string {
	paths := make([]string, 0, len(ctx.resolving)+1)
	for s := range ctx.resolving {
		paths = append(paths, "${"+s.path.String()+"}")
	}
	paths = append(paths, "${"+last.path.String()+"}")
	return strings.Join(paths, " -> ")
}
