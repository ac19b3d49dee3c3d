package hocon

import (
	"fmt"
	"math"
	"sort"
)

// ValueType identifies the concrete kind of a resolved value.
type ValueType int

const (
	TypeObject ValueType = iota
	TypeList
	TypeString
	TypeNumber
	TypeBool
	TypeNull

	// TypeUnresolved covers concatenations, substitutions, and delayed
	// merges, which have no concrete type until resolved.
	TypeUnresolved
)

func (t ValueType) String() string {
	switch t {
	case TypeObject:
		return "object"
	case TypeList:
		return "list"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeNull:
		return "null"
	case TypeUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// ResolveStatus reports whether a subtree still contains substitutions,
// concatenations, or delayed merges.
type ResolveStatus int

const (
	StatusUnresolved ResolveStatus = iota
	StatusResolved
)

// Value is one node of the semantic configuration tree. Implementations form
// a closed set: Object, List, the scalar values, and the three unresolved
// forms (concatenation, substitution, delayed merge). Every value is
// immutable once constructed and carries its origin.
type Value interface {
	// Origin returns where the value came from.
	Origin() *Origin
	// ValueType returns the concrete type of the value, or TypeUnresolved
	// for a concatenation, substitution, or delayed merge. Objects and lists
	// report TypeObject and TypeList even when their children are unresolved.
	ValueType() ValueType
	// ResolveStatus reports whether the subtree is fully resolved.
	ResolveStatus() ResolveStatus
	// Unwrapped converts the subtree to plain Go values: map[string]any,
	// []any, string, int64, float64, bool, or nil.
	Unwrapped() any
}

// Object is a mapping from keys to child values. Insertion order is
// preserved for rendering; equality is order-independent.
type Object struct {
	origin *Origin
	keys   []string
	fields map[string]Value
	status ResolveStatus
}

// NewObject creates an empty object with the given origin.
func NewObject(origin *Origin) *Object {
	return &Object{origin: origin, fields: map[string]Value{}, status: StatusResolved}
}

func newObjectWithFields(origin *Origin, keys []string, fields map[string]Value) *Object {
	status := StatusResolved
	for _, v := range fields {
		if v.ResolveStatus() == StatusUnresolved {
			status = StatusUnresolved
			break
		}
	}
	return &Object{origin: origin, keys: keys, fields: fields, status: status}
}

func (o *Object) Origin() *Origin              { return o.origin }
func (o *Object) ValueType() ValueType         { return TypeObject }
func (o *Object) ResolveStatus() ResolveStatus { return o.status }

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Get returns the direct child for key, or nil if absent.
func (o *Object) Get(key string) Value {
	return o.fields[key]
}

// Size returns the number of direct children.
func (o *Object) Size() int {
	return len(o.keys)
}

// IsEmpty reports whether the object has no children.
func (o *Object) IsEmpty() bool {
	return len(o.keys) == 0
}

func (o *Object) Unwrapped() any {
	m := make(map[string]any, len(o.fields))
	for k, v := range o.fields {
		m[k] = v.Unwrapped()
	}
	return m
}

// withValue returns a copy with key set to value, appended to the key order
// if new.
func (o *Object) withValue(key string, value Value) *Object {
	keys := o.keys
	if _, exists := o.fields[key]; !exists {
		keys = append(append([]string{}, o.keys...), key)
	}
	fields := make(map[string]Value, len(o.fields)+1)
	for k, v := range o.fields {
		fields[k] = v
	}
	fields[key] = value
	return newObjectWithFields(o.origin, keys, fields)
}

// withoutKey returns a copy with key removed; same object if absent.
func (o *Object) withoutKey(key string) *Object {
	if _, exists := o.fields[key]; !exists {
		return o
	}
	keys := make([]string, 0, len(o.keys)-1)
	for _, k := range o.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	fields := make(map[string]Value, len(o.fields)-1)
	for k, v := range o.fields {
		if k != key {
			fields[k] = v
		}
	}
	return newObjectWithFields(o.origin, keys, fields)
}

// descendant walks the path through nested objects. Returns nil when any
// step is absent or not an object.
func (o *Object) descendant(path Path) Value {
	current := Value(o)
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

// List is an ordered sequence of values.
type List struct {
	origin *Origin
	items  []Value
	status ResolveStatus
}

// NewList creates a list with the given items.
func NewList(origin *Origin, items []Value) *List {
	status := StatusResolved
	for _, v := range items {
		if v.ResolveStatus() == StatusUnresolved {
			status = StatusUnresolved
			break
		}
	}
	return &List{origin: origin, items: items, status: status}
}

func (l *List) Origin() *Origin              { return l.origin }
func (l *List) ValueType() ValueType         { return TypeList }
func (l *List) ResolveStatus() ResolveStatus { return l.status }

// Items returns the list elements.
func (l *List) Items() []Value {
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Unwrapped() any {
	out := make([]any, len(l.items))
	for i, v := range l.items {
		out[i] = v.Unwrapped()
	}
	return out
}

// stringValue is a string scalar. Only the decoded text is kept; the source
// spelling (quotes, escapes) lives in the document's tokens.
type stringValue struct {
	origin *Origin
	v      string
	// fromWhitespace marks synthetic strings created from the whitespace
	// between concatenation parts; they are dropped when the concatenation
	// turns out to join lists or objects.
	fromWhitespace bool
}

func newString(origin *Origin, v string) *stringValue {
	return &stringValue{origin: origin, v: v}
}

func newWhitespaceString(origin *Origin, v string) *stringValue {
	return &stringValue{origin: origin, v: v, fromWhitespace: true}
}

func (s *stringValue) Origin() *Origin              { return s.origin }
func (s *stringValue) ValueType() ValueType         { return TypeString }
func (s *stringValue) ResolveStatus() ResolveStatus { return StatusResolved }
func (s *stringValue) Unwrapped() any               { return s.v }

type intValue struct {
	origin *Origin
	v      int64
}

func newInt(origin *Origin, v int64) *intValue {
	return &intValue{origin: origin, v: v}
}

func (i *intValue) Origin() *Origin              { return i.origin }
func (i *intValue) ValueType() ValueType         { return TypeNumber }
func (i *intValue) ResolveStatus() ResolveStatus { return StatusResolved }
func (i *intValue) Unwrapped() any               { return i.v }

type doubleValue struct {
	origin *Origin
	v      float64
}

func newDouble(origin *Origin, v float64) *doubleValue {
	return &doubleValue{origin: origin, v: v}
}

func (d *doubleValue) Origin() *Origin              { return d.origin }
func (d *doubleValue) ValueType() ValueType         { return TypeNumber }
func (d *doubleValue) ResolveStatus() ResolveStatus { return StatusResolved }
func (d *doubleValue) Unwrapped() any               { return d.v }

type boolValue struct {
	origin *Origin
	v      bool
}

func newBool(origin *Origin, v bool) *boolValue {
	return &boolValue{origin: origin, v: v}
}

func (b *boolValue) Origin() *Origin              { return b.origin }
func (b *boolValue) ValueType() ValueType         { return TypeBool }
func (b *boolValue) ResolveStatus() ResolveStatus { return StatusResolved }
func (b *boolValue) Unwrapped() any               { return b.v }

type nullValue struct {
	origin *Origin
}

func newNull(origin *Origin) *nullValue {
	return &nullValue{origin: origin}
}

func (n *nullValue) Origin() *Origin              { return n.origin }
func (n *nullValue) ValueType() ValueType         { return TypeNull }
func (n *nullValue) ResolveStatus() ResolveStatus { return StatusResolved }
func (n *nullValue) Unwrapped() any               { return nil }

// concatValue is an ordered run of adjacent values joined at resolve time.
// Literal whitespace between string parts is kept as string parts.
type concatValue struct {
	origin *Origin
	parts  []Value
}

func newConcat(origin *Origin, parts []Value) *concatValue {
	return &concatValue{origin: origin, parts: parts}
}

func (c *concatValue) Origin() *Origin              { return c.origin }
func (c *concatValue) ValueType() ValueType         { return TypeUnresolved }
func (c *concatValue) ResolveStatus() ResolveStatus { return StatusUnresolved }

func (c *concatValue) Unwrapped() any {
	parts := make([]any, len(c.parts))
	for i, p := range c.parts {
		parts[i] = p.Unwrapped()
	}
	return parts
}

// substitutionValue is an unevaluated ${path} or ${?path} expression.
type substitutionValue struct {
	origin   *Origin
	path     Path
	optional bool
}

func newSubstitution(origin *Origin, path Path, optional bool) *substitutionValue {
	return &substitutionValue{origin: origin, path: path, optional: optional}
}

func (s *substitutionValue) Origin() *Origin              { return s.origin }
func (s *substitutionValue) ValueType() ValueType         { return TypeUnresolved }
func (s *substitutionValue) ResolveStatus() ResolveStatus { return StatusUnresolved }
func (s *substitutionValue) Unwrapped() any               { return s.text() }

func (s *substitutionValue) text() string {
	if s.optional {
		return "${?" + s.path.String() + "}"
	}
	return "${" + s.path.String() + "}"
}

// delayedMerge is a stack of values merged only after substitutions resolve.
// stack[0] has the highest precedence.
type delayedMerge struct {
	origin *Origin
	stack  []Value
}

func newDelayedMerge(origin *Origin, stack []Value) *delayedMerge {
	return &delayedMerge{origin: origin, stack: stack}
}

func (d *delayedMerge) Origin() *Origin              { return d.origin }
func (d *delayedMerge) ValueType() ValueType         { return TypeUnresolved }
func (d *delayedMerge) ResolveStatus() ResolveStatus { return StatusUnresolved }

func (d *delayedMerge) Unwrapped() any {
	parts := make([]any, len(d.stack))
	for i, p := range d.stack {
		parts[i] = p.Unwrapped()
	}
	return parts
}

// FromAny converts plain Go data (maps, slices, scalars) into a value tree.
// It is used for TOML/YAML sources and for Config.WithValue.
func FromAny(origin *Origin, v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return newNull(origin), nil
	case bool:
		return newBool(origin, x), nil
	case string:
		return newString(origin, x), nil
	case int:
		return newInt(origin, int64(x)), nil
	case int8:
		return newInt(origin, int64(x)), nil
	case int16:
		return newInt(origin, int64(x)), nil
	case int32:
		return newInt(origin, int64(x)), nil
	case int64:
		return newInt(origin, x), nil
	case uint:
		return newInt(origin, int64(x)), nil
	case uint8:
		return newInt(origin, int64(x)), nil
	case uint16:
		return newInt(origin, int64(x)), nil
	case uint32:
		return newInt(origin, int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, bugError("unsigned value %d overflows int64", x)
		}
		return newInt(origin, int64(x)), nil
	case float32:
		return newDouble(origin, float64(x)), nil
	case float64:
		return newDouble(origin, x), nil
	case map[string]any:
		// Sort keys so conversion is deterministic; plain Go maps carry no
		// insertion order to preserve.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make(map[string]Value, len(x))
		for _, k := range keys {
			child, err := FromAny(origin, x[k])
			if err != nil {
				return nil, err
			}
			fields[k] = child
		}
		return newObjectWithFields(origin, keys, fields), nil
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprintf("%v", k)] = val
		}
		return FromAny(origin, m)
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			child, err := FromAny(origin, e)
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return NewList(origin, items), nil
	case Value:
		return x, nil
	default:
		return nil, bugError("cannot convert %T to a configuration value", v)
	}
}

// valuesEqual compares two values structurally. Object comparison ignores
// key order.
func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		if !ok || len(av.fields) != len(bv.fields) {
			return false
		}
		for k, v := range av.fields {
			other, exists := bv.fields[k]
			if !exists || !valuesEqual(v, other) {
				return false
			}
		}
		return true
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.items) != len(bv.items) {
			return false
		}
		for i, v := range av.items {
			if !valuesEqual(v, bv.items[i]) {
				return false
			}
		}
		return true
	default:
		return a.Unwrapped() == b.Unwrapped()
	}
}
