package hocon

import (
	"strings"
	"time"
)

// Config is a view over a root object with typed path-based access. A Config
// produced by Resolve (or Load) is immutable and safe for concurrent readers.
type Config struct {
	root *Object
}

func newConfig(root *Object) *Config {
	return &Config{root: root}
}

// Load parses and resolves the named configuration file. The syntax is
// guessed from the extension, defaulting to HOCON.
func Load(filePath string) (*Config, error) {
	cfg, err := ParseableFile(filePath, DefaultParseOptions()).Parse()
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}

// LoadString parses and resolves an in-memory HOCON document.
func LoadString(text string) (*Config, error) {
	cfg, err := ParseableString(text, DefaultParseOptions()).Parse()
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}

// Root returns the underlying root object.
func (c *Config) Root() *Object {
	return c.root
}

// Origin returns the origin of the root object.
func (c *Config) Origin() *Origin {
	return c.root.Origin()
}

// IsResolved reports whether every substitution has been evaluated.
func (c *Config) IsResolved() bool {
	return c.root.ResolveStatus() == StatusResolved
}

// Resolve evaluates all substitutions with default options and returns a new
// resolved Config; the receiver is unchanged. Resolving an already-resolved
// Config returns an equivalent Config.
func (c *Config) Resolve() (*Config, error) {
	return c.ResolveWith(DefaultResolveOptions())
}

// ResolveWith is Resolve with explicit options.
func (c *Config) ResolveWith(opts ResolveOptions) (*Config, error) {
	root, err := resolveObject(c.root, opts)
	if err != nil {
		return nil, err
	}
	return newConfig(root), nil
}

// WithFallback merges the other configuration underneath this one, this one
// winning on collisions, without re-resolving either side.
func (c *Config) WithFallback(other *Config) *Config {
	return newConfig(mergeObjects(c.root, other.root))
}

// WithValue returns a new Config with the value at path replaced or added.
// The value may be plain Go data or a Value.
func (c *Config) WithValue(pathStr string, value any) (*Config, error) {
	path, err := ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	v, err := FromAny(NewOrigin("value for "+pathStr), value)
	if err != nil {
		return nil, err
	}
	return newConfig(setAtPath(c.root, path, v)), nil
}

// WithoutPath returns a new Config with the value at path removed; same
// content if the path is absent.
func (c *Config) WithoutPath(pathStr string) (*Config, error) {
	path, err := ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	return newConfig(removeAtPath(c.root, path)), nil
}

func setAtPath(obj *Object, path Path, v Value) *Object {
	key := path.First()
	if len(path) == 1 {
		return obj.withValue(key, v)
	}
	child, isObj := obj.fields[key].(*Object)
	if !isObj {
		child = NewObject(obj.origin)
	}
	return obj.withValue(key, setAtPath(child, path.Rest(), v))
}

func removeAtPath(obj *Object, path Path) *Object {
	key := path.First()
	if len(path) == 1 {
		return obj.withoutKey(key)
	}
	child, isObj := obj.fields[key].(*Object)
	if !isObj {
		return obj
	}
	return obj.withValue(key, removeAtPath(child, path.Rest()))
}

// GetValue returns the value at path. Missing paths, paths through
// non-objects, and paths into unresolved subtrees produce distinct errors.
func (c *Config) GetValue(pathStr string) (Value, error) {
	path, err := ParsePath(pathStr)
	if err != nil {
		return nil, err
	}
	current := Value(c.root)
	for i, key := range path {
		obj, isObj := current.(*Object)
		if !isObj {
			if current.ResolveStatus() == StatusUnresolved {
				return nil, unresolvedError(current.Origin(), Path(path[:i]).String())
			}
			return nil, wrongTypeError(current.Origin(), Path(path[:i]).String(), "object", current.ValueType().String())
		}
		current = obj.fields[key]
		if current == nil {
			return nil, missingError(c.root.origin, pathStr)
		}
	}
	if current.ResolveStatus() == StatusUnresolved {
		return nil, unresolvedError(current.Origin(), pathStr)
	}
	return current, nil
}

// HasPath reports whether every prefix of path is an object and the leaf is
// present and not null.
func (c *Config) HasPath(pathStr string) bool {
	v, err := c.GetValue(pathStr)
	if err != nil {
		return false
	}
	_, isNull := v.(*nullValue)
	return !isNull
}

// getNonNull fetches a value for a typed accessor; an explicit null counts
// as missing, matching how optional substitutions treat it.
func (c *Config) getNonNull(pathStr string) (Value, error) {
	v, err := c.GetValue(pathStr)
	if err != nil {
		return nil, err
	}
	if _, isNull := v.(*nullValue); isNull {
		return nil, newError(ErrMissing, v.Origin(), "configuration key '%s' is null", pathStr)
	}
	return v, nil
}

// GetString returns a string value. Numbers and booleans convert to their
// text form; objects and lists do not.
func (c *Config) GetString(pathStr string) (string, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return "", err
	}
	switch v.(type) {
	case *stringValue, *intValue, *doubleValue, *boolValue:
		return scalarText(v)
	default:
		return "", wrongTypeError(v.Origin(), pathStr, "string", v.ValueType().String())
	}
}

// GetInt returns a 64-bit integer. Doubles convert when integral and in
// range.
func (c *Config) GetInt(pathStr string) (int64, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return 0, err
	}
	switch value := v.(type) {
	case *intValue:
		return value.v, nil
	case *doubleValue:
		i := int64(value.v)
		if float64(i) != value.v {
			return 0, newError(ErrWrongType, v.Origin(), "%s has a fractional or out-of-range value %v where an integer was expected", pathStr, value.v)
		}
		return i, nil
	default:
		return 0, wrongTypeError(v.Origin(), pathStr, "number", v.ValueType().String())
	}
}

// GetFloat returns a floating-point number; integers widen.
func (c *Config) GetFloat(pathStr string) (float64, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return 0, err
	}
	switch value := v.(type) {
	case *doubleValue:
		return value.v, nil
	case *intValue:
		return float64(value.v), nil
	default:
		return 0, wrongTypeError(v.Origin(), pathStr, "number", v.ValueType().String())
	}
}

// GetBool returns a boolean. The strings true/false, yes/no, and on/off are
// accepted.
func (c *Config) GetBool(pathStr string) (bool, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return false, err
	}
	switch value := v.(type) {
	case *boolValue:
		return value.v, nil
	case *stringValue:
		switch value.v {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
	}
	return false, wrongTypeError(v.Origin(), pathStr, "boolean", v.ValueType().String())
}

// GetObject returns the object at path.
func (c *Config) GetObject(pathStr string) (*Object, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return nil, err
	}
	obj, isObj := v.(*Object)
	if !isObj {
		return nil, wrongTypeError(v.Origin(), pathStr, "object", v.ValueType().String())
	}
	return obj, nil
}

// GetConfig returns the object at path wrapped as a Config.
func (c *Config) GetConfig(pathStr string) (*Config, error) {
	obj, err := c.GetObject(pathStr)
	if err != nil {
		return nil, err
	}
	return newConfig(obj), nil
}

// GetList returns the list elements at path.
func (c *Config) GetList(pathStr string) ([]Value, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return nil, err
	}
	list, isList := v.(*List)
	if !isList {
		return nil, wrongTypeError(v.Origin(), pathStr, "list", v.ValueType().String())
	}
	return list.Items(), nil
}

// GetStringList returns a list of strings, converting scalar elements the
// way GetString does.
func (c *Config) GetStringList(pathStr string) ([]string, error) {
	items, err := c.GetList(pathStr)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case *stringValue, *intValue, *doubleValue, *boolValue:
			s, err := scalarText(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		default:
			return nil, wrongTypeError(item.Origin(), pathStr, "list of strings", item.ValueType().String())
		}
	}
	return out, nil
}

// GetIntList returns a list of 64-bit integers.
func (c *Config) GetIntList(pathStr string) ([]int64, error) {
	items, err := c.GetList(pathStr)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		iv, isInt := item.(*intValue)
		if !isInt {
			return nil, wrongTypeError(item.Origin(), pathStr, "list of integers", item.ValueType().String())
		}
		out = append(out, iv.v)
	}
	return out, nil
}

// GetFloatList returns a list of floating-point numbers; integer elements
// widen.
func (c *Config) GetFloatList(pathStr string) ([]float64, error) {
	items, err := c.GetList(pathStr)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		switch value := item.(type) {
		case *doubleValue:
			out = append(out, value.v)
		case *intValue:
			out = append(out, float64(value.v))
		default:
			return nil, wrongTypeError(item.Origin(), pathStr, "list of numbers", item.ValueType().String())
		}
	}
	return out, nil
}

// GetBoolList returns a list of booleans.
func (c *Config) GetBoolList(pathStr string) ([]bool, error) {
	items, err := c.GetList(pathStr)
	if err != nil {
		return nil, err
	}
	out := make([]bool, 0, len(items))
	for _, item := range items {
		bv, isBool := item.(*boolValue)
		if !isBool {
			return nil, wrongTypeError(item.Origin(), pathStr, "list of booleans", item.ValueType().String())
		}
		out = append(out, bv.v)
	}
	return out, nil
}

// GetConfigList returns a list of objects wrapped as Configs.
func (c *Config) GetConfigList(pathStr string) ([]*Config, error) {
	items, err := c.GetList(pathStr)
	if err != nil {
		return nil, err
	}
	out := make([]*Config, 0, len(items))
	for _, item := range items {
		obj, isObj := item.(*Object)
		if !isObj {
			return nil, wrongTypeError(item.Origin(), pathStr, "list of objects", item.ValueType().String())
		}
		out = append(out, newConfig(obj))
	}
	return out, nil
}

// GetDuration parses the value at path as a duration: a string with a unit
// suffix ("10s", "1.5 hours"), or a bare number of milliseconds.
func (c *Config) GetDuration(pathStr string) (time.Duration, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return 0, err
	}
	switch value := v.(type) {
	case *stringValue:
		return parseDurationString(v.Origin(), pathStr, value.v, time.Millisecond)
	case *intValue:
		return time.Duration(value.v) * time.Millisecond, nil
	case *doubleValue:
		return time.Duration(value.v * float64(time.Millisecond)), nil
	default:
		return 0, wrongTypeError(v.Origin(), pathStr, "duration", v.ValueType().String())
	}
}

// GetBytes parses the value at path as a byte size: a string with a unit
// suffix ("128M", "1kB"), or a bare number of bytes.
func (c *Config) GetBytes(pathStr string) (int64, error) {
	v, err := c.getNonNull(pathStr)
	if err != nil {
		return 0, err
	}
	switch value := v.(type) {
	case *stringValue:
		return parseBytesString(v.Origin(), pathStr, value.v)
	case *intValue:
		if value.v < 0 {
			return 0, newError(ErrWrongType, v.Origin(), "%s: size is negative", pathStr)
		}
		return value.v, nil
	default:
		return 0, wrongTypeError(v.Origin(), pathStr, "size in bytes", v.ValueType().String())
	}
}

// Entries returns every leaf value keyed by its canonical path.
func (c *Config) Entries() map[string]Value {
	entries := make(map[string]Value)
	var walk func(prefix Path, obj *Object)
	walk = func(prefix Path, obj *Object) {
		for _, key := range obj.keys {
			p := prefix.Child(key)
			if child, isObj := obj.fields[key].(*Object); isObj && !child.IsEmpty() {
				walk(p, child)
			} else {
				entries[p.String()] = obj.fields[key]
			}
		}
	}
	walk(nil, c.root)
	return entries
}

// Render renders the configuration according to the options. HOCON output
// omits the root braces, as conventionally written.
func (c *Config) Render(opts RenderOptions) string {
	if opts.JSON {
		return Render(c.root, opts)
	}
	var sb strings.Builder
	for i, key := range c.root.keys {
		if i > 0 && !opts.Formatted {
			sb.WriteString(",")
		}
		if opts.OriginComments && opts.Formatted {
			sb.WriteString("# ")
			sb.WriteString(c.root.fields[key].Origin().Description())
			sb.WriteString("\n")
		}
		renderKey(&sb, key, opts)
		if _, isObj := c.root.fields[key].(*Object); isObj {
			sb.WriteString(" ")
		} else {
			sb.WriteString(" = ")
		}
		renderValueInto(&sb, c.root.fields[key], 0, opts)
		if opts.Formatted {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// String renders the configuration as concise JSON.
func (c *Config) String() string {
	return Render(c.root, ConciseRenderOptions())
}
