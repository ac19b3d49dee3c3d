package hocon

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxIncludeDepth caps include nesting; beyond it a cycle error with the
// full trace is raised.
const maxIncludeDepth = 50

// Includer lets an application take over include resolution, typically to
// serve classpath()/url() forms from its own storage. Returning (nil, nil)
// defers to the default includer, which always remains reachable.
type Includer interface {
	Include(ctx IncludeContext, name string) (Value, error)
}

// IncluderFunc adapts a function to the Includer interface.
type IncluderFunc func(ctx IncludeContext, name string) (Value, error)

// Include calls the function.
func (f IncluderFunc) Include(ctx IncludeContext, name string) (Value, error) {
	return f(ctx, name)
}

// IncludeContext is handed to an application includer so it can parse nested
// sources consistently with the including document.
type IncludeContext interface {
	// ParseOptions returns the options of the including parse.
	ParseOptions() ParseOptions
	// WithParseOptions returns a context whose Relative parseables use the
	// given options instead.
	WithParseOptions(opts ParseOptions) IncludeContext
	// Relative derives a parseable for a name resolved against the
	// including source's location.
	Relative(name string) *Parseable
}

// source is one place bytes can come from: a file, an in-memory string, or
// a placeholder for something known to be absent.
type source interface {
	open() (io.ReadCloser, error)
	origin() *Origin
	guessSyntax() Syntax
	// relative derives a sibling source for an include argument. Include
	// arguments always use '/' separators; the operating system deals with
	// native ones at open time.
	relative(name string) source
}

type fileSource struct {
	path string
}

func (s *fileSource) open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

func (s *fileSource) origin() *Origin {
	return NewFileOrigin(s.path)
}

func (s *fileSource) guessSyntax() Syntax {
	return syntaxFromExtension(s.path)
}

func (s *fileSource) relative(name string) source {
	if path.IsAbs(name) || filepath.IsAbs(name) {
		return &fileSource{path: name}
	}
	sibling := path.Join(path.Dir(filepath.ToSlash(s.path)), name)
	return &fileSource{path: filepath.FromSlash(sibling)}
}

type stringSource struct {
	text string
	desc string
}

func (s *stringSource) open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.text)), nil
}

func (s *stringSource) origin() *Origin {
	return NewOrigin(s.desc)
}

func (s *stringSource) guessSyntax() Syntax {
	return SyntaxUnspecified
}

func (s *stringSource) relative(name string) source {
	// Includes from an in-memory source can only be resolved as plain
	// file paths relative to the working directory.
	return &fileSource{path: filepath.FromSlash(name)}
}

// notFoundSource stands in for a source that is known to be missing; opening
// it always fails, so the missing-file policy decides the outcome.
type notFoundSource struct {
	what    string
	message string
}

func (s *notFoundSource) open() (io.ReadCloser, error) {
	return nil, errors.New(s.message)
}

func (s *notFoundSource) origin() *Origin {
	return NewOrigin(s.what)
}

func (s *notFoundSource) guessSyntax() Syntax {
	return SyntaxUnspecified
}

func (s *notFoundSource) relative(name string) source {
	return &notFoundSource{what: name, message: fmt.Sprintf("%s is relative to a missing source", name)}
}

// includeStack is the chain of sources currently being parsed, threaded
// explicitly through nested parses so includes on the same call chain share
// it. It exists for the duration of one top-level parse; there is no global
// state to leak between calls.
type includeStack struct {
	entries []string
}

func (st *includeStack) push(origin *Origin, description string) error {
	if len(st.entries) >= maxIncludeDepth {
		return cycleError(origin, fmt.Sprintf("include depth exceeds %d:\n  %s",
			maxIncludeDepth, strings.Join(st.entries, "\n  ")))
	}
	st.entries = append(st.entries, description)
	return nil
}

func (st *includeStack) pop() {
	st.entries = st.entries[:len(st.entries)-1]
}

// Parseable couples a source with parse options. It is the entry point of
// the pipeline: Parse for a Config, ParseValue for the raw value tree,
// ParseDocument for the formatting-preserving AST.
type Parseable struct {
	src   source
	opts  ParseOptions
	stack *includeStack
}

// ParseableFile creates a parseable reading the named file.
func ParseableFile(filePath string, opts ParseOptions) *Parseable {
	return &Parseable{src: &fileSource{path: filePath}, opts: opts, stack: &includeStack{}}
}

// ParseableString creates a parseable reading an in-memory document.
func ParseableString(text string, opts ParseOptions) *Parseable {
	desc := opts.originDescription
	if desc == "" {
		desc = "string"
	}
	return &Parseable{src: &stringSource{text: text, desc: desc}, opts: opts, stack: &includeStack{}}
}

// ParseableNotFound creates a parseable for a source known to be absent;
// parsing it yields an empty object if the options allow missing sources,
// an IO error otherwise.
func ParseableNotFound(what, message string, opts ParseOptions) *Parseable {
	return &Parseable{src: &notFoundSource{what: what, message: message}, opts: opts, stack: &includeStack{}}
}

// Options returns the parseable's options after syntax fixup.
func (p *Parseable) Options() ParseOptions {
	return p.fixupOptions()
}

// Origin returns the origin values from this parseable will carry.
func (p *Parseable) Origin() *Origin {
	return p.baseOrigin()
}

func (p *Parseable) baseOrigin() *Origin {
	if p.opts.originDescription != "" {
		return NewOrigin(p.opts.originDescription)
	}
	return p.src.origin()
}

func (p *Parseable) fixupOptions() ParseOptions {
	opts := p.opts
	if opts.syntax == SyntaxUnspecified {
		opts.syntax = p.src.guessSyntax()
	}
	if opts.syntax == SyntaxUnspecified {
		opts.syntax = SyntaxCONF
	}
	return opts
}

// Parse parses the source into an unresolved Config. The root of the
// document must be an object, not an array.
func (p *Parseable) Parse() (*Config, error) {
	v, err := p.ParseValue()
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, wrongTypeError(v.Origin(), "document root", "object", v.ValueType().String())
	}
	return newConfig(obj), nil
}

// ParseValue parses the source into its raw value tree, substitutions left
// unevaluated.
func (p *Parseable) ParseValue() (Value, error) {
	origin := p.baseOrigin()
	if err := p.stack.push(origin, origin.Description()); err != nil {
		return nil, err
	}
	defer p.stack.pop()

	data, err := p.readSource()
	if err != nil {
		if p.opts.allowMissing {
			return NewObject(origin.withDescriptionSuffix(" (not found)")), nil
		}
		return nil, ioError(origin, err, "could not read %s", origin.Description())
	}

	opts := p.fixupOptions()
	switch opts.syntax {
	case SyntaxTOML, SyntaxYAML:
		return parseForeign(origin, data, opts.syntax)
	}

	tokens, err := tokenizeString(origin, string(data))
	if err != nil {
		return nil, err
	}
	root, err := parseDocumentTokens(origin, tokens, opts.syntax)
	if err != nil {
		return nil, err
	}
	extractor := &valueExtractor{include: p.includeValue}
	if opts.syntax == SyntaxJSON {
		extractor.include = nil
	}
	return extractor.extractRoot(root)
}

// ParseDocument parses the source into its formatting-preserving AST.
func (p *Parseable) ParseDocument() (*Document, error) {
	origin := p.baseOrigin()
	data, err := p.readSource()
	if err != nil {
		if p.opts.allowMissing {
			return &Document{root: &rootNode{origin: origin}, syntax: SyntaxCONF}, nil
		}
		return nil, ioError(origin, err, "could not read %s", origin.Description())
	}
	opts := p.fixupOptions()
	if opts.syntax == SyntaxTOML || opts.syntax == SyntaxYAML {
		return nil, parseError(origin, "documents are only supported for CONF and JSON syntax, not %s", opts.syntax)
	}
	tokens, err := tokenizeString(origin, string(data))
	if err != nil {
		return nil, err
	}
	root, err := parseDocumentTokens(origin, tokens, opts.syntax)
	if err != nil {
		return nil, err
	}
	return &Document{root: root, syntax: opts.syntax}, nil
}

func (p *Parseable) readSource() ([]byte, error) {
	reader, err := p.src.open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// relativeParseable derives a parseable for an include argument, sharing
// this parseable's cycle stack and includer but with its own missing-file
// policy.
func (p *Parseable) relativeParseable(name string, allowMissing bool) *Parseable {
	opts := p.opts.WithAllowMissing(allowMissing)
	opts.syntax = SyntaxUnspecified
	opts.originDescription = ""
	return &Parseable{src: p.src.relative(name), opts: opts, stack: p.stack}
}

// includeContext implements IncludeContext for application includers.
type includeContext struct {
	parseable    *Parseable
	allowMissing bool
}

func (c *includeContext) ParseOptions() ParseOptions {
	return c.parseable.opts
}

func (c *includeContext) WithParseOptions(opts ParseOptions) IncludeContext {
	nested := &Parseable{src: c.parseable.src, opts: opts, stack: c.parseable.stack}
	return &includeContext{parseable: nested, allowMissing: c.allowMissing}
}

func (c *includeContext) Relative(name string) *Parseable {
	return c.parseable.relativeParseable(name, c.allowMissing)
}

// includeValue is the include engine: it turns an include directive into the
// object to splice at the current position.
func (p *Parseable) includeValue(inc *includeNode) (*Object, error) {
	allowMissing := !inc.required

	// An application includer sees the include first; (nil, nil) defers to
	// the default behavior.
	if p.opts.includer != nil {
		ctx := &includeContext{parseable: p, allowMissing: allowMissing}
		v, err := p.opts.includer.Include(ctx, inc.name)
		if err != nil {
			return nil, err
		}
		if v != nil {
			obj, ok := v.(*Object)
			if !ok {
				return nil, wrongTypeError(inc.origin, inc.name, "object", v.ValueType().String())
			}
			return obj, nil
		}
	}

	switch inc.kind {
	case includeClasspath:
		// Without an application includer there is no resource store to
		// consult; the missing-file policy decides.
		return p.includeMissing(inc, allowMissing, "classpath resource "+inc.name)
	case includeURL:
		if after, ok := strings.CutPrefix(inc.name, "file://"); ok {
			return p.includeFile(inc, after, allowMissing)
		}
		return p.includeMissing(inc, allowMissing, "url "+inc.name)
	case includeFile:
		return p.includeFile(inc, inc.name, allowMissing)
	default:
		// Heuristic: a name with an extension is that file; a basename
		// merges every matching extension that exists.
		if path.Ext(inc.name) != "" {
			return p.includeFile(inc, inc.name, allowMissing)
		}
		merged := NewObject(inc.origin)
		found := false
		// Later candidates take precedence, so .conf wins over .json.
		for _, candidate := range []string{inc.name + ".json", inc.name + ".conf"} {
			if !sourceExists(p.src.relative(candidate)) {
				continue
			}
			obj, err := p.includeFile(inc, candidate, allowMissing)
			if err != nil {
				return nil, err
			}
			merged = mergeObjects(obj, merged)
			found = true
		}
		if !found && !allowMissing {
			return nil, ioError(inc.origin, nil, "could not load required include %q with any of the known extensions", inc.name)
		}
		return merged, nil
	}
}

func (p *Parseable) includeFile(inc *includeNode, name string, allowMissing bool) (*Object, error) {
	nested := p.relativeParseable(name, allowMissing)
	v, err := nested.ParseValue()
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, parseError(inc.origin, "included file %q has an array as its root value; only objects can be included", name)
	}
	return obj, nil
}

// sourceExists probes whether a source can be opened at all, used by the
// heuristic include to decide which extensions to merge.
func sourceExists(s source) bool {
	reader, err := s.open()
	if err != nil {
		return false
	}
	reader.Close()
	return true
}

func (p *Parseable) includeMissing(inc *includeNode, allowMissing bool, what string) (*Object, error) {
	if allowMissing {
		return NewObject(inc.origin.withDescriptionSuffix(" (not found)")), nil
	}
	return nil, ioError(inc.origin, nil, "could not load required include: %s", what)
}
