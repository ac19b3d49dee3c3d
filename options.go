package hocon

import (
	"path/filepath"
	"strings"
)

// Syntax selects the input language of a source.
type Syntax int

const (
	// SyntaxUnspecified guesses from the file extension, defaulting to CONF.
	SyntaxUnspecified Syntax = iota
	// SyntaxCONF is full HOCON.
	SyntaxCONF
	// SyntaxJSON is strict JSON: no comments, unquoted strings, substitutions,
	// includes, concatenations, unbraced roots, or trailing commas.
	SyntaxJSON
	// SyntaxTOML parses the source with a TOML parser and converts it.
	SyntaxTOML
	// SyntaxYAML parses the source with a YAML parser and converts it.
	SyntaxYAML
)

func (s Syntax) String() string {
	switch s {
	case SyntaxCONF:
		return "CONF"
	case SyntaxJSON:
		return "JSON"
	case SyntaxTOML:
		return "TOML"
	case SyntaxYAML:
		return "YAML"
	}
	return "unspecified"
}

// syntaxFromExtension guesses the syntax of a file name by extension.
func syntaxFromExtension(name string) Syntax {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return SyntaxJSON
	case ".conf":
		return SyntaxCONF
	case ".toml", ".tml":
		return SyntaxTOML
	case ".yaml", ".yml":
		return SyntaxYAML
	default:
		return SyntaxUnspecified
	}
}

// ParseOptions configure how a source is parsed. The zero value is ready to
// use; mutators return modified copies, the original is never changed.
type ParseOptions struct {
	syntax            Syntax
	allowMissing      bool
	originDescription string
	includer          Includer
}

// DefaultParseOptions returns options with unspecified syntax and
// allow-missing disabled, the right baseline for a top-level parse.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{}
}

// WithSyntax returns a copy with the input syntax forced.
func (o ParseOptions) WithSyntax(s Syntax) ParseOptions {
	o.syntax = s
	return o
}

// Syntax returns the configured syntax.
func (o ParseOptions) Syntax() Syntax {
	return o.syntax
}

// WithAllowMissing returns a copy with the missing-file policy set. When
// true, a source that cannot be opened parses as an empty object instead of
// failing.
func (o ParseOptions) WithAllowMissing(allow bool) ParseOptions {
	o.allowMissing = allow
	return o
}

// AllowMissing returns the missing-file policy.
func (o ParseOptions) AllowMissing() bool {
	return o.allowMissing
}

// WithOriginDescription returns a copy that overrides the origin description
// used for values from this source.
func (o ParseOptions) WithOriginDescription(desc string) ParseOptions {
	o.originDescription = desc
	return o
}

// OriginDescription returns the configured origin description, or "".
func (o ParseOptions) OriginDescription() string {
	return o.originDescription
}

// WithIncluder returns a copy with an application includer installed. The
// includer is composed with the default one, so the default remains
// reachable as a fallback.
func (o ParseOptions) WithIncluder(inc Includer) ParseOptions {
	o.includer = inc
	return o
}

// Includer returns the application includer, or nil.
func (o ParseOptions) Includer() Includer {
	return o.includer
}

// ResolveOptions configure substitution resolution.
type ResolveOptions struct {
	allowUnresolved      bool
	useSystemEnvironment bool
}

// DefaultResolveOptions enables environment-variable fallback and requires
// full resolution.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{useSystemEnvironment: true}
}

// WithAllowUnresolved returns a copy permitting unresolved substitutions to
// remain after resolve; querying such paths later fails with ErrUnresolved.
func (o ResolveOptions) WithAllowUnresolved(allow bool) ResolveOptions {
	o.allowUnresolved = allow
	return o
}

// AllowUnresolved returns whether unresolved substitutions may remain.
func (o ResolveOptions) AllowUnresolved() bool {
	return o.allowUnresolved
}

// WithUseSystemEnvironment returns a copy controlling whether required
// substitutions missing from the configuration fall back to environment
// variables.
func (o ResolveOptions) WithUseSystemEnvironment(use bool) ResolveOptions {
	o.useSystemEnvironment = use
	return o
}

// UseSystemEnvironment returns whether environment fallback is enabled.
func (o ResolveOptions) UseSystemEnvironment() bool {
	return o.useSystemEnvironment
}

// RenderOptions control Config and value rendering.
type RenderOptions struct {
	// Comments is accepted but has no effect on value rendering: values do
	// not carry the comments of their source. Document.Render keeps comments
	// regardless of this toggle.
	Comments bool
	// OriginComments writes a comment above each value naming its origin.
	// It only takes effect together with Formatted.
	OriginComments bool
	// Formatted enables indentation and newlines.
	Formatted bool
	// JSON restricts output to JSON syntax; OriginComments may still break
	// strict JSON if enabled together with Formatted.
	JSON bool
}

// DefaultRenderOptions returns formatted HOCON output.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Formatted: true}
}

// ConciseRenderOptions returns single-line JSON output: JSON is on, and
// Comments, OriginComments and Formatted are off.
func ConciseRenderOptions() RenderOptions {
	return RenderOptions{JSON: true}
}
