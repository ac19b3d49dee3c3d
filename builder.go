package hocon

import "fmt"

// ValidatorFunc validates a fully loaded *Config; returning an error fails
// the build.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for assembling an application
// configuration from a primary source, fallbacks, and resolve options.
type Builder struct {
	file        string
	text        string
	parseOpts   ParseOptions
	resolveOpts ResolveOptions
	fallbacks   []*Parseable
	validators  []ValidatorFunc
	err         error
}

// NewBuilder creates a builder with default parse and resolve options.
func NewBuilder() *Builder {
	return &Builder{
		parseOpts:   DefaultParseOptions(),
		resolveOpts: DefaultResolveOptions(),
	}
}

// WithFile sets the primary configuration file.
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithString sets an in-memory primary document instead of a file.
func (b *Builder) WithString(text string) *Builder {
	b.text = text
	return b
}

// WithSyntax forces the input syntax instead of guessing from the file
// extension.
func (b *Builder) WithSyntax(s Syntax) *Builder {
	b.parseOpts = b.parseOpts.WithSyntax(s)
	return b
}

// WithAllowMissing tolerates a missing primary file, producing an empty
// configuration layer in its place.
func (b *Builder) WithAllowMissing(allow bool) *Builder {
	b.parseOpts = b.parseOpts.WithAllowMissing(allow)
	return b
}

// WithIncluder installs an application includer for include directives.
func (b *Builder) WithIncluder(inc Includer) *Builder {
	b.parseOpts = b.parseOpts.WithIncluder(inc)
	return b
}

// WithEnv controls environment-variable fallback for substitutions.
func (b *Builder) WithEnv(use bool) *Builder {
	b.resolveOpts = b.resolveOpts.WithUseSystemEnvironment(use)
	return b
}

// WithAllowUnresolved permits unresolved substitutions to survive Build.
func (b *Builder) WithAllowUnresolved(allow bool) *Builder {
	b.resolveOpts = b.resolveOpts.WithAllowUnresolved(allow)
	return b
}

// WithFallbackFile adds a lower-precedence configuration file; earlier
// fallbacks win over later ones.
func (b *Builder) WithFallbackFile(path string) *Builder {
	b.fallbacks = append(b.fallbacks, ParseableFile(path, DefaultParseOptions().WithAllowMissing(true)))
	return b
}

// WithFallbackString adds a lower-precedence in-memory document, typically
// the application's reference defaults.
func (b *Builder) WithFallbackString(text string) *Builder {
	b.fallbacks = append(b.fallbacks, ParseableString(text, DefaultParseOptions()))
	return b
}

// WithValidator adds a validation function run after resolution; validators
// run in the order added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build parses the primary source, layers the fallbacks underneath,
// resolves, and validates.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	var primary *Parseable
	switch {
	case b.text != "":
		primary = ParseableString(b.text, b.parseOpts)
	case b.file != "":
		primary = ParseableFile(b.file, b.parseOpts)
	default:
		primary = ParseableString("", b.parseOpts)
	}

	cfg, err := primary.Parse()
	if err != nil {
		return nil, err
	}
	for _, fallback := range b.fallbacks {
		layer, err := fallback.Parse()
		if err != nil {
			return nil, err
		}
		cfg = cfg.WithFallback(layer)
	}

	resolved, err := cfg.ResolveWith(b.resolveOpts)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(resolved); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return resolved, nil
}

// MustBuild is Build, panicking on error. A missing primary file does not
// error when WithAllowMissing(true) is set, so it never panics for that.
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and decodes the resolved configuration into the given
// struct pointer.
func (b *Builder) BuildAndScan(target any) error {
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	return cfg.Scan("", target)
}
