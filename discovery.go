package hocon

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions configures automatic config file discovery for the
// Builder.
type FileDiscoveryOptions struct {
	// Base name of the config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for an explicit path
	EnvVar string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in the current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults for an application name.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".conf", ".json", ".toml", ".yaml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// WithFileDiscovery locates the primary config file by searching the
// configured paths. The environment variable, when set, takes precedence
// over searching.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			b.file = path
			return b
		}
	}

	searchPaths := b.discoverySearchPaths(opts)
	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			candidate := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				b.file = candidate
				return b
			}
		}
	}

	// Nothing found: leave the file unset and tolerate its absence so the
	// build can proceed on fallbacks alone.
	b.parseOpts = b.parseOpts.WithAllowMissing(true)
	return b
}

func (b *Builder) discoverySearchPaths(opts FileDiscoveryOptions) []string {
	var paths []string
	if opts.UseCurrentDir {
		paths = append(paths, ".")
	}
	paths = append(paths, opts.Paths...)
	if opts.UseXDG {
		xdgHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgHome == "" {
			if home, err := os.UserHomeDir(); err == nil {
				xdgHome = filepath.Join(home, ".config")
			}
		}
		if xdgHome != "" {
			paths = append(paths, filepath.Join(xdgHome, opts.Name))
		}
		paths = append(paths, filepath.Join("/etc", opts.Name))
	}
	return paths
}
