package hocon

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBasic(t *testing.T) {
	cfg, err := NewBuilder().
		WithString("a = 1\nb = ${a}").
		Build()
	require.NoError(t, err)
	b, err := cfg.GetInt("b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b)
}

func TestBuilderFallbackLayers(t *testing.T) {
	dir := t.TempDir()
	primary := writeFile(t, dir, "app.conf", "port = 9000")

	cfg, err := NewBuilder().
		WithFile(primary).
		WithFallbackString("port = 80\nhost = localhost").
		Build()
	require.NoError(t, err)

	port, err := cfg.GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), port, "primary wins over fallback")

	host, err := cfg.GetString("host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host, "fallback fills gaps")
}

func TestBuilderEarlierFallbackWins(t *testing.T) {
	cfg, err := NewBuilder().
		WithString("x = top").
		WithFallbackString("y = first").
		WithFallbackString("y = second\nz = deep").
		Build()
	require.NoError(t, err)

	y, err := cfg.GetString("y")
	require.NoError(t, err)
	assert.Equal(t, "first", y)
	assert.True(t, cfg.HasPath("z"))
}

func TestBuilderSubstitutionAcrossLayers(t *testing.T) {
	cfg, err := NewBuilder().
		WithString("url = ${defaults.scheme}\"://x\"").
		WithFallbackString("defaults { scheme = https }").
		Build()
	require.NoError(t, err)
	url, err := cfg.GetString("url")
	require.NoError(t, err)
	assert.Equal(t, "https://x", url, "substitutions resolve after layering")
}

func TestBuilderMissingPrimary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.conf")

	t.Run("FailsByDefault", func(t *testing.T) {
		_, err := NewBuilder().WithFile(missing).Build()
		assert.ErrorIs(t, err, ErrIO)
	})

	t.Run("ToleratedWhenAllowed", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithFile(missing).
			WithAllowMissing(true).
			WithFallbackString("fallback = true").
			Build()
		require.NoError(t, err)
		assert.True(t, cfg.HasPath("fallback"))
	})
}

func TestBuilderValidator(t *testing.T) {
	requirePort := func(c *Config) error {
		if !c.HasPath("port") {
			return errors.New("port is required")
		}
		return nil
	}

	t.Run("Passes", func(t *testing.T) {
		_, err := NewBuilder().WithString("port = 1").WithValidator(requirePort).Build()
		assert.NoError(t, err)
	})

	t.Run("Fails", func(t *testing.T) {
		_, err := NewBuilder().WithString("host = x").WithValidator(requirePort).Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port is required")
	})
}

func TestBuilderSyntaxOverride(t *testing.T) {
	dir := t.TempDir()
	// JSON content in a file without a telling extension.
	path := writeFile(t, dir, "data.config", `{"a" : 1}`)

	cfg, err := NewBuilder().WithFile(path).WithSyntax(SyntaxJSON).Build()
	require.NoError(t, err)
	a, err := cfg.GetInt("a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a)
}

func TestBuilderBuildAndScan(t *testing.T) {
	var out struct {
		Name  string `hocon:"name"`
		Count int    `hocon:"count"`
	}
	err := NewBuilder().
		WithString("name = svc\ncount = 3").
		BuildAndScan(&out)
	require.NoError(t, err)
	assert.Equal(t, "svc", out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestBuilderEnvToggle(t *testing.T) {
	t.Setenv("builder_env_probe", "hello")

	t.Run("Enabled", func(t *testing.T) {
		cfg, err := NewBuilder().WithString("a = ${builder_env_probe}").WithEnv(true).Build()
		require.NoError(t, err)
		s, err := cfg.GetString("a")
		require.NoError(t, err)
		assert.Equal(t, "hello", s)
	})

	t.Run("Disabled", func(t *testing.T) {
		_, err := NewBuilder().WithString("a = ${builder_env_probe}").WithEnv(false).Build()
		assert.ErrorIs(t, err, ErrUnresolved)
	})
}

func TestFileDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "myapp.conf", "found = conf")

	t.Run("FindsByExtensionOrder", func(t *testing.T) {
		opts := FileDiscoveryOptions{
			Name:       "myapp",
			Extensions: []string{".conf", ".json"},
			Paths:      []string{dir},
		}
		cfg, err := NewBuilder().WithFileDiscovery(opts).Build()
		require.NoError(t, err)
		s, err := cfg.GetString("found")
		require.NoError(t, err)
		assert.Equal(t, "conf", s)
	})

	t.Run("EnvVarOverrides", func(t *testing.T) {
		explicit := writeFile(t, dir, "explicit.conf", "found = explicit")
		t.Setenv("MYAPP_CONFIG", explicit)
		opts := DefaultDiscoveryOptions("myapp")
		opts.Paths = []string{dir}
		opts.UseXDG = false
		opts.UseCurrentDir = false
		cfg, err := NewBuilder().WithFileDiscovery(opts).Build()
		require.NoError(t, err)
		s, err := cfg.GetString("found")
		require.NoError(t, err)
		assert.Equal(t, "explicit", s)
	})

	t.Run("NothingFoundBuildsEmpty", func(t *testing.T) {
		opts := FileDiscoveryOptions{
			Name:       "ghost-app",
			Extensions: []string{".conf"},
			Paths:      []string{dir},
		}
		cfg, err := NewBuilder().
			WithFileDiscovery(opts).
			WithFallbackString("defaulted = true").
			Build()
		require.NoError(t, err)
		assert.True(t, cfg.HasPath("defaulted"))
	})
}
