package hocon

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConciseJSON(t *testing.T) {
	cfg := mustLoad(t, "b = two\na = 1\nlist = [1, true, null]")
	out := cfg.String()

	// Concise output must be valid JSON preserving insertion order.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(1), decoded["a"])
	assert.Equal(t, "two", decoded["b"])
	assert.Less(t, strings.Index(out, "\"b\""), strings.Index(out, "\"a\""),
		"insertion order preserved in rendering")
	assert.NotContains(t, out, "\n")
}

func TestRenderFormattedReparses(t *testing.T) {
	cfg := mustLoad(t, `
server {
    host = "local host"
    port = 8080
    opts { a = 1.5, b = [x, y] }
}
flag = true
`)
	rendered := cfg.Render(DefaultRenderOptions())
	reparsed, err := LoadString(rendered)
	require.NoError(t, err)
	assert.True(t, valuesEqual(cfg.root, reparsed.root),
		"rendered config must reparse to the same tree:\n%s", rendered)
}

func TestRenderJSONReparsesAsJSON(t *testing.T) {
	cfg := mustLoad(t, "a { b = [1, 2], c = \"x\" }\nd = null")
	rendered := Render(cfg.Root(), RenderOptions{JSON: true, Formatted: true})
	v, err := ParseableString(rendered, DefaultParseOptions().WithSyntax(SyntaxJSON)).ParseValue()
	require.NoError(t, err, "output was not strict JSON:\n%s", rendered)
	assert.True(t, valuesEqual(cfg.root, v.(*Object)))
}

func TestRenderQuotesAwkwardKeys(t *testing.T) {
	cfg := mustLoad(t, `"key with space" = 1` + "\n" + `"a.b" = 2`)
	rendered := cfg.Render(DefaultRenderOptions())
	assert.Contains(t, rendered, `"key with space"`)
	assert.Contains(t, rendered, `"a.b"`)
	reparsed, err := LoadString(rendered)
	require.NoError(t, err)
	assert.True(t, reparsed.HasPath(`"a.b"`))
}

func TestRenderOriginComments(t *testing.T) {
	opts := DefaultParseOptions().WithOriginDescription("origins.conf")
	parsed, err := ParseableString("a = 1", opts).Parse()
	require.NoError(t, err)
	cfg, err := parsed.Resolve()
	require.NoError(t, err)

	rendered := cfg.Render(RenderOptions{Formatted: true, OriginComments: true})
	assert.Contains(t, rendered, "# origins.conf")
}

func TestRenderEmpty(t *testing.T) {
	cfg := mustLoad(t, "")
	assert.Equal(t, "{}", cfg.String())
}
