package hocon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Path
	}{
		{"Single", "a", Path{"a"}},
		{"Dotted", "a.b.c", Path{"a", "b", "c"}},
		{"QuotedSegmentKeepsDots", `a.b."c.d".e`, Path{"a", "b", "c.d", "e"}},
		{"NumericSegmentStaysString", "a.10", Path{"a", "10"}},
		{"DoubleNumeric", "a.10.0", Path{"a", "10", "0"}},
		{"QuotedOnly", `"x.y"`, Path{"x.y"}},
		{"QuotedEmpty", `a."".b`, Path{"a", "", "b"}},
		{"Dashes", "feature-flags.enable-debug", Path{"feature-flags", "enable-debug"}},
		{"TrueAsSegment", "a.true", Path{"a", "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			require.NoError(t, err)
			assert.True(t, p.Equal(tt.expected), "got %v", p)
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, input := range []string{"", ".", "a..b", ".a", "a.", "a.b."} {
		t.Run("Invalid_"+input, func(t *testing.T) {
			_, err := ParsePath(input)
			assert.ErrorIs(t, err, ErrParse, "input %q", input)
		})
	}
}

func TestPathCanonicalString(t *testing.T) {
	tests := []struct {
		path     Path
		expected string
	}{
		{Path{"a", "b"}, "a.b"},
		{Path{"a", "c.d"}, `a."c.d"`},
		{Path{"has space"}, `"has space"`},
		{Path{"true"}, `"true"`},
		{Path{""}, `""`},
		{Path{"under_score", "da-sh"}, "under_score.da-sh"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
		})
	}
}

// Canonical form must parse back to the same path.
func TestPathStringRoundTrip(t *testing.T) {
	paths := []Path{
		{"a"},
		{"a", "b", "c"},
		{"with.dot", "plain"},
		{"has space", "x"},
	}
	for _, p := range paths {
		reparsed, err := ParsePath(p.String())
		require.NoError(t, err)
		assert.True(t, p.Equal(reparsed), "path %v reparsed as %v", p, reparsed)
	}
}

func TestPathOperations(t *testing.T) {
	p := MustParsePath("a.b.c")
	assert.Equal(t, "a", p.First())
	assert.Equal(t, "c", p.Last())
	assert.True(t, p.Rest().Equal(Path{"b", "c"}))
	assert.True(t, p.Parent().Equal(Path{"a", "b"}))
	assert.True(t, p.StartsWith(Path{"a", "b"}))
	assert.True(t, p.StartsWith(p))
	assert.False(t, p.StartsWith(Path{"a", "c"}))
	assert.False(t, Path{"a"}.StartsWith(p))
	assert.True(t, p.Child("d").Equal(Path{"a", "b", "c", "d"}))
}
