package hocon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseValueFromString(t *testing.T, text string) Value {
	t.Helper()
	v, err := ParseableString(text, DefaultParseOptions()).ParseValue()
	require.NoError(t, err)
	return v
}

func parseObjectFromString(t *testing.T, text string) *Object {
	t.Helper()
	v := parseValueFromString(t, text)
	obj, ok := v.(*Object)
	require.True(t, ok, "expected object root, got %T", v)
	return obj
}

func TestParseTopLevelForms(t *testing.T) {
	t.Run("Unbraced", func(t *testing.T) {
		obj := parseObjectFromString(t, "a = 1\nb = 2")
		assert.Equal(t, []string{"a", "b"}, obj.Keys())
	})

	t.Run("Braced", func(t *testing.T) {
		obj := parseObjectFromString(t, "{ a = 1 }")
		assert.Equal(t, int64(1), obj.Get("a").Unwrapped())
	})

	t.Run("Array", func(t *testing.T) {
		v := parseValueFromString(t, "[1, 2, 3]")
		list, ok := v.(*List)
		require.True(t, ok)
		assert.Len(t, list.Items(), 3)
	})

	t.Run("Empty", func(t *testing.T) {
		obj := parseObjectFromString(t, "")
		assert.True(t, obj.IsEmpty())
	})

	t.Run("OnlyComments", func(t *testing.T) {
		obj := parseObjectFromString(t, "# nothing here\n// at all\n")
		assert.True(t, obj.IsEmpty())
	})
}

func TestParseSeparators(t *testing.T) {
	for _, text := range []string{"a = 1", "a : 1", "a { b = 1 }"} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseableString(text, DefaultParseOptions()).ParseValue()
			assert.NoError(t, err)
		})
	}

	t.Run("CommaSeparated", func(t *testing.T) {
		obj := parseObjectFromString(t, "a = 1, b = 2")
		assert.Equal(t, int64(1), obj.Get("a").Unwrapped())
		assert.Equal(t, int64(2), obj.Get("b").Unwrapped())
	})

	t.Run("TwoFieldsOneLineNoComma", func(t *testing.T) {
		_, err := ParseableString("a = 1 b = 2", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("MissingValue", func(t *testing.T) {
		_, err := ParseableString("a =", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("KeyAlone", func(t *testing.T) {
		_, err := ParseableString("justakey\n", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestParseKeyPaths(t *testing.T) {
	obj := parseObjectFromString(t, "a.b.c = 1")
	a, ok := obj.Get("a").(*Object)
	require.True(t, ok)
	b, ok := a.Get("b").(*Object)
	require.True(t, ok)
	assert.Equal(t, int64(1), b.Get("c").Unwrapped())

	t.Run("QuotedKeyIsNotAPath", func(t *testing.T) {
		obj := parseObjectFromString(t, `"a.b" = 1`)
		assert.Equal(t, int64(1), obj.Get("a.b").Unwrapped())
		assert.Nil(t, obj.Get("a"))
	})
}

func TestParseDuplicateKeys(t *testing.T) {
	t.Run("LastScalarWins", func(t *testing.T) {
		obj := parseObjectFromString(t, "a = 1\na = 2")
		assert.Equal(t, int64(2), obj.Get("a").Unwrapped())
	})

	t.Run("ObjectsMerge", func(t *testing.T) {
		obj := parseObjectFromString(t, "a { x = 1 }\na { y = 2 }")
		a, ok := obj.Get("a").(*Object)
		require.True(t, ok)
		assert.Equal(t, int64(1), a.Get("x").Unwrapped())
		assert.Equal(t, int64(2), a.Get("y").Unwrapped())
	})

	t.Run("ScalarOverObject", func(t *testing.T) {
		obj := parseObjectFromString(t, "a { x = 1 }\na = 9")
		assert.Equal(t, int64(9), obj.Get("a").Unwrapped())
	})

	t.Run("InnerCollisionLastWins", func(t *testing.T) {
		obj := parseObjectFromString(t, "a { x = 1 }\na { x = 2 }")
		a := obj.Get("a").(*Object)
		assert.Equal(t, int64(2), a.Get("x").Unwrapped())
	})
}

func TestParseConcatenation(t *testing.T) {
	t.Run("StringsKeepWhitespace", func(t *testing.T) {
		obj := parseObjectFromString(t, "a = foo  bar")
		concat, ok := obj.Get("a").(*concatValue)
		require.True(t, ok)
		joined, err := joinConcat(concat.origin, concat.parts)
		require.NoError(t, err)
		assert.Equal(t, "foo  bar", joined.Unwrapped())
	})

	t.Run("QuotedAndUnquoted", func(t *testing.T) {
		cfg, err := LoadString(`a = "one" two "three"`)
		require.NoError(t, err)
		s, err := cfg.GetString("a")
		require.NoError(t, err)
		assert.Equal(t, "one two three", s)
	})

	t.Run("NumberThenString", func(t *testing.T) {
		cfg, err := LoadString("a = 1 fish")
		require.NoError(t, err)
		s, err := cfg.GetString("a")
		require.NoError(t, err)
		assert.Equal(t, "1 fish", s)
	})

	t.Run("MixedStringAndListIsError", func(t *testing.T) {
		_, err := ParseableString("a = foo [1]", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("MixedStringAndObjectIsError", func(t *testing.T) {
		_, err := ParseableString("a = { x = 1 } foo", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestParseJSONStrict(t *testing.T) {
	jsonOpts := DefaultParseOptions().WithSyntax(SyntaxJSON)

	t.Run("ValidJSON", func(t *testing.T) {
		v, err := ParseableString(`{"a" : 1, "b" : [true, null], "c" : {"d" : "x"}}`, jsonOpts).ParseValue()
		require.NoError(t, err)
		obj := v.(*Object)
		assert.Equal(t, int64(1), obj.Get("a").Unwrapped())
	})

	tests := []struct {
		name  string
		input string
	}{
		{"TrailingComma", `{ "a" : 1, }`},
		{"UnbracedRoot", `"a" : 1`},
		{"UnquotedString", `{"a" : foo}`},
		{"UnquotedKey", `{a : 1}`},
		{"Comment", "{\"a\" : 1 // no\n}"},
		{"EqualsSeparator", `{"a" = 1}`},
		{"Substitution", `{"a" : ${b}}`},
		{"MissingComma", `{"a" : 1 "b" : 2}`},
		{"PathKey", `{"a.b" : 1}`}, // quoted, so actually fine
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseableString(tt.input, jsonOpts).ParseValue()
			if tt.name == "PathKey" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrParse, "input %q", tt.input)
		})
	}

	t.Run("SameInputValidInHOCON", func(t *testing.T) {
		v, err := ParseableString(`{ "a" : 1, }`, DefaultParseOptions()).ParseValue()
		require.NoError(t, err)
		assert.Equal(t, int64(1), v.(*Object).Get("a").Unwrapped())
	})
}

func TestParseArrays(t *testing.T) {
	t.Run("NewlineSeparated", func(t *testing.T) {
		v := parseValueFromString(t, "[\n1\n2\n3\n]")
		assert.Len(t, v.(*List).Items(), 3)
	})

	t.Run("TrailingComma", func(t *testing.T) {
		v := parseValueFromString(t, "[1, 2, 3,]")
		assert.Len(t, v.(*List).Items(), 3)
	})

	t.Run("Nested", func(t *testing.T) {
		v := parseValueFromString(t, "[[1], [2, 3], {a = 4}]")
		items := v.(*List).Items()
		require.Len(t, items, 3)
		assert.Len(t, items[1].(*List).Items(), 2)
	})

	t.Run("Unclosed", func(t *testing.T) {
		_, err := ParseableString("a = [1, 2", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("DoubleComma", func(t *testing.T) {
		_, err := ParseableString("a = [1,,2]", DefaultParseOptions()).ParseValue()
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestParseErrorsCarryOrigin(t *testing.T) {
	opts := DefaultParseOptions().WithOriginDescription("test.conf")
	_, err := ParseableString("a = 1\nb = [broken", opts).ParseValue()
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Origin().Line())
	assert.Contains(t, err.Error(), "test.conf")
}

func TestParseUnbalancedBraces(t *testing.T) {
	for _, input := range []string{"a { b = 1", "}", "a = 1 }"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseableString(input, DefaultParseOptions()).ParseValue()
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}
