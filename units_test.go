package hocon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDuration(t *testing.T) {
	cfg := mustLoad(t, `
ns = 5ns
us = 5us
micro = "5µs"
ms = 5ms
s = 5s
spaced = "5 seconds"
m = 5m
h = 5h
d = 5d
words = 2 hours
fractional = 1.5h
bare = 250
bare-double = 0.5
`)
	tests := []struct {
		path     string
		expected time.Duration
	}{
		{"ns", 5 * time.Nanosecond},
		{"us", 5 * time.Microsecond},
		{"micro", 5 * time.Microsecond},
		{"ms", 5 * time.Millisecond},
		{"s", 5 * time.Second},
		{"spaced", 5 * time.Second},
		{"m", 5 * time.Minute},
		{"h", 5 * time.Hour},
		{"d", 5 * 24 * time.Hour},
		{"words", 2 * time.Hour},
		{"fractional", 90 * time.Minute},
		{"bare", 250 * time.Millisecond},
		{"bare-double", 500 * time.Microsecond},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d, err := cfg.GetDuration(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}

	t.Run("UnknownUnit", func(t *testing.T) {
		cfg := mustLoad(t, "x = 5 fortnights")
		_, err := cfg.GetDuration("x")
		assert.ErrorIs(t, err, ErrWrongType)
	})

	t.Run("NotANumber", func(t *testing.T) {
		cfg := mustLoad(t, "x = soon")
		_, err := cfg.GetDuration("x")
		assert.ErrorIs(t, err, ErrWrongType)
	})
}

func TestGetBytes(t *testing.T) {
	cfg := mustLoad(t, `
plain = 1024
b = "10B"
kb-decimal = 1kB
kb-upper = 1KB
k-binary = 1K
kib = 1KiB
mb = 1MB
m-binary = 1M
mib = 1Mi
gb = 1GB
g-binary = 1G
word-decimal = "1 kilobyte"
word-binary = "2 kibibytes"
fractional = "1.5Ki"
`)
	tests := []struct {
		path     string
		expected int64
	}{
		{"plain", 1024},
		{"b", 10},
		{"kb-decimal", 1000},
		{"kb-upper", 1000},
		{"k-binary", 1024},
		{"kib", 1024},
		{"mb", 1000 * 1000},
		{"m-binary", 1024 * 1024},
		{"mib", 1024 * 1024},
		{"gb", 1000 * 1000 * 1000},
		{"g-binary", 1024 * 1024 * 1024},
		{"word-decimal", 1000},
		{"word-binary", 2048},
		{"fractional", 1536},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, err := cfg.GetBytes(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}

	t.Run("Negative", func(t *testing.T) {
		cfg := mustLoad(t, "x = -5")
		_, err := cfg.GetBytes("x")
		assert.ErrorIs(t, err, ErrWrongType)
	})

	t.Run("UnknownUnit", func(t *testing.T) {
		cfg := mustLoad(t, "x = 5 furlongs")
		_, err := cfg.GetBytes("x")
		assert.ErrorIs(t, err, ErrWrongType)
	})

	t.Run("Overflow", func(t *testing.T) {
		cfg := mustLoad(t, "x = 9000000000EB")
		_, err := cfg.GetBytes("x")
		assert.ErrorIs(t, err, ErrWrongType)
	})
}
