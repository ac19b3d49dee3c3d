package hocon

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// durationUnits maps every accepted duration suffix, short and long forms,
// to its length. The empty suffix is handled by the caller's default.
var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond, "nano": time.Nanosecond, "nanos": time.Nanosecond,
	"nanosecond": time.Nanosecond, "nanoseconds": time.Nanosecond,

	"us": time.Microsecond, "µs": time.Microsecond, "micro": time.Microsecond,
	"micros": time.Microsecond, "microsecond": time.Microsecond, "microseconds": time.Microsecond,

	"ms": time.Millisecond, "milli": time.Millisecond, "millis": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,

	"s": time.Second, "second": time.Second, "seconds": time.Second,

	"m": time.Minute, "minute": time.Minute, "minutes": time.Minute,

	"h": time.Hour, "hour": time.Hour, "hours": time.Hour,

	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

// parseDurationString parses "10s", "1.5 hours", "250 ms", and similar. A
// bare number takes defaultUnit, historically milliseconds.
func parseDurationString(origin *Origin, path, s string, defaultUnit time.Duration) (time.Duration, error) {
	number, unit := splitUnit(s)
	if number == "" {
		return 0, wrongTypeError(origin, path, "duration", strconv.Quote(s))
	}
	length := defaultUnit
	if unit != "" {
		var known bool
		length, known = durationUnits[unit]
		if !known {
			return 0, newError(ErrWrongType, origin, "%s has unknown duration unit %q in value %q", path, unit, s)
		}
	}
	if i, err := strconv.ParseInt(number, 10, 64); err == nil {
		if i != 0 && (i > math.MaxInt64/int64(length) || i < math.MinInt64/int64(length)) {
			return 0, newError(ErrWrongType, origin, "%s: duration %q overflows", path, s)
		}
		return time.Duration(i) * length, nil
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, wrongTypeError(origin, path, "duration", strconv.Quote(s))
	}
	ns := f * float64(length)
	if math.IsNaN(ns) || ns > math.MaxInt64 || ns < math.MinInt64 {
		return 0, newError(ErrWrongType, origin, "%s: duration %q overflows", path, s)
	}
	return time.Duration(ns), nil
}

// byteUnits maps size suffixes to multipliers. Single letters and the
// two-letter Ki/Mi/... forms are binary (powers of 1024); forms ending in B
// with a lowercase or uppercase prefix letter (kB, KB, MB) and the decimal
// words are powers of 1000.
var byteUnits = buildByteUnits()

func buildByteUnits() map[string]uint64 {
	units := map[string]uint64{
		"": 1, "b": 1, "B": 1, "byte": 1, "bytes": 1,
	}
	type row struct {
		letter  string
		decWord string
		binWord string
	}
	rows := []row{
		{"k", "kilo", "kibi"},
		{"m", "mega", "mebi"},
		{"g", "giga", "gibi"},
		{"t", "tera", "tebi"},
		{"p", "peta", "pebi"},
		{"e", "exa", "exbi"},
	}
	decimal := uint64(1)
	binary := uint64(1)
	for _, r := range rows {
		decimal *= 1000
		binary *= 1024
		upper := strings.ToUpper(r.letter)
		// Decimal forms: kB, KB, kilobyte, kilobytes.
		units[r.letter+"B"] = decimal
		units[upper+"B"] = decimal
		units[r.decWord+"byte"] = decimal
		units[r.decWord+"bytes"] = decimal
		// Binary forms: K, k, Ki, KiB, kibibyte, kibibytes.
		units[r.letter] = binary
		units[upper] = binary
		units[upper+"i"] = binary
		units[upper+"iB"] = binary
		units[r.binWord+"byte"] = binary
		units[r.binWord+"bytes"] = binary
	}
	return units
}

// parseBytesString parses "128M", "1kB", "2 gigabytes", and similar into a
// byte count.
func parseBytesString(origin *Origin, path, s string) (int64, error) {
	number, unit := splitUnit(s)
	if number == "" {
		return 0, wrongTypeError(origin, path, "size in bytes", strconv.Quote(s))
	}
	mult, known := byteUnits[unit]
	if !known {
		return 0, newError(ErrWrongType, origin, "%s has unknown size unit %q in value %q", path, unit, s)
	}
	if i, err := strconv.ParseInt(number, 10, 64); err == nil {
		if i < 0 {
			return 0, newError(ErrWrongType, origin, "%s: size %q is negative", path, s)
		}
		if uint64(i) != 0 && uint64(i) > math.MaxInt64/mult {
			return 0, newError(ErrWrongType, origin, "%s: size %q overflows", path, s)
		}
		return i * int64(mult), nil
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, wrongTypeError(origin, path, "size in bytes", strconv.Quote(s))
	}
	total := f * float64(mult)
	if total < 0 || math.IsNaN(total) || total > math.MaxInt64 {
		return 0, newError(ErrWrongType, origin, "%s: size %q overflows", path, s)
	}
	return int64(total), nil
}

// splitUnit separates the numeric prefix of a value from its unit suffix,
// tolerating whitespace between them.
func splitUnit(s string) (number, unit string) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' ||
			c == 'e' || c == 'E' {
			// 'e'/'E' only count as numeric when part of an exponent;
			// otherwise they begin a unit like "exabytes".
			if c == 'e' || c == 'E' {
				if i+1 >= len(s) || !isExponentStart(s[i+1]) {
					break
				}
			}
			i++
			continue
		}
		break
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isExponentStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+'
}
