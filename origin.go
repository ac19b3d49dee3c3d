package hocon

import (
	"fmt"
	"strings"
)

// Origin records where a token or value came from: a human-readable
// description, an optional file name, and a line number. Every token and
// every value in the tree carries one, so diagnostics can always point at
// source.
type Origin struct {
	description string
	filename    string
	line        int
}

// NewOrigin creates an origin with the given description and no file or line.
func NewOrigin(description string) *Origin {
	return &Origin{description: description}
}

// NewFileOrigin creates an origin for the named file.
func NewFileOrigin(filename string) *Origin {
	return &Origin{description: filename, filename: filename}
}

// WithLine returns a copy of the origin stamped with the given line number.
func (o *Origin) WithLine(line int) *Origin {
	if o == nil {
		return &Origin{line: line}
	}
	c := *o
	c.line = line
	return &c
}

// withDescriptionSuffix appends a suffix such as " (not found)" to the
// description, keeping file and line intact.
func (o *Origin) withDescriptionSuffix(suffix string) *Origin {
	c := *o
	c.description = o.description + suffix
	return &c
}

// Filename returns the file the origin points at, or "" for in-memory
// sources.
func (o *Origin) Filename() string {
	if o == nil {
		return ""
	}
	return o.filename
}

// Line returns the 1-based line number, or 0 if unknown.
func (o *Origin) Line() int {
	if o == nil {
		return 0
	}
	return o.line
}

// Description returns the human-readable location, e.g. "app.conf: 12".
func (o *Origin) Description() string {
	if o == nil {
		return "unknown origin"
	}
	if o.line > 0 {
		return fmt.Sprintf("%s: %d", o.description, o.line)
	}
	return o.description
}

func (o *Origin) String() string {
	return o.Description()
}

// mergeOrigins combines the origins of merged values so that diagnostics for
// the merged value name every contributing source.
func mergeOrigins(origins ...*Origin) *Origin {
	parts := make([]string, 0, len(origins))
	seen := make(map[string]bool, len(origins))
	line := 0
	file := ""
	for _, o := range origins {
		if o == nil {
			continue
		}
		d := o.description
		if !seen[d] {
			seen[d] = true
			parts = append(parts, d)
		}
		if line == 0 {
			line = o.line
		}
		if file == "" {
			file = o.filename
		}
	}
	switch len(parts) {
	case 0:
		return NewOrigin("merge of unknown origins")
	case 1:
		return &Origin{description: parts[0], filename: file, line: line}
	default:
		return &Origin{description: "merge of " + strings.Join(parts, ","), filename: file, line: line}
	}
}
