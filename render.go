package hocon

import (
	"math"
	"strconv"
	"strings"
)

// Render renders a value according to the options. Concise options produce
// single-line JSON; default options produce formatted HOCON.
func Render(v Value, opts RenderOptions) string {
	var sb strings.Builder
	renderValueInto(&sb, v, 0, opts)
	if opts.Formatted {
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderIndent(sb *strings.Builder, indent int, opts RenderOptions) {
	if opts.Formatted {
		sb.WriteString(strings.Repeat("    ", indent))
	}
}

func renderKey(sb *strings.Builder, key string, opts RenderOptions) {
	if opts.JSON || needsQuotes(key) {
		sb.WriteString(strconv.Quote(key))
	} else {
		sb.WriteString(key)
	}
}

func renderValueInto(sb *strings.Builder, v Value, indent int, opts RenderOptions) {
	switch value := v.(type) {
	case *Object:
		renderObjectInto(sb, value, indent, opts)
	case *List:
		renderListInto(sb, value, indent, opts)
	case *stringValue:
		sb.WriteString(strconv.Quote(value.v))
	case *intValue:
		sb.WriteString(strconv.FormatInt(value.v, 10))
	case *doubleValue:
		renderDouble(sb, value.v, opts)
	case *boolValue:
		sb.WriteString(strconv.FormatBool(value.v))
	case *nullValue:
		sb.WriteString("null")
	case *substitutionValue:
		if opts.JSON {
			sb.WriteString(strconv.Quote(value.text()))
		} else {
			sb.WriteString(value.text())
		}
	case *concatValue:
		for _, part := range value.parts {
			renderValueInto(sb, part, indent, opts)
		}
	case *delayedMerge:
		// An unresolved merge renders its pending stack, highest
		// precedence first, entries separated by spaces. Parsed again, that
		// text is a concatenation, in which later parts win, so the
		// precedence of the entries is not kept.
		for i, entry := range value.stack {
			if i > 0 {
				sb.WriteString(" ")
			}
			renderValueInto(sb, entry, indent, opts)
		}
	}
}

func renderDouble(sb *strings.Builder, d float64, opts RenderOptions) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		if opts.JSON {
			sb.WriteString("null")
		} else {
			sb.WriteString(strconv.FormatFloat(d, 'g', -1, 64))
		}
		return
	}
	sb.WriteString(strconv.FormatFloat(d, 'g', -1, 64))
}

func renderObjectInto(sb *strings.Builder, obj *Object, indent int, opts RenderOptions) {
	if obj.IsEmpty() {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{")
	if opts.Formatted {
		sb.WriteString("\n")
	}
	for i, key := range obj.keys {
		field := obj.fields[key]
		if opts.OriginComments && opts.Formatted {
			renderIndent(sb, indent+1, opts)
			sb.WriteString("# ")
			sb.WriteString(field.Origin().Description())
			sb.WriteString("\n")
		}
		renderIndent(sb, indent+1, opts)
		renderKey(sb, key, opts)
		if opts.JSON {
			sb.WriteString(" : ")
		} else if _, isObj := field.(*Object); isObj {
			sb.WriteString(" ")
		} else {
			sb.WriteString(" = ")
		}
		renderValueInto(sb, field, indent+1, opts)
		if i < len(obj.keys)-1 {
			if opts.JSON || !opts.Formatted {
				sb.WriteString(",")
			}
		}
		if opts.Formatted {
			sb.WriteString("\n")
		}
	}
	renderIndent(sb, indent, opts)
	sb.WriteString("}")
}

func renderListInto(sb *strings.Builder, list *List, indent int, opts RenderOptions) {
	if len(list.items) == 0 {
		sb.WriteString("[]")
		return
	}
	sb.WriteString("[")
	if opts.Formatted {
		sb.WriteString("\n")
	}
	for i, item := range list.items {
		renderIndent(sb, indent+1, opts)
		renderValueInto(sb, item, indent+1, opts)
		if i < len(list.items)-1 {
			sb.WriteString(",")
		}
		if opts.Formatted {
			sb.WriteString("\n")
		}
	}
	renderIndent(sb, indent, opts)
	sb.WriteString("]")
}
