package hocon

import (
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// parseForeign converts a TOML or YAML document into a value tree so such
// files can be loaded directly or spliced in by include directives. Origins
// are per-file; neither parser reports positions in a form worth carrying.
func parseForeign(origin *Origin, data []byte, syntax Syntax) (Value, error) {
	switch syntax {
	case SyntaxTOML:
		m := make(map[string]any)
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, wrapError(ErrParse, origin, err, "failed to parse TOML")
		}
		return FromAny(origin, m)
	case SyntaxYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, wrapError(ErrParse, origin, err, "failed to parse YAML")
		}
		if v == nil {
			return NewObject(origin), nil
		}
		return FromAny(origin, v)
	default:
		return nil, bugError("parseForeign called with syntax %s", syntax)
	}
}
