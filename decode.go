package hocon

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the resolved configuration under basePath into the target
// struct or map. The target must be a non-nil pointer. Field mapping uses
// the "hocon" struct tag; strings convert to time.Duration and
// comma-separated slices through decode hooks.
func (c *Config) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}
	if !c.IsResolved() {
		return unresolvedError(c.root.origin, basePath)
	}

	section := c
	if basePath != "" {
		sub, err := c.GetConfig(basePath)
		if err != nil {
			return err
		}
		section = sub
	}

	data, ok := section.root.Unwrapped().(map[string]any)
	if !ok {
		return bugError("object unwrapped to %T", section.root.Unwrapped())
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "hocon",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("failed to decode section %q into %T: %w", basePath, target, err)
	}
	return nil
}
