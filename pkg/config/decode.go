package config

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

const typeField = "type"

// decodeSource decodes one stage file entry by its "type" tag.
func decodeSource(entry interface{}) (Source, error) {
	fields, ok := entry.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("source must be a table, got %T", entry)
	}

	tag, ok := fields[typeField].(string)
	if !ok {
		return nil, fmt.Errorf("source is missing a string %q field", typeField)
	}

	rest := make(map[string]interface{}, len(fields)-1)
	for k, v := range fields {
		if k != typeField {
			rest[k] = v
		}
	}

	switch tag {
	case TypeSourceFile:
		var s SourceFile
		if err := decodeFields(rest, &s); err != nil {
			return nil, err
		}
		if s.Path == "" {
			return nil, fmt.Errorf("%s requires %q", tag, "path")
		}
		return s, nil
	case TypeSourceFiles:
		var s SourceFiles
		if err := decodeFields(rest, &s); err != nil {
			return nil, err
		}
		if s.Path == "" {
			return nil, fmt.Errorf("%s requires %q", tag, "path")
		}
		if len(s.Pattern) == 0 {
			return nil, fmt.Errorf("%s requires %q", tag, "pattern")
		}
		return s, nil
	case TypeSymlink:
		var s Symlink
		if err := decodeFields(rest, &s); err != nil {
			return nil, err
		}
		if s.Target == "" {
			return nil, fmt.Errorf("%s requires %q", tag, "target")
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown source type %q", tag)
	}
}

// decodeFields decodes fields into out, rejecting unknown keys.
func decodeFields(fields map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		TagName:     "mapstructure",
		ErrorUnused: true,
		DecodeHook:  mapstructure.ComposeDecodeHookFunc(oneOrManyHookFunc()),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(fields)
}

// oneOrManyHookFunc lets a list-of-strings field be written as a single
// string.
func oneOrManyHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String {
			return []string{reflect.ValueOf(data).String()}, nil
		}
		return data, nil
	}
}
