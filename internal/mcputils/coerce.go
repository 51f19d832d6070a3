package mcputils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalidArguments wraps every argument binding failure.
var ErrInvalidArguments = errors.New("invalid arguments")

// ArgumentGetter is an interface for getting arguments from a request
type ArgumentGetter interface {
	GetArguments() map[string]any
}

// CoerceBindArguments binds MCP request arguments to a target struct using its
// json tags. Clients often send every parameter as a string, including
// JSON-encoded arrays, so strings are coerced into the target field's type.
func CoerceBindArguments[T any](request ArgumentGetter, target *T) error {
	rawArgs := request.GetArguments()
	if rawArgs == nil {
		rawArgs = map[string]any{}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonStringHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(rawArgs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// jsonStringHook decodes JSON-looking strings into slice, map, struct, bool
// and numeric targets. Anything else passes through untouched.
func jsonStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	raw := data.(string)
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Slice:
		if !looksLikeJSON(trimmed, '[', ']') {
			return data, nil
		}
		slicePtr := reflect.New(to)
		if err := json.Unmarshal([]byte(trimmed), slicePtr.Interface()); err == nil {
			return slicePtr.Elem().Interface(), nil
		}

	case reflect.Map, reflect.Struct:
		if !looksLikeJSON(trimmed, '{', '}') {
			return data, nil
		}
		var result any
		if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
			return result, nil
		}

	case reflect.Bool:
		if trimmed == "true" || trimmed == "false" {
			return trimmed == "true", nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		var result json.Number
		if err := json.Unmarshal([]byte(trimmed), &result); err == nil {
			return result, nil
		}
	}

	return data, nil
}

func looksLikeJSON(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}
