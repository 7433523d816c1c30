// Package envelope reconciles the response shapes of the backend services. Some
// services wrap payloads as {"data": ...}, others return bare arrays or objects.
package envelope

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// DataKey is the envelope field some services wrap payloads in.
const DataKey = "data"

// Normalize unwraps a {"data": ...} envelope. Nil stays nil, sequences are
// returned as-is, and any other value is returned unchanged.
func Normalize(raw any) any {
	if raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if data, ok := v[DataKey]; ok {
			return data
		}
		return v
	}
	return raw
}

// Decode normalizes raw and decodes the result into out using the json field
// names. Numeric ids decode into string fields and RFC3339 strings into time.Time.
func Decode(raw any, out any) error {
	normalized := Normalize(raw)
	if normalized == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       lenientTimeHook,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(normalized); err != nil {
		return fmt.Errorf("decode %T: %w", normalized, err)
	}
	return nil
}

// DecodeList decodes a collection response. A nil or empty response yields an
// empty, non-nil slice.
func DecodeList[T any](raw any) ([]T, error) {
	out := []T{}
	if err := Decode(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// lenientTimeHook parses timestamp strings into time.Time. Blank or unparseable
// values become the zero time instead of failing the whole decode.
func lenientTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		s := strings.TrimSpace(data.(string))
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, nil
	case reflect.Float64:
		return time.UnixMilli(int64(data.(float64))).UTC(), nil
	}
	if data == nil {
		return time.Time{}, nil
	}
	return data, nil
}
