package common

import (
	"fmt"
)

// ParseStringOrArray parses a parameter that can be either a single
// string or an array of strings. A nil parameter means the field was
// omitted and yields a nil slice, which callers treat as "no values".
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, nil
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []any:
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// StringArg returns the named argument as a string, or the fallback
// when the argument is absent or not a string.
func StringArg(args map[string]any, name, fallback string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return fallback
}

// IntArg returns the named argument as an int64, or the fallback when
// the argument is absent. JSON numbers decode as float64, so that is
// the shape accepted here.
func IntArg(args map[string]any, name string, fallback int64) int64 {
	if v, ok := args[name].(float64); ok {
		return int64(v)
	}
	return fallback
}
