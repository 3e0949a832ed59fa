package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String returns args[key] as trimmed text. Numbers and booleans are
// formatted; missing or other values yield "".
func String(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns args[key] as an int. JSON numbers arrive as float64 and must
// be whole; numeric strings are parsed.
func Int(args map[string]any, key string) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingRequiredArg, key)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidArgType, key)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidArgType, key)
		}
		// 2^63 itself is not representable, so the upper bound is exclusive.
		if v < math.MinInt || v >= -float64(math.MinInt) {
			return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidArgType, key)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidArgType, key)
		}
		if n < math.MinInt || n > math.MaxInt {
			return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidArgType, key)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidArgType, key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidArgType, key)
	}
}

// OptionalInt is Int with a default for absent keys.
func OptionalInt(args map[string]any, key string, def int) (int, error) {
	if v, ok := args[key]; !ok || v == nil || v == "" {
		return def, nil
	}
	return Int(args, key)
}

// Float returns args[key] as a float64 and whether it was present and numeric.
func Float(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool returns args[key] as a bool. Strings "true", "yes" and "1" count.
func Bool(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

// StringSlice returns args[key] as a list of non-empty trimmed strings.
// A single string is split on commas.
func StringSlice(args map[string]any, key string) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch v := args[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}
	return out
}
