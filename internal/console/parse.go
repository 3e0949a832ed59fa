package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrBadCall is returned for malformed /call lines.
var ErrBadCall = errors.New("usage: /call <tool> key=value")

// ParseCall splits "tool k=v k2=\"two words\"" into a tool name and typed
// arguments. Values that parse as integers, floats or booleans are
// converted; everything else stays a string.
func ParseCall(s string) (string, map[string]any, error) {
	fields, err := splitFields(s)
	if err != nil {
		return "", nil, err
	}
	if len(fields) == 0 {
		return "", nil, ErrBadCall
	}

	args := make(map[string]any, len(fields)-1)
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return "", nil, fmt.Errorf("%w: %q is not key=value", ErrBadCall, f)
		}
		args[key] = typedValue(value)
	}
	return fields[0], args, nil
}

func typedValue(v string) any {
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

// splitFields splits on whitespace, keeping double-quoted runs together.
func splitFields(s string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote", ErrBadCall)
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
