// Package sniff recovers native scalar values from their textual form.
//
// Options are persisted as text. Detect maps that text back to a bool, nil,
// int, float64, or leaves it as a string. Format is the inverse used on the
// write path.
package sniff

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/kbukum/modeloptions/errors"
)

// Textual forms of the non-numeric scalars.
const (
	TextTrue  = "True"
	TextFalse = "False"
	TextNone  = "None"
)

// Detect returns the native value encoded by v.
//
// Only strings are coerced. Comparison for the literal keywords is
// case-insensitive; integers are preferred over floats, and any text that is
// neither is returned unchanged.
func Detect(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "none":
		return nil
	}

	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Format renders v as text that Detect maps back to v.
func Format(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return TextNone, nil
	case bool:
		if t {
			return TextTrue, nil
		}
		return TextFalse, nil
	case string:
		return t, nil
	case float64:
		return FormatFloat(t, 64), nil
	case float32:
		return FormatFloat(float64(t), 32), nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return "", errors.InvalidInput("value", "unsupported option value type").WithCause(err)
	}
	return s, nil
}

// FormatFloat renders f in its shortest form for bitSize, keeping a ".0" on
// integral values so that Detect reads them back as float64 rather than int.
func FormatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
