package utils

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// text returns the trimmed text form of a string or byte slice.
func text(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v), true
	case []byte:
		return strings.TrimSpace(string(v)), true
	}
	return "", false
}

// ToInt64 converts scalar document values to int64. Floats are truncated,
// booleans and unparseable text give zero.
func ToInt64(val any) int64 {
	if s, ok := text(val); ok {
		i, _ := strconv.ParseInt(s, 10, 64)
		return i
	}
	if val == nil {
		return 0
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.CanInt():
		return rv.Int()
	case rv.CanUint():
		return int64(rv.Uint())
	case rv.CanFloat():
		return int64(rv.Float())
	}
	return 0
}

// ToInt is ToInt64 narrowed to int.
func ToInt(val any) int {
	return int(ToInt64(val))
}

// ToFloat converts scalar document values to float64.
func ToFloat(val any) float64 {
	if s, ok := text(val); ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	if val == nil {
		return 0
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.CanFloat():
		return rv.Float()
	case rv.CanInt():
		return float64(rv.Int())
	case rv.CanUint():
		return float64(rv.Uint())
	}
	return 0
}

// ToBool reports whether val is true, the integer 1, or the text "1" or
// "true" in any case. Anything else is false.
func ToBool(val any) bool {
	if b, ok := val.(bool); ok {
		return b
	}
	if s, ok := text(val); ok {
		return s == "1" || strings.EqualFold(s, "true")
	}
	if val == nil {
		return false
	}
	rv := reflect.ValueOf(val)
	return (rv.CanInt() || rv.CanUint()) && ToInt64(val) == 1
}

// ToString renders val as text. Nil becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(val)
}
