package utils

import (
	"fmt"
	"strconv"
)

// ToString converts various types to string using explicit type switching.
// Transaction metadata arrives as map[string]any after JSON decoding, so values
// that were written as numbers or booleans come back as float64/bool. This
// helper gives every value a stable textual form for key lookups and
// field-by-field comparison.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
