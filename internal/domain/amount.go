package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a monetary value. Browser forms frequently post numbers as
// strings, so numeric strings are accepted too.
type Amount float64

// ParseAmount converts a decoded document value into an Amount. It reports
// false for values that are not numeric, which callers keep as sent.
func ParseAmount(v any) (Amount, bool) {
	switch t := v.(type) {
	case float64:
		return Amount(t), true
	case float32:
		return Amount(t), true
	case int:
		return Amount(t), true
	case int32:
		return Amount(t), true
	case int64:
		return Amount(t), true
	case json.Number:
		f, err := t.Float64()
		return Amount(f), err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return Amount(f), true
	default:
		return 0, false
	}
}
