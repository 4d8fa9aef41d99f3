package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// fieldReader pulls typed fields out of a posted document. Every key it does
// not consume, and every typed key whose value does not fit its type, stays
// in the leftover map so the record can be stored as sent.
type fieldReader struct {
	src  map[string]any
	rest map[string]any
}

func newFieldReader(src map[string]any) *fieldReader {
	rest := make(map[string]any, len(src))
	for k, v := range src {
		rest[k] = v
	}
	return &fieldReader{src: src, rest: rest}
}

func (r *fieldReader) str(key string) string {
	v, ok := r.src[key]
	if !ok {
		return ""
	}
	if s, ok := asString(v); ok {
		delete(r.rest, key)
		return s
	}
	return ""
}

func (r *fieldReader) amount(key string) Amount {
	v, ok := r.src[key]
	if !ok {
		return 0
	}
	if a, ok := ParseAmount(v); ok {
		delete(r.rest, key)
		return a
	}
	return 0
}

// extra returns the unconsumed fields, or nil when there are none.
func (r *fieldReader) extra() map[string]any {
	if len(r.rest) == 0 {
		return nil
	}
	return r.rest
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case time.Time:
		return t.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}

// merge overlays extra onto fields. Extra wins so a value that did not fit
// its typed field is written back unchanged.
func merge(fields, extra map[string]any) map[string]any {
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

// OrderedKeys lists the keys of fields with the known ones first, in order,
// followed by the rest sorted. Stores that keep field order use it.
func OrderedKeys(fields map[string]any, known []string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func decodeObject(b []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
