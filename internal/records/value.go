package records

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stringify renders a field value the way it is stored and embedded.
// The boolean result is false for nil values, which callers treat as absent.
func Stringify(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case json.Number:
		return val.String(), true
	case fmt.Stringer:
		return val.String(), true
	case []string:
		return strings.Join(val, ", "), true
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := Stringify(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), true
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val), true
		}
		return string(data), true
	}
}

// get returns the rendered value of key, or an empty slot when it is absent.
func (f Fields) get(key string) string {
	if f == nil {
		return ""
	}
	s, _ := Stringify(f[key])
	return strings.TrimSpace(s)
}

// FieldsFromMetadata lifts stored string metadata back into Fields.
func FieldsFromMetadata(meta map[string]string) Fields {
	fields := make(Fields, len(meta))
	for k, v := range meta {
		fields[k] = v
	}
	return fields
}
