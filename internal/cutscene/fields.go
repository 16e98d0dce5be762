package cutscene

import (
	"encoding/json"
	"math"
)

// Fields holds the loosely typed keys of an authored object. Values come
// from JSON decoded with UseNumber, so numbers are usually json.Number, but
// documents built in Go may carry native ints and floats.
type Fields map[string]interface{}

// Has reports whether key is present, even with a null value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value for key if it is a string.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Bool returns the value for key if it is a boolean.
func (f Fields) Bool(key string) (bool, bool) {
	b, ok := f[key].(bool)
	return b, ok
}

// Int returns the value for key if it is an integral number.
func (f Fields) Int(key string) (int64, bool) {
	return asInt(f[key])
}

// Float returns the value for key if it is any number.
func (f Fields) Float(key string) (float64, bool) {
	return asFloat(f[key])
}

// List returns the value for key if it is a list.
func (f Fields) List(key string) ([]interface{}, bool) {
	l, ok := f[key].([]interface{})
	return l, ok
}

// StringList returns the value for key if it is a list made only of strings.
func (f Fields) StringList(key string) ([]string, bool) {
	switch v := f[key].(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Object returns the value for key if it is a nested object.
func (f Fields) Object(key string) (Fields, bool) {
	return AsFields(f[key])
}

// GotoTarget returns the fields naming a goto destination. Authors may nest
// them under a "goto" object or put them directly on the action.
func GotoTarget(f Fields) Fields {
	if target, ok := f.Object("goto"); ok {
		return target
	}
	return f
}

// AsFields converts a decoded JSON object to Fields.
func AsFields(v interface{}) (Fields, bool) {
	switch m := v.(type) {
	case Fields:
		return m, true
	case map[string]interface{}:
		return Fields(m), true
	}
	return nil, false
}

func asInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
