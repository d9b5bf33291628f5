package schema

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind tags the runtime type of a cell value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

// Value is one cell of a schema-less dataset row: a tagged union over
// number, string, boolean and null. Columns are never declared ahead of
// time, so every access goes through an explicit runtime check.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsNumber returns the numeric reading of the value. Numeric strings parse;
// everything else reports false. Booleans and nulls are never numbers.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsBool returns the boolean reading of the value. The boolean-like strings
// true/false/yes/no are accepted.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.str)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

// Display returns the stringified form used for filtering and samples.
// Null displays as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// UnmarshalJSON decodes a scalar JSON token. Nested arrays and objects are
// kept as their raw text under KindString rather than rejected, so one odd
// cell cannot fail a whole dataset decode.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*v = Null()
		return nil
	case s == "true":
		*v = Bool(true)
		return nil
	case s == "false":
		*v = Bool(false)
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = String(str)
		return nil
	case strings.HasPrefix(s, "{") || strings.HasPrefix(s, "["):
		*v = String(s)
		return nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*v = Number(f)
		return nil
	}
}

// MarshalJSON encodes the tagged value back to its scalar JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// Row is a dynamic bag of column key to cell value.
type Row map[string]Value

// Get returns the value for a key; missing keys read as null.
func (r Row) Get(key string) Value {
	if v, ok := r[key]; ok {
		return v
	}
	return Null()
}
