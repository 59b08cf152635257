package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a single attribute value. Values are stored as text and converted on read,
// so a document survives any codec without losing precision.
type Value string

// Str returns the raw text.
func (v Value) Str() string {
	return string(v)
}

// Empty reports whether the value holds no text.
func (v Value) Empty() bool {
	return v == ""
}

// Int parses the value as an integer, returning def when it is empty or malformed.
func (v Value) Int(def int) int {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return n
}

// Bool parses yes/no, true/false and on/off, returning def for anything else.
func (v Value) Bool(def bool) bool {
	switch strings.ToLower(strings.TrimSpace(string(v))) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	default:
		return def
	}
}

// List splits a comma separated value, trimming blanks and dropping empty items.
func (v Value) List() []string {
	if v.Empty() {
		return nil
	}
	parts := strings.Split(string(v), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValueOf formats a Go value the way documents store it.
// Booleans become yes/no, slices of strings are comma joined.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return ""
	case Value:
		return x
	case string:
		return Value(x)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case int:
		return Value(strconv.Itoa(x))
	case int64:
		return Value(strconv.FormatInt(x, 10))
	case int32:
		return Value(strconv.FormatInt(int64(x), 10))
	case uint32:
		return Value(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return Value(strconv.FormatUint(x, 10))
	case float64:
		return Value(strconv.FormatFloat(x, 'f', -1, 64))
	case []string:
		return Value(strings.Join(x, ","))
	case interface{ String() string }:
		return Value(x.String())
	default:
		return Value(fmt.Sprint(x))
	}
}
