package document

import (
	"fmt"
	"sort"
)

// FromMap builds a document from generic decoded data (YAML front matter, Lua tables, JSON).
// Scalars become attributes, maps become a single child and lists of maps become repeated
// children. Lists of scalars are comma joined. Keys are visited in sorted order because Go
// maps carry none.
func FromMap(m map[string]any) *Config {
	c := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := normalize(m[k]).(type) {
		case map[string]any:
			c.AddChild(k, FromMap(v))
		case []map[string]any:
			for _, item := range v {
				c.AddChild(k, FromMap(item))
			}
		case []any:
			if isTableList(v) {
				for _, item := range v {
					c.AddChild(k, FromMap(normalize(item).(map[string]any)))
				}
				continue
			}
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, ValueOf(item).Str())
			}
			c.Set(k, parts)
		case nil:
			c.Set(k, "")
		default:
			c.Set(k, v)
		}
	}
	return c
}

// normalize turns map[any]any, as produced by some YAML decoders, into map[string]any.
func normalize(v any) any {
	m, ok := v.(map[any]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[fmt.Sprint(k)] = val
	}
	return out
}

func isTableList(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if _, ok := normalize(item).(map[string]any); !ok {
			return false
		}
	}
	return true
}

// AttributeMap returns the attributes as a plain map, for struct decoding.
func (c *Config) AttributeMap() map[string]any {
	out := make(map[string]any, len(c.Attributes()))
	for _, a := range c.Attributes() {
		out[a.Key] = a.Value.Str()
	}
	return out
}
