package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// The YAML layout keeps attributes as plain string keys and stores child lists under
// bracketed keys, so an attribute and a child may share a name:
//
//	id: "s2"
//	"[side]":
//	  - id: "p1"
//
// Each run of consecutive children with one tag becomes one bracketed key. Interleaved
// children therefore repeat a key, and decoding appends the runs in document order:
//
//	"[side]": [{id: p1}]
//	"[event]": [{name: start}]
//	"[side]": [{id: p2}]

// MarshalYAML implements yaml.Marshaler.
func (c *Config) MarshalYAML() (any, error) {
	return c.toNode(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := fromNode(value)
	if err != nil {
		return err
	}
	c.Clear()
	c.Swap(decoded)
	return nil
}

// Marshal encodes the document as YAML.
func Marshal(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a YAML document. Empty input yields an empty document.
func Unmarshal(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes the document as YAML.
func Encode(w io.Writer, c *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.toNode()); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush document: %w", err)
	}
	return nil
}

// Decode reads one YAML document.
func Decode(r io.Reader) (*Config, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return fromNode(&root)
}

func childTag(key string) (string, bool) {
	if len(key) > 2 && strings.HasPrefix(key, "[") && strings.HasSuffix(key, "]") {
		return key[1 : len(key)-1], true
	}
	return "", false
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func (c *Config) toNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if c == nil {
		return n
	}
	for _, a := range c.attrs {
		n.Content = append(n.Content, strNode(a.Key), strNode(string(a.Value)))
	}

	var seq *yaml.Node
	last := ""
	for _, ch := range c.children {
		if seq == nil || ch.Tag != last {
			seq = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			n.Content = append(n.Content, strNode("["+ch.Tag+"]"), seq)
			last = ch.Tag
		}
		seq.Content = append(seq.Content, ch.Config.toNode())
	}
	return n
}

func fromNode(n *yaml.Node) (*Config, error) {
	for n.Kind == yaml.DocumentNode || n.Kind == yaml.AliasNode {
		if n.Kind == yaml.AliasNode {
			n = n.Alias
			continue
		}
		if len(n.Content) == 0 {
			return New(), nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return New(), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping, got %s", n.Line, kindName(n.Kind))
	}

	c := New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}

		tag, isChild := childTag(key)
		if !isChild {
			tag = key
		}

		switch val.Kind {
		case yaml.ScalarNode:
			if isChild {
				if val.Tag == "!!null" {
					continue
				}
				return nil, fmt.Errorf("line %d: child list %q holds a scalar", val.Line, key)
			}
			if val.Tag == "!!null" {
				c.Set(key, "")
			} else {
				c.Set(key, val.Value)
			}
		case yaml.MappingNode:
			child, err := fromNode(val)
			if err != nil {
				return nil, err
			}
			c.AddChild(tag, child)
		case yaml.SequenceNode:
			if !isChild && scalarSequence(val) {
				parts := make([]string, 0, len(val.Content))
				for _, item := range val.Content {
					parts = append(parts, item.Value)
				}
				c.Set(key, parts)
				continue
			}
			for _, item := range val.Content {
				child, err := fromNode(item)
				if err != nil {
					return nil, err
				}
				c.AddChild(tag, child)
			}
		default:
			return nil, fmt.Errorf("line %d: unsupported value for %q", val.Line, key)
		}
	}
	return c, nil
}

func scalarSequence(n *yaml.Node) bool {
	for _, item := range n.Content {
		if item.Kind != yaml.ScalarNode {
			return false
		}
	}
	return true
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}
