package document

// Attr is a named attribute.
type Attr struct {
	Key   string
	Value Value
}

// Child is a tagged child document.
type Child struct {
	Tag    string
	Config *Config
}

// Config is an ordered tree of attributes and tagged children.
// The zero value is an empty document ready to use. A Config is not safe for concurrent use.
type Config struct {
	attrs    []Attr
	children []Child
}

// New returns an empty document.
func New() *Config {
	return &Config{}
}

// Get returns the attribute value, or "" when missing. A nil Config reads as empty.
func (c *Config) Get(key string) Value {
	if c == nil {
		return ""
	}
	for _, a := range c.attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// Has reports whether the attribute is present, even if empty.
func (c *Config) Has(key string) bool {
	if c == nil {
		return false
	}
	for _, a := range c.attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Set assigns the attribute, keeping its position if it already exists.
func (c *Config) Set(key string, v any) {
	val := ValueOf(v)
	for i := range c.attrs {
		if c.attrs[i].Key == key {
			c.attrs[i].Value = val
			return
		}
	}
	c.attrs = append(c.attrs, Attr{Key: key, Value: val})
}

// Remove drops the attribute if present.
func (c *Config) Remove(key string) {
	for i, a := range c.attrs {
		if a.Key == key {
			c.attrs = append(c.attrs[:i], c.attrs[i+1:]...)
			return
		}
	}
}

// Attributes returns the attributes in insertion order.
func (c *Config) Attributes() []Attr {
	if c == nil {
		return nil
	}
	out := make([]Attr, len(c.attrs))
	copy(out, c.attrs)
	return out
}

// Children returns every child in document order.
func (c *Config) Children() []Child {
	if c == nil {
		return nil
	}
	out := make([]Child, len(c.children))
	copy(out, c.children)
	return out
}

// Child returns the first child with the tag, or nil.
func (c *Config) Child(tag string) *Config {
	if c == nil {
		return nil
	}
	for _, ch := range c.children {
		if ch.Tag == tag {
			return ch.Config
		}
	}
	return nil
}

// ChildOrEmpty is Child but never returns nil.
func (c *Config) ChildOrEmpty(tag string) *Config {
	if ch := c.Child(tag); ch != nil {
		return ch
	}
	return New()
}

// ChildOrAdd returns the first child with the tag, appending an empty one if missing.
func (c *Config) ChildOrAdd(tag string) *Config {
	if ch := c.Child(tag); ch != nil {
		return ch
	}
	return c.AddChild(tag, nil)
}

// HasChild reports whether a child with the tag exists.
func (c *Config) HasChild(tag string) bool {
	return c.Child(tag) != nil
}

// ChildRange returns all children with the tag, in order. The returned documents are live.
func (c *Config) ChildRange(tag string) []*Config {
	if c == nil {
		return nil
	}
	var out []*Config
	for _, ch := range c.children {
		if ch.Tag == tag {
			out = append(out, ch.Config)
		}
	}
	return out
}

// ChildCount returns the number of children with the tag.
func (c *Config) ChildCount(tag string) int {
	return len(c.ChildRange(tag))
}

// AddChild appends child under tag and returns it. The document takes ownership of child;
// pass child.Clone() to keep using the original. A nil child appends an empty document.
func (c *Config) AddChild(tag string, child *Config) *Config {
	if child == nil {
		child = New()
	}
	c.children = append(c.children, Child{Tag: tag, Config: child})
	return child
}

// RemoveChildren drops every child with the tag.
func (c *Config) RemoveChildren(tag string) {
	kept := c.children[:0]
	for _, ch := range c.children {
		if ch.Tag != tag {
			kept = append(kept, ch)
		}
	}
	for i := len(kept); i < len(c.children); i++ {
		c.children[i] = Child{}
	}
	c.children = kept
}

// FindChild returns the first child with the tag whose key attribute equals value.
func (c *Config) FindChild(tag, key, value string) *Config {
	for _, ch := range c.ChildRange(tag) {
		if ch.Get(key).Str() == value {
			return ch
		}
	}
	return nil
}

// Empty reports whether the document has no attributes and no children.
func (c *Config) Empty() bool {
	return c == nil || (len(c.attrs) == 0 && len(c.children) == 0)
}

// Clear removes all content.
func (c *Config) Clear() {
	c.attrs = nil
	c.children = nil
}

// Swap exchanges the contents of two documents.
func (c *Config) Swap(other *Config) {
	c.attrs, other.attrs = other.attrs, c.attrs
	c.children, other.children = other.children, c.children
}

// Clone returns a deep copy. Cloning nil yields an empty document.
func (c *Config) Clone() *Config {
	out := New()
	if c == nil {
		return out
	}
	if len(c.attrs) > 0 {
		out.attrs = make([]Attr, len(c.attrs))
		copy(out.attrs, c.attrs)
	}
	if len(c.children) > 0 {
		out.children = make([]Child, len(c.children))
		for i, ch := range c.children {
			out.children[i] = Child{Tag: ch.Tag, Config: ch.Config.Clone()}
		}
	}
	return out
}

// Equal reports structural equality: same attributes in the same order and same children in the same order.
func (c *Config) Equal(other *Config) bool {
	if c.Empty() || other.Empty() {
		return c.Empty() && other.Empty()
	}
	if len(c.attrs) != len(other.attrs) || len(c.children) != len(other.children) {
		return false
	}
	for i := range c.attrs {
		if c.attrs[i] != other.attrs[i] {
			return false
		}
	}
	for i := range c.children {
		if c.children[i].Tag != other.children[i].Tag || !c.children[i].Config.Equal(other.children[i].Config) {
			return false
		}
	}
	return true
}

// Append copies every attribute (overwriting) and every child of other into c.
func (c *Config) Append(other *Config) {
	for _, a := range other.Attributes() {
		c.Set(a.Key, a.Value)
	}
	for _, ch := range other.Children() {
		c.AddChild(ch.Tag, ch.Config.Clone())
	}
}
