package document

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a stable content hash of the document. Attribute and child order
// are part of the content, so two documents hash equal only if Equal would agree.
func (c *Config) Hash() string {
	d := xxhash.New()
	c.writeHash(d)
	return fmt.Sprintf("%016x", d.Sum64())
}

func (c *Config) writeHash(d *xxhash.Digest) {
	if c == nil {
		return
	}
	for _, a := range c.attrs {
		_, _ = d.WriteString(a.Key)
		_, _ = d.Write([]byte{'='})
		_, _ = d.WriteString(string(a.Value))
		_, _ = d.Write([]byte{0})
	}
	for _, ch := range c.children {
		_, _ = d.Write([]byte{'['})
		_, _ = d.WriteString(ch.Tag)
		_, _ = d.Write([]byte{']'})
		ch.Config.writeHash(d)
		_, _ = d.Write([]byte{'[', '/', ']'})
	}
}
