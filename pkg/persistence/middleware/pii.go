package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/ports"
)

// Mask replaces redacted attribute values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SaveStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks, at any depth, the values of attributes
// whose key matches one of the patterns. Player names and passwords live in
// current_player, player_id and password. Masking is one way: Load returns what was stored.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SaveStore) ports.SaveStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, id string, doc *document.Config) error {
	// The caller keeps using doc, so mask a copy.
	cloned := doc.Clone()
	m.mask(cloned)
	return m.next.Save(ctx, id, cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*document.Config, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) mask(doc *document.Config) {
	for _, a := range doc.Attributes() {
		if a.Value.Empty() {
			continue
		}
		for _, p := range m.patterns {
			if p.MatchString(a.Key) {
				doc.Set(a.Key, Mask)
				break
			}
		}
	}
	for _, ch := range doc.Children() {
		m.mask(ch.Config)
	}
}
