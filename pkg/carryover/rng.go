package carryover

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/aretw0/savestate/pkg/document"
)

// RNG is the shared random state of a campaign: a seed and the number of draws made from it.
// Replaying Calls draws from Seed reproduces the generator exactly.
type RNG struct {
	Seed  uint32
	Calls int
}

// NewSeed draws a fresh 31-bit seed.
func NewSeed() (uint32, error) {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]) & 0x7fffffff, nil
}

// ParseSeed reads a seed as documents store it (hex).
func ParseSeed(s string) (uint32, error) {
	seed, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid random_seed %q: %w", s, err)
	}
	return uint32(seed), nil
}

// RNGFromDocument reads random_seed (hex) and random_calls. A missing seed is 0. A seed
// that is not hex is replaced by a fresh one with no calls, since its stream is unknown.
func RNGFromDocument(doc *document.Config) RNG {
	raw := doc.Get("random_seed")
	if raw.Empty() {
		return RNG{Calls: doc.Get("random_calls").Int(0)}
	}
	seed, err := ParseSeed(raw.Str())
	if err != nil {
		fresh, _ := NewSeed()
		return RNG{Seed: fresh}
	}
	return RNG{Seed: seed, Calls: doc.Get("random_calls").Int(0)}
}

// SeedString formats the seed the way documents store it.
func (r RNG) SeedString() string {
	return strconv.FormatUint(uint64(r.Seed), 16)
}

// Write stores the state on doc.
func (r RNG) Write(doc *document.Config) {
	doc.Set("random_seed", r.SeedString())
	doc.Set("random_calls", r.Calls)
}

// Rotate derives the next seed from the current generator position and resets the call count.
// It is deterministic: the same (Seed, Calls) always rotates to the same seed. The cost does
// not depend on Calls.
func (r *RNG) Rotate() {
	pos := uint64(r.Seed) + uint64(r.Calls)
	src := rand.NewPCG(pos, pos^0x9e3779b97f4a7c15)
	r.Seed = uint32(src.Uint64()) & 0x7fffffff
	r.Calls = 0
}
