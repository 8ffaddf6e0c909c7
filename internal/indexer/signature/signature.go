// Package signature implements superimposed-coding document signatures: a
// fixed-width bit vector per document in which every term sets a run of
// bits derived from its hash. Matching may report false positives but
// never false negatives.
package signature

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

const (
	DefaultWidth       = 64
	DefaultBitsPerTerm = 4
)

// Config fixes the signature width F and the number of bits D each term
// sets.
type Config struct {
	Width       int
	BitsPerTerm int
}

// DefaultConfig returns F=64, D=4.
func DefaultConfig() Config {
	return Config{Width: DefaultWidth, BitsPerTerm: DefaultBitsPerTerm}
}

// Validate rejects non-positive parameters and D greater than F.
func (c Config) Validate() error {
	if c.Width <= 0 || c.BitsPerTerm <= 0 {
		return fmt.Errorf("signature width %d and bits per term %d must be positive: %w",
			c.Width, c.BitsPerTerm, apperrors.ErrInvalidInput)
	}
	if c.BitsPerTerm > c.Width {
		return fmt.Errorf("bits per term %d exceeds width %d: %w",
			c.BitsPerTerm, c.Width, apperrors.ErrInvalidInput)
	}
	return nil
}

// Hash is the term hash: XXH64 with seed 0 over the term's UTF-8 bytes.
func Hash(term string) uint64 {
	return xxhash.Sum64String(term)
}

// Positions returns the D bit positions term sets: (h mod F + i) mod F.
func (c Config) Positions(term string) []int {
	start := int(Hash(term) % uint64(c.Width))
	pos := make([]int, c.BitsPerTerm)
	for i := range pos {
		pos[i] = (start + i) % c.Width
	}
	return pos
}

// Signature is an immutable F-bit vector stored in 64-bit words.
type Signature struct {
	width int
	words []uint64
}

// New folds the signatures of terms into one.
func New(c Config, terms []string) Signature {
	s := Signature{width: c.Width, words: make([]uint64, (c.Width+63)/64)}
	for _, t := range terms {
		for _, p := range c.Positions(t) {
			s.words[p/64] |= 1 << (uint(p) % 64)
		}
	}
	return s
}

// Width returns F.
func (s Signature) Width() int { return s.width }

// IsZero reports whether no bit is set.
func (s Signature) IsZero() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// OnesCount returns the number of set bits.
func (s Signature) OnesCount() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Test reports whether bit p is set.
func (s Signature) Test(p int) bool {
	if p < 0 || p >= s.width {
		return false
	}
	return s.words[p/64]&(1<<(uint(p)%64)) != 0
}

// Contains reports whether every bit of q is set in s (s & q == q).
func (s Signature) Contains(q Signature) bool {
	if len(q.words) != len(s.words) {
		return false
	}
	for i, w := range q.words {
		if s.words[i]&w != w {
			return false
		}
	}
	return true
}

// Overlaps reports whether s and q share any set bit (s & q != 0).
func (s Signature) Overlaps(q Signature) bool {
	n := min(len(s.words), len(q.words))
	for i := 0; i < n; i++ {
		if s.words[i]&q.words[i] != 0 {
			return true
		}
	}
	return false
}

// String renders the bits from position 0 to F-1.
func (s Signature) String() string {
	var b strings.Builder
	b.Grow(s.width)
	for p := 0; p < s.width; p++ {
		if s.Test(p) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
