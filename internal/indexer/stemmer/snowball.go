package stemmer

import (
	"fmt"

	"github.com/kljensen/snowball/english"

	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

// Snowball stems with the Snowball (Porter2) English algorithm.
type Snowball struct{}

// Stem implements Stemmer. Short terms are left alone to match Porter.
func (Snowball) Stem(term string) string {
	if len(term) <= 2 {
		return term
	}
	return english.Stem(term, true)
}

func (Snowball) String() string { return "snowball" }

// New returns the stemmer registered under name ("porter" or "snowball").
// An empty name selects Porter.
func New(name string) (Stemmer, error) {
	switch name {
	case "", "porter":
		return Porter{}, nil
	case "snowball":
		return Snowball{}, nil
	default:
		return nil, fmt.Errorf("stemmer %q: %w", name, apperrors.ErrInvalidInput)
	}
}
