package signature

import (
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/document"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/errors"
)

// MatchMode selects how a query signature is compared to a document's.
type MatchMode string

const (
	// MatchAll requires every query bit in the document (doc & q == q).
	MatchAll MatchMode = "and"
	// MatchAny requires at least one shared bit (doc & q != 0).
	MatchAny MatchMode = "or"
)

// ParseMatchMode accepts "and" or "or"; empty selects "and".
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchAll:
		return MatchAll, nil
	case MatchAny:
		return MatchAny, nil
	}
	return "", fmt.Errorf("signature match mode %q: %w", s, apperrors.ErrInvalidInput)
}

// Matches applies mode to a document and query signature. A query without
// any set bit matches nothing.
func (m MatchMode) Matches(doc, query Signature) bool {
	if query.IsZero() {
		return false
	}
	if m == MatchAny {
		return doc.Overlaps(query)
	}
	return doc.Contains(query)
}

type entry struct {
	docID int
	sig   Signature
}

// Store holds one signature per document, in collection order. It is
// immutable after Build returns.
type Store struct {
	cfg     Config
	opts    tokenizer.Options
	entries []entry
}

// Build computes the signature of every document's normalised terms.
func Build(cfg Config, docs document.Collection, n *tokenizer.Normalizer, opts tokenizer.Options) *Store {
	s := &Store{cfg: cfg, opts: opts, entries: make([]entry, 0, len(docs))}
	for _, doc := range docs {
		s.entries = append(s.entries, entry{
			docID: doc.ID,
			sig:   New(cfg, n.Normalize(doc.Terms, opts)),
		})
	}
	return s
}

// Config returns the signature parameters.
func (s *Store) Config() Config { return s.cfg }

// Options returns the normalisation the store was built with.
func (s *Store) Options() tokenizer.Options { return s.opts }

// Len returns the number of stored signatures.
func (s *Store) Len() int { return len(s.entries) }

// Signature returns the stored signature of docID.
func (s *Store) Signature(docID int) (Signature, bool) {
	for _, e := range s.entries {
		if e.docID == docID {
			return e.sig, true
		}
	}
	return Signature{}, false
}

// Match returns the ids of documents whose signature matches query under
// mode, in ascending order.
func (s *Store) Match(query Signature, mode MatchMode) []int {
	var ids []int
	for _, e := range s.entries {
		if mode.Matches(e.sig, query) {
			ids = append(ids, e.docID)
		}
	}
	sort.Ints(ids)
	return ids
}
